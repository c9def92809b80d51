// file: internals/features/activitylogs/service/activity_log_service.go
package service

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	model "iplku_backend/internals/features/activitylogs/model"
)

/* =========================================================
   Recorder (append-only)
   ========================================================= */

// Actor adalah identitas pelaku mutasi, diambil dari token & request.
type Actor struct {
	UserID    uuid.UUID
	IPAddress string
	UserAgent string
}

// EntityID helper untuk literal pointer.
func EntityID(id uint) *uint { return &id }

// Record menambahkan satu baris audit. Dipanggil di dalam transaksi mutasi
// pemanggil supaya tulis-data dan tulis-log atomik (dua-duanya atau tidak sama
// sekali). Tidak pernah gagal selain karena storage.
func Record(
	tx *gorm.DB,
	actor Actor,
	action model.Action,
	entityType model.EntityType,
	entityID *uint,
	oldValues, newValues any,
) error {
	row := model.ActivityLog{
		UserID:     actor.UserID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
	}
	if actor.IPAddress != "" {
		ip := actor.IPAddress
		row.IPAddress = &ip
	}
	if actor.UserAgent != "" {
		ua := actor.UserAgent
		row.UserAgent = &ua
	}

	var err error
	if row.OldValues, err = toJSON(oldValues); err != nil {
		return err
	}
	if row.NewValues, err = toJSON(newValues); err != nil {
		return err
	}

	return tx.Create(&row).Error
}

func toJSON(v any) (datatypes.JSON, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

/* =========================================================
   Query
   ========================================================= */

type ActivityLogService struct {
	DB *gorm.DB
}

func NewActivityLogService(db *gorm.DB) *ActivityLogService {
	return &ActivityLogService{DB: db}
}

// ListFilters: semua opsional; tanggal dipakai inklusif
// (start_date jam 00:00:00, end_date jam 23:59:59).
type ListFilters struct {
	UserID     *uuid.UUID
	Action     string
	EntityType string
	StartDate  *time.Time // tanggal kalender, jam diabaikan
	EndDate    *time.Time
	Offset     int
	Limit      int
}

func (s *ActivityLogService) List(f ListFilters) ([]model.ActivityLog, int64, error) {
	db := s.DB.Model(&model.ActivityLog{})

	if f.UserID != nil {
		db = db.Where("user_id = ?", *f.UserID)
	}
	if f.Action != "" {
		db = db.Where("action = ?", f.Action)
	}
	if f.EntityType != "" {
		db = db.Where("entity_type = ?", f.EntityType)
	}
	if f.StartDate != nil {
		start := startOfDay(*f.StartDate)
		db = db.Where("created_at >= ?", start)
	}
	if f.EndDate != nil {
		end := startOfDay(*f.EndDate).Add(24*time.Hour - time.Second)
		db = db.Where("created_at <= ?", end)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.ActivityLog
	q := db.Preload("User").Order("created_at DESC, id DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (s *ActivityLogService) Get(id uint) (*model.ActivityLog, error) {
	var row model.ActivityLog
	if err := s.DB.Preload("User").First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Recent mengambil n log terbaru (dipakai dashboard & data-sync).
func (s *ActivityLogService) Recent(n int, entityType string) ([]model.ActivityLog, error) {
	db := s.DB.Model(&model.ActivityLog{})
	if entityType != "" {
		db = db.Where("entity_type = ?", entityType)
	}
	var rows []model.ActivityLog
	err := db.Preload("User").Order("created_at DESC, id DESC").Limit(n).Find(&rows).Error
	return rows, err
}

// DistinctActions dan DistinctEntityTypes untuk dropdown filter audit.
func (s *ActivityLogService) DistinctActions() ([]string, error) {
	var out []string
	err := s.DB.Model(&model.ActivityLog{}).Distinct("action").Order("action").Pluck("action", &out).Error
	return out, err
}

func (s *ActivityLogService) DistinctEntityTypes() ([]string, error) {
	var out []string
	err := s.DB.Model(&model.ActivityLog{}).Distinct("entity_type").Order("entity_type").Pluck("entity_type", &out).Error
	return out, err
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
