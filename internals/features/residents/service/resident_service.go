// file: internals/features/residents/service/resident_service.go
package service

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	activitymodel "iplku_backend/internals/features/activitylogs/model"
	activity "iplku_backend/internals/features/activitylogs/service"
	paymentmodel "iplku_backend/internals/features/ipl/payments/model"
	model "iplku_backend/internals/features/residents/model"
)

var (
	ErrDuplicateBlock   = errors.New("blok dan nomor rumah sudah terdaftar")
	ErrResidentNotFound = errors.New("data warga tidak ditemukan")
)

type ResidentService struct {
	DB *gorm.DB
}

func NewResidentService(db *gorm.DB) *ResidentService {
	return &ResidentService{DB: db}
}

/* =========================================================
   Query
   ========================================================= */

type ListFilters struct {
	Search string // substring nama_warga atau blok_nomor_rumah
	Status string
	Offset int
	Limit  int
}

func (s *ResidentService) List(f ListFilters) ([]model.Resident, int64, error) {
	db := s.DB.Model(&model.Resident{})

	if q := strings.TrimSpace(f.Search); q != "" {
		pat := "%" + strings.ToLower(q) + "%"
		db = db.Where("LOWER(nama_warga) LIKE ? OR LOWER(blok_nomor_rumah) LIKE ?", pat, pat)
	}
	if f.Status != "" {
		db = db.Where("status = ?", f.Status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.Resident
	q := db.Order("blok_nomor_rumah ASC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListActive: semua warga aktif, urut blok (dipakai form pilih warga).
func (s *ResidentService) ListActive() ([]model.Resident, error) {
	var rows []model.Resident
	err := model.ScopeActive(s.DB.Model(&model.Resident{})).
		Order("blok_nomor_rumah ASC").
		Find(&rows).Error
	return rows, err
}

func (s *ResidentService) Get(id uint) (*model.Resident, error) {
	var row model.Resident
	if err := s.DB.First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResidentNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (s *ResidentService) CountAll() (int64, error) {
	var n int64
	err := s.DB.Model(&model.Resident{}).Count(&n).Error
	return n, err
}

/* =========================================================
   Mutasi
   ========================================================= */

type ResidentInput struct {
	NamaWarga         string
	BlokNomorRumah    string
	DefaultNominalIpl float64
	Status            string
}

func (s *ResidentService) Create(actor activity.Actor, in ResidentInput) (*model.Resident, error) {
	var created model.Resident

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Resident{}).
			Where("blok_nomor_rumah = ?", in.BlokNomorRumah).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateBlock
		}

		created = model.Resident{
			NamaWarga:         in.NamaWarga,
			BlokNomorRumah:    in.BlokNomorRumah,
			DefaultNominalIpl: in.DefaultNominalIpl,
			Status:            in.Status,
		}
		if err := tx.Create(&created).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateBlock
			}
			return err
		}

		return activity.Record(tx, actor,
			activitymodel.ActionCreated, activitymodel.EntityResident,
			activity.EntityID(created.ID), nil, created)
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *ResidentService) Update(actor activity.Actor, id uint, in ResidentInput) (*model.Resident, error) {
	var updated model.Resident

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var existing model.Resident
		if err := tx.First(&existing, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrResidentNotFound
			}
			return err
		}

		var count int64
		if err := tx.Model(&model.Resident{}).
			Where("blok_nomor_rumah = ? AND id <> ?", in.BlokNomorRumah, id).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateBlock
		}

		oldSnapshot := existing

		existing.NamaWarga = in.NamaWarga
		existing.BlokNomorRumah = in.BlokNomorRumah
		existing.DefaultNominalIpl = in.DefaultNominalIpl
		existing.Status = in.Status

		if err := tx.Save(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateBlock
			}
			return err
		}
		updated = existing

		return activity.Record(tx, actor,
			activitymodel.ActionUpdated, activitymodel.EntityResident,
			activity.EntityID(existing.ID), oldSnapshot, existing)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete menghapus warga beserta seluruh tagihan IPL-nya. Tagihan dihapus
// eksplisit di transaksi yang sama (FK cascade di storage tetap ada sebagai
// jaring pengaman).
func (s *ResidentService) Delete(actor activity.Actor, id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var existing model.Resident
		if err := tx.First(&existing, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrResidentNotFound
			}
			return err
		}

		if err := tx.Delete(&paymentmodel.IplPayment{}, "resident_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.Resident{}, "id = ?", id).Error; err != nil {
			return err
		}

		return activity.Record(tx, actor,
			activitymodel.ActionDeleted, activitymodel.EntityResident,
			activity.EntityID(existing.ID), existing, nil)
	})
}
