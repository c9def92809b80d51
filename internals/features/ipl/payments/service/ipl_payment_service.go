// file: internals/features/ipl/payments/service/ipl_payment_service.go
package service

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	activitymodel "iplku_backend/internals/features/activitylogs/model"
	activity "iplku_backend/internals/features/activitylogs/service"
	model "iplku_backend/internals/features/ipl/payments/model"
	ResidentModel "iplku_backend/internals/features/residents/model"
)

// DefaultOverdueMonths: tagihan unpaid dianggap menunggak setelah umur ini.
const DefaultOverdueMonths = 3

var (
	ErrDuplicatePayment = errors.New("data IPL untuk warga ini pada periode yang sama sudah ada")
	ErrPaymentNotFound  = errors.New("data IPL tidak ditemukan")
	ErrResidentNotFound = errors.New("warga yang dipilih tidak valid")
)

type PaymentService struct {
	DB *gorm.DB
	// Now bisa diganti di test; default time.Now
	Now func() time.Time
}

func NewPaymentService(db *gorm.DB) *PaymentService {
	return &PaymentService{DB: db, Now: time.Now}
}

/* =========================================================
   List (filter + join resident)
   ========================================================= */

type ListFilters struct {
	Search string // substring nama_warga ATAU blok_nomor_rumah, case-insensitive
	Year   int
	Month  string
	Status string
	Offset int
	Limit  int
}

func (s *PaymentService) List(f ListFilters) ([]model.IplPayment, int64, error) {
	db := s.DB.Model(&model.IplPayment{})

	if q := strings.TrimSpace(f.Search); q != "" {
		pat := "%" + strings.ToLower(q) + "%"
		db = db.Joins("JOIN residents ON residents.id = ipl_payments.resident_id").
			Where("LOWER(residents.nama_warga) LIKE ? OR LOWER(residents.blok_nomor_rumah) LIKE ?", pat, pat)
	}
	if f.Year != 0 {
		db = db.Where("tahun_periode = ?", f.Year)
	}
	if f.Month != "" {
		db = db.Where("bulan_ipl = ?", f.Month)
	}
	if f.Status != "" {
		db = db.Where("status_pembayaran = ?", f.Status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.IplPayment
	q := db.Preload("Resident").
		Order("ipl_payments.created_at DESC, ipl_payments.id DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

/* =========================================================
   Mutasi (selalu satu transaksi: cek duplikat + tulis + log)
   ========================================================= */

type PaymentInput struct {
	ResidentID       uint
	NominalIpl       float64
	TahunPeriode     int
	BulanIpl         string
	StatusPembayaran string
	RumahKosong      bool
	Notes            *string
}

func (s *PaymentService) Create(actor activity.Actor, in PaymentInput) (*model.IplPayment, error) {
	var created model.IplPayment

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var resident ResidentModel.Resident
		if err := tx.First(&resident, "id = ?", in.ResidentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrResidentNotFound
			}
			return err
		}

		// Cek duplikat dulu supaya bisa kasih pesan ramah; constraint
		// unique_ipl_payment tetap jadi penjaga terakhir kalau ada race.
		var count int64
		if err := tx.Model(&model.IplPayment{}).
			Where("resident_id = ? AND tahun_periode = ? AND bulan_ipl = ?",
				in.ResidentID, in.TahunPeriode, in.BulanIpl).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicatePayment
		}

		// nomor urut berikutnya; unique index di kolom nomor menjaga kalau
		// dua create bersamaan sama-sama membaca MAX yang sama
		var next int
		if err := tx.Model(&model.IplPayment{}).
			Select("COALESCE(MAX(nomor), 0) + 1").Scan(&next).Error; err != nil {
			return err
		}

		created = model.IplPayment{
			Nomor:            next,
			ResidentID:       in.ResidentID,
			NominalIpl:       in.NominalIpl,
			TahunPeriode:     in.TahunPeriode,
			BulanIpl:         in.BulanIpl,
			StatusPembayaran: in.StatusPembayaran,
			RumahKosong:      in.RumahKosong,
			Notes:            in.Notes,
		}
		if err := tx.Create(&created).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicatePayment
			}
			return err
		}
		created.Resident = &resident

		return activity.Record(tx, actor,
			activitymodel.ActionCreated, activitymodel.EntityIplPayment,
			activity.EntityID(created.ID), nil, snapshotOf(&created))
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *PaymentService) Update(actor activity.Actor, id uint, in PaymentInput) (*model.IplPayment, error) {
	var updated model.IplPayment

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var existing model.IplPayment
		if err := tx.First(&existing, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPaymentNotFound
			}
			return err
		}

		// resident tujuan harus ada (update boleh mindahin tagihan ke warga lain)
		var resident ResidentModel.Resident
		if err := tx.First(&resident, "id = ?", in.ResidentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrResidentNotFound
			}
			return err
		}

		// cek duplikat periode, kecuali record ini sendiri
		var count int64
		if err := tx.Model(&model.IplPayment{}).
			Where("resident_id = ? AND tahun_periode = ? AND bulan_ipl = ? AND id <> ?",
				in.ResidentID, in.TahunPeriode, in.BulanIpl, id).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicatePayment
		}

		oldSnapshot := snapshotOf(&existing)

		existing.ResidentID = in.ResidentID
		existing.NominalIpl = in.NominalIpl
		existing.TahunPeriode = in.TahunPeriode
		existing.BulanIpl = in.BulanIpl
		existing.StatusPembayaran = in.StatusPembayaran
		existing.RumahKosong = in.RumahKosong
		existing.Notes = in.Notes

		if err := tx.Save(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicatePayment
			}
			return err
		}
		updated = existing

		return activity.Record(tx, actor,
			activitymodel.ActionUpdated, activitymodel.EntityIplPayment,
			activity.EntityID(existing.ID), oldSnapshot, snapshotOf(&existing))
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *PaymentService) Delete(actor activity.Actor, id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var existing model.IplPayment
		if err := tx.First(&existing, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPaymentNotFound
			}
			return err
		}

		if err := tx.Delete(&model.IplPayment{}, "id = ?", id).Error; err != nil {
			return err
		}

		return activity.Record(tx, actor,
			activitymodel.ActionDeleted, activitymodel.EntityIplPayment,
			activity.EntityID(existing.ID), snapshotOf(&existing), nil)
	})
}

/* =========================================================
   Query turunan
   ========================================================= */

func (s *PaymentService) Get(id uint) (*model.IplPayment, error) {
	var row model.IplPayment
	if err := s.DB.Preload("Resident").First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &row, nil
}

// ListOverdue mengambil semua tunggakan (unpaid yang lewat `months` bulan).
// Tanpa pagination; pemanggil yang membatasi tampilan.
func (s *PaymentService) ListOverdue(months int, basis model.OverdueBasis) ([]model.IplPayment, error) {
	if months <= 0 {
		months = DefaultOverdueMonths
	}
	var rows []model.IplPayment
	err := s.DB.Model(&model.IplPayment{}).
		Scopes(model.ScopeOverdue(months, basis, s.Now())).
		Preload("Resident").
		Find(&rows).Error
	return rows, err
}

func (s *PaymentService) CountOverdue(months int, basis model.OverdueBasis) (int64, error) {
	if months <= 0 {
		months = DefaultOverdueMonths
	}
	var n int64
	err := s.DB.Model(&model.IplPayment{}).
		Scopes(model.ScopeOverdue(months, basis, s.Now())).
		Count(&n).Error
	return n, err
}

func (s *PaymentService) CountPaid() (int64, error) {
	var n int64
	err := model.ScopePaid(s.DB.Model(&model.IplPayment{})).Count(&n).Error
	return n, err
}

func (s *PaymentService) CountUnpaid() (int64, error) {
	var n int64
	err := model.ScopeUnpaid(s.DB.Model(&model.IplPayment{})).Count(&n).Error
	return n, err
}

func (s *PaymentService) CountAll() (int64, error) {
	var n int64
	err := s.DB.Model(&model.IplPayment{}).Count(&n).Error
	return n, err
}

// snapshotOf menyalin record tanpa relasi, untuk snapshot audit.
func snapshotOf(p *model.IplPayment) model.IplPayment {
	cp := *p
	cp.Resident = nil
	return cp
}
