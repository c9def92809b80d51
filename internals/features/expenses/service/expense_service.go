// file: internals/features/expenses/service/expense_service.go
package service

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	activitymodel "iplku_backend/internals/features/activitylogs/model"
	activity "iplku_backend/internals/features/activitylogs/service"
	model "iplku_backend/internals/features/expenses/model"
)

var ErrExpenseNotFound = errors.New("data pengeluaran tidak ditemukan")

type ExpenseService struct {
	DB *gorm.DB
}

func NewExpenseService(db *gorm.DB) *ExpenseService {
	return &ExpenseService{DB: db}
}

/* =========================================================
   Query
   ========================================================= */

type ListFilters struct {
	Search    string // substring description ATAU category, case-insensitive
	Category  string
	StartDate *time.Time // inklusif
	EndDate   *time.Time // inklusif
	Offset    int
	Limit     int
}

func (s *ExpenseService) List(f ListFilters) ([]model.Expense, int64, error) {
	db := s.DB.Model(&model.Expense{})

	if q := strings.TrimSpace(f.Search); q != "" {
		pat := "%" + strings.ToLower(q) + "%"
		db = db.Where("LOWER(description) LIKE ? OR LOWER(COALESCE(category, '')) LIKE ?", pat, pat)
	}
	if f.Category != "" {
		db = db.Where("category = ?", f.Category)
	}
	if f.StartDate != nil {
		db = db.Where("expense_date >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		db = db.Where("expense_date <= ?", *f.EndDate)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.Expense
	q := db.Order("expense_date DESC, id DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (s *ExpenseService) Get(id uint) (*model.Expense, error) {
	var row model.Expense
	if err := s.DB.First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExpenseNotFound
		}
		return nil, err
	}
	return &row, nil
}

// DistinctCategories untuk dropdown filter (kategori kosong dilewati).
func (s *ExpenseService) DistinctCategories() ([]string, error) {
	var out []string
	err := s.DB.Model(&model.Expense{}).
		Where("category IS NOT NULL AND category <> ''").
		Distinct("category").Order("category").
		Pluck("category", &out).Error
	return out, err
}

/* =========================================================
   Mutasi
   ========================================================= */

type ExpenseInput struct {
	Description string
	Amount      float64
	ExpenseDate time.Time
	Category    *string
	Notes       *string
}

func (s *ExpenseService) Create(actor activity.Actor, in ExpenseInput) (*model.Expense, error) {
	var created model.Expense

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		created = model.Expense{
			Description: in.Description,
			Amount:      in.Amount,
			ExpenseDate: in.ExpenseDate,
			Category:    in.Category,
			Notes:       in.Notes,
		}
		if err := tx.Create(&created).Error; err != nil {
			return err
		}

		return activity.Record(tx, actor,
			activitymodel.ActionCreated, activitymodel.EntityExpense,
			activity.EntityID(created.ID), nil, created)
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *ExpenseService) Update(actor activity.Actor, id uint, in ExpenseInput) (*model.Expense, error) {
	var updated model.Expense

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var existing model.Expense
		if err := tx.First(&existing, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrExpenseNotFound
			}
			return err
		}

		oldSnapshot := existing

		existing.Description = in.Description
		existing.Amount = in.Amount
		existing.ExpenseDate = in.ExpenseDate
		existing.Category = in.Category
		existing.Notes = in.Notes

		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		updated = existing

		return activity.Record(tx, actor,
			activitymodel.ActionUpdated, activitymodel.EntityExpense,
			activity.EntityID(existing.ID), oldSnapshot, existing)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *ExpenseService) Delete(actor activity.Actor, id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var existing model.Expense
		if err := tx.First(&existing, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrExpenseNotFound
			}
			return err
		}

		if err := tx.Delete(&model.Expense{}, "id = ?", id).Error; err != nil {
			return err
		}

		return activity.Record(tx, actor,
			activitymodel.ActionDeleted, activitymodel.EntityExpense,
			activity.EntityID(existing.ID), existing, nil)
	})
}
