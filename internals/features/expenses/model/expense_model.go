// file: internals/features/expenses/model/expense_model.go
package model

import (
	"time"
)

// Expense adalah pengeluaran lain-lain kas lingkungan. Tidak ada aturan unik;
// dua pengeluaran identik sah-sah saja.
type Expense struct {
	ID uint `json:"id" gorm:"primaryKey"`

	Description string    `json:"description"        gorm:"column:description;size:255;not null"`
	Amount      float64   `json:"amount"             gorm:"column:amount;type:numeric(12,2);not null"`
	ExpenseDate time.Time `json:"expense_date"       gorm:"column:expense_date;type:date;not null;index"`
	Category    *string   `json:"category,omitempty" gorm:"column:category;size:255;index"`
	Notes       *string   `json:"notes,omitempty"    gorm:"column:notes;type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Expense) TableName() string { return "expenses" }
