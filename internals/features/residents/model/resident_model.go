// file: internals/features/residents/model/resident_model.go
package model

import (
	"time"

	"gorm.io/gorm"
)

/* =========================
   Status warga
   ========================= */

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

/* =========================
   Model: residents
   ========================= */

// Resident adalah data warga perumahan. Nama kolom mengikuti skema lama
// (nama_warga, blok_nomor_rumah, dst) supaya kompatibel dengan data yang sudah ada.
type Resident struct {
	ID uint `json:"id" gorm:"primaryKey"`

	NamaWarga      string `json:"nama_warga"        gorm:"column:nama_warga;size:255;not null;index"`
	BlokNomorRumah string `json:"blok_nomor_rumah"  gorm:"column:blok_nomor_rumah;size:255;not null;uniqueIndex"` // contoh: D1/No.1

	DefaultNominalIpl float64 `json:"default_nominal_ipl" gorm:"column:default_nominal_ipl;type:numeric(12,2);not null;default:90000"`
	Status            string  `json:"status"              gorm:"column:status;type:varchar(10);not null;default:'active';index"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Resident) TableName() string { return "residents" }

/* =========================
   Scopes
   ========================= */

func ScopeActive(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", StatusActive)
}
