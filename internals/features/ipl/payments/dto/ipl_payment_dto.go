// file: internals/features/ipl/payments/dto/ipl_payment_dto.go
package dto

import (
	service "iplku_backend/internals/features/ipl/payments/service"
)

/* =========================================================
   REQUEST: Create / Update (field sama, dipakai dua-duanya)
   ========================================================= */

type IplPaymentRequest struct {
	ResidentID   uint    `json:"resident_id"   validate:"required"`
	NominalIpl   float64 `json:"nominal_ipl"   validate:"min=0"`
	TahunPeriode int     `json:"tahun_periode" validate:"required,min=2020,max=2050"`
	BulanIpl     string  `json:"bulan_ipl"     validate:"required,oneof=januari februari maret april mei juni juli agustus september oktober november desember"`

	StatusPembayaran string  `json:"status_pembayaran" validate:"required,oneof=paid unpaid exempt"`
	RumahKosong      bool    `json:"rumah_kosong"`
	Notes            *string `json:"notes" validate:"omitempty,max=1000"`
}

func (r *IplPaymentRequest) ToInput() service.PaymentInput {
	return service.PaymentInput{
		ResidentID:       r.ResidentID,
		NominalIpl:       r.NominalIpl,
		TahunPeriode:     r.TahunPeriode,
		BulanIpl:         r.BulanIpl,
		StatusPembayaran: r.StatusPembayaran,
		RumahKosong:      r.RumahKosong,
		Notes:            r.Notes,
	}
}

/* =========================================================
   Payload form (dropdown bulan & preset nominal)
   ========================================================= */

// MonthLabels: nilai tersimpan → label tampilan.
var MonthLabels = map[string]string{
	"januari": "Januari", "februari": "Februari", "maret": "Maret",
	"april": "April", "mei": "Mei", "juni": "Juni",
	"juli": "Juli", "agustus": "Agustus", "september": "September",
	"oktober": "Oktober", "november": "November", "desember": "Desember",
}

// PresetAmounts: pilihan nominal IPL yang umum dipakai perumahan.
var PresetAmounts = map[int]string{
	90000: "Rp 90.000 (Standard)",
	75000: "Rp 75.000 (Khusus)",
	60000: "Rp 60.000 (Khusus)",
}
