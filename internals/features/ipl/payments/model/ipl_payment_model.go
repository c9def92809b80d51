// file: internals/features/ipl/payments/model/ipl_payment_model.go
package model

import (
	"time"

	"gorm.io/gorm"

	ResidentModel "iplku_backend/internals/features/residents/model"
)

/* =========================
   Status pembayaran
   ========================= */

const (
	StatusPaid   = "paid"
	StatusUnpaid = "unpaid"
	StatusExempt = "exempt"
)

func IsValidStatus(s string) bool {
	return s == StatusPaid || s == StatusUnpaid || s == StatusExempt
}

/* =========================
   Bulan IPL (nilai tersimpan, jangan diubah)
   ========================= */

// ValidMonths adalah 12 nilai bulan persis seperti yang tersimpan di kolom
// bulan_ipl. Nilai-nilai ini juga dipakai di wire format, jadi harus tetap
// lowercase bahasa Indonesia.
var ValidMonths = []string{
	"januari", "februari", "maret", "april", "mei", "juni",
	"juli", "agustus", "september", "oktober", "november", "desember",
}

// MonthIndex memetakan bulan_ipl ke urutan kalender 1..12.
var MonthIndex = map[string]int{
	"januari": 1, "februari": 2, "maret": 3, "april": 4,
	"mei": 5, "juni": 6, "juli": 7, "agustus": 8,
	"september": 9, "oktober": 10, "november": 11, "desember": 12,
}

func IsValidMonth(m string) bool {
	_, ok := MonthIndex[m]
	return ok
}

// bulanIplOrdinalSQL menerjemahkan bulan_ipl ke angka 1..12 di SQL
// (dipakai basis overdue "periode"; CASE supaya jalan di Postgres maupun SQLite).
const bulanIplOrdinalSQL = `CASE bulan_ipl
	WHEN 'januari' THEN 1 WHEN 'februari' THEN 2 WHEN 'maret' THEN 3
	WHEN 'april' THEN 4 WHEN 'mei' THEN 5 WHEN 'juni' THEN 6
	WHEN 'juli' THEN 7 WHEN 'agustus' THEN 8 WHEN 'september' THEN 9
	WHEN 'oktober' THEN 10 WHEN 'november' THEN 11 WHEN 'desember' THEN 12
	END`

/* =========================
   Model: ipl_payments
   ========================= */

// IplPayment adalah satu tagihan IPL untuk satu warga pada satu periode
// (tahun_periode, bulan_ipl). Kombinasi (resident_id, tahun_periode, bulan_ipl)
// unik; index unique_ipl_payment di bawah adalah penjaga terakhirnya.
type IplPayment struct {
	ID uint `json:"id" gorm:"primaryKey"`

	// nomor urut global, diisi MAX+1 di dalam transaksi create
	Nomor int `json:"nomor" gorm:"column:nomor;not null;uniqueIndex"`

	ResidentID uint                    `json:"resident_id" gorm:"column:resident_id;not null;uniqueIndex:unique_ipl_payment;index"`
	Resident   *ResidentModel.Resident `json:"resident,omitempty" gorm:"foreignKey:ResidentID;constraint:OnDelete:CASCADE"`

	NominalIpl       float64 `json:"nominal_ipl"       gorm:"column:nominal_ipl;type:numeric(12,2);not null"`
	TahunPeriode     int     `json:"tahun_periode"     gorm:"column:tahun_periode;not null;uniqueIndex:unique_ipl_payment;index"`
	BulanIpl         string  `json:"bulan_ipl"         gorm:"column:bulan_ipl;type:varchar(10);not null;uniqueIndex:unique_ipl_payment;index"`
	StatusPembayaran string  `json:"status_pembayaran" gorm:"column:status_pembayaran;type:varchar(10);not null;default:'unpaid';index"`
	RumahKosong      bool    `json:"rumah_kosong"      gorm:"column:rumah_kosong;not null;default:false"` // rumah kosong = bebas tagihan
	Notes            *string `json:"notes,omitempty"   gorm:"column:notes;type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (IplPayment) TableName() string { return "ipl_payments" }

/* =========================
   Scopes
   ========================= */

func ScopePaid(db *gorm.DB) *gorm.DB {
	return db.Where("status_pembayaran = ?", StatusPaid)
}

func ScopeUnpaid(db *gorm.DB) *gorm.DB {
	return db.Where("status_pembayaran = ?", StatusUnpaid)
}

// OverdueBasis menentukan acuan umur tunggakan.
type OverdueBasis string

const (
	// BasisCreatedAt: umur dihitung dari created_at record (perilaku lama aplikasi;
	// catatan: tagihan periode lampau yang baru diinput hari ini tidak pernah
	// terhitung overdue dengan basis ini).
	BasisCreatedAt OverdueBasis = "created_at"
	// BasisPeriode: umur dihitung dari periode tagihan itu sendiri.
	BasisPeriode OverdueBasis = "periode"
)

// ScopeOverdue memfilter tagihan unpaid yang sudah lewat `months` bulan
// menurut basis yang dipilih, relatif terhadap `now`.
func ScopeOverdue(months int, basis OverdueBasis, now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("status_pembayaran = ?", StatusUnpaid)
		if basis == BasisPeriode {
			cutoff := now.Year()*12 + int(now.Month()) - months
			return db.Where("tahun_periode * 12 + "+bulanIplOrdinalSQL+" <= ?", cutoff)
		}
		return db.Where("created_at < ?", now.AddDate(0, -months, 0))
	}
}
