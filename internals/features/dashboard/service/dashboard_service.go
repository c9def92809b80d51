// file: internals/features/dashboard/service/dashboard_service.go
package service

import (
	"time"

	"gorm.io/gorm"

	activitymodel "iplku_backend/internals/features/activitylogs/model"
	activity "iplku_backend/internals/features/activitylogs/service"
	ExpenseModel "iplku_backend/internals/features/expenses/model"
	paymentmodel "iplku_backend/internals/features/ipl/payments/model"
	paymentsvc "iplku_backend/internals/features/ipl/payments/service"
	residentsvc "iplku_backend/internals/features/residents/service"
)

// DashboardService menghitung ringkasan untuk halaman utama. Tidak menyimpan
// state apa pun; semua angka dihitung ulang tiap request.
type DashboardService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{DB: db, Now: time.Now}
}

type Stats struct {
	TotalResidents  int64 `json:"total_residents"`
	OverduePayments int64 `json:"overdue_payments"`
	UnpaidPayments  int64 `json:"unpaid_payments"`
	CurrentYear     int   `json:"current_year"`
}

type Summary struct {
	Stats Stats `json:"stats"`
	// pemasukan IPL berstatus paid per bulan_ipl (key: nama bulan)
	MonthlyIncome map[string]float64 `json:"monthly_income"`
	// pengeluaran per bulan kalender (key: 1..12)
	MonthlyExpenses  map[int]float64             `json:"monthly_expenses"`
	RecentActivities []activitymodel.ActivityLog `json:"recent_activities"`
}

func (s *DashboardService) Summary(year int, overdueBasis paymentmodel.OverdueBasis) (*Summary, error) {
	now := s.Now()
	if year == 0 {
		year = now.Year()
	}

	out := &Summary{
		Stats:           Stats{CurrentYear: year},
		MonthlyIncome:   map[string]float64{},
		MonthlyExpenses: map[int]float64{},
	}

	// hitung lewat service ledger, bukan query langsung, supaya definisi
	// paid/unpaid/overdue cuma ada satu
	residents := residentsvc.NewResidentService(s.DB)
	payments := paymentsvc.NewPaymentService(s.DB)
	payments.Now = s.Now

	var err error
	if out.Stats.TotalResidents, err = residents.CountAll(); err != nil {
		return nil, err
	}
	if out.Stats.OverduePayments, err = payments.CountOverdue(paymentsvc.DefaultOverdueMonths, overdueBasis); err != nil {
		return nil, err
	}
	if out.Stats.UnpaidPayments, err = payments.CountUnpaid(); err != nil {
		return nil, err
	}

	// pemasukan per bulan_ipl (hanya yang paid, tahun berjalan)
	type monthlyIncomeRow struct {
		BulanIpl string  `gorm:"column:bulan_ipl"`
		Total    float64 `gorm:"column:total"`
	}
	var incomeRows []monthlyIncomeRow
	if err := s.DB.Model(&paymentmodel.IplPayment{}).
		Select("bulan_ipl, SUM(nominal_ipl) AS total").
		Where("tahun_periode = ?", year).
		Where("status_pembayaran = ?", paymentmodel.StatusPaid).
		Group("bulan_ipl").
		Scan(&incomeRows).Error; err != nil {
		return nil, err
	}
	for _, r := range incomeRows {
		out.MonthlyIncome[r.BulanIpl] = r.Total
	}

	// pengeluaran per bulan: ambil baris setahun lalu dijumlah di Go
	// (ekstraksi bulan dari tanggal beda-beda sintaksnya antar database)
	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := yearStart.AddDate(1, 0, 0)
	var expenseRows []ExpenseModel.Expense
	if err := s.DB.Model(&ExpenseModel.Expense{}).
		Select("expense_date", "amount").
		Where("expense_date >= ? AND expense_date < ?", yearStart, yearEnd).
		Find(&expenseRows).Error; err != nil {
		return nil, err
	}
	for _, e := range expenseRows {
		out.MonthlyExpenses[int(e.ExpenseDate.Month())] += e.Amount
	}

	recent, err := activity.NewActivityLogService(s.DB).Recent(10, "")
	if err != nil {
		return nil, err
	}
	out.RecentActivities = recent

	return out, nil
}
