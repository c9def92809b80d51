// file: internals/features/ipl/payments/service/ipl_payment_service_test.go
package service

import (
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	database "iplku_backend/internals/databases"
	activitymodel "iplku_backend/internals/features/activitylogs/model"
	activity "iplku_backend/internals/features/activitylogs/service"
	model "iplku_backend/internals/features/ipl/payments/model"
	ResidentModel "iplku_backend/internals/features/residents/model"
	UserModel "iplku_backend/internals/features/users/user/model"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("buka sqlite in-memory: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("ambil sql.DB: %v", err)
	}
	// satu koneksi saja supaya :memory: tidak ter-reset antar koneksi pool
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrasi: %v", err)
	}
	return db
}

func seedActor(t *testing.T, db *gorm.DB) activity.Actor {
	t.Helper()
	user := UserModel.User{
		UserName: "admin",
		Email:    "admin@iplku.local",
		Password: "x",
		IsActive: true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return activity.Actor{
		UserID:    user.ID,
		IPAddress: "127.0.0.1",
		UserAgent: "test",
	}
}

func seedResident(t *testing.T, db *gorm.DB, nama, blok string) ResidentModel.Resident {
	t.Helper()
	r := ResidentModel.Resident{
		NamaWarga:         nama,
		BlokNomorRumah:    blok,
		DefaultNominalIpl: 90000,
		Status:            ResidentModel.StatusActive,
	}
	if err := db.Create(&r).Error; err != nil {
		t.Fatalf("seed resident %s: %v", blok, err)
	}
	return r
}

func countLogs(t *testing.T, db *gorm.DB, action activitymodel.Action) int64 {
	t.Helper()
	var n int64
	err := db.Model(&activitymodel.ActivityLog{}).
		Where("action = ? AND entity_type = ?", action, activitymodel.EntityIplPayment).
		Count(&n).Error
	if err != nil {
		t.Fatalf("hitung log: %v", err)
	}
	return n
}

func TestCreateAssignsSequentialNomor(t *testing.T) {
	db := openTestDB(t)
	actor := seedActor(t, db)
	resident := seedResident(t, db, "Budi Santoso", "A1")
	svc := NewPaymentService(db)

	months := []string{"januari", "februari", "maret"}
	for i, m := range months {
		p, err := svc.Create(actor, PaymentInput{
			ResidentID:       resident.ID,
			NominalIpl:       90000,
			TahunPeriode:     2024,
			BulanIpl:         m,
			StatusPembayaran: model.StatusPaid,
		})
		if err != nil {
			t.Fatalf("create %s: %v", m, err)
		}
		if p.Nomor != i+1 {
			t.Fatalf("nomor %s = %d, mau %d", m, p.Nomor, i+1)
		}
	}
}

func TestCreateFirstPaymentScenario(t *testing.T) {
	db := openTestDB(t)
	actor := seedActor(t, db)
	resident := seedResident(t, db, "Budi Santoso", "A1")
	svc := NewPaymentService(db)

	p, err := svc.Create(actor, PaymentInput{
		ResidentID:       resident.ID,
		NominalIpl:       90000,
		TahunPeriode:     2024,
		BulanIpl:         "januari",
		StatusPembayaran: model.StatusPaid,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Nomor != 1 {
		t.Fatalf("nomor pertama = %d, mau 1", p.Nomor)
	}
	if p.Resident == nil || p.Resident.BlokNomorRumah != "A1" {
		t.Fatalf("resident tidak ikut di hasil create: %+v", p.Resident)
	}
	if got := countLogs(t, db, activitymodel.ActionCreated); got != 1 {
		t.Fatalf("log created = %d, mau 1", got)
	}

	var logRow activitymodel.ActivityLog
	if err := db.First(&logRow).Error; err != nil {
		t.Fatalf("ambil log: %v", err)
	}
	if logRow.OldValues != nil {
		t.Fatalf("old_values create harus nil, dapat %s", logRow.OldValues)
	}
	if logRow.NewValues == nil {
		t.Fatal("new_values create tidak boleh nil")
	}
	if logRow.EntityID == nil || *logRow.EntityID != p.ID {
		t.Fatalf("entity_id log = %v, mau %d", logRow.EntityID, p.ID)
	}
}

func TestCreateRejectsDuplicatePeriod(t *testing.T) {
	db := openTestDB(t)
	actor := seedActor(t, db)
	resident := seedResident(t, db, "Budi Santoso", "A1")
	other := seedResident(t, db, "Siti Aminah", "A2")
	svc := NewPaymentService(db)

	base := PaymentInput{
		ResidentID:       resident.ID,
		NominalIpl:       90000,
		TahunPeriode:     2024,
		BulanIpl:         "januari",
		StatusPembayaran: model.StatusUnpaid,
	}
	if _, err := svc.Create(actor, base); err != nil {
		t.Fatalf("create pertama: %v", err)
	}

	// periode sama, warga sama → tolak
	if _, err := svc.Create(actor, base); !errors.Is(err, ErrDuplicatePayment) {
		t.Fatalf("duplikat periode: dapat %v, mau ErrDuplicatePayment", err)
	}

	// bulan lain boleh
	next := base
	next.BulanIpl = "februari"
	if _, err := svc.Create(actor, next); err != nil {
		t.Fatalf("bulan lain ditolak: %v", err)
	}

	// warga lain periode sama boleh
	sibling := base
	sibling.ResidentID = other.ID
	if _, err := svc.Create(actor, sibling); err != nil {
		t.Fatalf("warga lain ditolak: %v", err)
	}

	// transaksi gagal tidak boleh ninggalin log
	if got := countLogs(t, db, activitymodel.ActionCreated); got != 3 {
		t.Fatalf("log created = %d, mau 3", got)
	}
}

func TestCreateUnknownResident(t *testing.T) {
	db := openTestDB(t)
	actor := seedActor(t, db)
	svc := NewPaymentService(db)

	_, err := svc.Create(actor, PaymentInput{
		ResidentID:       999,
		NominalIpl:       90000,
		TahunPeriode:     2024,
		BulanIpl:         "januari",
		StatusPembayaran: model.StatusUnpaid,
	})
	if !errors.Is(err, ErrResidentNotFound) {
		t.Fatalf("dapat %v, mau ErrResidentNotFound", err)
	}
}

func TestUpdateDuplicateCheckExcludesSelf(t *testing.T) {
	db := openTestDB(t)
	actor := seedActor(t, db)
	resident := seedResident(t, db, "Budi Santoso", "A1")
	svc := NewPaymentService(db)

	jan, err := svc.Create(actor, PaymentInput{
		ResidentID: resident.ID, NominalIpl: 90000,
		TahunPeriode: 2024, BulanIpl: "januari",
		StatusPembayaran: model.StatusUnpaid,
	})
	if err != nil {
		t.Fatalf("create jan: %v", err)
	}
	feb, err := svc.Create(actor, PaymentInput{
		ResidentID: resident.ID, NominalIpl: 90000,
		TahunPeriode: 2024, BulanIpl: "februari",
		StatusPembayaran: model.StatusUnpaid,
	})
	if err != nil {
		t.Fatalf("create feb: %v", err)
	}

	// update ke periode miliknya sendiri → boleh (cuma ganti status)
	updated, err := svc.Update(actor, jan.ID, PaymentInput{
		ResidentID: resident.ID, NominalIpl: 90000,
		TahunPeriode: 2024, BulanIpl: "januari",
		StatusPembayaran: model.StatusPaid,
	})
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.StatusPembayaran != model.StatusPaid {
		t.Fatalf("status = %s, mau paid", updated.StatusPembayaran)
	}

	// update ke periode milik record lain → tolak
	_, err = svc.Update(actor, feb.ID, PaymentInput{
		ResidentID: resident.ID, NominalIpl: 90000,
		TahunPeriode: 2024, BulanIpl: "januari",
		StatusPembayaran: model.StatusUnpaid,
	})
	if !errors.Is(err, ErrDuplicatePayment) {
		t.Fatalf("pindah ke periode terpakai: dapat %v, mau ErrDuplicatePayment", err)
	}

	if got := countLogs(t, db, activitymodel.ActionUpdated); got != 1 {
		t.Fatalf("log updated = %d, mau 1", got)
	}

	var logRow activitymodel.ActivityLog
	if err := db.Where("action = ?", activitymodel.ActionUpdated).First(&logRow).Error; err != nil {
		t.Fatalf("ambil log update: %v", err)
	}
	if logRow.OldValues == nil || logRow.NewValues == nil {
		t.Fatal("log update harus bawa snapshot lama dan baru")
	}
}

func TestUpdateRejectsUnknownResident(t *testing.T) {
	db := openTestDB(t)
	actor := seedActor(t, db)
	resident := seedResident(t, db, "Budi Santoso", "A1")
	svc := NewPaymentService(db)

	p, err := svc.Create(actor, PaymentInput{
		ResidentID: resident.ID, NominalIpl: 90000,
		TahunPeriode: 2024, BulanIpl: "januari",
		StatusPembayaran: model.StatusUnpaid,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// pindahin tagihan ke warga yang tidak ada → tolak, jangan sampai orphan
	_, err = svc.Update(actor, p.ID, PaymentInput{
		ResidentID: 9999, NominalIpl: 90000,
		TahunPeriode: 2024, BulanIpl: "januari",
		StatusPembayaran: model.StatusUnpaid,
	})
	if !errors.Is(err, ErrResidentNotFound) {
		t.Fatalf("update ke resident tidak dikenal: dapat %v, mau ErrResidentNotFound", err)
	}

	// record harus utuh dan tidak ada log updated yang kecatat
	got, err := svc.Get(p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ResidentID != resident.ID {
		t.Fatalf("resident_id berubah jadi %d, mau tetap %d", got.ResidentID, resident.ID)
	}
	if n := countLogs(t, db, activitymodel.ActionUpdated); n != 0 {
		t.Fatalf("log updated = %d, mau 0", n)
	}
}

func TestCountsByStatus(t *testing.T) {
	db := openTestDB(t)
	actor := seedActor(t, db)
	resident := seedResident(t, db, "Budi Santoso", "A1")
	svc := NewPaymentService(db)

	seed := []struct {
		month  string
		status string
	}{
		{"januari", model.StatusPaid},
		{"februari", model.StatusPaid},
		{"maret", model.StatusUnpaid},
		{"april", model.StatusExempt},
	}
	for _, s := range seed {
		if _, err := svc.Create(actor, PaymentInput{
			ResidentID: resident.ID, NominalIpl: 90000,
			TahunPeriode: 2024, BulanIpl: s.month,
			StatusPembayaran: s.status,
		}); err != nil {
			t.Fatalf("seed %s: %v", s.month, err)
		}
	}

	paid, err := svc.CountPaid()
	if err != nil {
		t.Fatalf("count paid: %v", err)
	}
	unpaid, err := svc.CountUnpaid()
	if err != nil {
		t.Fatalf("count unpaid: %v", err)
	}
	all, err := svc.CountAll()
	if err != nil {
		t.Fatalf("count all: %v", err)
	}
	if paid != 2 || unpaid != 1 || all != 4 {
		t.Fatalf("paid/unpaid/all = %d/%d/%d, mau 2/1/4 (exempt cuma masuk total)", paid, unpaid, all)
	}
}

func TestDeleteWritesOldSnapshot(t *testing.T) {
	db := openTestDB(t)
	actor := seedActor(t, db)
	resident := seedResident(t, db, "Budi Santoso", "A1")
	svc := NewPaymentService(db)

	p, err := svc.Create(actor, PaymentInput{
		ResidentID: resident.ID, NominalIpl: 90000,
		TahunPeriode: 2024, BulanIpl: "januari",
		StatusPembayaran: model.StatusUnpaid,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(actor, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(p.ID); !errors.Is(err, ErrPaymentNotFound) {
		t.Fatalf("get setelah delete: dapat %v, mau ErrPaymentNotFound", err)
	}
	if err := svc.Delete(actor, p.ID); !errors.Is(err, ErrPaymentNotFound) {
		t.Fatalf("delete dua kali: dapat %v, mau ErrPaymentNotFound", err)
	}

	var logRow activitymodel.ActivityLog
	if err := db.Where("action = ?", activitymodel.ActionDeleted).First(&logRow).Error; err != nil {
		t.Fatalf("ambil log delete: %v", err)
	}
	if logRow.OldValues == nil {
		t.Fatal("log delete harus bawa snapshot lama")
	}
	if logRow.NewValues != nil {
		t.Fatalf("log delete tidak boleh bawa new_values, dapat %s", logRow.NewValues)
	}
}

func TestListFiltersAndSearch(t *testing.T) {
	db := openTestDB(t)
	actor := seedActor(t, db)
	budi := seedResident(t, db, "Budi Santoso", "A1")
	siti := seedResident(t, db, "Siti Aminah", "B2")
	svc := NewPaymentService(db)

	seed := []PaymentInput{
		{ResidentID: budi.ID, NominalIpl: 90000, TahunPeriode: 2024, BulanIpl: "januari", StatusPembayaran: model.StatusPaid},
		{ResidentID: budi.ID, NominalIpl: 90000, TahunPeriode: 2024, BulanIpl: "februari", StatusPembayaran: model.StatusUnpaid},
		{ResidentID: siti.ID, NominalIpl: 75000, TahunPeriode: 2023, BulanIpl: "januari", StatusPembayaran: model.StatusPaid},
	}
	for _, in := range seed {
		if _, err := svc.Create(actor, in); err != nil {
			t.Fatalf("seed payment: %v", err)
		}
	}

	// search case-insensitive by nama
	rows, total, err := svc.List(ListFilters{Search: "bUdI"})
	if err != nil {
		t.Fatalf("list search: %v", err)
	}
	if total != 2 || len(rows) != 2 {
		t.Fatalf("search budi: total=%d len=%d, mau 2/2", total, len(rows))
	}

	// search by blok
	_, total, err = svc.List(ListFilters{Search: "b2"})
	if err != nil {
		t.Fatalf("list search blok: %v", err)
	}
	if total != 1 {
		t.Fatalf("search b2: total=%d, mau 1", total)
	}

	// kombinasi tahun + status
	_, total, err = svc.List(ListFilters{Year: 2024, Status: model.StatusPaid})
	if err != nil {
		t.Fatalf("list year+status: %v", err)
	}
	if total != 1 {
		t.Fatalf("2024 paid: total=%d, mau 1", total)
	}

	// pagination: limit 2 halaman pertama, total tetap 3
	rows, total, err = svc.List(ListFilters{Limit: 2})
	if err != nil {
		t.Fatalf("list paged: %v", err)
	}
	if total != 3 || len(rows) != 2 {
		t.Fatalf("paged: total=%d len=%d, mau 3/2", total, len(rows))
	}
}

func TestOverdueCreatedAtBasis(t *testing.T) {
	db := openTestDB(t)
	actor := seedActor(t, db)
	resident := seedResident(t, db, "Budi Santoso", "A1")
	svc := NewPaymentService(db)

	now := time.Date(2024, time.May, 15, 10, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return now }

	fresh, err := svc.Create(actor, PaymentInput{
		ResidentID: resident.ID, NominalIpl: 90000,
		TahunPeriode: 2024, BulanIpl: "april",
		StatusPembayaran: model.StatusUnpaid,
	})
	if err != nil {
		t.Fatalf("create fresh: %v", err)
	}
	oldUnpaid, err := svc.Create(actor, PaymentInput{
		ResidentID: resident.ID, NominalIpl: 90000,
		TahunPeriode: 2024, BulanIpl: "januari",
		StatusPembayaran: model.StatusUnpaid,
	})
	if err != nil {
		t.Fatalf("create old unpaid: %v", err)
	}
	oldPaid, err := svc.Create(actor, PaymentInput{
		ResidentID: resident.ID, NominalIpl: 90000,
		TahunPeriode: 2023, BulanIpl: "desember",
		StatusPembayaran: model.StatusPaid,
	})
	if err != nil {
		t.Fatalf("create old paid: %v", err)
	}

	// mundurkan created_at dua record "lama" jadi 4 bulan lalu
	backdated := now.AddDate(0, -4, 0)
	for _, id := range []uint{oldUnpaid.ID, oldPaid.ID} {
		if err := db.Model(&model.IplPayment{}).Where("id = ?", id).
			Update("created_at", backdated).Error; err != nil {
			t.Fatalf("backdate %d: %v", id, err)
		}
	}

	rows, err := svc.ListOverdue(DefaultOverdueMonths, model.BasisCreatedAt)
	if err != nil {
		t.Fatalf("list overdue: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != oldUnpaid.ID {
		t.Fatalf("overdue created_at: dapat %d baris, mau cuma record unpaid lama", len(rows))
	}
	for _, r := range rows {
		if r.ID == fresh.ID {
			t.Fatal("tagihan baru dibuat tidak boleh ikut overdue")
		}
	}

	n, err := svc.CountOverdue(DefaultOverdueMonths, model.BasisCreatedAt)
	if err != nil {
		t.Fatalf("count overdue: %v", err)
	}
	if n != 1 {
		t.Fatalf("count overdue = %d, mau 1", n)
	}
}

func TestOverduePeriodeBasis(t *testing.T) {
	db := openTestDB(t)
	actor := seedActor(t, db)
	resident := seedResident(t, db, "Budi Santoso", "A1")
	svc := NewPaymentService(db)

	// sekarang mei 2024, jendela 3 bulan → periode ≤ februari 2024 menunggak
	svc.Now = func() time.Time {
		return time.Date(2024, time.May, 15, 10, 0, 0, 0, time.UTC)
	}

	mk := func(year int, month string) *model.IplPayment {
		p, err := svc.Create(actor, PaymentInput{
			ResidentID: resident.ID, NominalIpl: 90000,
			TahunPeriode: year, BulanIpl: month,
			StatusPembayaran: model.StatusUnpaid,
		})
		if err != nil {
			t.Fatalf("create %d %s: %v", year, month, err)
		}
		return p
	}

	boundary := mk(2024, "februari") // tepat di batas → overdue
	inside := mk(2024, "maret")      // masih di jendela → aman
	lastYear := mk(2023, "desember") // jelas menunggak

	rows, err := svc.ListOverdue(DefaultOverdueMonths, model.BasisPeriode)
	if err != nil {
		t.Fatalf("list overdue periode: %v", err)
	}

	got := map[uint]bool{}
	for _, r := range rows {
		got[r.ID] = true
	}
	if !got[boundary.ID] || !got[lastYear.ID] {
		t.Fatalf("periode februari 2024 & desember 2023 harus menunggak, dapat %v", got)
	}
	if got[inside.ID] {
		t.Fatal("periode maret 2024 belum menunggak di jendela 3 bulan")
	}
}
