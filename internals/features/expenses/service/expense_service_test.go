// file: internals/features/expenses/service/expense_service_test.go
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
	return activity.Actor{UserID: user.ID, IPAddress: "127.0.0.1", UserAgent: "test"}
}

func strPtr(s string) *string { return &s }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seedExpenses(t *testing.T, svc *ExpenseService, actor activity.Actor) {
	t.Helper()
	seed := []ExpenseInput{
		{Description: "Gaji satpam", Amount: 1500000, ExpenseDate: date(2024, time.January, 5), Category: strPtr("keamanan")},
		{Description: "Perbaikan lampu jalan", Amount: 250000, ExpenseDate: date(2024, time.February, 10), Category: strPtr("pemeliharaan")},
		{Description: "Angkut sampah", Amount: 400000, ExpenseDate: date(2024, time.March, 1), Category: strPtr("kebersihan")},
		{Description: "Konsumsi rapat warga", Amount: 300000, ExpenseDate: date(2024, time.March, 20)},
	}
	for _, in := range seed {
		if _, err := svc.Create(actor, in); err != nil {
			t.Fatalf("seed %q: %v", in.Description, err)
		}
	}
}

func TestListOrderingNewestDateFirst(t *testing.T) {
	db := openTestDB(t)
	actor := seedActor(t, db)
	svc := NewExpenseService(db)
	seedExpenses(t, svc, actor)

	rows, total, err := svc.List(ListFilters{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 4 {
		t.Fatalf("total = %d, mau 4", total)
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].ExpenseDate.After(rows[i-1].ExpenseDate) {
			t.Fatalf("urutan salah: %s sebelum %s",
				rows[i-1].ExpenseDate.Format("2006-01-02"),
				rows[i].ExpenseDate.Format("2006-01-02"))
		}
	}
}

func TestListFilters(t *testing.T) {
	db := openTestDB(t)
	actor := seedActor(t, db)
	svc := NewExpenseService(db)
	seedExpenses(t, svc, actor)

	// search ke description, case-insensitive
	_, total, err := svc.List(ListFilters{Search: "LAMPU"})
	if err != nil {
		t.Fatalf("search lampu: %v", err)
	}
	if total != 1 {
		t.Fatalf("search lampu: total = %d, mau 1", total)
	}

	// search juga kena kolom category
	_, total, err = svc.List(ListFilters{Search: "keamanan"})
	if err != nil {
		t.Fatalf("search keamanan: %v", err)
	}
	if total != 1 {
		t.Fatalf("search keamanan: total = %d, mau 1", total)
	}

	// filter kategori exact
	_, total, err = svc.List(ListFilters{Category: "kebersihan"})
	if err != nil {
		t.Fatalf("filter category: %v", err)
	}
	if total != 1 {
		t.Fatalf("category kebersihan: total = %d, mau 1", total)
	}

	// rentang tanggal inklusif di kedua ujung
	start := date(2024, time.February, 10)
	end := date(2024, time.March, 1)
	rows, total, err := svc.List(ListFilters{StartDate: &start, EndDate: &end})
	if err != nil {
		t.Fatalf("filter tanggal: %v", err)
	}
	if total != 2 {
		t.Fatalf("rentang feb10–mar1: total = %d, mau 2", total)
	}
	for _, r := range rows {
		if r.ExpenseDate.Before(start) || r.ExpenseDate.After(end) {
			t.Fatalf("tanggal %s di luar rentang", r.ExpenseDate.Format("2006-01-02"))
		}
	}
}

func TestDistinctCategoriesSkipsEmpty(t *testing.T) {
	db := openTestDB(t)
	actor := seedActor(t, db)
	svc := NewExpenseService(db)
	seedExpenses(t, svc, actor)

	cats, err := svc.DistinctCategories()
	if err != nil {
		t.Fatalf("distinct categories: %v", err)
	}
	want := []string{"keamanan", "kebersihan", "pemeliharaan"}
	if len(cats) != len(want) {
		t.Fatalf("kategori = %v, mau %v", cats, want)
	}
	for i, w := range want {
		if cats[i] != w {
			t.Fatalf("kategori[%d] = %s, mau %s", i, cats[i], w)
		}
	}
}

func TestMutationsWriteActivityLogs(t *testing.T) {
	db := openTestDB(t)
	actor := seedActor(t, db)
	svc := NewExpenseService(db)

	created, err := svc.Create(actor, ExpenseInput{
		Description: "Gaji satpam",
		Amount:      1500000,
		ExpenseDate: date(2024, time.January, 5),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Update(actor, created.ID, ExpenseInput{
		Description: "Gaji satpam (revisi)",
		Amount:      1600000,
		ExpenseDate: date(2024, time.January, 5),
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	if err := svc.Delete(actor, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(created.ID); !errors.Is(err, ErrExpenseNotFound) {
		t.Fatalf("get setelah delete: dapat %v, mau ErrExpenseNotFound", err)
	}

	for _, action := range []activitymodel.Action{
		activitymodel.ActionCreated,
		activitymodel.ActionUpdated,
		activitymodel.ActionDeleted,
	} {
		var n int64
		err := db.Model(&activitymodel.ActivityLog{}).
			Where("action = ? AND entity_type = ?", action, activitymodel.EntityExpense).
			Count(&n).Error
		if err != nil {
			t.Fatalf("hitung log %s: %v", action, err)
		}
		if n != 1 {
			t.Fatalf("log %s = %d, mau 1", action, n)
		}
	}
}

func TestUpdateMissingExpense(t *testing.T) {
	db := openTestDB(t)
	actor := seedActor(t, db)
	svc := NewExpenseService(db)

	_, err := svc.Update(actor, 42, ExpenseInput{
		Description: "apa saja",
		Amount:      1,
		ExpenseDate: date(2024, time.January, 1),
	})
	if !errors.Is(err, ErrExpenseNotFound) {
		t.Fatalf("dapat %v, mau ErrExpenseNotFound", err)
	}
}
