package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"iplku_backend/internals/configs"
	ActivityLogModel "iplku_backend/internals/features/activitylogs/model"
	ExpenseModel "iplku_backend/internals/features/expenses/model"
	IplPaymentModel "iplku_backend/internals/features/ipl/payments/model"
	ResidentModel "iplku_backend/internals/features/residents/model"
	UserModel "iplku_backend/internals/features/users/user/model"
)

var DB *gorm.DB

func ConnectDB() {
	log.Println("🔌 Koneksi ke PostgreSQL...")

	sslmode := getenv("DB_SSLMODE", "require")
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=iplku&options=-c statement_timeout=3000",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
		sslmode,
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // 👍 cocok untuk PgBouncer (transaction pooling)
	}), &gorm.Config{
		Logger: configs.NewGormLogger(),
		// unique violation dari DB diterjemahkan jadi gorm.ErrDuplicatedKey
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("❌ Gagal konek DB: %v", err)
	}
	DB = db
	log.Println("✅ DB connected.")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

// Migrate menambahkan tabel/kolom baru sesuai model.
// Unique index (blok_nomor_rumah, nomor, unique_ipl_payment) ikut dibuat di sini;
// index itulah penjaga terakhir terhadap duplikasi saat ada request bersamaan.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel.User{},
		&ResidentModel.Resident{},
		&IplPaymentModel.IplPayment{},
		&ExpenseModel.Expense{},
		&ActivityLogModel.ActivityLog{},
	)
}

// EnsureDefaultAdmin membuat akun admin pertama bila tabel users masih kosong.
func EnsureDefaultAdmin(db *gorm.DB) {
	var count int64
	db.Model(&UserModel.User{}).Count(&count)
	if count > 0 {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(configs.DefaultAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("gagal hash password admin default: %v", err)
		return
	}

	admin := UserModel.User{
		UserName: "admin",
		Email:    "admin@iplku.local",
		Password: string(hashed),
		IsActive: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("gagal membuat admin default: %v", err)
		return
	}
	log.Println("✅ Akun admin default dibuat (username: admin)")
}

func WarmUpQueries() {
	// jalankan ringan supaya koneksi/pool “keisi” & siap
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := ping(); err != nil {
			log.Printf("warm-up ping err: %v", err)
		}
	}()
}

func ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
