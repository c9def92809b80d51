// file: internals/route/index.go
package routes

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	activityRoute "iplku_backend/internals/features/activitylogs/route"
	dashboardController "iplku_backend/internals/features/dashboard/controller"
	dashboardRoute "iplku_backend/internals/features/dashboard/route"
	datasyncRoute "iplku_backend/internals/features/datasync/route"
	expenseRoute "iplku_backend/internals/features/expenses/route"
	paymentRoute "iplku_backend/internals/features/ipl/payments/route"
	residentRoute "iplku_backend/internals/features/residents/route"
	authMiddleware "iplku_backend/internals/middlewares/auth"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// ===================== PUBLIC =====================
	// ringkasan dashboard juga dipajang di halaman depan
	log.Println("[INFO] Setting up PUBLIC root...")
	dashboardCtl := dashboardController.NewDashboardController(db)
	app.Get("/", dashboardCtl.Summary)

	// ===================== PROTECTED (ADMIN) =====================
	log.Println("[INFO] Setting up PROTECTED group (JWT)...")
	protected := app.Group("/api", authMiddleware.AuthMiddleware(db))

	log.Println("[INFO] Mounting Dashboard routes...")
	dashboardRoute.DashboardRoutes(protected, db)

	log.Println("[INFO] Mounting IPL Payment routes...")
	paymentRoute.IplPaymentRoutes(protected, db)

	log.Println("[INFO] Mounting Resident routes...")
	residentRoute.ResidentRoutes(protected, db)

	log.Println("[INFO] Mounting Expense routes...")
	expenseRoute.ExpenseRoutes(protected, db)

	log.Println("[INFO] Mounting Activity Log routes...")
	activityRoute.ActivityLogRoutes(protected, db)

	log.Println("[INFO] Mounting Data Sync routes...")
	datasyncRoute.DataSyncRoutes(protected, db)
}
