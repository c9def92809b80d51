// file: internals/features/expenses/route/expense_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "iplku_backend/internals/features/expenses/controller"
)

// ExpenseRoutes mendaftarkan endpoint pengeluaran (semuanya di belakang auth).
func ExpenseRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewExpenseController(db)

	grp := r.Group("/expenses")
	grp.Get("/", ctl.List)
	grp.Post("/", ctl.Create)
	grp.Get("/:id", ctl.Show)
	grp.Put("/:id", ctl.Update)
	grp.Delete("/:id", ctl.Delete)
}
