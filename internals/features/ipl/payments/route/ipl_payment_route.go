// file: internals/features/ipl/payments/route/ipl_payment_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	iplController "iplku_backend/internals/features/ipl/payments/controller"
)

func IplPaymentRoutes(r fiber.Router, db *gorm.DB) {
	ctl := iplController.NewIplPaymentController(db)
	ipl := r.Group("/ipl")
	{
		ipl.Get("/", ctl.List)
		ipl.Post("/", ctl.Create)
		ipl.Get("/:id", ctl.Show)
		ipl.Get("/:id/edit", ctl.Edit)
		ipl.Put("/:id", ctl.Update)
		ipl.Delete("/:id", ctl.Delete)
	}
}
