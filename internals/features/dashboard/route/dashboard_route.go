// file: internals/features/dashboard/route/dashboard_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "iplku_backend/internals/features/dashboard/controller"
)

func DashboardRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewDashboardController(db)

	r.Get("/dashboard", ctl.Summary)
}
