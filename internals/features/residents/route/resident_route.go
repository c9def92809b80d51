// file: internals/features/residents/route/resident_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	residentController "iplku_backend/internals/features/residents/controller"
)

func ResidentRoutes(r fiber.Router, db *gorm.DB) {
	ctl := residentController.NewResidentController(db)
	residents := r.Group("/residents")
	{
		residents.Get("/", ctl.List)
		residents.Post("/", ctl.Create)
		residents.Get("/:id", ctl.Show)
		residents.Put("/:id", ctl.Update)
		residents.Delete("/:id", ctl.Delete)
	}
}
