// file: internals/features/datasync/route/data_sync_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "iplku_backend/internals/features/datasync/controller"
)

func DataSyncRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewDataSyncController(db)

	grp := r.Group("/data-sync")
	grp.Get("/", ctl.Overview)
	grp.Post("/", ctl.Import)
	grp.Get("/export", ctl.Export)
	grp.Put("/sheet", ctl.UpdateSheet)
}
