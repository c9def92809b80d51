// file: internals/features/activitylogs/route/activity_log_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "iplku_backend/internals/features/activitylogs/controller"
)

// ActivityLogRoutes: audit trail read-only (log ditulis lewat service mutasi).
func ActivityLogRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewActivityLogController(db)

	grp := r.Group("/activity-logs")
	grp.Get("/", ctl.List)
	grp.Get("/:id", ctl.Show)
}
