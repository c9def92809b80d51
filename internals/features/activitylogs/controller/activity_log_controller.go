// file: internals/features/activitylogs/controller/activity_log_controller.go
package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	service "iplku_backend/internals/features/activitylogs/service"
	usermodel "iplku_backend/internals/features/users/user/model"
	helper "iplku_backend/internals/helpers"
)

type ActivityLogController struct {
	DB      *gorm.DB
	Service *service.ActivityLogService
}

func NewActivityLogController(db *gorm.DB) *ActivityLogController {
	return &ActivityLogController{
		DB:      db,
		Service: service.NewActivityLogService(db),
	}
}

// ========== List ==========
// Query: user, action, entity_type, start_date, end_date (YYYY-MM-DD), page, per_page
func (ctl *ActivityLogController) List(c *fiber.Ctx) error {
	pg := helper.ResolvePaging(c, 50, 200)

	f := service.ListFilters{
		Action:     strings.TrimSpace(c.Query("action")),
		EntityType: strings.TrimSpace(c.Query("entity_type")),
		Offset:     pg.Offset,
		Limit:      pg.Limit,
	}
	if raw := strings.TrimSpace(c.Query("user")); raw != "" {
		if uid, err := uuid.Parse(raw); err == nil {
			f.UserID = &uid
		}
	}
	if raw := strings.TrimSpace(c.Query("start_date")); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			f.StartDate = &t
		}
	}
	if raw := strings.TrimSpace(c.Query("end_date")); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			f.EndDate = &t
		}
	}

	rows, total, err := ctl.Service.List(f)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	// opsi dropdown filter
	actions, err := ctl.Service.DistinctActions()
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	entityTypes, err := ctl.Service.DistinctEntityTypes()
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	var users []usermodel.User
	if err := ctl.DB.Select("id", "user_name").Order("user_name ASC").Find(&users).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonListEx(c, "", rows,
		helper.BuildPaginationFromPage(total, pg.Page, pg.PerPage),
		fiber.Map{
			"actions":      actions,
			"entity_types": entityTypes,
			"users":        users,
		})
}

// ========== Show ==========
func (ctl *ActivityLogController) Show(c *fiber.Ctx) error {
	id, err := helper.ParseID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "id tidak valid")
	}

	row, err := ctl.Service.Get(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "log aktivitas tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "", row)
}
