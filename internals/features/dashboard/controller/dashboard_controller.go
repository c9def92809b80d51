// file: internals/features/dashboard/controller/dashboard_controller.go
package controller

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	service "iplku_backend/internals/features/dashboard/service"
	paymentmodel "iplku_backend/internals/features/ipl/payments/model"
	helper "iplku_backend/internals/helpers"
)

type DashboardController struct {
	DB      *gorm.DB
	Service *service.DashboardService
}

func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{
		DB:      db,
		Service: service.NewDashboardService(db),
	}
}

// Summary: GET /dashboard?year=&basis=
func (ctl *DashboardController) Summary(c *fiber.Ctx) error {
	year := 0
	if raw := strings.TrimSpace(c.Query("year")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			year = n
		}
	}

	basis := paymentmodel.BasisCreatedAt
	if strings.EqualFold(strings.TrimSpace(c.Query("basis")), "periode") {
		basis = paymentmodel.BasisPeriode
	}

	summary, err := ctl.Service.Summary(year, basis)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "", summary)
}
