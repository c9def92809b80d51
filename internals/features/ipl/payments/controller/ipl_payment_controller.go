// file: internals/features/ipl/payments/controller/ipl_payment_controller.go
package controller

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	dto "iplku_backend/internals/features/ipl/payments/dto"
	model "iplku_backend/internals/features/ipl/payments/model"
	service "iplku_backend/internals/features/ipl/payments/service"
	residentsvc "iplku_backend/internals/features/residents/service"
	helper "iplku_backend/internals/helpers"
	helperAuth "iplku_backend/internals/middlewares/auth"
)

type IplPaymentController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Service   *service.PaymentService
	Residents *residentsvc.ResidentService
}

func NewIplPaymentController(db *gorm.DB) *IplPaymentController {
	return &IplPaymentController{
		DB:        db,
		Validator: validator.New(),
		Service:   service.NewPaymentService(db),
		Residents: residentsvc.NewResidentService(db),
	}
}

// overdueBasisFrom: default created_at; ?basis=periode untuk hitung dari
// periode tagihan (lihat catatan di model.OverdueBasis).
func overdueBasisFrom(c *fiber.Ctx) model.OverdueBasis {
	if strings.EqualFold(strings.TrimSpace(c.Query("basis")), string(model.BasisPeriode)) {
		return model.BasisPeriode
	}
	return model.BasisCreatedAt
}

// ========== List ==========
// Query: search, year, month, status, basis, page, per_page
func (ctl *IplPaymentController) List(c *fiber.Ctx) error {
	pg := helper.ResolvePaging(c, 20, 100)

	f := service.ListFilters{
		Search: strings.TrimSpace(c.Query("search")),
		Month:  strings.TrimSpace(c.Query("month")),
		Status: strings.TrimSpace(c.Query("status")),
		Offset: pg.Offset,
		Limit:  pg.Limit,
	}
	if y := strings.TrimSpace(c.Query("year")); y != "" {
		if n, err := strconv.Atoi(y); err == nil {
			f.Year = n
		}
	}

	rows, total, err := ctl.Service.List(f)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	overdue, err := ctl.Service.ListOverdue(service.DefaultOverdueMonths, overdueBasisFrom(c))
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	currentYear := time.Now().Year()
	years := make([]int, 0, 8)
	for y := currentYear - 5; y <= currentYear+2; y++ {
		years = append(years, y)
	}

	return helper.JsonListEx(c, "", rows,
		helper.BuildPaginationFromPage(total, pg.Page, pg.PerPage),
		fiber.Map{
			"overdue_payments": overdue,
			"months":           dto.MonthLabels,
			"years":            years,
		})
}

// ========== Create ==========
func (ctl *IplPaymentController) Create(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFrom(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}

	var req dto.IplPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidatorErrorMap(err))
	}

	created, err := ctl.Service.Create(actor, req.ToInput())
	if err != nil {
		return writePaymentError(c, err)
	}
	return helper.JsonCreated(c, "Data IPL berhasil ditambahkan.", created)
}

// ========== Show ==========
func (ctl *IplPaymentController) Show(c *fiber.Ctx) error {
	id, err := helper.ParseID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "id tidak valid")
	}
	row, err := ctl.Service.Get(id)
	if err != nil {
		return writePaymentError(c, err)
	}
	return helper.JsonOK(c, "", row)
}

// ========== Edit (payload form edit) ==========
func (ctl *IplPaymentController) Edit(c *fiber.Ctx) error {
	id, err := helper.ParseID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "id tidak valid")
	}
	row, err := ctl.Service.Get(id)
	if err != nil {
		return writePaymentError(c, err)
	}
	residents, err := ctl.Residents.ListActive()
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "", fiber.Map{
		"ipl_payment":    row,
		"residents":      residents,
		"months":         dto.MonthLabels,
		"preset_amounts": dto.PresetAmounts,
	})
}

// ========== Update ==========
func (ctl *IplPaymentController) Update(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFrom(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	id, err := helper.ParseID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "id tidak valid")
	}

	var req dto.IplPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidatorErrorMap(err))
	}

	updated, err := ctl.Service.Update(actor, id, req.ToInput())
	if err != nil {
		return writePaymentError(c, err)
	}
	return helper.JsonUpdated(c, "Data IPL berhasil diperbarui.", updated)
}

// ========== Delete ==========
func (ctl *IplPaymentController) Delete(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFrom(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	id, err := helper.ParseID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "id tidak valid")
	}

	if err := ctl.Service.Delete(actor, id); err != nil {
		return writePaymentError(c, err)
	}
	return helper.JsonDeleted(c, "Data IPL berhasil dihapus.", fiber.Map{"id": id})
}

func writePaymentError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrDuplicatePayment):
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrPaymentNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrResidentNotFound):
		return helper.JsonValidationError(c, map[string][]string{
			"resident_id": {err.Error()},
		})
	default:
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
}
