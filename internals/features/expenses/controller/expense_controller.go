// file: internals/features/expenses/controller/expense_controller.go
package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	dto "iplku_backend/internals/features/expenses/dto"
	service "iplku_backend/internals/features/expenses/service"
	helper "iplku_backend/internals/helpers"
	helperAuth "iplku_backend/internals/middlewares/auth"
)

type ExpenseController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Service   *service.ExpenseService
}

func NewExpenseController(db *gorm.DB) *ExpenseController {
	return &ExpenseController{
		DB:        db,
		Validator: validator.New(),
		Service:   service.NewExpenseService(db),
	}
}

// ========== List ==========
// Query: search, category, start_date, end_date (YYYY-MM-DD), page, per_page
func (ctl *ExpenseController) List(c *fiber.Ctx) error {
	pg := helper.ResolvePaging(c, 20, 100)

	f := service.ListFilters{
		Search:   strings.TrimSpace(c.Query("search")),
		Category: strings.TrimSpace(c.Query("category")),
		Offset:   pg.Offset,
		Limit:    pg.Limit,
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

	categories, err := ctl.Service.DistinctCategories()
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonListEx(c, "", rows,
		helper.BuildPaginationFromPage(total, pg.Page, pg.PerPage),
		fiber.Map{"categories": categories})
}

// ========== Show ==========
func (ctl *ExpenseController) Show(c *fiber.Ctx) error {
	id, err := helper.ParseID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "id tidak valid")
	}
	row, err := ctl.Service.Get(id)
	if err != nil {
		return writeExpenseError(c, err)
	}
	return helper.JsonOK(c, "", row)
}

// ========== Create ==========
func (ctl *ExpenseController) Create(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFrom(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}

	var req dto.ExpenseRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidatorErrorMap(err))
	}
	in, err := req.ToInput()
	if err != nil {
		return helper.JsonValidationError(c, map[string][]string{
			"expense_date": {"Tanggal pengeluaran tidak valid."},
		})
	}

	created, err := ctl.Service.Create(actor, in)
	if err != nil {
		return writeExpenseError(c, err)
	}
	return helper.JsonCreated(c, "Data pengeluaran berhasil ditambahkan.", created)
}

// ========== Update ==========
func (ctl *ExpenseController) Update(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFrom(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	id, err := helper.ParseID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "id tidak valid")
	}

	var req dto.ExpenseRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidatorErrorMap(err))
	}
	in, err := req.ToInput()
	if err != nil {
		return helper.JsonValidationError(c, map[string][]string{
			"expense_date": {"Tanggal pengeluaran tidak valid."},
		})
	}

	updated, err := ctl.Service.Update(actor, id, in)
	if err != nil {
		return writeExpenseError(c, err)
	}
	return helper.JsonUpdated(c, "Data pengeluaran berhasil diperbarui.", updated)
}

// ========== Delete ==========
func (ctl *ExpenseController) Delete(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFrom(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	id, err := helper.ParseID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "id tidak valid")
	}

	if err := ctl.Service.Delete(actor, id); err != nil {
		return writeExpenseError(c, err)
	}
	return helper.JsonDeleted(c, "Data pengeluaran berhasil dihapus.", fiber.Map{"id": id})
}

func writeExpenseError(c *fiber.Ctx, err error) error {
	if errors.Is(err, service.ErrExpenseNotFound) {
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	}
	return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
}
