// file: internals/features/residents/controller/resident_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	dto "iplku_backend/internals/features/residents/dto"
	service "iplku_backend/internals/features/residents/service"
	helper "iplku_backend/internals/helpers"
	helperAuth "iplku_backend/internals/middlewares/auth"
)

type ResidentController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Service   *service.ResidentService
}

func NewResidentController(db *gorm.DB) *ResidentController {
	return &ResidentController{
		DB:        db,
		Validator: validator.New(),
		Service:   service.NewResidentService(db),
	}
}

// ========== List ==========
// Query: search, status, active_only, page, per_page
func (ctl *ResidentController) List(c *fiber.Ctx) error {
	if strings.EqualFold(c.Query("active_only"), "true") {
		rows, err := ctl.Service.ListActive()
		if err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
		}
		return helper.JsonList(c, "", rows, nil)
	}

	pg := helper.ResolvePaging(c, 20, 100)
	rows, total, err := ctl.Service.List(service.ListFilters{
		Search: strings.TrimSpace(c.Query("search")),
		Status: strings.TrimSpace(c.Query("status")),
		Offset: pg.Offset,
		Limit:  pg.Limit,
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonList(c, "", rows, helper.BuildPaginationFromPage(total, pg.Page, pg.PerPage))
}

// ========== Show ==========
func (ctl *ResidentController) Show(c *fiber.Ctx) error {
	id, err := helper.ParseID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "id tidak valid")
	}
	row, err := ctl.Service.Get(id)
	if err != nil {
		return writeResidentError(c, err)
	}
	return helper.JsonOK(c, "", row)
}

// ========== Create ==========
func (ctl *ResidentController) Create(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFrom(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}

	var req dto.ResidentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidatorErrorMap(err))
	}

	created, err := ctl.Service.Create(actor, req.ToInput())
	if err != nil {
		return writeResidentError(c, err)
	}
	return helper.JsonCreated(c, "Data warga berhasil ditambahkan.", created)
}

// ========== Update ==========
func (ctl *ResidentController) Update(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFrom(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	id, err := helper.ParseID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "id tidak valid")
	}

	var req dto.ResidentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidatorErrorMap(err))
	}

	updated, err := ctl.Service.Update(actor, id, req.ToInput())
	if err != nil {
		return writeResidentError(c, err)
	}
	return helper.JsonUpdated(c, "Data warga berhasil diperbarui.", updated)
}

// ========== Delete (ikut menghapus semua tagihan IPL warga) ==========
func (ctl *ResidentController) Delete(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFrom(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	id, err := helper.ParseID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "id tidak valid")
	}

	if err := ctl.Service.Delete(actor, id); err != nil {
		return writeResidentError(c, err)
	}
	return helper.JsonDeleted(c, "Data warga berhasil dihapus.", fiber.Map{"id": id})
}

func writeResidentError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrDuplicateBlock):
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrResidentNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	default:
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
}
