// file: internals/features/datasync/controller/data_sync_controller.go
package controller

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	service "iplku_backend/internals/features/datasync/service"
	helper "iplku_backend/internals/helpers"
	helperAuth "iplku_backend/internals/middlewares/auth"
)

const maxImportSize = 5 << 20 // 5MB

type DataSyncController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Service   *service.DataSyncService
}

func NewDataSyncController(db *gorm.DB) *DataSyncController {
	return &DataSyncController{
		DB:        db,
		Validator: validator.New(),
		Service:   service.NewDataSyncService(db),
	}
}

// ========== Overview ==========
func (ctl *DataSyncController) Overview(c *fiber.Ctx) error {
	out, err := ctl.Service.Overview()
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "", out)
}

// ========== Import ==========
// Upload multipart field "file" (csv/xlsx/xls, maks 5MB). Isinya belum
// diproses; baru dicatat sebagai aktivitas import.
func (ctl *DataSyncController) Import(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFrom(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return helper.JsonValidationError(c, map[string][]string{
			"file": {"File import wajib diunggah."},
		})
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fh.Filename), "."))
	if ext != "csv" && ext != "xlsx" && ext != "xls" {
		return helper.JsonValidationError(c, map[string][]string{
			"file": {"Format file harus csv, xlsx, atau xls."},
		})
	}
	if fh.Size > maxImportSize {
		return helper.JsonValidationError(c, map[string][]string{
			"file": {"Ukuran file maksimal 5MB."},
		})
	}

	if err := ctl.Service.RecordImport(actor, fh.Filename, fh.Size); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c,
		"Data berhasil diimpor. (Fitur ini akan diimplementasi dengan Google Sheets API)",
		fiber.Map{"filename": fh.Filename, "size": fh.Size})
}

// ========== Export ==========
func (ctl *DataSyncController) Export(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFrom(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}

	filename, err := ctl.Service.RecordExport(actor)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c,
		fmt.Sprintf("Data berhasil diekspor ke Google Sheets: %s (Fitur ini akan diimplementasi dengan Google Sheets API)", filename),
		fiber.Map{"filename": filename})
}

// ========== UpdateSheet ==========
type updateSheetRequest struct {
	SheetURL string `json:"sheet_url" form:"sheet_url" validate:"required,url"`
}

func (ctl *DataSyncController) UpdateSheet(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFrom(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}

	var req updateSheetRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidatorErrorMap(err))
	}

	if err := ctl.Service.RecordSheetUpdate(actor, req.SheetURL); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c,
		"Google Sheets berhasil diperbarui dengan data terbaru. (Fitur ini akan diimplementasi dengan Google Sheets API)",
		fiber.Map{"sheet_url": req.SheetURL})
}
