package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"azimute/internal/service"
)

// ListCatalog returns a section's catalogue; the actor's section when none is given.
//
// @Summary Objective catalogue
// @Tags catalog
// @Produce json
// @Param section query string false "section name or document id"
// @Success 200 {array} model.CatalogObjective
// @Security BearerAuth
// @Router /api/v1/catalog [get]
func ListCatalog(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		section := c.Query("section", actor(c).SectionID)
		items, err := svc.List(c.UserContext(), section)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"items": items})
	}
}

// ImportUsers uploads a roster spreadsheet (multipart/form-data, field name: file).
//
// @Summary Import users from a spreadsheet
// @Tags imports
// @Accept mpfd
// @Produce json
// @Param file formData file true "xlsx roster"
// @Param reset formData bool false "delete imported users first"
// @Success 201 {object} service.UserImportSummary
// @Failure 400 {object} errorPayload
// @Security BearerAuth
// @Router /api/v1/imports/users [post]
func ImportUsers(svc service.ImportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		reset := false
		if raw := c.FormValue("reset"); raw != "" {
			if reset, err = strconv.ParseBool(raw); err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_RESET", "reset must be a boolean")
			}
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		res, err := svc.ImportUsers(c.UserContext(), fh.Filename, f, service.ImportOptions{Reset: reset})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// ImportCatalog uploads an objectives catalogue spreadsheet.
//
// @Summary Import the objective catalogue
// @Tags imports
// @Accept mpfd
// @Produce json
// @Param file formData file true "xlsx catalogue"
// @Success 201 {object} service.CatalogImportSummary
// @Failure 400 {object} errorPayload
// @Security BearerAuth
// @Router /api/v1/imports/catalog [post]
func ImportCatalog(svc service.ImportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		res, err := svc.ImportCatalog(c.UserContext(), fh.Filename, f)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// ImportArchiveURL presigns a download link for an archived import file.
//
// @Summary Download link of an archived import
// @Tags imports
// @Produce json
// @Param key query string true "archive key"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/imports/archive [get]
func ImportArchiveURL(svc service.ImportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		url, err := svc.ArchiveURL(c.UserContext(), c.Query("key"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"url": url})
	}
}
