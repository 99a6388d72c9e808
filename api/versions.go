package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pyneda/kansa/pkg/scan/orchestrator"
)

// ListVersionsHandler godoc
// @Summary List result versions
// @Description Lists the retained result versions for a completed scan, oldest first.
// @Tags Scan
// @Produce json
// @Param id path string true "Scan id"
// @Success 200 {array} scan.ResultVersion
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/scan/{id}/versions [get]
func ListVersionsHandler(c *fiber.Ctx) error {
	engine := c.Locals("engine").(*orchestrator.Engine)
	versions, err := engine.Versions(c.Params("id"))
	if err != nil {
		return handleDomainError(c, err)
	}
	return c.JSON(versions)
}

// AddVersionHandler godoc
// @Summary Store a result version
// @Description Attaches a labelled result snapshot to a completed scan, evicting the oldest version past the retention cap.
// @Tags Scan
// @Accept json
// @Produce json
// @Param id path string true "Scan id"
// @Param input body AddVersionInput true "Version to store"
// @Success 201 {object} scan.ResultVersion
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/scan/{id}/versions [post]
func AddVersionHandler(c *fiber.Ctx) error {
	input := new(AddVersionInput)
	if err := c.BodyParser(input); err != nil {
		return badJSON(c)
	}
	if err := validate.Struct(input); err != nil {
		return handleValidatorError(c, err)
	}

	engine := c.Locals("engine").(*orchestrator.Engine)
	version, err := engine.AddVersion(c.Params("id"), *input.Result, input.Label)
	if err != nil {
		return handleDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(version)
}
