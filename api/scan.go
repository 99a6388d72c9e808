package api

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/pyneda/kansa/pkg/scan/orchestrator"
)

// SubmitScanHandler godoc
// @Summary Submit an accessibility scan
// @Description Validates the request and starts the scan pipeline. The scan runs asynchronously; follow the stream URL for progress.
// @Tags Scan
// @Accept json
// @Produce json
// @Param input body SubmitScanInput true "Scan request"
// @Success 202 {object} SubmitScanResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/scan [post]
func SubmitScanHandler(c *fiber.Ctx) error {
	input := new(SubmitScanInput)
	if err := c.BodyParser(input); err != nil {
		return badJSON(c)
	}
	if err := validate.Struct(input); err != nil {
		return handleValidatorError(c, err)
	}

	engine := c.Locals("engine").(*orchestrator.Engine)
	id, err := engine.Submit(input.ToRequest())
	if err != nil {
		return handleDomainError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(SubmitScanResponse{
		ScanID:    id,
		StreamURL: fmt.Sprintf("/api/v1/scan/%s/stream", id),
	})
}

// ScanStatusHandler godoc
// @Summary Scan status
// @Description Returns a point-in-time snapshot of the scan session.
// @Tags Scan
// @Produce json
// @Param id path string true "Scan id"
// @Success 200 {object} scan.ScanSnapshot
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/scan/{id} [get]
func ScanStatusHandler(c *fiber.Ctx) error {
	engine := c.Locals("engine").(*orchestrator.Engine)
	snapshot, err := engine.Status(c.Params("id"))
	if err != nil {
		return handleDomainError(c, err)
	}
	return c.JSON(snapshot)
}

// ScanResultsHandler godoc
// @Summary Scan results
// @Description Returns the aggregated result. Available once the scan reaches COMPLETED; 409 before that.
// @Tags Scan
// @Produce json
// @Param id path string true "Scan id"
// @Success 200 {object} scan.AggregatedResult
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/scan/{id}/results [get]
func ScanResultsHandler(c *fiber.Ctx) error {
	engine := c.Locals("engine").(*orchestrator.Engine)
	result, err := engine.Result(c.Params("id"))
	if err != nil {
		return handleDomainError(c, err)
	}
	return c.JSON(result)
}

// CancelScanHandler godoc
// @Summary Cancel a scan
// @Description Requests cooperative cancellation. In-flight scanner units finish or abort within the kill grace.
// @Tags Scan
// @Produce json
// @Param id path string true "Scan id"
// @Success 200 {object} map[string]string
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/scan/{id}/cancel [post]
func CancelScanHandler(c *fiber.Ctx) error {
	engine := c.Locals("engine").(*orchestrator.Engine)
	if err := engine.Cancel(c.Params("id")); err != nil {
		return handleDomainError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Cancellation requested",
	})
}

// ListScansHandler godoc
// @Summary List scans
// @Description Lists snapshots of every retained scan session, newest first.
// @Tags Scan
// @Produce json
// @Success 200 {array} scan.ScanSnapshot
// @Router /api/v1/scans [get]
func ListScansHandler(c *fiber.Ctx) error {
	engine := c.Locals("engine").(*orchestrator.Engine)
	return c.JSON(engine.Scans())
}
