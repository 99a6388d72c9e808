package api

import (
	"bytes"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/pyneda/kansa/pkg/report"
	"github.com/pyneda/kansa/pkg/scan/orchestrator"
)

// ScanReportHandler godoc
// @Summary Download a scan report
// @Description Renders the aggregated result as a downloadable report. Available once the scan reaches COMPLETED.
// @Tags Scan
// @Produce html
// @Param id path string true "Scan id"
// @Param format query string false "Report format" Enums(html, json) default(html)
// @Param title query string false "Report title"
// @Success 200 {string} string "Report document"
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/scan/{id}/report [get]
func ScanReportHandler(c *fiber.Ctx) error {
	engine := c.Locals("engine").(*orchestrator.Engine)
	id := c.Params("id")
	result, err := engine.Result(id)
	if err != nil {
		return handleDomainError(c, err)
	}

	format, err := report.ParseFormat(c.Query("format"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "Invalid format",
			Message: err.Error(),
		})
	}

	var buf bytes.Buffer
	options := report.ReportOptions{
		Result: result,
		Title:  c.Query("title"),
		Format: format,
	}
	if err := report.GenerateReport(options, &buf); err != nil {
		return handleDomainError(c, err)
	}

	filename := fmt.Sprintf("scan-report-%s.%s", id, format)
	contentType := fiber.MIMETextHTMLCharsetUTF8
	if format == report.ReportFormatJSON {
		contentType = fiber.MIMEApplicationJSONCharsetUTF8
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(buf.Bytes())
}
