package api

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/pyneda/kansa/pkg/scan/discovery"
)

// SubmitDiscoveryHandler godoc
// @Summary Submit a standalone discovery
// @Description Crawls the seed URL without running scanners. Useful for previewing the page inventory before committing to a scan.
// @Tags Discovery
// @Accept json
// @Produce json
// @Param input body SubmitDiscoveryInput true "Discovery request"
// @Success 202 {object} SubmitDiscoveryResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/discovery [post]
func SubmitDiscoveryHandler(c *fiber.Ctx) error {
	input := new(SubmitDiscoveryInput)
	if err := c.BodyParser(input); err != nil {
		return badJSON(c)
	}
	if err := validate.Struct(input); err != nil {
		return handleValidatorError(c, err)
	}

	runner := c.Locals("runner").(*discovery.Runner)
	id, err := runner.Start(input.URL, input.MaxPages, input.MaxDepth)
	if err != nil {
		return handleDomainError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(SubmitDiscoveryResponse{
		DiscoveryID: id,
		StreamURL:   fmt.Sprintf("/api/v1/discovery/%s/stream", id),
	})
}

// DiscoveryStatusHandler godoc
// @Summary Discovery status
// @Description Returns a point-in-time snapshot of the discovery session.
// @Tags Discovery
// @Produce json
// @Param id path string true "Discovery id"
// @Success 200 {object} scan.DiscoverySnapshot
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/discovery/{id} [get]
func DiscoveryStatusHandler(c *fiber.Ctx) error {
	runner := c.Locals("runner").(*discovery.Runner)
	snapshot, err := runner.Status(c.Params("id"))
	if err != nil {
		return handleDomainError(c, err)
	}
	return c.JSON(snapshot)
}

// DiscoveryPagesHandler godoc
// @Summary Discovered pages
// @Description Returns the page inventory collected so far, including unreachable pages.
// @Tags Discovery
// @Produce json
// @Param id path string true "Discovery id"
// @Success 200 {array} scan.DiscoveredPage
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/discovery/{id}/pages [get]
func DiscoveryPagesHandler(c *fiber.Ctx) error {
	runner := c.Locals("runner").(*discovery.Runner)
	pages, err := runner.Pages(c.Params("id"))
	if err != nil {
		return handleDomainError(c, err)
	}
	return c.JSON(pages)
}

// CancelDiscoveryHandler godoc
// @Summary Cancel a discovery
// @Description Requests cooperative cancellation of a running discovery.
// @Tags Discovery
// @Produce json
// @Param id path string true "Discovery id"
// @Success 200 {object} map[string]string
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/discovery/{id}/cancel [post]
func CancelDiscoveryHandler(c *fiber.Ctx) error {
	runner := c.Locals("runner").(*discovery.Runner)
	if err := runner.Cancel(c.Params("id")); err != nil {
		return handleDomainError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Cancellation requested",
	})
}

// ListDiscoveriesHandler godoc
// @Summary List discoveries
// @Description Lists snapshots of every retained discovery session, newest first.
// @Tags Discovery
// @Produce json
// @Success 200 {array} scan.DiscoverySnapshot
// @Router /api/v1/discoveries [get]
func ListDiscoveriesHandler(c *fiber.Ctx) error {
	runner := c.Locals("runner").(*discovery.Runner)
	return c.JSON(runner.Discoveries())
}
