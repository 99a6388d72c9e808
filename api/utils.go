package api

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/pyneda/kansa/pkg/scan"
	"github.com/pyneda/kansa/pkg/sessions"
)

var validate = validator.New()

// handleDomainError maps domain errors onto HTTP statuses: unknown ids are
// 404, state conflicts 409, rejected requests 400, anything else 500.
func handleDomainError(c *fiber.Ctx, err error) error {
	var validation *scan.ValidationError
	switch {
	case errors.Is(err, sessions.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "Not found",
			Message: "No scan or discovery session exists with the provided id",
		})
	case errors.Is(err, scan.ErrNotCompleted):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error:   "Scan not completed",
			Message: "Results are only available once the scan reaches COMPLETED",
		})
	case errors.Is(err, scan.ErrAlreadyTerminal):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error:   "Scan already finished",
			Message: "The session is already in a terminal state",
		})
	case errors.As(err, &validation):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "Validation failed",
			Message: validation.Reason,
			Field:   validation.Field,
		})
	default:
		log.Error().Err(err).Msg("Unhandled API error")
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "Internal error",
		})
	}
}

// handleValidatorError renders go-playground struct validation failures.
func handleValidatorError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		first := validationErrors[0]
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "Validation failed",
			Message: fmt.Sprintf("Invalid value for %s", first.Field()),
			Field:   first.Field(),
		})
	}
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "Validation failed",
		Message: err.Error(),
	})
}

func badJSON(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error: "Cannot parse JSON",
	})
}
