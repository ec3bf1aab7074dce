package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gestionale-api/internal/application/dto"
	"github.com/jhoicas/Gestionale-api/internal/domain"
	"github.com/jhoicas/Gestionale-api/pkg/logger"
)

// errorWriter traduce errores de dominio a respuestas HTTP.
type errorWriter struct {
	log *logger.Logger
}

func (w errorWriter) write(c *fiber.Ctx, err error) error {
	var limit *domain.LimitError
	var validation *domain.ValidationError
	var cfgErr *domain.ConfigurationError

	switch {
	case errors.As(err, &limit):
		code := "RESIDUAL_EXCEEDED"
		if errors.Is(err, domain.ErrPaymentCapacityExceeded) {
			code = "PAYMENT_CAPACITY_EXCEEDED"
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.LimitErrorResponse{
			Code:      code,
			Message:   limit.Error(),
			EntityID:  limit.EntityID,
			Requested: limit.Requested,
			Available: limit.Available,
		})
	case errors.As(err, &cfgErr):
		w.log.Error().Err(err).Str("path", c.Path()).Msg("error de configuración")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "CONFIGURATION", Message: err.Error()})
	case errors.As(err, &validation):
		code := "VALIDATION"
		switch {
		case errors.Is(err, domain.ErrNothingToAllocate):
			code = "NOTHING_TO_ALLOCATE"
		case errors.Is(err, domain.ErrMixedDirections):
			code = "MIXED_DIRECTIONS"
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: validation.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case errors.Is(err, domain.ErrNotFound):
		// mismo mensaje para inexistente y de otro tenant
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: domain.ErrNotFound.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "TIMEOUT", Message: "la operación no terminó a tiempo"})
	default:
		w.log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
	}
}
