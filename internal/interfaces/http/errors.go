package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/mercado-api/internal/application/dto"
	"github.com/jhoicas/mercado-api/internal/domain"
	"github.com/jhoicas/mercado-api/internal/domain/entity"
	"github.com/rs/zerolog"
)

const internalMessage = "Error interno del servidor"

// writeError traduce errores de dominio a respuestas HTTP. Lo no previsto sale como 500
// con un mensaje genérico y la causa solo va al log.
func writeError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	var (
		batchErr *domain.BatchError
		valErr   *domain.ValidationError
		permErr  *domain.PermissionError
		unexpErr *domain.UnexpectedError
	)
	switch {
	case errors.As(err, &batchErr):
		code := "VALIDATION"
		if errors.Is(batchErr, domain.ErrNotFound) {
			code = "NOT_FOUND"
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: code, Message: batchErr.Message, Details: batchErr.Details(),
		})
	case errors.As(err, &unexpErr):
		logInternal(c, log, err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: unexpErr.Message})
	case errors.As(err, &valErr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: valErr.Message})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrIdempotencyMismatch):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "IDEMPOTENCY_MISMATCH", Message: err.Error()})
	case errors.Is(err, domain.ErrIdempotencyInFlight):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "IDEMPOTENCY_IN_FLIGHT", Message: err.Error()})
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.As(err, &permErr):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: permErr.Message})
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrUnknownRole):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()})
	default:
		logInternal(c, log, err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: internalMessage})
	}
}

func logInternal(c *fiber.Ctx, log zerolog.Logger, err error) {
	log.Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Str("user_id", GetUserID(c)).
		Msg("error no controlado")
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// principal exige el principal en la petición; sin él responde 401.
func principal(c *fiber.Ctx) (p entity.Principal, ok bool) {
	p, ok = GetPrincipal(c)
	if !ok {
		_ = c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "no autenticado"})
	}
	return p, ok
}
