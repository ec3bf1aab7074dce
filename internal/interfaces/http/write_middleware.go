package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gestionale-api/internal/application/dto"
)

// RequireWrite corta las rutas de escritura cuando el token no trae can_write.
// Debe usarse DESPUÉS de AuthMiddleware. Los casos de uso vuelven a comprobarlo.
//
// Comportamiento:
//   - 401 si no hay actor en el contexto.
//   - 403 si el actor no tiene permiso de escritura.
func RequireWrite() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := GetActor(c)
		if actor.OrganizationID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "organization_id no encontrado en el token",
			})
		}
		if !actor.CanWrite {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FORBIDDEN",
				Message: "el token no tiene permiso de escritura",
			})
		}
		return c.Next()
	}
}
