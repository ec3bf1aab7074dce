package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gestionale-api/internal/application/dto"
	"github.com/jhoicas/Gestionale-api/internal/domain"
	"github.com/jhoicas/Gestionale-api/pkg/jwt"
)

// LocalActor key de Fiber Locals con el domain.Actor del token.
const LocalActor = "actor"

// AuthMiddleware valida el Bearer Token JWT y deja el domain.Actor en c.Locals.
// El token lo emite el servicio de identidad: aquí solo se verifica y se traduce.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		id, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalActor, domain.Actor{
			OrganizationID: id.OrganizationID,
			UserID:         id.UserID,
			CanWrite:       id.CanWrite,
		})
		return c.Next()
	}
}

// GetActor devuelve el actor del contexto (después del middleware de auth). Sin actor, un Actor vacío
// que los casos de uso rechazan con ErrForbidden.
func GetActor(c *fiber.Ctx) domain.Actor {
	a, _ := c.Locals(LocalActor).(domain.Actor)
	return a
}
