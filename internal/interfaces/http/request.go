package http

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gestionale-api/internal/domain"
)

var validate = validator.New()

// bindJSON parsea el body y aplica las etiquetas validate del DTO.
func bindJSON(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return domain.Invalid("body", "cuerpo inválido: %v", err)
	}
	return validateStruct(out)
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return domain.Invalid(fieldName(fe), "no cumple %q", ruleText(fe))
	}
	return domain.Invalid("", "%v", err)
}

// fieldName nombre del campo sin el nombre del struct raíz: "Allocations[0].InstallmentID".
func fieldName(fe validator.FieldError) string {
	ns := fe.StructNamespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func ruleText(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}

// queryDate acepta "2006-01-02" o RFC 3339. Vacío = nil.
func queryDate(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, domain.Invalid(name, "fecha inválida %q (AAAA-MM-DD)", raw)
}

// endOfDay convierte un límite "hasta" con solo fecha en inclusivo.
func endOfDay(t *time.Time, raw string) *time.Time {
	if t == nil || len(strings.TrimSpace(raw)) != len("2006-01-02") {
		return t
	}
	e := t.Add(24*time.Hour - time.Nanosecond)
	return &e
}

func paramYear(c *fiber.Ctx) (int, error) {
	year, err := strconv.Atoi(c.Params("year"))
	if err != nil {
		return 0, domain.Invalid("year", "año inválido %q", c.Params("year"))
	}
	return year, nil
}

func queryParser(c *fiber.Ctx, out any) error {
	if err := c.QueryParser(out); err != nil {
		return domain.Invalid("query", "%v", err)
	}
	return nil
}
