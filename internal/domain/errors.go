package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestionale-api/pkg/money"
)

// Errores de dominio. Se comparan con errors.Is; los errores estructurados de abajo los envuelven.
var (
	ErrNotFound                = errors.New("recurso no encontrado o no autorizado")
	ErrInvalidInput            = errors.New("entrada inválida")
	ErrForbidden               = errors.New("acceso denegado")
	ErrConflict                = errors.New("conflicto con una operación concurrente, reintente")
	ErrNothingToAllocate       = errors.New("nada que asignar")
	ErrMixedDirections         = errors.New("las cuotas mezclan documentos de compra y de venta")
	ErrResidualExceeded        = errors.New("la asignación supera el residuo de la cuota")
	ErrPaymentCapacityExceeded = errors.New("las asignaciones superan el importe del pago")
	ErrConfiguration           = errors.New("error de configuración")
)

// ValidationError entrada mal formada o inconsistente. Se informa tal cual, sin reintento.
type ValidationError struct {
	Field   string
	Message string
	Cause   error // sentinel más específico (ErrNothingToAllocate, ErrMixedDirections); nil = ErrInvalidInput
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap permite errors.Is(err, ErrInvalidInput) y con la causa concreta.
func (e *ValidationError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrInvalidInput, e.Cause}
	}
	return []error{ErrInvalidInput}
}

// Invalid atajo para construir un ValidationError.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// LimitError violación de invariante con los números calculados (solicitado vs disponible).
type LimitError struct {
	Kind      error // ErrResidualExceeded o ErrPaymentCapacityExceeded
	EntityID  string
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *LimitError) Error() string {
	subject := e.Kind.Error()
	if e.EntityID != "" {
		subject = fmt.Sprintf("%s (id %s)", subject, e.EntityID)
	}
	return fmt.Sprintf("%s: solicitado %s, disponible %s", subject, money.Format(e.Requested), money.Format(e.Available))
}

func (e *LimitError) Unwrap() error { return e.Kind }

// ConfigurationError configuración inesperada (p. ej. signo de operación fuera de {+1,-1}).
// Es fatal: aborta la operación completa y debe alarmar, nunca se corrige en silencio.
type ConfigurationError struct {
	Subject string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrConfiguration.Error(), e.Subject, e.Message)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }
