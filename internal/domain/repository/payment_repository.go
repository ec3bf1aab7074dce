package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestionale-api/internal/domain/entity"
)

// PaymentFilter filtros del listado de pagos.
type PaymentFilter struct {
	AccountID string
	Direction string
	From, To  *time.Time
	Limit     int
	Offset    int
}

// PaymentSummary pago con el total asignado (derivado).
type PaymentSummary struct {
	Payment         entity.Payment
	AllocatedAmount decimal.Decimal
}

// PaymentRepository puerto de pagos y asignaciones. Solo el motor de conciliación escribe aquí.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	GetByID(ctx context.Context, id string) (*entity.Payment, error)
	// GetForUpdate bloquea la fila del pago dentro de la transacción en curso.
	GetForUpdate(ctx context.Context, id string) (*entity.Payment, error)
	List(ctx context.Context, organizationID string, filter PaymentFilter) ([]PaymentSummary, error)
	// Delete borra primero las asignaciones y luego el pago.
	Delete(ctx context.Context, id string) error

	Mappings(ctx context.Context, paymentID string) ([]*entity.PaymentMapping, error)
	// UpsertMapping suma amount a la asignación (pago, cuota) existente o la crea.
	UpsertMapping(ctx context.Context, paymentID, installmentID string, amount decimal.Decimal) (*entity.PaymentMapping, error)

	// AccountFlows totales de entrada y salida de una cuenta.
	AccountFlows(ctx context.Context, accountID string) (inflow, outflow decimal.Decimal, err error)
}
