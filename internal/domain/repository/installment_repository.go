package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestionale-api/internal/domain/entity"
)

// InstallmentFilter filtros para listar cuotas asignables.
type InstallmentFilter struct {
	Direction  string // SALE, PURCHASE o vacío
	DocumentID string
	OnlyOpen   bool // solo cuotas con residuo > 0
	DueBefore  *time.Time
	Limit      int
	Offset     int
}

// InstallmentRepository puerto de cuotas (propiedad del agregado documento).
type InstallmentRepository interface {
	// GetByIDs carga las cuotas pedidas; con forUpdate bloquea las filas en orden de id.
	GetByIDs(ctx context.Context, ids []string, forUpdate bool) ([]*entity.Installment, error)
	// AllocatedTotals suma las asignaciones de TODOS los pagos por cuota. Cuotas sin asignaciones no aparecen.
	AllocatedTotals(ctx context.Context, ids []string) (map[string]decimal.Decimal, error)
	ListWithBalance(ctx context.Context, organizationID string, filter InstallmentFilter) ([]entity.InstallmentBalance, error)
}
