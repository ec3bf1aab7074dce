package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestionale-api/internal/domain/entity"
)

// MovementFilter filtros del listado de movimientos.
type MovementFilter struct {
	WarehouseID string
	From, To    *time.Time
	Limit       int
	Offset      int
}

// StockMovementRepository puerto del libro de movimientos (append-only: no hay Update ni Delete).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	// SumQuantity suma las cantidades con signo. warehouseID vacío = todos los almacenes.
	SumQuantity(ctx context.Context, organizationID, productID, warehouseID string) (decimal.Decimal, error)
	ListByProduct(ctx context.Context, organizationID, productID string, filter MovementFilter) ([]*entity.StockMovement, error)
}
