package repository

import (
	"context"

	"github.com/jhoicas/Gestionale-api/internal/domain/entity"
)

// ProductAnnualStatRepository puerto del agregado de valoración por (organización, producto, año).
type ProductAnnualStatRepository interface {
	// LockYear toma un lock de transacción sobre (organización, año): compartido para apply/revert,
	// exclusivo para el recálculo completo.
	LockYear(ctx context.Context, organizationID string, year int, exclusive bool) error
	// GetForUpdate bloquea y devuelve la fila, o (nil, nil) si aún no existe.
	GetForUpdate(ctx context.Context, organizationID, productID string, year int) (*entity.ProductAnnualStat, error)
	// Save inserta o sobrescribe la fila completa.
	Save(ctx context.Context, stat *entity.ProductAnnualStat) error
	DeleteYear(ctx context.Context, organizationID string, year int) (int64, error)
	ListByYear(ctx context.Context, organizationID string, year int) ([]*entity.ProductAnnualStat, error)
}
