package repository

import (
	"context"

	"github.com/jhoicas/Gestionale-api/internal/domain/entity"
)

// WarehouseRepository puerto de lectura de almacenes. Devuelve (nil, nil) si no existe.
type WarehouseRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
}
