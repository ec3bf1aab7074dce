package repository

import (
	"context"

	"github.com/jhoicas/Gestionale-api/internal/domain/entity"
)

// ProductRepository puerto de lectura de productos. Devuelve (nil, nil) si no existe.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
}
