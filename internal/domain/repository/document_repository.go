package repository

import (
	"context"

	"github.com/jhoicas/Gestionale-api/internal/domain/entity"
)

// DocumentRepository puerto de lectura del agregado documento (colaborador externo).
type DocumentRepository interface {
	// GetByID devuelve el documento con tipo y líneas, o (nil, nil).
	GetByID(ctx context.Context, id string) (*entity.Document, error)
	// ListForValuation documentos del año cuyo tipo tiene valoración activa y signo no nulo,
	// ordenados por fecha, creación e id ascendentes.
	ListForValuation(ctx context.Context, organizationID string, year int) ([]*entity.Document, error)
	// MarkPosted registra la contabilización; devuelve domain.ErrConflict si ya estaba contabilizado.
	MarkPosted(ctx context.Context, documentID, userID string) error
}
