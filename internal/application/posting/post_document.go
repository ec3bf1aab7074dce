package posting

import (
	"context"
	"fmt"

	"github.com/jhoicas/Gestionale-api/internal/application/dto"
	"github.com/jhoicas/Gestionale-api/internal/application/inventory"
	"github.com/jhoicas/Gestionale-api/internal/application/valuation"
	"github.com/jhoicas/Gestionale-api/internal/domain"
	"github.com/jhoicas/Gestionale-api/internal/domain/entity"
	"github.com/jhoicas/Gestionale-api/internal/domain/repository"
	"github.com/jhoicas/Gestionale-api/pkg/logger"
)

// MovementRecorder parte del libro de movimientos que usa la contabilización.
type MovementRecorder interface {
	RecordDocumentMovementsInTx(ctx context.Context, tx repository.Tx, doc *entity.Document, userID string) ([]*entity.StockMovement, error)
}

// StatsApplier parte del agregado de valoración que usa la contabilización.
type StatsApplier interface {
	ApplyInTx(ctx context.Context, tx repository.Tx, doc *entity.Document) ([]*entity.ProductAnnualStat, error)
}

// PostDocumentUseCase contabiliza un documento: movimientos de inventario y estadísticas de
// valoración en una sola transacción. Un documento solo se contabiliza una vez.
type PostDocumentUseCase struct {
	txRunner  repository.TxRunner
	movements MovementRecorder
	stats     StatsApplier
	log       *logger.Logger
}

// NewPostDocumentUseCase construye el caso de uso.
func NewPostDocumentUseCase(txRunner repository.TxRunner, movements MovementRecorder, stats StatsApplier, log *logger.Logger) *PostDocumentUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &PostDocumentUseCase{txRunner: txRunner, movements: movements, stats: stats, log: log.Component("posting")}
}

// PostDocument genera los movimientos y aplica las estadísticas del documento.
// Cualquier error (producto inexistente, signo mal configurado, documento ya contabilizado) deshace todo.
func (uc *PostDocumentUseCase) PostDocument(ctx context.Context, actor domain.Actor, documentID string) (*dto.PostDocumentResponse, error) {
	if err := actor.RequireWrite(); err != nil {
		return nil, err
	}
	var movs []*entity.StockMovement
	var stats []*entity.ProductAnnualStat
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		doc, err := tx.Documents().GetByID(ctx, documentID)
		if err != nil {
			return err
		}
		if doc == nil || doc.OrganizationID != actor.OrganizationID {
			return fmt.Errorf("documento %s: %w", documentID, domain.ErrNotFound)
		}
		if err := tx.Documents().MarkPosted(ctx, doc.ID, actor.UserID); err != nil {
			return err
		}
		if movs, err = uc.movements.RecordDocumentMovementsInTx(ctx, tx, doc, actor.UserID); err != nil {
			return err
		}
		stats, err = uc.stats.ApplyInTx(ctx, tx, doc)
		return err
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("organization_id", actor.OrganizationID).Str("document_id", documentID).Msg("contabilización fallida")
		return nil, err
	}
	uc.log.Info().
		Str("organization_id", actor.OrganizationID).
		Str("document_id", documentID).
		Int("movements", len(movs)).
		Int("stats", len(stats)).
		Msg("documento contabilizado")
	return &dto.PostDocumentResponse{
		DocumentID: documentID,
		Movements:  inventory.ToMovementResponses(movs),
		Stats:      valuation.ToStatResponses(stats),
	}, nil
}
