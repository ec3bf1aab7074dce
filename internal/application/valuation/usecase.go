package valuation

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/Gestionale-api/internal/application/dto"
	"github.com/jhoicas/Gestionale-api/internal/domain"
	"github.com/jhoicas/Gestionale-api/internal/domain/entity"
	"github.com/jhoicas/Gestionale-api/internal/domain/repository"
	"github.com/jhoicas/Gestionale-api/internal/domain/valuation"
	"github.com/jhoicas/Gestionale-api/pkg/logger"
)

const (
	minYear = 1900
	maxYear = 9999
)

// UseCase agregado anual de valoración (cantidades, importes, CMP y último costo).
type UseCase struct {
	store    repository.Tx
	txRunner repository.TxRunner
	log      *logger.Logger
	now      func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(store repository.Tx, txRunner repository.TxRunner, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{store: store, txRunner: txRunner, log: log.Component("valuation"), now: time.Now}
}

// ApplyDocumentStats aplica el documento contabilizado a las estadísticas de su año.
// Con previous no nulo revierte antes el snapshot anterior en la misma transacción (edición).
func (uc *UseCase) ApplyDocumentStats(ctx context.Context, actor domain.Actor, documentID string, previous *dto.DocumentSnapshot) (*dto.StatsChangeResponse, error) {
	if err := actor.RequireWrite(); err != nil {
		return nil, err
	}
	var prev *entity.Document
	if previous != nil {
		var err error
		if prev, err = SnapshotToDocument(actor.OrganizationID, previous); err != nil {
			return nil, err
		}
	}
	var touched []*entity.ProductAnnualStat
	var skipped bool
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		doc, err := tx.Documents().GetByID(ctx, documentID)
		if err != nil {
			return err
		}
		if doc == nil || doc.OrganizationID != actor.OrganizationID {
			return fmt.Errorf("documento %s: %w", documentID, domain.ErrNotFound)
		}
		if prev != nil {
			touched, err = uc.ReplaceInTx(ctx, tx, prev, doc)
		} else {
			touched, err = uc.ApplyInTx(ctx, tx, doc)
		}
		skipped = prev == nil && !valuation.Valued(doc.Type)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("organization_id", actor.OrganizationID).
		Str("document_id", documentID).
		Bool("replace", prev != nil).
		Int("rows", len(touched)).
		Msg("estadísticas aplicadas")
	return &dto.StatsChangeResponse{DocumentID: documentID, Skipped: skipped, Stats: ToStatResponses(touched)}, nil
}

// RevertDocumentStats revierte un snapshot de documento previamente aplicado.
func (uc *UseCase) RevertDocumentStats(ctx context.Context, actor domain.Actor, snapshot dto.DocumentSnapshot) (*dto.StatsChangeResponse, error) {
	if err := actor.RequireWrite(); err != nil {
		return nil, err
	}
	doc, err := SnapshotToDocument(actor.OrganizationID, &snapshot)
	if err != nil {
		return nil, err
	}
	var touched []*entity.ProductAnnualStat
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		touched, err = uc.RevertInTx(ctx, tx, doc)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("organization_id", actor.OrganizationID).
		Str("document_id", doc.ID).
		Int("rows", len(touched)).
		Msg("estadísticas revertidas")
	return &dto.StatsChangeResponse{DocumentID: doc.ID, Skipped: !valuation.Valued(doc.Type), Stats: ToStatResponses(touched)}, nil
}

// ApplyInTx aplica doc con los repositorios de la transacción del llamador.
func (uc *UseCase) ApplyInTx(ctx context.Context, tx repository.Tx, doc *entity.Document) ([]*entity.ProductAnnualStat, error) {
	return uc.changeInTx(ctx, tx, nil, doc)
}

// RevertInTx revierte doc con los repositorios de la transacción del llamador.
func (uc *UseCase) RevertInTx(ctx context.Context, tx repository.Tx, doc *entity.Document) ([]*entity.ProductAnnualStat, error) {
	return uc.changeInTx(ctx, tx, doc, nil)
}

// ReplaceInTx revert(old) + apply(new) sobre las mismas filas bloqueadas.
func (uc *UseCase) ReplaceInTx(ctx context.Context, tx repository.Tx, before, after *entity.Document) ([]*entity.ProductAnnualStat, error) {
	return uc.changeInTx(ctx, tx, before, after)
}

func (uc *UseCase) changeInTx(ctx context.Context, tx repository.Tx, before, after *entity.Document) ([]*entity.ProductAnnualStat, error) {
	var keys []valuation.Key
	org := ""
	for _, d := range []*entity.Document{before, after} {
		if d == nil {
			continue
		}
		if err := valuation.ValidateSign(d.Type); err != nil {
			uc.log.Error().Err(err).Str("document_id", d.ID).Msg("tipo de documento mal configurado")
			return nil, err
		}
		org = d.OrganizationID
		keys = append(keys, valuation.Keys(d)...)
	}
	if len(keys) == 0 {
		return nil, nil
	}
	keys = sortKeys(keys)

	// lock compartido por año: un recálculo completo (exclusivo) no se intercala
	lastYear := 0
	for _, k := range keys {
		if k.Year == lastYear {
			continue
		}
		lastYear = k.Year
		if err := tx.Stats().LockYear(ctx, org, k.Year, false); err != nil {
			return nil, err
		}
	}
	rows := make(map[valuation.Key]*entity.ProductAnnualStat, len(keys))
	for _, k := range keys {
		st, err := tx.Stats().GetForUpdate(ctx, org, k.ProductID, k.Year)
		if err != nil {
			return nil, err
		}
		if st == nil {
			fresh := entity.NewProductAnnualStat(org, k.ProductID, k.Year)
			st = &fresh
		}
		rows[k] = st
	}
	missing := func(k valuation.Key) (*entity.ProductAnnualStat, error) {
		return nil, fmt.Errorf("valuation: fila %s/%d no precargada", k.ProductID, k.Year)
	}
	if before != nil {
		if _, err := valuation.RevertDocument(before, rows, missing); err != nil {
			return nil, err
		}
	}
	if after != nil {
		if _, err := valuation.ApplyDocument(after, rows, missing); err != nil {
			return nil, err
		}
	}
	return uc.saveAll(ctx, tx, keys, rows)
}

func (uc *UseCase) saveAll(ctx context.Context, tx repository.Tx, keys []valuation.Key, rows map[valuation.Key]*entity.ProductAnnualStat) ([]*entity.ProductAnnualStat, error) {
	now := uc.now()
	out := make([]*entity.ProductAnnualStat, 0, len(keys))
	for _, k := range keys {
		st := rows[k]
		st.UpdatedAt = now
		if err := tx.Stats().Save(ctx, st); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}

// RecalculateStatsForYear borra y reconstruye todas las filas del año a partir del historial de
// documentos ordenado por fecha. Usa el mismo camino que el apply incremental.
func (uc *UseCase) RecalculateStatsForYear(ctx context.Context, actor domain.Actor, year int) (*dto.RecalculateResponse, error) {
	if err := actor.RequireWrite(); err != nil {
		return nil, err
	}
	if year < minYear || year > maxYear {
		return nil, domain.Invalid("year", "fuera de rango (%d)", year)
	}
	resp := &dto.RecalculateResponse{Year: year}
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		if err := tx.Stats().LockYear(ctx, actor.OrganizationID, year, true); err != nil {
			return err
		}
		deleted, err := tx.Stats().DeleteYear(ctx, actor.OrganizationID, year)
		if err != nil {
			return err
		}
		docs, err := tx.Documents().ListForValuation(ctx, actor.OrganizationID, year)
		if err != nil {
			return err
		}
		rows := make(map[valuation.Key]*entity.ProductAnnualStat)
		var keys []valuation.Key
		fresh := func(valuation.Key) (*entity.ProductAnnualStat, error) { return nil, nil }
		for _, doc := range docs {
			if err := valuation.ValidateSign(doc.Type); err != nil {
				return err
			}
			touched, err := valuation.ApplyDocument(doc, rows, fresh)
			if err != nil {
				return err
			}
			keys = append(keys, touched...)
		}
		saved, err := uc.saveAll(ctx, tx, sortKeys(keys), rows)
		if err != nil {
			return err
		}
		resp.DocumentsProcessed = len(docs)
		resp.RowsDeleted = deleted
		resp.RowsWritten = len(saved)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("organization_id", actor.OrganizationID).
		Int("year", year).
		Int("documents", resp.DocumentsProcessed).
		Int64("rows_deleted", resp.RowsDeleted).
		Int("rows_written", resp.RowsWritten).
		Msg("estadísticas recalculadas")
	return resp, nil
}

// ListStats filas del año de la organización, ordenadas por producto.
func (uc *UseCase) ListStats(ctx context.Context, actor domain.Actor, year int) ([]dto.StatResponse, error) {
	if err := actor.RequireRead(); err != nil {
		return nil, err
	}
	if year < minYear || year > maxYear {
		return nil, domain.Invalid("year", "fuera de rango (%d)", year)
	}
	list, err := uc.store.Stats().ListByYear(ctx, actor.OrganizationID, year)
	if err != nil {
		return nil, err
	}
	return ToStatResponses(list), nil
}

func sortKeys(keys []valuation.Key) []valuation.Key {
	seen := make(map[valuation.Key]struct{}, len(keys))
	out := keys[:0:0]
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].ProductID < out[j].ProductID
	})
	return out
}

// ToStatResponses convierte filas a DTO.
func ToStatResponses(list []*entity.ProductAnnualStat) []dto.StatResponse {
	out := make([]dto.StatResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.StatResponse{
			ProductID:            s.ProductID,
			Year:                 s.Year,
			PurchasedQuantity:    s.PurchasedQuantity,
			PurchasedTotalAmount: s.PurchasedTotalAmount,
			SoldQuantity:         s.SoldQuantity,
			SoldTotalAmount:      s.SoldTotalAmount,
			WeightedAverageCost:  s.WeightedAverageCost,
			LastCost:             s.LastCost,
			UpdatedAt:            s.UpdatedAt,
		})
	}
	return out
}
