package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestionale-api/internal/application/dto"
	"github.com/jhoicas/Gestionale-api/internal/domain"
	"github.com/jhoicas/Gestionale-api/internal/domain/entity"
	"github.com/jhoicas/Gestionale-api/internal/domain/inventory"
	"github.com/jhoicas/Gestionale-api/internal/domain/repository"
	"github.com/jhoicas/Gestionale-api/pkg/logger"
	"github.com/jhoicas/Gestionale-api/pkg/money"
)

// LedgerUseCase libro de movimientos de inventario. La existencia nunca se almacena:
// siempre se calcula sumando movimientos.
type LedgerUseCase struct {
	store    repository.Tx
	txRunner repository.TxRunner
	kinds    *inventory.MovementKindTable
	log      *logger.Logger
	now      func() time.Time
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(store repository.Tx, txRunner repository.TxRunner, kinds *inventory.MovementKindTable, log *logger.Logger) *LedgerUseCase {
	if kinds == nil {
		kinds = inventory.DefaultMovementKindTable()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &LedgerUseCase{
		store:    store,
		txRunner: txRunner,
		kinds:    kinds,
		log:      log.Component("ledger"),
		now:      time.Now,
	}
}

// RecordMovement registra un movimiento manual (rettifica, trasferimento...) y devuelve su id.
func (uc *LedgerUseCase) RecordMovement(ctx context.Context, actor domain.Actor, in dto.RecordMovementRequest) (*dto.MovementResponse, error) {
	if err := actor.RequireWrite(); err != nil {
		return nil, err
	}
	if in.ProductID == "" {
		return nil, domain.Invalid("product_id", "es obligatorio")
	}
	if in.WarehouseID == "" {
		return nil, domain.Invalid("warehouse_id", "es obligatorio")
	}
	if in.Quantity.IsZero() {
		return nil, domain.Invalid("quantity", "no puede ser cero")
	}
	if !money.HasScale(in.Quantity, money.QuantityPlaces) {
		return nil, domain.Invalid("quantity", "admite como máximo %d decimales", money.QuantityPlaces)
	}
	kind, err := manualKind(in.Kind, in.Quantity)
	if err != nil {
		return nil, err
	}

	var mov *entity.StockMovement
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		product, err := tx.Products().GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil || product.OrganizationID != actor.OrganizationID {
			return fmt.Errorf("producto %s: %w", in.ProductID, domain.ErrNotFound)
		}
		wh, err := tx.Warehouses().GetByID(ctx, in.WarehouseID)
		if err != nil {
			return err
		}
		if wh == nil || wh.OrganizationID != actor.OrganizationID {
			return fmt.Errorf("almacén %s: %w", in.WarehouseID, domain.ErrNotFound)
		}
		mov = &entity.StockMovement{
			ID:                   uuid.New().String(),
			OrganizationID:       actor.OrganizationID,
			ProductID:            product.ID,
			WarehouseID:          wh.ID,
			Quantity:             in.Quantity,
			Kind:                 kind,
			SourceDocumentNumber: in.Reference,
			CreatedAt:            uc.now(),
			CreatedBy:            actor.UserID,
		}
		return tx.Movements().Create(ctx, mov)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("organization_id", actor.OrganizationID).
		Str("movement_id", mov.ID).
		Str("product_id", mov.ProductID).
		Str("quantity", mov.Quantity.String()).
		Msg("movimiento registrado")
	resp := toMovementResponse(mov)
	return &resp, nil
}

// manualKind valida el tipo pedido contra el catálogo y el signo de la cantidad.
func manualKind(raw string, qty decimal.Decimal) (entity.MovementKind, error) {
	sign := 1
	if qty.IsNegative() {
		sign = -1
	}
	if raw == "" {
		if sign > 0 {
			return entity.MovementKindAdjustmentIn, nil
		}
		return entity.MovementKindAdjustmentOut, nil
	}
	kind := entity.MovementKind(raw)
	if !kind.Valid() {
		return "", domain.Invalid("kind", "tipo de movimiento desconocido %q", raw)
	}
	if kind.Sign() != sign {
		return "", domain.Invalid("quantity", "el signo no corresponde al tipo %s", kind)
	}
	return kind, nil
}

// CurrentStock suma los movimientos del producto; warehouseID vacío = todos los almacenes.
func (uc *LedgerUseCase) CurrentStock(ctx context.Context, actor domain.Actor, productID, warehouseID string) (*dto.StockResponse, error) {
	if err := actor.RequireRead(); err != nil {
		return nil, err
	}
	if err := uc.ownProduct(ctx, actor, productID); err != nil {
		return nil, err
	}
	qty, err := uc.store.Movements().SumQuantity(ctx, actor.OrganizationID, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	return &dto.StockResponse{ProductID: productID, WarehouseID: warehouseID, Quantity: qty}, nil
}

// ListMovements historial del producto, más recientes primero.
func (uc *LedgerUseCase) ListMovements(ctx context.Context, actor domain.Actor, productID string, q dto.MovementListQuery) (*dto.MovementListResponse, error) {
	if err := actor.RequireRead(); err != nil {
		return nil, err
	}
	if err := uc.ownProduct(ctx, actor, productID); err != nil {
		return nil, err
	}
	q.DefaultPage()
	list, err := uc.store.Movements().ListByProduct(ctx, actor.OrganizationID, productID, repository.MovementFilter{
		WarehouseID: q.WarehouseID,
		From:        q.From,
		To:          q.To,
		Limit:       q.Limit,
		Offset:      q.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := &dto.MovementListResponse{
		Items: make([]dto.MovementResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	}
	for _, m := range list {
		out.Items = append(out.Items, toMovementResponse(m))
	}
	return out, nil
}

func (uc *LedgerUseCase) ownProduct(ctx context.Context, actor domain.Actor, productID string) error {
	if productID == "" {
		return domain.Invalid("product_id", "es obligatorio")
	}
	p, err := uc.store.Products().GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if p == nil || p.OrganizationID != actor.OrganizationID {
		return domain.ErrNotFound
	}
	return nil
}

// RecordDocumentMovementsInTx genera los movimientos de todas las líneas del documento usando
// los repositorios de la transacción del llamador. Un producto inexistente o un signo de stock
// no permitido abortan toda la contabilización; las líneas sin almacén resoluble se omiten.
func (uc *LedgerUseCase) RecordDocumentMovementsInTx(ctx context.Context, tx repository.Tx, doc *entity.Document, userID string) ([]*entity.StockMovement, error) {
	if !doc.Type.MovesInventory {
		return nil, nil
	}
	if err := inventory.ValidateStockSign(doc.Type); err != nil {
		uc.log.Error().Err(err).Str("document_id", doc.ID).Msg("tipo de documento mal configurado")
		return nil, err
	}
	now := uc.now()
	var created []*entity.StockMovement
	for _, line := range doc.Lines {
		if line.ProductID == "" {
			continue
		}
		product, err := tx.Products().GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil || product.OrganizationID != doc.OrganizationID {
			return nil, fmt.Errorf("producto %s de la línea %s: %w", line.ProductID, line.ID, domain.ErrNotFound)
		}
		mov, err := inventory.MovementFromLine(doc, line, product, uc.kinds)
		if err != nil {
			return nil, err
		}
		if mov == nil {
			continue
		}
		mov.ID = uuid.New().String()
		mov.CreatedAt = now
		mov.CreatedBy = userID
		if err := tx.Movements().Create(ctx, mov); err != nil {
			return nil, err
		}
		created = append(created, mov)
	}
	return created, nil
}

// ToMovementResponses convierte movimientos a DTO.
func ToMovementResponses(list []*entity.StockMovement) []dto.MovementResponse {
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toMovementResponse(m))
	}
	return out
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:                   m.ID,
		ProductID:            m.ProductID,
		WarehouseID:          m.WarehouseID,
		Quantity:             m.Quantity,
		Kind:                 string(m.Kind),
		SourceDocumentID:     m.SourceDocumentID,
		SourceDocumentNumber: m.SourceDocumentNumber,
		CreatedAt:            m.CreatedAt,
		CreatedBy:            m.CreatedBy,
	}
}
