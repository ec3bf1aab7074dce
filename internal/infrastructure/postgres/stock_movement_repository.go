package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestionale-api/internal/domain/entity"
	"github.com/jhoicas/Gestionale-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo libro de movimientos sobre PostgreSQL (usable con pool o tx).
// Solo hay INSERT: el stock se obtiene sumando, no existe fila de saldo que actualizar.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento de inventario.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (id, organization_id, product_id, warehouse_id, quantity, kind,
			source_document_id, source_document_number, source_document_line_id, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.OrganizationID, m.ProductID, m.WarehouseID, m.Quantity, string(m.Kind),
		nullIfEmpty(m.SourceDocumentID), m.SourceDocumentNumber, nullIfEmpty(m.SourceDocumentLineID),
		m.CreatedAt, m.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// SumQuantity stock actual = Σ cantidades con signo.
func (r *StockMovementRepo) SumQuantity(ctx context.Context, organizationID, productID, warehouseID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM stock_movements
		WHERE organization_id = $1 AND product_id = $2
		  AND ($3 = '' OR warehouse_id::text = $3)`
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, organizationID, productID, warehouseID).Scan(&total); err != nil {
		if isNotFound(err) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("sum stock movements: %w", err)
	}
	return total, nil
}

// ListByProduct movimientos del producto, más recientes primero.
func (r *StockMovementRepo) ListByProduct(ctx context.Context, organizationID, productID string, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, organization_id, product_id, warehouse_id, quantity, kind,
			source_document_id, source_document_number, source_document_line_id, created_at, created_by
		FROM stock_movements
		WHERE organization_id = $1 AND product_id = $2
		  AND ($3 = '' OR warehouse_id::text = $3)
		  AND ($4::timestamptz IS NULL OR created_at >= $4)
		  AND ($5::timestamptz IS NULL OR created_at <= $5)
		ORDER BY created_at DESC, id DESC
		LIMIT NULLIF($6, 0) OFFSET $7`
	rows, err := r.q.Query(ctx, query, organizationID, productID, f.WarehouseID, f.From, f.To, f.Limit, f.Offset)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var kind string
		var docID, lineID *string
		if err := rows.Scan(&m.ID, &m.OrganizationID, &m.ProductID, &m.WarehouseID, &m.Quantity, &kind,
			&docID, &m.SourceDocumentNumber, &lineID, &m.CreatedAt, &m.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		m.Kind = entity.MovementKind(kind)
		m.SourceDocumentID = deref(docID)
		m.SourceDocumentLineID = deref(lineID)
		list = append(list, &m)
	}
	return list, rows.Err()
}
