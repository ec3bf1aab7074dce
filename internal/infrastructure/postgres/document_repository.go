package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Gestionale-api/internal/domain"
	"github.com/jhoicas/Gestionale-api/internal/domain/entity"
	"github.com/jhoicas/Gestionale-api/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo lectura del agregado documento (cabecera, tipo y líneas) y registro de contabilización.
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

const documentColumns = `
	d.id, d.organization_id, d.number, d.date, d.default_warehouse_id, d.created_at,
	t.id, t.organization_id, t.code, t.name, t.direction, t.moves_inventory,
	t.operation_sign_stock, t.affects_valuation, t.operation_sign_valuation`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*entity.Document, error) {
	var d entity.Document
	var defaultWarehouse *string
	err := row.Scan(
		&d.ID, &d.OrganizationID, &d.Number, &d.Date, &defaultWarehouse, &d.CreatedAt,
		&d.Type.ID, &d.Type.OrganizationID, &d.Type.Code, &d.Type.Name, &d.Type.Direction, &d.Type.MovesInventory,
		&d.Type.StockSign, &d.Type.AffectsValuation, &d.Type.ValuationSign,
	)
	if err != nil {
		return nil, err
	}
	d.DefaultWarehouseID = deref(defaultWarehouse)
	return &d, nil
}

// GetByID devuelve el documento con tipo y líneas.
func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*entity.Document, error) {
	if !isUUID(id) {
		return nil, nil
	}
	query := `SELECT ` + documentColumns + `
		FROM documents d JOIN document_types t ON t.id = d.document_type_id
		WHERE d.id = $1`
	doc, err := scanDocument(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	lines, err := r.lines(ctx, []string{doc.ID})
	if err != nil {
		return nil, err
	}
	doc.Lines = lines[doc.ID]
	return doc, nil
}

// ListForValuation documentos del año con valoración activa, en orden de fecha, creación e id.
func (r *DocumentRepo) ListForValuation(ctx context.Context, organizationID string, year int) ([]*entity.Document, error) {
	query := `SELECT ` + documentColumns + `
		FROM documents d JOIN document_types t ON t.id = d.document_type_id
		WHERE d.organization_id = $1
		  AND EXTRACT(YEAR FROM d.date) = $2
		  AND t.affects_valuation
		  AND COALESCE(t.operation_sign_valuation, 0) <> 0
		ORDER BY d.date, d.created_at, d.id`
	rows, err := r.q.Query(ctx, query, organizationID, year)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list documents for valuation: %w", err)
	}
	var docs []*entity.Document
	var ids []string
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
		ids = append(ids, doc.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list documents for valuation: %w", err)
	}
	if len(docs) == 0 {
		return nil, nil
	}

	lines, err := r.lines(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		doc.Lines = lines[doc.ID]
	}
	return docs, nil
}

func (r *DocumentRepo) lines(ctx context.Context, documentIDs []string) (map[string][]entity.DocumentLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT document_id, id, product_id, warehouse_id, quantity, net_amount
		FROM document_lines
		WHERE document_id = ANY($1::text[]::uuid[])
		ORDER BY document_id, position, id`, documentIDs)
	if err != nil {
		return nil, fmt.Errorf("list document lines: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]entity.DocumentLine, len(documentIDs))
	for rows.Next() {
		var docID string
		var l entity.DocumentLine
		var productID, warehouseID *string
		if err := rows.Scan(&docID, &l.ID, &productID, &warehouseID, &l.Quantity, &l.NetAmount); err != nil {
			return nil, fmt.Errorf("scan document line: %w", err)
		}
		l.ProductID = deref(productID)
		l.WarehouseID = deref(warehouseID)
		out[docID] = append(out[docID], l)
	}
	return out, rows.Err()
}

// MarkPosted inserta en document_postings; la clave primaria impide contabilizar dos veces.
func (r *DocumentRepo) MarkPosted(ctx context.Context, documentID, userID string) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO document_postings (document_id, posted_at, posted_by) VALUES ($1, now(), $2)`,
		documentID, userID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("documento %s ya contabilizado: %w", documentID, domain.ErrConflict)
		}
		return fmt.Errorf("mark document posted: %w", err)
	}
	return nil
}
