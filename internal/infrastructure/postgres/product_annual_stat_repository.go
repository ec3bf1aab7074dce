package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Gestionale-api/internal/domain/entity"
	"github.com/jhoicas/Gestionale-api/internal/domain/repository"
)

var _ repository.ProductAnnualStatRepository = (*ProductAnnualStatRepo)(nil)

// ProductAnnualStatRepo agregado de valoración por (organización, producto, año) (usable con pool o tx).
type ProductAnnualStatRepo struct {
	q Querier
}

// NewProductAnnualStatRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductAnnualStatRepository(q Querier) *ProductAnnualStatRepo {
	return &ProductAnnualStatRepo{q: q}
}

const statColumns = `organization_id, product_id, year, purchased_quantity, purchased_total_amount,
	sold_quantity, sold_total_amount, weighted_average_cost, last_cost, updated_at`

func scanStat(row rowScanner) (*entity.ProductAnnualStat, error) {
	var s entity.ProductAnnualStat
	err := row.Scan(&s.OrganizationID, &s.ProductID, &s.Year, &s.PurchasedQuantity, &s.PurchasedTotalAmount,
		&s.SoldQuantity, &s.SoldTotalAmount, &s.WeightedAverageCost, &s.LastCost, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// LockYear advisory lock de transacción sobre (organización, año). Se libera solo en commit o rollback.
func (r *ProductAnnualStatRepo) LockYear(ctx context.Context, organizationID string, year int, exclusive bool) error {
	query := `SELECT pg_advisory_xact_lock_shared(hashtext($1), $2::int)`
	if exclusive {
		query = `SELECT pg_advisory_xact_lock(hashtext($1), $2::int)`
	}
	if _, err := r.q.Exec(ctx, query, organizationID, year); err != nil {
		return fmt.Errorf("lock valuation year %d: %w", year, err)
	}
	return nil
}

// GetForUpdate bloquea la fila (organización, producto, año).
func (r *ProductAnnualStatRepo) GetForUpdate(ctx context.Context, organizationID, productID string, year int) (*entity.ProductAnnualStat, error) {
	query := `SELECT ` + statColumns + ` FROM product_annual_stats
		WHERE organization_id = $1 AND product_id = $2 AND year = $3
		FOR UPDATE`
	s, err := scanStat(r.q.QueryRow(ctx, query, organizationID, productID, year))
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product annual stat: %w", err)
	}
	return s, nil
}

// Save upsert de la fila completa.
func (r *ProductAnnualStatRepo) Save(ctx context.Context, s *entity.ProductAnnualStat) error {
	query := `
		INSERT INTO product_annual_stats (` + statColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (organization_id, product_id, year) DO UPDATE SET
			purchased_quantity     = EXCLUDED.purchased_quantity,
			purchased_total_amount = EXCLUDED.purchased_total_amount,
			sold_quantity          = EXCLUDED.sold_quantity,
			sold_total_amount      = EXCLUDED.sold_total_amount,
			weighted_average_cost  = EXCLUDED.weighted_average_cost,
			last_cost              = EXCLUDED.last_cost,
			updated_at             = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		s.OrganizationID, s.ProductID, s.Year, s.PurchasedQuantity, s.PurchasedTotalAmount,
		s.SoldQuantity, s.SoldTotalAmount, s.WeightedAverageCost, s.LastCost, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save product annual stat: %w", err)
	}
	return nil
}

// DeleteYear borra todas las filas del año y devuelve cuántas eran.
func (r *ProductAnnualStatRepo) DeleteYear(ctx context.Context, organizationID string, year int) (int64, error) {
	tag, err := r.q.Exec(ctx,
		`DELETE FROM product_annual_stats WHERE organization_id = $1 AND year = $2`, organizationID, year)
	if err != nil {
		return 0, fmt.Errorf("delete product annual stats: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ListByYear filas del año ordenadas por producto.
func (r *ProductAnnualStatRepo) ListByYear(ctx context.Context, organizationID string, year int) ([]*entity.ProductAnnualStat, error) {
	rows, err := r.q.Query(ctx, `SELECT `+statColumns+` FROM product_annual_stats
		WHERE organization_id = $1 AND year = $2 ORDER BY product_id`, organizationID, year)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list product annual stats: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductAnnualStat
	for rows.Next() {
		s, err := scanStat(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product annual stat: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
