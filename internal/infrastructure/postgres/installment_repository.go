package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestionale-api/internal/domain/entity"
	"github.com/jhoicas/Gestionale-api/internal/domain/repository"
)

var _ repository.InstallmentRepository = (*InstallmentRepo)(nil)

// InstallmentRepo cuotas de documentos. El importe pagado nunca se guarda: se suma de payment_mappings.
type InstallmentRepo struct {
	q Querier
}

// NewInstallmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInstallmentRepository(q Querier) *InstallmentRepo {
	return &InstallmentRepo{q: q}
}

const installmentColumns = `i.id, i.organization_id, i.document_id, d.number, t.direction, i.amount, i.due_date`

const installmentFrom = `
	FROM installments i
	JOIN documents d ON d.id = i.document_id
	JOIN document_types t ON t.id = d.document_type_id`

func scanInstallment(row rowScanner, extra ...any) (*entity.Installment, error) {
	var in entity.Installment
	dest := append([]any{&in.ID, &in.OrganizationID, &in.DocumentID, &in.DocumentNumber,
		&in.DocumentDirection, &in.Amount, &in.DueDate}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &in, nil
}

// GetByIDs carga las cuotas; con forUpdate las filas se bloquean en orden de id para que
// dos conciliaciones sobre cuotas solapadas no se bloqueen mutuamente.
func (r *InstallmentRepo) GetByIDs(ctx context.Context, ids []string, forUpdate bool) ([]*entity.Installment, error) {
	ids = onlyUUIDs(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + installmentColumns + installmentFrom + `
		WHERE i.id = ANY($1::text[]::uuid[])
		ORDER BY i.id`
	if forUpdate {
		query += ` FOR UPDATE OF i`
	}
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get installments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Installment
	for rows.Next() {
		in, err := scanInstallment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan installment: %w", err)
		}
		list = append(list, in)
	}
	if err := rows.Err(); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get installments: %w", err)
	}
	return list, nil
}

// AllocatedTotals Σ asignaciones de todos los pagos por cuota.
func (r *InstallmentRepo) AllocatedTotals(ctx context.Context, ids []string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(ids))
	ids = onlyUUIDs(ids)
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, `
		SELECT installment_id, SUM(amount)
		FROM payment_mappings
		WHERE installment_id = ANY($1::text[]::uuid[])
		GROUP BY installment_id`, ids)
	if err != nil {
		if isNotFound(err) {
			return out, nil
		}
		return nil, fmt.Errorf("allocated totals: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var total decimal.Decimal
		if err := rows.Scan(&id, &total); err != nil {
			return nil, fmt.Errorf("scan allocated total: %w", err)
		}
		out[id] = total
	}
	if err := rows.Err(); err != nil {
		if isNotFound(err) {
			return map[string]decimal.Decimal{}, nil
		}
		return nil, fmt.Errorf("allocated totals: %w", err)
	}
	return out, nil
}

// ListWithBalance cuotas con importe pagado derivado, ordenadas por vencimiento.
func (r *InstallmentRepo) ListWithBalance(ctx context.Context, organizationID string, f repository.InstallmentFilter) ([]entity.InstallmentBalance, error) {
	query := `
		SELECT ` + installmentColumns + `, COALESCE(SUM(m.amount), 0) AS paid` + installmentFrom + `
		LEFT JOIN payment_mappings m ON m.installment_id = i.id
		WHERE i.organization_id = $1
		  AND ($2 = '' OR t.direction = $2)
		  AND ($3 = '' OR i.document_id::text = $3)
		  AND ($4::date IS NULL OR i.due_date <= $4)
		GROUP BY i.id, d.number, t.direction
		HAVING NOT $5::boolean OR i.amount - COALESCE(SUM(m.amount), 0) > 0
		ORDER BY i.due_date, i.id
		LIMIT NULLIF($6, 0) OFFSET $7`
	rows, err := r.q.Query(ctx, query, organizationID, f.Direction, f.DocumentID, f.DueBefore, f.OnlyOpen, f.Limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list installments: %w", err)
	}
	defer rows.Close()
	var list []entity.InstallmentBalance
	for rows.Next() {
		var paid decimal.Decimal
		in, err := scanInstallment(rows, &paid)
		if err != nil {
			return nil, fmt.Errorf("scan installment: %w", err)
		}
		list = append(list, entity.InstallmentBalance{Installment: *in, PaidAmount: paid})
	}
	return list, rows.Err()
}
