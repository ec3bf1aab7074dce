package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestionale-api/internal/domain/entity"
	"github.com/jhoicas/Gestionale-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo pagos y asignaciones sobre PostgreSQL (usable con pool o tx).
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

const paymentColumns = `p.id, p.organization_id, p.account_id, p.direction, p.amount, p.date,
	p.type, p.reference, p.notes, p.created_at, p.created_by`

func scanPayment(row rowScanner, extra ...any) (*entity.Payment, error) {
	var p entity.Payment
	dest := append([]any{&p.ID, &p.OrganizationID, &p.AccountID, &p.Direction, &p.Amount, &p.Date,
		&p.Type, &p.Reference, &p.Notes, &p.CreatedAt, &p.CreatedBy}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un pago nuevo.
func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO payments (id, organization_id, account_id, direction, amount, date, type, reference, notes, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.ID, p.OrganizationID, p.AccountID, p.Direction, p.Amount, p.Date,
		p.Type, p.Reference, p.Notes, p.CreatedAt, p.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

// GetByID obtiene un pago por ID.
func (r *PaymentRepo) GetByID(ctx context.Context, id string) (*entity.Payment, error) {
	return r.get(ctx, `SELECT `+paymentColumns+` FROM payments p WHERE p.id = $1`, id)
}

// GetForUpdate como GetByID pero bloqueando la fila hasta el fin de la transacción.
func (r *PaymentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Payment, error) {
	return r.get(ctx, `SELECT `+paymentColumns+` FROM payments p WHERE p.id = $1 FOR UPDATE`, id)
}

func (r *PaymentRepo) get(ctx context.Context, query, id string) (*entity.Payment, error) {
	if !isUUID(id) {
		return nil, nil
	}
	p, err := scanPayment(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

// List pagos con su total asignado, más recientes primero.
func (r *PaymentRepo) List(ctx context.Context, organizationID string, f repository.PaymentFilter) ([]repository.PaymentSummary, error) {
	query := `
		SELECT ` + paymentColumns + `, COALESCE(SUM(m.amount), 0)
		FROM payments p
		LEFT JOIN payment_mappings m ON m.payment_id = p.id
		WHERE p.organization_id = $1
		  AND ($2 = '' OR p.account_id::text = $2)
		  AND ($3 = '' OR p.direction = $3)
		  AND ($4::date IS NULL OR p.date >= $4)
		  AND ($5::date IS NULL OR p.date <= $5)
		GROUP BY p.id
		ORDER BY p.date DESC, p.id
		LIMIT NULLIF($6, 0) OFFSET $7`
	rows, err := r.q.Query(ctx, query, organizationID, f.AccountID, f.Direction, f.From, f.To, f.Limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var list []repository.PaymentSummary
	for rows.Next() {
		var allocated decimal.Decimal
		p, err := scanPayment(rows, &allocated)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		list = append(list, repository.PaymentSummary{Payment: *p, AllocatedAmount: allocated})
	}
	return list, rows.Err()
}

// Delete borra las asignaciones del pago y después el pago.
func (r *PaymentRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM payment_mappings WHERE payment_id = $1`, id); err != nil {
		return fmt.Errorf("delete payment mappings: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM payments WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	return nil
}

const mappingColumns = `id, payment_id, installment_id, amount, created_at, updated_at`

func scanMapping(row rowScanner) (*entity.PaymentMapping, error) {
	var m entity.PaymentMapping
	if err := row.Scan(&m.ID, &m.PaymentID, &m.InstallmentID, &m.Amount, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

// Mappings asignaciones del pago.
func (r *PaymentRepo) Mappings(ctx context.Context, paymentID string) ([]*entity.PaymentMapping, error) {
	rows, err := r.q.Query(ctx, `SELECT `+mappingColumns+` FROM payment_mappings
		WHERE payment_id = $1 ORDER BY created_at, id`, paymentID)
	if err != nil {
		return nil, fmt.Errorf("list payment mappings: %w", err)
	}
	defer rows.Close()
	var list []*entity.PaymentMapping
	for rows.Next() {
		m, err := scanMapping(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment mapping: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// UpsertMapping suma amount a la fila (pago, cuota); la crea si no existe.
func (r *PaymentRepo) UpsertMapping(ctx context.Context, paymentID, installmentID string, amount decimal.Decimal) (*entity.PaymentMapping, error) {
	query := `
		INSERT INTO payment_mappings (id, payment_id, installment_id, amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		ON CONFLICT (payment_id, installment_id) DO UPDATE SET
			amount     = payment_mappings.amount + EXCLUDED.amount,
			updated_at = now()
		RETURNING ` + mappingColumns
	m, err := scanMapping(r.q.QueryRow(ctx, query, uuid.New().String(), paymentID, installmentID, amount))
	if err != nil {
		return nil, fmt.Errorf("upsert payment mapping: %w", err)
	}
	return m, nil
}

// AccountFlows totales de entrada y salida de la cuenta.
func (r *PaymentRepo) AccountFlows(ctx context.Context, accountID string) (decimal.Decimal, decimal.Decimal, error) {
	var inflow, outflow decimal.Decimal
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount) FILTER (WHERE direction = $2), 0),
		       COALESCE(SUM(amount) FILTER (WHERE direction = $3), 0)
		FROM payments WHERE account_id = $1`,
		accountID, entity.PaymentInflow, entity.PaymentOutflow,
	).Scan(&inflow, &outflow)
	if err != nil {
		if isNotFound(err) {
			return decimal.Zero, decimal.Zero, nil
		}
		return decimal.Zero, decimal.Zero, fmt.Errorf("account flows: %w", err)
	}
	return inflow, outflow, nil
}
