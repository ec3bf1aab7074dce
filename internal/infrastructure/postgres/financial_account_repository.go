package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Gestionale-api/internal/domain/entity"
	"github.com/jhoicas/Gestionale-api/internal/domain/repository"
)

// FinancialAccountRepo lectura de cuentas financieras.
type FinancialAccountRepo struct {
	q Querier
}

var _ repository.FinancialAccountRepository = (*FinancialAccountRepo)(nil)

// NewFinancialAccountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewFinancialAccountRepository(q Querier) *FinancialAccountRepo {
	return &FinancialAccountRepo{q: q}
}

// GetByID obtiene una cuenta por ID.
func (r *FinancialAccountRepo) GetByID(ctx context.Context, id string) (*entity.FinancialAccount, error) {
	if !isUUID(id) {
		return nil, nil
	}
	var a entity.FinancialAccount
	err := r.q.QueryRow(ctx, `
		SELECT id, organization_id, name, kind, iban, initial_balance, created_at
		FROM financial_accounts WHERE id = $1`, id,
	).Scan(&a.ID, &a.OrganizationID, &a.Name, &a.Kind, &a.IBAN, &a.InitialBalance, &a.CreatedAt)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get financial account: %w", err)
	}
	return &a, nil
}
