package repository

import (
	"context"

	"github.com/jhoicas/Gestionale-api/internal/domain/entity"
)

// FinancialAccountRepository puerto de lectura de cuentas financieras.
type FinancialAccountRepository interface {
	GetByID(ctx context.Context, id string) (*entity.FinancialAccount, error)
}
