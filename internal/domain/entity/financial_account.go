package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de cuenta financiera.
const (
	AccountKindBank    = "BANK"
	AccountKindCash    = "CASH"
	AccountKindVirtual = "VIRTUAL"
)

// FinancialAccount cuenta bancaria, caja o virtual. El saldo no se almacena:
// saldo = InitialBalance + Σ pagos de entrada − Σ pagos de salida.
type FinancialAccount struct {
	ID             string
	OrganizationID string
	Name           string
	Kind           string
	IBAN           string
	InitialBalance decimal.Decimal
	CreatedAt      time.Time
}
