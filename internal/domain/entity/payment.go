package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direcciones de pago.
const (
	PaymentInflow  = "INFLOW"
	PaymentOutflow = "OUTFLOW"
)

// Payment cobro o pago. Inmutable salvo por su conjunto de asignaciones.
type Payment struct {
	ID             string
	OrganizationID string
	AccountID      string
	Direction      string
	Amount         decimal.Decimal
	Date           time.Time
	Type           string // bonifico, contanti, riba...
	Reference      string
	Notes          string
	CreatedAt      time.Time
	CreatedBy      string
}

// PaymentMapping asignación de un pago a una cuota. Única por (PaymentID, InstallmentID).
type PaymentMapping struct {
	ID            string
	PaymentID     string
	InstallmentID string
	Amount        decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
