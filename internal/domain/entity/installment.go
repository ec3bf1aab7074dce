package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Installment cuota (scadenza) de un documento. PaidAmount no se almacena:
// se calcula sumando las asignaciones de todos los pagos.
type Installment struct {
	ID                string
	OrganizationID    string
	DocumentID        string
	DocumentNumber    string
	DocumentDirection string // dirección del tipo de documento: SALE, PURCHASE, INTERNAL
	Amount            decimal.Decimal
	DueDate           time.Time
}

// InstallmentBalance cuota con sus cifras derivadas.
type InstallmentBalance struct {
	Installment
	PaidAmount decimal.Decimal
}

// Residual importe pendiente de la cuota.
func (b InstallmentBalance) Residual() decimal.Decimal {
	return b.Amount.Sub(b.PaidAmount)
}
