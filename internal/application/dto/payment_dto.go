package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// NewPaymentRequest datos para crear el pago dentro de la conciliación.
type NewPaymentRequest struct {
	AccountID string          `json:"account_id" validate:"required"`
	Direction string          `json:"direction" validate:"required,oneof=INFLOW OUTFLOW"`
	Amount    decimal.Decimal `json:"amount"`
	Date      Date            `json:"date"`
	Type      string          `json:"type,omitempty" validate:"max=40"`
	Reference string          `json:"reference,omitempty" validate:"max=120"`
	Notes     string          `json:"notes,omitempty" validate:"max=500"`
}

// AllocationRequest importe a asignar a una cuota.
type AllocationRequest struct {
	InstallmentID string          `json:"installment_id" validate:"required"`
	Amount        decimal.Decimal `json:"amount"`
}

// ReconcileRequest body de POST /api/payments/reconcile: PaymentID o Payment, nunca ambos.
type ReconcileRequest struct {
	PaymentID   string              `json:"payment_id,omitempty"`
	Payment     *NewPaymentRequest  `json:"payment,omitempty"`
	Allocations []AllocationRequest `json:"allocations" validate:"required,min=1,dive"`
}

// AllocationResponse fila de asignación tocada, con el total acumulado.
type AllocationResponse struct {
	ID            string          `json:"id"`
	InstallmentID string          `json:"installment_id"`
	Amount        decimal.Decimal `json:"amount"`
	Added         decimal.Decimal `json:"added"`
}

// ReconcileResponse identificadores del pago y de cada asignación tocada.
type ReconcileResponse struct {
	PaymentID      string               `json:"payment_id"`
	PaymentCreated bool                 `json:"payment_created"`
	Allocations    []AllocationResponse `json:"allocations"`
}

// PaymentListQuery filtros de GET /api/payments.
type PaymentListQuery struct {
	PageRequest
	AccountID string     `query:"account_id"`
	Direction string     `query:"direction" validate:"omitempty,oneof=INFLOW OUTFLOW"`
	From      *time.Time `query:"-"`
	To        *time.Time `query:"-"`
}

// PaymentResponse pago con importes asignado y libre (derivados).
type PaymentResponse struct {
	ID                string          `json:"id"`
	AccountID         string          `json:"account_id"`
	Direction         string          `json:"direction"`
	Amount            decimal.Decimal `json:"amount"`
	AllocatedAmount   decimal.Decimal `json:"allocated_amount"`
	UnallocatedAmount decimal.Decimal `json:"unallocated_amount"`
	Date              time.Time       `json:"date"`
	Type              string          `json:"type,omitempty"`
	Reference         string          `json:"reference,omitempty"`
	Notes             string          `json:"notes,omitempty"`
}

// PaymentListResponse listado paginado de pagos.
type PaymentListResponse struct {
	Items []PaymentResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// InstallmentQuery filtros de GET /api/installments/allocatable.
type InstallmentQuery struct {
	PageRequest
	Direction  string     `query:"direction" validate:"omitempty,oneof=SALE PURCHASE INTERNAL"`
	DocumentID string     `query:"document_id"`
	All        bool       `query:"all"`
	DueBefore  *time.Time `query:"-"`
}

// InstallmentResponse cuota con pagado y residuo derivados.
type InstallmentResponse struct {
	ID                string          `json:"id"`
	DocumentID        string          `json:"document_id"`
	DocumentNumber    string          `json:"document_number"`
	DocumentDirection string          `json:"document_direction"`
	DueDate           time.Time       `json:"due_date"`
	Amount            decimal.Decimal `json:"amount"`
	PaidAmount        decimal.Decimal `json:"paid_amount"`
	ResidualAmount    decimal.Decimal `json:"residual_amount"`
}

// InstallmentListResponse listado de cuotas asignables.
type InstallmentListResponse struct {
	Items []InstallmentResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// AccountBalanceResponse saldo derivado de una cuenta financiera.
type AccountBalanceResponse struct {
	AccountID      string          `json:"account_id"`
	Name           string          `json:"name"`
	Kind           string          `json:"kind"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	Inflow         decimal.Decimal `json:"inflow"`
	Outflow        decimal.Decimal `json:"outflow"`
	Balance        decimal.Decimal `json:"balance"`
}
