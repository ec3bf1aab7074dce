// Package reconciliation contiene las reglas puras del motor de conciliación de pagos:
// agrupación de asignaciones, coherencia de dirección y verificación de residuos.
// No hace I/O: la capa de aplicación carga el estado (idealmente con filas bloqueadas) y llama a Validate.
package reconciliation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestionale-api/internal/domain"
	"github.com/jhoicas/Gestionale-api/internal/domain/entity"
	"github.com/jhoicas/Gestionale-api/pkg/money"
)

// Allocation importe de un pago a aplicar sobre una cuota.
type Allocation struct {
	InstallmentID string
	Amount        decimal.Decimal
}

// Group suma las asignaciones repetidas sobre la misma cuota (orden de primera aparición),
// descarta las que quedan en cero y rechaza importes negativos o con más de 2 decimales.
// Si no queda nada devuelve ErrNothingToAllocate.
func Group(requested []Allocation) ([]Allocation, error) {
	index := make(map[string]int, len(requested))
	var grouped []Allocation
	for i, a := range requested {
		if a.InstallmentID == "" {
			return nil, domain.Invalid(fmt.Sprintf("allocations[%d].installment_id", i), "es obligatorio")
		}
		if a.Amount.IsNegative() {
			return nil, domain.Invalid(fmt.Sprintf("allocations[%d].amount", i), "no puede ser negativo (%s)", a.Amount.String())
		}
		if !money.HasScale(a.Amount, money.AmountPlaces) {
			return nil, domain.Invalid(fmt.Sprintf("allocations[%d].amount", i), "admite como máximo %d decimales", money.AmountPlaces)
		}
		if j, ok := index[a.InstallmentID]; ok {
			grouped[j].Amount = grouped[j].Amount.Add(a.Amount)
			continue
		}
		index[a.InstallmentID] = len(grouped)
		grouped = append(grouped, a)
	}
	out := grouped[:0]
	for _, a := range grouped {
		if a.Amount.IsZero() {
			continue
		}
		out = append(out, a)
	}
	if len(out) == 0 {
		return nil, &domain.ValidationError{Field: "allocations", Message: "nada que asignar", Cause: domain.ErrNothingToAllocate}
	}
	return out, nil
}

// Total suma de los importes.
func Total(allocs []Allocation) decimal.Decimal {
	total := decimal.Zero
	for _, a := range allocs {
		total = total.Add(a.Amount)
	}
	return total
}

// InstallmentIDs ids en el orden de las asignaciones.
func InstallmentIDs(allocs []Allocation) []string {
	ids := make([]string, len(allocs))
	for i, a := range allocs {
		ids[i] = a.InstallmentID
	}
	return ids
}

// State estado leído del almacén contra el que se validan las asignaciones.
type State struct {
	OrganizationID string
	// PaymentID vacío cuando el pago se va a crear.
	PaymentID     string
	PaymentAmount decimal.Decimal
	// PaymentAllocated total ya asignado por este pago (0 si es nuevo).
	PaymentAllocated decimal.Decimal
	// Installments cuotas encontradas por id (las ausentes no están).
	Installments map[string]*entity.Installment
	// AllocatedTotals total asignado por cuota desde TODOS los pagos.
	AllocatedTotals map[string]decimal.Decimal
}

// Validate ejecuta los pasos de verificación en orden: capacidad del pago, pertenencia de las
// cuotas a la organización y residuo de cada cuota (el residuo exacto es válido).
func Validate(allocs []Allocation, st State) error {
	requested := Total(allocs)
	if requested.Add(st.PaymentAllocated).GreaterThan(st.PaymentAmount) {
		return &domain.LimitError{
			Kind:      domain.ErrPaymentCapacityExceeded,
			EntityID:  st.PaymentID,
			Requested: requested,
			Available: st.PaymentAmount.Sub(st.PaymentAllocated),
		}
	}
	for _, a := range allocs {
		inst, ok := st.Installments[a.InstallmentID]
		if !ok || inst == nil || inst.OrganizationID != st.OrganizationID {
			return fmt.Errorf("cuota %s: %w", a.InstallmentID, domain.ErrNotFound)
		}
	}
	for _, a := range allocs {
		inst := st.Installments[a.InstallmentID]
		residual := inst.Amount.Sub(st.AllocatedTotals[a.InstallmentID])
		if a.Amount.GreaterThan(residual) {
			return &domain.LimitError{
				Kind:      domain.ErrResidualExceeded,
				EntityID:  a.InstallmentID,
				Requested: a.Amount,
				Available: residual,
			}
		}
	}
	return nil
}
