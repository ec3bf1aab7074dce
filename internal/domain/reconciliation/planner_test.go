package reconciliation_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gestionale-api/internal/domain"
	"github.com/jhoicas/Gestionale-api/internal/domain/entity"
	"github.com/jhoicas/Gestionale-api/internal/domain/reconciliation"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func alloc(id, amount string) reconciliation.Allocation {
	return reconciliation.Allocation{InstallmentID: id, Amount: dec(amount)}
}

func TestGroup_SumaDuplicados(t *testing.T) {
	got, err := reconciliation.Group([]reconciliation.Allocation{
		alloc("A", "400.00"), alloc("B", "10"), alloc("A", "100.00"),
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].InstallmentID)
	assert.True(t, got[0].Amount.Equal(dec("500")))
	assert.True(t, reconciliation.Total(got).Equal(dec("510")))
}

func TestGroup_FiltraCeros(t *testing.T) {
	got, err := reconciliation.Group([]reconciliation.Allocation{alloc("A", "0"), alloc("B", "5")})
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, reconciliation.InstallmentIDs(got))

	_, err = reconciliation.Group([]reconciliation.Allocation{alloc("A", "0"), alloc("A", "0.00")})
	assert.True(t, errors.Is(err, domain.ErrNothingToAllocate))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = reconciliation.Group(nil)
	assert.True(t, errors.Is(err, domain.ErrNothingToAllocate))
}

func TestGroup_RechazaEntradasInvalidas(t *testing.T) {
	for name, a := range map[string]reconciliation.Allocation{
		"negativo":  alloc("A", "-1"),
		"decimales": alloc("A", "1.001"),
		"sin cuota": alloc("", "1"),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := reconciliation.Group([]reconciliation.Allocation{a})
			var ve *domain.ValidationError
			assert.True(t, errors.As(err, &ve))
		})
	}
}

func state(amount string, installments ...*entity.Installment) reconciliation.State {
	st := reconciliation.State{
		OrganizationID:   "org-1",
		PaymentAmount:    dec(amount),
		PaymentAllocated: decimal.Zero,
		Installments:     map[string]*entity.Installment{},
		AllocatedTotals:  map[string]decimal.Decimal{},
	}
	for _, i := range installments {
		st.Installments[i.ID] = i
	}
	return st
}

func installment(id, amount string) *entity.Installment {
	return &entity.Installment{ID: id, OrganizationID: "org-1", Amount: dec(amount), DocumentDirection: entity.DirectionSale}
}

func TestValidate_ResiduoExcedido(t *testing.T) {
	st := state("300.00", installment("A", "1220.00"))
	st.AllocatedTotals["A"] = dec("1000.00")

	err := reconciliation.Validate([]reconciliation.Allocation{alloc("A", "220.01")}, st)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrResidualExceeded))
	var le *domain.LimitError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "A", le.EntityID)
	assert.True(t, le.Available.Equal(dec("220")))
	assert.True(t, le.Requested.Equal(dec("220.01")))
}

func TestValidate_ResiduoExactoEsValido(t *testing.T) {
	st := state("300.00", installment("A", "1220.00"))
	st.AllocatedTotals["A"] = dec("1000.00")
	assert.NoError(t, reconciliation.Validate([]reconciliation.Allocation{alloc("A", "220.00")}, st))
}

func TestValidate_CapacidadDelPago(t *testing.T) {
	st := state("100.00", installment("A", "500"), installment("B", "500"))
	st.PaymentID = "pay-1"
	st.PaymentAllocated = dec("60")

	err := reconciliation.Validate([]reconciliation.Allocation{alloc("A", "20"), alloc("B", "20.01")}, st)
	require.True(t, errors.Is(err, domain.ErrPaymentCapacityExceeded))
	var le *domain.LimitError
	require.True(t, errors.As(err, &le))
	assert.True(t, le.Available.Equal(dec("40")))

	assert.NoError(t, reconciliation.Validate([]reconciliation.Allocation{alloc("A", "20"), alloc("B", "20")}, st))
}

func TestValidate_CapacidadDePagoNuevoSinId(t *testing.T) {
	st := state("50.00", installment("A", "500"))

	err := reconciliation.Validate([]reconciliation.Allocation{alloc("A", "50.01")}, st)
	var le *domain.LimitError
	require.True(t, errors.As(err, &le))
	assert.Empty(t, le.EntityID)
	assert.NotContains(t, err.Error(), "(id")
	assert.Contains(t, err.Error(), "solicitado 50.01, disponible 50.00")
}

func TestValidate_CuotaDeOtraOrganizacion(t *testing.T) {
	foreign := installment("A", "100")
	foreign.OrganizationID = "org-2"
	st := state("100", foreign)

	err := reconciliation.Validate([]reconciliation.Allocation{alloc("A", "10")}, st)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	err = reconciliation.Validate([]reconciliation.Allocation{alloc("Z", "10")}, state("100"))
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
