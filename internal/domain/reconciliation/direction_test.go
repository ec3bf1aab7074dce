package reconciliation_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gestionale-api/internal/domain"
	"github.com/jhoicas/Gestionale-api/internal/domain/entity"
	"github.com/jhoicas/Gestionale-api/internal/domain/reconciliation"
)

func withDirection(id, dir string) *entity.Installment {
	return &entity.Installment{ID: id, OrganizationID: "org-1", DocumentDirection: dir}
}

func TestExpectedPaymentDirection(t *testing.T) {
	tests := []struct {
		name   string
		dirs   []string
		policy reconciliation.InternalPolicy
		want   string
	}{
		{"compras", []string{entity.DirectionPurchase, entity.DirectionPurchase}, reconciliation.InternalAsSale, entity.PaymentOutflow},
		{"ventas", []string{entity.DirectionSale}, reconciliation.InternalAsSale, entity.PaymentInflow},
		{"interno como venta", []string{entity.DirectionInternal, entity.DirectionSale}, reconciliation.InternalAsSale, entity.PaymentInflow},
		{"interno como compra", []string{entity.DirectionInternal}, reconciliation.InternalAsPurchase, entity.PaymentOutflow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var insts []*entity.Installment
			for i, d := range tt.dirs {
				insts = append(insts, withDirection(string(rune('A'+i)), d))
			}
			got, err := reconciliation.ExpectedPaymentDirection(insts, tt.policy)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpectedPaymentDirection_Mezcla(t *testing.T) {
	insts := []*entity.Installment{withDirection("A", entity.DirectionSale), withDirection("B", entity.DirectionPurchase)}
	_, err := reconciliation.ExpectedPaymentDirection(insts, reconciliation.InternalAsSale)
	assert.True(t, errors.Is(err, domain.ErrMixedDirections))

	// con la política "purchase" un interno junto a una venta también es mezcla
	insts = []*entity.Installment{withDirection("A", entity.DirectionSale), withDirection("B", entity.DirectionInternal)}
	_, err = reconciliation.ExpectedPaymentDirection(insts, reconciliation.InternalAsPurchase)
	assert.True(t, errors.Is(err, domain.ErrMixedDirections))
}

func TestExpectedPaymentDirection_InternoRechazado(t *testing.T) {
	_, err := reconciliation.ExpectedPaymentDirection([]*entity.Installment{withDirection("A", entity.DirectionInternal)}, reconciliation.InternalReject)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestCheckPaymentDirection(t *testing.T) {
	insts := []*entity.Installment{withDirection("A", entity.DirectionPurchase)}
	assert.NoError(t, reconciliation.CheckPaymentDirection(entity.PaymentOutflow, insts, reconciliation.InternalAsSale))
	assert.True(t, errors.Is(reconciliation.CheckPaymentDirection(entity.PaymentInflow, insts, reconciliation.InternalAsSale), domain.ErrInvalidInput))
}

func TestParseInternalPolicy(t *testing.T) {
	p, err := reconciliation.ParseInternalPolicy("")
	require.NoError(t, err)
	assert.Equal(t, reconciliation.InternalAsSale, p)

	_, err = reconciliation.ParseInternalPolicy("both")
	assert.True(t, errors.Is(err, domain.ErrConfiguration))
}
