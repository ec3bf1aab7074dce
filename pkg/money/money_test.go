package money_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gestionale-api/pkg/money"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "1220.00", want: "1220"},
		{in: " 220,01 ", want: "220.01"},
		{in: "-15.5", want: "-15.5"},
		{in: "0.001", wantErr: true},
		{in: "", wantErr: true},
		{in: "12a", wantErr: true},
		{in: "1.234,56", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := money.ParseAmount(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, money.ErrInvalidFormat))
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tc.want)), "got %s", got)
		})
	}
}

func TestParseQuantity_Escala(t *testing.T) {
	q, err := money.ParseQuantity("10.1234")
	require.NoError(t, err)
	assert.Equal(t, "10.1234", q.String())

	_, err = money.ParseQuantity("10.12345")
	assert.ErrorIs(t, err, money.ErrInvalidFormat)
}

func TestRedondeoMitadArriba(t *testing.T) {
	assert.Equal(t, "0.13", money.RoundAmount(decimal.RequireFromString("0.125")).String())
	assert.Equal(t, "-0.13", money.RoundAmount(decimal.RequireFromString("-0.125")).String())
	assert.Equal(t, "1.2346", money.RoundQuantity(decimal.RequireFromString("1.23455")).String())
}

func TestDivOrZero(t *testing.T) {
	assert.True(t, money.DivOrZero(decimal.NewFromInt(120), decimal.NewFromInt(20), money.CostPlaces).Equal(decimal.NewFromInt(6)))
	assert.True(t, money.DivOrZero(decimal.NewFromInt(120), decimal.Zero, money.CostPlaces).IsZero())
	assert.True(t, money.DivOrZero(decimal.NewFromInt(120), decimal.NewFromInt(-1), money.CostPlaces).IsZero())
	assert.Equal(t, "3.3333", money.DivOrZero(decimal.NewFromInt(10), decimal.NewFromInt(3), money.CostPlaces).String())
}

func TestSumIndependienteDelOrden(t *testing.T) {
	a := decimal.RequireFromString("0.1")
	b := decimal.RequireFromString("0.2")
	c := decimal.RequireFromString("-0.3")
	assert.True(t, money.Sum(a, b, c).IsZero())
	assert.True(t, money.Sum(c, a, b).IsZero())
	assert.True(t, money.Sum().IsZero())
}
