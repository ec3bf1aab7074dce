package valuation

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestionale-api/pkg/money"
)

// WeightedAverageCost costo medio ponderado (CMP) del año:
// CMP = ImporteComprado / CantidadComprada, o 0 si la cantidad es <= 0. Redondeado a 4 decimales.
func WeightedAverageCost(purchasedAmount, purchasedQuantity decimal.Decimal) decimal.Decimal {
	return money.DivOrZero(purchasedAmount, purchasedQuantity, money.CostPlaces)
}

// UnitCost costo unitario de una línea de compra (neto / cantidad), 4 decimales.
func UnitCost(netAmount, quantity decimal.Decimal) decimal.Decimal {
	return money.DivOrZero(netAmount, quantity, money.CostPlaces)
}
