package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductAnnualStat agregado mutable por (organización, producto, año).
// WeightedAverageCost = PurchasedTotalAmount / PurchasedQuantity si PurchasedQuantity > 0, si no 0.
type ProductAnnualStat struct {
	OrganizationID       string
	ProductID            string
	Year                 int
	PurchasedQuantity    decimal.Decimal
	PurchasedTotalAmount decimal.Decimal
	SoldQuantity         decimal.Decimal
	SoldTotalAmount      decimal.Decimal
	WeightedAverageCost  decimal.Decimal
	LastCost             decimal.Decimal
	UpdatedAt            time.Time
}

// NewProductAnnualStat fila vacía (estado "ausente" antes del primer apply).
func NewProductAnnualStat(organizationID, productID string, year int) ProductAnnualStat {
	return ProductAnnualStat{
		OrganizationID:       organizationID,
		ProductID:            productID,
		Year:                 year,
		PurchasedQuantity:    decimal.Zero,
		PurchasedTotalAmount: decimal.Zero,
		SoldQuantity:         decimal.Zero,
		SoldTotalAmount:      decimal.Zero,
		WeightedAverageCost:  decimal.Zero,
		LastCost:             decimal.Zero,
	}
}

// SameFigures compara las cifras (no metadatos) de dos filas.
func (s ProductAnnualStat) SameFigures(o ProductAnnualStat) bool {
	return s.PurchasedQuantity.Equal(o.PurchasedQuantity) &&
		s.PurchasedTotalAmount.Equal(o.PurchasedTotalAmount) &&
		s.SoldQuantity.Equal(o.SoldQuantity) &&
		s.SoldTotalAmount.Equal(o.SoldTotalAmount) &&
		s.WeightedAverageCost.Equal(o.WeightedAverageCost) &&
		s.LastCost.Equal(o.LastCost)
}
