package valuation_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gestionale-api/internal/domain/entity"
	"github.com/jhoicas/Gestionale-api/internal/domain/valuation"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func purchaseLine(qty, net string) entity.DocumentLine {
	return entity.DocumentLine{ProductID: "p-1", Quantity: dec(qty), NetAmount: dec(net)}
}

func TestApply_CostoMedioPonderado(t *testing.T) {
	stat := entity.NewProductAnnualStat("org-1", "p-1", 2024)

	stat = valuation.Apply(stat, entity.DirectionPurchase, 1, purchaseLine("10", "50.00"))
	assert.True(t, stat.WeightedAverageCost.Equal(dec("5")))
	assert.True(t, stat.LastCost.Equal(dec("5")))

	stat = valuation.Apply(stat, entity.DirectionPurchase, 1, purchaseLine("10", "70.00"))
	assert.True(t, stat.PurchasedQuantity.Equal(dec("20")))
	assert.True(t, stat.PurchasedTotalAmount.Equal(dec("120")))
	assert.True(t, stat.WeightedAverageCost.Equal(dec("6.00")), stat.WeightedAverageCost.String())
	assert.True(t, stat.LastCost.Equal(dec("7.00")), stat.LastCost.String())
}

func TestApply_Venta(t *testing.T) {
	stat := entity.NewProductAnnualStat("org-1", "p-1", 2024)
	stat = valuation.Apply(stat, entity.DirectionSale, 1, purchaseLine("2.5", "30.10"))

	assert.True(t, stat.SoldQuantity.Equal(dec("2.5")))
	assert.True(t, stat.SoldTotalAmount.Equal(dec("30.10")))
	assert.True(t, stat.PurchasedQuantity.IsZero())
	assert.True(t, stat.WeightedAverageCost.IsZero())
}

func TestApply_SignoNegativoNoActualizaUltimoCosto(t *testing.T) {
	stat := entity.NewProductAnnualStat("org-1", "p-1", 2024)
	stat = valuation.Apply(stat, entity.DirectionPurchase, 1, purchaseLine("10", "50.00"))
	// nota de crédito de compra: signo -1
	stat = valuation.Apply(stat, entity.DirectionPurchase, -1, purchaseLine("2", "14.00"))

	assert.True(t, stat.PurchasedQuantity.Equal(dec("8")))
	assert.True(t, stat.PurchasedTotalAmount.Equal(dec("36")))
	assert.True(t, stat.LastCost.Equal(dec("5")))
	assert.True(t, stat.WeightedAverageCost.Equal(dec("4.5")))
}

func TestApply_InternoSinEfecto(t *testing.T) {
	stat := entity.NewProductAnnualStat("org-1", "p-1", 2024)
	got := valuation.Apply(stat, entity.DirectionInternal, 1, purchaseLine("10", "50.00"))
	assert.True(t, got.SameFigures(stat))
}

func TestRevert_LimitaCostoMedioACero(t *testing.T) {
	stat := entity.NewProductAnnualStat("org-1", "p-1", 2024)
	stat = valuation.Apply(stat, entity.DirectionPurchase, 1, purchaseLine("10", "50.00"))
	stat = valuation.Revert(stat, entity.DirectionPurchase, 1, purchaseLine("10", "50.00"))

	assert.True(t, stat.PurchasedQuantity.IsZero())
	assert.True(t, stat.WeightedAverageCost.IsZero())
	assert.True(t, stat.LastCost.Equal(dec("5")), "revert nunca toca el último costo")
}

func TestRevertApply_IdaYVuelta(t *testing.T) {
	lines := []entity.DocumentLine{
		purchaseLine("3.3333", "10.01"),
		purchaseLine("0.0001", "0.01"),
		purchaseLine("7", "49.99"),
		purchaseLine("1.25", "3.333"),
	}
	for _, dir := range []string{entity.DirectionPurchase, entity.DirectionSale} {
		for _, sign := range []int{1, -1} {
			base := entity.NewProductAnnualStat("org-1", "p-1", 2024)
			base = valuation.Apply(base, entity.DirectionPurchase, 1, purchaseLine("12", "100.00"))
			base = valuation.Apply(base, entity.DirectionSale, 1, purchaseLine("4", "80.00"))
			for _, l := range lines {
				applied := valuation.Apply(base, dir, sign, l)
				// revert(snapshot); apply(documento) deja la fila igual
				again := valuation.Apply(valuation.Revert(applied, dir, sign, l), dir, sign, l)
				assert.True(t, applied.SameFigures(again), "%s %+d %s", dir, sign, l.Quantity)

				back := valuation.Revert(applied, dir, sign, l)
				assert.True(t, back.PurchasedQuantity.Equal(base.PurchasedQuantity))
				assert.True(t, back.PurchasedTotalAmount.Equal(base.PurchasedTotalAmount))
				assert.True(t, back.SoldQuantity.Equal(base.SoldQuantity))
				assert.True(t, back.SoldTotalAmount.Equal(base.SoldTotalAmount))
			}
		}
	}
}

func TestApplyDocument_AgrupaPorProducto(t *testing.T) {
	sign := 1
	doc := &entity.Document{
		OrganizationID: "org-1",
		Date:           time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Type: entity.DocumentType{
			Direction:        entity.DirectionPurchase,
			AffectsValuation: true,
			ValuationSign:    &sign,
		},
		Lines: []entity.DocumentLine{
			{ProductID: "p-2", Quantity: dec("1"), NetAmount: dec("3")},
			{ProductID: "p-1", Quantity: dec("10"), NetAmount: dec("50")},
			{Quantity: dec("1"), NetAmount: dec("99")},
			{ProductID: "p-1", Quantity: dec("10"), NetAmount: dec("70")},
		},
	}
	assert.Equal(t, []valuation.Key{{ProductID: "p-1", Year: 2024}, {ProductID: "p-2", Year: 2024}}, valuation.Keys(doc))

	stats := map[valuation.Key]*entity.ProductAnnualStat{}
	touched, err := valuation.ApplyDocument(doc, stats, func(valuation.Key) (*entity.ProductAnnualStat, error) { return nil, nil })
	require.NoError(t, err)
	assert.Len(t, touched, 2)

	p1 := stats[valuation.Key{ProductID: "p-1", Year: 2024}]
	require.NotNil(t, p1)
	assert.True(t, p1.WeightedAverageCost.Equal(dec("6")))
	assert.Equal(t, "org-1", p1.OrganizationID)
}

func TestApplyDocument_SinValoracion(t *testing.T) {
	zero := 0
	doc := &entity.Document{
		Date:  time.Now(),
		Type:  entity.DocumentType{Direction: entity.DirectionPurchase, AffectsValuation: true, ValuationSign: &zero},
		Lines: []entity.DocumentLine{{ProductID: "p-1", Quantity: dec("1"), NetAmount: dec("1")}},
	}
	stats := map[valuation.Key]*entity.ProductAnnualStat{}
	touched, err := valuation.ApplyDocument(doc, stats, func(valuation.Key) (*entity.ProductAnnualStat, error) {
		t.Fatal("no debe cargar filas")
		return nil, nil
	})
	require.NoError(t, err)
	assert.Empty(t, touched)
	assert.Empty(t, valuation.Keys(doc))
}

func TestKeys_DocumentoInternoNoTocaFilas(t *testing.T) {
	sign := 1
	doc := &entity.Document{
		Date:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Type:  entity.DocumentType{Direction: entity.DirectionInternal, AffectsValuation: true, ValuationSign: &sign},
		Lines: []entity.DocumentLine{{ProductID: "p-1", Quantity: dec("4"), NetAmount: dec("20")}},
	}
	assert.False(t, valuation.Valued(doc.Type))
	assert.Empty(t, valuation.Keys(doc))

	stats := map[valuation.Key]*entity.ProductAnnualStat{}
	touched, err := valuation.ApplyDocument(doc, stats, func(valuation.Key) (*entity.ProductAnnualStat, error) { return nil, nil })
	require.NoError(t, err)
	assert.Empty(t, touched)
	assert.Empty(t, stats)
}
