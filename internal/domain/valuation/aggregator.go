// Package valuation contiene las funciones puras del agregado anual de valoración.
// Apply y Revert son inversas exactas sobre las cantidades e importes: los deltas se redondean
// a la escala fija antes de sumarse, por lo que Revert(Apply(s, l), l) recupera las mismas cifras
// (salvo LastCost, que solo Apply modifica).
package valuation

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestionale-api/internal/domain"
	"github.com/jhoicas/Gestionale-api/internal/domain/entity"
	"github.com/jhoicas/Gestionale-api/pkg/money"
)

// Delta variación de una línea ya multiplicada por el signo de valoración.
type Delta struct {
	Quantity decimal.Decimal
	Amount   decimal.Decimal
}

// LineDelta calcula Δcantidad = cantidad × signo y Δimporte = neto × signo, en escala fija.
func LineDelta(line entity.DocumentLine, sign int) Delta {
	s := decimal.NewFromInt(int64(sign))
	return Delta{
		Quantity: money.RoundQuantity(line.Quantity.Mul(s)),
		Amount:   money.RoundAmount(line.NetAmount.Mul(s)),
	}
}

// Valued indica si los documentos del tipo mueven estadísticas: valoración activa con signo
// y dirección SALE o PURCHASE. Es el único filtro que usan Keys y el recorrido de líneas.
func Valued(t entity.DocumentType) bool {
	if !t.ValuationActive() {
		return false
	}
	return t.Direction == entity.DirectionSale || t.Direction == entity.DirectionPurchase
}

// Affects indica si una línea del documento participa en la valoración.
func Affects(t entity.DocumentType, line entity.DocumentLine) bool {
	return Valued(t) && line.ProductID != ""
}

// Apply aplica una línea a la fila del año. direction es la del documento (SALE, PURCHASE);
// INTERNAL no tiene rama de valoración y devuelve la fila sin cambios.
func Apply(stat entity.ProductAnnualStat, direction string, sign int, line entity.DocumentLine) entity.ProductAnnualStat {
	if sign == 0 || line.ProductID == "" {
		return stat
	}
	d := LineDelta(line, sign)
	switch direction {
	case entity.DirectionSale:
		stat.SoldQuantity = money.RoundQuantity(stat.SoldQuantity.Add(d.Quantity))
		stat.SoldTotalAmount = money.RoundAmount(stat.SoldTotalAmount.Add(d.Amount))
	case entity.DirectionPurchase:
		stat.PurchasedQuantity = money.RoundQuantity(stat.PurchasedQuantity.Add(d.Quantity))
		stat.PurchasedTotalAmount = money.RoundAmount(stat.PurchasedTotalAmount.Add(d.Amount))
		if d.Quantity.IsPositive() && line.Quantity.IsPositive() {
			stat.LastCost = UnitCost(line.NetAmount, line.Quantity)
		}
		stat.WeightedAverageCost = WeightedAverageCost(stat.PurchasedTotalAmount, stat.PurchasedQuantity)
	}
	return stat
}

// Revert es el espejo de Apply: mismos deltas negados, nunca toca LastCost y deja el CMP
// en 0 si la cantidad resultante es <= 0 o el importe resultante es negativo.
func Revert(stat entity.ProductAnnualStat, direction string, sign int, line entity.DocumentLine) entity.ProductAnnualStat {
	if sign == 0 || line.ProductID == "" {
		return stat
	}
	d := LineDelta(line, sign)
	switch direction {
	case entity.DirectionSale:
		stat.SoldQuantity = money.RoundQuantity(stat.SoldQuantity.Sub(d.Quantity))
		stat.SoldTotalAmount = money.RoundAmount(stat.SoldTotalAmount.Sub(d.Amount))
	case entity.DirectionPurchase:
		stat.PurchasedQuantity = money.RoundQuantity(stat.PurchasedQuantity.Sub(d.Quantity))
		stat.PurchasedTotalAmount = money.RoundAmount(stat.PurchasedTotalAmount.Sub(d.Amount))
		if !stat.PurchasedQuantity.IsPositive() || stat.PurchasedTotalAmount.IsNegative() {
			stat.WeightedAverageCost = decimal.Zero
		} else {
			stat.WeightedAverageCost = WeightedAverageCost(stat.PurchasedTotalAmount, stat.PurchasedQuantity)
		}
	}
	return stat
}

// Key identifica la fila de un producto en un año.
type Key struct {
	ProductID string
	Year      int
}

// ApplyDocument aplica todas las líneas de doc sobre stats (mutado en sitio). load se llama
// la primera vez que aparece una clave para obtener la fila actual o una nueva.
// Devuelve las claves tocadas en orden de primera aparición.
func ApplyDocument(doc *entity.Document, stats map[Key]*entity.ProductAnnualStat, load func(Key) (*entity.ProductAnnualStat, error)) ([]Key, error) {
	return walkDocument(doc, stats, load, Apply)
}

// RevertDocument revierte todas las líneas del snapshot sobre stats.
func RevertDocument(doc *entity.Document, stats map[Key]*entity.ProductAnnualStat, load func(Key) (*entity.ProductAnnualStat, error)) ([]Key, error) {
	return walkDocument(doc, stats, load, Revert)
}

// Keys claves (producto, año) que el documento toca, ordenadas por producto.
// Cargarlas en este orden evita interbloqueos entre documentos concurrentes.
func Keys(doc *entity.Document) []Key {
	if !Valued(doc.Type) {
		return nil
	}
	seen := make(map[string]struct{})
	var keys []Key
	for _, line := range doc.Lines {
		if !Affects(doc.Type, line) {
			continue
		}
		if _, ok := seen[line.ProductID]; ok {
			continue
		}
		seen[line.ProductID] = struct{}{}
		keys = append(keys, Key{ProductID: line.ProductID, Year: doc.Date.Year()})
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].ProductID < keys[j].ProductID })
	return keys
}

type stepFunc func(entity.ProductAnnualStat, string, int, entity.DocumentLine) entity.ProductAnnualStat

func walkDocument(doc *entity.Document, stats map[Key]*entity.ProductAnnualStat, load func(Key) (*entity.ProductAnnualStat, error), step stepFunc) ([]Key, error) {
	if !Valued(doc.Type) {
		return nil, nil
	}
	sign := *doc.Type.ValuationSign
	year := doc.Date.Year()
	var touched []Key
	for _, line := range doc.Lines {
		if !Affects(doc.Type, line) {
			continue
		}
		k := Key{ProductID: line.ProductID, Year: year}
		cur, ok := stats[k]
		if !ok {
			loaded, err := load(k)
			if err != nil {
				return nil, err
			}
			if loaded == nil {
				fresh := entity.NewProductAnnualStat(doc.OrganizationID, line.ProductID, year)
				loaded = &fresh
			}
			stats[k] = loaded
			cur = loaded
			touched = append(touched, k)
		}
		next := step(*cur, doc.Type.Direction, sign, line)
		*cur = next
	}
	return touched, nil
}

// ValidateSign rechaza un signo de valoración configurado fuera de {-1, 0, +1}.
func ValidateSign(t entity.DocumentType) error {
	if t.ValuationSign == nil {
		return nil
	}
	switch *t.ValuationSign {
	case -1, 0, 1:
		return nil
	}
	return &domain.ConfigurationError{
		Subject: "document_type " + t.Code,
		Message: fmt.Sprintf("operation_sign_valuation %d no permitido (solo +1 o -1)", *t.ValuationSign),
	}
}
