// Package money concentra la aritmética decimal de importes y cantidades.
// Ningún importe ni cantidad del núcleo contable usa float64: todo pasa por shopspring/decimal.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Escalas fijas del núcleo contable.
const (
	AmountPlaces   int32 = 2 // importes monetarios
	QuantityPlaces int32 = 4 // cantidades de producto
	CostPlaces     int32 = 4 // costos unitarios (último costo, costo medio ponderado)
)

// ErrInvalidFormat se devuelve cuando un texto no representa un decimal válido o excede la escala.
var ErrInvalidFormat = errors.New("formato decimal inválido")

// Zero evita repetir decimal.Zero en los llamadores.
var Zero = decimal.Zero

// Parse convierte un texto en decimal. Acepta coma como separador decimal ("1220,50")
// siempre que no haya también un punto.
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: valor vacío", ErrInvalidFormat)
	}
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	return d, nil
}

// ParseAmount interpreta un importe con como máximo 2 decimales.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := Parse(s)
	if err != nil {
		return decimal.Zero, err
	}
	if !HasScale(d, AmountPlaces) {
		return decimal.Zero, fmt.Errorf("%w: %q tiene más de %d decimales", ErrInvalidFormat, s, AmountPlaces)
	}
	return d, nil
}

// ParseQuantity interpreta una cantidad con como máximo 4 decimales.
func ParseQuantity(s string) (decimal.Decimal, error) {
	d, err := Parse(s)
	if err != nil {
		return decimal.Zero, err
	}
	if !HasScale(d, QuantityPlaces) {
		return decimal.Zero, fmt.Errorf("%w: %q tiene más de %d decimales", ErrInvalidFormat, s, QuantityPlaces)
	}
	return d, nil
}

// HasScale indica si d no tiene más de places decimales significativos.
func HasScale(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Truncate(places))
}

// RoundAmount redondea a 2 decimales (mitad alejándose de cero).
func RoundAmount(d decimal.Decimal) decimal.Decimal { return d.Round(AmountPlaces) }

// RoundQuantity redondea a 4 decimales.
func RoundQuantity(d decimal.Decimal) decimal.Decimal { return d.Round(QuantityPlaces) }

// RoundCost redondea un costo unitario a 4 decimales.
func RoundCost(d decimal.Decimal) decimal.Decimal { return d.Round(CostPlaces) }

// Sum suma una lista de decimales; la suma vacía es cero.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// DivOrZero devuelve num/den redondeado a places, o cero si den <= 0.
func DivOrZero(num, den decimal.Decimal, places int32) decimal.Decimal {
	if den.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return num.DivRound(den, places)
}

// Format representa el importe con 2 decimales fijos, para mensajes de error.
func Format(d decimal.Decimal) string {
	return d.StringFixed(AmountPlaces)
}
