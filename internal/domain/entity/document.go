package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direcciones de documento.
const (
	DirectionSale     = "SALE"
	DirectionPurchase = "PURCHASE"
	DirectionInternal = "INTERNAL"
)

// DocumentType configuración del tipo de documento (DDT, fattura, ordine fornitore...).
// StockSign y ValuationSign deben ser +1 o -1; ValuationSign nil o 0 = sin impacto en valoración.
type DocumentType struct {
	ID               string
	OrganizationID   string
	Code             string
	Name             string
	Direction        string
	MovesInventory   bool
	StockSign        int
	AffectsValuation bool
	ValuationSign    *int
}

// ValuationActive indica si el tipo impacta estadísticas de valoración.
func (t DocumentType) ValuationActive() bool {
	return t.AffectsValuation && t.ValuationSign != nil && *t.ValuationSign != 0
}

// Document cabecera de documento contabilizado, con su tipo y líneas.
// También sirve como snapshot inmutable para revertir estadísticas.
type Document struct {
	ID                 string
	OrganizationID     string
	Number             string
	Date               time.Time
	Type               DocumentType
	DefaultWarehouseID string
	Lines              []DocumentLine
	CreatedAt          time.Time
}

// DocumentLine línea de documento. ProductID vacío = línea de texto libre.
type DocumentLine struct {
	ID          string
	ProductID   string
	WarehouseID string // sobrescribe el almacén del producto y del documento
	Quantity    decimal.Decimal
	NetAmount   decimal.Decimal
}
