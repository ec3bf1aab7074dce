package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind tipo de movimiento de inventario (catálogo cerrado).
type MovementKind string

// Tipos de movimiento. GenericReceipt/GenericShipment son el caso por defecto de la tabla.
const (
	MovementKindSupplierReceipt MovementKind = "SUPPLIER_RECEIPT" // carico da fornitore
	MovementKindSupplierReturn  MovementKind = "SUPPLIER_RETURN"  // reso a fornitore
	MovementKindSaleShipment    MovementKind = "SALE_SHIPMENT"    // scarico per vendita
	MovementKindCustomerReturn  MovementKind = "CUSTOMER_RETURN"  // reso da cliente
	MovementKindAdjustmentIn    MovementKind = "ADJUSTMENT_IN"    // rettifica positiva / inventario
	MovementKindAdjustmentOut   MovementKind = "ADJUSTMENT_OUT"   // rettifica negativa
	MovementKindTransferIn      MovementKind = "TRANSFER_IN"
	MovementKindTransferOut     MovementKind = "TRANSFER_OUT"
	MovementKindGenericReceipt  MovementKind = "GENERIC_RECEIPT"
	MovementKindGenericShipment MovementKind = "GENERIC_SHIPMENT"
)

var knownMovementKinds = map[MovementKind]struct{}{
	MovementKindSupplierReceipt: {}, MovementKindSupplierReturn: {},
	MovementKindSaleShipment: {}, MovementKindCustomerReturn: {},
	MovementKindAdjustmentIn: {}, MovementKindAdjustmentOut: {},
	MovementKindTransferIn: {}, MovementKindTransferOut: {},
	MovementKindGenericReceipt: {}, MovementKindGenericShipment: {},
}

// Valid indica si el tipo pertenece al catálogo.
func (k MovementKind) Valid() bool {
	_, ok := knownMovementKinds[k]
	return ok
}

// StockMovement movimiento de inventario inmutable (append-only).
// Quantity es con signo: positivo = entrada, negativo = salida.
// Nunca se actualiza ni se borra salvo en cascada al borrar el documento origen.
type StockMovement struct {
	ID                   string
	OrganizationID       string
	ProductID            string
	WarehouseID          string
	Quantity             decimal.Decimal
	Kind                 MovementKind
	SourceDocumentID     string // vacío en movimientos manuales
	SourceDocumentNumber string
	SourceDocumentLineID string
	CreatedAt            time.Time
	CreatedBy            string
}

// Sign signo natural del tipo: +1 entradas, -1 salidas.
func (k MovementKind) Sign() int {
	switch k {
	case MovementKindSupplierReturn, MovementKindSaleShipment, MovementKindAdjustmentOut,
		MovementKindTransferOut, MovementKindGenericShipment:
		return -1
	default:
		return 1
	}
}
