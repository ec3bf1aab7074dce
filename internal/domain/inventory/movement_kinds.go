package inventory

import (
	"fmt"
	"strings"

	"github.com/jhoicas/Gestionale-api/internal/domain"
	"github.com/jhoicas/Gestionale-api/internal/domain/entity"
)

// KindKey clave de la tabla: código de tipo de documento + signo de stock.
type KindKey struct {
	Code string
	Sign int
}

// KindOverride entrada configurable de la tabla.
type KindOverride struct {
	Code string
	Sign int
	Kind string
}

// defaultKinds tabla base por códigos de documento italianos.
var defaultKinds = map[KindKey]entity.MovementKind{
	{"ORDINE_FORNITORE", 1}:  entity.MovementKindSupplierReceipt,
	{"DDT_FORNITORE", 1}:     entity.MovementKindSupplierReceipt,
	{"FATTURA_ACQUISTO", 1}:  entity.MovementKindSupplierReceipt,
	{"RESO_FORNITORE", -1}:   entity.MovementKindSupplierReturn,
	{"NOTA_CREDITO_ACQ", -1}: entity.MovementKindSupplierReturn,
	{"DDT", -1}:              entity.MovementKindSaleShipment,
	{"SCONTRINO", -1}:        entity.MovementKindSaleShipment,
	{"RESO_CLIENTE", 1}:      entity.MovementKindCustomerReturn,
	{"NOTA_CREDITO", 1}:      entity.MovementKindCustomerReturn,
	{"INVENTARIO", 1}:        entity.MovementKindAdjustmentIn,
	{"RETTIFICA", 1}:         entity.MovementKindAdjustmentIn,
	{"RETTIFICA", -1}:        entity.MovementKindAdjustmentOut,
	{"TRASFERIMENTO", 1}:     entity.MovementKindTransferIn,
	{"TRASFERIMENTO", -1}:    entity.MovementKindTransferOut,
}

// MovementKindTable mapeo explícito (código, signo) → tipo de movimiento.
// Los códigos no mapeados caen en GENERIC_RECEIPT (+1) o GENERIC_SHIPMENT (-1).
type MovementKindTable struct {
	kinds map[KindKey]entity.MovementKind
}

// NewMovementKindTable construye la tabla base aplicando las sobrescrituras.
// Valida cada entrada al cargar la configuración: signo ±1 y tipo del catálogo.
func NewMovementKindTable(overrides []KindOverride) (*MovementKindTable, error) {
	kinds := make(map[KindKey]entity.MovementKind, len(defaultKinds)+len(overrides))
	for k, v := range defaultKinds {
		kinds[k] = v
	}
	for _, o := range overrides {
		code := strings.ToUpper(strings.TrimSpace(o.Code))
		if code == "" {
			return nil, &domain.ConfigurationError{Subject: "movement_kinds", Message: "código vacío"}
		}
		if o.Sign != 1 && o.Sign != -1 {
			return nil, &domain.ConfigurationError{
				Subject: "movement_kinds",
				Message: fmt.Sprintf("signo %d no permitido para %s (solo +1 o -1)", o.Sign, code),
			}
		}
		kind := entity.MovementKind(strings.ToUpper(strings.TrimSpace(o.Kind)))
		if !kind.Valid() {
			return nil, &domain.ConfigurationError{
				Subject: "movement_kinds",
				Message: fmt.Sprintf("tipo de movimiento desconocido %q para %s:%+d", o.Kind, code, o.Sign),
			}
		}
		kinds[KindKey{Code: code, Sign: o.Sign}] = kind
	}
	return &MovementKindTable{kinds: kinds}, nil
}

// DefaultMovementKindTable tabla sin sobrescrituras.
func DefaultMovementKindTable() *MovementKindTable {
	t, _ := NewMovementKindTable(nil)
	return t
}

// Resolve devuelve el tipo para (código, signo). El signo debe venir ya validado.
func (t *MovementKindTable) Resolve(code string, sign int) entity.MovementKind {
	if k, ok := t.kinds[KindKey{Code: strings.ToUpper(strings.TrimSpace(code)), Sign: sign}]; ok {
		return k
	}
	if sign > 0 {
		return entity.MovementKindGenericReceipt
	}
	return entity.MovementKindGenericShipment
}
