package inventory_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gestionale-api/internal/domain"
	"github.com/jhoicas/Gestionale-api/internal/domain/entity"
	"github.com/jhoicas/Gestionale-api/internal/domain/inventory"
)

func TestMovementKindTable_Resolve(t *testing.T) {
	table := inventory.DefaultMovementKindTable()

	tests := []struct {
		code string
		sign int
		want entity.MovementKind
	}{
		{"ORDINE_FORNITORE", 1, entity.MovementKindSupplierReceipt},
		{"ddt", -1, entity.MovementKindSaleShipment},
		{"RETTIFICA", -1, entity.MovementKindAdjustmentOut},
		{"CODICE_CUSTOM", 1, entity.MovementKindGenericReceipt},
		{"CODICE_CUSTOM", -1, entity.MovementKindGenericShipment},
		{"DDT", 1, entity.MovementKindGenericReceipt},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, table.Resolve(tt.code, tt.sign))
		})
	}
}

func TestNewMovementKindTable_Sobrescritura(t *testing.T) {
	table, err := inventory.NewMovementKindTable([]inventory.KindOverride{
		{Code: "carico", Sign: 1, Kind: "adjustment_in"},
		{Code: "DDT", Sign: -1, Kind: "TRANSFER_OUT"},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementKindAdjustmentIn, table.Resolve("CARICO", 1))
	assert.Equal(t, entity.MovementKindTransferOut, table.Resolve("DDT", -1))
}

func TestNewMovementKindTable_EntradasInvalidas(t *testing.T) {
	for name, o := range map[string]inventory.KindOverride{
		"signo":  {Code: "DDT", Sign: 2, Kind: "SALE_SHIPMENT"},
		"tipo":   {Code: "DDT", Sign: -1, Kind: "VENTA"},
		"código": {Code: " ", Sign: 1, Kind: "GENERIC_RECEIPT"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := inventory.NewMovementKindTable([]inventory.KindOverride{o})
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrConfiguration))
		})
	}
}
