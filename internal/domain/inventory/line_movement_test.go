package inventory_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gestionale-api/internal/domain"
	"github.com/jhoicas/Gestionale-api/internal/domain/entity"
	"github.com/jhoicas/Gestionale-api/internal/domain/inventory"
)

func ddt() *entity.Document {
	return &entity.Document{
		ID:                 "doc-1",
		OrganizationID:     "org-1",
		Number:             "DDT 12/2024",
		DefaultWarehouseID: "wh-doc",
		Type: entity.DocumentType{
			Code:           "DDT",
			Direction:      entity.DirectionSale,
			MovesInventory: true,
			StockSign:      -1,
		},
	}
}

func TestMovementFromLine_ResuelveAlmacenYSigno(t *testing.T) {
	doc := ddt()
	product := &entity.Product{ID: "p-1", StockManaged: true, DefaultWarehouseID: "wh-prod"}
	kinds := inventory.DefaultMovementKindTable()

	line := entity.DocumentLine{ID: "l-1", ProductID: "p-1", Quantity: decimal.RequireFromString("3.5")}
	m, err := inventory.MovementFromLine(doc, line, product, kinds)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "wh-prod", m.WarehouseID)
	assert.True(t, m.Quantity.Equal(decimal.RequireFromString("-3.5")))
	assert.Equal(t, entity.MovementKindSaleShipment, m.Kind)
	assert.Equal(t, "DDT 12/2024", m.SourceDocumentNumber)

	line.WarehouseID = "wh-line"
	m, err = inventory.MovementFromLine(doc, line, product, kinds)
	require.NoError(t, err)
	assert.Equal(t, "wh-line", m.WarehouseID)

	product.DefaultWarehouseID = ""
	line.WarehouseID = ""
	m, err = inventory.MovementFromLine(doc, line, product, kinds)
	require.NoError(t, err)
	assert.Equal(t, "wh-doc", m.WarehouseID)
}

func TestMovementFromLine_SinMovimiento(t *testing.T) {
	kinds := inventory.DefaultMovementKindTable()
	managed := &entity.Product{ID: "p-1", StockManaged: true}
	line := entity.DocumentLine{ProductID: "p-1", Quantity: decimal.NewFromInt(1)}

	noInventory := ddt()
	noInventory.Type.MovesInventory = false
	noWarehouse := ddt()
	noWarehouse.DefaultWarehouseID = ""

	cases := map[string]struct {
		doc     *entity.Document
		line    entity.DocumentLine
		product *entity.Product
	}{
		"tipo sin inventario": {noInventory, line, managed},
		"línea libre":         {ddt(), entity.DocumentLine{Quantity: decimal.NewFromInt(1)}, nil},
		"sin almacén":         {noWarehouse, line, managed},
		"sin gestión stock":   {ddt(), line, &entity.Product{ID: "p-1"}},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			m, err := inventory.MovementFromLine(c.doc, c.line, c.product, kinds)
			require.NoError(t, err)
			assert.Nil(t, m)
		})
	}
}

func TestMovementFromLine_SignoNoPermitido(t *testing.T) {
	doc := ddt()
	doc.Type.StockSign = 0
	line := entity.DocumentLine{ProductID: "p-1", Quantity: decimal.NewFromInt(1)}

	_, err := inventory.MovementFromLine(doc, line, &entity.Product{ID: "p-1", StockManaged: true}, inventory.DefaultMovementKindTable())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfiguration))
}
