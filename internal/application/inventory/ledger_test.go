package inventory_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gestionale-api/internal/application/dto"
	appinventory "github.com/jhoicas/Gestionale-api/internal/application/inventory"
	"github.com/jhoicas/Gestionale-api/internal/domain"
	"github.com/jhoicas/Gestionale-api/internal/domain/entity"
	"github.com/jhoicas/Gestionale-api/internal/domain/repository"
	"github.com/jhoicas/Gestionale-api/internal/infrastructure/memory"
)

var writer = domain.Actor{OrganizationID: "org-1", UserID: "u-1", CanWrite: true}

func newLedger(t *testing.T) (*appinventory.LedgerUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	store.AddProduct(entity.Product{ID: "p-1", OrganizationID: "org-1", StockManaged: true, DefaultWarehouseID: "wh-1"})
	store.AddProduct(entity.Product{ID: "p-x", OrganizationID: "org-2", StockManaged: true})
	store.AddWarehouse(entity.Warehouse{ID: "wh-1", OrganizationID: "org-1"})
	store.AddWarehouse(entity.Warehouse{ID: "wh-2", OrganizationID: "org-1"})
	return appinventory.NewLedgerUseCase(store, store, nil, nil), store
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestRecordMovement_YExistencia(t *testing.T) {
	uc, _ := newLedger(t)
	ctx := context.Background()

	m, err := uc.RecordMovement(ctx, writer, dto.RecordMovementRequest{ProductID: "p-1", WarehouseID: "wh-1", Quantity: dec("10.5")})
	require.NoError(t, err)
	assert.NotEmpty(t, m.ID)
	assert.Equal(t, string(entity.MovementKindAdjustmentIn), m.Kind)

	_, err = uc.RecordMovement(ctx, writer, dto.RecordMovementRequest{ProductID: "p-1", WarehouseID: "wh-2", Quantity: dec("-3"), Kind: "TRANSFER_OUT"})
	require.NoError(t, err)

	all, err := uc.CurrentStock(ctx, writer, "p-1", "")
	require.NoError(t, err)
	assert.True(t, all.Quantity.Equal(dec("7.5")))

	wh1, err := uc.CurrentStock(ctx, writer, "p-1", "wh-1")
	require.NoError(t, err)
	assert.True(t, wh1.Quantity.Equal(dec("10.5")))
}

func TestRecordMovement_Validaciones(t *testing.T) {
	uc, store := newLedger(t)
	ctx := context.Background()

	cases := map[string]dto.RecordMovementRequest{
		"cantidad cero":        {ProductID: "p-1", WarehouseID: "wh-1", Quantity: decimal.Zero},
		"demasiados decimales": {ProductID: "p-1", WarehouseID: "wh-1", Quantity: dec("1.00001")},
		"tipo desconocido":     {ProductID: "p-1", WarehouseID: "wh-1", Quantity: dec("1"), Kind: "REGALO"},
		"signo incoherente":    {ProductID: "p-1", WarehouseID: "wh-1", Quantity: dec("1"), Kind: "SALE_SHIPMENT"},
		"sin almacén":          {ProductID: "p-1", Quantity: dec("1")},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.RecordMovement(ctx, writer, in)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput), err)
		})
	}

	_, err := uc.RecordMovement(ctx, writer, dto.RecordMovementRequest{ProductID: "p-x", WarehouseID: "wh-1", Quantity: dec("1")})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = uc.RecordMovement(ctx, domain.Actor{OrganizationID: "org-1"}, dto.RecordMovementRequest{ProductID: "p-1", WarehouseID: "wh-1", Quantity: dec("1")})
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	stock, err := store.Movements().SumQuantity(ctx, "org-1", "p-1", "")
	require.NoError(t, err)
	assert.True(t, stock.IsZero())
}

func TestCurrentStock_ProductoDeOtraOrganizacion(t *testing.T) {
	uc, _ := newLedger(t)
	_, err := uc.CurrentStock(context.Background(), writer, "p-x", "")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCurrentStock_IndependienteDelOrden(t *testing.T) {
	quantities := []string{"1.2345", "-0.0005", "12", "-7.5", "3.3333", "-1", "0.0001"}
	expected := decimal.Zero
	for _, q := range quantities {
		expected = expected.Add(dec(q))
	}

	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 5; round++ {
		uc, store := newLedger(t)
		perm := rng.Perm(len(quantities))
		for _, i := range perm {
			store.AddMovement(entity.StockMovement{
				OrganizationID: "org-1", ProductID: "p-1", WarehouseID: "wh-1", Quantity: dec(quantities[i]),
			})
		}
		got, err := uc.CurrentStock(context.Background(), writer, "p-1", "")
		require.NoError(t, err)
		assert.True(t, expected.Equal(got.Quantity), "orden %v: %s", perm, got.Quantity)
	}
}

func TestListMovements_MasRecientesPrimero(t *testing.T) {
	uc, store := newLedger(t)
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		store.AddMovement(entity.StockMovement{
			ID: string(rune('a' + i)), OrganizationID: "org-1", ProductID: "p-1", WarehouseID: "wh-1",
			Quantity: decimal.NewFromInt(1), CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}
	q := dto.MovementListQuery{}
	q.Limit = 2
	list, err := uc.ListMovements(context.Background(), writer, "p-1", q)
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "c", list.Items[0].ID)
	assert.Equal(t, "b", list.Items[1].ID)
}

func TestRecordDocumentMovementsInTx(t *testing.T) {
	uc, store := newLedger(t)
	ctx := context.Background()
	doc := &entity.Document{
		ID: "doc-1", OrganizationID: "org-1", Number: "DDT 1",
		Type: entity.DocumentType{Code: "DDT", Direction: entity.DirectionSale, MovesInventory: true, StockSign: -1},
		Lines: []entity.DocumentLine{
			{ID: "l-1", ProductID: "p-1", Quantity: dec("2")},
			{ID: "l-2", Quantity: dec("1")},
		},
	}
	err := store.Run(ctx, func(tx repository.Tx) error {
		created, err := uc.RecordDocumentMovementsInTx(ctx, tx, doc, "u-1")
		require.Len(t, created, 1)
		return err
	})
	require.NoError(t, err)
	stock, _ := uc.CurrentStock(ctx, writer, "p-1", "wh-1")
	assert.True(t, stock.Quantity.Equal(dec("-2")))

	doc.Lines = append(doc.Lines, entity.DocumentLine{ID: "l-3", ProductID: "p-desconocido", Quantity: dec("1")})
	err = store.Run(ctx, func(tx repository.Tx) error {
		_, err := uc.RecordDocumentMovementsInTx(ctx, tx, doc, "u-1")
		return err
	})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	stock, _ = uc.CurrentStock(ctx, writer, "p-1", "wh-1")
	assert.True(t, stock.Quantity.Equal(dec("-2")), "el rollback descarta la primera línea")

	doc.Type.StockSign = 2
	err = store.Run(ctx, func(tx repository.Tx) error {
		_, err := uc.RecordDocumentMovementsInTx(ctx, tx, doc, "u-1")
		return err
	})
	assert.True(t, errors.Is(err, domain.ErrConfiguration))
}
