package posting_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gestionale-api/internal/application/inventory"
	"github.com/jhoicas/Gestionale-api/internal/application/posting"
	"github.com/jhoicas/Gestionale-api/internal/application/valuation"
	"github.com/jhoicas/Gestionale-api/internal/domain"
	"github.com/jhoicas/Gestionale-api/internal/domain/entity"
	"github.com/jhoicas/Gestionale-api/internal/infrastructure/memory"
)

var writer = domain.Actor{OrganizationID: "org-1", UserID: "u-1", CanWrite: true}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func setup(t *testing.T) (*posting.PostDocumentUseCase, *inventory.LedgerUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	store.AddProduct(entity.Product{ID: "p-1", OrganizationID: "org-1", StockManaged: true})
	store.AddProduct(entity.Product{ID: "p-serv", OrganizationID: "org-1"})
	ledger := inventory.NewLedgerUseCase(store, store, nil, nil)
	stats := valuation.NewUseCase(store, store, nil)
	return posting.NewPostDocumentUseCase(store, ledger, stats, nil), ledger, store
}

func purchase(id string, sign int, lines ...entity.DocumentLine) entity.Document {
	d := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	return entity.Document{
		ID: id, OrganizationID: "org-1", Number: "FA-" + id, Date: d, CreatedAt: d, DefaultWarehouseID: "wh-1",
		Type: entity.DocumentType{
			Code: "FATTURA_ACQUISTO", Direction: entity.DirectionPurchase,
			MovesInventory: true, StockSign: sign, AffectsValuation: true, ValuationSign: &sign,
		},
		Lines: lines,
	}
}

func TestPostDocument_MovimientosYEstadisticas(t *testing.T) {
	uc, ledger, store := setup(t)
	store.AddDocument(purchase("d-1", 1,
		entity.DocumentLine{ID: "l-1", ProductID: "p-1", Quantity: dec("10"), NetAmount: dec("50.00")},
		entity.DocumentLine{ID: "l-2", ProductID: "p-serv", Quantity: dec("1"), NetAmount: dec("15.00")},
		entity.DocumentLine{ID: "l-3", Quantity: dec("1"), NetAmount: dec("2.00")},
	))
	ctx := context.Background()

	res, err := uc.PostDocument(ctx, writer, "d-1")
	require.NoError(t, err)
	assert.Len(t, res.Movements, 1)
	assert.Equal(t, string(entity.MovementKindSupplierReceipt), res.Movements[0].Kind)
	assert.Len(t, res.Stats, 2, "el servicio sin stock sí participa en la valoración")

	stock, err := ledger.CurrentStock(ctx, writer, "p-1", "wh-1")
	require.NoError(t, err)
	assert.True(t, stock.Quantity.Equal(dec("10")))
	assert.True(t, store.Stat("org-1", "p-1", 2024).WeightedAverageCost.Equal(dec("5")))

	_, err = uc.PostDocument(ctx, writer, "d-1")
	assert.True(t, errors.Is(err, domain.ErrConflict))
	stock, _ = ledger.CurrentStock(ctx, writer, "p-1", "wh-1")
	assert.True(t, stock.Quantity.Equal(dec("10")))
}

func TestPostDocument_SignoMalConfiguradoNoDejaNada(t *testing.T) {
	uc, ledger, store := setup(t)
	store.AddDocument(purchase("d-2", 2, entity.DocumentLine{ProductID: "p-1", Quantity: dec("1"), NetAmount: dec("1")}))
	ctx := context.Background()

	_, err := uc.PostDocument(ctx, writer, "d-2")
	assert.True(t, errors.Is(err, domain.ErrConfiguration))
	stock, _ := ledger.CurrentStock(ctx, writer, "p-1", "")
	assert.True(t, stock.Quantity.IsZero())
	assert.Nil(t, store.Stat("org-1", "p-1", 2024))

	// el documento no quedó marcado: una vez corregido se puede contabilizar
	store.AddDocument(purchase("d-2", 1, entity.DocumentLine{ProductID: "p-1", Quantity: dec("1"), NetAmount: dec("1")}))
	_, err = uc.PostDocument(ctx, writer, "d-2")
	assert.NoError(t, err)
}

func TestPostDocument_ProductoInexistenteEsFatal(t *testing.T) {
	uc, _, store := setup(t)
	store.AddDocument(purchase("d-3", 1,
		entity.DocumentLine{ProductID: "p-1", Quantity: dec("1"), NetAmount: dec("1")},
		entity.DocumentLine{ProductID: "p-borrado", Quantity: dec("1"), NetAmount: dec("1")},
	))
	_, err := uc.PostDocument(context.Background(), writer, "d-3")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Nil(t, store.Stat("org-1", "p-1", 2024))
}
