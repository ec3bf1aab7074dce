//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/Gestionale-api/internal/application/dto"
	"github.com/jhoicas/Gestionale-api/internal/application/inventory"
	"github.com/jhoicas/Gestionale-api/internal/application/payments"
	"github.com/jhoicas/Gestionale-api/internal/application/posting"
	"github.com/jhoicas/Gestionale-api/internal/application/valuation"
	"github.com/jhoicas/Gestionale-api/internal/domain"
	"github.com/jhoicas/Gestionale-api/internal/domain/reconciliation"
	"github.com/jhoicas/Gestionale-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Gestionale-api/pkg/config"
)

const org = "org-int"

var writer = domain.Actor{OrganizationID: org, UserID: "u-int", CanWrite: true}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// newPool levanta un PostgreSQL efímero con el esquema aplicado.
func newPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("gestionale_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 10})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	m, err := postgres.NewMigrator(pool, nil)
	require.NoError(t, err)
	require.NoError(t, m.Up())
	return pool
}

func tableExists(t *testing.T, pool *pgxpool.Pool, name string) bool {
	t.Helper()
	var exists bool
	require.NoError(t, pool.QueryRow(context.Background(), `SELECT to_regclass($1) IS NOT NULL`, name).Scan(&exists))
	return exists
}

func TestMigrator_DownYUpReconstruyenElEsquema(t *testing.T) {
	pool := newPool(t)
	require.True(t, tableExists(t, pool, "payment_mappings"))

	m, err := postgres.NewMigrator(pool, nil)
	require.NoError(t, err)
	require.NoError(t, m.Down())
	assert.False(t, tableExists(t, pool, "payment_mappings"))
	assert.False(t, tableExists(t, pool, "stock_movements"))
	require.NoError(t, m.Down(), "sin migraciones aplicadas no es error")

	require.NoError(t, m.Up())
	assert.True(t, tableExists(t, pool, "payment_mappings"))
	assert.True(t, tableExists(t, pool, "product_annual_stats"))
	require.NoError(t, m.Close())

	// el pool sigue operativo tras cerrar el migrador
	seed(t, pool)
}

type fixture struct {
	warehouse, product, purchaseType, saleType, account string
}

func seed(t *testing.T, pool *pgxpool.Pool) fixture {
	t.Helper()
	ctx := context.Background()
	f := fixture{
		warehouse: uuid.NewString(), product: uuid.NewString(),
		purchaseType: uuid.NewString(), saleType: uuid.NewString(), account: uuid.NewString(),
	}
	exec := func(sql string, args ...any) {
		_, err := pool.Exec(ctx, sql, args...)
		require.NoError(t, err, sql)
	}
	exec(`INSERT INTO warehouses (id, organization_id, name) VALUES ($1, $2, 'Principale')`, f.warehouse, org)
	exec(`INSERT INTO products (id, organization_id, sku, name, stock_managed, default_warehouse_id)
		VALUES ($1, $2, 'SKU-1', 'Vite M6', TRUE, $3)`, f.product, org, f.warehouse)
	exec(`INSERT INTO document_types (id, organization_id, code, direction, moves_inventory, operation_sign_stock, affects_valuation, operation_sign_valuation)
		VALUES ($1, $2, 'FATTURA_ACQUISTO', 'PURCHASE', TRUE, 1, TRUE, 1)`, f.purchaseType, org)
	exec(`INSERT INTO document_types (id, organization_id, code, direction, moves_inventory, operation_sign_stock, affects_valuation, operation_sign_valuation)
		VALUES ($1, $2, 'DDT', 'SALE', TRUE, -1, TRUE, 1)`, f.saleType, org)
	exec(`INSERT INTO financial_accounts (id, organization_id, name, kind, initial_balance)
		VALUES ($1, $2, 'Banca', 'BANK', 1000.00)`, f.account, org)
	return f
}

func addDocument(t *testing.T, pool *pgxpool.Pool, typeID, number string, date time.Time, productID, qty, amount string) string {
	t.Helper()
	ctx := context.Background()
	id := uuid.NewString()
	_, err := pool.Exec(ctx, `INSERT INTO documents (id, organization_id, document_type_id, number, date)
		VALUES ($1, $2, $3, $4, $5)`, id, org, typeID, number, date)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `INSERT INTO document_lines (id, document_id, position, product_id, quantity, net_amount)
		VALUES ($1, $2, 1, $3, $4, $5)`, uuid.NewString(), id, productID, dec(qty), dec(amount))
	require.NoError(t, err)
	return id
}

func TestPostgres_ContabilizacionStockYValoracion(t *testing.T) {
	pool := newPool(t)
	f := seed(t, pool)
	ctx := context.Background()

	store := postgres.NewStore(pool)
	runner := postgres.NewTxRunner(pool, 3, nil)
	ledger := inventory.NewLedgerUseCase(store, runner, nil, nil)
	stats := valuation.NewUseCase(store, runner, nil)
	post := posting.NewPostDocumentUseCase(runner, ledger, stats, nil)

	feb := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	d1 := addDocument(t, pool, f.purchaseType, "FA-1", feb, f.product, "10", "50.00")
	d2 := addDocument(t, pool, f.purchaseType, "FA-2", feb.AddDate(0, 1, 0), f.product, "5", "40.00")
	d3 := addDocument(t, pool, f.saleType, "DDT-1", feb.AddDate(0, 2, 0), f.product, "4", "60.00")

	for _, id := range []string{d1, d2, d3} {
		_, err := post.PostDocument(ctx, writer, id)
		require.NoError(t, err)
	}

	_, err := post.PostDocument(ctx, writer, d1)
	assert.True(t, errors.Is(err, domain.ErrConflict), "un documento no se contabiliza dos veces")

	stock, err := ledger.CurrentStock(ctx, writer, f.product, "")
	require.NoError(t, err)
	assert.Equal(t, "11", stock.Quantity.String())

	list, err := ledger.ListMovements(ctx, writer, f.product, dto.MovementListQuery{})
	require.NoError(t, err)
	require.Len(t, list.Items, 3)

	rows, err := stats.ListStats(ctx, writer, 2024)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "6.0000", rows[0].WeightedAverageCost.StringFixed(4))
	assert.Equal(t, "8.0000", rows[0].LastCost.StringFixed(4))
	assert.Equal(t, "4", rows[0].SoldQuantity.String())

	rec, err := stats.RecalculateStatsForYear(ctx, writer, 2024)
	require.NoError(t, err)
	assert.Equal(t, 3, rec.DocumentsProcessed)
	assert.Equal(t, int64(1), rec.RowsDeleted)

	again, err := stats.ListStats(ctx, writer, 2024)
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.True(t, rows[0].PurchasedTotalAmount.Equal(again[0].PurchasedTotalAmount))
	assert.True(t, rows[0].WeightedAverageCost.Equal(again[0].WeightedAverageCost))
}

func TestPostgres_ConciliacionConcurrenteNoDejaResiduoNegativo(t *testing.T) {
	pool := newPool(t)
	f := seed(t, pool)
	ctx := context.Background()

	doc := addDocument(t, pool, f.saleType, "FV-1", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), f.product, "1", "1000.00")
	installment := uuid.NewString()
	_, err := pool.Exec(ctx, `INSERT INTO installments (id, organization_id, document_id, amount, due_date)
		VALUES ($1, $2, $3, 1000.00, '2024-06-30')`, installment, org, doc)
	require.NoError(t, err)

	uc := payments.NewUseCase(postgres.NewStore(pool), postgres.NewTxRunner(pool, 5, nil), reconciliation.InternalAsSale, nil)

	const workers = 10
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.ReconcilePayment(ctx, writer, dto.ReconcileRequest{
				Payment: &dto.NewPaymentRequest{
					AccountID: f.account, Direction: "INFLOW", Amount: dec("150.00"),
					Date: dto.NewDate(2024, time.June, 1),
				},
				Allocations: []dto.AllocationRequest{{InstallmentID: installment, Amount: dec("150.00")}},
			})
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.True(t, errors.Is(err, domain.ErrResidualExceeded), err.Error())
	}
	assert.Equal(t, 6, ok)

	open, err := uc.GetInstallmentsForAllocation(ctx, writer, dto.InstallmentQuery{DocumentID: doc})
	require.NoError(t, err)
	require.Len(t, open.Items, 1)
	assert.Equal(t, "100.00", open.Items[0].ResidualAmount.StringFixed(2))

	var paymentsStored int
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM payments`).Scan(&paymentsStored))
	assert.Equal(t, 6, paymentsStored, "los intentos rechazados no dejan pagos huérfanos")

	balance, err := uc.AccountBalance(ctx, writer, f.account)
	require.NoError(t, err)
	assert.Equal(t, "1900.00", balance.Balance.StringFixed(2))
}

func TestPostgres_AsignacionAditivaEIdsInvalidos(t *testing.T) {
	pool := newPool(t)
	f := seed(t, pool)
	ctx := context.Background()

	doc := addDocument(t, pool, f.purchaseType, "FA-9", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), f.product, "1", "500.00")
	installment := uuid.NewString()
	_, err := pool.Exec(ctx, `INSERT INTO installments (id, organization_id, document_id, amount, due_date)
		VALUES ($1, $2, $3, 500.00, '2024-06-30')`, installment, org, doc)
	require.NoError(t, err)

	uc := payments.NewUseCase(postgres.NewStore(pool), postgres.NewTxRunner(pool, 3, nil), reconciliation.InternalAsSale, nil)
	first, err := uc.ReconcilePayment(ctx, writer, dto.ReconcileRequest{
		Payment: &dto.NewPaymentRequest{AccountID: f.account, Direction: "OUTFLOW", Amount: dec("400.00"),
			Date: dto.NewDate(2024, time.June, 1)},
		Allocations: []dto.AllocationRequest{{InstallmentID: installment, Amount: dec("100.00")}},
	})
	require.NoError(t, err)

	second, err := uc.ReconcilePayment(ctx, writer, dto.ReconcileRequest{
		PaymentID:   first.PaymentID,
		Allocations: []dto.AllocationRequest{{InstallmentID: installment, Amount: dec("150.00")}},
	})
	require.NoError(t, err)
	require.Len(t, second.Allocations, 1)
	assert.Equal(t, first.Allocations[0].ID, second.Allocations[0].ID)
	assert.Equal(t, "250.00", second.Allocations[0].Amount.StringFixed(2))

	_, err = uc.ReconcilePayment(ctx, writer, dto.ReconcileRequest{
		PaymentID:   first.PaymentID,
		Allocations: []dto.AllocationRequest{{InstallmentID: "no-es-un-uuid", Amount: dec("1.00")}},
	})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
