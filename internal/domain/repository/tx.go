package repository

import "context"

// Tx conjunto de repositorios atados a la misma conexión o transacción.
type Tx interface {
	Movements() StockMovementRepository
	Products() ProductRepository
	Warehouses() WarehouseRepository
	Documents() DocumentRepository
	Stats() ProductAnnualStatRepository
	Accounts() FinancialAccountRepository
	Payments() PaymentRepository
	Installments() InstallmentRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn devuelve nil, Rollback si no.
// Los conflictos de serialización se reintentan; fn debe ser reejecutable.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx Tx) error) error
}
