package postgres

import "github.com/jhoicas/Gestionale-api/internal/domain/repository"

var _ repository.Tx = (*Store)(nil)

// Store agrupa los repositorios sobre un mismo Querier. Con el pool sirve para lecturas;
// TxRunner crea uno por transacción.
type Store struct {
	q Querier
}

// NewStore construye el conjunto de repositorios. Pasar pool o tx (Querier).
func NewStore(q Querier) *Store {
	return &Store{q: q}
}

func (s *Store) Movements() repository.StockMovementRepository {
	return NewStockMovementRepository(s.q)
}
func (s *Store) Products() repository.ProductRepository     { return NewProductRepository(s.q) }
func (s *Store) Warehouses() repository.WarehouseRepository { return NewWarehouseRepository(s.q) }
func (s *Store) Documents() repository.DocumentRepository   { return NewDocumentRepository(s.q) }
func (s *Store) Stats() repository.ProductAnnualStatRepository {
	return NewProductAnnualStatRepository(s.q)
}
func (s *Store) Accounts() repository.FinancialAccountRepository {
	return NewFinancialAccountRepository(s.q)
}
func (s *Store) Payments() repository.PaymentRepository { return NewPaymentRepository(s.q) }
func (s *Store) Installments() repository.InstallmentRepository {
	return NewInstallmentRepository(s.q)
}
