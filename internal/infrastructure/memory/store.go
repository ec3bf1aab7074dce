// Package memory implementa los puertos de repositorio en memoria.
// Lo usan los tests de los casos de uso: Run serializa las transacciones con un mutex y
// restaura una copia del estado si fn devuelve error, así que los rollbacks son reales.
// Las lecturas fuera de Run no se sincronizan.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestionale-api/internal/domain"
	"github.com/jhoicas/Gestionale-api/internal/domain/entity"
	"github.com/jhoicas/Gestionale-api/internal/domain/repository"
)

type statKey struct {
	org, product string
	year         int
}

type mappingKey struct {
	payment, installment string
}

type data struct {
	products     map[string]*entity.Product
	warehouses   map[string]*entity.Warehouse
	documents    map[string]*entity.Document
	posted       map[string]string
	stats        map[statKey]*entity.ProductAnnualStat
	movements    []*entity.StockMovement
	accounts     map[string]*entity.FinancialAccount
	payments     map[string]*entity.Payment
	mappings     map[mappingKey]*entity.PaymentMapping
	installments map[string]*entity.Installment
}

func newData() *data {
	return &data{
		products:     map[string]*entity.Product{},
		warehouses:   map[string]*entity.Warehouse{},
		documents:    map[string]*entity.Document{},
		posted:       map[string]string{},
		stats:        map[statKey]*entity.ProductAnnualStat{},
		accounts:     map[string]*entity.FinancialAccount{},
		payments:     map[string]*entity.Payment{},
		mappings:     map[mappingKey]*entity.PaymentMapping{},
		installments: map[string]*entity.Installment{},
	}
}

// clone copia lo que las transacciones pueden mutar (movimientos, estadísticas, pagos, asignaciones, contabilizaciones).
func (d *data) clone() *data {
	c := *d
	c.posted = make(map[string]string, len(d.posted))
	for k, v := range d.posted {
		c.posted[k] = v
	}
	c.stats = make(map[statKey]*entity.ProductAnnualStat, len(d.stats))
	for k, v := range d.stats {
		s := *v
		c.stats[k] = &s
	}
	c.movements = append([]*entity.StockMovement(nil), d.movements...)
	c.payments = make(map[string]*entity.Payment, len(d.payments))
	for k, v := range d.payments {
		p := *v
		c.payments[k] = &p
	}
	c.mappings = make(map[mappingKey]*entity.PaymentMapping, len(d.mappings))
	for k, v := range d.mappings {
		m := *v
		c.mappings[k] = &m
	}
	return &c
}

// Store almacén en memoria. Implementa repository.Tx (lecturas) y repository.TxRunner.
type Store struct {
	mu   sync.Mutex
	d    *data
	runs int
	// FailRuns hace fallar las próximas N llamadas a Run con ErrConflict antes de ejecutar fn.
	FailRuns int
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{d: newData()}
}

var (
	_ repository.Tx       = (*Store)(nil)
	_ repository.TxRunner = (*Store)(nil)
)

// Run ejecuta fn de forma exclusiva; si fn falla se descartan todos sus cambios.
func (s *Store) Run(ctx context.Context, fn func(tx repository.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs++
	if s.FailRuns > 0 {
		s.FailRuns--
		return domain.ErrConflict
	}
	snapshot := s.d.clone()
	if err := fn(&Store{d: s.d}); err != nil {
		s.d = snapshot
		return err
	}
	return nil
}

// Runs número de transacciones iniciadas.
func (s *Store) Runs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs
}

func (s *Store) Movements() repository.StockMovementRepository   { return movements{s.d} }
func (s *Store) Products() repository.ProductRepository          { return products{s.d} }
func (s *Store) Warehouses() repository.WarehouseRepository      { return warehouses{s.d} }
func (s *Store) Documents() repository.DocumentRepository        { return documents{s.d} }
func (s *Store) Stats() repository.ProductAnnualStatRepository   { return stats{s.d} }
func (s *Store) Accounts() repository.FinancialAccountRepository { return accounts{s.d} }
func (s *Store) Payments() repository.PaymentRepository          { return payments{s.d} }
func (s *Store) Installments() repository.InstallmentRepository  { return installments{s.d} }

// Datos de prueba.

func (s *Store) AddProduct(p entity.Product)          { s.d.products[p.ID] = &p }
func (s *Store) AddWarehouse(w entity.Warehouse)      { s.d.warehouses[w.ID] = &w }
func (s *Store) AddDocument(doc entity.Document)      { s.d.documents[doc.ID] = &doc }
func (s *Store) AddAccount(a entity.FinancialAccount) { s.d.accounts[a.ID] = &a }
func (s *Store) AddInstallment(i entity.Installment)  { s.d.installments[i.ID] = &i }
func (s *Store) AddPayment(p entity.Payment)          { s.d.payments[p.ID] = &p }
func (s *Store) AddMovement(m entity.StockMovement)   { s.d.movements = append(s.d.movements, &m) }

// AddMapping registra una asignación existente.
func (s *Store) AddMapping(paymentID, installmentID string, amount decimal.Decimal) {
	s.d.mappings[mappingKey{paymentID, installmentID}] = &entity.PaymentMapping{
		ID: uuid.NewString(), PaymentID: paymentID, InstallmentID: installmentID, Amount: amount,
	}
}

// PaymentCount número de pagos almacenados.
func (s *Store) PaymentCount() int { return len(s.d.payments) }

// MappingCount número de filas de asignación almacenadas.
func (s *Store) MappingCount() int { return len(s.d.mappings) }

// Mapping devuelve la asignación (pago, cuota) o nil.
func (s *Store) Mapping(paymentID, installmentID string) *entity.PaymentMapping {
	if m, ok := s.d.mappings[mappingKey{paymentID, installmentID}]; ok {
		c := *m
		return &c
	}
	return nil
}

// Stat devuelve una copia de la fila anual o nil.
func (s *Store) Stat(org, product string, year int) *entity.ProductAnnualStat {
	if st, ok := s.d.stats[statKey{org, product, year}]; ok {
		c := *st
		return &c
	}
	return nil
}

func page[T any](items []T, offset, limit int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return nil
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
