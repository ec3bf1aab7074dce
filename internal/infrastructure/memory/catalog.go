package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestionale-api/internal/domain"
	"github.com/jhoicas/Gestionale-api/internal/domain/entity"
	"github.com/jhoicas/Gestionale-api/internal/domain/repository"
)

type products struct{ d *data }

func (r products) GetByID(_ context.Context, id string) (*entity.Product, error) {
	if x, ok := r.d.products[id]; ok {
		c := *x
		return &c, nil
	}
	return nil, nil
}

type warehouses struct{ d *data }

func (r warehouses) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	if x, ok := r.d.warehouses[id]; ok {
		c := *x
		return &c, nil
	}
	return nil, nil
}

type accounts struct{ d *data }

func (r accounts) GetByID(_ context.Context, id string) (*entity.FinancialAccount, error) {
	if x, ok := r.d.accounts[id]; ok {
		c := *x
		return &c, nil
	}
	return nil, nil
}

type documents struct{ d *data }

func (r documents) GetByID(_ context.Context, id string) (*entity.Document, error) {
	if x, ok := r.d.documents[id]; ok {
		c := *x
		c.Lines = append([]entity.DocumentLine(nil), x.Lines...)
		return &c, nil
	}
	return nil, nil
}

func (r documents) ListForValuation(ctx context.Context, org string, year int) ([]*entity.Document, error) {
	var out []*entity.Document
	for id, doc := range r.d.documents {
		if doc.OrganizationID != org || doc.Date.Year() != year || !doc.Type.ValuationActive() {
			continue
		}
		c, _ := r.GetByID(ctx, id)
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return out, nil
}

func (r documents) MarkPosted(_ context.Context, documentID, userID string) error {
	if _, ok := r.d.posted[documentID]; ok {
		return domain.ErrConflict
	}
	r.d.posted[documentID] = userID
	return nil
}

type movements struct{ d *data }

func (r movements) Create(_ context.Context, m *entity.StockMovement) error {
	c := *m
	r.d.movements = append(r.d.movements, &c)
	return nil
}

func (r movements) SumQuantity(_ context.Context, org, product, warehouse string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, m := range r.d.movements {
		if m.OrganizationID != org || m.ProductID != product {
			continue
		}
		if warehouse != "" && m.WarehouseID != warehouse {
			continue
		}
		total = total.Add(m.Quantity)
	}
	return total, nil
}

// ListByProduct más recientes primero; a igual fecha, el último insertado primero.
func (r movements) ListByProduct(_ context.Context, org, product string, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for i := len(r.d.movements) - 1; i >= 0; i-- {
		m := r.d.movements[i]
		if m.OrganizationID != org || m.ProductID != product {
			continue
		}
		if f.WarehouseID != "" && m.WarehouseID != f.WarehouseID {
			continue
		}
		if !inRange(m.CreatedAt, f.From, f.To) {
			continue
		}
		c := *m
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, f.Offset, f.Limit), nil
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

type stats struct{ d *data }

func (r stats) LockYear(context.Context, string, int, bool) error { return nil }

func (r stats) GetForUpdate(_ context.Context, org, product string, year int) (*entity.ProductAnnualStat, error) {
	if st, ok := r.d.stats[statKey{org, product, year}]; ok {
		c := *st
		return &c, nil
	}
	return nil, nil
}

func (r stats) Save(_ context.Context, st *entity.ProductAnnualStat) error {
	c := *st
	r.d.stats[statKey{st.OrganizationID, st.ProductID, st.Year}] = &c
	return nil
}

func (r stats) DeleteYear(_ context.Context, org string, year int) (int64, error) {
	var n int64
	for k := range r.d.stats {
		if k.org == org && k.year == year {
			delete(r.d.stats, k)
			n++
		}
	}
	return n, nil
}

func (r stats) ListByYear(_ context.Context, org string, year int) ([]*entity.ProductAnnualStat, error) {
	var out []*entity.ProductAnnualStat
	for k, st := range r.d.stats {
		if k.org == org && k.year == year {
			c := *st
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}
