package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestionale-api/internal/domain"
	"github.com/jhoicas/Gestionale-api/internal/domain/entity"
	"github.com/jhoicas/Gestionale-api/internal/domain/repository"
)

type payments struct{ d *data }

func (r payments) Create(_ context.Context, p *entity.Payment) error {
	if _, ok := r.d.payments[p.ID]; ok {
		return domain.ErrConflict
	}
	c := *p
	r.d.payments[p.ID] = &c
	return nil
}

func (r payments) GetByID(_ context.Context, id string) (*entity.Payment, error) {
	if p, ok := r.d.payments[id]; ok {
		c := *p
		return &c, nil
	}
	return nil, nil
}

func (r payments) GetForUpdate(ctx context.Context, id string) (*entity.Payment, error) {
	return r.GetByID(ctx, id)
}

func (r payments) allocated(paymentID string) decimal.Decimal {
	total := decimal.Zero
	for k, m := range r.d.mappings {
		if k.payment == paymentID {
			total = total.Add(m.Amount)
		}
	}
	return total
}

func (r payments) List(_ context.Context, org string, f repository.PaymentFilter) ([]repository.PaymentSummary, error) {
	var out []repository.PaymentSummary
	for _, p := range r.d.payments {
		if p.OrganizationID != org {
			continue
		}
		if f.AccountID != "" && p.AccountID != f.AccountID {
			continue
		}
		if f.Direction != "" && p.Direction != f.Direction {
			continue
		}
		if !inRange(p.Date, f.From, f.To) {
			continue
		}
		out = append(out, repository.PaymentSummary{Payment: *p, AllocatedAmount: r.allocated(p.ID)})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Payment.Date.Equal(out[j].Payment.Date) {
			return out[i].Payment.Date.After(out[j].Payment.Date)
		}
		return out[i].Payment.ID < out[j].Payment.ID
	})
	return page(out, f.Offset, f.Limit), nil
}

func (r payments) Delete(_ context.Context, id string) error {
	for k := range r.d.mappings {
		if k.payment == id {
			delete(r.d.mappings, k)
		}
	}
	delete(r.d.payments, id)
	return nil
}

func (r payments) Mappings(_ context.Context, paymentID string) ([]*entity.PaymentMapping, error) {
	var out []*entity.PaymentMapping
	for k, m := range r.d.mappings {
		if k.payment == paymentID {
			c := *m
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InstallmentID < out[j].InstallmentID })
	return out, nil
}

func (r payments) UpsertMapping(_ context.Context, paymentID, installmentID string, amount decimal.Decimal) (*entity.PaymentMapping, error) {
	now := time.Now()
	k := mappingKey{paymentID, installmentID}
	m, ok := r.d.mappings[k]
	if !ok {
		m = &entity.PaymentMapping{ID: uuid.NewString(), PaymentID: paymentID, InstallmentID: installmentID, Amount: decimal.Zero, CreatedAt: now}
		r.d.mappings[k] = m
	}
	m.Amount = m.Amount.Add(amount)
	m.UpdatedAt = now
	c := *m
	return &c, nil
}

func (r payments) AccountFlows(_ context.Context, accountID string) (decimal.Decimal, decimal.Decimal, error) {
	in, out := decimal.Zero, decimal.Zero
	for _, p := range r.d.payments {
		if p.AccountID != accountID {
			continue
		}
		if p.Direction == entity.PaymentInflow {
			in = in.Add(p.Amount)
		} else {
			out = out.Add(p.Amount)
		}
	}
	return in, out, nil
}

type installments struct{ d *data }

func (r installments) GetByIDs(_ context.Context, ids []string, _ bool) ([]*entity.Installment, error) {
	var out []*entity.Installment
	for _, id := range ids {
		if i, ok := r.d.installments[id]; ok {
			c := *i
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r installments) paid(id string) decimal.Decimal {
	total := decimal.Zero
	for k, m := range r.d.mappings {
		if k.installment == id {
			total = total.Add(m.Amount)
		}
	}
	return total
}

func (r installments) AllocatedTotals(_ context.Context, ids []string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal)
	for _, id := range ids {
		if p := r.paid(id); !p.IsZero() {
			out[id] = p
		}
	}
	return out, nil
}

func (r installments) ListWithBalance(_ context.Context, org string, f repository.InstallmentFilter) ([]entity.InstallmentBalance, error) {
	var out []entity.InstallmentBalance
	for _, i := range r.d.installments {
		if i.OrganizationID != org {
			continue
		}
		if f.Direction != "" && i.DocumentDirection != f.Direction {
			continue
		}
		if f.DocumentID != "" && i.DocumentID != f.DocumentID {
			continue
		}
		if f.DueBefore != nil && i.DueDate.After(*f.DueBefore) {
			continue
		}
		b := entity.InstallmentBalance{Installment: *i, PaidAmount: r.paid(i.ID)}
		if f.OnlyOpen && !b.Residual().IsPositive() {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DueDate.Equal(out[j].DueDate) {
			return out[i].DueDate.Before(out[j].DueDate)
		}
		return out[i].ID < out[j].ID
	})
	return page(out, f.Offset, f.Limit), nil
}
