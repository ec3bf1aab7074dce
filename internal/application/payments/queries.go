package payments

import (
	"context"
	"fmt"

	"github.com/jhoicas/Gestionale-api/internal/application/dto"
	"github.com/jhoicas/Gestionale-api/internal/domain"
	"github.com/jhoicas/Gestionale-api/internal/domain/repository"
)

// ListPayments pagos de la organización con importe asignado y libre.
func (uc *UseCase) ListPayments(ctx context.Context, actor domain.Actor, q dto.PaymentListQuery) (*dto.PaymentListResponse, error) {
	if err := actor.RequireRead(); err != nil {
		return nil, err
	}
	q.DefaultPage()
	list, err := uc.store.Payments().List(ctx, actor.OrganizationID, repository.PaymentFilter{
		AccountID: q.AccountID,
		Direction: q.Direction,
		From:      q.From,
		To:        q.To,
		Limit:     q.Limit,
		Offset:    q.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := &dto.PaymentListResponse{
		Items: make([]dto.PaymentResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	}
	for _, s := range list {
		p := s.Payment
		out.Items = append(out.Items, dto.PaymentResponse{
			ID:                p.ID,
			AccountID:         p.AccountID,
			Direction:         p.Direction,
			Amount:            p.Amount,
			AllocatedAmount:   s.AllocatedAmount,
			UnallocatedAmount: p.Amount.Sub(s.AllocatedAmount),
			Date:              p.Date,
			Type:              p.Type,
			Reference:         p.Reference,
			Notes:             p.Notes,
		})
	}
	return out, nil
}

// GetInstallmentsForAllocation cuotas con pagado y residuo calculados; por defecto solo las abiertas.
func (uc *UseCase) GetInstallmentsForAllocation(ctx context.Context, actor domain.Actor, q dto.InstallmentQuery) (*dto.InstallmentListResponse, error) {
	if err := actor.RequireRead(); err != nil {
		return nil, err
	}
	q.DefaultPage()
	list, err := uc.store.Installments().ListWithBalance(ctx, actor.OrganizationID, repository.InstallmentFilter{
		Direction:  q.Direction,
		DocumentID: q.DocumentID,
		OnlyOpen:   !q.All,
		DueBefore:  q.DueBefore,
		Limit:      q.Limit,
		Offset:     q.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := &dto.InstallmentListResponse{
		Items: make([]dto.InstallmentResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	}
	for _, b := range list {
		out.Items = append(out.Items, dto.InstallmentResponse{
			ID:                b.ID,
			DocumentID:        b.DocumentID,
			DocumentNumber:    b.DocumentNumber,
			DocumentDirection: b.DocumentDirection,
			DueDate:           b.DueDate,
			Amount:            b.Amount,
			PaidAmount:        b.PaidAmount,
			ResidualAmount:    b.Residual(),
		})
	}
	return out, nil
}

// AccountBalance saldo = inicial + Σ entradas − Σ salidas, siempre recalculado.
func (uc *UseCase) AccountBalance(ctx context.Context, actor domain.Actor, accountID string) (*dto.AccountBalanceResponse, error) {
	if err := actor.RequireRead(); err != nil {
		return nil, err
	}
	account, err := uc.store.Accounts().GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil || account.OrganizationID != actor.OrganizationID {
		return nil, fmt.Errorf("cuenta %s: %w", accountID, domain.ErrNotFound)
	}
	in, out, err := uc.store.Payments().AccountFlows(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	return &dto.AccountBalanceResponse{
		AccountID:      account.ID,
		Name:           account.Name,
		Kind:           account.Kind,
		InitialBalance: account.InitialBalance,
		Inflow:         in,
		Outflow:        out,
		Balance:        account.InitialBalance.Add(in).Sub(out),
	}, nil
}
