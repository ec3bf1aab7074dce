package payments

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestionale-api/internal/application/dto"
	"github.com/jhoicas/Gestionale-api/internal/domain"
	"github.com/jhoicas/Gestionale-api/internal/domain/entity"
	"github.com/jhoicas/Gestionale-api/internal/domain/reconciliation"
	"github.com/jhoicas/Gestionale-api/internal/domain/repository"
	"github.com/jhoicas/Gestionale-api/pkg/logger"
	"github.com/jhoicas/Gestionale-api/pkg/money"
)

// UseCase motor de conciliación: único escritor de pagos y asignaciones.
type UseCase struct {
	store       repository.Tx
	txRunner    repository.TxRunner
	policy      reconciliation.InternalPolicy
	idempotency IdempotencyStore
	ttl         time.Duration
	log         *logger.Logger
	now         func() time.Time
}

// Option configura el caso de uso.
type Option func(*UseCase)

// WithIdempotency habilita la repetición de resultados por Idempotency-Key.
func WithIdempotency(store IdempotencyStore, ttl time.Duration) Option {
	return func(uc *UseCase) {
		uc.idempotency = store
		uc.ttl = ttl
	}
}

// NewUseCase construye el motor. policy decide el tratamiento de documentos INTERNAL.
func NewUseCase(store repository.Tx, txRunner repository.TxRunner, policy reconciliation.InternalPolicy, log *logger.Logger, opts ...Option) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	if policy == "" {
		policy = reconciliation.InternalAsSale
	}
	uc := &UseCase{
		store:    store,
		txRunner: txRunner,
		policy:   policy,
		log:      log.Component("reconciliation"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// ReconcilePayment asigna el pago (existente o nuevo) a las cuotas pedidas. Todo o nada:
// la validación completa se ejecuta dentro de la transacción sobre filas bloqueadas
// (pago y cuotas FOR UPDATE en orden de id) y solo después se escribe.
func (uc *UseCase) ReconcilePayment(ctx context.Context, actor domain.Actor, in dto.ReconcileRequest) (*dto.ReconcileResponse, error) {
	if err := actor.RequireWrite(); err != nil {
		return nil, err
	}
	if err := validatePaymentSelector(in); err != nil {
		return nil, err
	}
	requested := make([]reconciliation.Allocation, 0, len(in.Allocations))
	for _, a := range in.Allocations {
		requested = append(requested, reconciliation.Allocation{InstallmentID: a.InstallmentID, Amount: a.Amount})
	}
	allocs, err := reconciliation.Group(requested)
	if err != nil {
		return nil, err
	}
	ids := reconciliation.InstallmentIDs(allocs)
	lockOrder := append([]string(nil), ids...)
	sort.Strings(lockOrder)

	var resp *dto.ReconcileResponse
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		st := reconciliation.State{OrganizationID: actor.OrganizationID, PaymentAllocated: decimal.Zero}

		if in.PaymentID != "" {
			p, err := tx.Payments().GetForUpdate(ctx, in.PaymentID)
			if err != nil {
				return err
			}
			if p == nil || p.OrganizationID != actor.OrganizationID {
				return fmt.Errorf("pago %s: %w", in.PaymentID, domain.ErrNotFound)
			}
			existing, err := tx.Payments().Mappings(ctx, p.ID)
			if err != nil {
				return err
			}
			for _, m := range existing {
				st.PaymentAllocated = st.PaymentAllocated.Add(m.Amount)
			}
			st.PaymentID = p.ID
			st.PaymentAmount = p.Amount
		} else {
			st.PaymentAmount = in.Payment.Amount
		}

		found, err := tx.Installments().GetByIDs(ctx, lockOrder, true)
		if err != nil {
			return err
		}
		st.Installments = make(map[string]*entity.Installment, len(found))
		for _, i := range found {
			st.Installments[i.ID] = i
		}
		if st.AllocatedTotals, err = tx.Installments().AllocatedTotals(ctx, lockOrder); err != nil {
			return err
		}
		if err := reconciliation.Validate(allocs, st); err != nil {
			return err
		}

		paymentID := st.PaymentID
		created := false
		if in.PaymentID == "" {
			if err := uc.checkNewPayment(ctx, tx, actor, in.Payment, allocs, st); err != nil {
				return err
			}
			p := &entity.Payment{
				ID:             uuid.New().String(),
				OrganizationID: actor.OrganizationID,
				AccountID:      in.Payment.AccountID,
				Direction:      in.Payment.Direction,
				Amount:         in.Payment.Amount,
				Date:           in.Payment.Date.Time,
				Type:           in.Payment.Type,
				Reference:      in.Payment.Reference,
				Notes:          in.Payment.Notes,
				CreatedAt:      uc.now(),
				CreatedBy:      actor.UserID,
			}
			if err := tx.Payments().Create(ctx, p); err != nil {
				return err
			}
			paymentID = p.ID
			created = true
		}

		resp = &dto.ReconcileResponse{PaymentID: paymentID, PaymentCreated: created}
		for _, a := range allocs {
			m, err := tx.Payments().UpsertMapping(ctx, paymentID, a.InstallmentID, a.Amount)
			if err != nil {
				return err
			}
			resp.Allocations = append(resp.Allocations, dto.AllocationResponse{
				ID:            m.ID,
				InstallmentID: m.InstallmentID,
				Amount:        m.Amount,
				Added:         a.Amount,
			})
		}
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).
			Str("organization_id", actor.OrganizationID).
			Str("payment_id", in.PaymentID).
			Int("allocations", len(allocs)).
			Msg("conciliación rechazada")
		return nil, err
	}
	uc.log.Info().
		Str("organization_id", actor.OrganizationID).
		Str("payment_id", resp.PaymentID).
		Bool("payment_created", resp.PaymentCreated).
		Str("allocated", money.Format(reconciliation.Total(allocs))).
		Int("allocations", len(resp.Allocations)).
		Msg("pago conciliado")
	return resp, nil
}

// checkNewPayment exige cuenta de la organización y dirección coherente con las cuotas.
func (uc *UseCase) checkNewPayment(ctx context.Context, tx repository.Tx, actor domain.Actor, p *dto.NewPaymentRequest, allocs []reconciliation.Allocation, st reconciliation.State) error {
	account, err := tx.Accounts().GetByID(ctx, p.AccountID)
	if err != nil {
		return err
	}
	if account == nil || account.OrganizationID != actor.OrganizationID {
		return fmt.Errorf("cuenta %s: %w", p.AccountID, domain.ErrNotFound)
	}
	targets := make([]*entity.Installment, 0, len(allocs))
	for _, a := range allocs {
		targets = append(targets, st.Installments[a.InstallmentID])
	}
	return reconciliation.CheckPaymentDirection(p.Direction, targets, uc.policy)
}

func validatePaymentSelector(in dto.ReconcileRequest) error {
	switch {
	case in.PaymentID != "" && in.Payment != nil:
		return domain.Invalid("payment", "indique payment_id o payment, no ambos")
	case in.PaymentID == "" && in.Payment == nil:
		return domain.Invalid("payment", "indique payment_id o payment")
	case in.Payment == nil:
		return nil
	}
	p := in.Payment
	if p.AccountID == "" {
		return domain.Invalid("payment.account_id", "es obligatorio")
	}
	if p.Direction != entity.PaymentInflow && p.Direction != entity.PaymentOutflow {
		return domain.Invalid("payment.direction", "debe ser %s u %s", entity.PaymentInflow, entity.PaymentOutflow)
	}
	if !p.Amount.IsPositive() {
		return domain.Invalid("payment.amount", "debe ser mayor que cero")
	}
	if !money.HasScale(p.Amount, money.AmountPlaces) {
		return domain.Invalid("payment.amount", "admite como máximo %d decimales", money.AmountPlaces)
	}
	if p.Date.IsZero() {
		return domain.Invalid("payment.date", "es obligatoria")
	}
	return nil
}

// DeletePayment borra el pago y sus asignaciones en una transacción; los residuos
// de sus cuotas crecen solos porque siempre se recalculan.
func (uc *UseCase) DeletePayment(ctx context.Context, actor domain.Actor, paymentID string) error {
	if err := actor.RequireWrite(); err != nil {
		return err
	}
	if paymentID == "" {
		return domain.Invalid("id", "es obligatorio")
	}
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		p, err := tx.Payments().GetForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		if p == nil || p.OrganizationID != actor.OrganizationID {
			return fmt.Errorf("pago %s: %w", paymentID, domain.ErrNotFound)
		}
		return tx.Payments().Delete(ctx, p.ID)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("organization_id", actor.OrganizationID).Str("payment_id", paymentID).Msg("pago eliminado")
	return nil
}
