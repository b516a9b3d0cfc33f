package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/cabletrack/stb-billing/internal/core/domain"
	"github.com/cabletrack/stb-billing/internal/core/ports"
)

// LedgerService owns the paired STB+Charge writes and the fund deposits.
// Invariant maintained here: every STB has exactly one linked Charge whose
// amount is the negated STB amount, and that charge only ever changes
// through the STB mutation path.
type LedgerService struct {
	customers ports.CustomerRepository
	stbs      ports.STBRepository
	txs       ports.TransactionRepository
	notifier  ports.Notifier
	log       zerolog.Logger
}

func NewLedgerService(
	customers ports.CustomerRepository,
	stbs ports.STBRepository,
	txs ports.TransactionRepository,
	notifier ports.Notifier,
	log zerolog.Logger,
) *LedgerService {
	return &LedgerService{
		customers: customers,
		stbs:      stbs,
		txs:       txs,
		notifier:  notifier,
		log:       log,
	}
}

// AssignSTB creates the device record and its charge as one logical command.
// The store gives no multi-document atomicity, so a failed charge write is
// compensated by deleting the STB that was just created.
func (s *LedgerService) AssignSTB(ctx context.Context, in ports.AssignSTBInput, actor domain.Actor) (*domain.STB, error) {
	if err := domain.Authorize(domain.ActionCreate, "", actor); err != nil {
		return nil, err
	}
	if in.CustomerID == "" || in.DeviceID == "" {
		return nil, fmt.Errorf("%w: customer id and stb id are required", domain.ErrValidation)
	}

	customer, err := s.customers.FindByID(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}

	stb, err := s.stbs.Create(ctx, &domain.STB{
		DeviceID:     in.DeviceID,
		CustomerID:   in.CustomerID,
		CustomerCode: in.CustomerCode,
		Amount:       in.Amount,
		Note:         in.Note,
		AddedBy:      actor.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("assign stb: %w", err)
	}

	_, err = s.txs.Create(ctx, &domain.Transaction{
		CustomerID: in.CustomerID,
		STBID:      stb.ID,
		Type:       domain.TxCharge,
		Amount:     domain.ChargeAmount(in.Amount),
		Note:       chargeNote(in.Note, in.DeviceID),
		AddedBy:    actor.ID,
	})
	if err != nil {
		// Compensate so the device is not left without its charge.
		if delErr := s.stbs.Delete(ctx, stb.ID); delErr != nil {
			s.log.Error().Err(delErr).Str("stb", stb.ID).Msg("compensating stb delete failed")
		}
		return nil, fmt.Errorf("assign stb: create charge: %w", err)
	}

	s.log.Info().
		Str("stb", stb.ID).
		Str("device", in.DeviceID).
		Str("customer", in.CustomerID).
		Float64("amount", in.Amount).
		Msg("stb assigned")

	s.notifier.STBAssigned(ctx, customer, in.DeviceID, in.Amount, actor.Name)

	return stb, nil
}

// UpdateSTB rewrites the device and its linked charge so the sign invariant
// holds after every update.
func (s *LedgerService) UpdateSTB(ctx context.Context, in ports.UpdateSTBInput, actor domain.Actor) error {
	stb, err := s.stbs.FindByID(ctx, in.STBID)
	if err != nil {
		return err
	}
	if err := domain.Authorize(domain.ActionUpdate, stb.AddedBy, actor); err != nil {
		return err
	}
	if in.DeviceID == "" {
		return fmt.Errorf("%w: stb id is required", domain.ErrValidation)
	}

	if err := s.stbs.Update(ctx, in.STBID, in.DeviceID, in.CustomerCode, in.Amount, in.Note); err != nil {
		return fmt.Errorf("update stb: %w", err)
	}
	if err := s.txs.UpdateBySTB(ctx, in.STBID, domain.ChargeAmount(in.Amount), chargeNote(in.Note, in.DeviceID)); err != nil {
		return fmt.Errorf("update stb: sync charge: %w", err)
	}

	s.log.Info().Str("stb", in.STBID).Float64("amount", in.Amount).Msg("stb updated")
	return nil
}

// DeleteSTB removes the linked charge first, then the device.
func (s *LedgerService) DeleteSTB(ctx context.Context, stbID string, actor domain.Actor) error {
	stb, err := s.stbs.FindByID(ctx, stbID)
	if err != nil {
		return err
	}
	if err := domain.Authorize(domain.ActionDelete, stb.AddedBy, actor); err != nil {
		return err
	}

	if err := s.txs.DeleteBySTB(ctx, stbID); err != nil {
		return fmt.Errorf("delete stb: remove charge: %w", err)
	}
	if err := s.stbs.Delete(ctx, stbID); err != nil {
		return fmt.Errorf("delete stb: %w", err)
	}

	s.log.Info().Str("stb", stbID).Str("customer", stb.CustomerID).Msg("stb deleted")
	return nil
}

// AddFunds records a deposit. The stored amount is always positive.
func (s *LedgerService) AddFunds(ctx context.Context, customerID string, amount float64, note string, actor domain.Actor) (*domain.Transaction, error) {
	if err := domain.Authorize(domain.ActionCreate, "", actor); err != nil {
		return nil, err
	}
	if customerID == "" {
		return nil, fmt.Errorf("%w: customer id is required", domain.ErrValidation)
	}

	customer, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	tx, err := s.txs.Create(ctx, &domain.Transaction{
		CustomerID: customerID,
		Type:       domain.TxAddFund,
		Amount:     domain.FundAmount(amount),
		Note:       note,
		AddedBy:    actor.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("add funds: %w", err)
	}

	s.log.Info().
		Str("customer", customerID).
		Float64("amount", tx.Amount).
		Msg("funds added")

	s.notifier.FundsAdded(ctx, customer, tx.Amount, actor.Name)

	return tx, nil
}

// UpdateTransaction edits a detached ledger entry. STB-linked charges are
// rejected: their amount and note are owned by the STB.
func (s *LedgerService) UpdateTransaction(ctx context.Context, id string, amount float64, note string, actor domain.Actor) error {
	tx, err := s.txs.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := domain.Authorize(domain.ActionUpdate, tx.AddedBy, actor); err != nil {
		return err
	}
	if tx.Locked() {
		return domain.ErrChargeLocked
	}

	if tx.Type == domain.TxCharge {
		amount = domain.ChargeAmount(amount)
	} else {
		amount = domain.FundAmount(amount)
	}
	if err := s.txs.Update(ctx, id, amount, note); err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return nil
}

// DeleteTransaction removes a detached ledger entry, with the same
// charge-lock rule as UpdateTransaction.
func (s *LedgerService) DeleteTransaction(ctx context.Context, id string, actor domain.Actor) error {
	tx, err := s.txs.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := domain.Authorize(domain.ActionDelete, tx.AddedBy, actor); err != nil {
		return err
	}
	if tx.Locked() {
		return domain.ErrChargeLocked
	}

	if err := s.txs.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

// ComputeBalance sums the customer's signed amounts. No caching; the store
// aggregates on every read. A customer with no transactions has balance 0.
func (s *LedgerService) ComputeBalance(ctx context.Context, customerID string) (float64, error) {
	return s.txs.SumByCustomer(ctx, customerID)
}

func (s *LedgerService) ListSTBs(ctx context.Context) ([]*domain.STB, error) {
	return s.stbs.List(ctx)
}

func (s *LedgerService) ListTransactions(ctx context.Context) ([]*domain.Transaction, error) {
	return s.txs.List(ctx)
}

// chargeNote defaults an empty note to "STB <device>".
func chargeNote(note, deviceID string) string {
	if note != "" {
		return note
	}
	return "STB " + deviceID
}
