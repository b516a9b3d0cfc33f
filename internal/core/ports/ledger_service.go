package ports

import (
	"context"

	"github.com/cabletrack/stb-billing/internal/core/domain"
)

// AssignSTBInput carries everything needed to put a device on a customer's
// account and bill it.
type AssignSTBInput struct {
	CustomerID   string
	DeviceID     string
	CustomerCode string
	Amount       float64
	Note         string
}

// UpdateSTBInput mirrors AssignSTBInput for the update path.
type UpdateSTBInput struct {
	STBID        string
	DeviceID     string
	CustomerCode string
	Amount       float64
	Note         string
}

// LedgerService is the transaction-consistency core: it owns the paired
// STB+Charge writes, fund deposits, the charge-lock rule and the derived
// balance computation. Every mutation takes the acting user and runs the
// authorization policy before touching the store.
type LedgerService interface {
	// AssignSTB creates the STB and its linked Charge (amount negated, note
	// defaulting to "STB <device>") as one command. A failed charge write
	// rolls the STB back.
	AssignSTB(ctx context.Context, in AssignSTBInput, actor domain.Actor) (*domain.STB, error)
	// UpdateSTB updates the device and rewrites its linked charge so the
	// negated-amount invariant holds afterwards.
	UpdateSTB(ctx context.Context, in UpdateSTBInput, actor domain.Actor) error
	// DeleteSTB removes the linked charge, then the device.
	DeleteSTB(ctx context.Context, stbID string, actor domain.Actor) error

	// AddFunds records a deposit; the stored amount is always positive.
	AddFunds(ctx context.Context, customerID string, amount float64, note string, actor domain.Actor) (*domain.Transaction, error)
	// UpdateTransaction and DeleteTransaction reject STB-linked charges with
	// ErrChargeLocked.
	UpdateTransaction(ctx context.Context, id string, amount float64, note string, actor domain.Actor) error
	DeleteTransaction(ctx context.Context, id string, actor domain.Actor) error

	// ComputeBalance is the signed sum of the customer's transactions.
	ComputeBalance(ctx context.Context, customerID string) (float64, error)

	ListSTBs(ctx context.Context) ([]*domain.STB, error)
	ListTransactions(ctx context.Context) ([]*domain.Transaction, error)
}
