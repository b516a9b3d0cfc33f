package ports

import (
	"context"
	"time"

	"github.com/cabletrack/stb-billing/internal/core/domain"
)

// TransactionRepository defines persistence operations for ledger entries.
// Balances are never stored: SumByCustomer(s) aggregate the signed amounts on
// demand.
type TransactionRepository interface {
	Create(ctx context.Context, t *domain.Transaction) (*domain.Transaction, error)
	FindByID(ctx context.Context, id string) (*domain.Transaction, error)
	// List returns all transactions newest first with creator and customer names populated.
	List(ctx context.Context) ([]*domain.Transaction, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*domain.Transaction, error)

	// SumByCustomer returns the customer's balance: the sum of signed amounts
	// across all their transactions, 0 when there are none.
	SumByCustomer(ctx context.Context, customerID string) (float64, error)
	// SumByCustomers is the batch form, keyed by customer ID. Customers with
	// no transactions are absent from the map.
	SumByCustomers(ctx context.Context, customerIDs []string) (map[string]float64, error)

	Update(ctx context.Context, id string, amount float64, note string) error
	// UpdateBySTB rewrites the charge linked to the given STB.
	UpdateBySTB(ctx context.Context, stbID string, amount float64, note string) error
	Delete(ctx context.Context, id string) error
	DeleteBySTB(ctx context.Context, stbID string) error
	DeleteByCustomer(ctx context.Context, customerID string) error

	// Report reads over AddFund entries. Both bounds are inclusive.
	SumAddFundsBetween(ctx context.Context, from, to time.Time) (float64, error)
	FindAddFundsBetween(ctx context.Context, from, to time.Time) ([]*domain.Transaction, error)
}
