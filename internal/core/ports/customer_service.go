package ports

import (
	"context"

	"github.com/cabletrack/stb-billing/internal/core/domain"
)

// CustomerInput carries the writable customer fields.
type CustomerInput struct {
	Name    string
	Phone   string
	Address string
}

// CustomerSummary is a customer row in the list view, with the derived
// ledger figures attached.
type CustomerSummary struct {
	domain.Customer
	Balance  float64 `json:"balance"`
	TotalSTB int64   `json:"total_stb"`
}

// CustomerListResult is a page of customers.
type CustomerListResult struct {
	Customers  []CustomerSummary
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// CustomerDetail is the full account view: the customer, their devices,
// their ledger newest first, and the running balance.
type CustomerDetail struct {
	Customer     *domain.Customer      `json:"customer"`
	STBs         []*domain.STB         `json:"stbs"`
	Transactions []*domain.Transaction `json:"transactions"`
	Balance      float64               `json:"balance"`
}

// CustomerService covers customer CRUD, including the cascading delete.
type CustomerService interface {
	List(ctx context.Context, page, limit int) (*CustomerListResult, error)
	Get(ctx context.Context, id string) (*CustomerDetail, error)
	Create(ctx context.Context, in CustomerInput, actor domain.Actor) (*domain.Customer, error)
	Update(ctx context.Context, id string, in CustomerInput, actor domain.Actor) error
	// Delete cascades: all the customer's transactions, then their STBs, then
	// the customer record.
	Delete(ctx context.Context, id string, actor domain.Actor) error
}
