package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/cabletrack/stb-billing/internal/core/domain"
	"github.com/cabletrack/stb-billing/internal/core/ports"
)

const (
	defaultPageLimit = 25
	maxPageLimit     = 100
)

// CustomerService implements customer CRUD including the cascading delete.
type CustomerService struct {
	customers ports.CustomerRepository
	stbs      ports.STBRepository
	txs       ports.TransactionRepository
	log       zerolog.Logger
}

func NewCustomerService(
	customers ports.CustomerRepository,
	stbs ports.STBRepository,
	txs ports.TransactionRepository,
	log zerolog.Logger,
) *CustomerService {
	return &CustomerService{customers: customers, stbs: stbs, txs: txs, log: log}
}

// List returns a page of customers, newest first, each with their derived
// balance and STB count attached via batch aggregations.
func (s *CustomerService) List(ctx context.Context, page, limit int) (*ports.CustomerListResult, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	customers, total, err := s.customers.List(ctx, page, limit)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}

	ids := make([]string, 0, len(customers))
	for _, c := range customers {
		ids = append(ids, c.ID)
	}

	balances, err := s.txs.SumByCustomers(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list customers: balances: %w", err)
	}
	counts, err := s.stbs.CountByCustomers(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list customers: stb counts: %w", err)
	}

	rows := make([]ports.CustomerSummary, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, ports.CustomerSummary{
			Customer: *c,
			Balance:  balances[c.ID],
			TotalSTB: counts[c.ID],
		})
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ports.CustomerListResult{
		Customers:  rows,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// Get returns the full account view with the running balance.
func (s *CustomerService) Get(ctx context.Context, id string) (*ports.CustomerDetail, error) {
	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	stbs, err := s.stbs.ListByCustomer(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("customer detail: stbs: %w", err)
	}
	txs, err := s.txs.ListByCustomer(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("customer detail: transactions: %w", err)
	}
	balance, err := s.txs.SumByCustomer(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("customer detail: balance: %w", err)
	}

	return &ports.CustomerDetail{
		Customer:     customer,
		STBs:         stbs,
		Transactions: txs,
		Balance:      balance,
	}, nil
}

func (s *CustomerService) Create(ctx context.Context, in ports.CustomerInput, actor domain.Actor) (*domain.Customer, error) {
	if err := domain.Authorize(domain.ActionCreate, "", actor); err != nil {
		return nil, err
	}
	if in.Name == "" || in.Phone == "" || in.Address == "" {
		return nil, fmt.Errorf("%w: name, phone and address are required", domain.ErrValidation)
	}

	created, err := s.customers.Create(ctx, &domain.Customer{
		Name:    in.Name,
		Phone:   in.Phone,
		Address: in.Address,
		AddedBy: actor.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}

	s.log.Info().Str("customer", created.ID).Str("name", in.Name).Msg("customer created")
	return created, nil
}

func (s *CustomerService) Update(ctx context.Context, id string, in ports.CustomerInput, actor domain.Actor) error {
	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := domain.Authorize(domain.ActionUpdate, customer.AddedBy, actor); err != nil {
		return err
	}
	if in.Name == "" || in.Phone == "" || in.Address == "" {
		return fmt.Errorf("%w: name, phone and address are required", domain.ErrValidation)
	}

	if err := s.customers.Update(ctx, id, in.Name, in.Phone, in.Address); err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	return nil
}

// Delete cascades: transactions first, then STBs, then the customer itself.
func (s *CustomerService) Delete(ctx context.Context, id string, actor domain.Actor) error {
	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := domain.Authorize(domain.ActionDelete, customer.AddedBy, actor); err != nil {
		return err
	}

	if err := s.txs.DeleteByCustomer(ctx, id); err != nil {
		return fmt.Errorf("delete customer: transactions: %w", err)
	}
	if err := s.stbs.DeleteByCustomer(ctx, id); err != nil {
		return fmt.Errorf("delete customer: stbs: %w", err)
	}
	if err := s.customers.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}

	s.log.Info().Str("customer", id).Msg("customer deleted with cascade")
	return nil
}
