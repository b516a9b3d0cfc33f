package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/cabletrack/stb-billing/internal/core/domain"
	"github.com/cabletrack/stb-billing/internal/core/ports"
)

// ReportCache abstracts the short-TTL rollup cache (Redis). A miss is
// (nil, nil); cache failures are never fatal to report generation.
type ReportCache interface {
	Get(ctx context.Context, key string) (*ports.Report, error)
	Set(ctx context.Context, key string, r *ports.Report) error
}

// ReportService produces the date-ranged rollups. Pure read side: counts,
// sums and detail lists, no mutations.
type ReportService struct {
	customers ports.CustomerRepository
	stbs      ports.STBRepository
	txs       ports.TransactionRepository
	cache     ReportCache
	log       zerolog.Logger
}

func NewReportService(
	customers ports.CustomerRepository,
	stbs ports.STBRepository,
	txs ports.TransactionRepository,
	cache ReportCache,
	log zerolog.Logger,
) *ReportService {
	return &ReportService{customers: customers, stbs: stbs, txs: txs, cache: cache, log: log}
}

// Generate computes the rollup for [from, to]. Both endpoints are inclusive:
// to's time is pushed to the very end of its day before querying.
func (s *ReportService) Generate(ctx context.Context, from, to time.Time) (*ports.Report, error) {
	if from.IsZero() || to.IsZero() {
		return nil, fmt.Errorf("%w: from and to dates are required", domain.ErrValidation)
	}
	to = endOfDay(to)
	if from.After(to) {
		return nil, fmt.Errorf("%w: from must not be after to", domain.ErrValidation)
	}

	key := fmt.Sprintf("report:%s:%s", from.Format("2006-01-02"), to.Format("2006-01-02"))
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		if err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("report cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	newCustomers, err := s.customers.CountCreatedBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("report: count customers: %w", err)
	}
	stbsAdded, err := s.stbs.CountCreatedBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("report: count stbs: %w", err)
	}
	billGenerated, err := s.stbs.SumAmountBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("report: bill generated: %w", err)
	}
	collected, err := s.txs.SumAddFundsBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("report: collected: %w", err)
	}

	customers, err := s.customers.FindCreatedBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("report: customers: %w", err)
	}
	stbs, err := s.stbs.FindCreatedBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("report: stbs: %w", err)
	}
	funds, err := s.txs.FindAddFundsBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("report: transactions: %w", err)
	}

	report := &ports.Report{
		Summary: ports.ReportSummary{
			TotalNewCustomers:    newCustomers,
			TotalSTBsAdded:       stbsAdded,
			TotalBillGenerated:   billGenerated,
			TotalCollectedAmount: collected,
		},
		Details: ports.ReportDetails{
			NewCustomers: customers,
			STBs:         stbs,
			Transactions: funds,
		},
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, report); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("report cache write failed")
		}
	}

	return report, nil
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
