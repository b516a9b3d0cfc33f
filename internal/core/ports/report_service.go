package ports

import (
	"context"
	"time"

	"github.com/cabletrack/stb-billing/internal/core/domain"
)

// ReportSummary is the headline rollup for a date range.
type ReportSummary struct {
	TotalNewCustomers    int64   `json:"total_new_customers"`
	TotalSTBsAdded       int64   `json:"total_stbs_added"`
	TotalBillGenerated   float64 `json:"total_bill_generated"`
	TotalCollectedAmount float64 `json:"total_collected_amount"`
}

// ReportDetails holds the underlying records, newest first, with creator
// names attached.
type ReportDetails struct {
	NewCustomers []*domain.Customer    `json:"new_customers"`
	STBs         []*domain.STB         `json:"stbs"`
	Transactions []*domain.Transaction `json:"transactions"`
}

// Report is the full date-ranged rollup.
type Report struct {
	Summary ReportSummary `json:"summary"`
	Details ReportDetails `json:"details"`
}

// ReportService produces read-only rollups. Both endpoints of the range are
// inclusive; the end date's time is normalized to end-of-day before querying.
type ReportService interface {
	Generate(ctx context.Context, from, to time.Time) (*Report, error)
}
