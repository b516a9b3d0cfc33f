package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cabletrack/stb-billing/internal/core/domain"
	"github.com/cabletrack/stb-billing/internal/core/ports"
)

type stubReportService struct {
	generateFn func(ctx context.Context, from, to time.Time) (*ports.Report, error)
}

func (s *stubReportService) Generate(ctx context.Context, from, to time.Time) (*ports.Report, error) {
	return s.generateFn(ctx, from, to)
}

func reportContext(e *echo.Echo, from, to string) (echo.Context, *httptest.ResponseRecorder) {
	q := url.Values{}
	if from != "" {
		q.Set("from", from)
	}
	if to != "" {
		q.Set("to", to)
	}
	req := httptest.NewRequest(http.MethodGet, "/v1/reports?"+q.Encode(), nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestReportHandler_Get_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubReportService{
		generateFn: func(ctx context.Context, from, to time.Time) (*ports.Report, error) {
			if from.Format("2006-01-02") != "2024-01-01" || to.Format("2006-01-02") != "2024-01-31" {
				t.Fatalf("unexpected range: %v .. %v", from, to)
			}
			return &ports.Report{
				Summary: ports.ReportSummary{TotalNewCustomers: 2, TotalCollectedAmount: 80},
			}, nil
		},
	}
	h := NewReportHandler(stub)

	c, rec := reportContext(e, "2024-01-01", "2024-01-31")
	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp ports.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Summary.TotalNewCustomers != 2 || resp.Summary.TotalCollectedAmount != 80 {
		t.Fatalf("unexpected summary: %+v", resp.Summary)
	}
}

func TestReportHandler_Get_BadDates(t *testing.T) {
	e := newTestEcho()
	stub := &stubReportService{
		generateFn: func(ctx context.Context, from, to time.Time) (*ports.Report, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewReportHandler(stub)

	for _, tc := range []struct{ from, to string }{
		{"", "2024-01-31"},
		{"2024-01-01", ""},
		{"01/01/2024", "2024-01-31"},
		{"2024-01-01", "not-a-date"},
	} {
		c, _ := reportContext(e, tc.from, tc.to)
		err := h.Get(c)
		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
			t.Errorf("from=%q to=%q: expected a 400 HTTPError, got %v", tc.from, tc.to, err)
		}
	}
}

func TestReportHandler_Get_InvertedRangePassesThrough(t *testing.T) {
	e := newTestEcho()
	stub := &stubReportService{
		generateFn: func(ctx context.Context, from, to time.Time) (*ports.Report, error) {
			return nil, domain.ErrValidation
		},
	}
	h := NewReportHandler(stub)

	c, _ := reportContext(e, "2024-02-01", "2024-01-01")
	if err := h.Get(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for the error handler, got %v", err)
	}
}
