package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cabletrack/stb-billing/internal/core/domain"
)

func seedJanuary(t *testing.T, customers *stubCustomerRepo, stbs *stubSTBRepo, txs *stubTransactionRepo) {
	t.Helper()
	ctx := context.Background()
	jan := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC)

	// Inside the range.
	_, _ = customers.Create(ctx, &domain.Customer{Name: "Jan", Phone: "01", Address: "A", CreatedAt: jan})
	_, _ = stbs.Create(ctx, &domain.STB{DeviceID: "D1", Amount: 50, CreatedAt: jan})
	_, _ = txs.Create(ctx, &domain.Transaction{Type: domain.TxAddFund, Amount: 30, CreatedAt: jan})
	// Charge entries never count as collections.
	_, _ = txs.Create(ctx, &domain.Transaction{Type: domain.TxCharge, Amount: -50, CreatedAt: jan})

	// Outside the range.
	_, _ = customers.Create(ctx, &domain.Customer{Name: "Feb", Phone: "02", Address: "B", CreatedAt: feb})
	_, _ = stbs.Create(ctx, &domain.STB{DeviceID: "D2", Amount: 80, CreatedAt: feb})
	_, _ = txs.Create(ctx, &domain.Transaction{Type: domain.TxAddFund, Amount: 99, CreatedAt: feb})
}

func TestReportGenerate_Rollup(t *testing.T) {
	customers := newStubCustomerRepo()
	stbs := newStubSTBRepo()
	txs := newStubTransactionRepo()
	seedJanuary(t, customers, stbs, txs)
	svc := NewReportService(customers, stbs, txs, nil, discardLogger)

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	report, err := svc.Generate(context.Background(), from, to)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	s := report.Summary
	if s.TotalNewCustomers != 1 {
		t.Errorf("new customers: expected 1, got %d", s.TotalNewCustomers)
	}
	if s.TotalSTBsAdded != 1 {
		t.Errorf("stbs added: expected 1, got %d", s.TotalSTBsAdded)
	}
	if s.TotalBillGenerated != 50 {
		t.Errorf("bill generated: expected 50, got %v", s.TotalBillGenerated)
	}
	if s.TotalCollectedAmount != 30 {
		t.Errorf("collected: expected 30, got %v", s.TotalCollectedAmount)
	}
	if len(report.Details.NewCustomers) != 1 || len(report.Details.STBs) != 1 || len(report.Details.Transactions) != 1 {
		t.Errorf("details: expected 1/1/1, got %d/%d/%d",
			len(report.Details.NewCustomers), len(report.Details.STBs), len(report.Details.Transactions))
	}
}

func TestReportGenerate_EndDateIsInclusive(t *testing.T) {
	customers := newStubCustomerRepo()
	stbs := newStubSTBRepo()
	txs := newStubTransactionRepo()
	svc := NewReportService(customers, stbs, txs, nil, discardLogger)
	ctx := context.Background()

	// Created late in the evening of the report's last day.
	evening := time.Date(2024, 1, 31, 22, 30, 0, 0, time.UTC)
	_, _ = txs.Create(ctx, &domain.Transaction{Type: domain.TxAddFund, Amount: 10, CreatedAt: evening})

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	report, err := svc.Generate(ctx, from, to)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if report.Summary.TotalCollectedAmount != 10 {
		t.Errorf("end-of-day entries must count: expected 10, got %v", report.Summary.TotalCollectedAmount)
	}
}

func TestReportGenerate_InvertedRangeRejected(t *testing.T) {
	svc := NewReportService(newStubCustomerRepo(), newStubSTBRepo(), newStubTransactionRepo(), nil, discardLogger)

	from := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	if _, err := svc.Generate(context.Background(), from, to); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestReportGenerate_SameDayRangeIsValid(t *testing.T) {
	svc := NewReportService(newStubCustomerRepo(), newStubSTBRepo(), newStubTransactionRepo(), nil, discardLogger)

	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	if _, err := svc.Generate(context.Background(), day, day); err != nil {
		t.Errorf("single-day report must work: %v", err)
	}
}

func TestReportGenerate_CacheHitSkipsAggregation(t *testing.T) {
	customers := newStubCustomerRepo()
	stbs := newStubSTBRepo()
	txs := newStubTransactionRepo()
	seedJanuary(t, customers, stbs, txs)
	cache := newStubReportCache()
	svc := NewReportService(customers, stbs, txs, cache, discardLogger)
	ctx := context.Background()

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	first, err := svc.Generate(ctx, from, to)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("expected 1 cache write, got %d", cache.sets)
	}

	// Mutate the store: a cached second read must not see it.
	_, _ = txs.Create(ctx, &domain.Transaction{Type: domain.TxAddFund, Amount: 500,
		CreatedAt: time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)})

	second, err := svc.Generate(ctx, from, to)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if second.Summary.TotalCollectedAmount != first.Summary.TotalCollectedAmount {
		t.Errorf("cached report must be returned as-is: got %v", second.Summary.TotalCollectedAmount)
	}
}

func TestReportGenerate_CacheFailuresAreNotFatal(t *testing.T) {
	customers := newStubCustomerRepo()
	stbs := newStubSTBRepo()
	txs := newStubTransactionRepo()
	seedJanuary(t, customers, stbs, txs)
	cache := newStubReportCache()
	cache.getErr = errors.New("redis down")
	cache.setErr = errors.New("redis down")
	svc := NewReportService(customers, stbs, txs, cache, discardLogger)

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	report, err := svc.Generate(context.Background(), from, to)
	if err != nil {
		t.Fatalf("report must survive a dead cache: %v", err)
	}
	if report.Summary.TotalCollectedAmount != 30 {
		t.Errorf("expected 30, got %v", report.Summary.TotalCollectedAmount)
	}
}
