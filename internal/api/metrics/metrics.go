// Package metrics defines and registers all custom Prometheus metrics for
// the billing panel. It is the single source of truth for metric names,
// labels, and help strings. Everything is registered with the default
// registry at import time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "billing"

// ── Ledger metrics ────────────────────────────────────────────────────────────

// CustomersCreatedTotal counts new customer accounts.
var CustomersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "customers_created_total",
		Help:      "Total number of customers created.",
	},
)

// STBsAssignedTotal counts STB assignments (each carries one charge).
var STBsAssignedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stbs_assigned_total",
		Help:      "Total number of STB devices assigned to customers.",
	},
)

// FundsAddedTotal counts AddFund deposits.
var FundsAddedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "funds_added_total",
		Help:      "Total number of fund deposits recorded.",
	},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// SMSSentTotal counts SMS deliveries that the provider accepted.
// Labels:
//   - event: "add_fund" or "add_stb"
//   - recipient: "customer" or "admin"
var SMSSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sms_sent_total",
		Help:      "Total number of SMS notifications sent, by event and recipient.",
	},
	[]string{"event", "recipient"},
)

// SMSErrorsTotal counts notification failures. These are logged and
// swallowed, never surfaced to the mutation that triggered them.
// Label:
//   - reason: short failure description (e.g. "settings_read", "provider")
var SMSErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sms_errors_total",
		Help:      "Total number of SMS notification failures.",
	},
	[]string{"reason"},
)

// ── Report metrics ────────────────────────────────────────────────────────────

// ReportCacheTotal counts report cache lookups.
// Label:
//   - result: "hit" or "miss"
var ReportCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "report_cache_total",
		Help:      "Total number of report cache lookups, labelled by result.",
	},
	[]string{"result"},
)

// ReportDurationSeconds measures end-to-end report generation.
var ReportDurationSeconds = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "report_duration_seconds",
		Help:      "Duration of report generation, including cache lookups.",
		Buckets:   prometheus.DefBuckets,
	},
)
