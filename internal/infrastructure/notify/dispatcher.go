// Package notify implements the SMS notification pipeline. Events are
// enqueued by the ledger mutations and delivered asynchronously by a fixed
// pool of workers, sharded by customer phone so per-customer delivery order
// is preserved.
package notify

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/cabletrack/stb-billing/internal/api/metrics"
	"github.com/cabletrack/stb-billing/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// EventKind identifies which ledger mutation triggered a notification.
type EventKind string

const (
	EventAddFund EventKind = "add_fund"
	EventAddSTB  EventKind = "add_stb"
)

// Event is a queued notification request.
type Event struct {
	Kind          EventKind
	CustomerName  string
	CustomerPhone string
	DeviceID      string
	Amount        float64
	AddedBy       string
}

// Sender delivers a fully rendered provider URL.
type Sender interface {
	Send(url string) error
}

// Service routes notification events to a fixed set of workers using
// consistent hashing on the customer phone number. It implements
// ports.Notifier: enqueueing never blocks the caller and delivery failures
// are logged and counted, never returned.
type Service struct {
	settings ports.SettingsRepository
	sender   Sender
	workers  []chan Event
	log      zerolog.Logger
}

// NewService creates a Service with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewService(settings ports.SettingsRepository, sender Sender, numWorkers int, log zerolog.Logger) *Service {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	s := &Service{
		settings: settings,
		sender:   sender,
		workers:  make([]chan Event, numWorkers),
		log:      log,
	}
	for i := range s.workers {
		s.workers[i] = make(chan Event, channelBuffer)
	}
	return s
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	for i, ch := range s.workers {
		go s.runWorker(ctx, i, ch)
	}
}

// enqueue hands an event to the worker responsible for its customer phone.
// When the worker queue is full the event is dropped and counted.
func (s *Service) enqueue(event Event) {
	select {
	case s.workers[s.shardIndex(event.CustomerPhone)] <- event:
	default:
		metrics.SMSErrorsTotal.WithLabelValues("queue_full").Inc()
		s.log.Warn().
			Str("event", string(event.Kind)).
			Str("customer_phone", event.CustomerPhone).
			Msg("notification queue full, event dropped")
	}
}

// shardIndex maps a phone number deterministically to a worker index.
func (s *Service) shardIndex(phone string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(phone))
	return int(h.Sum32()) % len(s.workers)
}

func (s *Service) runWorker(ctx context.Context, id int, ch <-chan Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			s.deliver(ctx, id, event)
		}
	}
}
