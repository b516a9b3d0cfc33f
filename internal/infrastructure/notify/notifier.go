package notify

import (
	"context"
	"math"
	"time"

	"github.com/cabletrack/stb-billing/internal/api/metrics"
	"github.com/cabletrack/stb-billing/internal/core/domain"
)

const settingsTimeout = 5 * time.Second

// FundsAdded queues notifications for an AddFund deposit.
func (s *Service) FundsAdded(_ context.Context, customer *domain.Customer, amount float64, addedBy string) {
	s.enqueue(Event{
		Kind:          EventAddFund,
		CustomerName:  customer.Name,
		CustomerPhone: customer.Phone,
		Amount:        math.Abs(amount),
		AddedBy:       addedBy,
	})
}

// STBAssigned queues notifications for an STB assignment and its charge.
func (s *Service) STBAssigned(_ context.Context, customer *domain.Customer, deviceID string, amount float64, addedBy string) {
	s.enqueue(Event{
		Kind:          EventAddSTB,
		CustomerName:  customer.Name,
		CustomerPhone: customer.Phone,
		DeviceID:      deviceID,
		Amount:        math.Abs(amount),
		AddedBy:       addedBy,
	})
}

// deliver reads the current settings and sends the customer and admin
// messages the flags allow. Failures are logged and counted, nothing more.
func (s *Service) deliver(ctx context.Context, workerID int, event Event) {
	readCtx, cancel := context.WithTimeout(ctx, settingsTimeout)
	settings, err := s.settings.Find(readCtx)
	cancel()
	if err != nil {
		metrics.SMSErrorsTotal.WithLabelValues("settings_read").Inc()
		s.log.Error().Err(err).
			Str("event", string(event.Kind)).
			Int("worker_id", workerID).
			Msg("notification settings read failed")
		return
	}

	if !settings.SMSEnabled || settings.SMSURLTemplate == "" {
		return
	}

	data := MessageData{
		Amount:       event.Amount,
		CustomerName: event.CustomerName,
		DeviceID:     event.DeviceID,
		AddedBy:      event.AddedBy,
	}

	toCustomer, toAdmin := event.recipients(settings)
	if toCustomer && event.CustomerPhone != "" {
		msg := RenderMessage(event.customerTemplate(settings), data)
		s.send(settings.SMSURLTemplate, "", event.CustomerPhone, msg, event.Kind, "customer", workerID)
	}
	if toAdmin && settings.AdminPhone != "" {
		msg := RenderMessage(event.adminTemplate(settings), data)
		s.send(settings.SMSURLTemplate, settings.AdminPhone, "", msg, event.Kind, "admin", workerID)
	}
}

func (s *Service) send(tmpl, adminPhone, customerPhone, message string, kind EventKind, recipient string, workerID int) {
	if err := s.sender.Send(FillURL(tmpl, adminPhone, customerPhone, message)); err != nil {
		metrics.SMSErrorsTotal.WithLabelValues("provider").Inc()
		s.log.Error().Err(err).
			Str("event", string(kind)).
			Str("recipient", recipient).
			Int("worker_id", workerID).
			Msg("sms delivery failed")
		return
	}
	metrics.SMSSentTotal.WithLabelValues(string(kind), recipient).Inc()
	s.log.Info().
		Str("event", string(kind)).
		Str("recipient", recipient).
		Msg("sms delivered")
}

func (e Event) recipients(settings *domain.Settings) (customer, admin bool) {
	switch e.Kind {
	case EventAddFund:
		return settings.Flags.SendAddFundCustomer, settings.Flags.SendAddFundAdmin
	case EventAddSTB:
		return settings.Flags.SendAddSTBCustomer, settings.Flags.SendAddSTBAdmin
	}
	return false, false
}

func (e Event) customerTemplate(settings *domain.Settings) string {
	switch e.Kind {
	case EventAddSTB:
		return orDefault(settings.Templates.AddSTBCustomer, domain.DefaultAddSTBCustomerTemplate)
	default:
		return orDefault(settings.Templates.AddFundCustomer, domain.DefaultAddFundCustomerTemplate)
	}
}

func (e Event) adminTemplate(settings *domain.Settings) string {
	switch e.Kind {
	case EventAddSTB:
		return orDefault(settings.Templates.AddSTBAdmin, domain.DefaultAddSTBAdminTemplate)
	default:
		return orDefault(settings.Templates.AddFundAdmin, domain.DefaultAddFundAdminTemplate)
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
