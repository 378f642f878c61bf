// Package notify delivers back-office email notifications. Delivery is
// fire-and-forget: a failed or slow send is logged and never blocks or fails
// the operation that triggered it.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"jerseylab-api/internal/model"

	"github.com/rs/zerolog"
)

// Notifier sends a single plain-text email.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

// AdminEmailSource lists the destination addresses for back-office
// notifications.
type AdminEmailSource interface {
	ListAdminEmails(ctx context.Context) ([]string, error)
}

// Dispatcher is the notification hook the services call. Implementations
// must never propagate delivery failures.
type Dispatcher interface {
	OrderCreated(order *model.Order)
	InquiryReceived(inquiry *model.TeamwearInquiry)
}

// AsyncDispatcher sends notifications to every admin on a background
// goroutine with its own bounded context.
type AsyncDispatcher struct {
	notifier Notifier
	admins   AdminEmailSource
	timeout  time.Duration
	logger   zerolog.Logger
	wg       sync.WaitGroup
}

// NewAsyncDispatcher creates a dispatcher delivering through notifier to the
// addresses listed by admins.
func NewAsyncDispatcher(notifier Notifier, admins AdminEmailSource, timeout time.Duration, logger zerolog.Logger) *AsyncDispatcher {
	return &AsyncDispatcher{
		notifier: notifier,
		admins:   admins,
		timeout:  timeout,
		logger:   logger.With().Str("component", "notify").Logger(),
	}
}

// OrderCreated notifies all admins that a new order was confirmed.
func (d *AsyncDispatcher) OrderCreated(order *model.Order) {
	subject := fmt.Sprintf("New order %s", order.OrderNumber)
	body := fmt.Sprintf(
		"Order %s has been confirmed.\n\nCustomer: %s\nItems: %d\nTotal: $%.2f\n",
		order.OrderNumber, order.Email, len(order.Items), order.Total,
	)
	d.dispatch("order", subject, body)
}

// InquiryReceived notifies all admins of a new teamwear inquiry.
func (d *AsyncDispatcher) InquiryReceived(inquiry *model.TeamwearInquiry) {
	subject := fmt.Sprintf("New teamwear inquiry from %s %s", inquiry.FirstName, inquiry.LastName)
	body := fmt.Sprintf(
		"A new teamwear inquiry has been submitted.\n\nName: %s %s\nEmail: %s\nPhone: %s\n\n%s\n",
		inquiry.FirstName, inquiry.LastName, inquiry.Email, inquiry.PhoneNumber, inquiry.Description,
	)
	d.dispatch("teamwear inquiry", subject, body)
}

// Wait blocks until all in-flight deliveries finish. Used on shutdown and in
// tests.
func (d *AsyncDispatcher) Wait() {
	d.wg.Wait()
}

func (d *AsyncDispatcher) dispatch(kind, subject, body string) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		emails, err := d.admins.ListAdminEmails(ctx)
		if err != nil {
			d.logger.Error().Err(err).Str("kind", kind).Msg("failed to list admin emails for notification")
			return
		}
		if len(emails) == 0 {
			d.logger.Warn().Str("kind", kind).Msg("no admin emails found for notification")
			return
		}

		sent := 0
		for _, to := range emails {
			if err := d.notifier.Send(ctx, to, subject, body); err != nil {
				d.logger.Error().Err(err).Str("kind", kind).Str("to", to).Msg("failed to send notification")
				continue
			}
			sent++
		}

		d.logger.Info().Str("kind", kind).Int("sent", sent).Int("admins", len(emails)).Msg("notification dispatched")
	}()
}
