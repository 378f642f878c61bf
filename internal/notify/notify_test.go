package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"jerseylab-api/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubNotifier struct {
	mu   sync.Mutex
	sent []string
	fail bool
}

func (n *stubNotifier) Send(_ context.Context, to, _, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail {
		return errors.New("smtp unavailable")
	}
	n.sent = append(n.sent, to)
	return nil
}

func (n *stubNotifier) recipients() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.sent...)
}

type stubAdminSource struct {
	emails []string
	err    error
}

func (s *stubAdminSource) ListAdminEmails(context.Context) ([]string, error) {
	return s.emails, s.err
}

func TestOrderCreated_SendsToEveryAdmin(t *testing.T) {
	notifier := &stubNotifier{}
	admins := &stubAdminSource{emails: []string{"a@example.com", "b@example.com"}}

	d := NewAsyncDispatcher(notifier, admins, time.Second, zerolog.Nop())
	d.OrderCreated(&model.Order{OrderNumber: "JL-X-0001", Email: "customer@example.com", Total: 99.50})
	d.Wait()

	assert.ElementsMatch(t, []string{"a@example.com", "b@example.com"}, notifier.recipients())
}

func TestOrderCreated_DeliveryFailureIsSwallowed(t *testing.T) {
	notifier := &stubNotifier{fail: true}
	admins := &stubAdminSource{emails: []string{"a@example.com"}}

	d := NewAsyncDispatcher(notifier, admins, time.Second, zerolog.Nop())

	// Must not panic or block; the caller never sees the failure.
	d.OrderCreated(&model.Order{OrderNumber: "JL-X-0001"})
	d.Wait()

	assert.Empty(t, notifier.recipients())
}

func TestInquiryReceived_AdminListFailureIsSwallowed(t *testing.T) {
	notifier := &stubNotifier{}
	admins := &stubAdminSource{err: errors.New("db down")}

	d := NewAsyncDispatcher(notifier, admins, time.Second, zerolog.Nop())
	d.InquiryReceived(&model.TeamwearInquiry{FirstName: "Ada", LastName: "Example"})
	d.Wait()

	assert.Empty(t, notifier.recipients())
}

func TestDispatch_DoesNotBlockCaller(t *testing.T) {
	notifier := &stubNotifier{}
	admins := &stubAdminSource{emails: []string{"a@example.com"}}

	d := NewAsyncDispatcher(notifier, admins, time.Second, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		d.OrderCreated(&model.Order{OrderNumber: "JL-X-0001"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		require.Fail(t, "dispatch blocked the caller")
	}
	d.Wait()
}
