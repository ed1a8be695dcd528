package arenapay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ukumbi/arenapay/model"
)

func TestWatcher_DeliversTerminalEvent(t *testing.T) {
	w := NewPaymentWatcher()
	sub := w.Watch("pay_1")
	defer sub.Close()

	w.Notify(model.PaymentAttempt{PaymentID: "pay_1", Status: model.StatusCompleted})

	select {
	case attempt := <-sub.C:
		assert.Equal(t, model.StatusCompleted, attempt.Status)
	case <-time.After(time.Second):
		t.Fatal("expected terminal event")
	}
}

func TestWatcher_IgnoresOtherPayments(t *testing.T) {
	w := NewPaymentWatcher()
	sub := w.Watch("pay_1")
	defer sub.Close()

	w.Notify(model.PaymentAttempt{PaymentID: "pay_2", Status: model.StatusCompleted})

	select {
	case <-sub.C:
		t.Fatal("event for a different payment must not be delivered")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWatcher_HandleNotificationSkipsNonTerminal(t *testing.T) {
	w := NewPaymentWatcher()
	sub := w.Watch("pay_1")
	defer sub.Close()

	err := w.HandleNotification("payment_attempts", map[string]interface{}{
		"payment_id": "pay_1",
		"status":     model.StatusPending,
	})
	assert.NoError(t, err)

	select {
	case <-sub.C:
		t.Fatal("pending rows must not wake watchers")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWatcher_HandleNotificationSkipsOtherTables(t *testing.T) {
	w := NewPaymentWatcher()
	sub := w.Watch("pay_1")
	defer sub.Close()

	err := w.HandleNotification("registrations", map[string]interface{}{
		"payment_id": "pay_1",
		"status":     model.StatusCompleted,
	})
	assert.NoError(t, err)

	select {
	case <-sub.C:
		t.Fatal("non-payment tables must be ignored")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWatcher_MultipleSubscribersSameKey(t *testing.T) {
	w := NewPaymentWatcher()
	first := w.Watch("pay_1")
	second := w.Watch("pay_1")
	defer first.Close()
	defer second.Close()

	w.Notify(model.PaymentAttempt{PaymentID: "pay_1", Status: model.StatusFailed})

	for _, sub := range []*Subscription{first, second} {
		select {
		case attempt := <-sub.C:
			assert.Equal(t, model.StatusFailed, attempt.Status)
		case <-time.After(time.Second):
			t.Fatal("every subscriber should see the terminal event")
		}
	}
}

func TestWatcher_CloseIsIdempotent(t *testing.T) {
	w := NewPaymentWatcher()
	sub := w.Watch("pay_1")

	sub.Close()
	sub.Close()

	w.mu.Lock()
	defer w.mu.Unlock()
	assert.Empty(t, w.subs)
}

func TestWatcher_CloseRemovesOnlyOwnSubscription(t *testing.T) {
	w := NewPaymentWatcher()
	first := w.Watch("pay_1")
	second := w.Watch("pay_1")

	first.Close()
	w.Notify(model.PaymentAttempt{PaymentID: "pay_1", Status: model.StatusCompleted})

	select {
	case <-second.C:
	case <-time.After(time.Second):
		t.Fatal("surviving subscription should still receive events")
	}
	second.Close()
}
