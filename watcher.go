package arenapay

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ukumbi/arenapay/model"
)

// PaymentWatcher fans change-feed events out to per-attempt subscriptions.
// Events arrive from the postgres listener (one process may host many
// waiting payment sessions); each subscription is keyed by the attempt's
// payment id and delivered at most one terminal event.
type PaymentWatcher struct {
	mu   sync.Mutex
	subs map[string][]*Subscription
	next int
}

// Subscription is the disposable handle returned by Watch. Close is safe to
// call more than once and must be called on every exit path so the registry
// never leaks observers.
type Subscription struct {
	C chan model.PaymentAttempt

	watcher *PaymentWatcher
	key     string
	id      int
	once    sync.Once
}

func NewPaymentWatcher() *PaymentWatcher {
	return &PaymentWatcher{subs: make(map[string][]*Subscription)}
}

// Watch registers interest in the attempt with the given payment id
// reaching a terminal state.
func (w *PaymentWatcher) Watch(paymentID string) *Subscription {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.next++
	sub := &Subscription{
		C:       make(chan model.PaymentAttempt, 1),
		watcher: w,
		key:     paymentID,
		id:      w.next,
	}
	w.subs[paymentID] = append(w.subs[paymentID], sub)
	return sub
}

func (s *Subscription) Close() {
	s.once.Do(func() {
		s.watcher.remove(s.key, s.id)
	})
}

func (w *PaymentWatcher) remove(key string, id int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	subs := w.subs[key]
	for i, sub := range subs {
		if sub.id == id {
			w.subs[key] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(w.subs[key]) == 0 {
		delete(w.subs, key)
	}
}

// HandleNotification implements pg_listener.NotificationHandler. Non-payment
// tables and non-terminal transitions are ignored; terminal attempts are
// delivered to every subscription watching that payment id.
func (w *PaymentWatcher) HandleNotification(table string, data map[string]interface{}) error {
	if table != "payment_attempts" {
		return nil
	}

	attempt := attemptFromNotification(data)
	if !attempt.IsTerminal() {
		return nil
	}

	w.Notify(attempt)
	return nil
}

// Notify delivers a terminal attempt to its watchers. The send never
// blocks: each subscription holds a one-slot buffer and only the first
// terminal event matters.
func (w *PaymentWatcher) Notify(attempt model.PaymentAttempt) {
	w.mu.Lock()
	subs := append([]*Subscription(nil), w.subs[attempt.PaymentID]...)
	w.mu.Unlock()

	for _, sub := range subs {
		select {
		case sub.C <- attempt:
		default:
			logrus.Warnf("dropping duplicate terminal event for payment %s", attempt.PaymentID)
		}
	}
}

// attemptFromNotification maps the trigger's row JSON onto the model. Only
// the fields the orchestrator needs are extracted; numbers arrive as
// float64 from the JSON decoder and everything else as strings.
func attemptFromNotification(data map[string]interface{}) model.PaymentAttempt {
	str := func(key string) string {
		if v, ok := data[key].(string); ok {
			return v
		}
		return ""
	}
	return model.PaymentAttempt{
		PaymentID:        str("payment_id"),
		CorrelationID:    str("correlation_id"),
		TournamentID:     str("tournament_id"),
		PlayerID:         str("player_id"),
		Status:           str("status"),
		ReceiptReference: str("receipt_reference"),
		FailureReason:    str("failure_reason"),
	}
}
