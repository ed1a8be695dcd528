package pg_listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// Channel is the NOTIFY channel the payment_attempts trigger publishes on.
const Channel = "payment_change"

// NotificationHandler receives every row-change payload delivered on the
// channel. Implementations must tolerate duplicate deliveries.
type NotificationHandler interface {
	HandleNotification(table string, data map[string]interface{}) error
}

type ListenerConfig struct {
	PgConnStr string
	Timeout   time.Duration
}

type DBListener struct {
	config  ListenerConfig
	handler NotificationHandler
}

// NotificationPayload is the JSON shape emitted by the notify trigger.
type NotificationPayload struct {
	Table string                 `json:"table"`
	Data  map[string]interface{} `json:"data"`
}

func NewDBListener(config ListenerConfig, handler NotificationHandler) *DBListener {
	if config.Timeout == 0 {
		config.Timeout = time.Minute
	}
	return &DBListener{
		config:  config,
		handler: handler,
	}
}

// Start listens on the payment change channel until ctx is cancelled. The
// underlying pq listener reconnects on its own; a lost connection only costs
// notifications sent while it was down, which the resolve path tolerates.
func (d *DBListener) Start(ctx context.Context) error {
	listener := pq.NewListener(d.config.PgConnStr, 10*time.Second, d.config.Timeout, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			logrus.Errorf("pg listener event error: %v", err)
		}
	})
	defer listener.Close()

	if err := listener.Listen(Channel); err != nil {
		return err
	}

	logrus.Infof("listening for payment changes on channel %q", Channel)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case notification := <-listener.Notify:
			if notification == nil {
				// nil is delivered after a reconnect
				continue
			}
			d.handleNotification(notification)
		case <-time.After(90 * time.Second):
			go func() {
				if err := listener.Ping(); err != nil {
					logrus.Errorf("pg listener ping failed: %v", err)
				}
			}()
		}
	}
}

func (d *DBListener) handleNotification(notification *pq.Notification) {
	var payload NotificationPayload
	if err := json.Unmarshal([]byte(notification.Extra), &payload); err != nil {
		logrus.Errorf("error unmarshalling notification payload: %v", err)
		return
	}

	if err := d.handler.HandleNotification(payload.Table, payload.Data); err != nil {
		logrus.Errorf("error handling notification: %v", err)
	}
}
