package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"

	"proximity/pkg/logger"
)

// KeyDeliveryChannel is the NOTIFY channel fired on every insert/update of a
// wrapped key row. Payload: "<device_id>:<conversation_id>".
const KeyDeliveryChannel = "conversation_key_inserted"

// KeyDeliveryTriggerDDL installs the trigger that feeds KeyDeliveryChannel.
// Applied by migrations; tests apply it directly.
const KeyDeliveryTriggerDDL = `
CREATE OR REPLACE FUNCTION notify_conversation_key_inserted() RETURNS trigger AS $$
BEGIN
	PERFORM pg_notify('conversation_key_inserted', NEW.device_id::text || ':' || NEW.conversation_id::text);
	RETURN NEW;
END;
$$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS conversation_key_inserted ON conversation_keys;
CREATE TRIGGER conversation_key_inserted
AFTER INSERT OR UPDATE ON conversation_keys
FOR EACH ROW EXECUTE FUNCTION notify_conversation_key_inserted();
`

// KeyDeliveryListener LISTENs for wrapped keys addressed to one device and
// invokes the handler for each. The handler is expected to be idempotent
// (re-importing an already-known key is a no-op), so spurious or duplicate
// notifications are harmless.
type KeyDeliveryListener struct {
	ln       *pgdriver.Listener
	deviceID uuid.UUID
	handler  func(ctx context.Context)
	logger   *logger.Logger
	done     chan struct{}
}

func NewKeyDeliveryListener(db *bun.DB, deviceID uuid.UUID, handler func(ctx context.Context), logger *logger.Logger) *KeyDeliveryListener {
	return &KeyDeliveryListener{
		ln:       pgdriver.NewListener(db),
		deviceID: deviceID,
		handler:  handler,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start subscribes and consumes notifications until ctx is cancelled or
// Close is called.
func (l *KeyDeliveryListener) Start(ctx context.Context) error {
	if err := l.ln.Listen(ctx, KeyDeliveryChannel); err != nil {
		return err
	}

	go func() {
		defer close(l.done)
		for notif := range l.ln.Channel() {
			if !l.addressedToThisDevice(notif.Payload) {
				continue
			}
			l.logger.Debug("wrapped key delivered", "device_id", l.deviceID, "payload", notif.Payload)
			l.handler(ctx)
		}
	}()
	return nil
}

func (l *KeyDeliveryListener) Close() error {
	err := l.ln.Close()
	<-l.done
	return err
}

func (l *KeyDeliveryListener) addressedToThisDevice(payload string) bool {
	deviceID, _, ok := strings.Cut(payload, ":")
	if !ok {
		return false
	}
	return deviceID == l.deviceID.String()
}
