// internal/domain/stock/notifier.go
package stock

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const notifyTimeout = 3 * time.Second

// Notifier receives committed ledger entries for external observers
// (dashboards). It is invoked strictly after a commit has durably
// succeeded and is fire-and-forget: delivery failures never affect the
// commit.
type Notifier interface {
	LedgerCommitted(ctx context.Context, entries []LedgerEntry)
}

// NopNotifier discards notifications. Used in tests.
type NopNotifier struct{}

func (NopNotifier) LedgerCommitted(ctx context.Context, entries []LedgerEntry) {}

// RedisNotifier publishes committed entries as JSON on a Redis channel
type RedisNotifier struct {
	client  *redis.Client
	channel string
	log     *logrus.Logger
}

// NewRedisNotifier creates a notifier publishing on the given channel
func NewRedisNotifier(client *redis.Client, channel string, log *logrus.Logger) *RedisNotifier {
	return &RedisNotifier{
		client:  client,
		channel: channel,
		log:     log,
	}
}

// LedgerCommitted publishes the committed entries. Errors are logged and
// dropped; the core only guarantees delivery-after-commit, not delivery.
func (n *RedisNotifier) LedgerCommitted(ctx context.Context, entries []LedgerEntry) {
	payload, err := json.Marshal(entries)
	if err != nil {
		n.log.WithError(err).Error("Failed to encode ledger notification")
		return
	}

	if err := n.client.Publish(ctx, n.channel, payload).Err(); err != nil {
		n.log.WithError(err).WithField("channel", n.channel).
			Warn("Failed to publish committed ledger entries")
	}
}
