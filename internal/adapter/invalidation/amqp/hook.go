// Package amqp implements the invalidation hook (spec.md §4.D) as a
// best-effort publish to a durable RabbitMQ queue, following the
// publish-and-log-don't-block pattern from
// iliyamo-cinema-seat-reservation's queue_publisher package.
package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sethvargo/go-retry"

	"github.com/google/uuid"
	"github.com/srgjo27/scalable_ticket/internal/core/ports"
)

const queueName = "availability.invalidation"

type message struct {
	EventID string            `json:"event_id"`
	Scope   string            `json:"scope"`
	Cache   map[string]string `json:"cache,omitempty"`
}

// Hook publishes one message per invalidation call. It never blocks the
// coordinator on ordering and never propagates a publish failure back
// to the caller — per spec.md §4.D, the coordinator must not retry
// failed invalidations; any retry here is internal to this adapter and
// bounded.
//
// cacheParams is opaque to this package too: it is whatever the caller
// loaded from CACHE_* environment variables (spec.md §6), carried
// along in every published message so the consumer on the other side
// of the queue — which owns the actual availability cache — can use
// them without this adapter needing to understand their meaning.
type Hook struct {
	url         string
	cacheParams map[string]string
}

func New(url string, cacheParams map[string]string) *Hook {
	return &Hook{url: url, cacheParams: cacheParams}
}

func (h *Hook) Invalidate(ctx context.Context, eventID uuid.UUID, scope ports.InvalidationScope) {
	body, err := json.Marshal(message{EventID: eventID.String(), Scope: string(scope), Cache: h.cacheParams})
	if err != nil {
		log.Printf("invalidation: marshal failed for event %s: %v", eventID, err)
		return
	}

	backoff := retry.WithMaxRetries(2, retry.NewConstant(200*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := h.publish(ctx, body); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		log.Printf("invalidation: publish failed for event %s scope %s: %v", eventID, scope, err)
	}
}

func (h *Hook) publish(ctx context.Context, body []byte) error {
	conn, err := amqp.Dial(h.url)
	if err != nil {
		return fmt.Errorf("dial broker: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	return ch.PublishWithContext(ctx, "", queueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}
