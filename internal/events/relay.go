package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/azamat-omonkeldiyev/course/internal/models"
	"github.com/azamat-omonkeldiyev/course/internal/repositories"
)

const relayBatchSize = 100

// OutboxRelay drains the transactional outbox and forwards events to
// the broker. Rows are marked published only after a successful
// publish, so delivery is at-least-once.
type OutboxRelay struct {
	outbox    repositories.OutboxRepository
	publisher EventPublisher
	interval  time.Duration
	logger    *slog.Logger
}

// NewOutboxRelay creates a relay polling at the given interval.
func NewOutboxRelay(outbox repositories.OutboxRepository, publisher EventPublisher, interval time.Duration, logger *slog.Logger) *OutboxRelay {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &OutboxRelay{
		outbox:    outbox,
		publisher: publisher,
		interval:  interval,
		logger:    logger,
	}
}

// Run polls until ctx is cancelled.
func (r *OutboxRelay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("Outbox relay started", "interval", r.interval.String())

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Outbox relay stopped")
			return
		case <-ticker.C:
			if err := r.Drain(ctx); err != nil {
				r.logger.Error("Outbox drain failed", "error", err)
			}
		}
	}
}

// Drain publishes one batch of unpublished rows.
func (r *OutboxRelay) Drain(ctx context.Context) error {
	rows, err := r.outbox.ListUnpublished(ctx, relayBatchSize)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	published := make([]uint, 0, len(rows))
	for _, row := range rows {
		event, err := eventFromOutbox(row)
		if err != nil {
			r.logger.Error("Skipping malformed outbox row",
				"outbox_id", row.ID,
				"error", err)
			// Mark it published anyway so a poison row cannot wedge
			// the relay.
			published = append(published, row.ID)
			continue
		}

		if err := r.publisher.PublishEvent(ctx, event); err != nil {
			// Stop the batch here; rows stay unpublished and the next
			// tick retries in order.
			r.logger.Warn("Event publish failed, will retry",
				"outbox_id", row.ID,
				"event_type", row.Type,
				"error", err)
			break
		}

		published = append(published, row.ID)
	}

	if len(published) == 0 {
		return nil
	}

	return r.outbox.MarkPublished(ctx, published)
}

func eventFromOutbox(row *models.OutboxEvent) (Event, error) {
	var data map[string]interface{}
	if len(row.Payload) > 0 {
		if err := json.Unmarshal(row.Payload, &data); err != nil {
			return Event{}, err
		}
	}

	return Event{
		ID:        row.EventID,
		Type:      row.Type,
		Source:    "course-service",
		Version:   "1.0",
		Timestamp: row.CreatedAt.UTC(),
		Data:      data,
	}, nil
}
