package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/azamat-omonkeldiyev/course/internal/models"
	"github.com/azamat-omonkeldiyev/course/internal/repositories"
)

type OutboxPostgreSQL struct {
	db *gorm.DB
}

func NewOutboxPostgreSQL(db *gorm.DB) repositories.OutboxRepository {
	return &OutboxPostgreSQL{db: db}
}

// Append inserts an outbox row. Callers run this inside the same
// transaction as the mutation the event describes.
func (r *OutboxPostgreSQL) Append(ctx context.Context, event *models.OutboxEvent) error {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}

	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to append outbox event: %w", err)
	}

	return nil
}

// ListUnpublished returns the oldest rows the relay has not shipped yet.
func (r *OutboxPostgreSQL) ListUnpublished(ctx context.Context, limit int) ([]*models.OutboxEvent, error) {
	var events []*models.OutboxEvent
	err := r.db.WithContext(ctx).
		Where("published_at IS NULL").
		Order("id ASC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list unpublished events: %w", err)
	}
	return events, nil
}

// MarkPublished stamps the rows the relay has handed to the broker.
func (r *OutboxPostgreSQL) MarkPublished(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}

	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&models.OutboxEvent{}).
		Where("id IN ?", ids).
		Update("published_at", now).Error
}
