package models

import (
	"time"

	"gorm.io/datatypes"
)

// Domain event types recorded in the outbox.
const (
	EventCourseCreated  = "course.created"
	EventCourseDeleted  = "course.deleted"
	EventCourseEnrolled = "course.enrolled"
)

// OutboxEvent is a transactional outbox row. Rows are appended in the
// same transaction as the mutation they describe and published to the
// broker by the relay afterwards, so an enrollment never exists
// without its event row.
type OutboxEvent struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	EventID   string         `json:"event_id" gorm:"uniqueIndex;not null;size:36"`
	Type      string         `json:"type" gorm:"not null;size:50;index"`
	Payload   datatypes.JSON `json:"payload" gorm:"not null"`
	CreatedAt time.Time      `json:"created_at"`

	// Nil until the relay has handed the row to the broker.
	PublishedAt *time.Time `json:"published_at" gorm:"index"`
}

func (OutboxEvent) TableName() string {
	return "outbox_events"
}
