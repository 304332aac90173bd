package repositories

import (
	"context"

	"github.com/azamat-omonkeldiyev/course/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

// CourseFilters narrows and orders course listings. Search matches
// name, description or teacher case-insensitively; Teacher narrows by
// the teacher field alone and is combined with Search via AND.
type CourseFilters struct {
	Search    string `json:"search"`
	Teacher   string `json:"teacher"`
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
	SortBy    string `json:"sort_by"`    // "name", "price", "created_at", "updated_at"
	SortOrder string `json:"sort_order"` // "asc", "desc"
}

// ===== REPOSITORY INTERFACES =====

// CourseRepository persists courses and the enrollment relation.
type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id string) (*models.Course, error)
	List(ctx context.Context, filters CourseFilters) ([]*models.Course, int64, error)

	// Update applies only the given columns and returns the updated row.
	Update(ctx context.Context, id string, fields map[string]interface{}) (*models.Course, error)

	// Delete removes the course and all its enrollment links atomically,
	// returning the deleted record's snapshot.
	Delete(ctx context.Context, id string) (*models.Course, error)

	// LinkEnrollment inserts the (courseID, userID) pair. A duplicate
	// pair fails with a duplicate-key error (see IsDuplicateError).
	LinkEnrollment(ctx context.Context, courseID, userID string) error

	IsEnrolled(ctx context.Context, courseID, userID string) (bool, error)
}

// UserRepository persists user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// OutboxRepository persists domain events for the relay.
type OutboxRepository interface {
	Append(ctx context.Context, event *models.OutboxEvent) error
	ListUnpublished(ctx context.Context, limit int) ([]*models.OutboxEvent, error)
	MarkPublished(ctx context.Context, ids []uint) error
}
