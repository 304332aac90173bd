package repositories

import "context"

// Repository aggregates all repository interfaces behind one handle.
type Repository interface {
	Course() CourseRepository
	User() UserRepository
	Outbox() OutboxRepository

	// WithTransaction runs fn with a Repository bound to a single
	// database transaction; fn returning an error rolls it back.
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager manages repository lifecycle.
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
