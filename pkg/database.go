package pkg

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/azamat-omonkeldiyev/course/internal/config"
	"github.com/azamat-omonkeldiyev/course/internal/models"
)

// InitDatabase opens the PostgreSQL connection and migrates the schema.
// TranslateError is on so duplicate-key violations surface as
// gorm.ErrDuplicatedKey; the enrollment coordinator depends on it.
func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	gormLogger := logger.Default.LogMode(logger.Warn)
	if cfg.Environment == "development" {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Explicit join model so the (course_id, user_id) composite key is
	// the unique constraint backing the enroll invariant.
	if err := db.SetupJoinTable(&models.Course{}, "Users", &models.CourseEnrollment{}); err != nil {
		return nil, fmt.Errorf("failed to set up enrollment join table: %w", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.CourseEnrollment{},
		&models.OutboxEvent{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return db, nil
}
