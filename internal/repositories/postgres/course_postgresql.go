package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/azamat-omonkeldiyev/course/internal/cache"
	"github.com/azamat-omonkeldiyev/course/internal/models"
	"github.com/azamat-omonkeldiyev/course/internal/repositories"
)

type CoursePostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewCoursePostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.CourseRepository {
	return &CoursePostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// Create inserts a new course and invalidates list caches.
func (r *CoursePostgreSQL) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}

	if err := r.db.WithContext(ctx).Create(course).Error; err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}

	cache.SafeInvalidatePattern(ctx, r.cacheManager.Course, "list:*")

	return nil
}

// GetByID retrieves a course with its enrolled users, cached.
func (r *CoursePostgreSQL) GetByID(ctx context.Context, id string) (*models.Course, error) {
	cacheKey := fmt.Sprintf("id:%s", id)
	var course models.Course

	err := r.cacheManager.Course.CacheOrExecute(ctx, cacheKey, &course, cache.CourseCacheConfig.TTL, func() (interface{}, error) {
		var dbCourse models.Course
		err := r.db.WithContext(ctx).
			Preload("Users").
			First(&dbCourse, "id = ?", id).Error
		if err != nil {
			return nil, err
		}
		dbCourse.EnrolledCount = len(dbCourse.Users)
		return &dbCourse, nil
	})
	if err != nil {
		return nil, err
	}

	course.EnrolledCount = len(course.Users)
	return &course, nil
}

// List retrieves courses with filters, ordering and pagination, plus
// the total row count for the unpaged filter set.
func (r *CoursePostgreSQL) List(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Course{})
	query = r.helpers.ApplyCourseFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count courses: %w", err)
	}

	query = r.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	var courses []*models.Course
	if err := query.Preload("Users").Find(&courses).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list courses: %w", err)
	}

	for _, course := range courses {
		course.EnrolledCount = len(course.Users)
	}

	return courses, total, nil
}

// Update applies only the provided columns and returns the fresh row.
func (r *CoursePostgreSQL) Update(ctx context.Context, id string, fields map[string]interface{}) (*models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).First(&course, "id = ?", id).Error; err != nil {
		return nil, err
	}

	if len(fields) > 0 {
		if err := r.db.WithContext(ctx).
			Model(&models.Course{}).
			Where("id = ?", id).
			Updates(fields).Error; err != nil {
			return nil, fmt.Errorf("failed to update course: %w", err)
		}
	}

	r.invalidateCourse(ctx, id)

	return r.GetByID(ctx, id)
}

// Delete removes the course and its enrollment links in one
// transaction and returns the deleted record's snapshot.
func (r *CoursePostgreSQL) Delete(ctx context.Context, id string) (*models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).
		Preload("Users").
		First(&course, "id = ?", id).Error; err != nil {
		return nil, err
	}
	course.EnrolledCount = len(course.Users)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", id).Delete(&models.CourseEnrollment{}).Error; err != nil {
			return fmt.Errorf("failed to clear enrollment links: %w", err)
		}
		if err := tx.Delete(&models.Course{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete course: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.invalidateCourse(ctx, id)

	return &course, nil
}

// LinkEnrollment inserts the (courseID, userID) pair. The composite
// primary key on course_enrollments makes a duplicate insert fail with
// gorm.ErrDuplicatedKey; callers map that, not a pre-check, to the
// already-enrolled kind.
func (r *CoursePostgreSQL) LinkEnrollment(ctx context.Context, courseID, userID string) error {
	link := models.CourseEnrollment{
		CourseID: courseID,
		UserID:   userID,
	}

	if err := r.db.WithContext(ctx).Create(&link).Error; err != nil {
		return err
	}

	r.invalidateCourse(ctx, courseID)

	return nil
}

// IsEnrolled reports whether the pair already exists.
func (r *CoursePostgreSQL) IsEnrolled(ctx context.Context, courseID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CourseEnrollment{}).
		Where("course_id = ? AND user_id = ?", courseID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *CoursePostgreSQL) invalidateCourse(ctx context.Context, id string) {
	cache.SafeDelete(ctx, r.cacheManager.Course, fmt.Sprintf("id:%s", id))
	cache.SafeInvalidatePattern(ctx, r.cacheManager.Course, "list:*")
}
