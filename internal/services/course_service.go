package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"

	"gorm.io/datatypes"

	"github.com/azamat-omonkeldiyev/course/internal/models"
	"github.com/azamat-omonkeldiyev/course/internal/repositories"
	"github.com/azamat-omonkeldiyev/course/internal/validator"
)

type courseService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.RequestValidator
}

func NewCourseService(repo repositories.Repository, logger *slog.Logger, v *validator.RequestValidator) CourseService {
	return &courseService{
		repo:      repo,
		logger:    logger,
		validator: v,
	}
}

// ===== CORE CRUD OPERATIONS =====

func (s *courseService) Create(ctx context.Context, req *CreateCourseRequest) (*CourseResponse, error) {
	s.logger.InfoContext(ctx, "Creating course", "name", req.Name, "teacher", req.Teacher)

	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	course := &models.Course{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Teacher:     req.Teacher,
	}

	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Course().Create(ctx, course); err != nil {
			return storeError("create course", err)
		}
		return s.appendEvent(ctx, tx, models.EventCourseCreated, map[string]interface{}{
			"course_id": course.ID,
			"name":      course.Name,
			"teacher":   course.Teacher,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Course created", "course_id", course.ID)
	return toCourseResponse(course), nil
}

func (s *courseService) GetByID(ctx context.Context, id string) (*CourseResponse, error) {
	course, err := s.repo.Course().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, storeError("get course", err)
	}

	return toCourseResponse(course), nil
}

func (s *courseService) List(ctx context.Context, query *CourseQuery) (*CourseListResponse, error) {
	query.ApplyDefaults()
	if errs := s.validator.Validate(query); len(errs) > 0 {
		return nil, errs
	}

	filters := repositories.CourseFilters{
		Search:    query.Search,
		Teacher:   query.Teacher,
		Limit:     query.Limit,
		Offset:    (query.Page - 1) * query.Limit,
		SortBy:    query.SortBy,
		SortOrder: query.SortOrder,
	}

	courses, total, err := s.repo.Course().List(ctx, filters)
	if err != nil {
		return nil, storeError("list courses", err)
	}

	responses := make([]*CourseResponse, 0, len(courses))
	for _, course := range courses {
		responses = append(responses, toCourseResponse(course))
	}

	totalPages := 0
	if total > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(query.Limit)))
	}

	return &CourseListResponse{
		Courses: responses,
		Pagination: Pagination{
			Page:       query.Page,
			Limit:      query.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    query.Page < totalPages,
			HasPrev:    query.Page > 1,
		},
	}, nil
}

func (s *courseService) Update(ctx context.Context, id string, req *UpdateCourseRequest) (*CourseResponse, error) {
	s.logger.InfoContext(ctx, "Updating course", "course_id", id)

	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Price != nil {
		fields["price"] = *req.Price
	}
	if req.Teacher != nil {
		fields["teacher"] = *req.Teacher
	}

	if len(fields) == 0 {
		// Nothing to change; behave as a read so callers still get the
		// not-found signal for unknown ids.
		return s.GetByID(ctx, id)
	}

	course, err := s.repo.Course().Update(ctx, id, fields)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, storeError("update course", err)
	}

	return toCourseResponse(course), nil
}

func (s *courseService) Delete(ctx context.Context, id string) (*DeleteCourseResponse, error) {
	s.logger.InfoContext(ctx, "Deleting course", "course_id", id)

	var snapshot *models.Course
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		deleted, err := tx.Course().Delete(ctx, id)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrCourseNotFound
			}
			return storeError("delete course", err)
		}
		snapshot = deleted

		return s.appendEvent(ctx, tx, models.EventCourseDeleted, map[string]interface{}{
			"course_id": snapshot.ID,
			"name":      snapshot.Name,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Course deleted", "course_id", id)
	return &DeleteCourseResponse{
		Message: "course deleted",
		Course:  toCourseResponse(snapshot),
	}, nil
}

// ===== ENROLLMENT =====

func (s *courseService) Enroll(ctx context.Context, courseID, userID string) (*EnrollmentResponse, error) {
	s.logger.InfoContext(ctx, "Enrolling user", "course_id", courseID, "user_id", userID)

	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if _, err := tx.Course().GetByID(ctx, courseID); err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrCourseNotFound
			}
			return storeError("get course", err)
		}

		exists, err := tx.User().ExistsByID(ctx, userID)
		if err != nil {
			return storeError("check user", err)
		}
		if !exists {
			return ErrUserNotFound
		}

		// Advisory pre-check for the common case; the unique link
		// constraint below is the authoritative guard under races.
		enrolled, err := tx.Course().IsEnrolled(ctx, courseID, userID)
		if err != nil {
			return storeError("check enrollment", err)
		}
		if enrolled {
			return ErrAlreadyEnrolled
		}

		if err := tx.Course().LinkEnrollment(ctx, courseID, userID); err != nil {
			if repositories.IsDuplicateError(err) {
				return ErrAlreadyEnrolled
			}
			return storeError("link enrollment", err)
		}

		return s.appendEvent(ctx, tx, models.EventCourseEnrolled, map[string]interface{}{
			"course_id": courseID,
			"user_id":   userID,
		})
	})
	if err != nil {
		return nil, err
	}

	course, err := s.repo.Course().GetByID(ctx, courseID)
	if err != nil {
		return nil, storeError("reload course", err)
	}

	s.logger.InfoContext(ctx, "User enrolled", "course_id", courseID, "user_id", userID)
	return &EnrollmentResponse{
		Message: "enrolled",
		Course:  toCourseResponse(course),
	}, nil
}

// ===== HELPERS =====

func (s *courseService) appendEvent(ctx context.Context, tx repositories.Repository, eventType string, data map[string]interface{}) error {
	payload, err := jsonPayload(data)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", eventType, err)
	}

	if err := tx.Outbox().Append(ctx, &models.OutboxEvent{
		Type:    eventType,
		Payload: payload,
	}); err != nil {
		return storeError("append outbox event", err)
	}
	return nil
}

func jsonPayload(data map[string]interface{}) (datatypes.JSON, error) {
	value, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(value), nil
}

func toCourseResponse(course *models.Course) *CourseResponse {
	return &CourseResponse{
		Course:   course,
		Enrolled: course.EnrolledSummaries(),
	}
}
