package services

import (
	"context"

	"github.com/azamat-omonkeldiyev/course/internal/models"
	"github.com/azamat-omonkeldiyev/course/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use request validator types
type RegisterRequest = validator.RegisterRequest
type LoginRequest = validator.LoginRequest
type CreateCourseRequest = validator.CourseCreateRequest
type UpdateCourseRequest = validator.CourseUpdateRequest
type CourseQuery = validator.CourseQuery
type ValidationErrors = validator.ValidationErrors

type CourseResponse struct {
	*models.Course
	Enrolled []models.UserSummary `json:"enrolled"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

type CourseListResponse struct {
	Courses    []*CourseResponse `json:"courses"`
	Pagination Pagination        `json:"pagination"`
}

type EnrollmentResponse struct {
	Message string          `json:"message"`
	Course  *CourseResponse `json:"course"`
}

type DeleteCourseResponse struct {
	Message string          `json:"message"`
	Course  *CourseResponse `json:"course"`
}

type UserResponse struct {
	User models.UserSummary `json:"user"`
}

type LoginResponse struct {
	AccessToken string             `json:"access_token"`
	User        models.UserSummary `json:"user"`
}

// ===== SERVICE INTERFACES =====

// CourseService covers the catalog and enrollment operations.
type CourseService interface {
	Create(ctx context.Context, req *CreateCourseRequest) (*CourseResponse, error)
	GetByID(ctx context.Context, id string) (*CourseResponse, error)
	List(ctx context.Context, query *CourseQuery) (*CourseListResponse, error)
	Update(ctx context.Context, id string, req *UpdateCourseRequest) (*CourseResponse, error)
	Delete(ctx context.Context, id string) (*DeleteCourseResponse, error)

	// Enroll links the user to the course; enrolling twice returns
	// ErrAlreadyEnrolled and leaves the enrollment in place.
	Enroll(ctx context.Context, courseID, userID string) (*EnrollmentResponse, error)
}

// UserService covers registration and credential login.
type UserService interface {
	Register(ctx context.Context, req *RegisterRequest) (*UserResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	GetByID(ctx context.Context, id string) (*UserResponse, error)
}

// ExportService renders catalog reports.
type ExportService interface {
	ExportCoursesXLSX(ctx context.Context, query *CourseQuery) ([]byte, error)
}

// ServiceManager wires and owns the service instances.
type ServiceManager interface {
	Initialize(ctx context.Context) error

	Course() CourseService
	User() UserService
	Export() ExportService

	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
