package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/azamat-omonkeldiyev/course/internal/auth"
	"github.com/azamat-omonkeldiyev/course/internal/models"
	"github.com/azamat-omonkeldiyev/course/internal/services"
	"github.com/azamat-omonkeldiyev/course/internal/utils"
)

// stubCourseService returns canned results per method.
type stubCourseService struct {
	course    *services.CourseResponse
	list      *services.CourseListResponse
	enrollRes *services.EnrollmentResponse
	err       error
}

func (s *stubCourseService) Create(ctx context.Context, req *services.CreateCourseRequest) (*services.CourseResponse, error) {
	return s.course, s.err
}

func (s *stubCourseService) GetByID(ctx context.Context, id string) (*services.CourseResponse, error) {
	return s.course, s.err
}

func (s *stubCourseService) List(ctx context.Context, query *services.CourseQuery) (*services.CourseListResponse, error) {
	return s.list, s.err
}

func (s *stubCourseService) Update(ctx context.Context, id string, req *services.UpdateCourseRequest) (*services.CourseResponse, error) {
	return s.course, s.err
}

func (s *stubCourseService) Delete(ctx context.Context, id string) (*services.DeleteCourseResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &services.DeleteCourseResponse{Message: "course deleted", Course: s.course}, nil
}

func (s *stubCourseService) Enroll(ctx context.Context, courseID, userID string) (*services.EnrollmentResponse, error) {
	return s.enrollRes, s.err
}

func courseTestRouter(t *testing.T, svc services.CourseService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := utils.WrapSlog(slog.New(slog.DiscardHandler))
	handler := NewCourseHandler(svc, nil, logger)
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	am := NewJWTAuthMiddleware(tokens)

	router := gin.New()
	router.GET("/courses", handler.ListCourses)
	router.GET("/courses/:id", handler.GetCourse)
	router.POST("/courses", handler.CreateCourse)
	router.POST("/courses/:id/enroll", am.AuthMiddleware(), handler.EnrollCourse)
	return router
}

func TestGetCourseNotFound(t *testing.T) {
	router := courseTestRouter(t, &stubCourseService{err: services.ErrCourseNotFound})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/courses/missing", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestEnrollConflict(t *testing.T) {
	router := courseTestRouter(t, &stubCourseService{err: services.ErrAlreadyEnrolled})
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	token, err := tokens.Generate(&models.User{ID: "user-1", Role: models.RoleStudent})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/courses/c1/enroll", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
}

func TestEnrollRequiresAuth(t *testing.T) {
	router := courseTestRouter(t, &stubCourseService{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/courses/c1/enroll", nil))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestCreateCourseBadPayload(t *testing.T) {
	router := courseTestRouter(t, &stubCourseService{})

	req := httptest.NewRequest(http.MethodPost, "/courses", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestListCoursesStoreDown(t *testing.T) {
	router := courseTestRouter(t, &stubCourseService{err: services.ErrStoreUnavailable})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/courses", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}
