package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/azamat-omonkeldiyev/course/internal/models"
	"github.com/azamat-omonkeldiyev/course/internal/repositories"
)

// fakeRepository is an in-memory repositories.Repository used by the
// service tests. It mirrors the store's observable behavior: not-found
// and duplicate failures surface as the gorm sentinels the real
// repositories translate to.
type fakeRepository struct {
	mu          sync.Mutex
	courses     map[string]*models.Course
	users       map[string]*models.User
	enrollments map[string]bool // courseID + "|" + userID
	outbox      []*models.OutboxEvent
	nextID      int

	failWith error

	// blindEnrollCheck makes IsEnrolled report false regardless of
	// state, simulating a concurrent insert winning between the
	// pre-check and the link.
	blindEnrollCheck bool
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		courses:     make(map[string]*models.Course),
		users:       make(map[string]*models.User),
		enrollments: make(map[string]bool),
	}
}

func (f *fakeRepository) Course() repositories.CourseRepository { return (*fakeCourseRepo)(f) }
func (f *fakeRepository) User() repositories.UserRepository     { return (*fakeUserRepo)(f) }
func (f *fakeRepository) Outbox() repositories.OutboxRepository { return (*fakeOutboxRepo)(f) }

func (f *fakeRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(f)
}

func (f *fakeRepository) Ping(ctx context.Context) error { return f.failWith }
func (f *fakeRepository) Close() error                   { return nil }

func (f *fakeRepository) enrollKey(courseID, userID string) string {
	return courseID + "|" + userID
}

func (f *fakeRepository) courseWithUsers(course *models.Course) *models.Course {
	copied := *course
	copied.Users = nil
	for key := range f.enrollments {
		parts := strings.SplitN(key, "|", 2)
		if parts[0] != course.ID {
			continue
		}
		if user, ok := f.users[parts[1]]; ok {
			copied.Users = append(copied.Users, *user)
		}
	}
	sort.Slice(copied.Users, func(i, j int) bool { return copied.Users[i].ID < copied.Users[j].ID })
	copied.EnrolledCount = len(copied.Users)
	return &copied
}

// ===== course repository =====

type fakeCourseRepo fakeRepository

func (f *fakeCourseRepo) Create(ctx context.Context, course *models.Course) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}

	if course.ID == "" {
		f.nextID++
		course.ID = fmt.Sprintf("course-%d", f.nextID)
	}
	if course.CreatedAt.IsZero() {
		course.CreatedAt = time.Now()
	}
	course.UpdatedAt = course.CreatedAt

	copied := *course
	f.courses[course.ID] = &copied
	return nil
}

func (f *fakeCourseRepo) GetByID(ctx context.Context, id string) (*models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}

	course, ok := f.courses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return (*fakeRepository)(f).courseWithUsers(course), nil
}

func (f *fakeCourseRepo) List(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, 0, f.failWith
	}

	var matched []*models.Course
	for _, course := range f.courses {
		if filters.Search != "" {
			needle := strings.ToLower(filters.Search)
			if !strings.Contains(strings.ToLower(course.Name), needle) &&
				!strings.Contains(strings.ToLower(course.Description), needle) &&
				!strings.Contains(strings.ToLower(course.Teacher), needle) {
				continue
			}
		}
		if filters.Teacher != "" &&
			!strings.Contains(strings.ToLower(course.Teacher), strings.ToLower(filters.Teacher)) {
			continue
		}
		matched = append(matched, course)
	}

	desc := filters.SortOrder == "desc"
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		var less, equal bool
		switch filters.SortBy {
		case "name":
			less, equal = a.Name < b.Name, a.Name == b.Name
		case "price":
			less, equal = a.Price < b.Price, a.Price == b.Price
		case "updatedAt":
			less, equal = a.UpdatedAt.Before(b.UpdatedAt), a.UpdatedAt.Equal(b.UpdatedAt)
		default:
			less, equal = a.CreatedAt.Before(b.CreatedAt), a.CreatedAt.Equal(b.CreatedAt)
		}
		if equal {
			return a.ID < b.ID
		}
		if desc {
			return !less
		}
		return less
	})

	total := int64(len(matched))

	if filters.Offset > 0 {
		if filters.Offset >= len(matched) {
			matched = nil
		} else {
			matched = matched[filters.Offset:]
		}
	}
	if filters.Limit > 0 && len(matched) > filters.Limit {
		matched = matched[:filters.Limit]
	}

	out := make([]*models.Course, 0, len(matched))
	for _, course := range matched {
		out = append(out, (*fakeRepository)(f).courseWithUsers(course))
	}
	return out, total, nil
}

func (f *fakeCourseRepo) Update(ctx context.Context, id string, fields map[string]interface{}) (*models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}

	course, ok := f.courses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}

	for key, value := range fields {
		switch key {
		case "name":
			course.Name = value.(string)
		case "description":
			course.Description = value.(string)
		case "price":
			course.Price = value.(int)
		case "teacher":
			course.Teacher = value.(string)
		}
	}
	course.UpdatedAt = time.Now()

	return (*fakeRepository)(f).courseWithUsers(course), nil
}

func (f *fakeCourseRepo) Delete(ctx context.Context, id string) (*models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}

	course, ok := f.courses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}

	snapshot := (*fakeRepository)(f).courseWithUsers(course)
	delete(f.courses, id)
	for key := range f.enrollments {
		if strings.HasPrefix(key, id+"|") {
			delete(f.enrollments, key)
		}
	}
	return snapshot, nil
}

func (f *fakeCourseRepo) LinkEnrollment(ctx context.Context, courseID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}

	key := (*fakeRepository)(f).enrollKey(courseID, userID)
	if f.enrollments[key] {
		return gorm.ErrDuplicatedKey
	}
	f.enrollments[key] = true
	return nil
}

func (f *fakeCourseRepo) IsEnrolled(ctx context.Context, courseID, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return false, f.failWith
	}
	if f.blindEnrollCheck {
		return false, nil
	}
	return f.enrollments[(*fakeRepository)(f).enrollKey(courseID, userID)], nil
}

// ===== user repository =====

type fakeUserRepo fakeRepository

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}

	for _, existing := range f.users {
		if existing.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}

	if user.ID == "" {
		f.nextID++
		user.ID = fmt.Sprintf("user-%d", f.nextID)
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}

	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}

	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) ExistsByID(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return false, f.failWith
	}
	_, ok := f.users[id]
	return ok, nil
}

func (f *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return false, f.failWith
	}
	for _, user := range f.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// ===== outbox repository =====

type fakeOutboxRepo fakeRepository

func (f *fakeOutboxRepo) Append(ctx context.Context, event *models.OutboxEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}

	event.ID = uint(len(f.outbox) + 1)
	event.CreatedAt = time.Now()
	f.outbox = append(f.outbox, event)
	return nil
}

func (f *fakeOutboxRepo) ListUnpublished(ctx context.Context, limit int) ([]*models.OutboxEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*models.OutboxEvent
	for _, event := range f.outbox {
		if event.PublishedAt == nil {
			out = append(out, event)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeOutboxRepo) MarkPublished(ctx context.Context, ids []uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now()
	for _, event := range f.outbox {
		for _, id := range ids {
			if event.ID == id {
				event.PublishedAt = &now
			}
		}
	}
	return nil
}

// ===== shared helpers =====

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (f *fakeRepository) outboxTypes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	types := make([]string, 0, len(f.outbox))
	for _, event := range f.outbox {
		types = append(types, event.Type)
	}
	return types
}
