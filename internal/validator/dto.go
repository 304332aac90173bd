package validator

// RegisterRequest carries the payload for user registration.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=4,max=16"`
	Role     string `json:"role" validate:"omitempty,oneof=ADMIN STUDENT"`
}

// LoginRequest carries the payload for credential login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CourseCreateRequest carries the payload for course creation.
type CourseCreateRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"required"`
	Price       *int   `json:"price" validate:"required,gte=0"`
	Teacher     string `json:"teacher" validate:"required,max=100"`
}

// CourseUpdateRequest carries a partial update; only non-nil fields
// are applied.
type CourseUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty"`
	Price       *int    `json:"price" validate:"omitempty,gte=0"`
	Teacher     *string `json:"teacher" validate:"omitempty,max=100"`
}

// IsEmpty reports whether the update carries no fields at all.
func (r *CourseUpdateRequest) IsEmpty() bool {
	return r.Name == nil && r.Description == nil && r.Price == nil && r.Teacher == nil
}

// CourseQuery carries the list query parameters.
type CourseQuery struct {
	Page      int    `form:"page" validate:"omitempty,gte=1"`
	Limit     int    `form:"limit" validate:"omitempty,gte=1,lte=100"`
	Search    string `form:"search"`
	Teacher   string `form:"teacher"`
	SortBy    string `form:"sortBy" validate:"omitempty,oneof=name price createdAt updatedAt"`
	SortOrder string `form:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

// ApplyDefaults fills the unset query parameters.
func (q *CourseQuery) ApplyDefaults() {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Limit == 0 {
		q.Limit = 10
	}
	if q.SortBy == "" {
		q.SortBy = "createdAt"
	}
	if q.SortOrder == "" {
		q.SortOrder = "desc"
	}
}
