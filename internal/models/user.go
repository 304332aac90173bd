package models

import (
	"time"
)

type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleStudent UserRole = "STUDENT"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r UserRole) bool {
	return r == RoleAdmin || r == RoleStudent
}

type User struct {
	ID       string   `json:"id" gorm:"primaryKey;size:36"`
	Name     string   `json:"name" gorm:"not null;size:100"`
	Email    string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Password string   `json:"-" gorm:"not null;size:255"` // bcrypt hash, never the plaintext
	Role     UserRole `json:"role" gorm:"not null;size:20;default:STUDENT"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Courses []Course `json:"-" gorm:"many2many:course_enrollments"`
}

func (User) TableName() string {
	return "users"
}

// UserSummary is the public projection of a user embedded in course
// responses: id, name, email and role, no credentials.
type UserSummary struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Role  UserRole `json:"role"`
}

// Summary strips the credential fields from a user.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}
