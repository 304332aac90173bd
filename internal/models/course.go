package models

import (
	"time"
)

type Course struct {
	ID          string `json:"id" gorm:"primaryKey;size:36"`
	Name        string `json:"name" gorm:"not null;size:200;index"`
	Description string `json:"description" gorm:"type:text"`
	Price       int    `json:"price" gorm:"not null;check:price >= 0"`
	Teacher     string `json:"teacher" gorm:"not null;size:100;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Enrollment relation. The course owns its links: deleting the
	// course clears the join rows in the same transaction.
	Users []User `json:"users" gorm:"many2many:course_enrollments"`

	// Computed, not stored
	EnrolledCount int `json:"enrolled_count" gorm:"-"`
}

func (Course) TableName() string {
	return "courses"
}

// EnrolledSummaries returns the public view of the enrolled users.
func (c *Course) EnrolledSummaries() []UserSummary {
	summaries := make([]UserSummary, 0, len(c.Users))
	for i := range c.Users {
		summaries = append(summaries, c.Users[i].Summary())
	}
	return summaries
}

// CourseEnrollment is the explicit join model for the course<->user
// relation. The composite primary key (course_id, user_id) is the
// authoritative guard against double enrollment: a duplicate insert
// fails at the store regardless of any pre-check.
type CourseEnrollment struct {
	CourseID  string    `json:"course_id" gorm:"primaryKey;size:36"`
	UserID    string    `json:"user_id" gorm:"primaryKey;size:36"`
	CreatedAt time.Time `json:"created_at"`
}

func (CourseEnrollment) TableName() string {
	return "course_enrollments"
}
