package postgres

import (
	"gorm.io/gorm"

	"github.com/azamat-omonkeldiyev/course/internal/repositories"
)

// SharedHelpers contains common database query helpers.
type SharedHelpers struct {
	db *gorm.DB
}

func NewSharedHelpers(db *gorm.DB) *SharedHelpers {
	return &SharedHelpers{db: db}
}

// courseSortColumns whitelists API sort keys against their columns.
var courseSortColumns = map[string]string{
	"name":      "name",
	"price":     "price",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

// ApplyCourseFilters applies search and teacher narrowing. Search is a
// case-insensitive substring match across name, description and
// teacher; an explicit teacher filter is ANDed on top.
func (h *SharedHelpers) ApplyCourseFilters(query *gorm.DB, filters repositories.CourseFilters) *gorm.DB {
	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		query = query.Where(
			"name ILIKE ? OR description ILIKE ? OR teacher ILIKE ?",
			pattern, pattern, pattern,
		)
	}
	if filters.Teacher != "" {
		query = query.Where("teacher ILIKE ?", "%"+filters.Teacher+"%")
	}
	return query
}

// ApplyPaginationAndSort applies ordering and paging with the sort
// column whitelisted against SQL injection. Ties on the sort key are
// broken by id so pagination stays stable across equal values.
func (h *SharedHelpers) ApplyPaginationAndSort(query *gorm.DB, sortBy, sortOrder string, limit, offset int) *gorm.DB {
	column, ok := courseSortColumns[sortBy]
	if !ok {
		column = "created_at"
	}

	order := "DESC"
	if sortOrder == "asc" || sortOrder == "ASC" {
		order = "ASC"
	}

	query = query.Order(column + " " + order).Order("id ASC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	return query
}
