package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/azamat-omonkeldiyev/course/internal/repositories"
)

const exportSheet = "Courses"

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		logger: logger,
	}
}

// ExportCoursesXLSX renders the filtered catalog as an xlsx workbook.
// Pagination parameters are ignored; the export always covers every
// matching course.
func (s *exportService) ExportCoursesXLSX(ctx context.Context, query *CourseQuery) ([]byte, error) {
	query.ApplyDefaults()

	filters := repositories.CourseFilters{
		Search:    query.Search,
		Teacher:   query.Teacher,
		SortBy:    query.SortBy,
		SortOrder: query.SortOrder,
	}

	courses, total, err := s.repo.Course().List(ctx, filters)
	if err != nil {
		return nil, storeError("list courses for export", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	headers := []string{"ID", "Name", "Description", "Price", "Teacher", "Enrolled", "Created At"}
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return nil, err
		}
	}

	for row, course := range courses {
		values := []interface{}{
			course.ID,
			course.Name,
			course.Description,
			course.Price,
			course.Teacher,
			len(course.Users),
			course.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(exportSheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}

	s.logger.InfoContext(ctx, "Catalog exported", "courses", total)
	return buf.Bytes(), nil
}
