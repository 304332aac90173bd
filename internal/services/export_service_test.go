package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestExportCoursesXLSX(t *testing.T) {
	repo := newFakeRepository()
	seedCourses(t, repo, 3)
	svc := NewExportService(repo, discardLogger())

	data, err := svc.ExportCoursesXLSX(context.Background(), &CourseQuery{SortBy: "name", SortOrder: "asc"})
	if err != nil {
		t.Fatalf("ExportCoursesXLSX() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Courses")
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}

	// Header plus every course, not just the first page.
	if len(rows) != 4 {
		t.Fatalf("workbook has %d rows, want 4", len(rows))
	}
	if rows[0][1] != "Name" {
		t.Errorf("header[1] = %q, want Name", rows[0][1])
	}
	if rows[1][1] != "Course 00" {
		t.Errorf("first data row name = %q, want Course 00", rows[1][1])
	}
	if rows[1][3] != "10" {
		t.Errorf("first data row price = %q, want 10", rows[1][3])
	}
}

func TestExportAppliesFilters(t *testing.T) {
	repo := newFakeRepository()
	seedCourses(t, repo, 6)
	svc := NewExportService(repo, discardLogger())

	data, err := svc.ExportCoursesXLSX(context.Background(), &CourseQuery{Teacher: "Teacher B"})
	if err != nil {
		t.Fatalf("ExportCoursesXLSX() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Courses")
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 4 { // header + 3 matching courses
		t.Errorf("workbook has %d rows, want 4", len(rows))
	}
}
