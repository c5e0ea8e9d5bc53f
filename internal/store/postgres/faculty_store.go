package postgres

import (
	"context"
	"fmt"

	"github.com/campusdesk/swo-feedback/internal/store"
	"github.com/campusdesk/swo-feedback/types"
)

const (
	selectActiveFaculties = `SELECT id, name, department_id, is_active
		FROM faculties
		WHERE is_active = TRUE
		  AND ($1::text IS NULL OR department_id = $1::text)
		ORDER BY name, id`

	selectFacultyByID = `SELECT id, name, department_id, is_active
		FROM faculties
		WHERE id = $1`
)

// FacultyStore implements store.FacultyStore on PostgreSQL.
type FacultyStore struct {
	db DB
}

var _ store.FacultyStore = (*FacultyStore)(nil)

func NewFacultyStore(db DB) *FacultyStore {
	return &FacultyStore{db: db}
}

// ListActive returns active faculty members, optionally for one department.
func (s *FacultyStore) ListActive(ctx context.Context, departmentID *string) ([]types.Faculty, error) {
	rows, err := s.db.Query(ctx, selectActiveFaculties, departmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list faculties: %w", err)
	}
	defer rows.Close()

	out := []types.Faculty{}
	for rows.Next() {
		var f types.Faculty
		if err := rows.Scan(&f.ID, &f.Name, &f.DepartmentID, &f.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan faculty: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *FacultyStore) GetFaculty(ctx context.Context, id string) (*types.Faculty, error) {
	var f types.Faculty
	err := s.db.QueryRow(ctx, selectFacultyByID, id).Scan(&f.ID, &f.Name, &f.DepartmentID, &f.IsActive)
	if err != nil {
		return nil, fmt.Errorf("failed to get faculty %s: %w", id, mapError(err))
	}
	return &f, nil
}
