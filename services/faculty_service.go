package services

import (
	"context"

	apperrors "github.com/campusdesk/swo-feedback/errors"
	"github.com/campusdesk/swo-feedback/internal/store"
	"github.com/campusdesk/swo-feedback/types"
)

// FacultyService serves the faculty dropdown used by faculty feedback forms.
type FacultyService struct {
	faculties store.FacultyStore
}

func NewFacultyService(faculties store.FacultyStore) *FacultyService {
	return &FacultyService{faculties: faculties}
}

func (s *FacultyService) ListActive(ctx context.Context, departmentID *string) ([]types.Faculty, error) {
	if departmentID != nil && trimmed(*departmentID) == "" {
		departmentID = nil
	}
	items, err := s.faculties.ListActive(ctx, departmentID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	if items == nil {
		items = []types.Faculty{}
	}
	return items, nil
}
