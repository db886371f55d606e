package apiclient

import (
	"context"
	"net/http"

	"github.com/yigit/schoolportal/internal/app/models"
)

const academicLevelsPath = "/school-admin/academic-levels"

// ListAcademicLevels returns the academic levels of the school
func (a *API) ListAcademicLevels(ctx context.Context) ([]models.AcademicLevel, error) {
	return list[models.AcademicLevel](ctx, a, academicLevelsPath, "academicLevels", nil)
}

// CreateAcademicLevel creates an academic level
func (a *API) CreateAcademicLevel(ctx context.Context, in models.AcademicLevelRequest) (models.AcademicLevel, error) {
	return write[models.AcademicLevel](ctx, a, http.MethodPost, academicLevelsPath, "academicLevel", in)
}

// UpdateAcademicLevel saves changes to the academic level with the given id
func (a *API) UpdateAcademicLevel(ctx context.Context, id string, in models.AcademicLevelRequest) (models.AcademicLevel, error) {
	return write[models.AcademicLevel](ctx, a, http.MethodPut, itemPath(academicLevelsPath, id), "academicLevel", in)
}

// DeleteAcademicLevel removes the academic level with the given id
func (a *API) DeleteAcademicLevel(ctx context.Context, id string) error {
	return remove(ctx, a, itemPath(academicLevelsPath, id))
}
