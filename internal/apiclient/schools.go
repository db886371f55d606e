package apiclient

import (
	"context"
	"net/http"

	"github.com/yigit/schoolportal/internal/app/models"
)

// Schools answer with {statusCode, message, data}
const schoolsPath = "/admin/school"

// ListSchools returns the schools on the platform
func (a *API) ListSchools(ctx context.Context) ([]models.School, error) {
	return list[models.School](ctx, a, schoolsPath, "", nil)
}

// CreateSchool creates a school
func (a *API) CreateSchool(ctx context.Context, in models.SchoolRequest) (models.School, error) {
	return write[models.School](ctx, a, http.MethodPost, schoolsPath, "", in)
}

// UpdateSchool saves changes to the school with the given id
func (a *API) UpdateSchool(ctx context.Context, id string, in models.SchoolRequest) (models.School, error) {
	return write[models.School](ctx, a, http.MethodPut, itemPath(schoolsPath, id), "", in)
}

// DeleteSchool removes the school with the given id
func (a *API) DeleteSchool(ctx context.Context, id string) error {
	return remove(ctx, a, itemPath(schoolsPath, id))
}
