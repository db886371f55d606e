package apiclient

import (
	"context"
	"net/http"

	"github.com/yigit/schoolportal/internal/app/models"
)

const syllabiPath = "/teacher/syllabi"

// ListSyllabi returns the syllabi written by the teacher
func (a *API) ListSyllabi(ctx context.Context) ([]models.Syllabus, error) {
	return list[models.Syllabus](ctx, a, syllabiPath, "syllabi", nil)
}

// CreateSyllabus creates a syllabus
func (a *API) CreateSyllabus(ctx context.Context, in models.SyllabusRequest) (models.Syllabus, error) {
	return write[models.Syllabus](ctx, a, http.MethodPost, syllabiPath, "syllabus", in)
}

// UpdateSyllabus saves changes to the syllabus with the given id
func (a *API) UpdateSyllabus(ctx context.Context, id string, in models.SyllabusRequest) (models.Syllabus, error) {
	return write[models.Syllabus](ctx, a, http.MethodPut, itemPath(syllabiPath, id), "syllabus", in)
}

// DeleteSyllabus removes the syllabus with the given id
func (a *API) DeleteSyllabus(ctx context.Context, id string) error {
	return remove(ctx, a, itemPath(syllabiPath, id))
}

// StudentSyllabi lists the syllabi of the signed in student's subjects
func (a *API) StudentSyllabi(ctx context.Context) ([]models.Syllabus, error) {
	return list[models.Syllabus](ctx, a, "/student/syllabi", "syllabi", nil)
}
