package apiclient

import (
	"context"
	"net/http"

	"github.com/yigit/schoolportal/internal/app/models"
)

const subjectsPath = "/school-admin/subjects"

// ListSubjects returns the subjects of the school
func (a *API) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	return list[models.Subject](ctx, a, subjectsPath, "subjects", nil)
}

// CreateSubject creates a subject
func (a *API) CreateSubject(ctx context.Context, in models.SubjectRequest) (models.Subject, error) {
	return write[models.Subject](ctx, a, http.MethodPost, subjectsPath, "subject", in)
}

// UpdateSubject saves changes to the subject with the given id
func (a *API) UpdateSubject(ctx context.Context, id string, in models.SubjectRequest) (models.Subject, error) {
	return write[models.Subject](ctx, a, http.MethodPut, itemPath(subjectsPath, id), "subject", in)
}

// DeleteSubject removes the subject with the given id
func (a *API) DeleteSubject(ctx context.Context, id string) error {
	return remove(ctx, a, itemPath(subjectsPath, id))
}

// TeacherSubjects lists the subjects the signed in teacher teaches
func (a *API) TeacherSubjects(ctx context.Context) ([]models.Subject, error) {
	return list[models.Subject](ctx, a, "/teacher/subjects", "subjects", nil)
}

// StudentSubjects lists the subjects of the signed in student
func (a *API) StudentSubjects(ctx context.Context) ([]models.Subject, error) {
	return list[models.Subject](ctx, a, "/student/subjects", "subjects", nil)
}
