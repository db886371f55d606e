package apiclient

import (
	"context"
	"net/http"

	"github.com/yigit/schoolportal/internal/app/models"
)

const classSubjectsPath = "/school-admin/class-subjects"

// ListClassSubjects returns which subjects are taught in which classes
func (a *API) ListClassSubjects(ctx context.Context) ([]models.ClassSubject, error) {
	return list[models.ClassSubject](ctx, a, classSubjectsPath, "classSubjects", nil)
}

// AssignClassSubject puts a subject, and optionally its teacher, on a class
func (a *API) AssignClassSubject(ctx context.Context, in models.ClassSubjectRequest) (models.ClassSubject, error) {
	return write[models.ClassSubject](ctx, a, http.MethodPost, classSubjectsPath, "classSubject", in)
}

// UnassignClassSubject removes a subject from a class
func (a *API) UnassignClassSubject(ctx context.Context, id string) error {
	return remove(ctx, a, itemPath(classSubjectsPath, id))
}
