package apiclient

import (
	"context"
	"net/http"

	"github.com/yigit/schoolportal/internal/app/models"
)

const studentsPath = "/school-admin/students"

// ListStudents returns the students of the school
func (a *API) ListStudents(ctx context.Context) ([]models.Student, error) {
	return list[models.Student](ctx, a, studentsPath, "students", nil)
}

// CreateStudent creates a student
func (a *API) CreateStudent(ctx context.Context, in models.StudentRequest) (models.Student, error) {
	return write[models.Student](ctx, a, http.MethodPost, studentsPath, "student", in)
}

// UpdateStudent saves changes to the student with the given id
func (a *API) UpdateStudent(ctx context.Context, id string, in models.StudentRequest) (models.Student, error) {
	return write[models.Student](ctx, a, http.MethodPut, itemPath(studentsPath, id), "student", in)
}

// DeleteStudent removes the student with the given id
func (a *API) DeleteStudent(ctx context.Context, id string) error {
	return remove(ctx, a, itemPath(studentsPath, id))
}
