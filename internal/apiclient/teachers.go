package apiclient

import (
	"context"
	"net/http"

	"github.com/yigit/schoolportal/internal/app/models"
)

const teachersPath = "/school-admin/teachers"

// ListTeachers returns the teachers of the school
func (a *API) ListTeachers(ctx context.Context) ([]models.Teacher, error) {
	return list[models.Teacher](ctx, a, teachersPath, "teachers", nil)
}

// CreateTeacher creates a teacher
func (a *API) CreateTeacher(ctx context.Context, in models.TeacherRequest) (models.Teacher, error) {
	return write[models.Teacher](ctx, a, http.MethodPost, teachersPath, "teacher", in)
}

// UpdateTeacher saves changes to the teacher with the given id
func (a *API) UpdateTeacher(ctx context.Context, id string, in models.TeacherRequest) (models.Teacher, error) {
	return write[models.Teacher](ctx, a, http.MethodPut, itemPath(teachersPath, id), "teacher", in)
}

// DeleteTeacher removes the teacher with the given id
func (a *API) DeleteTeacher(ctx context.Context, id string) error {
	return remove(ctx, a, itemPath(teachersPath, id))
}
