package apiclient

import (
	"context"
	"net/http"

	"github.com/yigit/schoolportal/internal/app/models"
)

const classesPath = "/school-admin/classes"

// ListClasses returns the classes of the school
func (a *API) ListClasses(ctx context.Context) ([]models.Class, error) {
	return list[models.Class](ctx, a, classesPath, "classes", nil)
}

// CreateClass creates a class
func (a *API) CreateClass(ctx context.Context, in models.ClassRequest) (models.Class, error) {
	return write[models.Class](ctx, a, http.MethodPost, classesPath, "class", in)
}

// UpdateClass saves changes to the class with the given id
func (a *API) UpdateClass(ctx context.Context, id string, in models.ClassRequest) (models.Class, error) {
	return write[models.Class](ctx, a, http.MethodPut, itemPath(classesPath, id), "class", in)
}

// DeleteClass removes the class with the given id
func (a *API) DeleteClass(ctx context.Context, id string) error {
	return remove(ctx, a, itemPath(classesPath, id))
}

// TeacherClasses lists the classes the signed in teacher teaches
func (a *API) TeacherClasses(ctx context.Context) ([]models.Class, error) {
	return list[models.Class](ctx, a, "/teacher/classes", "classes", nil)
}

// ClassStudents lists the roster of one of the teacher's classes
func (a *API) ClassStudents(ctx context.Context, classID string) ([]models.Student, error) {
	return list[models.Student](ctx, a, itemPath("/teacher/classes", classID)+"/students", "students", nil)
}
