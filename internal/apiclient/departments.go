package apiclient

import (
	"context"
	"net/http"

	"github.com/yigit/schoolportal/internal/app/models"
)

const departmentsPath = "/school-admin/departments"

// ListDepartments returns the departments of the school
func (a *API) ListDepartments(ctx context.Context) ([]models.Department, error) {
	return list[models.Department](ctx, a, departmentsPath, "departments", nil)
}

// CreateDepartment creates a department
func (a *API) CreateDepartment(ctx context.Context, in models.DepartmentRequest) (models.Department, error) {
	return write[models.Department](ctx, a, http.MethodPost, departmentsPath, "department", in)
}

// UpdateDepartment saves changes to the department with the given id
func (a *API) UpdateDepartment(ctx context.Context, id string, in models.DepartmentRequest) (models.Department, error) {
	return write[models.Department](ctx, a, http.MethodPut, itemPath(departmentsPath, id), "department", in)
}

// DeleteDepartment removes the department with the given id
func (a *API) DeleteDepartment(ctx context.Context, id string) error {
	return remove(ctx, a, itemPath(departmentsPath, id))
}
