package apiclient

import (
	"context"
	"net/http"

	"github.com/yigit/schoolportal/internal/app/models"
)

const (
	parentsPath  = "/school-admin/parents"
	childrenPath = "/parent/children"
)

// ListParents returns the parent accounts of the school
func (a *API) ListParents(ctx context.Context) ([]models.Parent, error) {
	return list[models.Parent](ctx, a, parentsPath, "parents", nil)
}

// CreateParent creates a parent account
func (a *API) CreateParent(ctx context.Context, in models.ParentRequest) (models.Parent, error) {
	return write[models.Parent](ctx, a, http.MethodPost, parentsPath, "parent", in)
}

// UpdateParent saves changes to the parent account with the given id
func (a *API) UpdateParent(ctx context.Context, id string, in models.ParentRequest) (models.Parent, error) {
	return write[models.Parent](ctx, a, http.MethodPut, itemPath(parentsPath, id), "parent", in)
}

// DeleteParent removes the parent account with the given id
func (a *API) DeleteParent(ctx context.Context, id string) error {
	return remove(ctx, a, itemPath(parentsPath, id))
}

// Children lists the students linked to the signed in parent
func (a *API) Children(ctx context.Context) ([]models.Child, error) {
	return list[models.Child](ctx, a, childrenPath, "children", nil)
}
