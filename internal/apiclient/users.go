package apiclient

import (
	"context"
	"net/http"

	"github.com/yigit/schoolportal/internal/app/models"
)

const usersPath = "/admin/users"

// ListUsers returns the users on the platform
func (a *API) ListUsers(ctx context.Context) ([]models.User, error) {
	return list[models.User](ctx, a, usersPath, "users", nil)
}

// CreateUser creates an user
func (a *API) CreateUser(ctx context.Context, in models.CreateUserRequest) (models.User, error) {
	return write[models.User](ctx, a, http.MethodPost, usersPath, "user", in)
}

// UpdateUser saves changes to the user with the given id
func (a *API) UpdateUser(ctx context.Context, id string, in models.CreateUserRequest) (models.User, error) {
	return write[models.User](ctx, a, http.MethodPut, itemPath(usersPath, id), "user", in)
}

// DeleteUser removes the user with the given id
func (a *API) DeleteUser(ctx context.Context, id string) error {
	return remove(ctx, a, itemPath(usersPath, id))
}
