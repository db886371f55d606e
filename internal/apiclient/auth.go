package apiclient

import (
	"context"
	"net/http"

	"github.com/yigit/schoolportal/internal/app/models"
	"github.com/yigit/schoolportal/internal/pkg/apperrors"
)

// LoginResult is what a successful login yields
type LoginResult struct {
	Tokens models.TokenPair
	User   models.User
}

// Login exchanges credentials for a token pair and the user profile
func (a *API) Login(ctx context.Context, in models.LoginRequest) (*LoginResult, error) {
	req, err := jsonRequest(http.MethodPost, "/auth/login", in)
	if err != nil {
		return nil, err
	}
	body, err := a.do(ctx, req)
	if err != nil {
		return nil, err
	}

	pair, err := decodeItem[models.TokenPair](body, "")
	if err != nil {
		return nil, err
	}
	if pair.AccessToken == "" {
		return nil, apperrors.ErrInvalidTokenPair
	}
	user, err := decodeItem[models.User](body, "user")
	if err != nil {
		return nil, err
	}
	return &LoginResult{Tokens: pair, User: user}, nil
}

// Register creates an account; the user logs in afterwards
func (a *API) Register(ctx context.Context, in models.RegisterRequest) error {
	_, err := write[struct{}](ctx, a, http.MethodPost, "/auth/register", "", in)
	return err
}
