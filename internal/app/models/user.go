package models

import (
	"encoding/json"
	"strings"
)

// User is the authenticated profile cached in the session
type User struct {
	ID        ID     `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Roles     []Role `json:"roles"`
	SchoolID  ID     `json:"schoolId,omitempty"`
	IsActive  *bool  `json:"isActive,omitempty"`
}

// UnmarshalJSON accepts both `roles: [...]` and a single `role: "..."`,
// and snake_case name fields.
func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	var aux struct {
		plain
		Role          string `json:"role"`
		FirstNameAlt  string `json:"first_name"`
		LastNameAlt   string `json:"last_name"`
		SchoolIDAlt   ID     `json:"school_id"`
		RoleNamesList []struct {
			Name string `json:"name"`
		} `json:"userRoles"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*u = User(aux.plain)
	if u.FirstName == "" {
		u.FirstName = aux.FirstNameAlt
	}
	if u.LastName == "" {
		u.LastName = aux.LastNameAlt
	}
	if u.SchoolID == "" {
		u.SchoolID = aux.SchoolIDAlt
	}
	if len(u.Roles) == 0 && aux.Role != "" {
		u.Roles = []Role{NormalizeRole(aux.Role)}
	}
	if len(u.Roles) == 0 {
		for _, r := range aux.RoleNamesList {
			u.Roles = append(u.Roles, NormalizeRole(r.Name))
		}
	}
	for i, r := range u.Roles {
		u.Roles[i] = NormalizeRole(string(r))
	}
	return nil
}

// NormalizeRole lower-cases a role tag and maps `SUPER-ADMIN` style
// spellings onto the canonical underscore form.
func NormalizeRole(s string) Role {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return Role(s)
}

// Name is the display name of the user
func (u User) Name() string {
	return FullName(u.FirstName, u.LastName)
}

// CreateUserRequest is the super admin user form
type CreateUserRequest struct {
	FirstName string `json:"firstName" form:"firstName" binding:"required,min=2,max=100"`
	LastName  string `json:"lastName" form:"lastName" binding:"required,min=2,max=100"`
	Email     string `json:"email" form:"email" binding:"required,email"`
	Password  string `json:"password,omitempty" form:"password" binding:"omitempty,min=8"`
	Role      string `json:"role" form:"role" binding:"required,oneof=super_admin school_admin teacher student parent"`
	SchoolID  string `json:"schoolId,omitempty" form:"schoolId"`
}

// LoginRequest is the login form
type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

// RegisterRequest is the self registration form
type RegisterRequest struct {
	FirstName string `json:"firstName" form:"firstName" binding:"required,min=2,max=100"`
	LastName  string `json:"lastName" form:"lastName" binding:"required,min=2,max=100"`
	Email     string `json:"email" form:"email" binding:"required,email"`
	Password  string `json:"password" form:"password" binding:"required,min=8"`
	Role      string `json:"role" form:"role" binding:"required,oneof=teacher student parent"`
}

// TokenPair is the credential pair issued by /auth/login and /auth/refresh
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// UnmarshalJSON accepts snake_case and camelCase token fields.
func (t *TokenPair) UnmarshalJSON(data []byte) error {
	var aux struct {
		AccessToken     string `json:"access_token"`
		RefreshToken    string `json:"refresh_token"`
		AccessTokenAlt  string `json:"accessToken"`
		RefreshTokenAlt string `json:"refreshToken"`
		Token           string `json:"token"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	t.AccessToken = firstNonEmpty(aux.AccessToken, aux.AccessTokenAlt, aux.Token)
	t.RefreshToken = firstNonEmpty(aux.RefreshToken, aux.RefreshTokenAlt)
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
