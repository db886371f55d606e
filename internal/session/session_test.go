package session

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/schoolportal/internal/app/models"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return token
}

func TestRolesFromToken(t *testing.T) {
	tests := []struct {
		name   string
		claims jwt.MapClaims
		want   []models.Role
	}{
		{"roles array", jwt.MapClaims{"roles": []string{"TEACHER", "parent"}}, []models.Role{models.RoleTeacher, models.RoleParent}},
		{"roles csv", jwt.MapClaims{"roles": "school-admin, teacher"}, []models.Role{models.RoleSchoolAdmin, models.RoleTeacher}},
		{"single role", jwt.MapClaims{"role": "SUPER_ADMIN"}, []models.Role{models.RoleSuperAdmin}},
		{"role type", jwt.MapClaims{"roleType": "STUDENT"}, []models.Role{models.RoleStudent}},
		{"no role claim", jwt.MapClaims{"sub": "1"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RolesFromToken(signedToken(t, tt.claims)))
		})
	}

	assert.Nil(t, RolesFromToken(""))
	assert.Nil(t, RolesFromToken("not-a-jwt"))
}

func TestSession_Roles(t *testing.T) {
	s := New("id")
	assert.Empty(t, s.Roles())
	assert.False(t, s.IsAuthenticated())

	s.SetTokens(models.TokenPair{AccessToken: signedToken(t, jwt.MapClaims{"role": "teacher"})})
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, []models.Role{models.RoleTeacher}, s.Roles(), "falls back to the token claim")

	s.SetUser(models.User{Roles: []models.Role{models.RoleParent, models.RoleStudent}})
	assert.True(t, s.HasRole(models.RoleParent))
	assert.False(t, s.HasRole(models.RoleTeacher), "profile roles win over the claim")
	assert.True(t, s.HasAnyRole(models.RoleSuperAdmin, models.RoleStudent))
	assert.False(t, s.HasAnyRole(models.RoleSuperAdmin, models.RoleSchoolAdmin))
}

func TestSession_TokensAndFlash(t *testing.T) {
	s := New("id")
	s.SetTokens(models.TokenPair{AccessToken: "a1", RefreshToken: "r1"})
	s.SetTokens(models.TokenPair{AccessToken: "a2"})
	assert.Equal(t, models.TokenPair{AccessToken: "a2", RefreshToken: "r1"}, s.Tokens())

	s.AddFlash(ToastError, "Failed to create department")
	s.ClearAuth()
	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.CurrentUser())
	assert.Equal(t, []Toast{{Kind: ToastError, Message: "Failed to create department"}}, s.TakeFlash())
	assert.Empty(t, s.TakeFlash())
}
