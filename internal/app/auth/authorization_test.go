package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yigit/schoolportal/internal/app/models"
)

func TestAllowed(t *testing.T) {
	admin := []models.Role{models.RoleSchoolAdmin}
	teacherParent := []models.Role{models.RoleTeacher, models.RoleParent}

	tests := []struct {
		name    string
		have    []models.Role
		allowed []models.Role
		want    bool
	}{
		{"empty allow-list admits anyone", admin, nil, true},
		{"empty allow-list admits user without roles", nil, nil, true},
		{"matching role", admin, []models.Role{models.RoleSchoolAdmin}, true},
		{"one of several", teacherParent, []models.Role{models.RoleStudent, models.RoleParent}, true},
		{"no overlap", admin, []models.Role{models.RoleTeacher}, false},
		{"no roles against a restriction", nil, []models.Role{models.RoleTeacher}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allowed(tt.have, tt.allowed))
		})
	}
}

func TestHomePath(t *testing.T) {
	assert.Equal(t, "/super-admin/dashboard", HomePath([]models.Role{models.RoleParent, models.RoleSuperAdmin}))
	assert.Equal(t, "/teacher/dashboard", HomePath([]models.Role{models.RoleParent, models.RoleTeacher}))
	assert.Equal(t, "/parent/dashboard", HomePath([]models.Role{models.RoleParent}))
	assert.Equal(t, "/profile", HomePath([]models.Role{"janitor"}))
	assert.Equal(t, "/profile", HomePath(nil))
}

func TestPrimaryRole(t *testing.T) {
	r, ok := PrimaryRole([]models.Role{models.RoleStudent, models.RoleSchoolAdmin})
	assert.True(t, ok)
	assert.Equal(t, models.RoleSchoolAdmin, r)

	_, ok = PrimaryRole(nil)
	assert.False(t, ok)
}
