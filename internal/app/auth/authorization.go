// Package auth decides which roles may open which screens.
package auth

import (
	"github.com/yigit/schoolportal/internal/app/models"
)

// Allowed reports whether a user holding have may open a screen restricted
// to allowed. An empty allow-list admits any authenticated user.
func Allowed(have, allowed []models.Role) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		for _, h := range have {
			if a == h {
				return true
			}
		}
	}
	return false
}

// PrimaryRole picks the highest priority role among have. The second
// result is false when have holds no known role.
func PrimaryRole(have []models.Role) (models.Role, bool) {
	for _, r := range models.RolePriority {
		for _, h := range have {
			if h == r {
				return r, true
			}
		}
	}
	return "", false
}

var homePaths = map[models.Role]string{
	models.RoleSuperAdmin:  "/super-admin/dashboard",
	models.RoleSchoolAdmin: "/school-admin/dashboard",
	models.RoleTeacher:     "/teacher/dashboard",
	models.RoleStudent:     "/student/dashboard",
	models.RoleParent:      "/parent/dashboard",
}

// HomePath is the landing page for a user holding have. Users without a
// known role land on /profile.
func HomePath(have []models.Role) string {
	if r, ok := PrimaryRole(have); ok {
		return homePaths[r]
	}
	return "/profile"
}
