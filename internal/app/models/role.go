package models

// Role is a tag granting access to a subset of routes and actions
type Role string

const (
	RoleSuperAdmin  Role = "super_admin"
	RoleSchoolAdmin Role = "school_admin"
	RoleTeacher     Role = "teacher"
	RoleStudent     Role = "student"
	RoleParent      Role = "parent"
)

// RolePriority orders roles when one has to be picked, e.g. for the home
// screen of a user holding several roles.
var RolePriority = []Role{RoleSuperAdmin, RoleSchoolAdmin, RoleTeacher, RoleStudent, RoleParent}

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	for _, known := range RolePriority {
		if r == known {
			return true
		}
	}
	return false
}

// Label is the human readable role name
func (r Role) Label() string {
	switch r {
	case RoleSuperAdmin:
		return "Super Admin"
	case RoleSchoolAdmin:
		return "School Admin"
	case RoleTeacher:
		return "Teacher"
	case RoleStudent:
		return "Student"
	case RoleParent:
		return "Parent"
	default:
		return string(r)
	}
}
