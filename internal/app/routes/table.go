package routes

import (
	"strings"

	"github.com/yigit/schoolportal/internal/app/models"
)

// Screen names a page implementation. Several routes may share one.
type Screen string

const (
	ScreenSuperAdminDashboard  Screen = "super_admin_dashboard"
	ScreenUsers                Screen = "users"
	ScreenSchools              Screen = "schools"
	ScreenSchoolAdminDashboard Screen = "school_admin_dashboard"
	ScreenDepartments          Screen = "departments"
	ScreenAcademicLevels       Screen = "academic_levels"
	ScreenSubjects             Screen = "subjects"
	ScreenClasses              Screen = "classes"
	ScreenClassSubjects        Screen = "class_subjects"
	ScreenTeachers             Screen = "teachers"
	ScreenStudents             Screen = "students"
	ScreenParents              Screen = "parents"
	ScreenTeacherDashboard     Screen = "teacher_dashboard"
	ScreenTeacherClasses       Screen = "teacher_classes"
	ScreenTeacherSubjects      Screen = "teacher_subjects"
	ScreenMaterials            Screen = "materials"
	ScreenAssignments          Screen = "assignments"
	ScreenSyllabi              Screen = "syllabi"
	ScreenAttendance           Screen = "attendance"
	ScreenAnnouncements        Screen = "announcements"
	ScreenStudentDashboard     Screen = "student_dashboard"
	ScreenStudentSubjects      Screen = "student_subjects"
	ScreenStudentAssignments   Screen = "student_assignments"
	ScreenStudentMaterials     Screen = "student_materials"
	ScreenStudentSyllabi       Screen = "student_syllabi"
	ScreenGrades               Screen = "grades"
	ScreenParentDashboard      Screen = "parent_dashboard"
	ScreenChildren             Screen = "children"
	ScreenChildAssignments     Screen = "child_assignments"
	ScreenChildAttendance      Screen = "child_attendance"
	ScreenProfile              Screen = "profile"
)

// Route binds a path to a screen and the roles allowed to open it
type Route struct {
	Path   string
	Screen Screen
	Label  string
	// Roles empty means any authenticated user
	Roles []models.Role
	// Nav routes appear in the menu; aliases usually do not
	Nav bool
}

var (
	superAdmin  = []models.Role{models.RoleSuperAdmin}
	schoolAdmin = []models.Role{models.RoleSchoolAdmin}
	teacher     = []models.Role{models.RoleTeacher}
	student     = []models.Role{models.RoleStudent}
	parent      = []models.Role{models.RoleParent}
)

// Table lists every guarded route in menu order
var Table = []Route{
	{Path: "/super-admin/dashboard", Screen: ScreenSuperAdminDashboard, Label: "Dashboard", Roles: superAdmin, Nav: true},
	{Path: "/super-admin/users", Screen: ScreenUsers, Label: "Users", Roles: superAdmin, Nav: true},
	{Path: "/super-admin/schools", Screen: ScreenSchools, Label: "Schools", Roles: superAdmin, Nav: true},

	{Path: "/school-admin/dashboard", Screen: ScreenSchoolAdminDashboard, Label: "Dashboard", Roles: schoolAdmin, Nav: true},
	{Path: "/school-admin/departments", Screen: ScreenDepartments, Label: "Departments", Roles: schoolAdmin, Nav: true},
	{Path: "/school-admin/academic-levels", Screen: ScreenAcademicLevels, Label: "Academic Levels", Roles: schoolAdmin, Nav: true},
	{Path: "/school-admin/subjects", Screen: ScreenSubjects, Label: "Subjects", Roles: schoolAdmin, Nav: true},
	{Path: "/school-admin/classes", Screen: ScreenClasses, Label: "Classes", Roles: schoolAdmin, Nav: true},
	{Path: "/school-admin/class-subjects", Screen: ScreenClassSubjects, Label: "Class Subjects", Roles: schoolAdmin, Nav: true},
	{Path: "/school-admin/teachers", Screen: ScreenTeachers, Label: "Teachers", Roles: schoolAdmin, Nav: true},
	{Path: "/school-admin/staff", Screen: ScreenTeachers, Label: "Staff", Roles: schoolAdmin},
	{Path: "/school-admin/students", Screen: ScreenStudents, Label: "Students", Roles: schoolAdmin, Nav: true},
	{Path: "/school-admin/parents", Screen: ScreenParents, Label: "Parents", Roles: schoolAdmin, Nav: true},

	{Path: "/teacher/dashboard", Screen: ScreenTeacherDashboard, Label: "Dashboard", Roles: teacher, Nav: true},
	{Path: "/teacher/classes", Screen: ScreenTeacherClasses, Label: "My Classes", Roles: teacher, Nav: true},
	{Path: "/teacher/subjects", Screen: ScreenTeacherSubjects, Label: "My Subjects", Roles: teacher, Nav: true},
	{Path: "/teacher/materials", Screen: ScreenMaterials, Label: "Materials", Roles: teacher, Nav: true},
	{Path: "/teacher/resources", Screen: ScreenMaterials, Label: "Resources", Roles: teacher},
	{Path: "/teacher/assignments", Screen: ScreenAssignments, Label: "Assignments", Roles: teacher, Nav: true},
	{Path: "/teacher/syllabi", Screen: ScreenSyllabi, Label: "Syllabi", Roles: teacher, Nav: true},
	{Path: "/teacher/attendance", Screen: ScreenAttendance, Label: "Attendance", Roles: teacher, Nav: true},
	{Path: "/teacher/announcements", Screen: ScreenAnnouncements, Label: "Announcements", Roles: teacher, Nav: true},

	{Path: "/student/dashboard", Screen: ScreenStudentDashboard, Label: "Dashboard", Roles: student, Nav: true},
	{Path: "/student/subjects", Screen: ScreenStudentSubjects, Label: "Subjects", Roles: student, Nav: true},
	{Path: "/student/assignments", Screen: ScreenStudentAssignments, Label: "Assignments", Roles: student, Nav: true},
	{Path: "/student/materials", Screen: ScreenStudentMaterials, Label: "Materials", Roles: student, Nav: true},
	{Path: "/student/syllabi", Screen: ScreenStudentSyllabi, Label: "Syllabi", Roles: student, Nav: true},
	{Path: "/student/grades", Screen: ScreenGrades, Label: "Grades", Roles: student, Nav: true},

	{Path: "/parent/dashboard", Screen: ScreenParentDashboard, Label: "Dashboard", Roles: parent, Nav: true},
	{Path: "/parent/children", Screen: ScreenChildren, Label: "My Children", Roles: parent, Nav: true},
	{Path: "/parent/assignments", Screen: ScreenChildAssignments, Label: "Assignments", Roles: parent, Nav: true},
	{Path: "/parent/attendance", Screen: ScreenChildAttendance, Label: "Attendance", Roles: parent, Nav: true},

	{Path: "/profile", Screen: ScreenProfile, Label: "Profile", Nav: true},
}

// Lookup finds the route whose path equals or prefixes path
func Lookup(path string) (Route, bool) {
	var best Route
	found := false
	for _, r := range Table {
		if path == r.Path || strings.HasPrefix(path, r.Path+"/") {
			if !found || len(r.Path) > len(best.Path) {
				best, found = r, true
			}
		}
	}
	return best, found
}

// NavItem is one menu link
type NavItem struct {
	Path   string
	Label  string
	Active bool
}

// NavSection groups the links of one role
type NavSection struct {
	Title string
	Items []NavItem
}

// Menu builds the navigation for the given roles, marking the item that
// owns current as active. Roles are listed in priority order; routes open
// to everyone form a trailing "Account" section.
func Menu(roles []models.Role, current string) []NavSection {
	active, _ := Lookup(current)

	var sections []NavSection
	for _, role := range models.RolePriority {
		if !hasRole(roles, role) {
			continue
		}
		section := NavSection{Title: role.Label()}
		for _, r := range Table {
			if r.Nav && len(r.Roles) > 0 && hasRole(r.Roles, role) {
				section.Items = append(section.Items, NavItem{Path: r.Path, Label: r.Label, Active: r.Path == active.Path})
			}
		}
		if len(section.Items) > 0 {
			sections = append(sections, section)
		}
	}

	account := NavSection{Title: "Account"}
	for _, r := range Table {
		if r.Nav && len(r.Roles) == 0 {
			account.Items = append(account.Items, NavItem{Path: r.Path, Label: r.Label, Active: r.Path == active.Path})
		}
	}
	return append(sections, account)
}

func hasRole(roles []models.Role, r models.Role) bool {
	for _, have := range roles {
		if have == r {
			return true
		}
	}
	return false
}
