package pages

import (
	"github.com/yigit/schoolportal/internal/app/routes"
	"github.com/yigit/schoolportal/internal/app/services"
)

// Screens builds the implementation of every screen the route table names
func Screens(r *Renderer, dashboard *services.DashboardService, importer *services.ImportService) map[routes.Screen]routes.Mounter {
	d := &dashboards{r: r, service: dashboard}
	return map[routes.Screen]routes.Mounter{
		routes.ScreenSuperAdminDashboard: d.page(d.superAdmin),
		routes.ScreenUsers:               r.users(),
		routes.ScreenSchools:             r.schools(),

		routes.ScreenSchoolAdminDashboard: d.page(d.schoolAdmin),
		routes.ScreenDepartments:          r.departments(),
		routes.ScreenAcademicLevels:       r.academicLevels(),
		routes.ScreenSubjects:             r.subjects(),
		routes.ScreenClasses:              r.classes(),
		routes.ScreenClassSubjects:        r.classSubjects(),
		routes.ScreenTeachers:             r.teachers(),
		routes.ScreenStudents:             r.withStudentImport(r.students(), importer),
		routes.ScreenParents:              r.parents(),

		routes.ScreenTeacherDashboard: d.page(d.teacher),
		routes.ScreenTeacherClasses:   r.teacherClasses(),
		routes.ScreenTeacherSubjects:  r.teacherSubjects(),
		routes.ScreenMaterials:        r.materials(),
		routes.ScreenAssignments:      r.assignments(),
		routes.ScreenSyllabi:          r.syllabi(),
		routes.ScreenAttendance:       r.attendance(),
		routes.ScreenAnnouncements:    r.announcements(),

		routes.ScreenStudentDashboard:   d.page(d.student),
		routes.ScreenStudentSubjects:    r.studentSubjects(),
		routes.ScreenStudentAssignments: r.studentAssignments(),
		routes.ScreenStudentMaterials:   r.studentMaterials(),
		routes.ScreenStudentSyllabi:     r.studentSyllabi(),
		routes.ScreenGrades:             r.studentGrades(),

		routes.ScreenParentDashboard:  d.page(d.parent),
		routes.ScreenChildren:         r.children(),
		routes.ScreenChildAssignments: r.childAssignments(),
		routes.ScreenChildAttendance:  r.childAttendance(),

		routes.ScreenProfile: r.profile(),
	}
}
