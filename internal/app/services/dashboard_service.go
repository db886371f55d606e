package services

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/yigit/schoolportal/internal/apiclient"
	"github.com/yigit/schoolportal/internal/app/models"
)

// DashboardBackend is the part of the API client the dashboards read
type DashboardBackend interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	ListSchools(ctx context.Context) ([]models.School, error)
	ListDepartments(ctx context.Context) ([]models.Department, error)
	ListSubjects(ctx context.Context) ([]models.Subject, error)
	ListClasses(ctx context.Context) ([]models.Class, error)
	ListTeachers(ctx context.Context) ([]models.Teacher, error)
	ListStudents(ctx context.Context) ([]models.Student, error)
	ListParents(ctx context.Context) ([]models.Parent, error)
	TeacherClasses(ctx context.Context) ([]models.Class, error)
	TeacherSubjects(ctx context.Context) ([]models.Subject, error)
	ListAssignments(ctx context.Context) ([]models.Assignment, error)
	ListAnnouncements(ctx context.Context) ([]models.Announcement, error)
	StudentDashboard(ctx context.Context) (models.StudentDashboard, error)
	StudentGrades(ctx context.Context) ([]models.Grade, error)
	Children(ctx context.Context) ([]models.Child, error)
	ChildPerformance(ctx context.Context, childID string) (models.ChildPerformance, error)
}

// SuperAdminStats are the platform wide counts
type SuperAdminStats struct {
	Users   int
	Schools int
}

// SchoolAdminStats are the counts of one school
type SchoolAdminStats struct {
	Departments int
	Subjects    int
	Classes     int
	Teachers    int
	Students    int
	Parents     int
}

// TeacherStats are the counts of the signed in teacher
type TeacherStats struct {
	Classes       int
	Subjects      int
	Assignments   int
	Announcements int
}

// StudentStats combine the backend summary with the grade list
type StudentStats struct {
	models.StudentDashboard
	GradeCount int
	// GradeAverage is the mean grade percentage, 0 without grades
	GradeAverage float64
}

// ChildSummary is one child's row on the parent dashboard
type ChildSummary struct {
	Child       models.Child
	Performance models.ChildPerformance
	// Reported is false when the child's performance could not be fetched
	Reported bool
}

// ParentSummary aggregates the performance of all children. Averages
// only cover children that reported.
type ParentSummary struct {
	Children             int
	Reporting            int
	AverageGrade         float64
	AttendanceRate       float64
	PendingAssignments   int
	CompletedAssignments int
	PerChild             []ChildSummary
}

// DashboardService assembles the role dashboards. Every figure is fetched
// concurrently and a failing fetch degrades to zero instead of failing the
// page; an expired session is the exception and is returned.
type DashboardService struct {
	logger zerolog.Logger
}

// NewDashboardService creates a DashboardService
func NewDashboardService(lgr zerolog.Logger) *DashboardService {
	return &DashboardService{logger: lgr.With().Str("component", "dashboard").Logger()}
}

// degrade logs a failed figure and swallows it unless the session expired
func (s *DashboardService) degrade(err error, key, value string) error {
	if apiclient.IsSessionExpired(err) {
		return err
	}
	s.logger.Warn().Err(err).Str(key, value).Msg("Dashboard figure unavailable")
	return nil
}

// count runs load on g and stores the result length in dst, leaving 0 on
// failure.
func count[T any](ctx context.Context, s *DashboardService, g *errgroup.Group, name string, dst *int, load func(context.Context) ([]T, error)) {
	g.Go(func() error {
		items, err := load(ctx)
		if err != nil {
			return s.degrade(err, "figure", name)
		}
		*dst = len(items)
		return nil
	})
}

// SuperAdmin returns the platform counts
func (s *DashboardService) SuperAdmin(ctx context.Context, api DashboardBackend) (SuperAdminStats, error) {
	var stats SuperAdminStats
	g, ctx := errgroup.WithContext(ctx)
	count(ctx, s, g, "users", &stats.Users, api.ListUsers)
	count(ctx, s, g, "schools", &stats.Schools, api.ListSchools)
	if err := g.Wait(); err != nil {
		return stats, err
	}
	return stats, nil
}

// SchoolAdmin returns the school counts
func (s *DashboardService) SchoolAdmin(ctx context.Context, api DashboardBackend) (SchoolAdminStats, error) {
	var stats SchoolAdminStats
	g, ctx := errgroup.WithContext(ctx)
	count(ctx, s, g, "departments", &stats.Departments, api.ListDepartments)
	count(ctx, s, g, "subjects", &stats.Subjects, api.ListSubjects)
	count(ctx, s, g, "classes", &stats.Classes, api.ListClasses)
	count(ctx, s, g, "teachers", &stats.Teachers, api.ListTeachers)
	count(ctx, s, g, "students", &stats.Students, api.ListStudents)
	count(ctx, s, g, "parents", &stats.Parents, api.ListParents)
	if err := g.Wait(); err != nil {
		return stats, err
	}
	return stats, nil
}

// Teacher returns the teacher's counts
func (s *DashboardService) Teacher(ctx context.Context, api DashboardBackend) (TeacherStats, error) {
	var stats TeacherStats
	g, ctx := errgroup.WithContext(ctx)
	count(ctx, s, g, "classes", &stats.Classes, api.TeacherClasses)
	count(ctx, s, g, "subjects", &stats.Subjects, api.TeacherSubjects)
	count(ctx, s, g, "assignments", &stats.Assignments, api.ListAssignments)
	count(ctx, s, g, "announcements", &stats.Announcements, api.ListAnnouncements)
	if err := g.Wait(); err != nil {
		return stats, err
	}
	return stats, nil
}

// Student returns the backend summary and the grade average
func (s *DashboardService) Student(ctx context.Context, api DashboardBackend) (StudentStats, error) {
	var stats StudentStats
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		summary, err := api.StudentDashboard(ctx)
		if err != nil {
			return s.degrade(err, "figure", "summary")
		}
		stats.StudentDashboard = summary
		return nil
	})
	var grades []models.Grade
	g.Go(func() error {
		var err error
		if grades, err = api.StudentGrades(ctx); err != nil {
			return s.degrade(err, "figure", "grades")
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return stats, err
	}

	stats.GradeCount = len(grades)
	stats.GradeAverage = AverageGrade(grades)
	return stats, nil
}

// Parent fetches the children, then every child's performance
// concurrently. A child whose fetch fails is listed but left out of the
// aggregates. A failure to list the children or an expired session is
// returned.
func (s *DashboardService) Parent(ctx context.Context, api DashboardBackend) (ParentSummary, error) {
	children, err := api.Children(ctx)
	if err != nil {
		return ParentSummary{}, err
	}

	rows := make([]ChildSummary, len(children))
	g, gctx := errgroup.WithContext(ctx)
	for i, child := range children {
		rows[i].Child = child
		g.Go(func() error {
			perf, err := api.ChildPerformance(gctx, child.ID.String())
			if err != nil {
				return s.degrade(err, "child", child.ID.String())
			}
			rows[i].Performance = perf
			rows[i].Reported = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ParentSummary{}, err
	}

	return SummarizeChildren(rows), nil
}

// SummarizeChildren computes the parent aggregates from per child rows
func SummarizeChildren(rows []ChildSummary) ParentSummary {
	summary := ParentSummary{Children: len(rows), PerChild: rows}
	var gradeSum, attendanceSum float64
	for _, r := range rows {
		if !r.Reported {
			continue
		}
		summary.Reporting++
		gradeSum += r.Performance.AverageGrade
		attendanceSum += r.Performance.AttendanceRate
		summary.PendingAssignments += r.Performance.PendingAssignments
		summary.CompletedAssignments += r.Performance.CompletedAssignments
	}
	if summary.Reporting > 0 {
		summary.AverageGrade = gradeSum / float64(summary.Reporting)
		summary.AttendanceRate = attendanceSum / float64(summary.Reporting)
	}
	return summary
}

// AverageGrade is the mean percentage of grades, 0 for none
func AverageGrade(grades []models.Grade) float64 {
	if len(grades) == 0 {
		return 0
	}
	var sum float64
	for _, g := range grades {
		sum += g.Percent()
	}
	return sum / float64(len(grades))
}
