package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/schoolportal/internal/app/models"
	"github.com/yigit/schoolportal/internal/pkg/apperrors"
)

var (
	errBackend = errors.New("backend down")
	// the client's error after a 401 whose refresh was also rejected
	errExpired = fmt.Errorf("%w: refresh rejected", apperrors.ErrSessionExpired)
)

// fakeBackend answers from canned data; any method listed in fail errors
// and any listed in expired reports a lost session
type fakeBackend struct {
	fail        map[string]bool
	expired     map[string]bool
	children    []models.Child
	performance map[string]models.ChildPerformance
	grades      []models.Grade

	mu    sync.Mutex
	calls []string
}

func (f *fakeBackend) record(name string) error {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
	if f.expired[name] {
		return errExpired
	}
	if f.fail[name] {
		return errBackend
	}
	return nil
}

func n[T any](count int) []T { return make([]T, count) }

func (f *fakeBackend) ListUsers(context.Context) ([]models.User, error) {
	return n[models.User](4), f.record("users")
}
func (f *fakeBackend) ListSchools(context.Context) ([]models.School, error) {
	return n[models.School](2), f.record("schools")
}
func (f *fakeBackend) ListDepartments(context.Context) ([]models.Department, error) {
	return n[models.Department](3), f.record("departments")
}
func (f *fakeBackend) ListSubjects(context.Context) ([]models.Subject, error) {
	return n[models.Subject](5), f.record("subjects")
}
func (f *fakeBackend) ListClasses(context.Context) ([]models.Class, error) {
	return n[models.Class](6), f.record("classes")
}
func (f *fakeBackend) ListTeachers(context.Context) ([]models.Teacher, error) {
	return n[models.Teacher](7), f.record("teachers")
}
func (f *fakeBackend) ListStudents(context.Context) ([]models.Student, error) {
	return n[models.Student](8), f.record("students")
}
func (f *fakeBackend) ListParents(context.Context) ([]models.Parent, error) {
	return n[models.Parent](9), f.record("parents")
}
func (f *fakeBackend) TeacherClasses(context.Context) ([]models.Class, error) {
	return n[models.Class](2), f.record("teacher_classes")
}
func (f *fakeBackend) TeacherSubjects(context.Context) ([]models.Subject, error) {
	return n[models.Subject](3), f.record("teacher_subjects")
}
func (f *fakeBackend) ListAssignments(context.Context) ([]models.Assignment, error) {
	return n[models.Assignment](4), f.record("assignments")
}
func (f *fakeBackend) ListAnnouncements(context.Context) ([]models.Announcement, error) {
	return n[models.Announcement](1), f.record("announcements")
}
func (f *fakeBackend) StudentDashboard(context.Context) (models.StudentDashboard, error) {
	return models.StudentDashboard{SubjectCount: 6, PendingAssignments: 2}, f.record("student_dashboard")
}
func (f *fakeBackend) StudentGrades(context.Context) ([]models.Grade, error) {
	return f.grades, f.record("grades")
}
func (f *fakeBackend) Children(context.Context) ([]models.Child, error) {
	return f.children, f.record("children")
}
func (f *fakeBackend) ChildPerformance(_ context.Context, id string) (models.ChildPerformance, error) {
	if err := f.record("performance:" + id); err != nil {
		return models.ChildPerformance{}, err
	}
	return f.performance[id], nil
}

func TestDashboard_ParentExcludesFailedChild(t *testing.T) {
	api := &fakeBackend{
		fail: map[string]bool{"performance:3": true},
		children: []models.Child{
			{ID: "1", FirstName: "Ada"},
			{ID: "2", FirstName: "Alan"},
			{ID: "3", FirstName: "Grace"},
		},
		performance: map[string]models.ChildPerformance{
			"1": {AverageGrade: 80, AttendanceRate: 90, PendingAssignments: 2, CompletedAssignments: 5},
			"2": {AverageGrade: 60, AttendanceRate: 100, PendingAssignments: 1, CompletedAssignments: 3},
		},
	}

	summary, err := NewDashboardService(zerolog.Nop()).Parent(context.Background(), api)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Children)
	assert.Equal(t, 2, summary.Reporting)
	assert.InDelta(t, 70.0, summary.AverageGrade, 0.001)
	assert.InDelta(t, 95.0, summary.AttendanceRate, 0.001)
	assert.Equal(t, 3, summary.PendingAssignments)
	assert.Equal(t, 8, summary.CompletedAssignments)

	require.Len(t, summary.PerChild, 3)
	assert.Equal(t, "Ada", summary.PerChild[0].Child.FirstName, "order follows the children list")
	assert.True(t, summary.PerChild[1].Reported)
	assert.False(t, summary.PerChild[2].Reported)
}

func TestDashboard_ParentChildrenFailure(t *testing.T) {
	api := &fakeBackend{fail: map[string]bool{"children": true}}

	_, err := NewDashboardService(zerolog.Nop()).Parent(context.Background(), api)

	assert.ErrorIs(t, err, errBackend)
}

func TestDashboard_ParentNoChildren(t *testing.T) {
	summary, err := NewDashboardService(zerolog.Nop()).Parent(context.Background(), &fakeBackend{})
	require.NoError(t, err)
	assert.Zero(t, summary.Children)
	assert.Zero(t, summary.AverageGrade)
}

func TestDashboard_SchoolAdminFailingFigureIsZero(t *testing.T) {
	api := &fakeBackend{fail: map[string]bool{"teachers": true}}

	stats, err := NewDashboardService(zerolog.Nop()).SchoolAdmin(context.Background(), api)
	require.NoError(t, err)

	assert.Equal(t, SchoolAdminStats{Departments: 3, Subjects: 5, Classes: 6, Teachers: 0, Students: 8, Parents: 9}, stats)
}

func TestDashboard_SuperAdminAndTeacher(t *testing.T) {
	svc := NewDashboardService(zerolog.Nop())

	platform, err := svc.SuperAdmin(context.Background(), &fakeBackend{})
	require.NoError(t, err)
	assert.Equal(t, SuperAdminStats{Users: 4, Schools: 2}, platform)

	teaching, err := svc.Teacher(context.Background(), &fakeBackend{})
	require.NoError(t, err)
	assert.Equal(t, TeacherStats{Classes: 2, Subjects: 3, Assignments: 4, Announcements: 1}, teaching)
}

func TestDashboard_Student(t *testing.T) {
	api := &fakeBackend{grades: []models.Grade{
		{Score: 45, MaxScore: 50},
		{Score: 70},
	}}

	stats, err := NewDashboardService(zerolog.Nop()).Student(context.Background(), api)
	require.NoError(t, err)

	assert.Equal(t, 6, stats.SubjectCount)
	assert.Equal(t, 2, stats.GradeCount)
	assert.InDelta(t, 80.0, stats.GradeAverage, 0.001)
}

func TestDashboard_ParentSessionExpired(t *testing.T) {
	api := &fakeBackend{
		expired:  map[string]bool{"performance:2": true},
		children: []models.Child{{ID: "1"}, {ID: "2"}},
		performance: map[string]models.ChildPerformance{
			"1": {AverageGrade: 80},
		},
	}

	summary, err := NewDashboardService(zerolog.Nop()).Parent(context.Background(), api)

	assert.ErrorIs(t, err, apperrors.ErrSessionExpired)
	assert.Zero(t, summary.Children)
}

func TestDashboard_FigureSessionExpired(t *testing.T) {
	svc := NewDashboardService(zerolog.Nop())

	_, err := svc.SchoolAdmin(context.Background(), &fakeBackend{
		expired: map[string]bool{"students": true},
		fail:    map[string]bool{"teachers": true},
	})
	assert.ErrorIs(t, err, apperrors.ErrSessionExpired)

	_, err = svc.Student(context.Background(), &fakeBackend{expired: map[string]bool{"grades": true}})
	assert.ErrorIs(t, err, apperrors.ErrSessionExpired)

	_, err = svc.Teacher(context.Background(), &fakeBackend{fail: map[string]bool{"assignments": true}})
	assert.NoError(t, err, "other failures still degrade")
}
