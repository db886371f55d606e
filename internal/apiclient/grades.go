package apiclient

import (
	"context"

	"github.com/yigit/schoolportal/internal/app/models"
)

// StudentGrades lists the signed in student's grades
func (a *API) StudentGrades(ctx context.Context) ([]models.Grade, error) {
	return list[models.Grade](ctx, a, "/student/grades", "grades", nil)
}

// StudentDashboard is the backend's summary for the signed in student
func (a *API) StudentDashboard(ctx context.Context) (models.StudentDashboard, error) {
	return get[models.StudentDashboard](ctx, a, "/student/dashboard", "dashboard")
}

// ChildPerformance is one child's summary for the signed in parent
func (a *API) ChildPerformance(ctx context.Context, childID string) (models.ChildPerformance, error) {
	return get[models.ChildPerformance](ctx, a, itemPath(childrenPath, childID)+"/performance", "performance")
}
