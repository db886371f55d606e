package apiclient

import (
	"context"
	"net/http"

	"github.com/yigit/schoolportal/internal/app/models"
)

const teacherAssignmentsPath = "/teacher/assignments"

// ListAssignments returns the assignments set by the teacher
func (a *API) ListAssignments(ctx context.Context) ([]models.Assignment, error) {
	return list[models.Assignment](ctx, a, teacherAssignmentsPath, "assignments", nil)
}

// CreateAssignment creates an assignment
func (a *API) CreateAssignment(ctx context.Context, in models.AssignmentRequest) (models.Assignment, error) {
	return write[models.Assignment](ctx, a, http.MethodPost, teacherAssignmentsPath, "assignment", in)
}

// UpdateAssignment saves changes to the assignment with the given id
func (a *API) UpdateAssignment(ctx context.Context, id string, in models.AssignmentRequest) (models.Assignment, error) {
	return write[models.Assignment](ctx, a, http.MethodPut, itemPath(teacherAssignmentsPath, id), "assignment", in)
}

// DeleteAssignment removes the assignment with the given id
func (a *API) DeleteAssignment(ctx context.Context, id string) error {
	return remove(ctx, a, itemPath(teacherAssignmentsPath, id))
}

// Submissions lists the submissions handed in for one assignment
func (a *API) Submissions(ctx context.Context, assignmentID string) ([]models.Submission, error) {
	return list[models.Submission](ctx, a, itemPath(teacherAssignmentsPath, assignmentID)+"/submissions", "submissions", nil)
}

// GradeSubmission scores a submission
func (a *API) GradeSubmission(ctx context.Context, submissionID string, in models.GradeSubmissionRequest) (models.Submission, error) {
	return write[models.Submission](ctx, a, http.MethodPut, itemPath("/teacher/submissions", submissionID)+"/grade", "submission", in)
}

// StudentAssignments lists the signed in student's assignments
func (a *API) StudentAssignments(ctx context.Context) ([]models.Assignment, error) {
	return list[models.Assignment](ctx, a, "/student/assignments", "assignments", nil)
}

// SubmitAssignment hands in the student's work
func (a *API) SubmitAssignment(ctx context.Context, assignmentID string, in models.SubmitAssignmentRequest) (models.Submission, error) {
	return write[models.Submission](ctx, a, http.MethodPost, itemPath("/student/assignments", assignmentID)+"/submit", "submission", in)
}

// ChildAssignments lists one child's assignments for the signed in parent
func (a *API) ChildAssignments(ctx context.Context, childID string) ([]models.Assignment, error) {
	return list[models.Assignment](ctx, a, itemPath(childrenPath, childID)+"/assignments", "assignments", nil)
}
