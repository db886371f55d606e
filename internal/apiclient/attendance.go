package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/yigit/schoolportal/internal/app/models"
)

const attendancePath = "/teacher/attendance"

// ClassAttendance lists the records of a class on a date (YYYY-MM-DD)
func (a *API) ClassAttendance(ctx context.Context, classID, date string) ([]models.AttendanceRecord, error) {
	q := url.Values{}
	q.Set("classId", classID)
	if date != "" {
		q.Set("date", date)
	}
	return list[models.AttendanceRecord](ctx, a, attendancePath, "attendance", q)
}

// MarkAttendance records a roll call for a class
func (a *API) MarkAttendance(ctx context.Context, in models.MarkAttendanceRequest) error {
	_, err := write[struct{}](ctx, a, http.MethodPost, attendancePath, "", in)
	return err
}

// ChildAttendance lists one child's attendance for the signed in parent
func (a *API) ChildAttendance(ctx context.Context, childID string) ([]models.AttendanceRecord, error) {
	return list[models.AttendanceRecord](ctx, a, itemPath(childrenPath, childID)+"/attendance", "attendance", nil)
}
