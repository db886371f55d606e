package pages

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yigit/schoolportal/internal/apiclient"
	"github.com/yigit/schoolportal/internal/app/models"
	"github.com/yigit/schoolportal/internal/app/views"
	"github.com/yigit/schoolportal/internal/pkg/helpers"
	"github.com/yigit/schoolportal/internal/session"
)

// attendance is the teacher's roll call: pick a class and a date, see who
// was recorded, and record the whole class at once
type attendance struct {
	r   *Renderer
	now func() time.Time
}

func (r *Renderer) attendance() *attendance {
	return &attendance{r: r, now: time.Now}
}

// Mount registers GET and POST on the attendance route
func (a *attendance) Mount(rg *gin.RouterGroup) {
	rg.GET("", a.show)
	rg.POST("", a.save)
}

// date returns s when it is a valid date, else today
func (a *attendance) date(s string) string {
	if helpers.ValidDate(s) {
		return s
	}
	return helpers.Today(a.now())
}

func (a *attendance) show(c *gin.Context) {
	classes, err := teacherClassOptions(c, a.r)
	if err != nil {
		a.r.Fail(c, err)
		return
	}

	view := views.Attendance{
		Filter:   views.Filter{Param: "class", Label: "Class", Options: classes, Selected: c.Query("class")},
		Date:     a.date(c.Query("date")),
		Statuses: models.AttendanceStatuses,
	}
	if view.Filter.Selected == "" && len(classes) > 0 {
		view.Filter.Selected = classes[0].Value
	}
	view.Filter.Date = view.Date
	view.ClassID = view.Filter.Selected

	if view.ClassID != "" {
		api := a.r.API(c)
		classID, date := view.ClassID, view.Date
		students, err := cached(a.r, c, keyTeacherClasses+"/"+classID+"/students", func(ctx context.Context) ([]models.Student, error) {
			return api.ClassStudents(ctx, classID)
		})
		if err != nil {
			a.r.Fail(c, err)
			return
		}
		records, err := cached(a.r, c, attendanceKey(classID, date), func(ctx context.Context) ([]models.AttendanceRecord, error) {
			return api.ClassAttendance(ctx, classID, date)
		})
		if err != nil {
			a.r.Fail(c, err)
			return
		}

		recorded := make(map[string]models.AttendanceStatus, len(records))
		for _, rec := range records {
			recorded[rec.StudentID.String()] = rec.Status
		}
		view.Recorded = len(records) > 0
		for _, s := range students {
			status, ok := recorded[s.ID.String()]
			if !ok {
				status = models.AttendancePresent
			}
			view.Rows = append(view.Rows, views.AttendanceRow{StudentID: s.ID.String(), Name: s.Name(), Status: status})
		}
	}

	a.r.Page(c, http.StatusOK, "attendance.html", "Attendance", view)
}

func (a *attendance) save(c *gin.Context) {
	classID := c.PostForm("classId")
	date := a.date(c.PostForm("date"))
	back := "/teacher/attendance?" + url.Values{"class": {classID}, "date": {date}}.Encode()
	if classID == "" {
		a.r.Flash(c, session.ToastError, "Choose a class first")
		c.Redirect(http.StatusSeeOther, "/teacher/attendance")
		return
	}

	req := models.MarkAttendanceRequest{ClassID: classID, Date: date}
	for _, id := range c.PostFormArray("studentId") {
		status := models.AttendanceStatus(c.PostForm("status_" + id))
		if !validStatus(status) {
			status = models.AttendancePresent
		}
		req.Records = append(req.Records, models.AttendanceEntry{StudentID: id, Status: status})
	}
	if len(req.Records) == 0 {
		a.r.Flash(c, session.ToastError, "There are no students to record")
		c.Redirect(http.StatusSeeOther, back)
		return
	}

	if err := a.r.API(c).MarkAttendance(c.Request.Context(), req); err != nil {
		if apiclient.IsSessionExpired(err) {
			a.r.Fail(c, err)
			return
		}
		a.r.Flash(c, session.ToastError, failureMessage(err, "Failed to save attendance"))
		c.Redirect(http.StatusSeeOther, back)
		return
	}

	a.r.Invalidate(c, attendanceKey(classID, date))
	a.r.Flash(c, session.ToastSuccess, "Attendance saved")
	c.Redirect(http.StatusSeeOther, back)
}

func attendanceKey(classID, date string) string {
	return keyAttendance + "?class=" + classID + "&date=" + date
}

func validStatus(s models.AttendanceStatus) bool {
	for _, known := range models.AttendanceStatuses {
		if s == known {
			return true
		}
	}
	return false
}
