package pages

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yigit/schoolportal/internal/app/models"
	"github.com/yigit/schoolportal/internal/app/routes"
	"github.com/yigit/schoolportal/internal/app/services"
	"github.com/yigit/schoolportal/internal/app/views"
)

// dashboards renders the landing page of every role
type dashboards struct {
	r       *Renderer
	service *services.DashboardService
}

func (d *dashboards) page(build func(c *gin.Context) (views.Dashboard, error)) routes.MounterFunc {
	return func(rg *gin.RouterGroup) {
		rg.GET("", func(c *gin.Context) {
			view, err := build(c)
			if err != nil {
				d.r.Fail(c, err)
				return
			}
			d.r.Page(c, http.StatusOK, "dashboard.html", view.Heading, view)
		})
	}
}

func card(label string, n int, link string) views.Card {
	return views.Card{Label: label, Value: strconv.Itoa(n), Link: link}
}

func percentCard(label string, f float64, link string) views.Card {
	return views.Card{Label: label, Value: fmt.Sprintf("%.1f%%", f), Link: link}
}

func (d *dashboards) superAdmin(c *gin.Context) (views.Dashboard, error) {
	stats, err := d.service.SuperAdmin(c.Request.Context(), d.r.API(c))
	if err != nil {
		return views.Dashboard{}, err
	}
	return views.Dashboard{
		Heading: "Platform overview",
		Cards: []views.Card{
			card("Users", stats.Users, "/super-admin/users"),
			card("Schools", stats.Schools, "/super-admin/schools"),
		},
	}, nil
}

func (d *dashboards) schoolAdmin(c *gin.Context) (views.Dashboard, error) {
	stats, err := d.service.SchoolAdmin(c.Request.Context(), d.r.API(c))
	if err != nil {
		return views.Dashboard{}, err
	}
	return views.Dashboard{
		Heading: "School overview",
		Cards: []views.Card{
			card("Departments", stats.Departments, "/school-admin/departments"),
			card("Subjects", stats.Subjects, "/school-admin/subjects"),
			card("Classes", stats.Classes, "/school-admin/classes"),
			card("Teachers", stats.Teachers, "/school-admin/teachers"),
			card("Students", stats.Students, "/school-admin/students"),
			card("Parents", stats.Parents, "/school-admin/parents"),
		},
	}, nil
}

func (d *dashboards) teacher(c *gin.Context) (views.Dashboard, error) {
	stats, err := d.service.Teacher(c.Request.Context(), d.r.API(c))
	if err != nil {
		return views.Dashboard{}, err
	}
	return views.Dashboard{
		Heading: "Teaching overview",
		Cards: []views.Card{
			card("My classes", stats.Classes, "/teacher/classes"),
			card("My subjects", stats.Subjects, "/teacher/subjects"),
			card("Assignments", stats.Assignments, "/teacher/assignments"),
			card("Announcements", stats.Announcements, "/teacher/announcements"),
		},
	}, nil
}

func (d *dashboards) student(c *gin.Context) (views.Dashboard, error) {
	stats, err := d.service.Student(c.Request.Context(), d.r.API(c))
	if err != nil {
		return views.Dashboard{}, err
	}
	average := stats.AverageGrade
	if stats.GradeCount > 0 {
		average = stats.GradeAverage
	}
	return views.Dashboard{
		Heading: "My studies",
		Cards: []views.Card{
			card("Subjects", stats.SubjectCount, "/student/subjects"),
			card("Pending assignments", stats.PendingAssignments, "/student/assignments"),
			card("Completed assignments", stats.CompletedAssignments, "/student/assignments"),
			percentCard("Average grade", average, "/student/grades"),
			percentCard("Attendance", stats.AttendanceRate, ""),
		},
	}, nil
}

func (d *dashboards) parent(c *gin.Context) (views.Dashboard, error) {
	summary, err := d.service.Parent(c.Request.Context(), d.r.API(c))
	if err != nil {
		return views.Dashboard{}, err
	}

	view := views.Dashboard{
		Heading: "My children",
		Cards: []views.Card{
			card("Children", summary.Children, "/parent/children"),
			percentCard("Average grade", summary.AverageGrade, ""),
			percentCard("Attendance", summary.AttendanceRate, "/parent/attendance"),
			card("Pending assignments", summary.PendingAssignments, "/parent/assignments"),
			card("Completed assignments", summary.CompletedAssignments, "/parent/assignments"),
		},
	}
	if summary.Reporting < summary.Children {
		view.Notice = fmt.Sprintf("Performance is unavailable for %d of %d children; the figures above leave them out.",
			summary.Children-summary.Reporting, summary.Children)
	}
	if summary.Children == 0 {
		return view, nil
	}

	table := &views.Table{
		Title:   "Per child",
		Headers: []string{"Child", "Class", "Average grade", "Attendance", "Pending", "Completed"},
	}
	for _, row := range summary.PerChild {
		q := "?" + url.Values{"child": {row.Child.ID.String()}}.Encode()
		r := views.Row{
			ID: row.Child.ID.String(),
			Cells: []views.Cell{
				{Text: row.Child.Name()},
				{Text: childClass(row.Child)},
			},
			Actions: []views.Link{
				{Label: "Assignments", Href: "/parent/assignments" + q},
				{Label: "Attendance", Href: "/parent/attendance" + q},
			},
		}
		if row.Reported {
			p := row.Performance
			r.Cells = append(r.Cells,
				views.Cell{Text: fmt.Sprintf("%.1f%%", p.AverageGrade)},
				views.Cell{Text: fmt.Sprintf("%.1f%%", p.AttendanceRate)},
				views.Cell{Text: strconv.Itoa(p.PendingAssignments)},
				views.Cell{Text: strconv.Itoa(p.CompletedAssignments)},
			)
		} else {
			for i := 0; i < 4; i++ {
				r.Cells = append(r.Cells, views.Cell{Text: models.Placeholder})
			}
		}
		table.Rows = append(table.Rows, r)
	}
	view.Table = table
	return view, nil
}
