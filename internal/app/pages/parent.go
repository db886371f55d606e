package pages

import (
	"context"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/yigit/schoolportal/internal/apiclient"
	"github.com/yigit/schoolportal/internal/app/models"
	"github.com/yigit/schoolportal/internal/app/views"
)

const (
	keyChildren         = "parent/children"
	keyChildAssignments = "parent/assignments"
	keyChildAttendance  = "parent/attendance"
)

func childClass(ch models.Child) string {
	if ch.ClassName != "" {
		return ch.ClassName
	}
	return models.RefName(ch.Class)
}

// childOptions lists the signed in parent's children
func childOptions(c *gin.Context, r *Renderer) ([]views.Option, error) {
	api := r.API(c)
	children, err := cached(r, c, keyChildren, func(ctx context.Context) ([]models.Child, error) {
		return api.Children(ctx)
	})
	if err != nil {
		return nil, err
	}
	opts := make([]views.Option, len(children))
	for i, ch := range children {
		opts[i] = views.Option{Value: ch.ID.String(), Label: ch.Name()}
	}
	return opts, nil
}

var childScope = &Scope{Param: "child", Label: "Child", Options: childOptions}

func (r *Renderer) children() *Resource[models.Child, none] {
	return &Resource[models.Child, none]{
		Key:   keyChildren,
		Title: "My Children",
		Empty: "No children are linked to your account.",
		ID:    func(ch models.Child) string { return ch.ID.String() },
		Columns: []Column[models.Child]{
			{Header: "Name", Value: func(ch models.Child) string { return ch.Name() }},
			{Header: "Class", Value: childClass},
		},
		List: (*apiclient.API).Children,
		Actions: func(_ string, ch models.Child) []views.Link {
			q := "?" + url.Values{"child": {ch.ID.String()}}.Encode()
			return []views.Link{
				{Label: "Assignments", Href: "/parent/assignments" + q},
				{Label: "Attendance", Href: "/parent/attendance" + q},
			}
		},
		r: r,
	}
}

func (r *Renderer) childAssignments() *Resource[models.Assignment, none] {
	return &Resource[models.Assignment, none]{
		Key:   keyChildAssignments,
		Title: "Assignments",
		Empty: "No assignments for this child.",
		ID:    func(a models.Assignment) string { return a.ID.String() },
		Columns: []Column[models.Assignment]{
			{Header: "Title", Value: func(a models.Assignment) string { return a.Title }},
			{Header: "Subject", Value: func(a models.Assignment) string { return refOr(a.Subject, a.SubjectID) }},
			{Header: "Due", Value: func(a models.Assignment) string { return a.DueDate }},
			{Header: "Status", Value: func(a models.Assignment) string { return models.Display(a.Status) }},
		},
		Scope:      childScope,
		ScopedList: (*apiclient.API).ChildAssignments,
		r:          r,
	}
}

func (r *Renderer) childAttendance() *Resource[models.AttendanceRecord, none] {
	return &Resource[models.AttendanceRecord, none]{
		Key:   keyChildAttendance,
		Title: "Attendance",
		Empty: "No attendance has been recorded for this child.",
		ID:    func(a models.AttendanceRecord) string { return a.ID.String() },
		Columns: []Column[models.AttendanceRecord]{
			{Header: "Date", Value: func(a models.AttendanceRecord) string { return dateOnly(a.Date) }},
			{Header: "Status", Value: func(a models.AttendanceRecord) string { return capitalize(string(a.Status)) }},
		},
		Scope:      childScope,
		ScopedList: (*apiclient.API).ChildAttendance,
		r:          r,
	}
}
