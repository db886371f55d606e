package pages

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/yigit/schoolportal/internal/apiclient"
	"github.com/yigit/schoolportal/internal/app/models"
	"github.com/yigit/schoolportal/internal/app/services"
	"github.com/yigit/schoolportal/internal/app/views"
	"github.com/yigit/schoolportal/internal/middleware"
	"github.com/yigit/schoolportal/internal/session"
)

const (
	keyStudentSubjects    = "student/subjects"
	keyStudentAssignments = "student/assignments"
	keyStudentMaterials   = "student/materials"
	keyStudentSyllabi     = "student/syllabi"
	keyGrades             = "student/grades"
)

func (r *Renderer) studentSubjects() *Resource[models.Subject, none] {
	return &Resource[models.Subject, none]{
		Key:   keyStudentSubjects,
		Title: "Subjects",
		Empty: "You are not enrolled in any subject yet.",
		ID:    func(s models.Subject) string { return s.ID.String() },
		Columns: []Column[models.Subject]{
			{Header: "Name", Value: func(s models.Subject) string { return s.Name }},
			{Header: "Code", Value: func(s models.Subject) string { return s.Code }},
			{Header: "Description", Value: func(s models.Subject) string { return truncate(s.Description, 100) }},
		},
		List: (*apiclient.API).StudentSubjects,
		r:    r,
	}
}

var submitFields = []Field{
	{Name: "content", Label: "Answer", Type: TypeTextarea},
	{Name: "fileUrl", Label: "Link", Type: TypeURL, Placeholder: "https://"},
}

func (r *Renderer) studentAssignments() *Resource[models.Assignment, none] {
	res := &Resource[models.Assignment, none]{
		Key:   keyStudentAssignments,
		Title: "Assignments",
		Empty: "No assignments have been set for you.",
		ID:    func(a models.Assignment) string { return a.ID.String() },
		Columns: []Column[models.Assignment]{
			{Header: "Title", Value: func(a models.Assignment) string { return a.Title }},
			{Header: "Subject", Value: func(a models.Assignment) string { return refOr(a.Subject, a.SubjectID) }},
			{Header: "Due", Value: func(a models.Assignment) string { return a.DueDate }},
			{Header: "Status", Value: func(a models.Assignment) string { return a.Status }},
		},
		List: (*apiclient.API).StudentAssignments,
		Actions: func(base string, a models.Assignment) []views.Link {
			if a.Status == "graded" {
				return nil
			}
			return []views.Link{{Label: "Submit", Href: base + "/" + url.PathEscape(a.ID.String()) + "/submit"}}
		},
		r: r,
	}
	res.Extend = func(rg *gin.RouterGroup, base string) {
		rg.GET("/:id/submit", func(c *gin.Context) {
			assignment, ok := res.find(c, c.Param("id"))
			if !ok {
				return
			}
			res.render(c, base, http.StatusOK, r.submitDialog(c, base, assignment, models.SubmitAssignmentRequest{}, nil))
		})
		rg.POST("/:id/submit", func(c *gin.Context) { r.submitAssignment(c, res, base) })
	}
	return res
}

func (r *Renderer) submitDialog(c *gin.Context, base string, a models.Assignment, form models.SubmitAssignmentRequest, errs map[string]string) *views.Dialog {
	fields, _ := r.fieldViews(c, submitFields, &form, errs, false)
	fields = append(fields, views.FieldView{Name: "file", Label: "Or upload a file", Type: TypeFile})
	return &views.Dialog{
		Mode:      views.DialogCustom,
		Title:     "Submit: " + a.Title,
		Message:   truncate(a.Description, 400),
		Action:    base + "/" + url.PathEscape(a.ID.String()) + "/submit",
		Submit:    "Submit",
		Cancel:    base,
		Fields:    fields,
		Error:     errs[""],
		Multipart: true,
	}
}

func (r *Renderer) submitAssignment(c *gin.Context, res *Resource[models.Assignment, none], base string) {
	assignment, ok := res.find(c, c.Param("id"))
	if !ok {
		return
	}

	api := r.API(c)
	var form models.SubmitAssignmentRequest
	if err := bindUnvalidated(c, &form); err != nil {
		res.render(c, base, http.StatusUnprocessableEntity, r.submitDialog(c, base, assignment, form, middleware.FieldErrors(err, &form)))
		return
	}
	fileURL, err := uploadFile(c, api)
	if err == nil && fileURL != "" {
		form.FileURL = fileURL
	}
	if err == nil {
		if verr := binding.Validator.ValidateStruct(&form); verr != nil {
			res.render(c, base, http.StatusUnprocessableEntity, r.submitDialog(c, base, assignment, form, middleware.FieldErrors(verr, &form)))
			return
		}
		_, err = api.SubmitAssignment(c.Request.Context(), assignment.ID.String(), form)
	}
	if err != nil {
		if apiclient.IsSessionExpired(err) {
			r.Fail(c, err)
			return
		}
		d := r.submitDialog(c, base, assignment, form, nil)
		d.Error = failureMessage(err, "Failed to submit assignment")
		res.render(c, base, mutationStatus(err), d)
		return
	}

	r.Invalidate(c, keyStudentAssignments)
	r.Flash(c, session.ToastSuccess, "Assignment submitted")
	c.Redirect(http.StatusSeeOther, base)
}

func (r *Renderer) studentMaterials() *Resource[models.Material, none] {
	return &Resource[models.Material, none]{
		Key:   keyStudentMaterials,
		Title: "Materials",
		Empty: "No materials have been shared with you.",
		ID:    func(m models.Material) string { return m.ID.String() },
		Columns: []Column[models.Material]{
			{Header: "Title", Value: func(m models.Material) string { return m.Title }},
			{Header: "Subject", Value: func(m models.Material) string { return refOr(m.Subject, m.SubjectID) }},
			{Header: "Description", Value: func(m models.Material) string { return truncate(m.Description, 100) }},
			{Header: "File", Value: func(m models.Material) string { return fileLink(m.FileURL) }, Link: func(m models.Material) string { return m.FileURL }},
		},
		List: (*apiclient.API).StudentMaterials,
		r:    r,
	}
}

func (r *Renderer) studentSyllabi() *Resource[models.Syllabus, none] {
	return &Resource[models.Syllabus, none]{
		Key:   keyStudentSyllabi,
		Title: "Syllabi",
		ID:    func(s models.Syllabus) string { return s.ID.String() },
		Columns: []Column[models.Syllabus]{
			{Header: "Title", Value: func(s models.Syllabus) string { return s.Title }},
			{Header: "Subject", Value: func(s models.Syllabus) string { return refOr(s.Subject, s.SubjectID) }},
			{Header: "Academic year", Value: func(s models.Syllabus) string { return s.AcademicYear }},
			{Header: "File", Value: func(s models.Syllabus) string { return fileLink(s.FileURL) }, Link: func(s models.Syllabus) string { return s.FileURL }},
		},
		List: (*apiclient.API).StudentSyllabi,
		r:    r,
	}
}

// studentGrades lists the grades with the overall average as subtitle
type studentGrades struct {
	*Resource[models.Grade, none]
}

func (r *Renderer) studentGrades() *studentGrades {
	g := &studentGrades{&Resource[models.Grade, none]{
		Key:   keyGrades,
		Title: "Grades",
		Empty: "No grades yet.",
		ID:    func(g models.Grade) string { return g.ID.String() },
		Columns: []Column[models.Grade]{
			{Header: "Subject", Value: func(g models.Grade) string { return g.SubjectName }},
			{Header: "Assignment", Value: func(g models.Grade) string { return g.Assignment }},
			{Header: "Score", Value: func(g models.Grade) string { return formatScore(g.Score) }},
			{Header: "Max", Value: func(g models.Grade) string {
				if g.MaxScore <= 0 {
					return ""
				}
				return formatScore(g.MaxScore)
			}},
			{Header: "Percent", Value: func(g models.Grade) string { return fmt.Sprintf("%.1f%%", g.Percent()) }},
			{Header: "Term", Value: func(g models.Grade) string { return g.Term }},
		},
		List: (*apiclient.API).StudentGrades,
		r:    r,
	}}
	return g
}

// Mount registers the grade list, refreshing the average on each render
func (g *studentGrades) Mount(rg *gin.RouterGroup) {
	base := rg.BasePath()
	rg.GET("", func(c *gin.Context) {
		grades, _, err := g.items(c)
		if err != nil {
			g.r.Fail(c, err)
			return
		}
		res := *g.Resource
		if len(grades) > 0 {
			res.Subtitle = fmt.Sprintf("Average %.1f%% over %d grades", services.AverageGrade(grades), len(grades))
		}
		res.render(c, base, http.StatusOK, nil)
	})
	rg.GET("/export.xlsx", g.export)
}
