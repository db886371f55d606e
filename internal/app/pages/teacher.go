package pages

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/yigit/schoolportal/internal/apiclient"
	"github.com/yigit/schoolportal/internal/app/models"
	"github.com/yigit/schoolportal/internal/app/views"
	"github.com/yigit/schoolportal/internal/middleware"
	"github.com/yigit/schoolportal/internal/pkg/apperrors"
	"github.com/yigit/schoolportal/internal/session"
)

const (
	keyTeacherClasses  = "teacher/classes"
	keyTeacherSubjects = "teacher/subjects"
	keyMaterials       = "teacher/materials"
	keyAssignments     = "teacher/assignments"
	keySyllabi         = "teacher/syllabi"
	keyAnnouncements   = "teacher/announcements"
	keyAttendance      = "teacher/attendance"
)

const maxUploadSize int64 = 20 << 20

var (
	teacherClassOptions = listOptions(keyTeacherClasses, (*apiclient.API).TeacherClasses, func(cl models.Class) views.Option {
		return views.Option{Value: cl.ID.String(), Label: cl.Name}
	})
	teacherSubjectOptions = listOptions(keyTeacherSubjects, (*apiclient.API).TeacherSubjects, func(s models.Subject) views.Option {
		return views.Option{Value: s.ID.String(), Label: s.Name}
	})
)

func fileLink(u string) string {
	if u == "" {
		return ""
	}
	return "Open"
}

func (r *Renderer) teacherClasses() *Resource[models.Class, none] {
	res := &Resource[models.Class, none]{
		Key:   keyTeacherClasses,
		Title: "My Classes",
		Empty: "You are not assigned to any class yet.",
		ID:    func(cl models.Class) string { return cl.ID.String() },
		Columns: []Column[models.Class]{
			{Header: "Name", Value: func(cl models.Class) string { return cl.Name }},
			{Header: "Academic level", Value: func(cl models.Class) string { return refOr(cl.AcademicLevel, cl.AcademicLevelID) }},
			{Header: "Academic year", Value: func(cl models.Class) string { return cl.AcademicYear }},
		},
		List: (*apiclient.API).TeacherClasses,
		Actions: func(base string, cl models.Class) []views.Link {
			id := url.PathEscape(cl.ID.String())
			return []views.Link{
				{Label: "Students", Href: base + "/" + id + "/students"},
				{Label: "Attendance", Href: "/teacher/attendance?" + url.Values{"class": {cl.ID.String()}}.Encode()},
			}
		},
		r: r,
	}
	res.Extend = func(rg *gin.RouterGroup, base string) {
		rg.GET("/:id/students", func(c *gin.Context) { r.classStudents(c, res, base) })
	}
	return res
}

// classStudents lists the students of one of the teacher's classes
func (r *Renderer) classStudents(c *gin.Context, classes *Resource[models.Class, none], base string) {
	class, ok := classes.find(c, c.Param("id"))
	if !ok {
		return
	}
	api := r.API(c)
	classID := class.ID.String()
	students, err := cached(r, c, keyTeacherClasses+"/"+classID+"/students", func(ctx context.Context) ([]models.Student, error) {
		return api.ClassStudents(ctx, classID)
	})
	if err != nil {
		r.Fail(c, err)
		return
	}

	rows := make([]views.Row, 0, len(students))
	for _, s := range students {
		rows = append(rows, views.Row{
			ID: s.ID.String(),
			Cells: []views.Cell{
				{Text: s.Name()},
				{Text: s.StudentNumber},
				{Text: s.Email},
			},
		})
	}
	r.Page(c, http.StatusOK, "resource.html", class.Name, views.Table{
		Title:    class.Name + " students",
		Subtitle: fmt.Sprintf("%d students", len(students)),
		Base:     base,
		Headers:  []string{"Name", "Student number", "Email"},
		Rows:     rows,
		Empty:    "No students are enrolled in this class.",
		Toolbar:  []views.Link{{Label: "Back to classes", Href: base}},
	})
}

func (r *Renderer) teacherSubjects() *Resource[models.Subject, none] {
	return &Resource[models.Subject, none]{
		Key:   keyTeacherSubjects,
		Title: "My Subjects",
		Empty: "You are not teaching any subject yet.",
		ID:    func(s models.Subject) string { return s.ID.String() },
		Columns: []Column[models.Subject]{
			{Header: "Name", Value: func(s models.Subject) string { return s.Name }},
			{Header: "Code", Value: func(s models.Subject) string { return s.Code }},
			{Header: "Department", Value: func(s models.Subject) string { return refOr(s.Department, s.DepartmentID) }},
		},
		List: (*apiclient.API).TeacherSubjects,
		r:    r,
	}
}

// uploadFile stores the optional "file" part of a multipart form and
// returns its URL, or "" when no file was sent
func uploadFile(c *gin.Context, api *apiclient.API) (string, error) {
	header, err := c.FormFile("file")
	if err != nil || header.Size == 0 {
		return "", nil
	}
	if header.Size > maxUploadSize {
		return "", fmt.Errorf("%w: %s is larger than 20 MB", apperrors.ErrInvalidUpload, header.Filename)
	}
	f, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrInvalidUpload, err)
	}
	defer f.Close()

	uploaded, err := api.Upload(c.Request.Context(), header.Filename, f)
	if err != nil {
		return "", err
	}
	return uploaded.URL, nil
}

// bindUnvalidated maps the posted form into obj without running its
// validation, for forms whose rules depend on an upload made afterwards
func bindUnvalidated(c *gin.Context, obj interface{}) error {
	if _, err := c.MultipartForm(); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return fmt.Errorf("%w: %v", apperrors.ErrBadRequest, err)
	}
	if err := binding.MapFormWithTag(obj, c.Request.Form, "form"); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrBadRequest, err)
	}
	return nil
}

func (r *Renderer) materials() *Resource[models.Material, models.MaterialRequest] {
	return &Resource[models.Material, models.MaterialRequest]{
		Key:      keyMaterials,
		Title:    "Materials",
		Singular: "material",
		ID:       func(m models.Material) string { return m.ID.String() },
		Columns: []Column[models.Material]{
			{Header: "Title", Value: func(m models.Material) string { return m.Title }},
			{Header: "Class", Value: func(m models.Material) string { return refOr(m.Class, m.ClassID) }},
			{Header: "Subject", Value: func(m models.Material) string { return refOr(m.Subject, m.SubjectID) }},
			{Header: "File", Value: func(m models.Material) string { return fileLink(m.FileURL) }, Link: func(m models.Material) string { return m.FileURL }},
		},
		Fields: []Field{
			{Name: "title", Label: "Title", Required: true},
			{Name: "description", Label: "Description", Type: TypeTextarea},
			{Name: "classId", Label: "Class", Type: TypeSelect, Required: true, Options: teacherClassOptions},
			{Name: "subjectId", Label: "Subject", Type: TypeSelect, Required: true, Options: teacherSubjectOptions},
			{Name: "fileUrl", Label: "Link", Type: TypeURL, Placeholder: "https://"},
			{Name: "file", Label: "Or upload a file", Type: TypeFile, Help: "An uploaded file replaces the link"},
		},
		List:   (*apiclient.API).ListMaterials,
		Create: (*apiclient.API).CreateMaterial,
		Update: (*apiclient.API).UpdateMaterial,
		Delete: (*apiclient.API).DeleteMaterial,
		Prepare: func(c *gin.Context, api *apiclient.API, form *models.MaterialRequest) error {
			u, err := uploadFile(c, api)
			if err != nil {
				return err
			}
			if u != "" {
				form.FileURL = u
			}
			return nil
		},
		ToForm: func(m models.Material) models.MaterialRequest {
			return models.MaterialRequest{
				Title:       m.Title,
				Description: m.Description,
				FileURL:     m.FileURL,
				ClassID:     m.ClassID.String(),
				SubjectID:   m.SubjectID.String(),
			}
		},
		r: r,
	}
}

func (r *Renderer) assignments() *Resource[models.Assignment, models.AssignmentRequest] {
	res := &Resource[models.Assignment, models.AssignmentRequest]{
		Key:      keyAssignments,
		Title:    "Assignments",
		Singular: "assignment",
		ID:       func(a models.Assignment) string { return a.ID.String() },
		Columns: []Column[models.Assignment]{
			{Header: "Title", Value: func(a models.Assignment) string { return a.Title }},
			{Header: "Class", Value: func(a models.Assignment) string { return refOr(a.Class, a.ClassID) }},
			{Header: "Subject", Value: func(a models.Assignment) string { return refOr(a.Subject, a.SubjectID) }},
			{Header: "Due", Value: func(a models.Assignment) string { return a.DueDate }},
			{Header: "Max score", Value: func(a models.Assignment) string { return formatScore(a.MaxScore) }},
		},
		Fields: []Field{
			{Name: "title", Label: "Title", Required: true},
			{Name: "description", Label: "Instructions", Type: TypeTextarea},
			{Name: "classId", Label: "Class", Type: TypeSelect, Required: true, Options: teacherClassOptions},
			{Name: "subjectId", Label: "Subject", Type: TypeSelect, Required: true, Options: teacherSubjectOptions},
			{Name: "dueDate", Label: "Due date", Type: TypeDate, Required: true},
			{Name: "maxScore", Label: "Max score", Type: TypeNumber},
		},
		List:   (*apiclient.API).ListAssignments,
		Create: (*apiclient.API).CreateAssignment,
		Update: (*apiclient.API).UpdateAssignment,
		Delete: (*apiclient.API).DeleteAssignment,
		ToForm: func(a models.Assignment) models.AssignmentRequest {
			return models.AssignmentRequest{
				Title:       a.Title,
				Description: a.Description,
				ClassID:     a.ClassID.String(),
				SubjectID:   a.SubjectID.String(),
				DueDate:     dateOnly(a.DueDate),
				MaxScore:    a.MaxScore,
			}
		},
		Actions: func(base string, a models.Assignment) []views.Link {
			return []views.Link{{Label: "Submissions", Href: base + "/" + url.PathEscape(a.ID.String()) + "/submissions"}}
		},
		r: r,
	}
	res.Extend = func(rg *gin.RouterGroup, base string) {
		s := &submissions{r: r, assignments: res, base: base}
		rg.GET("/:id/submissions", s.list)
		rg.GET("/:id/submissions/:sid/grade", s.gradeForm)
		rg.POST("/:id/submissions/:sid/grade", s.grade)
	}
	return res
}

// submissions is the per assignment submission list with its grading dialog
type submissions struct {
	r           *Renderer
	assignments *Resource[models.Assignment, models.AssignmentRequest]
	base        string
}

var gradeFields = []Field{
	{Name: "score", Label: "Score", Type: TypeNumber, Required: true},
	{Name: "feedback", Label: "Feedback", Type: TypeTextarea},
}

func (s *submissions) key(assignmentID string) string {
	return keyAssignments + "/" + assignmentID + "/submissions"
}

func (s *submissions) path(assignmentID string) string {
	return s.base + "/" + url.PathEscape(assignmentID) + "/submissions"
}

func (s *submissions) load(c *gin.Context, assignmentID string) ([]models.Submission, error) {
	api := s.r.API(c)
	return cached(s.r, c, s.key(assignmentID), func(ctx context.Context) ([]models.Submission, error) {
		return api.Submissions(ctx, assignmentID)
	})
}

func (s *submissions) list(c *gin.Context) {
	s.render(c, http.StatusOK, nil)
}

func (s *submissions) render(c *gin.Context, status int, dialog *views.Dialog) {
	assignment, ok := s.assignments.find(c, c.Param("id"))
	if !ok {
		return
	}
	aid := assignment.ID.String()
	items, err := s.load(c, aid)
	if err != nil {
		s.r.Fail(c, err)
		return
	}

	graded := 0
	rows := make([]views.Row, 0, len(items))
	for _, sub := range items {
		score := ""
		if sub.Graded() {
			graded++
			score = formatScore(*sub.Score)
			if assignment.MaxScore > 0 {
				score += " / " + formatScore(assignment.MaxScore)
			}
		}
		rows = append(rows, views.Row{
			ID: sub.ID.String(),
			Cells: []views.Cell{
				{Text: sub.StudentName},
				{Text: sub.SubmittedAt},
				{Text: truncate(sub.Content, 80)},
				{Text: fileLink(sub.FileURL), Link: sub.FileURL},
				{Text: score},
				{Text: truncate(sub.Feedback, 60)},
			},
			Actions: []views.Link{{Label: "Grade", Href: s.path(aid) + "/" + url.PathEscape(sub.ID.String()) + "/grade"}},
		})
	}

	s.r.Page(c, status, "resource.html", assignment.Title, views.Table{
		Title:    "Submissions: " + assignment.Title,
		Subtitle: fmt.Sprintf("%d submitted, %d graded", len(items), graded),
		Base:     s.path(aid),
		Headers:  []string{"Student", "Submitted", "Answer", "File", "Score", "Feedback"},
		Rows:     rows,
		Empty:    "No submissions yet.",
		Toolbar:  []views.Link{{Label: "Back to assignments", Href: s.base}},
		Dialog:   dialog,
	})
}

func (s *submissions) dialog(c *gin.Context, form models.GradeSubmissionRequest, errs map[string]string) *views.Dialog {
	aid, sid := c.Param("id"), c.Param("sid")
	fields, _ := s.r.fieldViews(c, gradeFields, &form, errs, false)
	return &views.Dialog{
		Mode:   views.DialogCustom,
		Title:  "Grade submission",
		Action: s.path(aid) + "/" + url.PathEscape(sid) + "/grade",
		Submit: "Save grade",
		Cancel: s.path(aid),
		Fields: fields,
		Error:  errs[""],
	}
}

func (s *submissions) gradeForm(c *gin.Context) {
	items, err := s.load(c, c.Param("id"))
	if err != nil {
		s.r.Fail(c, err)
		return
	}
	var form models.GradeSubmissionRequest
	found := false
	for _, sub := range items {
		if sub.ID.String() == c.Param("sid") {
			found = true
			if sub.Score != nil {
				form.Score = *sub.Score
			}
			form.Feedback = sub.Feedback
		}
	}
	if !found {
		s.r.Fail(c, apperrors.ErrResourceNotFound)
		return
	}
	s.render(c, http.StatusOK, s.dialog(c, form, nil))
}

func (s *submissions) grade(c *gin.Context) {
	var form models.GradeSubmissionRequest
	if err := c.ShouldBind(&form); err != nil {
		s.render(c, http.StatusUnprocessableEntity, s.dialog(c, form, middleware.FieldErrors(err, &form)))
		return
	}

	aid := c.Param("id")
	if _, err := s.r.API(c).GradeSubmission(c.Request.Context(), c.Param("sid"), form); err != nil {
		if apiclient.IsSessionExpired(err) {
			s.r.Fail(c, err)
			return
		}
		d := s.dialog(c, form, nil)
		d.Error = failureMessage(err, "Failed to grade submission")
		s.render(c, mutationStatus(err), d)
		return
	}

	s.r.Invalidate(c, s.key(aid))
	s.r.Flash(c, session.ToastSuccess, "Grade saved")
	c.Redirect(http.StatusSeeOther, s.path(aid))
}

func (r *Renderer) syllabi() *Resource[models.Syllabus, models.SyllabusRequest] {
	return &Resource[models.Syllabus, models.SyllabusRequest]{
		Key:      keySyllabi,
		Title:    "Syllabi",
		Singular: "syllabus",
		ID:       func(s models.Syllabus) string { return s.ID.String() },
		Columns: []Column[models.Syllabus]{
			{Header: "Title", Value: func(s models.Syllabus) string { return s.Title }},
			{Header: "Subject", Value: func(s models.Syllabus) string { return refOr(s.Subject, s.SubjectID) }},
			{Header: "Class", Value: func(s models.Syllabus) string { return refOr(s.Class, s.ClassID) }},
			{Header: "Academic year", Value: func(s models.Syllabus) string { return s.AcademicYear }},
			{Header: "File", Value: func(s models.Syllabus) string { return fileLink(s.FileURL) }, Link: func(s models.Syllabus) string { return s.FileURL }},
		},
		Fields: []Field{
			{Name: "title", Label: "Title", Required: true},
			{Name: "description", Label: "Description", Type: TypeTextarea},
			{Name: "subjectId", Label: "Subject", Type: TypeSelect, Required: true, Options: teacherSubjectOptions},
			{Name: "classId", Label: "Class", Type: TypeSelect, Required: true, Options: teacherClassOptions},
			{Name: "academicYear", Label: "Academic year", Placeholder: "2025/2026"},
			{Name: "fileUrl", Label: "Link", Type: TypeURL, Placeholder: "https://"},
			{Name: "file", Label: "Or upload a file", Type: TypeFile},
		},
		List:   (*apiclient.API).ListSyllabi,
		Create: (*apiclient.API).CreateSyllabus,
		Update: (*apiclient.API).UpdateSyllabus,
		Delete: (*apiclient.API).DeleteSyllabus,
		Prepare: func(c *gin.Context, api *apiclient.API, form *models.SyllabusRequest) error {
			u, err := uploadFile(c, api)
			if err != nil {
				return err
			}
			if u != "" {
				form.FileURL = u
			}
			return nil
		},
		ToForm: func(s models.Syllabus) models.SyllabusRequest {
			return models.SyllabusRequest{
				Title:        s.Title,
				Description:  s.Description,
				SubjectID:    s.SubjectID.String(),
				ClassID:      s.ClassID.String(),
				FileURL:      s.FileURL,
				AcademicYear: s.AcademicYear,
			}
		},
		r: r,
	}
}

func (r *Renderer) announcements() *Resource[models.Announcement, models.AnnouncementRequest] {
	return &Resource[models.Announcement, models.AnnouncementRequest]{
		Key:      keyAnnouncements,
		Title:    "Announcements",
		Singular: "announcement",
		ID:       func(a models.Announcement) string { return a.ID.String() },
		Columns: []Column[models.Announcement]{
			{Header: "Title", Value: func(a models.Announcement) string { return a.Title }},
			{Header: "Class", Value: func(a models.Announcement) string {
				if a.Class == nil && a.ClassID == "" {
					return "All classes"
				}
				return refOr(a.Class, a.ClassID)
			}},
			{Header: "Message", Value: func(a models.Announcement) string { return truncate(a.Body, 80) }},
			{Header: "Posted", Value: func(a models.Announcement) string {
				if a.CreatedAt == nil {
					return ""
				}
				return a.CreatedAt.Format("2006-01-02 15:04")
			}},
		},
		Fields: []Field{
			{Name: "title", Label: "Title", Required: true},
			{Name: "content", Label: "Message", Type: TypeTextarea, Required: true},
			{Name: "classId", Label: "Class", Type: TypeSelect, Options: teacherClassOptions, Help: "Leave empty to address all your classes"},
		},
		List:   (*apiclient.API).ListAnnouncements,
		Create: (*apiclient.API).CreateAnnouncement,
		Update: (*apiclient.API).UpdateAnnouncement,
		Delete: (*apiclient.API).DeleteAnnouncement,
		ToForm: func(a models.Announcement) models.AnnouncementRequest {
			return models.AnnouncementRequest{Title: a.Title, Body: a.Body, ClassID: a.ClassID.String()}
		},
		r: r,
	}
}

func formatScore(f float64) string {
	if f == 0 {
		return "0"
	}
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", f), "0"), ".")
}

// dateOnly trims a timestamp to the YYYY-MM-DD a date input expects
func dateOnly(s string) string {
	if len(s) > 10 && s[4] == '-' && s[7] == '-' {
		return s[:10]
	}
	return s
}

func truncate(s string, n int) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= n {
		return string(runes)
	}
	return string(runes[:n-1]) + "…"
}
