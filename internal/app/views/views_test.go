package views

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/schoolportal/internal/app/models"
	"github.com/yigit/schoolportal/internal/app/routes"
	"github.com/yigit/schoolportal/internal/session"
)

func render(t *testing.T, name string, data interface{}) string {
	t.Helper()
	tmpl, err := Templates()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, name, data))
	return buf.String()
}

func teacherPage(data interface{}) Page {
	roles := []models.Role{models.RoleTeacher}
	return Page{
		Title:  "Materials",
		User:   &models.User{FirstName: "Ada", LastName: "Lovelace", Roles: roles},
		Roles:  roles,
		Nav:    routes.Menu(roles, "/teacher/materials"),
		Toasts: []session.Toast{{Kind: session.ToastSuccess, Message: "Material created successfully"}},
		Path:   "/teacher/materials",
		Data:   data,
	}
}

func TestResourcePage(t *testing.T) {
	table := Table{
		Title:   "Materials",
		Base:    "/teacher/materials",
		Headers: []string{"Title", "File"},
		Rows: []Row{{
			ID:     "4",
			Cells:  []Cell{{Text: "Fractions"}, {Text: "Open", Link: "https://files.test/f.pdf"}},
			Edit:   "/teacher/materials/4/edit",
			Delete: "/teacher/materials/4/delete",
		}},
		NewURL: "/teacher/materials/new",
		Export: "/teacher/materials/export.xlsx",
		Dialog: &Dialog{
			Mode:   DialogCreate,
			Title:  "New material",
			Action: "/teacher/materials",
			Submit: "Create",
			Cancel: "/teacher/materials",
			Error:  "Title already used",
			Fields: []FieldView{
				{Name: "title", Label: "Title", Type: "text", Value: "Fractions", Required: true},
				{Name: "classId", Label: "Class", Type: "select", Value: "2", Options: []Option{{Value: "1", Label: "5A"}, {Value: "2", Label: "5B"}}},
				{Name: "studentIds", Label: "Students", Type: "multiselect", Values: map[string]bool{"9": true}, Options: []Option{{Value: "9", Label: "Kim"}}},
				{Name: "file", Label: "File", Type: "file"},
			},
			Multipart: true,
		},
	}

	html := render(t, "resource.html", teacherPage(table))

	assert.Contains(t, html, "Ada Lovelace")
	assert.Contains(t, html, `href="/teacher/materials" class="active"`)
	assert.Contains(t, html, "Material created successfully")
	assert.Contains(t, html, `href="/teacher/materials/4/edit"`)
	assert.Contains(t, html, `enctype="multipart/form-data"`)
	assert.Contains(t, html, `<option value="2" selected>5B</option>`)
	assert.Contains(t, html, `<option value="9" selected>Kim</option>`)
	assert.Contains(t, html, "Title already used")
}

func TestResourcePage_Empty(t *testing.T) {
	html := render(t, "resource.html", teacherPage(Table{Title: "Syllabi", Empty: "No syllabi yet."}))
	assert.Contains(t, html, "No syllabi yet.")
}

func TestAttendancePage(t *testing.T) {
	view := Attendance{
		Filter:   Filter{Param: "class", Label: "Class", Selected: "1", Options: []Option{{Value: "1", Label: "5A"}}, Date: "2026-03-02"},
		ClassID:  "1",
		Date:     "2026-03-02",
		Rows:     []AttendanceRow{{StudentID: "11", Name: "Kim Park", Status: models.AttendanceLate}},
		Statuses: models.AttendanceStatuses,
	}

	html := render(t, "attendance.html", teacherPage(view))

	assert.Contains(t, html, `name="status_11" value="late" checked`)
	assert.Contains(t, html, `name="studentId" value="11"`)
	assert.Contains(t, html, "No attendance recorded for 2026-03-02 yet.")
}

func TestErrorPage(t *testing.T) {
	html := render(t, "error.html", map[string]interface{}{"Status": 404, "Title": "Not Found", "Message": "The requested resource was not found."})
	assert.Contains(t, html, "404")
	assert.Contains(t, html, "The requested resource was not found.")
}

func TestTemplatesParseAll(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	for _, name := range []string{"login.html", "register.html", "dashboard.html", "profile.html", "unauthorized.html"} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}

	// Anonymous pages render without a user or menu
	require.NoError(t, tmpl.ExecuteTemplate(io.Discard, "login.html", Page{Title: "Sign in", Data: AuthForm{}}))
	require.NoError(t, tmpl.ExecuteTemplate(io.Discard, "dashboard.html", teacherPage(Dashboard{Heading: "Teaching overview", Cards: []Card{{Label: "My classes", Value: "3"}}})))
}

func TestStatic(t *testing.T) {
	f, err := Static().Open("portal.css")
	require.NoError(t, err)
	defer f.Close()

	body, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.NotEmpty(t, body)
}
