// Package views holds the portal's HTML templates, static assets and the
// view models the templates render.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/yigit/schoolportal/internal/app/models"
	"github.com/yigit/schoolportal/internal/app/routes"
	"github.com/yigit/schoolportal/internal/pkg/helpers"
	"github.com/yigit/schoolportal/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Templates parses every embedded template
func Templates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(Funcs()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}

// Static serves the embedded css
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// Funcs are the helpers available to every template
func Funcs() template.FuncMap {
	return template.FuncMap{
		"display":   models.Display,
		"roleLabel": func(r models.Role) string { return r.Label() },
		"percent":   func(f float64) string { return fmt.Sprintf("%.1f%%", f) },
		"number":    func(f float64) string { return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", f), "0"), ".") },
		"toastClass": func(kind string) string {
			switch kind {
			case session.ToastSuccess, session.ToastError, session.ToastInfo:
				return "toast toast-" + kind
			default:
				return "toast"
			}
		},
	}
}

// Page is the data every full page template receives
type Page struct {
	Title  string
	User   *models.User
	Roles  []models.Role
	Nav    []routes.NavSection
	Toasts []session.Toast
	Path   string
	Data   interface{}
}

// Link is a labelled href
type Link struct {
	Label  string
	Href   string
	Active bool
}

// Option is one choice of a select field
type Option struct {
	Value string
	Label string
}

// Cell is one table cell, optionally linked
type Cell struct {
	Text string
	Link string
}

// Row is one table row
type Row struct {
	ID      string
	Cells   []Cell
	Actions []Link
	// Edit and Delete are empty when the action is unavailable
	Edit   string
	Delete string
}

// Pager is the navigation under a table
type Pager struct {
	helpers.PaginationInfo
	PrevURL string
	NextURL string
	Sizes   []Link
}

// Filter is a GET form above a table selecting its scope, for example the
// child whose assignments are listed
type Filter struct {
	Param    string
	Label    string
	Selected string
	Options  []Option
	// Date adds a date input named "date" next to the select
	Date string
}

// Table is a list screen, optionally with a dialog open over it
type Table struct {
	Title    string
	Base     string
	Headers  []string
	Rows     []Row
	Pager    *Pager
	Filter   *Filter
	Toolbar  []Link
	NewURL   string
	Export   string
	Empty    string
	Dialog   *Dialog
	Subtitle string
}

// Dialog modes
const (
	DialogCreate = "create"
	DialogEdit   = "edit"
	DialogDelete = "delete"
	DialogCustom = "custom"
)

// Dialog is the modal form rendered over a table
type Dialog struct {
	Mode      string
	Title     string
	Action    string
	Submit    string
	Cancel    string
	Fields    []FieldView
	Error     string
	Message   string
	Multipart bool
	Danger    bool
}

// FieldView is one rendered form control
type FieldView struct {
	Name        string
	Label       string
	Type        string
	Value       string
	Values      map[string]bool
	Options     []Option
	Required    bool
	Error       string
	Help        string
	Placeholder string
}

// Card is one figure on a dashboard
type Card struct {
	Label string
	Value string
	Link  string
}

// Dashboard is a role's landing page
type Dashboard struct {
	Heading string
	Cards   []Card
	Table   *Table
	Notice  string
}

// AttendanceRow is one student line of a roll call
type AttendanceRow struct {
	StudentID string
	Name      string
	Status    models.AttendanceStatus
}

// Attendance is the teacher's roll call screen
type Attendance struct {
	Filter   Filter
	ClassID  string
	Date     string
	Rows     []AttendanceRow
	Statuses []models.AttendanceStatus
	Recorded bool
}

// Profile is the signed in user's account page
type Profile struct {
	User  *models.User
	Roles []models.Role
	Home  string
}

// AuthForm backs the login and register pages
type AuthForm struct {
	Next    string
	Values  map[string]string
	Errors  map[string]string
	Message string
	Roles   []Option
}
