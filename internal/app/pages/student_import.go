package pages

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yigit/schoolportal/internal/apiclient"
	"github.com/yigit/schoolportal/internal/app/models"
	"github.com/yigit/schoolportal/internal/app/services"
	"github.com/yigit/schoolportal/internal/app/views"
	"github.com/yigit/schoolportal/internal/pkg/spreadsheet"
	"github.com/yigit/schoolportal/internal/session"
)

const (
	maxImportSize = 5 << 20
	// maxReportedFailures caps the per row toasts of one import
	maxReportedFailures = 10
)

// withStudentImport adds GET and POST base/import to the students screen
func (r *Renderer) withStudentImport(res *Resource[models.Student, models.StudentRequest], importer *services.ImportService) *Resource[models.Student, models.StudentRequest] {
	res.Extend = func(rg *gin.RouterGroup, base string) {
		rg.GET("/import", func(c *gin.Context) {
			res.render(c, base, http.StatusOK, importDialog(base, ""))
		})
		rg.POST("/import", func(c *gin.Context) {
			r.importStudents(c, res, importer, base)
		})
	}
	return res
}

func importDialog(base, message string) *views.Dialog {
	return &views.Dialog{
		Mode:   views.DialogCustom,
		Title:  "Import students",
		Action: base + "/import",
		Submit: "Import",
		Cancel: base,
		Fields: []views.FieldView{{
			Name:     "file",
			Label:    "Workbook (.xlsx)",
			Type:     TypeFile,
			Required: true,
			Help:     "The first row names the columns: " + strings.Join(services.StudentImportHeaders, ", ") + ". The first three are required.",
		}},
		Error:     message,
		Multipart: true,
	}
}

func (r *Renderer) importStudents(c *gin.Context, res *Resource[models.Student, models.StudentRequest], importer *services.ImportService, base string) {
	header, err := c.FormFile("file")
	if err != nil {
		res.render(c, base, http.StatusBadRequest, importDialog(base, "Choose an .xlsx file to import."))
		return
	}
	if !strings.EqualFold(filepath.Ext(header.Filename), ".xlsx") {
		res.render(c, base, http.StatusBadRequest, importDialog(base, "Only .xlsx workbooks can be imported."))
		return
	}
	if header.Size > maxImportSize {
		res.render(c, base, http.StatusBadRequest, importDialog(base, "The workbook is larger than 5 MB."))
		return
	}

	file, err := header.Open()
	if err != nil {
		res.render(c, base, http.StatusBadRequest, importDialog(base, "The upload could not be read."))
		return
	}
	defer file.Close()

	table, err := spreadsheet.ReadRows(file)
	if err != nil {
		res.render(c, base, http.StatusBadRequest, importDialog(base, "The workbook could not be read: "+err.Error()))
		return
	}

	report, err := importer.ImportStudents(c.Request.Context(), r.API(c), table)
	if err != nil {
		if apiclient.IsSessionExpired(err) {
			r.Fail(c, err)
			return
		}
		res.render(c, base, http.StatusBadRequest, importDialog(base, err.Error()))
		return
	}

	r.Invalidate(c, keyStudents, keyParents)
	kind := session.ToastSuccess
	if report.Created == 0 && report.Total > 0 {
		kind = session.ToastError
	}
	r.Flash(c, kind, fmt.Sprintf("Imported %d of %d students", report.Created, report.Total))
	for i, f := range report.Failures {
		if i == maxReportedFailures {
			r.Flash(c, session.ToastInfo, fmt.Sprintf("%d more rows failed", len(report.Failures)-maxReportedFailures))
			break
		}
		r.Flash(c, session.ToastError, fmt.Sprintf("Row %d (%s): %s", f.Line, models.Display(f.Email), f.Message))
	}
	c.Redirect(http.StatusSeeOther, base)
}
