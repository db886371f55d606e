package pages

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yigit/schoolportal/internal/apiclient"
	"github.com/yigit/schoolportal/internal/app/views"
	"github.com/yigit/schoolportal/internal/middleware"
	"github.com/yigit/schoolportal/internal/pkg/apperrors"
	"github.com/yigit/schoolportal/internal/pkg/helpers"
	"github.com/yigit/schoolportal/internal/pkg/spreadsheet"
	"github.com/yigit/schoolportal/internal/session"
)

// none is the form of read-only resources
type none struct{}

// Column is one table column of a resource
type Column[T any] struct {
	Header string
	Value  func(T) string
	// Link, when set, turns the cell into a link
	Link func(T) string
}

// Scope selects the subset a scoped resource lists, for example the child
// whose assignments are shown. The first option is the default.
type Scope struct {
	Param   string
	Label   string
	Options OptionLoader
}

// Resource is a list screen over one backend collection with optional
// create, edit and delete dialogs. T is the listed entity and F the form
// bound on create and edit.
type Resource[T any, F any] struct {
	// Key names the resource in the query cache
	Key      string
	Title    string
	Singular string
	Subtitle string
	Empty    string
	Columns  []Column[T]
	Fields   []Field
	ID       func(T) string

	List       func(*apiclient.API, context.Context) ([]T, error)
	Scope      *Scope
	ScopedList func(*apiclient.API, context.Context, string) ([]T, error)

	Create func(*apiclient.API, context.Context, F) (T, error)
	Update func(*apiclient.API, context.Context, string, F) (T, error)
	Delete func(*apiclient.API, context.Context, string) error
	ToForm func(T) F
	// Prepare runs after a form is bound and before it is sent
	Prepare func(c *gin.Context, api *apiclient.API, form *F) error

	Actions func(base string, item T) []views.Link
	Toolbar func(base string) []views.Link
	// Invalidates lists further cache keys a successful write makes stale
	Invalidates []string
	NoExport    bool
	// Extend registers extra routes on the resource's group
	Extend func(rg *gin.RouterGroup, base string)

	r *Renderer
}

// Mount registers the resource's routes under rg
func (res *Resource[T, F]) Mount(rg *gin.RouterGroup) {
	base := rg.BasePath()

	rg.GET("", func(c *gin.Context) {
		res.render(c, base, http.StatusOK, nil)
	})
	if !res.NoExport {
		rg.GET("/export.xlsx", res.export)
	}
	if res.Create != nil {
		rg.GET("/new", func(c *gin.Context) {
			var form F
			res.render(c, base, http.StatusOK, res.formDialog(c, base, "", form, nil))
		})
		rg.POST("", res.create(base))
	}
	if res.Update != nil {
		rg.GET("/:id/edit", func(c *gin.Context) {
			item, ok := res.find(c, c.Param("id"))
			if !ok {
				return
			}
			res.render(c, base, http.StatusOK, res.formDialog(c, base, res.ID(item), res.ToForm(item), nil))
		})
		rg.POST("/:id", res.update(base))
	}
	if res.Delete != nil {
		rg.GET("/:id/delete", func(c *gin.Context) {
			if _, ok := res.find(c, c.Param("id")); !ok {
				return
			}
			res.render(c, base, http.StatusOK, res.deleteDialog(base, c.Param("id")))
		})
		rg.POST("/:id/delete", res.remove(base))
	}
	if res.Extend != nil {
		res.Extend(rg, base)
	}
}

// items loads the listed entities, resolving the scope when there is one
func (res *Resource[T, F]) items(c *gin.Context) ([]T, *views.Filter, error) {
	api := res.r.API(c)
	if res.Scope == nil {
		items, err := cached(res.r, c, res.Key, func(ctx context.Context) ([]T, error) {
			return res.List(api, ctx)
		})
		return items, nil, err
	}

	opts, err := res.Scope.Options(c, res.r)
	if err != nil {
		return nil, nil, err
	}
	filter := &views.Filter{Param: res.Scope.Param, Label: res.Scope.Label, Options: opts, Selected: c.Query(res.Scope.Param)}
	if filter.Selected == "" && len(opts) > 0 {
		filter.Selected = opts[0].Value
	}
	if filter.Selected == "" {
		return []T{}, filter, nil
	}

	scope := filter.Selected
	items, err := cached(res.r, c, res.scopedKey(scope), func(ctx context.Context) ([]T, error) {
		return res.ScopedList(api, ctx, scope)
	})
	return items, filter, err
}

func (res *Resource[T, F]) scopedKey(scope string) string {
	return res.Key + "?" + res.Scope.Param + "=" + scope
}

// find returns the listed entity with id, rendering a 404 when absent
func (res *Resource[T, F]) find(c *gin.Context, id string) (T, bool) {
	var zero T
	items, _, err := res.items(c)
	if err != nil {
		res.r.Fail(c, err)
		return zero, false
	}
	for _, item := range items {
		if res.ID(item) == id {
			return item, true
		}
	}
	res.r.Fail(c, apperrors.ErrResourceNotFound)
	return zero, false
}

// render writes the table page with dialog open over it
func (res *Resource[T, F]) render(c *gin.Context, base string, status int, dialog *views.Dialog) {
	items, filter, err := res.items(c)
	if err != nil {
		res.r.Fail(c, err)
		return
	}

	page, size := helpers.ParsePaginationParams(c)
	shown, info := helpers.Paginate(items, page, size)

	table := views.Table{
		Title:    res.Title,
		Subtitle: res.Subtitle,
		Base:     base,
		Headers:  res.headers(),
		Rows:     res.rows(shown, base),
		Pager:    newPager(base, c.Request.URL.Query(), info),
		Filter:   filter,
		Empty:    res.Empty,
		Dialog:   dialog,
	}
	if res.Create != nil {
		table.NewURL = base + "/new"
	}
	if !res.NoExport {
		table.Export = base + "/export.xlsx"
		if filter != nil && filter.Selected != "" {
			table.Export += "?" + url.Values{filter.Param: {filter.Selected}}.Encode()
		}
	}
	if res.Toolbar != nil {
		table.Toolbar = res.Toolbar(base)
	}
	res.r.Page(c, status, "resource.html", res.Title, table)
}

func (res *Resource[T, F]) headers() []string {
	out := make([]string, len(res.Columns))
	for i, col := range res.Columns {
		out[i] = col.Header
	}
	return out
}

func (res *Resource[T, F]) rows(items []T, base string) []views.Row {
	rows := make([]views.Row, 0, len(items))
	for _, item := range items {
		row := views.Row{Cells: make([]views.Cell, len(res.Columns))}
		for i, col := range res.Columns {
			row.Cells[i].Text = col.Value(item)
			if col.Link != nil {
				row.Cells[i].Link = col.Link(item)
			}
		}
		if res.ID != nil {
			row.ID = res.ID(item)
			escaped := url.PathEscape(row.ID)
			if res.Update != nil {
				row.Edit = base + "/" + escaped + "/edit"
			}
			if res.Delete != nil {
				row.Delete = base + "/" + escaped + "/delete"
			}
		}
		if res.Actions != nil {
			row.Actions = res.Actions(base, item)
		}
		rows = append(rows, row)
	}
	return rows
}

// formDialog builds the create dialog, or the edit dialog when id is set
func (res *Resource[T, F]) formDialog(c *gin.Context, base, id string, form F, errs map[string]string) *views.Dialog {
	editing := id != ""
	fields, multipart := res.r.fieldViews(c, res.Fields, &form, errs, editing)
	d := &views.Dialog{
		Mode:      views.DialogCreate,
		Title:     "New " + res.Singular,
		Action:    base,
		Submit:    "Create",
		Cancel:    base,
		Fields:    fields,
		Error:     errs[""],
		Multipart: multipart,
	}
	if editing {
		d.Mode = views.DialogEdit
		d.Title = "Edit " + res.Singular
		d.Action = base + "/" + url.PathEscape(id)
		d.Submit = "Save"
	}
	return d
}

func (res *Resource[T, F]) deleteDialog(base, id string) *views.Dialog {
	return &views.Dialog{
		Mode:    views.DialogDelete,
		Title:   "Delete " + res.Singular,
		Action:  base + "/" + url.PathEscape(id) + "/delete",
		Submit:  "Delete",
		Cancel:  base,
		Message: "Are you sure you want to delete this " + res.Singular + "? This cannot be undone.",
		Danger:  true,
	}
}

func (res *Resource[T, F]) create(base string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form F
		if err := c.ShouldBind(&form); err != nil {
			res.render(c, base, http.StatusUnprocessableEntity, res.formDialog(c, base, "", form, middleware.FieldErrors(err, &form)))
			return
		}

		api := res.r.API(c)
		err := res.prepare(c, api, &form)
		if err == nil {
			_, err = res.Create(api, c.Request.Context(), form)
		}
		if err != nil {
			res.writeFailed(c, base, "", form, err, "Failed to create "+res.Singular)
			return
		}

		res.saved(c, base, capitalize(res.Singular)+" created successfully")
	}
}

func (res *Resource[T, F]) update(base string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		var form F
		if err := c.ShouldBind(&form); err != nil {
			res.render(c, base, http.StatusUnprocessableEntity, res.formDialog(c, base, id, form, middleware.FieldErrors(err, &form)))
			return
		}

		api := res.r.API(c)
		err := res.prepare(c, api, &form)
		if err == nil {
			_, err = res.Update(api, c.Request.Context(), id, form)
		}
		if err != nil {
			res.writeFailed(c, base, id, form, err, "Failed to update "+res.Singular)
			return
		}

		res.saved(c, base, capitalize(res.Singular)+" updated successfully")
	}
}

func (res *Resource[T, F]) remove(base string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := res.Delete(res.r.API(c), c.Request.Context(), id); err != nil {
			if apiclient.IsSessionExpired(err) {
				res.r.Fail(c, err)
				return
			}
			res.r.Flash(c, session.ToastError, failureMessage(err, "Failed to delete "+res.Singular))
			c.Redirect(http.StatusSeeOther, base)
			return
		}
		res.saved(c, base, capitalize(res.Singular)+" deleted successfully")
	}
}

func (res *Resource[T, F]) prepare(c *gin.Context, api *apiclient.API, form *F) error {
	if res.Prepare == nil {
		return nil
	}
	return res.Prepare(c, api, form)
}

// saved invalidates the resource's queries, then redirects to the list so
// the table is fetched again
func (res *Resource[T, F]) saved(c *gin.Context, base, message string) {
	res.r.Invalidate(c, append([]string{res.Key}, res.Invalidates...)...)
	res.r.Flash(c, session.ToastSuccess, message)
	c.Redirect(http.StatusSeeOther, base)
}

// writeFailed keeps the dialog open with the backend's message
func (res *Resource[T, F]) writeFailed(c *gin.Context, base, id string, form F, err error, fallback string) {
	if apiclient.IsSessionExpired(err) {
		res.r.Fail(c, err)
		return
	}
	res.r.logger.Info().Err(err).Str("resource", res.Key).Msg("Write rejected")

	dialog := res.formDialog(c, base, id, form, nil)
	dialog.Error = failureMessage(err, fallback)
	res.render(c, base, mutationStatus(err), dialog)
}

func (res *Resource[T, F]) export(c *gin.Context) {
	items, _, err := res.items(c)
	if err != nil {
		res.r.Fail(c, err)
		return
	}

	rows := make([][]string, 0, len(items))
	for _, item := range items {
		row := make([]string, len(res.Columns))
		for i, col := range res.Columns {
			row[i] = col.Value(item)
		}
		rows = append(rows, row)
	}

	var buf bytes.Buffer
	if err := spreadsheet.Export(&buf, res.Title, res.headers(), rows); err != nil {
		res.r.Fail(c, err)
		return
	}
	filename := strings.ReplaceAll(res.Key, "/", "-") + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, spreadsheet.ContentType, buf.Bytes())
}

// newPager builds the pagination links, keeping the other query values
func newPager(base string, query url.Values, info helpers.PaginationInfo) *views.Pager {
	link := func(page, size int) string {
		q := url.Values{}
		for k, v := range query {
			q[k] = v
		}
		q.Set("page", strconv.Itoa(page))
		q.Set("size", strconv.Itoa(size))
		return base + "?" + q.Encode()
	}

	p := &views.Pager{PaginationInfo: info}
	if info.HasPrev() {
		p.PrevURL = link(info.PrevPage(), info.PageSize)
	}
	if info.HasNext() {
		p.NextURL = link(info.NextPage(), info.PageSize)
	}
	for _, size := range helpers.PageSizes {
		p.Sizes = append(p.Sizes, views.Link{Label: strconv.Itoa(size), Href: link(1, size), Active: size == info.PageSize})
	}
	return p
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
