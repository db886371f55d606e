package pages

import (
	"context"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yigit/schoolportal/internal/apiclient"
	"github.com/yigit/schoolportal/internal/app/views"
)

// Form control types
const (
	TypeText        = "text"
	TypeEmail       = "email"
	TypePassword    = "password"
	TypeNumber      = "number"
	TypeDate        = "date"
	TypeURL         = "url"
	TypeTextarea    = "textarea"
	TypeSelect      = "select"
	TypeMultiSelect = "multiselect"
	TypeFile        = "file"
)

// OptionLoader fetches the choices of a select field
type OptionLoader func(c *gin.Context, r *Renderer) ([]views.Option, error)

// Field describes one control of a dialog form. Name is the `form` tag of
// the bound struct field.
type Field struct {
	Name        string
	Label       string
	Type        string
	Required    bool
	Options     OptionLoader
	Help        string
	Placeholder string
	// CreateOnly fields are left out of the edit dialog
	CreateOnly bool
}

// listOptions builds an OptionLoader over a cached backend list
func listOptions[T any](key string, load func(*apiclient.API, context.Context) ([]T, error), option func(T) views.Option) OptionLoader {
	return func(c *gin.Context, r *Renderer) ([]views.Option, error) {
		api := r.API(c)
		items, err := cached(r, c, key, func(ctx context.Context) ([]T, error) {
			return load(api, ctx)
		})
		if err != nil {
			return nil, err
		}
		opts := make([]views.Option, 0, len(items))
		for _, item := range items {
			opts = append(opts, option(item))
		}
		return opts, nil
	}
}

// staticOptions is an OptionLoader over fixed choices
func staticOptions(opts ...views.Option) OptionLoader {
	return func(*gin.Context, *Renderer) ([]views.Option, error) {
		return opts, nil
	}
}

// fieldViews renders fields with the values of form and the messages of
// errs. The second result reports whether the form carries a file.
func (r *Renderer) fieldViews(c *gin.Context, fields []Field, form interface{}, errs map[string]string, editing bool) ([]views.FieldView, bool) {
	values := formValues(form)
	multipart := false

	out := make([]views.FieldView, 0, len(fields))
	for _, f := range fields {
		if editing && f.CreateOnly {
			continue
		}
		fv := views.FieldView{
			Name:        f.Name,
			Label:       f.Label,
			Type:        f.Type,
			Required:    f.Required,
			Error:       errs[f.Name],
			Help:        f.Help,
			Placeholder: f.Placeholder,
		}
		if fv.Type == "" {
			fv.Type = TypeText
		}
		if fv.Type == TypeFile {
			multipart = true
		}

		vals := values[f.Name]
		switch {
		case fv.Type == TypeMultiSelect:
			fv.Values = make(map[string]bool, len(vals))
			for _, v := range vals {
				fv.Values[v] = true
			}
		case fv.Type == TypePassword:
		case len(vals) > 0:
			fv.Value = vals[0]
		}

		if f.Options != nil {
			opts, err := f.Options(c, r)
			if err != nil {
				r.logger.Warn().Err(err).Str("field", f.Name).Msg("Failed to load field options")
			}
			fv.Options = opts
		}
		out = append(out, fv)
	}
	return out, multipart
}

// formValues reads the `form` tagged fields of a struct as strings. Zero
// numbers are left blank so a fresh form shows empty inputs.
func formValues(form interface{}) map[string][]string {
	out := make(map[string][]string)
	v := reflect.ValueOf(form)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return out
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return out
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		name := strings.Split(t.Field(i).Tag.Get("form"), ",")[0]
		if name == "" || name == "-" {
			continue
		}
		fv := v.Field(i)
		switch fv.Kind() {
		case reflect.String:
			out[name] = []string{fv.String()}
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if fv.Int() != 0 {
				out[name] = []string{strconv.FormatInt(fv.Int(), 10)}
			}
		case reflect.Float32, reflect.Float64:
			if fv.Float() != 0 {
				out[name] = []string{strconv.FormatFloat(fv.Float(), 'f', -1, 64)}
			}
		case reflect.Bool:
			out[name] = []string{strconv.FormatBool(fv.Bool())}
		case reflect.Slice:
			if fv.Type().Elem().Kind() == reflect.String {
				vals := make([]string, fv.Len())
				for j := range vals {
					vals[j] = fv.Index(j).String()
				}
				out[name] = vals
			}
		}
	}
	return out
}
