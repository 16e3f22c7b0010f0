package validation

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/deppfellow/locallibrary/internal/errs"
	"github.com/labstack/echo/v4"
)

// Form holds submitted fields. A value is either a string or a []string,
// the way body parsers collapse single selections of a multi-valued field.
type Form struct {
	values map[string]any
}

// NewForm builds a Form from raw values (string, []string, []any, or any
// scalar, which is formatted with %v).
func NewForm(values map[string]any) *Form {
	f := &Form{values: make(map[string]any, len(values))}
	for k, v := range values {
		switch t := v.(type) {
		case nil:
		case string, []string:
			f.values[k] = t
		case []any:
			items := make([]string, 0, len(t))
			for _, item := range t {
				items = append(items, fmt.Sprint(item))
			}
			f.values[k] = items
		default:
			f.values[k] = fmt.Sprint(t)
		}
	}
	return f
}

// FormFromValues converts url.Values, collapsing one-element lists to a
// scalar.
func FormFromValues(values url.Values) *Form {
	raw := make(map[string]any, len(values))
	for k, v := range values {
		switch len(v) {
		case 0:
		case 1:
			raw[k] = v[0]
		default:
			raw[k] = v
		}
	}
	return NewForm(raw)
}

// FormFromRequest reads urlencoded, multipart, or JSON bodies.
func FormFromRequest(c echo.Context) (*Form, error) {
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		raw := map[string]any{}
		if err := (&echo.DefaultBinder{}).BindBody(c, &raw); err != nil {
			return nil, errs.NewBadRequestError("Request body is not valid JSON", false, nil, nil, nil)
		}
		return NewForm(raw), nil
	}

	values, err := c.FormParams()
	if err != nil {
		return nil, errs.NewBadRequestError(http.StatusText(http.StatusBadRequest), false, nil, nil, nil)
	}
	return FormFromValues(values), nil
}

// NormalizeSlice coerces a field value into a sequence: nil becomes an
// empty slice, a scalar a one-element slice, a slice is returned as is.
func NormalizeSlice(v any) []string {
	switch t := v.(type) {
	case nil:
		return []string{}
	case []string:
		return t
	case string:
		return []string{t}
	default:
		return []string{fmt.Sprint(t)}
	}
}

// Normalize turns field into a sequence in place.
func (f *Form) Normalize(field string) {
	f.values[field] = NormalizeSlice(f.values[field])
}

// Get returns the scalar value of field. A sequence yields its first element.
func (f *Form) Get(field string) string {
	switch t := f.values[field].(type) {
	case string:
		return t
	case []string:
		if len(t) > 0 {
			return t[0]
		}
	}
	return ""
}

// Strings returns field as a sequence without modifying the form.
func (f *Form) Strings(field string) []string {
	return NormalizeSlice(f.values[field])
}

// Set replaces field with a scalar.
func (f *Form) Set(field, value string) {
	f.values[field] = value
}

// Has reports whether field was submitted.
func (f *Form) Has(field string) bool {
	_, ok := f.values[field]
	return ok
}

func (f *Form) trim(field string) {
	switch t := f.values[field].(type) {
	case string:
		f.values[field] = strings.TrimSpace(t)
	case []string:
		for i := range t {
			t[i] = strings.TrimSpace(t[i])
		}
	case nil:
		f.values[field] = ""
	}
}

// Escape HTML-escapes every value of the form.
func (f *Form) Escape() {
	for k, v := range f.values {
		switch t := v.(type) {
		case string:
			f.values[k] = Escape(t)
		case []string:
			out := make([]string, len(t))
			for i := range t {
				out[i] = Escape(t[i])
			}
			f.values[k] = out
		}
	}
}
