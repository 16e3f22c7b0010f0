// Package view renders the catalog pages.
//
// Every page is parsed together with layout.html and executed through the
// "layout" template, which pulls in the page's "content" block. Templates
// and the stylesheet are embedded in the binary.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strconv"

	"github.com/deppfellow/locallibrary/internal/model"
	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Pages lists every renderable page.
var Pages = []string{
	"index",
	"book_list", "book_detail", "book_form", "book_delete",
	"author_list", "author_detail", "author_form", "author_delete",
	"genre_list", "genre_detail", "genre_form", "genre_delete",
	"bookinstance_list", "bookinstance_detail",
	"file_upload",
	"error",
}

// Page is the data every template receives.
type Page struct {
	Title   string
	Content any
}

// ErrorContent is the content of the error page.
type ErrorContent struct {
	Status  int
	Code    string
	Message string
	// Detail is the underlying error, shown outside production only.
	Detail string
}

// Funcs are the helpers available to every template.
var Funcs = template.FuncMap{
	// Stored text is escaped once on input; emit it without escaping again.
	"sanitized": func(s string) template.HTML {
		return template.HTML(s)
	},
	"count": func(n *int64) string {
		if n == nil {
			return "-"
		}
		return strconv.FormatInt(*n, 10)
	},
	"statusClass": func(s model.InstanceStatus) string {
		switch s {
		case model.StatusAvailable:
			return "text-success"
		case model.StatusMaintenance:
			return "text-danger"
		default:
			return "text-warning"
		}
	},
}

// Renderer implements echo.Renderer over the embedded templates.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses all pages.
func New() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(Pages))}

	for _, name := range Pages {
		tmpl, err := template.New(name).Funcs(Funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		r.pages[name] = tmpl
	}

	return r, nil
}

// Render executes page name with data. data is usually a Page.
func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}
	return tmpl.ExecuteTemplate(w, "layout", data)
}

// Static returns the stylesheet and other static assets.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
