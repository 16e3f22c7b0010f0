package handler

import (
	"net/http"
	"time"

	"github.com/deppfellow/locallibrary/internal/middleware"
	"github.com/deppfellow/locallibrary/internal/server"
	"github.com/deppfellow/locallibrary/internal/validation"
	"github.com/deppfellow/locallibrary/internal/view"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// Handler is the base handler type that holds shared application dependencies.
//
// Concrete handlers embed it so they can reach config, logger, and
// connections through *server.Server.
type Handler struct {
	server *server.Server
}

// NewHandler constructs a base Handler.
func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// --- Page pipeline -----------------------------------------------------------

// PageFunc is an endpoint that produces a Response or an error.
type PageFunc func(c echo.Context) (Response, error)

// FormFunc is an endpoint that receives the parsed request form.
type FormFunc func(c echo.Context, form *validation.Form) (Response, error)

// Response writes a successful result.
type Response interface {
	// Write writes the HTTP response.
	Write(c echo.Context) error

	// Operation names the response type in logs.
	Operation() string

	// AddAttributes attaches New Relic attributes for the response.
	AddAttributes(txn *newrelic.Transaction)
}

// View renders a page template.
type View struct {
	Status  int
	Name    string
	Title   string
	Content any
}

// Page returns a 200 View.
func Page(name, title string, content any) View {
	return View{Status: http.StatusOK, Name: name, Title: title, Content: content}
}

func (v View) Write(c echo.Context) error {
	return c.Render(v.Status, v.Name, view.Page{Title: v.Title, Content: v.Content})
}

func (v View) Operation() string {
	return "handler_view"
}

func (v View) AddAttributes(txn *newrelic.Transaction) {
	txn.AddAttribute("view.name", v.Name)
}

// Redirect answers with 302 Found.
type Redirect struct {
	Location string
}

func (r Redirect) Write(c echo.Context) error {
	return c.Redirect(http.StatusFound, r.Location)
}

func (r Redirect) Operation() string {
	return "handler_redirect"
}

func (r Redirect) AddAttributes(txn *newrelic.Transaction) {
	txn.AddAttribute("redirect.location", r.Location)
}

// Text answers with a plain text body.
type Text struct {
	Status int
	Body   string
}

func (t Text) Write(c echo.Context) error {
	return c.String(t.Status, t.Body)
}

func (t Text) Operation() string {
	return "handler_text"
}

func (t Text) AddAttributes(*newrelic.Transaction) {}

// handlePage is the shared execution pipeline of every page.
//
// It owns form parsing (when parse is set), structured logging with the
// request logger, New Relic attributes, and timing. The response is
// written only on success; errors go to the global error handler.
func handlePage(c echo.Context, parse bool, fn FormFunc) error {
	start := time.Now()
	method := c.Request().Method
	route := c.Path()

	// Set by nrecho; nil when New Relic is disabled.
	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", route)
	}

	logger := middleware.GetLogger(c).With().
		Str("method", method).
		Str("route", route).
		Logger()

	logger.Debug().Msg("handling request")

	// ---------------- Form phase --------------------------------------------
	var form *validation.Form
	var formDuration time.Duration
	if parse {
		formStart := time.Now()

		var err error
		form, err = validation.FormFromRequest(c)
		formDuration = time.Since(formStart)
		if err != nil {
			logger.Warn().
				Err(err).
				Dur("form_duration", formDuration).
				Msg("request form could not be parsed")

			if txn != nil {
				txn.NoticeError(nrpkgerrors.Wrap(err))
				txn.AddAttribute("form.status", "failed")
			}
			return err
		}

		if txn != nil {
			txn.AddAttribute("form.status", "parsed")
			txn.AddAttribute("form.duration_ms", formDuration.Milliseconds())
		}
	}

	// ---------------- Handler phase -----------------------------------------
	handlerStart := time.Now()
	res, err := fn(c, form)
	handlerDuration := time.Since(handlerStart)

	if err != nil {
		totalDuration := time.Since(start)

		logger.Error().
			Err(err).
			Dur("handler_duration", handlerDuration).
			Dur("total_duration", totalDuration).
			Msg("handler execution failed")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("handler.status", "error")
			txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
			txn.AddAttribute("total.duration_ms", totalDuration.Milliseconds())
		}
		return err
	}

	totalDuration := time.Since(start)

	if txn != nil {
		txn.AddAttribute("handler.status", "success")
		txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		txn.AddAttribute("total.duration_ms", totalDuration.Milliseconds())
		res.AddAttributes(txn)
	}

	logger.Info().
		Str("operation", res.Operation()).
		Dur("handler_duration", handlerDuration).
		Dur("form_duration", formDuration).
		Dur("total_duration", totalDuration).
		Msg("request completed successfully")

	return res.Write(c)
}

// Handle wraps a page endpoint with logging, tracing, and timing.
//
//	router.GET("/catalog/books", handler.Handle(h.Catalog.BookList))
func Handle(fn PageFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handlePage(c, false, func(c echo.Context, _ *validation.Form) (Response, error) {
			return fn(c)
		})
	}
}

// HandleForm is Handle for endpoints that read a submitted form
// (urlencoded, multipart, or JSON).
func HandleForm(fn FormFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handlePage(c, true, fn)
	}
}
