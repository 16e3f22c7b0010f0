package router

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/deppfellow/locallibrary/internal/config"
	"github.com/deppfellow/locallibrary/internal/handler"
	"github.com/deppfellow/locallibrary/internal/model"
	"github.com/deppfellow/locallibrary/internal/repository"
	"github.com/deppfellow/locallibrary/internal/server"
	"github.com/deppfellow/locallibrary/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	router    *echo.Echo
	repos     *repository.Repositories
	uploadDir string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	uploadDir := t.TempDir()
	cfg := &config.Config{
		Primary:       config.Primary{Env: "test"},
		Server:        config.ServerConfig{Port: "0", ReadTimeout: 5, WriteTimeout: 5, IdleTimeout: 5},
		Database:      config.DatabaseConfig{Driver: config.DriverMemory},
		Upload:        config.UploadConfig{Dir: uploadDir},
		Observability: config.DefaultObservabilityConfig(),
	}

	logger := zerolog.Nop()
	s, err := server.New(cfg, &logger, nil)
	require.NoError(t, err)

	repos := repository.NewMemoryRepositories()
	seed(t, repos)

	services, err := service.NewService(s, repos)
	require.NoError(t, err)

	r, err := NewRouter(s, handler.NewHandlers(s, services))
	require.NoError(t, err)

	return &testApp{router: r, repos: repos, uploadDir: uploadDir}
}

func seed(t *testing.T, repos *repository.Repositories) {
	t.Helper()
	ctx := context.Background()

	for _, a := range []model.Author{
		{ID: "a1", FirstName: "Patrick", FamilyName: "Rothfuss"},
		{ID: "a2", FirstName: "Isaac", FamilyName: "Asimov"},
		{ID: "a3", FirstName: "Bob", FamilyName: "Billings"},
	} {
		require.NoError(t, repos.Authors.Insert(ctx, a.ID, &a))
	}
	for _, g := range []model.Genre{{ID: "g1", Name: "Fantasy"}, {ID: "g2", Name: "Poetry"}} {
		require.NoError(t, repos.Genres.Insert(ctx, g.ID, &g))
	}
	for _, b := range []model.Book{
		{ID: "b1", Title: "The Name of the Wind", AuthorID: "a1", Summary: "s", ISBN: "1", GenreIDs: []string{"g1"}},
		{ID: "b2", Title: "Foundation", AuthorID: "a2", Summary: "s", ISBN: "2", GenreIDs: []string{}},
	} {
		require.NoError(t, repos.Books.Insert(ctx, b.ID, &b))
	}
	inst := model.NewBookInstance("b1", "Gollancz, 2007")
	inst.ID = "i1"
	require.NoError(t, repos.Instances.Insert(ctx, inst.ID, &inst))
}

func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) get(path string) *httptest.ResponseRecorder {
	return a.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (a *testApp) postForm(path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return a.do(req)
}

func TestRootRedirectsToCatalog(t *testing.T) {
	app := newTestApp(t)

	rec := app.get("/")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/catalog", rec.Header().Get(echo.HeaderLocation))
}

func TestIndexPage(t *testing.T) {
	app := newTestApp(t)

	rec := app.get("/catalog")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "<title>Local Library Home</title>")
	assert.Contains(t, body, "<strong>Books:</strong> 2")
	assert.Contains(t, body, "<strong>Copies available:</strong> 0")
	assert.Contains(t, body, "<strong>Authors:</strong> 3")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestBookListAndDetail(t *testing.T) {
	app := newTestApp(t)

	rec := app.get("/catalog/books")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Less(t, strings.Index(body, "Foundation"), strings.Index(body, "The Name of the Wind"))
	assert.Contains(t, body, "(Asimov, Isaac)")

	rec = app.get("/catalog/book/b1")
	require.Equal(t, http.StatusOK, rec.Code)
	body = rec.Body.String()
	assert.Contains(t, body, "Title: The Name of the Wind")
	assert.Contains(t, body, `<a href="/catalog/genre/g1">Fantasy</a>`)
	assert.Contains(t, body, "Gollancz, 2007")
}

func TestBookDetailNotFound(t *testing.T) {
	app := newTestApp(t)

	rec := app.get("/catalog/book/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>Book not found</h1>")

	req := httptest.NewRequest(http.MethodGet, "/catalog/book/missing", nil)
	req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
	rec = app.do(req)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "NOT_FOUND", body["code"])
	assert.Equal(t, "not_found", body["kind"])
}

func TestUnknownRoute(t *testing.T) {
	app := newTestApp(t)

	rec := app.get("/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Route not found")
}

func TestBookCreateShowsErrors(t *testing.T) {
	app := newTestApp(t)

	rec := app.postForm("/catalog/book/create", url.Values{
		"title":  {""},
		"author": {"a1"},
		"isbn":   {"9"},
		"genre":  {"g2"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "<li>Title must not be empty.</li>")
	assert.Contains(t, body, "<li>Summary must not be empty.</li>")
	assert.Contains(t, body, `value="g2" checked>`)
	assert.Contains(t, body, `<option value="a1" selected>`)

	n, err := app.repos.Books.Count(context.Background(), repository.All())
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestBookCreateRedirects(t *testing.T) {
	app := newTestApp(t)

	rec := app.postForm("/catalog/book/create", url.Values{
		"title":   {"The Wise Man's Fear"},
		"author":  {"a1"},
		"summary": {"Day two"},
		"isbn":    {"3"},
		"genre":   {"g1", "g2"},
	})
	require.Equal(t, http.StatusFound, rec.Code)

	location := rec.Header().Get(echo.HeaderLocation)
	require.True(t, strings.HasPrefix(location, "/catalog/book/"))

	book, err := app.repos.Books.FindByID(context.Background(), strings.TrimPrefix(location, "/catalog/book/"))
	require.NoError(t, err)
	require.NotNil(t, book)
	assert.Equal(t, []string{"g1", "g2"}, book.GenreIDs)

	rec = app.get(location)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "The Wise Man&#x27;s Fear")
	assert.NotContains(t, rec.Body.String(), "&amp;#x27;")
}

func TestBookUpdateKeepsID(t *testing.T) {
	app := newTestApp(t)

	rec := app.get("/catalog/book/b1/update")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="g1" checked>`)

	rec = app.postForm("/catalog/book/b1/update", url.Values{
		"title":   {"The Name of the Wind (10th Anniversary)"},
		"author":  {"a1"},
		"summary": {"s"},
		"isbn":    {"1"},
		"genre":   {"g2"},
	})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/catalog/book/b1", rec.Header().Get(echo.HeaderLocation))

	book, err := app.repos.Books.FindByID(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, []string{"g2"}, book.GenreIDs)
}

func TestBookUpdateMissing(t *testing.T) {
	app := newTestApp(t)

	rec := app.get("/catalog/book/missing/update")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuthorDeleteFlow(t *testing.T) {
	app := newTestApp(t)

	rec := app.get("/catalog/author/missing/delete")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/catalog/authors", rec.Header().Get(echo.HeaderLocation))

	rec = app.get("/catalog/author/a1/delete")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Delete the following books before attempting to delete this author.")

	rec = app.postForm("/catalog/author/a1/delete", url.Values{"authorid": {"a1"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "The Name of the Wind")

	rec = app.get("/catalog/author/a3/delete")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="authorid" required value="a3"`)

	rec = app.postForm("/catalog/author/whatever/delete", url.Values{"authorid": {"a3"}})
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/catalog/authors", rec.Header().Get(echo.HeaderLocation))

	gone, err := app.repos.Authors.FindByID(context.Background(), "a3")
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestGenreDeleteIsGuarded(t *testing.T) {
	app := newTestApp(t)

	rec := app.postForm("/catalog/genre/g1/delete", url.Values{"genreid": {"g1"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Delete the following books before attempting to delete this genre.")

	rec = app.postForm("/catalog/genre/g2/delete", url.Values{})
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/catalog/genres", rec.Header().Get(echo.HeaderLocation))
}

func TestGenreCreateFromJSONReusesName(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/catalog/genre/create", strings.NewReader(`{"name":"Fantasy"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := app.do(req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/catalog/genre/g1", rec.Header().Get(echo.HeaderLocation))
}

func TestInstancePages(t *testing.T) {
	app := newTestApp(t)

	rec := app.get("/catalog/bookinstances")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "The Name of the Wind : Gollancz, 2007")

	rec = app.get("/catalog/bookinstance/i1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Maintenance")

	rec = app.get("/catalog/bookinstance/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUploadWithoutFiles(t *testing.T) {
	app := newTestApp(t)

	rec := app.postForm("/upload", url.Values{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No files were uploaded.", rec.Body.String())
}

func TestUploadStoresFile(t *testing.T) {
	app := newTestApp(t)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("sampleFile", "hello.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := app.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "File uploaded!", rec.Body.String())

	data, err := os.ReadFile(filepath.Join(app.uploadDir, "hello.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestSystemRoutes(t *testing.T) {
	app := newTestApp(t)

	rec := app.get("/status")
	require.Equal(t, http.StatusOK, rec.Code)
	var status map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "healthy", status["status"])
	assert.Equal(t, "memory", status["driver"])

	rec = app.get("/static/style.css")
	assert.Equal(t, http.StatusOK, rec.Code)

	app.get("/catalog/books")
	rec = app.get("/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `locallibrary_http_requests_total{method="GET",route="/catalog/books",status="200"} 1`)
}
