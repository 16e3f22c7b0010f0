package handler

import (
	"github.com/deppfellow/locallibrary/internal/service"
	"github.com/deppfellow/locallibrary/internal/validation"
	"github.com/labstack/echo/v4"
)

const genreListURL = "/catalog/genres"

func (h *CatalogHandler) GenreList(c echo.Context) (Response, error) {
	genres, err := h.catalog.ListGenres(c.Request().Context())
	if err != nil {
		return nil, err
	}
	return Page("genre_list", "Genre List", genres), nil
}

func (h *CatalogHandler) GenreDetail(c echo.Context) (Response, error) {
	res, err := h.catalog.GenreDetail(c.Request().Context(), c.Param("id"))
	if err != nil {
		return nil, err
	}
	return Page("genre_detail", "Genre Detail", res), nil
}

func (h *CatalogHandler) GenreCreateForm(c echo.Context) (Response, error) {
	return Page("genre_form", "Create Genre", service.GenreFormResult{}), nil
}

// GenreCreate redirects to the genre, which may be an existing genre with
// the submitted name.
func (h *CatalogHandler) GenreCreate(c echo.Context, form *validation.Form) (Response, error) {
	res, err := h.catalog.CreateGenre(c.Request().Context(), form)
	if err != nil {
		return nil, err
	}
	if !res.Errors.Empty() {
		return Page("genre_form", "Create Genre", res), nil
	}
	return Redirect{Location: res.Genre.URL()}, nil
}

func (h *CatalogHandler) GenreDeleteForm(c echo.Context) (Response, error) {
	res, err := h.catalog.GenreDeleteInfo(c.Request().Context(), c.Param("id"))
	if err != nil {
		return nil, err
	}
	if res.Genre == nil {
		return Redirect{Location: genreListURL}, nil
	}
	return Page("genre_delete", "Delete Genre", res), nil
}

func (h *CatalogHandler) GenreDelete(c echo.Context, form *validation.Form) (Response, error) {
	res, err := h.catalog.DeleteGenre(c.Request().Context(), deleteID(c, form, "genreid"))
	if err != nil {
		return nil, err
	}
	if res.Blocked() {
		return Page("genre_delete", "Delete Genre", res), nil
	}
	return Redirect{Location: genreListURL}, nil
}
