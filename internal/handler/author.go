package handler

import (
	"github.com/deppfellow/locallibrary/internal/service"
	"github.com/deppfellow/locallibrary/internal/validation"
	"github.com/labstack/echo/v4"
)

const authorListURL = "/catalog/authors"

func (h *CatalogHandler) AuthorList(c echo.Context) (Response, error) {
	authors, err := h.catalog.ListAuthors(c.Request().Context())
	if err != nil {
		return nil, err
	}
	return Page("author_list", "Author List", authors), nil
}

func (h *CatalogHandler) AuthorDetail(c echo.Context) (Response, error) {
	res, err := h.catalog.AuthorDetail(c.Request().Context(), c.Param("id"))
	if err != nil {
		return nil, err
	}
	return Page("author_detail", "Author Detail", res), nil
}

func (h *CatalogHandler) AuthorCreateForm(c echo.Context) (Response, error) {
	return Page("author_form", "Create Author", service.AuthorFormResult{}), nil
}

func (h *CatalogHandler) AuthorCreate(c echo.Context, form *validation.Form) (Response, error) {
	res, err := h.catalog.CreateAuthor(c.Request().Context(), form)
	if err != nil {
		return nil, err
	}
	if !res.Errors.Empty() {
		return Page("author_form", "Create Author", res), nil
	}
	return Redirect{Location: res.Author.URL()}, nil
}

// AuthorDeleteForm asks for confirmation, or lists the books that must go
// first. A missing author redirects to the list.
func (h *CatalogHandler) AuthorDeleteForm(c echo.Context) (Response, error) {
	res, err := h.catalog.AuthorDeleteInfo(c.Request().Context(), c.Param("id"))
	if err != nil {
		return nil, err
	}
	if res.Author == nil {
		return Redirect{Location: authorListURL}, nil
	}
	return Page("author_delete", "Delete Author", res), nil
}

func (h *CatalogHandler) AuthorDelete(c echo.Context, form *validation.Form) (Response, error) {
	res, err := h.catalog.DeleteAuthor(c.Request().Context(), deleteID(c, form, "authorid"))
	if err != nil {
		return nil, err
	}
	if res.Blocked() {
		return Page("author_delete", "Delete Author", res), nil
	}
	return Redirect{Location: authorListURL}, nil
}
