package handler

import (
	"github.com/deppfellow/locallibrary/internal/validation"
	"github.com/labstack/echo/v4"
)

const bookListURL = "/catalog/books"

func (h *CatalogHandler) BookList(c echo.Context) (Response, error) {
	books, err := h.catalog.ListBooks(c.Request().Context())
	if err != nil {
		return nil, err
	}
	return Page("book_list", "Book List", books), nil
}

func (h *CatalogHandler) BookDetail(c echo.Context) (Response, error) {
	res, err := h.catalog.BookDetail(c.Request().Context(), c.Param("id"))
	if err != nil {
		return nil, err
	}
	return Page("book_detail", res.Book.Title, res), nil
}

func (h *CatalogHandler) BookCreateForm(c echo.Context) (Response, error) {
	res, err := h.catalog.BookForm(c.Request().Context())
	if err != nil {
		return nil, err
	}
	return Page("book_form", "Create Book", res), nil
}

// BookCreate shows the form again on validation errors and redirects to
// the new book otherwise.
func (h *CatalogHandler) BookCreate(c echo.Context, form *validation.Form) (Response, error) {
	res, err := h.catalog.CreateBook(c.Request().Context(), form)
	if err != nil {
		return nil, err
	}
	if !res.Errors.Empty() {
		return Page("book_form", "Create Book", res), nil
	}
	return Redirect{Location: res.Book.URL()}, nil
}

func (h *CatalogHandler) BookUpdateForm(c echo.Context) (Response, error) {
	res, err := h.catalog.BookUpdateForm(c.Request().Context(), c.Param("id"))
	if err != nil {
		return nil, err
	}
	return Page("book_form", "Update Book", res), nil
}

func (h *CatalogHandler) BookUpdate(c echo.Context, form *validation.Form) (Response, error) {
	res, err := h.catalog.UpdateBook(c.Request().Context(), c.Param("id"), form)
	if err != nil {
		return nil, err
	}
	if !res.Errors.Empty() {
		return Page("book_form", "Update Book", res), nil
	}
	return Redirect{Location: res.Book.URL()}, nil
}

func (h *CatalogHandler) BookDeleteForm(c echo.Context) (Response, error) {
	res, err := h.catalog.BookDeleteInfo(c.Request().Context(), c.Param("id"))
	if err != nil {
		return nil, err
	}
	if res.Book == nil {
		return Redirect{Location: bookListURL}, nil
	}
	return Page("book_delete", "Delete Book", res), nil
}

func (h *CatalogHandler) BookDelete(c echo.Context, form *validation.Form) (Response, error) {
	res, err := h.catalog.DeleteBook(c.Request().Context(), deleteID(c, form, "bookid"))
	if err != nil {
		return nil, err
	}
	if res.Blocked() {
		return Page("book_delete", "Delete Book", res), nil
	}
	return Redirect{Location: bookListURL}, nil
}
