package handler

import "github.com/labstack/echo/v4"

func (h *CatalogHandler) InstanceList(c echo.Context) (Response, error) {
	instances, err := h.catalog.ListInstances(c.Request().Context())
	if err != nil {
		return nil, err
	}
	return Page("bookinstance_list", "Book Instance List", instances), nil
}

func (h *CatalogHandler) InstanceDetail(c echo.Context) (Response, error) {
	inst, err := h.catalog.InstanceDetail(c.Request().Context(), c.Param("id"))
	if err != nil {
		return nil, err
	}
	title := "Copy"
	if inst.Book != nil {
		title = "Copy: " + inst.Book.Title
	}
	return Page("bookinstance_detail", title, inst), nil
}
