package router

import (
	"github.com/deppfellow/locallibrary/internal/handler"
	"github.com/labstack/echo/v4"
)

func registerCatalogRoutes(g *echo.Group, h *handler.CatalogHandler) {
	g.GET("", handler.Handle(h.Index))

	// Books.
	g.GET("/books", handler.Handle(h.BookList))
	g.GET("/book/create", handler.Handle(h.BookCreateForm))
	g.POST("/book/create", handler.HandleForm(h.BookCreate))
	g.GET("/book/:id", handler.Handle(h.BookDetail))
	g.GET("/book/:id/update", handler.Handle(h.BookUpdateForm))
	g.POST("/book/:id/update", handler.HandleForm(h.BookUpdate))
	g.GET("/book/:id/delete", handler.Handle(h.BookDeleteForm))
	g.POST("/book/:id/delete", handler.HandleForm(h.BookDelete))

	// Authors.
	g.GET("/authors", handler.Handle(h.AuthorList))
	g.GET("/author/create", handler.Handle(h.AuthorCreateForm))
	g.POST("/author/create", handler.HandleForm(h.AuthorCreate))
	g.GET("/author/:id", handler.Handle(h.AuthorDetail))
	g.GET("/author/:id/delete", handler.Handle(h.AuthorDeleteForm))
	g.POST("/author/:id/delete", handler.HandleForm(h.AuthorDelete))

	// Genres.
	g.GET("/genres", handler.Handle(h.GenreList))
	g.GET("/genre/create", handler.Handle(h.GenreCreateForm))
	g.POST("/genre/create", handler.HandleForm(h.GenreCreate))
	g.GET("/genre/:id", handler.Handle(h.GenreDetail))
	g.GET("/genre/:id/delete", handler.Handle(h.GenreDeleteForm))
	g.POST("/genre/:id/delete", handler.HandleForm(h.GenreDelete))

	// Copies are read-only.
	g.GET("/bookinstances", handler.Handle(h.InstanceList))
	g.GET("/bookinstance/:id", handler.Handle(h.InstanceDetail))
}
