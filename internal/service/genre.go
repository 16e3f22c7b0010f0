package service

import (
	"context"

	"github.com/deppfellow/locallibrary/internal/errs"
	"github.com/deppfellow/locallibrary/internal/lib/parallel"
	"github.com/deppfellow/locallibrary/internal/lib/utils"
	"github.com/deppfellow/locallibrary/internal/model"
	"github.com/deppfellow/locallibrary/internal/repository"
	"github.com/deppfellow/locallibrary/internal/validation"
)

// GenreDetailResult is a genre and its books.
type GenreDetailResult struct {
	Genre *model.Genre
	Books []model.Book
}

// GenreFormResult is the outcome of a genre form submit. Non-empty Errors
// means Genre holds the submitted values to show again. Otherwise Genre is
// either the new genre or an existing one with the same name.
type GenreFormResult struct {
	Genre  *model.Genre
	Errors validation.Errors
}

// GenreDeletion is a genre and the books that block deleting it.
type GenreDeletion struct {
	Genre *model.Genre
	Books []model.Book
}

// Blocked reports whether books are still filed under the genre.
func (d GenreDeletion) Blocked() bool {
	return len(d.Books) > 0
}

// ListGenres returns all genres ordered by name.
func (s *CatalogService) ListGenres(ctx context.Context) ([]model.Genre, error) {
	return s.repos.Genres.Find(ctx, repository.All().OrderBy("name"))
}

// GenreDetail loads a genre and its books.
func (s *CatalogService) GenreDetail(ctx context.Context, id string) (GenreDetailResult, error) {
	results, err := parallel.Run(ctx, parallel.Tasks{
		"genre":       func(ctx context.Context) (any, error) { return s.repos.Genres.FindByID(ctx, id) },
		"genre_books": findTask(s.repos.Books, repository.All().Contains("genre", id).Select("title", "summary").OrderBy("title")),
	})
	if err != nil {
		return GenreDetailResult{}, err
	}

	genre := parallel.Get[*model.Genre](results, "genre")
	if genre == nil {
		return GenreDetailResult{}, errs.NewNotFoundError("Genre not found", true, nil)
	}

	return GenreDetailResult{
		Genre: genre,
		Books: parallel.Get[[]model.Book](results, "genre_books"),
	}, nil
}

// CreateGenre validates the submitted form and inserts the genre unless
// one with the same name already exists, in which case that one is
// returned.
func (s *CatalogService) CreateGenre(ctx context.Context, form *validation.Form) (GenreFormResult, error) {
	errors := validation.GenreRules.Apply(form)

	genre := &model.Genre{Name: form.Get("name")}
	if !errors.Empty() {
		return GenreFormResult{Genre: genre, Errors: errors}, nil
	}

	existing, err := s.repos.Genres.Find(ctx, repository.Where("name", genre.Name))
	if err != nil {
		return GenreFormResult{}, err
	}
	if len(existing) > 0 {
		return GenreFormResult{Genre: &existing[0]}, nil
	}

	genre.ID = utils.NewID()
	if err := s.repos.Genres.Insert(ctx, genre.ID, genre); err != nil {
		return GenreFormResult{}, err
	}
	return GenreFormResult{Genre: genre}, nil
}

// GenreDeleteInfo loads a genre and its books. Genre is nil when missing.
func (s *CatalogService) GenreDeleteInfo(ctx context.Context, id string) (GenreDeletion, error) {
	results, err := parallel.Run(ctx, parallel.Tasks{
		"genre":       func(ctx context.Context) (any, error) { return s.repos.Genres.FindByID(ctx, id) },
		"genre_books": findTask(s.repos.Books, repository.All().Contains("genre", id).Select("title", "summary")),
	})
	if err != nil {
		return GenreDeletion{}, err
	}

	return GenreDeletion{
		Genre: parallel.Get[*model.Genre](results, "genre"),
		Books: parallel.Get[[]model.Book](results, "genre_books"),
	}, nil
}

// DeleteGenre deletes genre id unless books are filed under it.
func (s *CatalogService) DeleteGenre(ctx context.Context, id string) (GenreDeletion, error) {
	info, err := s.GenreDeleteInfo(ctx, id)
	if err != nil || info.Blocked() {
		return info, err
	}
	return info, s.repos.Genres.Delete(ctx, id)
}
