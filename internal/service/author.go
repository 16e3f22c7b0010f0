package service

import (
	"context"
	"time"

	"github.com/deppfellow/locallibrary/internal/errs"
	"github.com/deppfellow/locallibrary/internal/lib/parallel"
	"github.com/deppfellow/locallibrary/internal/lib/utils"
	"github.com/deppfellow/locallibrary/internal/model"
	"github.com/deppfellow/locallibrary/internal/repository"
	"github.com/deppfellow/locallibrary/internal/validation"
)

// AuthorDetailResult is an author and the books they wrote.
type AuthorDetailResult struct {
	Author *model.Author
	Books  []model.Book
}

// AuthorFormResult is the outcome of an author form submit. Non-empty
// Errors means Author holds the submitted values to show again.
type AuthorFormResult struct {
	Author *model.Author
	Errors validation.Errors
}

// AuthorDeletion is an author and the books that block deleting them.
type AuthorDeletion struct {
	Author *model.Author
	Books  []model.Book
}

// Blocked reports whether books still reference the author.
func (d AuthorDeletion) Blocked() bool {
	return len(d.Books) > 0
}

// ListAuthors returns all authors ordered by family name.
func (s *CatalogService) ListAuthors(ctx context.Context) ([]model.Author, error) {
	return s.repos.Authors.Find(ctx, repository.All().OrderBy("family_name"))
}

// AuthorDetail loads an author and their books.
func (s *CatalogService) AuthorDetail(ctx context.Context, id string) (AuthorDetailResult, error) {
	results, err := parallel.Run(ctx, parallel.Tasks{
		"author":       func(ctx context.Context) (any, error) { return s.repos.Authors.FindByID(ctx, id) },
		"author_books": findTask(s.repos.Books, repository.Where("author", id).Select("title", "summary").OrderBy("title")),
	})
	if err != nil {
		return AuthorDetailResult{}, err
	}

	author := parallel.Get[*model.Author](results, "author")
	if author == nil {
		return AuthorDetailResult{}, errs.NewNotFoundError("Author not found", true, nil)
	}

	return AuthorDetailResult{
		Author: author,
		Books:  parallel.Get[[]model.Book](results, "author_books"),
	}, nil
}

// CreateAuthor validates the submitted form and inserts a new author.
func (s *CatalogService) CreateAuthor(ctx context.Context, form *validation.Form) (AuthorFormResult, error) {
	errors := validation.AuthorRules.Apply(form)

	author := &model.Author{
		FirstName:   form.Get("first_name"),
		FamilyName:  form.Get("family_name"),
		DateOfBirth: parseDate(form.Get("date_of_birth")),
		DateOfDeath: parseDate(form.Get("date_of_death")),
	}
	if !errors.Empty() {
		return AuthorFormResult{Author: author, Errors: errors}, nil
	}

	author.ID = utils.NewID()
	if err := s.repos.Authors.Insert(ctx, author.ID, author); err != nil {
		return AuthorFormResult{}, err
	}
	return AuthorFormResult{Author: author}, nil
}

// AuthorDeleteInfo loads an author and their books. Author is nil when
// missing.
func (s *CatalogService) AuthorDeleteInfo(ctx context.Context, id string) (AuthorDeletion, error) {
	results, err := parallel.Run(ctx, parallel.Tasks{
		"author":       func(ctx context.Context) (any, error) { return s.repos.Authors.FindByID(ctx, id) },
		"author_books": findTask(s.repos.Books, repository.Where("author", id).Select("title", "summary")),
	})
	if err != nil {
		return AuthorDeletion{}, err
	}

	return AuthorDeletion{
		Author: parallel.Get[*model.Author](results, "author"),
		Books:  parallel.Get[[]model.Book](results, "author_books"),
	}, nil
}

// DeleteAuthor deletes author id unless books reference them. The check
// and the delete are not atomic.
func (s *CatalogService) DeleteAuthor(ctx context.Context, id string) (AuthorDeletion, error) {
	info, err := s.AuthorDeleteInfo(ctx, id)
	if err != nil || info.Blocked() {
		return info, err
	}
	return info, s.repos.Authors.Delete(ctx, id)
}

// parseDate reads a validated yyyy-mm-dd value; empty or invalid gives nil.
func parseDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return nil
	}
	return &t
}
