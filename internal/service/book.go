package service

import (
	"context"

	"github.com/deppfellow/locallibrary/internal/errs"
	"github.com/deppfellow/locallibrary/internal/lib/job"
	"github.com/deppfellow/locallibrary/internal/lib/parallel"
	"github.com/deppfellow/locallibrary/internal/lib/utils"
	"github.com/deppfellow/locallibrary/internal/model"
	"github.com/deppfellow/locallibrary/internal/repository"
	"github.com/deppfellow/locallibrary/internal/validation"
)

// BookDetailResult is a book with its relations and copies.
type BookDetailResult struct {
	Book      *model.Book
	Instances []model.BookInstance
}

// BookFormResult carries everything the book form needs. After a submit,
// a non-empty Errors means the form must be shown again with Book as the
// submitted values; otherwise Book is the persisted book.
type BookFormResult struct {
	Book    *model.Book
	Authors []model.Author
	Genres  []model.Genre
	Errors  validation.Errors
}

// BookDeletion is a book and the copies that block deleting it.
type BookDeletion struct {
	Book      *model.Book
	Instances []model.BookInstance
}

// Blocked reports whether copies still reference the book.
func (d BookDeletion) Blocked() bool {
	return len(d.Instances) > 0
}

// ListBooks returns every book's title and author, ordered by title.
func (s *CatalogService) ListBooks(ctx context.Context) ([]model.Book, error) {
	books, err := s.repos.Books.Find(ctx, repository.All().Select("title", "author").OrderBy("title"))
	if err != nil {
		return nil, err
	}
	if err := s.populateAuthors(ctx, books); err != nil {
		return nil, err
	}
	return books, nil
}

// BookDetail loads a book with author, genres, and copies.
func (s *CatalogService) BookDetail(ctx context.Context, id string) (BookDetailResult, error) {
	results, err := parallel.Run(ctx, parallel.Tasks{
		"book": func(ctx context.Context) (any, error) {
			book, err := s.repos.Books.FindByID(ctx, id)
			if err != nil || book == nil {
				return book, err
			}
			return book, s.populateBook(ctx, book)
		},
		"book_instance": findTask(s.repos.Instances, repository.Where("book", id)),
	})
	if err != nil {
		return BookDetailResult{}, err
	}

	book := parallel.Get[*model.Book](results, "book")
	if book == nil {
		return BookDetailResult{}, errs.NewNotFoundError("Book not found", true, nil)
	}

	return BookDetailResult{
		Book:      book,
		Instances: parallel.Get[[]model.BookInstance](results, "book_instance"),
	}, nil
}

// BookForm loads the authors and genres to choose from.
func (s *CatalogService) BookForm(ctx context.Context) (BookFormResult, error) {
	results, err := parallel.Run(ctx, parallel.Tasks{
		"authors": findTask(s.repos.Authors, repository.All().OrderBy("family_name")),
		"genres":  findTask(s.repos.Genres, repository.All().OrderBy("name")),
	})
	if err != nil {
		return BookFormResult{}, err
	}

	return BookFormResult{
		Authors: parallel.Get[[]model.Author](results, "authors"),
		Genres:  parallel.Get[[]model.Genre](results, "genres"),
	}, nil
}

// BookUpdateForm loads a book for editing with its genres checked.
func (s *CatalogService) BookUpdateForm(ctx context.Context, id string) (BookFormResult, error) {
	results, err := parallel.Run(ctx, parallel.Tasks{
		"book":    func(ctx context.Context) (any, error) { return s.repos.Books.FindByID(ctx, id) },
		"authors": findTask(s.repos.Authors, repository.All().OrderBy("family_name")),
		"genres":  findTask(s.repos.Genres, repository.All().OrderBy("name")),
	})
	if err != nil {
		return BookFormResult{}, err
	}

	book := parallel.Get[*model.Book](results, "book")
	if book == nil {
		return BookFormResult{}, errs.NewNotFoundError("Book not found", true, nil)
	}

	genres := parallel.Get[[]model.Genre](results, "genres")
	markChecked(genres, book.GenreIDs)

	return BookFormResult{
		Book:    book,
		Authors: parallel.Get[[]model.Author](results, "authors"),
		Genres:  genres,
	}, nil
}

// CreateBook validates the submitted form and inserts a new book.
func (s *CatalogService) CreateBook(ctx context.Context, form *validation.Form) (BookFormResult, error) {
	book, errors := bookFromForm(form)
	if !errors.Empty() {
		return s.bookFormWithErrors(ctx, book, errors)
	}

	book.ID = utils.NewID()
	if err := s.repos.Books.Insert(ctx, book.ID, book); err != nil {
		return BookFormResult{}, err
	}

	s.notifyBookAdded(ctx, book)

	return BookFormResult{Book: book}, nil
}

// UpdateBook validates the submitted form and replaces book id. The stored
// book keeps id.
func (s *CatalogService) UpdateBook(ctx context.Context, id string, form *validation.Form) (BookFormResult, error) {
	book, errors := bookFromForm(form)
	book.ID = id
	if !errors.Empty() {
		return s.bookFormWithErrors(ctx, book, errors)
	}

	if err := s.repos.Books.Replace(ctx, id, book); err != nil {
		return BookFormResult{}, err
	}

	return BookFormResult{Book: book}, nil
}

// BookDeleteInfo loads a book and its copies. Book is nil when missing.
func (s *CatalogService) BookDeleteInfo(ctx context.Context, id string) (BookDeletion, error) {
	results, err := parallel.Run(ctx, parallel.Tasks{
		"book":           func(ctx context.Context) (any, error) { return s.repos.Books.FindByID(ctx, id) },
		"book_instances": findTask(s.repos.Instances, repository.Where("book", id)),
	})
	if err != nil {
		return BookDeletion{}, err
	}

	return BookDeletion{
		Book:      parallel.Get[*model.Book](results, "book"),
		Instances: parallel.Get[[]model.BookInstance](results, "book_instances"),
	}, nil
}

// DeleteBook deletes book id unless copies reference it.
func (s *CatalogService) DeleteBook(ctx context.Context, id string) (BookDeletion, error) {
	info, err := s.BookDeleteInfo(ctx, id)
	if err != nil || info.Blocked() {
		return info, err
	}
	return info, s.repos.Books.Delete(ctx, id)
}

func (s *CatalogService) bookFormWithErrors(ctx context.Context, book *model.Book, errors validation.Errors) (BookFormResult, error) {
	res, err := s.BookForm(ctx)
	if err != nil {
		return BookFormResult{}, err
	}

	markChecked(res.Genres, book.GenreIDs)
	res.Book = book
	res.Errors = errors
	return res, nil
}

// bookFromForm runs normalization and the book rules, then builds the
// candidate book from the sanitized values.
func bookFromForm(form *validation.Form) (*model.Book, validation.Errors) {
	form.Normalize("genre")
	errors := validation.BookRules.Apply(form)

	return &model.Book{
		Title:    form.Get("title"),
		AuthorID: form.Get("author"),
		Summary:  form.Get("summary"),
		ISBN:     form.Get("isbn"),
		GenreIDs: form.Strings("genre"),
	}, errors
}

func (s *CatalogService) notifyBookAdded(ctx context.Context, book *model.Book) {
	if s.notifier == nil {
		return
	}

	authorName := ""
	if author, err := s.repos.Authors.FindByID(ctx, book.AuthorID); err == nil && author != nil {
		authorName = author.Name()
	}

	err := s.notifier.EnqueueBookAdded(ctx, job.BookAddedPayload{
		BookID:     book.ID,
		Title:      book.Title,
		AuthorName: authorName,
		URL:        book.URL(),
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("book_id", book.ID).Msg("failed to enqueue book added notification")
	}
}
