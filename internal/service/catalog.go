package service

import (
	"context"

	"github.com/deppfellow/locallibrary/internal/lib/job"
	"github.com/deppfellow/locallibrary/internal/lib/parallel"
	"github.com/deppfellow/locallibrary/internal/model"
	"github.com/deppfellow/locallibrary/internal/repository"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// BookNotifier schedules "book added" notifications.
type BookNotifier interface {
	EnqueueBookAdded(ctx context.Context, p job.BookAddedPayload) error
}

// CatalogService implements the catalog pages.
type CatalogService struct {
	repos    *repository.Repositories
	notifier BookNotifier
	logger   *zerolog.Logger
}

// NewCatalogService creates the catalog service. notifier may be nil.
func NewCatalogService(repos *repository.Repositories, notifier BookNotifier, logger *zerolog.Logger) *CatalogService {
	return &CatalogService{
		repos:    repos,
		notifier: notifier,
		logger:   logger,
	}
}

// IndexResult holds the dashboard counts. A nil count failed to load.
type IndexResult struct {
	BookCount                  *int64
	BookInstanceCount          *int64
	BookInstanceAvailableCount *int64
	AuthorCount                *int64
	GenreCount                 *int64
}

// Index counts every collection at once. It returns the counts that
// succeeded together with the first error, so the dashboard still renders.
func (s *CatalogService) Index(ctx context.Context) (IndexResult, error) {
	results, err := parallel.Run(ctx, parallel.Tasks{
		"book_count":                    countTask(s.repos.Books, repository.All()),
		"book_instance_count":           countTask(s.repos.Instances, repository.All()),
		"book_instance_available_count": countTask(s.repos.Instances, repository.Where("status", model.StatusAvailable)),
		"author_count":                  countTask(s.repos.Authors, repository.All()),
		"genre_count":                   countTask(s.repos.Genres, repository.All()),
	})

	return IndexResult{
		BookCount:                  countOf(results, "book_count"),
		BookInstanceCount:          countOf(results, "book_instance_count"),
		BookInstanceAvailableCount: countOf(results, "book_instance_available_count"),
		AuthorCount:                countOf(results, "author_count"),
		GenreCount:                 countOf(results, "genre_count"),
	}, err
}

func countTask[T any](c repository.Collection[T], q repository.Query) parallel.Task {
	return func(ctx context.Context) (any, error) {
		return c.Count(ctx, q)
	}
}

func countOf(results parallel.Results, name string) *int64 {
	n, ok := results[name].(int64)
	if !ok {
		return nil
	}
	return &n
}

func findTask[T any](c repository.Collection[T], q repository.Query) parallel.Task {
	return func(ctx context.Context) (any, error) {
		return c.Find(ctx, q)
	}
}

// populateAuthors sets Book.Author from one batched lookup.
func (s *CatalogService) populateAuthors(ctx context.Context, books []model.Book) error {
	ids := lo.Uniq(lo.FilterMap(books, func(b model.Book, _ int) (string, bool) {
		return b.AuthorID, b.AuthorID != ""
	}))
	if len(ids) == 0 {
		return nil
	}

	authors, err := s.repos.Authors.Find(ctx, repository.ByIDs(ids))
	if err != nil {
		return err
	}

	byID := lo.KeyBy(authors, func(a model.Author) string { return a.ID })
	for i := range books {
		if a, ok := byID[books[i].AuthorID]; ok {
			books[i].Author = &a
		}
	}
	return nil
}

// populateBook expands the author and genres of one book.
func (s *CatalogService) populateBook(ctx context.Context, book *model.Book) error {
	results, err := parallel.Run(ctx, parallel.Tasks{
		"author": func(ctx context.Context) (any, error) {
			if book.AuthorID == "" {
				return (*model.Author)(nil), nil
			}
			return s.repos.Authors.FindByID(ctx, book.AuthorID)
		},
		"genres": func(ctx context.Context) (any, error) {
			if len(book.GenreIDs) == 0 {
				return []model.Genre{}, nil
			}
			return s.repos.Genres.Find(ctx, repository.ByIDs(book.GenreIDs).OrderBy("name"))
		},
	})
	if err != nil {
		return err
	}

	book.Author = parallel.Get[*model.Author](results, "author")
	book.Genres = parallel.Get[[]model.Genre](results, "genres")
	return nil
}

// markChecked flags the genres whose id appears in selected. Ids are
// compared by value since genres and selections are loaded separately.
func markChecked(genres []model.Genre, selected []string) {
	for i := range genres {
		genres[i].Checked = lo.Contains(selected, genres[i].ID)
	}
}
