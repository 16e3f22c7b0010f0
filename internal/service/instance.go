package service

import (
	"context"

	"github.com/deppfellow/locallibrary/internal/errs"
	"github.com/deppfellow/locallibrary/internal/model"
	"github.com/deppfellow/locallibrary/internal/repository"
	"github.com/samber/lo"
)

// ListInstances returns every copy with its book's title.
func (s *CatalogService) ListInstances(ctx context.Context) ([]model.BookInstance, error) {
	instances, err := s.repos.Instances.Find(ctx, repository.All())
	if err != nil {
		return nil, err
	}

	ids := lo.Uniq(lo.Map(instances, func(i model.BookInstance, _ int) string { return i.BookID }))
	if len(ids) == 0 {
		return instances, nil
	}

	books, err := s.repos.Books.Find(ctx, repository.ByIDs(ids).Select("title"))
	if err != nil {
		return nil, err
	}

	byID := lo.KeyBy(books, func(b model.Book) string { return b.ID })
	for i := range instances {
		if b, ok := byID[instances[i].BookID]; ok {
			instances[i].Book = &b
		}
	}
	return instances, nil
}

// InstanceDetail loads one copy and its book.
func (s *CatalogService) InstanceDetail(ctx context.Context, id string) (*model.BookInstance, error) {
	inst, err := s.repos.Instances.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inst == nil {
		return nil, errs.NewNotFoundError("Book copy not found", true, nil)
	}

	book, err := s.repos.Books.FindByID(ctx, inst.BookID)
	if err != nil {
		return nil, err
	}
	inst.Book = book
	return inst, nil
}
