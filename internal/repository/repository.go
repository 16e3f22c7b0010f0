// Package repository handles all interactions with the document store.
//
// Every catalog entity lives in its own collection. A Collection hides
// whether documents are kept in MongoDB, in Postgres jsonb rows, or in
// process memory, so the service layer only deals with models and Queries.
package repository

import (
	"context"
	"reflect"
	"strings"

	"github.com/jinzhu/inflection"
)

// Collection is the persistence contract for one document type.
//
// FindByID returns (nil, nil) when the document does not exist. Replace
// reports a not-found error for a missing id. Delete of a missing id is a
// no-op. Every other failure comes back as an *errs.HTTPError classified by
// sqlerr.HandleError.
type Collection[T any] interface {
	Name() string
	Find(ctx context.Context, q Query) ([]T, error)
	FindByID(ctx context.Context, id string) (*T, error)
	Count(ctx context.Context, q Query) (int64, error)
	Insert(ctx context.Context, id string, doc *T) error
	Replace(ctx context.Context, id string, doc *T) error
	Delete(ctx context.Context, id string) error
}

// CollectionName derives the collection (or table) name of a model type:
// the lower-cased type name, pluralized. BookInstance -> "bookinstances".
func CollectionName[T any]() string {
	name := reflect.TypeOf((*T)(nil)).Elem().Name()
	return inflection.Plural(strings.ToLower(name))
}
