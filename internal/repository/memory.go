package repository

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/deppfellow/locallibrary/internal/sqlerr"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// memoryCollection keeps documents as bson.M in process memory.
//
// Documents go through the same bson encoding as the Mongo backend, so
// field names in Queries mean the same thing for both.
type memoryCollection[T any] struct {
	name string

	mu    sync.RWMutex
	order []string
	docs  map[string]bson.M
}

// NewMemoryCollection returns an empty in-process collection.
func NewMemoryCollection[T any]() Collection[T] {
	return &memoryCollection[T]{
		name: CollectionName[T](),
		docs: make(map[string]bson.M),
	}
}

func (c *memoryCollection[T]) Name() string {
	return c.name
}

func (c *memoryCollection[T]) Find(ctx context.Context, q Query) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, sqlerr.HandleError(err)
	}

	c.mu.RLock()
	matched := make([]bson.M, 0, len(c.docs))
	for _, id := range c.order {
		doc := c.docs[id]
		if matches(doc, q.Conditions) {
			matched = append(matched, project(doc, q.Fields))
		}
	}
	c.mu.RUnlock()

	if q.Sort != "" {
		sort.SliceStable(matched, func(i, j int) bool {
			return fmt.Sprint(matched[i][q.Sort]) < fmt.Sprint(matched[j][q.Sort])
		})
	}

	out := make([]T, 0, len(matched))
	for _, doc := range matched {
		var v T
		if err := decode(doc, &v); err != nil {
			return nil, sqlerr.HandleError(err)
		}
		out = append(out, v)
	}
	return out, nil
}

func (c *memoryCollection[T]) FindByID(ctx context.Context, id string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, sqlerr.HandleError(err)
	}

	c.mu.RLock()
	doc, ok := c.docs[id]
	c.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	var v T
	if err := decode(doc, &v); err != nil {
		return nil, sqlerr.HandleError(err)
	}
	return &v, nil
}

func (c *memoryCollection[T]) Count(ctx context.Context, q Query) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, sqlerr.HandleError(err)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var n int64
	for _, doc := range c.docs {
		if matches(doc, q.Conditions) {
			n++
		}
	}
	return n, nil
}

func (c *memoryCollection[T]) Insert(ctx context.Context, id string, doc *T) error {
	if err := ctx.Err(); err != nil {
		return sqlerr.HandleError(err)
	}

	m, err := encode(id, doc)
	if err != nil {
		return sqlerr.HandleError(err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.docs[id]; exists {
		return sqlerr.HandleError(fmt.Errorf("table:%s: %w", c.name, mongo.WriteException{
			WriteErrors: []mongo.WriteError{{Code: 11000, Message: "duplicate key: " + id}},
		}))
	}
	c.docs[id] = m
	c.order = append(c.order, id)
	return nil
}

func (c *memoryCollection[T]) Replace(ctx context.Context, id string, doc *T) error {
	if err := ctx.Err(); err != nil {
		return sqlerr.HandleError(err)
	}

	m, err := encode(id, doc)
	if err != nil {
		return sqlerr.HandleError(err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.docs[id]; !exists {
		return sqlerr.HandleError(fmt.Errorf("table:%s: %w", c.name, mongo.ErrNoDocuments))
	}
	c.docs[id] = m
	return nil
}

func (c *memoryCollection[T]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return sqlerr.HandleError(err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.docs[id]; !exists {
		return nil
	}
	delete(c.docs, id)
	c.order = slices.DeleteFunc(c.order, func(v string) bool { return v == id })
	return nil
}

// encode stores doc under id regardless of the id carried by the struct.
func encode[T any](id string, doc *T) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	m[IDField] = id
	return m, nil
}

func decode[T any](m bson.M, v *T) error {
	raw, err := bson.Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	return bson.Unmarshal(raw, v)
}

func matches(doc bson.M, conds []Condition) bool {
	for _, cond := range conds {
		value := doc[cond.Field]
		switch cond.Op {
		case OpEq:
			if fmt.Sprint(value) != fmt.Sprint(cond.Value) {
				return false
			}
		case OpContains:
			arr, ok := value.(bson.A)
			if !ok || !slices.ContainsFunc(arr, func(v any) bool { return fmt.Sprint(v) == fmt.Sprint(cond.Value) }) {
				return false
			}
		case OpIn:
			values, _ := cond.Value.([]string)
			if !slices.Contains(values, fmt.Sprint(value)) {
				return false
			}
		}
	}
	return true
}

func project(doc bson.M, fields []string) bson.M {
	if len(fields) == 0 {
		return doc
	}
	out := bson.M{IDField: doc[IDField]}
	for _, f := range fields {
		if v, ok := doc[f]; ok {
			out[f] = v
		}
	}
	return out
}
