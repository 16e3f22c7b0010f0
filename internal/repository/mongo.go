package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/deppfellow/locallibrary/internal/sqlerr"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoCollection[T any] struct {
	coll    *mongo.Collection
	timeout time.Duration
}

// NewMongoCollection binds a Collection to db.<CollectionName[T]>.
func NewMongoCollection[T any](db *mongo.Database, timeout time.Duration) Collection[T] {
	return &mongoCollection[T]{
		coll:    db.Collection(CollectionName[T]()),
		timeout: timeout,
	}
}

func (c *mongoCollection[T]) Name() string {
	return c.coll.Name()
}

func (c *mongoCollection[T]) Find(ctx context.Context, q Query) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	opts := options.Find()
	if len(q.Fields) > 0 {
		projection := bson.D{}
		for _, f := range q.Fields {
			projection = append(projection, bson.E{Key: f, Value: 1})
		}
		opts.SetProjection(projection)
	}
	if q.Sort != "" {
		opts.SetSort(bson.D{{Key: q.Sort, Value: 1}})
	}

	cursor, err := c.coll.Find(ctx, mongoFilter(q.Conditions), opts)
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}

	out := make([]T, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, sqlerr.HandleError(err)
	}
	return out, nil
}

func (c *mongoCollection[T]) FindByID(ctx context.Context, id string) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var doc T
	err := c.coll.FindOne(ctx, bson.M{IDField: id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	return &doc, nil
}

func (c *mongoCollection[T]) Count(ctx context.Context, q Query) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	n, err := c.coll.CountDocuments(ctx, mongoFilter(q.Conditions))
	if err != nil {
		return 0, sqlerr.HandleError(err)
	}
	return n, nil
}

func (c *mongoCollection[T]) Insert(ctx context.Context, id string, doc *T) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	m, err := encode(id, doc)
	if err != nil {
		return sqlerr.HandleError(err)
	}
	if _, err := c.coll.InsertOne(ctx, m); err != nil {
		return sqlerr.HandleError(fmt.Errorf("table:%s: %w", c.Name(), err))
	}
	return nil
}

func (c *mongoCollection[T]) Replace(ctx context.Context, id string, doc *T) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	m, err := encode(id, doc)
	if err != nil {
		return sqlerr.HandleError(err)
	}
	res, err := c.coll.ReplaceOne(ctx, bson.M{IDField: id}, m)
	if err != nil {
		return sqlerr.HandleError(err)
	}
	if res.MatchedCount == 0 {
		return sqlerr.HandleError(fmt.Errorf("table:%s: %w", c.Name(), mongo.ErrNoDocuments))
	}
	return nil
}

func (c *mongoCollection[T]) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if _, err := c.coll.DeleteOne(ctx, bson.M{IDField: id}); err != nil {
		return sqlerr.HandleError(err)
	}
	return nil
}

// mongoFilter translates conditions into a query document. An equality on
// an array field already matches any element, so OpContains is the same
// filter as OpEq.
func mongoFilter(conds []Condition) bson.M {
	filter := bson.M{}
	for _, cond := range conds {
		switch cond.Op {
		case OpIn:
			filter[cond.Field] = bson.M{"$in": cond.Value}
		default:
			filter[cond.Field] = cond.Value
		}
	}
	return filter
}
