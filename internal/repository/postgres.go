package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/deppfellow/locallibrary/internal/sqlerr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of *pgxpool.Pool the jsonb backend needs.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var (
	psql         = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	fieldPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
)

// pgCollection stores each document as one (id text, doc jsonb) row in a
// table named after the collection. Field projection is not applied; whole
// documents are returned.
type pgCollection[T any] struct {
	db      Querier
	table   string
	timeout time.Duration
}

// NewPostgresCollection binds a Collection to the jsonb table
// CollectionName[T]() created by the migrations.
func NewPostgresCollection[T any](db Querier, timeout time.Duration) Collection[T] {
	return &pgCollection[T]{
		db:      db,
		table:   CollectionName[T](),
		timeout: timeout,
	}
}

func (c *pgCollection[T]) Name() string {
	return c.table
}

func (c *pgCollection[T]) findSQL(q Query) (string, []any, error) {
	where, err := pgWhere(q.Conditions)
	if err != nil {
		return "", nil, err
	}
	b := psql.Select("doc").From(c.table)
	if len(where) > 0 {
		b = b.Where(where)
	}
	if q.Sort != "" {
		col, err := pgField(q.Sort)
		if err != nil {
			return "", nil, err
		}
		b = b.OrderBy(col)
	}
	return b.ToSql()
}

func (c *pgCollection[T]) countSQL(q Query) (string, []any, error) {
	where, err := pgWhere(q.Conditions)
	if err != nil {
		return "", nil, err
	}
	b := psql.Select("count(*)").From(c.table)
	if len(where) > 0 {
		b = b.Where(where)
	}
	return b.ToSql()
}

func (c *pgCollection[T]) Find(ctx context.Context, q Query) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	query, args, err := c.findSQL(q)
	if err != nil {
		return nil, err
	}

	rows, err := c.db.Query(ctx, query, args...)
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	raws, err := pgx.CollectRows(rows, pgx.RowTo[[]byte])
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}

	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, sqlerr.HandleError(fmt.Errorf("decoding %s document: %w", c.table, err))
		}
		out = append(out, v)
	}
	return out, nil
}

func (c *pgCollection[T]) FindByID(ctx context.Context, id string) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	query, args, err := psql.Select("doc").From(c.table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}

	var raw []byte
	if err := c.db.QueryRow(ctx, query, args...).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, sqlerr.HandleError(err)
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, sqlerr.HandleError(fmt.Errorf("decoding %s document: %w", c.table, err))
	}
	return &v, nil
}

func (c *pgCollection[T]) Count(ctx context.Context, q Query) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	query, args, err := c.countSQL(q)
	if err != nil {
		return 0, err
	}

	var n int64
	if err := c.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, sqlerr.HandleError(err)
	}
	return n, nil
}

func (c *pgCollection[T]) Insert(ctx context.Context, id string, doc *T) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := json.Marshal(doc)
	if err != nil {
		return sqlerr.HandleError(err)
	}

	query, args, err := psql.Insert(c.table).Columns("id", "doc").Values(id, payload).ToSql()
	if err != nil {
		return err
	}
	if _, err := c.db.Exec(ctx, query, args...); err != nil {
		return sqlerr.HandleError(err)
	}
	return nil
}

func (c *pgCollection[T]) Replace(ctx context.Context, id string, doc *T) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := json.Marshal(doc)
	if err != nil {
		return sqlerr.HandleError(err)
	}

	query, args, err := psql.Update(c.table).Set("doc", payload).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	tag, err := c.db.Exec(ctx, query, args...)
	if err != nil {
		return sqlerr.HandleError(err)
	}
	if tag.RowsAffected() == 0 {
		return sqlerr.HandleError(fmt.Errorf("table:%s: %w", c.table, pgx.ErrNoRows))
	}
	return nil
}

func (c *pgCollection[T]) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	query, args, err := psql.Delete(c.table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	if _, err := c.db.Exec(ctx, query, args...); err != nil {
		return sqlerr.HandleError(err)
	}
	return nil
}

// pgField returns the SQL expression for a document field as text.
func pgField(field string) (string, error) {
	if field == IDField {
		return "id", nil
	}
	if !fieldPattern.MatchString(field) {
		return "", fmt.Errorf("invalid document field %q", field)
	}
	return "doc->>'" + field + "'", nil
}

func pgWhere(conds []Condition) (sq.And, error) {
	where := sq.And{}
	for _, cond := range conds {
		col, err := pgField(cond.Field)
		if err != nil {
			return nil, err
		}

		switch cond.Op {
		case OpEq:
			where = append(where, sq.Eq{col: fmt.Sprint(cond.Value)})
		case OpContains:
			if cond.Field == IDField {
				return nil, fmt.Errorf("contains on %s is not supported", IDField)
			}
			element, err := json.Marshal([]any{cond.Value})
			if err != nil {
				return nil, err
			}
			where = append(where, sq.Expr("doc->'"+cond.Field+"' @> ?::jsonb", string(element)))
		case OpIn:
			values, _ := cond.Value.([]string)
			where = append(where, sq.Eq{col: values})
		}
	}
	return where, nil
}
