package sqlerr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/deppfellow/locallibrary/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestMapCode(t *testing.T) {
	assert.Equal(t, UniqueViolation, MapCode("23505"))
	assert.Equal(t, QueryCanceled, MapCode("57014"))
	assert.Equal(t, ConnectionFailure, MapCode("08006"))
	assert.Equal(t, Other, MapCode("23502"))
	assert.Equal(t, Other, MapCode("XX000"))
}

func TestErrCode(t *testing.T) {
	converted := ConvertPgError(&pgconn.PgError{Code: "23505", TableName: "books"})
	assert.Equal(t, UniqueViolation, ErrCode(fmt.Errorf("insert: %w", converted)))
	assert.Equal(t, Other, ErrCode(errors.New("plain")))
}

func TestHandleErrorNotFound(t *testing.T) {
	for _, err := range []error{pgx.ErrNoRows, mongo.ErrNoDocuments, fmt.Errorf("find: %w", mongo.ErrNoDocuments)} {
		got := HandleError(err)

		var httpErr *errs.HTTPError
		require.True(t, errors.As(got, &httpErr))
		assert.Equal(t, http.StatusNotFound, httpErr.Status)
		assert.Equal(t, errs.KindNotFound, httpErr.Kind)
	}
}

func TestHandleErrorNotFoundWithTable(t *testing.T) {
	got := HandleError(fmt.Errorf("table:genres: %w", pgx.ErrNoRows))
	assert.Equal(t, "Genre not found", got.Error())
}

func TestHandleErrorDuplicateID(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           "23505",
		TableName:      "books",
		ConstraintName: "books_pkey",
	}
	got := HandleError(pgErr)

	var httpErr *errs.HTTPError
	require.True(t, errors.As(got, &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "BOOK_ALREADY_EXISTS", httpErr.Code)
	assert.Equal(t, "Book already exists", httpErr.Message)
	assert.ErrorIs(t, got, pgErr)
}

func TestHandleErrorOtherPgErrorIsInfrastructure(t *testing.T) {
	got := HandleError(&pgconn.PgError{Code: "08006", Message: "connection failure"})
	assert.Equal(t, errs.KindInfrastructure, errs.KindOf(got))
}

func TestHandleErrorMongoDuplicateKey(t *testing.T) {
	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}

	got := HandleError(fmt.Errorf("table:bookinstances: %w", dup))
	var httpErr *errs.HTTPError
	require.True(t, errors.As(got, &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "BOOKINSTANCE_ALREADY_EXISTS", httpErr.Code)
	assert.Equal(t, "Bookinstance already exists", httpErr.Message)

	untagged := HandleError(dup)
	assert.Equal(t, "Record already exists", untagged.Error())
}

func TestHandleErrorUnknownKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	got := HandleError(cause)

	assert.Equal(t, errs.KindInfrastructure, errs.KindOf(got))
	assert.ErrorIs(t, got, cause)
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), got.Error())
}

func TestHandleErrorPassesHTTPErrorThrough(t *testing.T) {
	in := errs.NewNotFoundError("Book not found", true, nil)
	assert.Same(t, in, HandleError(in))
	assert.NoError(t, HandleError(nil))
}
