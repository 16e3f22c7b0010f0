package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/deppfellow/locallibrary/internal/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jinzhu/inflection"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// tablePrefix tags a wrapped error with the collection it came from:
// fmt.Errorf("table:books: %w", err).
const tablePrefix = "table:"

// ErrCode reports the Code of the first *Error in err's chain, or Other.
func ErrCode(err error) Code {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code
	}
	return Other
}

// ConvertPgError reduces a Postgres error to an *Error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		TableName:      src.TableName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// errorCode builds codes like BOOK_ALREADY_EXISTS from a table name.
func errorCode(table, action string) string {
	if table == "" {
		table = "records"
	}
	return fmt.Sprintf("%s_%s", strings.ToUpper(inflection.Singular(strings.ToLower(table))), action)
}

// entityName turns "bookinstances" into "Bookinstance" and "" into "Record".
func entityName(table string) string {
	if table == "" {
		return "Record"
	}
	return cases.Title(language.English).String(inflection.Singular(strings.ToLower(table)))
}

// taggedTable extracts the table from an error wrapped with tablePrefix.
func taggedTable(err error) string {
	msg := err.Error()
	i := strings.Index(msg, tablePrefix)
	if i < 0 {
		return ""
	}
	rest := msg[i+len(tablePrefix):]
	if j := strings.Index(rest, ":"); j >= 0 {
		return rest[:j]
	}
	return ""
}

// HandleError converts a storage error into an *errs.HTTPError:
//   - an *errs.HTTPError passes through unchanged
//   - a duplicate document id (Postgres *_pkey, Mongo E11000) is a 400
//   - no rows or no documents is a 404
//   - anything else is an infrastructure error wrapping err
func HandleError(err error) error {
	if err == nil {
		return nil
	}

	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		sqlErr := ConvertPgError(pgerr)
		if sqlErr.Code == UniqueViolation {
			return duplicate(sqlErr.TableName, err)
		}
		return errs.NewInfrastructureError(err)
	}

	if mongo.IsDuplicateKeyError(err) {
		return duplicate(taggedTable(err), err)
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) || errors.Is(err, mongo.ErrNoDocuments) {
		table := taggedTable(err)
		if table == "" {
			return errs.NewNotFoundError("Resource not found", false, nil)
		}
		return errs.NewNotFoundError(entityName(table)+" not found", true, nil)
	}

	return errs.NewInfrastructureError(err)
}

func duplicate(table string, cause error) error {
	code := errorCode(table, "ALREADY_EXISTS")
	msg := fmt.Sprintf("%s already exists", entityName(table))
	return errs.NewBadRequestError(msg, true, &code, nil, nil).WithCause(cause)
}
