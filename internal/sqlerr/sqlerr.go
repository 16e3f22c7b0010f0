// Package sqlerr classifies storage driver errors.
//
// The catalog stores documents either as (id, doc jsonb) rows in Postgres
// or in MongoDB collections. The only constraint either store enforces is
// the document id, so the errors worth telling apart are a duplicate id,
// a missing row or document, and everything else.
package sqlerr

import "fmt"

// Code is a driver-independent classification of a database error.
type Code string

const (
	Other             Code = "other"
	UniqueViolation   Code = "unique_violation"
	ConnectionFailure Code = "connection_failure"
	QueryCanceled     Code = "query_canceled"
)

// Error is a Postgres error reduced to the fields the catalog reports on.
type Error struct {
	Code           Code
	DatabaseCode   string
	Message        string
	TableName      string
	ConstraintName string

	driverErr error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%s): %s", e.Code, e.DatabaseCode, e.Message)
}

func (e *Error) Unwrap() error {
	return e.driverErr
}

// MapCode maps a SQLSTATE to a Code.
func MapCode(sqlstate string) Code {
	switch sqlstate {
	case "23505":
		return UniqueViolation
	case "57014":
		return QueryCanceled
	}
	if len(sqlstate) == 5 && sqlstate[:2] == "08" {
		return ConnectionFailure
	}
	return Other
}
