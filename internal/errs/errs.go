// Package errs defines the application's error types and utilities.
//
// Every error that reaches the HTTP boundary is classified by a Kind
// (not found, validation, infrastructure, ...) and carries the status the
// boundary should answer with. Field-level form errors are modelled with
// FieldError so handlers can render them next to their inputs.
package errs
