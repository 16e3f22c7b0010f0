// Package service contains the core business logic of the library.
//
// It sits between the HTTP handlers and the repositories: it runs the
// form state machine (normalize, validate, re-render or persist), expands
// document references into the models the pages need, and guards deletes
// that would orphan references.
package service
