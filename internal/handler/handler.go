// Package handler is the HTTP layer of the catalog.
//
// Handlers read path parameters and submitted forms, call the service
// layer, and answer with a rendered page, a redirect, or plain text. Form
// parsing, logging, and tracing live in the shared page pipeline (base.go).
package handler
