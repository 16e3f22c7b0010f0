package errs

import "strings"

// FieldError represents a field-level validation error (typical for forms).
// Example:
//
//	{ "field": "title", "error": "Title must not be empty." }
type FieldError struct {
	// Field is the form field the error relates to (e.g. "title").
	Field string `json:"field"`

	// Error is the human-readable error message.
	Error string `json:"error"`
}

// Kind classifies an error independently of the transport.
type Kind string

const (
	// KindNotFound marks a missing entity (404).
	KindNotFound Kind = "not_found"
	// KindValidation marks user-correctable input problems (400).
	KindValidation Kind = "validation"
	// KindBadRequest marks malformed requests that are not field-level (400).
	KindBadRequest Kind = "bad_request"
	// KindConflict marks writes rejected by a uniqueness rule (409).
	KindConflict Kind = "conflict"
	// KindInfrastructure marks persistence, network, and other server faults (500).
	KindInfrastructure Kind = "infrastructure"
)

// ActionType is a string-based enum describing what the client should do.
type ActionType string

const (
	// ActionTypeRedirect tells the client it should redirect somewhere.
	// Usually "Value" holds the URL or route.
	ActionTypeRedirect ActionType = "redirect"
)

// Action describes an optional "what the client should do next" instruction.
type Action struct {
	Type    ActionType `json:"type"`
	Message string     `json:"message"`
	Value   string     `json:"value"`
}

// HTTPError is the main custom error type.
//
// Fields:
//   - Code: machine-friendly error code (e.g. "NOT_FOUND").
//   - Kind: transport-independent classification.
//   - Message: human-friendly message.
//   - Status: HTTP status code used at the boundary.
//   - Override: the message is safe to show to clients as-is.
//   - Errors: list of per-field errors (validation).
//   - Action: client instruction (optional).
type HTTPError struct {
	Code     string       `json:"code"`
	Kind     Kind         `json:"kind"`
	Message  string       `json:"message"`
	Status   int          `json:"status"`
	Override bool         `json:"override"`
	Errors   []FieldError `json:"errors,omitempty"`
	Action   *Action      `json:"action,omitempty"`

	// cause is the underlying error, kept for logs and errors.Is/As.
	cause error
}

// Error makes *HTTPError satisfy the built-in `error` interface.
func (e *HTTPError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause, if any.
func (e *HTTPError) Unwrap() error {
	return e.cause
}

// Is reports whether target is also a *HTTPError.
//
// This does NOT compare Code/Status/etc, only the type.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)

	return ok
}

// WithMessage returns a copy of this HTTPError with Message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	return &HTTPError{
		Code:     e.Code,
		Kind:     e.Kind,
		Message:  message,
		Status:   e.Status,
		Override: e.Override,
		Errors:   e.Errors,
		Action:   e.Action,
		cause:    e.cause,
	}
}

// WithCause returns a copy of this HTTPError wrapping cause.
func (e *HTTPError) WithCause(cause error) *HTTPError {
	c := e.WithMessage(e.Message)
	c.cause = cause
	return c
}

// MakeUpperCaseWithUnderscores converts a string into an UPPER_CASE_WITH_UNDERSCORES format.
//
// Example:
//
//	"Bad Request" -> "BAD_REQUEST"
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
