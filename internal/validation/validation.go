// Package validation contains the logic for validating
// request data.
//
// Form input is normalized, then checked against ordered rule lists. Each
// rule is a `validator` tag applied to one trimmed field. Every field is
// finally escaped for safe rendering, and violations are reported as
// field errors the client can understand.
package validation

import (
	"fmt"
	"strings"

	"github.com/deppfellow/locallibrary/internal/errs"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Rule checks one field. Tag is any go-playground/validator tag
// ("required", "alphanum", "omitempty,datetime=2006-01-02"). Message is
// reported when the check fails; an empty Message gets a generic one.
type Rule struct {
	Field   string
	Tag     string
	Message string
}

// Rules is an ordered rule list.
type Rules []Rule

// Errors lists violations in rule order.
type Errors []errs.FieldError

// Empty reports whether no rule failed.
func (e Errors) Empty() bool {
	return len(e) == 0
}

// Err returns the violations as a 400 carrying field errors, or nil.
func (e Errors) Err() error {
	if e.Empty() {
		return nil
	}
	return errs.NewBadRequestError("Validation failed", true, nil, []errs.FieldError(e), nil)
}

// Apply trims every field a rule names, runs all rules without stopping at
// the first failure, then escapes every field of f.
func (r Rules) Apply(f *Form) Errors {
	for _, rule := range r {
		f.trim(rule.Field)
	}

	var out Errors
	for _, rule := range r {
		if err := validate.Var(f.Get(rule.Field), rule.Tag); err != nil {
			out = append(out, errs.FieldError{
				Field: rule.Field,
				Error: ruleMessage(rule, err),
			})
		}
	}

	f.Escape()
	return out
}

func ruleMessage(rule Rule, err error) string {
	if rule.Message != "" {
		return rule.Message
	}

	field := strings.ReplaceAll(rule.Field, "_", " ")

	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return fmt.Sprintf("%s is invalid", field)
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must not exceed %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "alphanum":
		return fmt.Sprintf("%s has non-alphanumeric characters", field)
	case "datetime":
		return fmt.Sprintf("%s must be a date (%s)", field, fe.Param())
	default:
		if fe.Param() != "" {
			return fmt.Sprintf("%s: %s:%s", field, fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("%s: %s", field, fe.Tag())
	}
}
