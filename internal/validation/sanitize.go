package validation

import "strings"

var escaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"'", "&#x27;",
	"<", "&lt;",
	">", "&gt;",
	"/", "&#x2F;",
	`\`, "&#x5C;",
	"`", "&#96;",
)

// Escape replaces markup-significant characters with HTML entities.
//
// Stored values are escaped once on input, so templates emit them with the
// "sanitized" helper instead of escaping them a second time.
func Escape(s string) string {
	return escaper.Replace(s)
}
