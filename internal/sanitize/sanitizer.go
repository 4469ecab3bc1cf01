// Package sanitize escapes persisted text before it leaves the service.
//
// Escaping is not idempotent: "&amp;" becomes "&amp;amp;" on a second pass.
// Apply it exactly once, at the response boundary.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// controlReplacer turns control characters into their two-character
// backslash literals.
var controlReplacer = strings.NewReplacer(
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// Sanitizer is stateless after construction and safe for concurrent use.
type Sanitizer struct {
	strict *bluemonday.Policy
}

func New() *Sanitizer {
	return &Sanitizer{strict: bluemonday.StrictPolicy()}
}

// Escape HTML-escapes s.  A nil input yields nil, never an empty string.
func (s *Sanitizer) Escape(in *string) *string {
	if in == nil {
		return nil
	}
	out := s.EscapeString(*in)
	return &out
}

// EscapeString replaces <, >, &, ' and " with character references.
func (s *Sanitizer) EscapeString(in string) string {
	return html.EscapeString(in)
}

// EscapeForJSON is Escape followed by neutralising newline, carriage return
// and tab, for values embedded in a quoted textual payload.
func (s *Sanitizer) EscapeForJSON(in *string) *string {
	if in == nil {
		return nil
	}
	out := controlReplacer.Replace(html.EscapeString(*in))
	return &out
}

// ForLog renders untrusted input for a log attribute: markup is stripped,
// the remainder escaped and control characters neutralised so a single
// value cannot forge extra log lines.
func (s *Sanitizer) ForLog(in string) string {
	return controlReplacer.Replace(s.strict.Sanitize(in))
}
