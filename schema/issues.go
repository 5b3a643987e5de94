package schema

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Issue codes produced by the validator.
const (
	CodeUnknownType = "unknown_type"
	CodeRequired    = "required"
	CodeInvalidType = "invalid_type"
	CodeInvalidEnum = "invalid_enum"
)

// Issue is a single validation finding.
type Issue struct {
	Path    string // JSON Pointer (for example: /resource_state).
	Code    string // One of the codes above.
	Message string // Rendered through the i18n translator.
	// Params carries the structured values behind Message
	// (e.g. {"field": "success", "expected": "bool", "got": "string"}).
	Params map[string]string
}

// Issues is a collection of validation findings that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := min(len(iss), maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(b, "%s at %s", iss[i].Code, iss[i].Path)
	}
	if len(iss) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(iss))
	}
	return b.String()
}

// Messages returns the rendered message of every issue in order.
func (iss Issues) Messages() []string {
	out := make([]string, 0, len(iss))
	for _, it := range iss {
		out = append(out, it.Message)
	}
	return out
}

// AsIssues extracts Issues from an error chain.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// Pointer joins tokens into an RFC 6901 JSON Pointer. Strings are escaped,
// ints become array indices.
func Pointer(tokens ...any) string {
	if len(tokens) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for _, t := range tokens {
		b.WriteByte('/')
		switch v := t.(type) {
		case int:
			b.WriteString(strconv.Itoa(v))
		case string:
			b.WriteString(pointerEscaper.Replace(v))
		default:
			b.WriteString(pointerEscaper.Replace(fmt.Sprint(v)))
		}
	}
	return b.String()
}
