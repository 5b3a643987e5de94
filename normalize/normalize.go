// Package normalize rewrites records into their canonical shape: snake_case
// mapping keys and trimmed string values, applied recursively.
package normalize

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vmprov/dataopt/schema"
)

// Options controls a normalization pass.
type Options struct {
	// MaxDepth bounds container nesting; 0 disables the check. The top-level
	// mapping or sequence sits at depth 1.
	MaxDepth int
}

// DepthError reports a container nested beyond Options.MaxDepth.
type DepthError struct {
	Path     string // JSON Pointer of the offending container.
	MaxDepth int
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("max depth %d exceeded at %s", e.MaxDepth, e.Path)
}

// Normalize returns the canonical form of v without any depth limit.
func Normalize(v any) any {
	out, _ := NormalizeWithOptions(v, Options{})
	return out
}

// NormalizeWithOptions returns the canonical form of v. The input is never
// modified; mappings and sequences in the result are fresh values.
func NormalizeWithOptions(v any, opt Options) (any, error) {
	w := walker{opt: opt}
	return w.value(v, nil, 0)
}

type walker struct {
	opt Options
}

func (w *walker) enter(path []any, depth int) error {
	if w.opt.MaxDepth > 0 && depth > w.opt.MaxDepth {
		return &DepthError{Path: schema.Pointer(path...), MaxDepth: w.opt.MaxDepth}
	}
	return nil
}

func (w *walker) value(v any, path []any, depth int) (any, error) {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s), nil
	}
	if m, ok := schema.AsMapping(v); ok {
		if err := w.enter(path, depth+1); err != nil {
			return nil, err
		}
		// sorted so that keys colliding after rewriting resolve the same way every run
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make(map[string]any, len(m))
		for _, k := range keys {
			nv, err := w.value(m[k], append(path, k), depth+1)
			if err != nil {
				return nil, err
			}
			out[SnakeCase(k)] = nv
		}
		return out, nil
	}
	if seq, ok := schema.AsSequence(v); ok {
		if err := w.enter(path, depth+1); err != nil {
			return nil, err
		}
		out := make([]any, len(seq))
		for i, item := range seq {
			nv, err := w.value(item, append(path, i), depth+1)
			if err != nil {
				return nil, err
			}
			out[i] = nv
		}
		return out, nil
	}
	return v, nil
}

// SnakeCase inserts '_' before every ASCII uppercase letter, lowercases the
// result and trims '_' from both ends: "vmName" -> "vm_name",
// "memoryMB" -> "memory_m_b".
func SnakeCase(key string) string {
	b := strings.Builder{}
	b.Grow(len(key) + 4)
	for _, r := range key {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
		}
		b.WriteRune(r)
	}
	return strings.Trim(strings.ToLower(b.String()), "_")
}
