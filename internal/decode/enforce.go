package decode

import (
	"github.com/vmprov/dataopt/normalize"
	"github.com/vmprov/dataopt/schema"
)

// Duplicate records a key that appeared more than once in the same object.
// The last occurrence wins in the decoded value.
type Duplicate struct {
	Path string // JSON Pointer of the duplicated member.
	Key  string
}

type enforceOptions struct {
	maxDepth    int
	onDuplicate func(Duplicate)
}

type enforceFrame struct {
	kind       containerKind
	token      any // path token of this container within its parent
	keys       map[string]struct{}
	pendingKey string
	nextIndex  int
}

// enforcingSource tracks the JSON Pointer of every token so that depth
// violations and duplicate keys can be reported with their location.
type enforcingSource struct {
	inner tokenSource
	opt   enforceOptions
	stack []enforceFrame
}

func withEnforcement(inner tokenSource, opt enforceOptions) *enforcingSource {
	return &enforcingSource{inner: inner, opt: opt}
}

func (e *enforcingSource) path(extra ...any) string {
	var tokens []any
	if len(e.stack) > 1 {
		for _, f := range e.stack[1:] {
			tokens = append(tokens, f.token)
		}
	}
	return schema.Pointer(append(tokens, extra...)...)
}

// childToken returns the path token the next value takes inside the current
// container, advancing array indices.
func (e *enforcingSource) childToken() any {
	if len(e.stack) == 0 {
		return nil
	}
	top := &e.stack[len(e.stack)-1]
	if top.kind == kindArray {
		i := top.nextIndex
		top.nextIndex++
		return i
	}
	return top.pendingKey
}

func (e *enforcingSource) NextToken() (Token, error) {
	tok, err := e.inner.NextToken()
	if err != nil {
		return Token{}, err
	}
	switch tok.Kind {
	case KindBeginObject, KindBeginArray:
		kind := kindObject
		if tok.Kind == KindBeginArray {
			kind = kindArray
		}
		f := enforceFrame{kind: kind, token: e.childToken()}
		if kind == kindObject {
			f.keys = make(map[string]struct{})
		}
		e.stack = append(e.stack, f)
		if e.opt.maxDepth > 0 && len(e.stack) > e.opt.maxDepth {
			return Token{}, &normalize.DepthError{Path: e.path(), MaxDepth: e.opt.maxDepth}
		}
	case KindEndObject, KindEndArray:
		if n := len(e.stack); n > 0 {
			e.stack = e.stack[:n-1]
		}
	case KindKey:
		if n := len(e.stack); n > 0 {
			top := &e.stack[n-1]
			if _, seen := top.keys[tok.String]; seen && e.opt.onDuplicate != nil {
				e.opt.onDuplicate(Duplicate{Path: e.path(tok.String), Key: tok.String})
			}
			top.keys[tok.String] = struct{}{}
			top.pendingKey = tok.String
		}
	default:
		e.childToken()
	}
	return tok, nil
}
