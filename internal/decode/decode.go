package decode

import (
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Options controls JSON decoding.
type Options struct {
	MaxDepth int // 0 disables the depth check.
}

// ErrTrailingData reports input left over after the first JSON value.
var ErrTrailingData = errors.New("trailing data after JSON value")

// JSON decodes one JSON document into a record. Objects become
// map[string]any, arrays []any, integral numbers int64 and the rest float64.
// Duplicate keys are returned alongside the value; the last one wins.
func JSON(data []byte, opt Options) (any, []Duplicate, error) {
	var dups []Duplicate
	src := withEnforcement(newJSONBytes(data), enforceOptions{
		maxDepth:    opt.MaxDepth,
		onDuplicate: func(d Duplicate) { dups = append(dups, d) },
	})
	tok, err := src.NextToken()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, errors.New("empty JSON document")
		}
		return nil, nil, err
	}
	v, err := decodeValue(src, tok)
	if err != nil {
		return nil, nil, err
	}
	if _, err := src.NextToken(); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, nil, err
		}
		return nil, nil, ErrTrailingData
	}
	return v, dups, nil
}

func decodeValue(src tokenSource, tok Token) (any, error) {
	switch tok.Kind {
	case KindBeginObject:
		return decodeObject(src)
	case KindBeginArray:
		return decodeArray(src)
	case KindString:
		return tok.String, nil
	case KindNumber:
		return number(tok.Number)
	case KindBool:
		return tok.Bool, nil
	case KindNull:
		return nil, nil
	default:
		return nil, io.ErrUnexpectedEOF
	}
}

func decodeObject(src tokenSource) (any, error) {
	m := make(map[string]any)
	for {
		tok, err := src.NextToken()
		if err != nil {
			return nil, err
		}
		if tok.Kind == KindEndObject {
			return m, nil
		}
		if tok.Kind != KindKey {
			return nil, io.ErrUnexpectedEOF
		}
		vt, err := src.NextToken()
		if err != nil {
			return nil, err
		}
		v, err := decodeValue(src, vt)
		if err != nil {
			return nil, err
		}
		m[tok.String] = v
	}
}

func decodeArray(src tokenSource) (any, error) {
	arr := []any{}
	for {
		tok, err := src.NextToken()
		if err != nil {
			return nil, err
		}
		if tok.Kind == KindEndArray {
			return arr, nil
		}
		v, err := decodeValue(src, tok)
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
}

func number(lit string) (any, error) {
	if !strings.ContainsAny(lit, ".eE") {
		if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
			return i, nil
		}
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid number %q", lit)
	}
	return f, nil
}
