package schema

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/vmprov/dataopt/i18n"
)

// Outcome is the result of one validation pass. Errors holds the rendered
// messages in discovery order; Issues holds the same findings in structured
// form.
type Outcome struct {
	Valid  bool
	Errors []string
	Issues Issues
}

// Err returns the issues as an error, or nil when valid.
func (o Outcome) Err() error {
	if o.Valid || len(o.Issues) == 0 {
		return nil
	}
	return o.Issues
}

// Validate checks record against the built-in registry.
func Validate(record any, dataType string) Outcome {
	return Builtin().Validate(record, dataType)
}

// Validate checks record against the named descriptor. All violations are
// reported. Non-mapping records skip field checks. The record is never
// modified.
func (r *Registry) Validate(record any, dataType string) Outcome {
	var iss Issues
	add := func(path, code string, params map[string]string) {
		iss = append(iss, Issue{Path: path, Code: code, Message: i18n.T(code, params), Params: params})
	}

	desc, ok := r.Lookup(dataType)
	if !ok {
		add("/", CodeUnknownType, map[string]string{"type": dataType})
		return finish(iss)
	}

	m, isMap := AsMapping(record)
	if !isMap {
		return finish(iss)
	}

	for _, field := range desc.Required {
		if _, present := m[field]; !present {
			add(Pointer(field), CodeRequired, map[string]string{"field": field})
		}
	}
	for _, ft := range desc.Types {
		v, present := m[ft.Field]
		if !present || ft.Type.Matches(v) {
			continue
		}
		add(Pointer(ft.Field), CodeInvalidType, map[string]string{
			"field":    ft.Field,
			"expected": string(ft.Type),
			"got":      string(KindOf(v)),
		})
	}
	for _, av := range desc.Allowed {
		v, present := m[av.Field]
		if !present {
			continue
		}
		s, isString := v.(string)
		if isString && slices.Contains(av.Values, s) {
			continue
		}
		if !isString {
			s = fmt.Sprint(v)
		}
		add(Pointer(av.Field), CodeInvalidEnum, map[string]string{"field": av.Field, "value": s})
	}
	return finish(iss)
}

func finish(iss Issues) Outcome {
	return Outcome{Valid: len(iss) == 0, Errors: iss.Messages(), Issues: iss}
}

// AsMapping returns a shallow string-keyed view of a mapping value. Non-string
// keys are rendered with fmt.Sprint. The second result is false for anything
// that is not a map.
func AsMapping(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, vv := range m {
			out[fmt.Sprint(k)] = vv
		}
		return out, true
	case nil:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	it := rv.MapRange()
	for it.Next() {
		out[fmt.Sprint(it.Key().Interface())] = it.Value().Interface()
	}
	return out, true
}

// AsSequence returns a []any view of a sequence value; byte slices are not
// sequences.
func AsSequence(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case nil, []byte, string:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
