package schema

import (
	"reflect"
	"time"
)

// TypeTag names the runtime kind a field is expected to hold.
type TypeTag string

const (
	TypeString   TypeTag = "string"
	TypeInt      TypeTag = "int"
	TypeFloat    TypeTag = "float"
	TypeBool     TypeTag = "bool"
	TypeMapping  TypeTag = "mapping"
	TypeSequence TypeTag = "sequence"
	TypeNull     TypeTag = "null"
	TypeTime     TypeTag = "time"
)

// KindOf reports the TypeTag of a runtime value. Values outside the record
// model report their Go type name.
func KindOf(v any) TypeTag {
	switch v.(type) {
	case nil:
		return TypeNull
	case string:
		return TypeString
	case bool:
		return TypeBool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return TypeInt
	case float32, float64:
		return TypeFloat
	case map[string]any, map[any]any:
		return TypeMapping
	case []any:
		return TypeSequence
	case time.Time, *time.Time:
		return TypeTime
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		return TypeMapping
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return TypeString
		}
		return TypeSequence
	case reflect.String:
		return TypeString
	case reflect.Bool:
		return TypeBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return TypeInt
	case reflect.Float32, reflect.Float64:
		return TypeFloat
	case reflect.Pointer:
		if rv.IsNil() {
			return TypeNull
		}
		return KindOf(rv.Elem().Interface())
	}
	return TypeTag(rv.Type().String())
}

// Matches reports whether v satisfies the tag.
func (t TypeTag) Matches(v any) bool { return KindOf(v) == t }
