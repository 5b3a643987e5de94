package codec

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"

	j "github.com/goccy/go-json"

	"github.com/vmprov/dataopt/schema"
)

// FormatTime renders t in canonical RFC 3339 form, normalized to UTC.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// Text renders a value as element text or a cell: nil is "null", numbers use
// their shortest exact form, times are RFC 3339, and mappings or sequences
// become compact JSON.
func Text(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float64:
		return formatFloat(t, 64)
	case float32:
		return formatFloat(float64(t), 32)
	case j.Number:
		return t.String()
	case time.Time:
		return FormatTime(t)
	case []byte:
		return string(t)
	case fmt.Stringer:
		return t.String()
	case error:
		return t.Error()
	}
	switch schema.KindOf(v) {
	case schema.TypeMapping, schema.TypeSequence:
		b, err := j.Marshal(Portable(v))
		if err == nil {
			return string(b)
		}
	}
	return fmt.Sprint(v)
}

func formatFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	if a := math.Abs(f); a != 0 && (a < 1e-6 || a >= 1e21) {
		return strconv.FormatFloat(f, 'g', -1, bits)
	}
	return strconv.FormatFloat(f, 'f', -1, bits)
}

// Portable rewrites v into values every text encoder accepts: string-keyed
// maps, []any, and scalars. Times, byte slices, non-finite floats and other
// values without a JSON form become strings.
func Portable(v any) any {
	switch t := v.(type) {
	case nil, string, bool, j.Number,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return t
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return formatFloat(t, 64)
		}
		return t
	case float32:
		if math.IsNaN(float64(t)) || math.IsInf(float64(t), 0) {
			return formatFloat(float64(t), 32)
		}
		return t
	case time.Time:
		return FormatTime(t)
	case []byte:
		return string(t)
	}
	if m, ok := schema.AsMapping(v); ok {
		out := make(map[string]any, len(m))
		for k, vv := range m {
			out[k] = Portable(vv)
		}
		return out
	}
	if seq, ok := schema.AsSequence(v); ok {
		out := make([]any, len(seq))
		for i, item := range seq {
			out[i] = Portable(item)
		}
		return out
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return Portable(rv.Elem().Interface())
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint()
	case reflect.Float32, reflect.Float64:
		return Portable(rv.Float())
	}
	return Text(v)
}
