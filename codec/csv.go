package codec

import (
	"bytes"
	"encoding/csv"
	"sort"
	"strconv"

	"github.com/pkg/errors"

	"github.com/vmprov/dataopt/schema"
)

// EncodeCSV renders v as a table. A non-sequence is treated as a one-row
// sequence. Mapping rows are flattened with Flatten, other rows become a
// single "value" cell. The header is the sorted union of all row keys; cells
// missing from a row are left empty.
func EncodeCSV(v any) ([]byte, error) {
	rows, ok := schema.AsSequence(v)
	if !ok {
		rows = []any{v}
	}
	if len(rows) == 0 {
		return []byte{}, nil
	}

	flat := make([]map[string]string, 0, len(rows))
	seen := map[string]struct{}{}
	for _, row := range rows {
		var cells map[string]string
		if m, ok := schema.AsMapping(row); ok {
			cells = Flatten(m)
		} else {
			cells = map[string]string{"value": Text(row)}
		}
		for k := range cells {
			seen[k] = struct{}{}
		}
		flat = append(flat, cells)
	}
	header := make([]string, 0, len(seen))
	for k := range seen {
		header = append(header, k)
	}
	sort.Strings(header)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, errors.Wrap(err, "csv: header")
	}
	record := make([]string, len(header))
	for _, cells := range flat {
		for i, k := range header {
			record[i] = cells[k]
		}
		if err := w.Write(record); err != nil {
			return nil, errors.Wrap(err, "csv: row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errors.Wrap(err, "csv: flush")
	}
	return buf.Bytes(), nil
}

// Flatten collapses a nested mapping into dotted keys. Sequence members are
// addressed with bracketed indices, as in "parent.child[0].field". Leaves are
// rendered with Text; empty containers contribute no keys.
func Flatten(m map[string]any) map[string]string {
	out := map[string]string{}
	flattenInto(out, "", m)
	return out
}

func flattenInto(out map[string]string, prefix string, m map[string]any) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := schema.AsMapping(v); ok {
			flattenInto(out, key, sub)
			continue
		}
		if seq, ok := schema.AsSequence(v); ok {
			for i, item := range seq {
				ik := key + "[" + strconv.Itoa(i) + "]"
				if sub, ok := schema.AsMapping(item); ok {
					flattenInto(out, ik, sub)
				} else {
					out[ik] = Text(item)
				}
			}
			continue
		}
		out[key] = Text(v)
	}
}
