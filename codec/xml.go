package codec

import (
	"bytes"
	"encoding/xml"
	"sort"
	"strings"
	"unicode"

	"github.com/pkg/errors"

	"github.com/vmprov/dataopt/schema"
)

// XMLRoot is the name of the synthesized root element.
const XMLRoot = "data"

// EncodeXML renders v under a <data> root. Mapping keys become child
// elements, sequence values repeat the element once per entry, and scalars
// become element text. A non-mapping v becomes the root's text.
func EncodeXML(v any, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	if pretty {
		enc.Indent("", "  ")
	}
	root := xml.StartElement{Name: xml.Name{Local: XMLRoot}}
	if err := enc.EncodeToken(root); err != nil {
		return nil, errors.Wrap(err, "xml: encode")
	}
	var err error
	if m, ok := schema.AsMapping(v); ok {
		err = xmlMapping(enc, m)
	} else {
		err = enc.EncodeToken(xml.CharData(Text(v)))
	}
	if err == nil {
		err = enc.EncodeToken(root.End())
	}
	if err == nil {
		err = enc.Flush()
	}
	if err != nil {
		return nil, errors.Wrap(err, "xml: encode")
	}
	return buf.Bytes(), nil
}

func xmlMapping(enc *xml.Encoder, m map[string]any) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		name := XMLName(k)
		val := m[k]
		if seq, ok := schema.AsSequence(val); ok {
			for _, item := range seq {
				if err := xmlElement(enc, name, item); err != nil {
					return err
				}
			}
			continue
		}
		if err := xmlElement(enc, name, val); err != nil {
			return err
		}
	}
	return nil
}

func xmlElement(enc *xml.Encoder, name string, v any) error {
	start := xml.StartElement{Name: xml.Name{Local: name}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if m, ok := schema.AsMapping(v); ok {
		if err := xmlMapping(enc, m); err != nil {
			return err
		}
	} else if err := enc.EncodeToken(xml.CharData(Text(v))); err != nil {
		return err
	}
	return enc.EncodeToken(start.End())
}

// XMLName turns a mapping key into a valid XML element name: characters that
// cannot appear in a name become '_', and names that cannot start as given
// are prefixed with '_'.
func XMLName(key string) string {
	if key == "" {
		return "_"
	}
	b := strings.Builder{}
	for i, r := range key {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (r == '-' || r == '.' || unicode.IsDigit(r)):
		case i == 0 && (r == '-' || r == '.' || unicode.IsDigit(r)):
			b.WriteByte('_')
		default:
			r = '_'
		}
		b.WriteRune(r)
	}
	name := b.String()
	if len(name) >= 3 && strings.EqualFold(name[:3], "xml") {
		name = "_" + name
	}
	return name
}
