package codec

import (
	"bytes"
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// EncodeYAML renders v as block-style YAML with sorted keys. Pretty output is
// indented by two spaces; otherwise the library default applies.
func EncodeYAML(v any, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	if pretty {
		enc.SetIndent(2)
	}
	if err := enc.Encode(Portable(v)); err != nil {
		return nil, errors.Wrap(err, "yaml: encode")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "yaml: close")
	}
	return buf.Bytes(), nil
}

// DecodeYAML parses the first document of data. Mappings whose keys are all
// strings decode as map[string]any.
func DecodeYAML(data []byte) (any, error) {
	var v any
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "yaml: decode")
	}
	return v, nil
}
