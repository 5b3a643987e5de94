package codec

import (
	"bytes"

	j "github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/vmprov/dataopt/compression"
	"github.com/vmprov/dataopt/internal/decode"
)

// EncodeJSON renders v as JSON with sorted object keys. Pretty output is
// indented by two spaces.
func EncodeJSON(v any, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := j.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(Portable(v)); err != nil {
		return nil, errors.Wrap(err, "json: encode")
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// CanonicalJSON renders v as compact JSON with sorted keys, suitable for
// checksums and fingerprints.
func CanonicalJSON(v any) ([]byte, error) {
	return EncodeJSON(v, false)
}

// DecodeOptions tunes decoding.
type DecodeOptions struct {
	MaxDepth    int                   // JSON nesting limit; 0 disables it.
	Compression compression.Algorithm // used by the compressed formats
}

// DecodeJSON parses one JSON document. Integral numbers decode as int64.
func DecodeJSON(data []byte, opt DecodeOptions) (any, error) {
	v, _, err := decode.JSON(data, decode.Options{MaxDepth: opt.MaxDepth})
	if err != nil {
		return nil, errors.Wrap(err, "json: decode")
	}
	return v, nil
}
