// Package codec converts records to and from their wire encodings: JSON,
// YAML, XML, CSV, HTML, a MessagePack binary envelope, and compressed
// variants of JSON and YAML.
package codec

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/vmprov/dataopt/compression"
)

// Format names an output encoding.
type Format string

const (
	JSON           Format = "json"
	YAML           Format = "yaml"
	XML            Format = "xml"
	CSV            Format = "csv"
	HTML           Format = "html"
	Binary         Format = "binary"
	CompressedJSON Format = "compressed_json"
	CompressedYAML Format = "compressed_yaml"
)

// ErrUnsupportedFormat is returned for formats outside the supported set, or
// for formats that cannot be decoded.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Formats lists every supported output format.
func Formats() []Format {
	return []Format{JSON, YAML, XML, CSV, HTML, Binary, CompressedJSON, CompressedYAML}
}

// ParseFormat maps a name to a Format. "pickle" and "msgpack" are accepted as
// aliases of Binary.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case JSON, YAML, XML, CSV, HTML, Binary, CompressedJSON, CompressedYAML:
		return f, nil
	case "pickle", "msgpack":
		return Binary, nil
	case "yml":
		return YAML, nil
	default:
		return "", errors.Wrapf(ErrUnsupportedFormat, "%q", s)
	}
}

// IsBinary reports whether the encoding produces non-text bytes.
func (f Format) IsBinary() bool {
	switch f {
	case Binary, CompressedJSON, CompressedYAML:
		return true
	}
	return false
}

// Extension returns a conventional file extension for the format.
func (f Format) Extension() string {
	switch f {
	case YAML:
		return ".yaml"
	case Binary:
		return ".msgpack"
	case CompressedJSON:
		return ".json.gz"
	case CompressedYAML:
		return ".yaml.gz"
	case "":
		return ""
	}
	return "." + string(f)
}

// Options tunes encoding.
type Options struct {
	Pretty      bool
	Compression compression.Algorithm // used by the compressed formats
}

// Encode converts v to the requested format.
func Encode(v any, f Format, opt Options) ([]byte, error) {
	switch f {
	case JSON:
		return EncodeJSON(v, opt.Pretty)
	case YAML:
		return EncodeYAML(v, opt.Pretty)
	case XML:
		return EncodeXML(v, opt.Pretty)
	case CSV:
		return EncodeCSV(v)
	case HTML:
		return EncodeHTML(v)
	case Binary:
		return EncodeBinary(v)
	case CompressedJSON:
		b, err := EncodeJSON(v, false)
		if err != nil {
			return nil, err
		}
		return compression.Compress(b, opt.Compression)
	case CompressedYAML:
		b, err := EncodeYAML(v, false)
		if err != nil {
			return nil, err
		}
		return compression.Compress(b, opt.Compression)
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%q", f)
	}
}

// Decode parses data in the given format. Only JSON, YAML, Binary and the
// compressed variants can be decoded.
func Decode(data []byte, f Format, opt DecodeOptions) (any, error) {
	switch f {
	case JSON:
		return DecodeJSON(data, opt)
	case YAML:
		return DecodeYAML(data)
	case Binary:
		return DecodeBinary(data)
	case CompressedJSON, CompressedYAML:
		raw, err := compression.Decompress(data, opt.Compression)
		if err != nil {
			return nil, err
		}
		if f == CompressedJSON {
			return DecodeJSON(raw, opt)
		}
		return DecodeYAML(raw)
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "cannot decode %q", f)
	}
}
