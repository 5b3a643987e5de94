package codec

import (
	"reflect"

	"github.com/pkg/errors"
	ugcodec "github.com/ugorji/go/codec"
)

func msgpackHandle() *ugcodec.MsgpackHandle {
	h := &ugcodec.MsgpackHandle{WriteExt: true}
	h.MapType = reflect.TypeOf(map[string]any(nil))
	h.RawToString = true
	h.SignedInteger = true
	return h
}

// EncodeBinary renders v as MessagePack. Strings use the str family, maps
// are keyed by strings, and times are written in RFC 3339 form.
func EncodeBinary(v any) ([]byte, error) {
	var out []byte
	if err := ugcodec.NewEncoderBytes(&out, msgpackHandle()).Encode(Portable(v)); err != nil {
		return nil, errors.Wrap(err, "binary: encode")
	}
	return out, nil
}

// DecodeBinary parses MessagePack produced by EncodeBinary. Maps decode as
// map[string]any, arrays as []any and integers as int64.
func DecodeBinary(data []byte) (any, error) {
	var v any
	if err := ugcodec.NewDecoderBytes(data, msgpackHandle()).Decode(&v); err != nil {
		return nil, errors.Wrap(err, "binary: decode")
	}
	return v, nil
}
