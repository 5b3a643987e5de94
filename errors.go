package dataopt

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/vmprov/dataopt/schema"
)

// Kind classifies pipeline failures.
type Kind string

const (
	KindUnknownDataType         Kind = "unknown_data_type"
	KindMissingRequiredField    Kind = "missing_required_field"
	KindFieldTypeMismatch       Kind = "field_type_mismatch"
	KindInvalidEnumValue        Kind = "invalid_enum_value"
	KindStrictValidationFailure Kind = "strict_validation_failure"
	KindUnsupportedOutputFormat Kind = "unsupported_output_format"
	KindFileNotFound            Kind = "file_not_found"
	KindIOFailure               Kind = "io_failure"
	KindDepthExceeded           Kind = "depth_exceeded"
	KindLimitExceeded           Kind = "limit_exceeded"
	KindInvalidConfig           Kind = "invalid_config"
	KindUnexpectedFailure       Kind = "unexpected_failure"
)

// Error is the typed failure returned by pipeline operations. Msg is the
// caller-facing text; Err, when set, is the underlying cause.
type Error struct {
	Kind   Kind
	Msg    string
	Issues schema.Issues // set for validation failures
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return e.Err.Error()
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or "" when err
// carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// KindForIssue maps a validator issue code to the matching error kind.
func KindForIssue(code string) Kind {
	switch code {
	case schema.CodeUnknownType:
		return KindUnknownDataType
	case schema.CodeRequired:
		return KindMissingRequiredField
	case schema.CodeInvalidType:
		return KindFieldTypeMismatch
	case schema.CodeInvalidEnum:
		return KindInvalidEnumValue
	}
	return KindUnexpectedFailure
}
