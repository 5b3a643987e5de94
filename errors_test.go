package dataopt_test

import (
	"io"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/vmprov/dataopt"
	"github.com/vmprov/dataopt/schema"
)

func TestKindOf(t *testing.T) {
	t.Run("Should find kinds through wrapping", func(t *testing.T) {
		err := errors.Wrap(&dataopt.Error{Kind: dataopt.KindIOFailure, Msg: "boom"}, "outer")
		assert.Equal(t, dataopt.KindIOFailure, dataopt.KindOf(err))
	})
	t.Run("Should return empty for foreign errors", func(t *testing.T) {
		assert.Equal(t, dataopt.Kind(""), dataopt.KindOf(io.EOF))
		assert.Equal(t, dataopt.Kind(""), dataopt.KindOf(nil))
	})
}

func TestError(t *testing.T) {
	t.Run("Should prefer the message", func(t *testing.T) {
		e := &dataopt.Error{Kind: dataopt.KindIOFailure, Msg: "read failed", Err: io.EOF}
		assert.Equal(t, "read failed", e.Error())
		assert.True(t, errors.Is(e, io.EOF))
	})
	t.Run("Should fall back to the cause and then the kind", func(t *testing.T) {
		assert.Equal(t, "EOF", (&dataopt.Error{Kind: dataopt.KindIOFailure, Err: io.EOF}).Error())
		assert.Equal(t, "io_failure", (&dataopt.Error{Kind: dataopt.KindIOFailure}).Error())
	})
}

func TestKindForIssue(t *testing.T) {
	assert.Equal(t, dataopt.KindUnknownDataType, dataopt.KindForIssue(schema.CodeUnknownType))
	assert.Equal(t, dataopt.KindMissingRequiredField, dataopt.KindForIssue(schema.CodeRequired))
	assert.Equal(t, dataopt.KindFieldTypeMismatch, dataopt.KindForIssue(schema.CodeInvalidType))
	assert.Equal(t, dataopt.KindInvalidEnumValue, dataopt.KindForIssue(schema.CodeInvalidEnum))
	assert.Equal(t, dataopt.KindUnexpectedFailure, dataopt.KindForIssue("other"))
}
