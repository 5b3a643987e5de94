package dataopt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmprov/dataopt"
)

func TestWrap(t *testing.T) {
	t.Run("Should copy mappings", func(t *testing.T) {
		in := map[string]any{"a": 1}
		out := dataopt.Wrap(in)
		out["b"] = 2
		assert.Equal(t, map[string]any{"a": 1}, in)
	})
	t.Run("Should wrap other values", func(t *testing.T) {
		assert.Equal(t, map[string]any{"data": int64(3), "_metadata": map[string]any{}}, dataopt.Wrap(int64(3)))
	})
}

func TestAnnotate(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("JST", 9*3600))

	t.Run("Should be a copy when metadata is off", func(t *testing.T) {
		cfg := dataopt.DefaultConfig()
		cfg.IncludeMetadata = false
		in := map[string]any{"a": 1}
		out, err := dataopt.Annotate(in, cfg, now)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	})
	t.Run("Should write the block in UTC", func(t *testing.T) {
		out, err := dataopt.Annotate(map[string]any{"a": 1}, dataopt.DefaultConfig(), now)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{
			"data_structure_version": "2.0.0",
			"optimizer_version":      "2.0.0",
			"processing_timestamp":   "2024-05-01T03:00:00Z",
			"data_format":            "json",
			"compression":            "none",
			"validation_level":       "standard",
		}, out[dataopt.MetadataKey])
	})
	t.Run("Should omit the timestamp when timestamps are off", func(t *testing.T) {
		cfg := dataopt.DefaultConfig()
		cfg.IncludeTimestamps = false
		out, err := dataopt.Annotate(map[string]any{}, cfg, now)
		require.NoError(t, err)
		assert.NotContains(t, out[dataopt.MetadataKey], "processing_timestamp")
	})
	t.Run("Should merge into an existing block without touching the input", func(t *testing.T) {
		in := map[string]any{"_metadata": map[string]any{"source": "test", "compression": "x"}}
		out, err := dataopt.Annotate(in, dataopt.DefaultConfig(), now)
		require.NoError(t, err)

		meta := out[dataopt.MetadataKey].(map[string]any)
		assert.Equal(t, "test", meta["source"])
		assert.Equal(t, "none", meta["compression"])
		assert.Equal(t, map[string]any{"source": "test", "compression": "x"}, in["_metadata"])
	})
	t.Run("Should replace a non-mapping block", func(t *testing.T) {
		out, err := dataopt.Annotate(map[string]any{"_metadata": "junk"}, dataopt.DefaultConfig(), now)
		require.NoError(t, err)
		assert.IsType(t, map[string]any{}, out[dataopt.MetadataKey])
	})
}

func TestAnnotate_Checksum(t *testing.T) {
	cfg := dataopt.DefaultConfig()
	cfg.IncludeChecksums = true
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	in := map[string]any{"vm_name": "x", "hardware": map[string]any{"num_c_p_us": int64(2)}}

	a, err := dataopt.Annotate(in, cfg, now)
	require.NoError(t, err)
	b, err := dataopt.Annotate(map[string]any{"hardware": map[string]any{"num_c_p_us": int64(2)}, "vm_name": "x"}, cfg, now)
	require.NoError(t, err)

	sumA := a[dataopt.MetadataKey].(map[string]any)["checksum"]
	sumB := b[dataopt.MetadataKey].(map[string]any)["checksum"]

	t.Run("Should be deterministic", func(t *testing.T) {
		assert.Equal(t, sumA, sumB)
		assert.Len(t, sumA, 64)
	})
	t.Run("Should cover the record before the block", func(t *testing.T) {
		want, err := dataopt.Checksum(in)
		require.NoError(t, err)
		assert.Equal(t, want, sumA)
	})
	t.Run("Should change with the content", func(t *testing.T) {
		c, err := dataopt.Annotate(map[string]any{"vm_name": "y"}, cfg, now)
		require.NoError(t, err)
		assert.NotEqual(t, sumA, c[dataopt.MetadataKey].(map[string]any)["checksum"])
	})
}
