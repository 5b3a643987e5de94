package dataopt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmprov/dataopt"
	"github.com/vmprov/dataopt/codec"
	"github.com/vmprov/dataopt/compression"
)

func TestDefaultConfig(t *testing.T) {
	cfg := dataopt.DefaultConfig()
	assert.Equal(t, codec.JSON, cfg.OutputFormat)
	assert.Equal(t, compression.None, cfg.Compression)
	assert.Equal(t, dataopt.LevelStandard, cfg.ValidationLevel)
	assert.True(t, cfg.IncludeMetadata)
	assert.True(t, cfg.IncludeTimestamps)
	assert.False(t, cfg.IncludeChecksums)
	assert.True(t, cfg.PrettyPrint)
	assert.Equal(t, 10, cfg.MaxDepth)
	assert.Equal(t, 100.0, cfg.MaxSizeMB)
	assert.True(t, cfg.EnableCaching)
	assert.Equal(t, 3600, cfg.CacheTTLSeconds)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	t.Run("Should accept aliases", func(t *testing.T) {
		cfg := dataopt.DefaultConfig()
		cfg.OutputFormat = "pickle"
		cfg.Compression = "xz"
		assert.NoError(t, cfg.Validate())
	})
	t.Run("Should name every bad field", func(t *testing.T) {
		cfg := dataopt.DefaultConfig()
		cfg.OutputFormat = "toml"
		cfg.Compression = "zip"
		cfg.ValidationLevel = "paranoid"
		cfg.MaxDepth = -1
		err := cfg.Validate()
		require.Error(t, err)
		assert.Equal(t, dataopt.KindInvalidConfig, dataopt.KindOf(err))
		for _, field := range []string{"OutputFormat", "Compression", "ValidationLevel", "MaxDepth"} {
			assert.Contains(t, err.Error(), field)
		}
	})
}
