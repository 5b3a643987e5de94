package dataopt

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/vmprov/dataopt/codec"
	"github.com/vmprov/dataopt/compression"
)

// ValidationLevel selects how validation problems are treated.
type ValidationLevel string

const (
	// LevelBasic skips validation.
	LevelBasic ValidationLevel = "basic"
	// LevelStandard reports problems as warnings.
	LevelStandard ValidationLevel = "standard"
	// LevelStrict fails the run on any problem.
	LevelStrict ValidationLevel = "strict"
	// LevelComprehensive behaves like LevelStandard.
	LevelComprehensive ValidationLevel = "comprehensive"
)

// Config is the flat option set of one pipeline. It is treated as immutable
// once passed to New.
type Config struct {
	OutputFormat      codec.Format          `koanf:"output_format"      json:"output_format"      validate:"format"`
	Compression       compression.Algorithm `koanf:"compression"        json:"compression"        validate:"compression"`
	ValidationLevel   ValidationLevel       `koanf:"validation_level"   json:"validation_level"   validate:"oneof=basic standard strict comprehensive"`
	IncludeMetadata   bool                  `koanf:"include_metadata"   json:"include_metadata"`
	IncludeTimestamps bool                  `koanf:"include_timestamps" json:"include_timestamps"`
	IncludeChecksums  bool                  `koanf:"include_checksums"  json:"include_checksums"`
	PrettyPrint       bool                  `koanf:"pretty_print"       json:"pretty_print"`
	MaxDepth          int                   `koanf:"max_depth"          json:"max_depth"          validate:"gte=0"`
	MaxSizeMB         float64               `koanf:"max_size_mb"        json:"max_size_mb"        validate:"gte=0"`
	EnableCaching     bool                  `koanf:"enable_caching"     json:"enable_caching"`
	CacheTTLSeconds   int                   `koanf:"cache_ttl_seconds"  json:"cache_ttl_seconds"  validate:"gte=0"`
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		OutputFormat:      codec.JSON,
		Compression:       compression.None,
		ValidationLevel:   LevelStandard,
		IncludeMetadata:   true,
		IncludeTimestamps: true,
		IncludeChecksums:  false,
		PrettyPrint:       true,
		MaxDepth:          10,
		MaxSizeMB:         100,
		EnableCaching:     true,
		CacheTTLSeconds:   3600,
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("format", func(fl validator.FieldLevel) bool {
		_, err := codec.ParseFormat(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("compression", func(fl validator.FieldLevel) bool {
		_, err := compression.ParseAlgorithm(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate checks every field. Failures are reported as a single
// KindInvalidConfig error naming each offending field.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return newError(KindInvalidConfig, err, "invalid configuration: %v", err)
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fe.Field()+": "+fe.Tag())
	}
	return newError(KindInvalidConfig, err, "invalid configuration: %s", strings.Join(parts, ", "))
}

// canonical resolves aliases such as "pickle" and "xz".
func (c Config) canonical() Config {
	if f, err := codec.ParseFormat(string(c.OutputFormat)); err == nil {
		c.OutputFormat = f
	}
	if a, err := compression.ParseAlgorithm(string(c.Compression)); err == nil {
		c.Compression = a
	}
	return c
}

// maxBytes converts MaxSizeMB to a byte budget; 0 disables the limit.
func (c Config) maxBytes() int64 {
	if c.MaxSizeMB <= 0 {
		return 0
	}
	return int64(c.MaxSizeMB * 1024 * 1024)
}
