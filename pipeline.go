package dataopt

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/mohae/deepcopy"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/vmprov/dataopt/codec"
	"github.com/vmprov/dataopt/internal/cache"
	"github.com/vmprov/dataopt/logger"
	"github.com/vmprov/dataopt/normalize"
	"github.com/vmprov/dataopt/schema"
)

// Pipeline runs records through validation, normalization and annotation
// under one Config. It is safe for concurrent use.
type Pipeline struct {
	cfg   Config
	log   logger.Logger
	now   func() time.Time
	reg   *schema.Registry
	fs    afero.Fs
	cache *cache.Cache[Result]
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. By default the logger stored in the context
// passed to each call is used.
func WithLogger(l logger.Logger) Option { return func(p *Pipeline) { p.log = l } }

// WithClock replaces time.Now for timestamps.
func WithClock(now func() time.Time) Option { return func(p *Pipeline) { p.now = now } }

// WithRegistry replaces the built-in schema registry.
func WithRegistry(r *schema.Registry) Option { return func(p *Pipeline) { p.reg = r } }

// WithFS sets the filesystem used by LoadAndRun, Save and Persist.
func WithFS(fs afero.Fs) Option { return func(p *Pipeline) { p.fs = fs } }

// New validates cfg and builds a Pipeline.
func New(cfg Config, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Pipeline{
		cfg: cfg.canonical(),
		now: time.Now,
		reg: schema.Builtin(),
		fs:  afero.NewOsFs(),
	}
	for _, o := range opts {
		if o != nil {
			o(p)
		}
	}
	if p.cfg.EnableCaching {
		p.cache = cache.New[Result](cache.DefaultSize, time.Duration(p.cfg.CacheTTLSeconds)*time.Second)
	}
	return p, nil
}

// Config returns the pipeline's configuration.
func (p *Pipeline) Config() Config { return p.cfg }

// Registry returns the schema registry in use.
func (p *Pipeline) Registry() *schema.Registry { return p.reg }

func (p *Pipeline) logger(ctx context.Context) logger.Logger {
	if p.log != nil {
		return p.log
	}
	return logger.FromContext(ctx)
}

// Validate checks record against the named data type.
func (p *Pipeline) Validate(record any, dataType string) schema.Outcome {
	return p.reg.Validate(record, dataType)
}

// Encode renders record in format, or in the configured format when format is
// empty.
func (p *Pipeline) Encode(record any, format codec.Format) ([]byte, error) {
	if format == "" {
		format = p.cfg.OutputFormat
	}
	f, err := codec.ParseFormat(string(format))
	if err != nil {
		return nil, newError(KindUnsupportedOutputFormat, err, "Unsupported output format: %s", format)
	}
	b, err := codec.Encode(record, f, codec.Options{Pretty: p.cfg.PrettyPrint, Compression: p.cfg.Compression})
	if err != nil {
		return nil, newError(KindUnexpectedFailure, err, "encode %s: %v", f, err)
	}
	return b, nil
}

// Run validates, normalizes and annotates input. dataType may be empty to
// skip validation. Failures never escape as panics; they are reported in the
// Result with the original input attached.
func (p *Pipeline) Run(ctx context.Context, input any, dataType string) (res Result) {
	log := p.logger(ctx)
	defer func() {
		if r := recover(); r != nil {
			err := newError(KindUnexpectedFailure, errors.Errorf("panic: %v", r), "unexpected failure: %v", r)
			log.Error("Data structure optimization failed", "error", err)
			res = p.failure(input, err)
		}
	}()

	res, err := p.run(ctx, input, dataType)
	if err != nil {
		log.Error("Data structure optimization failed", "error", err, "data_type", dataType)
		res = p.failure(input, err)
		var e *Error
		if errors.As(err, &e) && e.Kind == KindStrictValidationFailure {
			res.ValidationErrors = e.Issues.Messages()
		}
	}
	return res
}

func (p *Pipeline) run(ctx context.Context, input any, dataType string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, newError(KindUnexpectedFailure, err, "%v", err)
	}

	var canonical []byte
	if limit := p.cfg.maxBytes(); limit > 0 || p.cache != nil {
		var err error
		if canonical, err = codec.CanonicalJSON(input); err != nil {
			return Result{}, newError(KindUnexpectedFailure, err, "fingerprint input: %v", err)
		}
		if limit > 0 && int64(len(canonical)) > limit {
			return Result{}, newError(KindLimitExceeded, nil,
				"input size %d bytes exceeds limit of %d bytes", len(canonical), limit)
		}
	}

	validated := dataType != "" && p.cfg.ValidationLevel != LevelBasic
	var warnings []string
	if validated {
		out := p.reg.Validate(input, dataType)
		if !out.Valid {
			if p.cfg.ValidationLevel == LevelStrict {
				return Result{}, &Error{
					Kind:   KindStrictValidationFailure,
					Msg:    "Data validation failed: " + strings.Join(out.Errors, ", "),
					Issues: out.Issues,
					Err:    out.Err(),
				}
			}
			p.logger(ctx).Warn("Data validation warnings",
				"data_type", dataType, "warnings", strings.Join(out.Errors, ", "))
			warnings = out.Errors
		}
	}

	var key uint64
	if p.cache != nil {
		key = cache.Key(dataType, append(canonical, kindSignature(input)...))
		if hit, ok := p.cache.Get(key); ok {
			hit.Info.CacheHit = true
			hit.ValidationWarnings = warnings
			return hit, nil
		}
	}

	normalized, err := normalize.NormalizeWithOptions(input, normalize.Options{MaxDepth: p.cfg.MaxDepth})
	if err != nil {
		var de *normalize.DepthError
		if errors.As(err, &de) {
			return Result{}, newError(KindDepthExceeded, err, "%v", err)
		}
		return Result{}, newError(KindUnexpectedFailure, err, "%v", err)
	}

	now := p.now()
	annotated, err := Annotate(Wrap(normalized), p.cfg, now)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Success:            true,
		Data:               annotated,
		ValidationWarnings: warnings,
		Info: Info{
			OriginalType:        string(schema.KindOf(input)),
			Normalized:          true,
			MetadataAdded:       p.cfg.IncludeMetadata,
			ValidationPerformed: validated,
			ProcessingTimestamp: codec.FormatTime(now),
		},
	}
	if p.cache != nil {
		p.cache.Add(key, res)
	}
	return res, nil
}

// kindSignature lists the kind of every value in input, mapping keys sorted.
// Canonical JSON prints int 1 and float 1 alike, so the cache key needs it.
func kindSignature(input any) []byte {
	var b []byte
	var walk func(v any)
	walk = func(v any) {
		b = append(b, schema.KindOf(v)...)
		b = append(b, ';')
		if m, ok := schema.AsMapping(v); ok {
			keys := make([]string, 0, len(m))
			for k := range m {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				walk(m[k])
			}
			return
		}
		if seq, ok := schema.AsSequence(v); ok {
			for _, item := range seq {
				walk(item)
			}
		}
	}
	walk(input)
	return b
}

func (p *Pipeline) failure(input any, err error) Result {
	return Result{
		Success: false,
		Data:    deepcopy.Copy(input),
		Error:   err.Error(),
		Err:     err,
		Info: Info{
			OriginalType:   string(schema.KindOf(input)),
			ErrorTimestamp: codec.FormatTime(p.now()),
		},
	}
}
