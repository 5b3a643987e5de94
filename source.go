package dataopt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/vmprov/dataopt/codec"
	"github.com/vmprov/dataopt/compression"
	"github.com/vmprov/dataopt/internal/decode"
	"github.com/vmprov/dataopt/normalize"
)

// LoadAndRun reads path, decodes it by extension and passes the record to
// Run. Files ending in .gz, .bz2, .xz or .lzma are decompressed first and the
// suffix is dropped before the inner extension is considered:
//
//	.json                    JSON, with depth and duplicate-key checks
//	.yml .yaml               YAML
//	.pickle .msgpack .bin    MessagePack
//	anything else            the raw text
//
// Duplicate JSON keys are reported as validation warnings. When the file
// cannot be loaded the Result carries no data.
func (p *Pipeline) LoadAndRun(ctx context.Context, path, dataType string) Result {
	log := p.logger(ctx)
	record, dups, err := p.load(path)
	if err != nil {
		log.Error("Failed to load and optimize data", "path", path, "error", err)
		return Result{Success: false, Error: err.Error(), Err: err}
	}
	for _, d := range dups {
		log.Warn("Duplicate key in input", "path", path, "pointer", d.Path)
	}
	res := p.Run(ctx, record, dataType)
	for _, d := range dups {
		res.ValidationWarnings = append(res.ValidationWarnings,
			fmt.Sprintf("Duplicate key %q at %s", d.Key, d.Path))
	}
	return res
}

func (p *Pipeline) load(path string) (any, []decode.Duplicate, error) {
	info, err := p.fs.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, newError(KindFileNotFound, err, "File not found: %s", path)
		}
		return nil, nil, newError(KindIOFailure, err, "stat %s: %v", path, err)
	}
	if info.IsDir() {
		return nil, nil, newError(KindIOFailure, nil, "%s is a directory", path)
	}
	if limit := p.cfg.maxBytes(); limit > 0 && info.Size() > limit {
		return nil, nil, newError(KindLimitExceeded, nil,
			"file size %d bytes exceeds limit of %d bytes", info.Size(), limit)
	}
	data, err := afero.ReadFile(p.fs, path)
	if err != nil {
		return nil, nil, newError(KindIOFailure, err, "read %s: %v", path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if algo, ok := compression.FromExtension(ext); ok {
		data, err = compression.Decompress(data, algo)
		if err != nil {
			return nil, nil, newError(KindIOFailure, err, "decompress %s: %v", path, err)
		}
		if limit := p.cfg.maxBytes(); limit > 0 && int64(len(data)) > limit {
			return nil, nil, newError(KindLimitExceeded, nil,
				"decompressed size %d bytes exceeds limit of %d bytes", len(data), limit)
		}
		ext = strings.ToLower(filepath.Ext(strings.TrimSuffix(path, filepath.Ext(path))))
	}

	var v any
	switch ext {
	case ".json":
		var dups []decode.Duplicate
		v, dups, err = decode.JSON(data, decode.Options{MaxDepth: p.cfg.MaxDepth})
		if err != nil {
			return nil, nil, loadError(path, err)
		}
		return v, dups, nil
	case ".yml", ".yaml":
		v, err = codec.DecodeYAML(data)
	case ".pickle", ".msgpack", ".bin":
		v, err = codec.DecodeBinary(data)
	default:
		v = string(data)
	}
	if err != nil {
		return nil, nil, loadError(path, err)
	}
	return v, nil, nil
}

func loadError(path string, err error) error {
	if KindOf(err) != "" {
		return err
	}
	kind := KindIOFailure
	var de *normalize.DepthError
	if errors.As(err, &de) {
		kind = KindDepthExceeded
	}
	return newError(kind, err, "decode %s: %v", path, err)
}

// Save encodes record in format (the configured format when empty) and
// writes it to path, creating parent directories as needed.
func (p *Pipeline) Save(ctx context.Context, record any, path string, format codec.Format) error {
	b, err := p.Encode(record, format)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := p.fs.MkdirAll(dir, 0o755); err != nil {
			return newError(KindIOFailure, err, "create %s: %v", dir, err)
		}
	}
	if err := afero.WriteFile(p.fs, path, b, 0o644); err != nil {
		return newError(KindIOFailure, err, "write %s: %v", path, err)
	}
	p.logger(ctx).Info("Data saved successfully", "path", path, "bytes", len(b))
	return nil
}

// Persist is Save for callers that only need a success flag; failures are
// logged.
func (p *Pipeline) Persist(ctx context.Context, record any, path string, format codec.Format) bool {
	if err := p.Save(ctx, record, path, format); err != nil {
		p.logger(ctx).Error("Failed to save data", "path", path, "error", err)
		return false
	}
	return true
}

// Load reads and decodes path the way LoadAndRun does, without running the
// pipeline.
func (p *Pipeline) Load(path string) (any, error) {
	v, _, err := p.load(path)
	return v, err
}
