package dataopt

import (
	"crypto/sha256"
	"encoding/hex"
	"maps"
	"time"

	"github.com/vmprov/dataopt/codec"
	"github.com/vmprov/dataopt/schema"
)

const (
	// MetadataKey is the reserved top-level key holding the metadata block.
	MetadataKey = "_metadata"
	// StructureVersion is written as data_structure_version.
	StructureVersion = "2.0.0"
	// OptimizerVersion is written as optimizer_version.
	OptimizerVersion = "2.0.0"
)

// Wrap returns v as a mapping. Mappings are shallow-copied; anything else
// becomes {"data": v, "_metadata": {}}.
func Wrap(v any) map[string]any {
	if m, ok := schema.AsMapping(v); ok {
		return maps.Clone(m)
	}
	return map[string]any{"data": v, MetadataKey: map[string]any{}}
}

// Annotate merges the metadata block into a copy of record. The checksum,
// when enabled, is the SHA-256 of the record's canonical JSON before the
// block is merged. Nothing is added when cfg.IncludeMetadata is false.
func Annotate(record map[string]any, cfg Config, now time.Time) (map[string]any, error) {
	out := maps.Clone(record)
	if out == nil {
		out = map[string]any{}
	}
	if !cfg.IncludeMetadata {
		return out, nil
	}

	block := map[string]any{
		"data_structure_version": StructureVersion,
		"optimizer_version":      OptimizerVersion,
		"data_format":            string(cfg.OutputFormat),
		"compression":            string(cfg.Compression),
		"validation_level":       string(cfg.ValidationLevel),
	}
	if cfg.IncludeTimestamps {
		block["processing_timestamp"] = codec.FormatTime(now)
	}
	if cfg.IncludeChecksums {
		sum, err := Checksum(record)
		if err != nil {
			return nil, err
		}
		block["checksum"] = sum
	}

	meta, ok := schema.AsMapping(out[MetadataKey])
	if ok {
		meta = maps.Clone(meta)
	} else {
		meta = make(map[string]any, len(block))
	}
	maps.Copy(meta, block)
	out[MetadataKey] = meta
	return out, nil
}

// Checksum returns the hex SHA-256 of v's canonical JSON.
func Checksum(v any) (string, error) {
	b, err := codec.CanonicalJSON(v)
	if err != nil {
		return "", newError(KindUnexpectedFailure, err, "checksum: %v", err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
