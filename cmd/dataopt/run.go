package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vmprov/dataopt"
	"github.com/vmprov/dataopt/codec"
)

type runFlags struct {
	data     string
	loadFrom string
	dataType string
	saveTo   string
	check    bool
}

func newRunCmd(rf *rootFlags) *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Optimize one record and print a JSON report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return f.run(cmd, rf)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.data, "data", "", "inline record (JSON or YAML)")
	fl.StringVar(&f.loadFrom, "load-from-file", "", "read the record from a file")
	fl.StringVar(&f.dataType, "data-type", "", "schema to validate against")
	fl.StringVar(&f.saveTo, "save-to-file", "", "write the optimized record to this path")
	fl.BoolVar(&f.check, "check", false, "report without writing any file")

	d := dataopt.DefaultConfig()
	fl.String("output-format", string(d.OutputFormat), "json, yaml, xml, csv, html, binary, compressed_json or compressed_yaml")
	fl.String("validation-level", string(d.ValidationLevel), "basic, standard, strict or comprehensive")
	fl.String("compression", string(d.Compression), "none, gzip, bzip2 or lzma")
	fl.Bool("include-metadata", d.IncludeMetadata, "add the _metadata block")
	fl.Bool("include-timestamps", d.IncludeTimestamps, "add processing_timestamp to the metadata")
	fl.Bool("include-checksums", d.IncludeChecksums, "add a SHA-256 checksum to the metadata")
	fl.Bool("pretty-print", d.PrettyPrint, "indent text output")
	fl.Bool("enable-caching", d.EnableCaching, "memoize results by content")
	fl.Int("cache-ttl-seconds", d.CacheTTLSeconds, "cache entry lifetime")
	fl.Int("max-depth", d.MaxDepth, "maximum nesting depth, 0 for no limit")
	fl.Float64("max-size-mb", d.MaxSizeMB, "maximum input size, 0 for no limit")

	cmd.MarkFlagsMutuallyExclusive("data", "load-from-file")
	cmd.MarkFlagsOneRequired("data", "load-from-file")
	return cmd
}

func (f *runFlags) run(cmd *cobra.Command, rf *rootFlags) error {
	start := time.Now()
	p, ctx, err := rf.pipeline(cmd)
	if err != nil {
		return err
	}
	if err := checkDataType(p.Registry(), f.dataType); err != nil {
		return err
	}

	var (
		res          dataopt.Result
		original     any
		originalSize int
	)
	if f.loadFrom != "" {
		res = p.LoadAndRun(ctx, f.loadFrom, f.dataType)
		if st, err := os.Stat(f.loadFrom); err == nil {
			originalSize = int(st.Size())
		}
	} else {
		original = parseInline(f.data)
		originalSize = dataSize(original)
		res = p.Run(ctx, original, f.dataType)
	}

	if !res.Success {
		if f.loadFrom != "" {
			original = res.Data
		}
		out := map[string]any{
			"changed":         false,
			"failed":          true,
			"msg":             "Data optimization failed: " + res.Error,
			"error":           res.Error,
			"original_data":   original,
			"processing_time": time.Since(start).Seconds(),
		}
		if len(res.ValidationErrors) > 0 {
			out["validation_errors"] = res.ValidationErrors
		}
		if err := printJSON(cmd, out); err != nil {
			return err
		}
		return errReported
	}

	optimizedSize := dataSize(res.Data)
	ratio := 1.0
	if originalSize > 0 {
		ratio = float64(optimizedSize) / float64(originalSize)
	}
	out := map[string]any{
		"changed":        true,
		"optimized_data": res.Map(),
		"data_size": map[string]any{
			"original_size_bytes":  originalSize,
			"optimized_size_bytes": optimizedSize,
			"compression_ratio":    ratio,
		},
	}
	if len(res.ValidationWarnings) > 0 {
		out["validation_warnings"] = res.ValidationWarnings
	}

	failed := false
	if f.saveTo != "" {
		saved := f.check || p.Persist(ctx, res.Data, f.saveTo, "")
		out["file_saved"] = saved
		out["file_path"] = f.saveTo
		if !saved {
			out["failed"] = true
			out["msg"] = "Failed to save optimized data to " + f.saveTo
			failed = true
		}
	}
	out["processing_time"] = time.Since(start).Seconds()
	if err := printJSON(cmd, out); err != nil {
		return err
	}
	if failed {
		return errReported
	}
	return nil
}

// dataSize is the byte length of text, or of the compact JSON form of
// anything else.
func dataSize(v any) int {
	switch t := v.(type) {
	case nil:
		return 0
	case string:
		return len(t)
	case []byte:
		return len(t)
	}
	b, err := codec.CanonicalJSON(v)
	if err != nil {
		return 0
	}
	return len(b)
}
