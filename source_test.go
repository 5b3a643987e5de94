package dataopt_test

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmprov/dataopt"
	"github.com/vmprov/dataopt/codec"
	"github.com/vmprov/dataopt/compression"
	"github.com/vmprov/dataopt/logger"
	"github.com/vmprov/dataopt/schema"
)

func memPipeline(t *testing.T, mutate func(*dataopt.Config)) (*dataopt.Pipeline, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	return newPipeline(t, mutate, dataopt.WithFS(fs)), fs
}

const resourceJSON = `{"resourceId":"r-1","resourceType":"vm","resourceName":"web","resourceState":"created"}`

func TestLoadAndRun(t *testing.T) {
	ctx := context.Background()

	t.Run("Should load JSON", func(t *testing.T) {
		p, fs := memPipeline(t, nil)
		require.NoError(t, afero.WriteFile(fs, "/in/vm.json", []byte(resourceJSON), 0o644))

		res := p.LoadAndRun(ctx, "/in/vm.json", "")
		require.True(t, res.Success, res.Error)
		data := res.Data.(map[string]any)
		assert.Equal(t, "r-1", data["resource_id"])
		assert.Equal(t, "created", data["resource_state"])
	})
	t.Run("Should load YAML", func(t *testing.T) {
		p, fs := memPipeline(t, nil)
		require.NoError(t, afero.WriteFile(fs, "/in/vm.yml", []byte("vmName: x\ncount: 2\n"), 0o644))

		res := p.LoadAndRun(ctx, "/in/vm.yml", "")
		require.True(t, res.Success, res.Error)
		data := res.Data.(map[string]any)
		assert.Equal(t, "x", data["vm_name"])
		assert.Equal(t, 2, data["count"])
	})
	t.Run("Should load MessagePack", func(t *testing.T) {
		p, fs := memPipeline(t, nil)
		b, err := codec.EncodeBinary(map[string]any{"vmName": "x"})
		require.NoError(t, err)
		require.NoError(t, afero.WriteFile(fs, "/in/vm.pickle", b, 0o644))

		res := p.LoadAndRun(ctx, "/in/vm.pickle", "")
		require.True(t, res.Success, res.Error)
		assert.Equal(t, "x", res.Data.(map[string]any)["vm_name"])
	})
	t.Run("Should load anything else as text", func(t *testing.T) {
		p, fs := memPipeline(t, nil)
		require.NoError(t, afero.WriteFile(fs, "/in/notes.txt", []byte("  hello  "), 0o644))

		res := p.LoadAndRun(ctx, "/in/notes.txt", "")
		require.True(t, res.Success, res.Error)
		assert.Equal(t, "hello", res.Data.(map[string]any)["data"])
		assert.Equal(t, "string", res.Info.OriginalType)
	})
	t.Run("Should decompress by suffix", func(t *testing.T) {
		for _, c := range []struct {
			ext  string
			algo compression.Algorithm
		}{{".gz", compression.Gzip}, {".bz2", compression.Bzip2}, {".xz", compression.LZMA}} {
			p, fs := memPipeline(t, nil)
			packed, err := compression.Compress([]byte(resourceJSON), c.algo)
			require.NoError(t, err)
			path := "/in/vm.json" + c.ext
			require.NoError(t, afero.WriteFile(fs, path, packed, 0o644))

			res := p.LoadAndRun(ctx, path, schema.VMwareResource)
			require.True(t, res.Success, res.Error)
			assert.Equal(t, "r-1", res.Data.(map[string]any)["resource_id"])
		}
	})
	t.Run("Should report duplicate keys as warnings", func(t *testing.T) {
		p, fs := memPipeline(t, nil)
		require.NoError(t, afero.WriteFile(fs, "/in/dup.json", []byte(`{"a":1,"a":2}`), 0o644))

		res := p.LoadAndRun(ctx, "/in/dup.json", "")
		require.True(t, res.Success, res.Error)
		assert.Equal(t, int64(2), res.Data.(map[string]any)["a"])
		assert.Equal(t, []string{`Duplicate key "a" at /a`}, res.ValidationWarnings)
	})
	t.Run("Should fail on missing files", func(t *testing.T) {
		p, _ := memPipeline(t, nil)
		res := p.LoadAndRun(ctx, "/in/missing.json", "")

		assert.False(t, res.Success)
		assert.Nil(t, res.Data)
		assert.Equal(t, "File not found: /in/missing.json", res.Error)
		assert.Equal(t, dataopt.KindFileNotFound, dataopt.KindOf(res.Err))
		assert.NotContains(t, res.Map(), "optimization_info")
	})
	t.Run("Should fail on malformed input", func(t *testing.T) {
		p, fs := memPipeline(t, nil)
		require.NoError(t, afero.WriteFile(fs, "/in/bad.json", []byte(`{"a":`), 0o644))

		res := p.LoadAndRun(ctx, "/in/bad.json", "")
		assert.False(t, res.Success)
		assert.Nil(t, res.Data)
		assert.Equal(t, dataopt.KindIOFailure, dataopt.KindOf(res.Err))
	})
	t.Run("Should enforce max depth while loading", func(t *testing.T) {
		p, fs := memPipeline(t, func(c *dataopt.Config) { c.MaxDepth = 2 })
		require.NoError(t, afero.WriteFile(fs, "/in/deep.json", []byte(`{"a":{"b":{"c":1}}}`), 0o644))

		res := p.LoadAndRun(ctx, "/in/deep.json", "")
		assert.False(t, res.Success)
		assert.Equal(t, dataopt.KindDepthExceeded, dataopt.KindOf(res.Err))
	})
	t.Run("Should enforce max size", func(t *testing.T) {
		p, fs := memPipeline(t, func(c *dataopt.Config) { c.MaxSizeMB = 0.00001 })
		require.NoError(t, afero.WriteFile(fs, "/in/big.json", []byte(resourceJSON), 0o644))

		res := p.LoadAndRun(ctx, "/in/big.json", "")
		assert.False(t, res.Success)
		assert.Equal(t, dataopt.KindLimitExceeded, dataopt.KindOf(res.Err))
	})
}

func TestSave(t *testing.T) {
	ctx := context.Background()

	t.Run("Should create parent directories", func(t *testing.T) {
		p, fs := memPipeline(t, func(c *dataopt.Config) { c.PrettyPrint = false })
		require.NoError(t, p.Save(ctx, map[string]any{"a": 1}, "/out/nested/a.json", ""))

		b, err := afero.ReadFile(fs, "/out/nested/a.json")
		require.NoError(t, err)
		assert.Equal(t, `{"a":1}`, string(b))
	})
	t.Run("Should round trip compressed output through LoadAndRun", func(t *testing.T) {
		p, fs := memPipeline(t, func(c *dataopt.Config) { c.Compression = compression.Gzip })
		require.NoError(t, p.Save(ctx, map[string]any{"vm_name": "x"}, "/out/vm.json.gz", codec.CompressedJSON))
		ok, err := afero.Exists(fs, "/out/vm.json.gz")
		require.NoError(t, err)
		require.True(t, ok)

		res := p.LoadAndRun(ctx, "/out/vm.json.gz", "")
		require.True(t, res.Success, res.Error)
		assert.Equal(t, "x", res.Data.(map[string]any)["vm_name"])
	})
}

func TestPersist(t *testing.T) {
	ctx := context.Background()

	t.Run("Should report success", func(t *testing.T) {
		p, fs := memPipeline(t, nil)
		assert.True(t, p.Persist(ctx, map[string]any{"name": "x"}, "/out/a.xml", codec.XML))
		b, err := afero.ReadFile(fs, "/out/a.xml")
		require.NoError(t, err)
		assert.Contains(t, string(b), "<name>x</name>")
	})
	t.Run("Should report false on unsupported formats", func(t *testing.T) {
		p, _ := memPipeline(t, nil)
		assert.False(t, p.Persist(ctx, map[string]any{}, "/out/a.toml", "toml"))
	})
	t.Run("Should report false on write failures", func(t *testing.T) {
		p := newPipeline(t, nil, dataopt.WithFS(afero.NewReadOnlyFs(afero.NewMemMapFs())),
			dataopt.WithLogger(logger.Discard()))
		assert.False(t, p.Persist(ctx, map[string]any{}, "/out/a.json", codec.JSON))
	})
}
