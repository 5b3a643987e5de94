// Package config assembles a pipeline configuration from layered sources:
// built-in defaults, an optional YAML file, DATAOPT_* environment variables
// and explicitly set command-line flags, each overriding the one before.
package config

import (
	"reflect"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/vmprov/dataopt"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "DATAOPT_"

// Source names the layer a setting was taken from.
type Source string

const (
	SourceDefault Source = "default"
	SourceFile    Source = "file"
	SourceEnv     Source = "env"
	SourceFlag    Source = "flag"
)

// Options selects the layers to load. Zero values skip a layer.
type Options struct {
	File  string         // YAML file path
	Env   bool           // read DATAOPT_* variables
	Flags *pflag.FlagSet // flags named like keys, with '-' for '_'
}

// Loaded is a validated configuration and where each key came from.
type Loaded struct {
	Config  dataopt.Config
	Sources map[string]Source
}

type loader struct {
	k       *koanf.Koanf
	sources map[string]Source
}

// Load merges the selected layers over dataopt.DefaultConfig and validates
// the result.
func Load(opt Options) (*Loaded, error) {
	l := &loader{k: koanf.New("."), sources: map[string]Source{}}

	if err := l.load(SourceDefault, structs.Provider(dataopt.DefaultConfig(), "koanf"), nil); err != nil {
		return nil, errors.Wrap(err, "load defaults")
	}
	if opt.File != "" {
		if err := l.load(SourceFile, file.Provider(opt.File), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "load config file %s", opt.File)
		}
	}
	if opt.Env {
		if err := l.load(SourceEnv, env.Provider(".", env.Opt{
			Prefix:        EnvPrefix,
			TransformFunc: transformEnvKey,
		}), nil); err != nil {
			return nil, errors.Wrap(err, "load environment")
		}
	}
	if opt.Flags != nil {
		if err := l.load(SourceFlag, posflag.ProviderWithFlag(opt.Flags, ".", l.k, flagKey(opt.Flags)), nil); err != nil {
			return nil, errors.Wrap(err, "load flags")
		}
	}

	var cfg dataopt.Config
	if err := l.k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, &dataopt.Error{Kind: dataopt.KindInvalidConfig, Msg: "invalid configuration: " + err.Error(), Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Loaded{Config: cfg, Sources: l.sources}, nil
}

func (l *loader) load(src Source, p koanf.Provider, parser koanf.Parser) error {
	before := l.k.All()
	if err := l.k.Load(p, parser); err != nil {
		return err
	}
	for key, v := range l.k.All() {
		if old, ok := before[key]; !ok || !reflect.DeepEqual(old, v) {
			l.sources[key] = src
		}
	}
	return nil
}

// Keys lists the recognized configuration keys.
func Keys() []string {
	k := koanf.New(".")
	_ = k.Load(structs.Provider(dataopt.DefaultConfig(), "koanf"), nil)
	return k.Keys()
}

// transformEnvKey maps DATAOPT_MAX_DEPTH to max_depth. Unknown names are
// dropped.
func transformEnvKey(key, value string) (string, any) {
	k := strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	if !known(k) {
		return "", nil
	}
	return k, value
}

// flagKey maps changed flags such as --max-depth to max_depth. Unchanged
// flags and flags outside the configuration are skipped.
func flagKey(fs *pflag.FlagSet) func(f *pflag.Flag) (string, any) {
	return func(f *pflag.Flag) (string, any) {
		k := strings.ReplaceAll(f.Name, "-", "_")
		if !f.Changed || !known(k) {
			return "", nil
		}
		return k, posflag.FlagVal(fs, f)
	}
}

var knownKeys = func() map[string]struct{} {
	m := map[string]struct{}{}
	for _, k := range Keys() {
		m[k] = struct{}{}
	}
	return m
}()

func known(key string) bool {
	_, ok := knownKeys[key]
	return ok
}

// Snapshot returns the merged key/value view, for diagnostics.
func (l *Loaded) Snapshot() map[string]any {
	k := koanf.New(".")
	_ = k.Load(structs.Provider(l.Config, "koanf"), nil)
	return k.All()
}
