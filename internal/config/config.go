// Package config loads strata.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"strata/internal/storage"
	"strata/internal/trace"
)

// FileName is the configuration file looked up by Find.
const FileName = "strata.toml"

// Config mirrors strata.toml.
type Config struct {
	Arrays   ArraysConfig   `toml:"arrays"`
	Trace    TraceConfig    `toml:"trace"`
	Snapshot SnapshotConfig `toml:"snapshot"`
}

// ArraysConfig enables storage representations.
type ArraysConfig struct {
	NarrowInt        bool `toml:"narrow_int"`
	WideInt          bool `toml:"wide_int"`
	Float            bool `toml:"float"`
	SortInsertionMax int  `toml:"sort_insertion_max"`
}

// TraceConfig selects tracing output.
type TraceConfig struct {
	Level     string `toml:"level"`
	Mode      string `toml:"mode"`
	Output    string `toml:"output"`
	RingSize  int    `toml:"ring_size"`
	Heartbeat string `toml:"heartbeat"`
}

// SnapshotConfig locates the snapshot store.
type SnapshotConfig struct {
	Dir string `toml:"dir"`
}

// Default returns the configuration used when no strata.toml exists.
func Default() Config {
	opts := storage.DefaultOptions()
	return Config{
		Arrays: ArraysConfig{
			NarrowInt:        opts.AllowNarrowInt,
			WideInt:          opts.AllowWideInt,
			Float:            opts.AllowFloat,
			SortInsertionMax: opts.SortInsertionMax,
		},
		Trace: TraceConfig{
			Level:    "off",
			Mode:     "stream",
			Output:   "-",
			RingSize: 4096,
		},
		Snapshot: SnapshotConfig{
			Dir: ".strata",
		},
	}
}

// Find walks up from startDir looking for strata.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load decodes path over Default. Keys missing from the file keep their
// default values.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("arrays", "sort_insertion_max") && cfg.Arrays.SortInsertionMax < 0 {
		return Config{}, fmt.Errorf("%s: [arrays].sort_insertion_max must be >= 0", path)
	}
	if meta.IsDefined("trace", "ring_size") && cfg.Trace.RingSize <= 0 {
		return Config{}, fmt.Errorf("%s: [trace].ring_size must be > 0", path)
	}
	if _, err := cfg.TracerConfig(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover loads the nearest strata.toml above startDir, or Default when
// there is none. The returned path is empty in that case.
func Discover(startDir string) (Config, string, error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return Default(), "", err
	}
	cfg, err := Load(path)
	return cfg, path, err
}

// StorageOptions converts [arrays] to storage options.
func (c Config) StorageOptions() storage.Options {
	return storage.Options{
		AllowNarrowInt:   c.Arrays.NarrowInt,
		AllowWideInt:     c.Arrays.WideInt,
		AllowFloat:       c.Arrays.Float,
		SortInsertionMax: c.Arrays.SortInsertionMax,
	}
}

// TracerConfig converts [trace] to a tracer configuration.
func (c Config) TracerConfig() (trace.Config, error) {
	level, err := trace.ParseLevel(c.Trace.Level)
	if err != nil {
		return trace.Config{}, err
	}
	mode, err := trace.ParseMode(c.Trace.Mode)
	if err != nil {
		return trace.Config{}, err
	}
	tc := trace.Config{
		Level:      level,
		Mode:       mode,
		OutputPath: c.Trace.Output,
		RingSize:   c.Trace.RingSize,
	}
	if c.Trace.Heartbeat != "" {
		if tc.Heartbeat, err = parseDuration(c.Trace.Heartbeat); err != nil {
			return trace.Config{}, fmt.Errorf("[trace].heartbeat: %w", err)
		}
	}
	return tc, nil
}

// Write encodes cfg to path, refusing to overwrite an existing file.
func Write(path string, cfg Config) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	enc := toml.NewEncoder(f)
	enc.Indent = ""
	if err := enc.Encode(cfg); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}
