package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"strata/internal/trace"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	writeFile(t, path, `
[arrays]
narrow_int = false
sort_insertion_max = 8

[trace]
level = "site"
heartbeat = "250ms"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	opts := cfg.StorageOptions()
	if opts.AllowNarrowInt || !opts.AllowWideInt || !opts.AllowFloat || opts.SortInsertionMax != 8 {
		t.Fatalf("unexpected options: %+v", opts)
	}
	tc, err := cfg.TracerConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tc.Level != trace.LevelSite || tc.Mode != trace.ModeStream || tc.Heartbeat != 250*time.Millisecond {
		t.Fatalf("unexpected tracer config: %+v", tc)
	}
	if cfg.Snapshot.Dir != ".strata" {
		t.Fatalf("expected default snapshot dir, got %q", cfg.Snapshot.Dir)
	}
}

func TestLoadRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"syntax", "[arrays\n", "failed to parse TOML"},
		{"unknown key", "[arrays]\nbytes = true\n", "unknown keys: arrays.bytes"},
		{"negative threshold", "[arrays]\nsort_insertion_max = -1\n", "sort_insertion_max"},
		{"bad level", "[trace]\nlevel = \"loud\"\n", "invalid trace level"},
		{"bad mode", "[trace]\nmode = \"tape\"\n", "invalid storage mode"},
		{"bad ring", "[trace]\nring_size = 0\n", "ring_size"},
		{"bad heartbeat", "[trace]\nheartbeat = \"soon\"\n", "heartbeat"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			writeFile(t, path, tt.content)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if _, ok, err := Find(nested); err != nil || ok {
		t.Fatalf("expected no config yet, got ok=%v err=%v", ok, err)
	}
	writeFile(t, filepath.Join(root, FileName), "[snapshot]\ndir = \"snaps\"\n")

	path, ok, err := Find(nested)
	if err != nil || !ok || filepath.Dir(path) != root {
		t.Fatalf("expected config in %s, got %q ok=%v err=%v", root, path, ok, err)
	}
	cfg, found, err := Discover(nested)
	if err != nil || found != path || cfg.Snapshot.Dir != "snaps" {
		t.Fatalf("unexpected discover result: %+v %q %v", cfg, found, err)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := Write(path, Default()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults back, got %+v", cfg)
	}
	if err := Write(path, Default()); err == nil {
		t.Fatal("expected refusal to overwrite")
	}
}
