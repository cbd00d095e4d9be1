package snapshot

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/text/unicode/norm"

	"strata/internal/array"
	"strata/internal/storage"
)

// Ext is the file extension of snapshot files.
const Ext = ".mp"

// Store keeps snapshots under a directory, one file per name:
// <dir>/arrays/<name>.mp and <dir>/profiles/<name>.mp.
// Thread-safe for concurrent access.
type Store struct {
	mu  sync.RWMutex
	dir string
}

// Open creates dir if needed and returns a store rooted there.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

// Dir returns the root directory.
func (s *Store) Dir() string { return s.dir }

// Names are NFC-normalized so canonically equal names share a file.
func (s *Store) pathFor(kind, name string) (string, error) {
	name = norm.NFC.String(name)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid snapshot name %q", name)
	}
	sub := "arrays"
	if kind == KindProfile {
		sub = "profiles"
	}
	return filepath.Join(s.dir, sub, name+Ext), nil
}

// PutArray writes a under name, replacing any previous snapshot.
func (s *Store) PutArray(name string, a *array.Array) error {
	if s == nil {
		return nil
	}
	p, err := FromArray(name, a)
	if err != nil {
		return err
	}
	path, err := s.pathFor(KindArray, name)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeFile(path, p)
}

// GetArray reads the array stored under name. ok is false when there is
// none.
func (s *Store) GetArray(name string) (a *array.Array, ok bool, err error) {
	if s == nil {
		return nil, false, nil
	}
	path, err := s.pathFor(KindArray, name)
	if err != nil {
		return nil, false, err
	}
	var p ArrayPayload
	s.mu.RLock()
	ok, err = readFile(path, &p)
	s.mu.RUnlock()
	if !ok || err != nil {
		return nil, ok, err
	}
	a, err = p.Array()
	return a, err == nil, err
}

// PutProfile writes a site profile under name.
func (s *Store) PutProfile(name string, profiles []storage.SiteProfile) error {
	if s == nil {
		return nil
	}
	path, err := s.pathFor(KindProfile, name)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeFile(path, FromProfile(profiles))
}

// GetProfile reads the profile stored under name.
func (s *Store) GetProfile(name string) ([]storage.SiteProfile, bool, error) {
	if s == nil {
		return nil, false, nil
	}
	path, err := s.pathFor(KindProfile, name)
	if err != nil {
		return nil, false, err
	}
	var p ProfilePayload
	s.mu.RLock()
	ok, err := readFile(path, &p)
	s.mu.RUnlock()
	if !ok || err != nil {
		return nil, ok, err
	}
	profiles, err := p.Profiles()
	return profiles, err == nil, err
}

// List returns the stored names of kind, sorted.
func (s *Store) List(kind string) ([]string, error) {
	if s == nil {
		return nil, nil
	}
	probe, err := s.pathFor(kind, "x")
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries, err := os.ReadDir(filepath.Dir(probe))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != Ext {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), Ext))
	}
	sort.Strings(names)
	return names, nil
}

// DropAll removes every snapshot.
func (s *Store) DropAll() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(s.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(s.dir, 0o755)
}

// WriteProfileFile writes profiles to path atomically.
func WriteProfileFile(path string, profiles []storage.SiteProfile) error {
	return writeFile(path, FromProfile(profiles))
}

// ReadProfileFile reads a profile written by WriteProfileFile or PutProfile.
func ReadProfileFile(path string) ([]storage.SiteProfile, error) {
	var p ProfilePayload
	ok, err := readFile(path, &p)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, os.ErrNotExist)
	}
	return p.Profiles()
}

// Document is a decoded snapshot file of either kind.
type Document struct {
	Kind     string
	Array    *ArrayPayload
	Profiles []storage.SiteProfile
}

// Decode reads one snapshot of either kind from r.
func Decode(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var h header
	if err := msgpack.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("not a snapshot: %w", err)
	}
	if h.Schema != schemaVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSchema, h.Schema, schemaVersion)
	}
	doc := &Document{Kind: h.Kind}
	switch h.Kind {
	case KindArray:
		doc.Array = new(ArrayPayload)
		if err := msgpack.Unmarshal(data, doc.Array); err != nil {
			return nil, err
		}
	case KindProfile:
		var p ProfilePayload
		if err := msgpack.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		if doc.Profiles, err = p.Profiles(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown snapshot kind %q", h.Kind)
	}
	return doc, nil
}

// ReadFile decodes the snapshot file at path.
func ReadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

func writeFile(path string, payload any) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// atomic replace
	return os.Rename(f.Name(), path)
}

func readFile(path string, out any) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, fmt.Errorf("%s: %w", path, err)
	}
	return true, nil
}
