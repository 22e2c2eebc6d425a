// Package presets discovers and loads the macro presets kept in a directory.
//
// A preset is a macro file (.csv, .yaml or .yml) named after its base name:
// "presets/Camera Cleanup.csv" is the preset "Camera Cleanup". Parsed presets
// are cached until the file changes on disk.
package presets

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/alekit/internal/cache"
	"github.com/agentstation/alekit/pkg/constants"
	"github.com/agentstation/alekit/pkg/errors"
	"github.com/agentstation/alekit/pkg/logging"
	"github.com/agentstation/alekit/pkg/macro"
)

// Preset describes a preset file found in the store's directory.
type Preset struct {
	Name    string    `json:"name" yaml:"name"`
	Path    string    `json:"path" yaml:"path"`
	Format  string    `json:"format" yaml:"format"`
	ModTime time.Time `json:"modified" yaml:"modified"`
	Size    int64     `json:"size" yaml:"size"`
}

// Store lists and loads presets from a directory.
type Store struct {
	dir    string
	cache  *cache.Cache
	logger *zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithCache shares a cache between stores.
func WithCache(c *cache.Cache) Option {
	return func(s *Store) {
		s.cache = c
	}
}

// WithLogger sets the store's logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a store for dir. An empty dir uses constants.DefaultPresetDir.
func New(dir string, opts ...Option) *Store {
	if dir == "" {
		dir = constants.DefaultPresetDir
	}
	s := &Store{dir: dir}
	for _, opt := range opts {
		opt(s)
	}
	if s.cache == nil {
		s.cache = cache.New(constants.CacheTTL, constants.CacheCleanupInterval)
	}
	if s.logger == nil {
		s.logger = logging.Default()
	}
	return s
}

// Dir returns the directory the store reads from.
func (s *Store) Dir() string {
	return s.dir
}

// CacheStats returns the statistics of the parsed-macro cache.
func (s *Store) CacheStats() cache.Stats {
	return s.cache.GetStats()
}

// List returns the presets in the store's directory sorted by name.
func (s *Store) List() ([]Preset, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.WrapIO("read", s.dir, err)
	}

	var presets []Preset
	for _, e := range entries {
		if e.IsDir() || !IsPresetFile(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			s.logger.Warn().Err(err).Str("file", e.Name()).Msg("Skipping unreadable preset")
			continue
		}
		ext := filepath.Ext(e.Name())
		presets = append(presets, Preset{
			Name:    strings.TrimSuffix(e.Name(), ext),
			Path:    filepath.Join(s.dir, e.Name()),
			Format:  strings.TrimPrefix(strings.ToLower(ext), "."),
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})
	}

	sort.SliceStable(presets, func(i, j int) bool {
		return strings.ToLower(presets[i].Name) < strings.ToLower(presets[j].Name)
	})
	return presets, nil
}

// Find returns the preset called name. An exact match wins over a
// case-insensitive one.
func (s *Store) Find(name string) (Preset, error) {
	presets, err := s.List()
	if err != nil {
		return Preset{}, err
	}
	var fold *Preset
	for i, p := range presets {
		if p.Name == name {
			return p, nil
		}
		if fold == nil && strings.EqualFold(p.Name, name) {
			fold = &presets[i]
		}
	}
	if fold != nil {
		return *fold, nil
	}
	return Preset{}, errors.NewNotFoundError("preset", name)
}

// Load returns the macro for ref, which is either the path of a macro file
// or the name of a preset in the store. The returned macro is shared with
// the cache and must not be modified.
func (s *Store) Load(ref string) (*macro.Macro, error) {
	path, err := s.Resolve(ref)
	if err != nil {
		return nil, err
	}
	return s.loadPath(path)
}

// Resolve returns the file path ref refers to.
func (s *Store) Resolve(ref string) (string, error) {
	if info, err := os.Stat(ref); err == nil && !info.IsDir() {
		return ref, nil
	}
	p, err := s.Find(ref)
	if err != nil {
		return "", err
	}
	return p.Path, nil
}

// Source returns a macro.Source that loads ref through the store.
func (s *Store) Source(ref string) macro.Source {
	return macro.SourceFunc(func() (*macro.Macro, error) {
		return s.Load(ref)
	})
}

func (s *Store) loadPath(path string) (*macro.Macro, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.WrapIO("stat", path, err)
	}

	key := cache.FileKey(path, info.ModTime(), info.Size())
	if v, ok := s.cache.Get(key); ok {
		if m, ok := v.(*macro.Macro); ok {
			s.logger.Debug().Str("preset", path).Msg("Preset cache hit")
			return m, nil
		}
	}

	m, err := macro.LoadFile(path)
	if err != nil {
		return nil, err
	}
	if errs := m.Errs(); len(errs) > 0 {
		s.logger.Warn().
			Str("preset", path).
			Int("invalid_steps", len(errs)).
			Msg("Preset has steps that will be skipped")
	}
	s.cache.Set(key, m)
	return m, nil
}

// IsPresetFile reports whether name has a preset file extension.
func IsPresetFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range constants.PresetExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
