// Package store persists the screen list as a YAML document, standing in
// for the host framework's config-entry storage.
package store

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"geekmagic/pkg/layout"
	"geekmagic/pkg/screen"
)

type config struct {
	Screens []screen.Screen `yaml:"screens"`
}

type Store struct {
	fs   afero.Fs
	path string

	mu   sync.Mutex
	last []byte
}

func New(path string) *Store {
	return &Store{fs: afero.NewOsFs(), path: path}
}

func NewWithFs(fs afero.Fs, path string) *Store {
	return &Store{fs: fs, path: path}
}

// Load reads the screen list. A missing file yields the default
// configuration (one clock screen) rather than an error, so first runs work
// without any setup.
func (s *Store) Load() ([]screen.Screen, error) {
	bs, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultScreens(), nil
		}
		return nil, fmt.Errorf("read config failed: %w", err)
	}

	var cfg config
	if err := yaml.Unmarshal(bs, &cfg); err != nil {
		return nil, fmt.Errorf("parse config failed: %w", err)
	}

	for i, scr := range cfg.Screens {
		if !layout.Valid(scr.Layout) {
			return nil, fmt.Errorf("screen %d: unknown layout %q: %w", i, scr.Layout, screen.ErrInvalidConfig)
		}
		for _, w := range scr.Widgets {
			if !w.Kind.Valid() {
				return nil, fmt.Errorf("screen %d slot %d: unknown widget kind %q: %w", i, w.Slot, w.Kind, screen.ErrInvalidConfig)
			}
			if w.Slot < 0 || w.Slot >= layout.SlotCount(scr.Layout) {
				return nil, fmt.Errorf("screen %d: slot %d out of range: %w", i, w.Slot, screen.ErrInvalidConfig)
			}
		}
	}

	return cfg.Screens, nil
}

func (s *Store) Save(screens []screen.Screen) error {
	_, err := s.save(screens, false)
	return err
}

// SaveIfChanged writes the screen list only when it differs from the last
// write. Meant for coordinator listeners, which fire on every published state
// change, not just configuration edits; unchanged lists cost one marshal.
func (s *Store) SaveIfChanged(screens []screen.Screen) (bool, error) {
	return s.save(screens, true)
}

func (s *Store) save(screens []screen.Screen, onlyChanged bool) (bool, error) {
	bs, err := yaml.Marshal(config{Screens: screens})
	if err != nil {
		return false, fmt.Errorf("marshal config failed: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if onlyChanged && bytes.Equal(bs, s.last) {
		return false, nil
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := s.fs.MkdirAll(dir, 0755); err != nil {
			return false, fmt.Errorf("create config dir failed: %w", err)
		}
	}

	if err := afero.WriteFile(s.fs, s.path, bs, 0644); err != nil {
		return false, err
	}
	s.last = bs
	return true, nil
}

// DefaultScreens is the out-of-the-box configuration.
func DefaultScreens() []screen.Screen {
	clock, _ := screen.ApplyTemplate(screen.Screen{}, "clock")
	return []screen.Screen{clock}
}
