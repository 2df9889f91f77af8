// Package prefs persists the two popup preferences, alarm and volume, in a
// small JSON file under the config directory.
package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dayplan/dayplan/pkg/schedule"
	"github.com/spf13/afero"
)

// DefaultVolume applies until the user picks one.
const DefaultVolume = 50

// ErrVolumeRange is returned for volumes outside 0..100.
var ErrVolumeRange = errors.New("volume must be between 0 and 100")

// Prefs are the persisted UI preferences.
type Prefs struct {
	AlarmEnabled bool `json:"alarmEnabled"`
	Volume       int  `json:"volume"`
}

// Default returns the preferences used before anything is saved.
func Default() Prefs {
	return Prefs{Volume: DefaultVolume}
}

// Validate checks the volume range.
func (p Prefs) Validate() error {
	if p.Volume < 0 || p.Volume > 100 {
		return fmt.Errorf("%w: %d", ErrVolumeRange, p.Volume)
	}
	return nil
}

// fileFormat accepts the volume as a number or a numeric string.
type fileFormat struct {
	AlarmEnabled bool               `json:"alarmEnabled"`
	Volume       *schedule.LooseInt `json:"volume"`
}

// Store reads and writes Prefs. Writes replace the file wholesale; the last
// write wins.
type Store struct {
	fs   afero.Fs
	path string
	mu   sync.Mutex
}

// NewStore returns a store for the file at path on fs.
func NewStore(fs afero.Fs, path string) *Store {
	return &Store{fs: fs, path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load returns the stored preferences, or the defaults when nothing is
// stored yet. A damaged file yields the defaults together with an error.
func (s *Store) Load() (Prefs, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() (Prefs, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("read prefs: %w", err)
	}
	var ff fileFormat
	if err := json.Unmarshal(data, &ff); err != nil {
		return Default(), fmt.Errorf("parse prefs %s: %w", s.path, err)
	}
	p := Prefs{AlarmEnabled: ff.AlarmEnabled, Volume: DefaultVolume}
	if ff.Volume != nil {
		p.Volume = int(*ff.Volume)
	}
	if p.Validate() != nil {
		p.Volume = DefaultVolume
	}
	return p, nil
}

// Save writes p through a temporary file and rename.
func (s *Store) Save(p Prefs) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(p)
}

func (s *Store) save(p Prefs) error {
	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := afero.TempFile(s.fs, dir, ".prefs.json.tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		s.fs.Remove(tmpPath)
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := tmp.Close(); err != nil {
		s.fs.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := s.fs.Rename(tmpPath, s.path); err != nil {
		s.fs.Remove(tmpPath)
		return fmt.Errorf("rename prefs file: %w", err)
	}
	return nil
}

func (s *Store) update(fn func(*Prefs) error) (Prefs, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, _ := s.load()
	if err := fn(&p); err != nil {
		return p, err
	}
	return p, s.save(p)
}

// SetAlarmEnabled persists the alarm toggle and returns the new preferences.
func (s *Store) SetAlarmEnabled(on bool) (Prefs, error) {
	return s.update(func(p *Prefs) error {
		p.AlarmEnabled = on
		return nil
	})
}

// SetVolume persists the volume and returns the new preferences.
func (s *Store) SetVolume(v int) (Prefs, error) {
	return s.update(func(p *Prefs) error {
		if v < 0 || v > 100 {
			return fmt.Errorf("%w: %d", ErrVolumeRange, v)
		}
		p.Volume = v
		return nil
	})
}
