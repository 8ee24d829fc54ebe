// Package config owns the persisted pastemirror settings.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/pelletier/go-toml/v2"
)

const (
	defaultAssetsRootName = "Assets"
	defaultLogLevel       = "info"
	defaultLogFormat      = "auto"
)

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Settings is the persisted configuration.
type Settings struct {
	// AssetsRootName is the vault folder that mirrors the note hierarchy.
	AssetsRootName string  `toml:"assets_root_name"`
	Logging        Logging `toml:"logging"`
}

// Default returns Settings populated with repository defaults.
func Default() Settings {
	return Settings{
		AssetsRootName: defaultAssetsRootName,
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}

// Validate checks that the settings are usable.
func (s Settings) Validate() error {
	root := strings.TrimSpace(s.AssetsRootName)
	if root == "" {
		return errors.New("assets_root_name must not be empty")
	}
	if strings.ContainsAny(root, `/\`) {
		return fmt.Errorf("assets_root_name %q must be a single folder name", root)
	}
	switch strings.ToLower(strings.TrimSpace(s.Logging.Format)) {
	case "", "auto", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", s.Logging.Format)
	}
	return nil
}

func (s *Settings) normalize() {
	s.AssetsRootName = strings.TrimSpace(s.AssetsRootName)
	s.Logging.Level = strings.ToLower(strings.TrimSpace(s.Logging.Level))
	s.Logging.Format = strings.ToLower(strings.TrimSpace(s.Logging.Format))
	if s.Logging.Level == "" {
		s.Logging.Level = defaultLogLevel
	}
	if s.Logging.Format == "" {
		s.Logging.Format = defaultLogFormat
	}
}

// DefaultPath returns the default settings file location.
func DefaultPath() (string, error) {
	if base, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "pastemirror", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "pastemirror", "config.toml"), nil
}

// Store is the process-wide settings owner. It is the only writer of the
// settings file.
type Store struct {
	path string

	mu       sync.RWMutex
	settings Settings
}

// ResolvePath returns path, or DefaultPath when path is empty.
func ResolvePath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	return DefaultPath()
}

// Open loads the settings at path merged over Default. A missing file is
// not an error; it is written on the first Set.
func Open(path string) (*Store, error) {
	store, err := OpenForEdit(path)
	if err != nil {
		return nil, err
	}
	if err := store.settings.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", store.path, err)
	}
	return store, nil
}

// OpenForEdit is Open without validation, so a file holding invalid values
// can still be corrected through Set. Set validates the result as usual.
func OpenForEdit(path string) (*Store, error) {
	path, err := ResolvePath(path)
	if err != nil {
		return nil, err
	}
	settings := Default()

	file, err := os.Open(path)
	switch {
	case err == nil:
		defer file.Close()
		if err := toml.NewDecoder(file).Decode(&settings); err != nil {
			return nil, fmt.Errorf("parse settings: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("open settings: %w", err)
	}

	settings.normalize()
	if settings.AssetsRootName == "" {
		settings.AssetsRootName = defaultAssetsRootName
	}
	return &Store{path: path, settings: settings}, nil
}

// Path returns the settings file location.
func (s *Store) Path() string { return s.path }

// Get returns a copy of the current settings.
func (s *Store) Get() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// AssetsRootName returns the configured assets root folder.
func (s *Store) AssetsRootName() string {
	return s.Get().AssetsRootName
}

// Set applies mutate to a copy of the settings, validates the result and
// persists it. The in-memory value only changes once the file is written.
func (s *Store) Set(mutate func(*Settings)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.settings
	mutate(&next)
	next.normalize()
	if err := next.Validate(); err != nil {
		return err
	}
	if err := s.save(next); err != nil {
		return err
	}
	s.settings = next
	return nil
}

func (s *Store) save(settings Settings) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}

	lock := flock.New(s.path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock settings: %w", err)
	}
	defer lock.Unlock()

	data, err := toml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".config-*.toml")
	if err != nil {
		return fmt.Errorf("create temp settings: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close settings: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace settings: %w", err)
	}
	return nil
}
