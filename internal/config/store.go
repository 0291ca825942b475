package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	FileName       = "config.yaml"
	LastUpdateFile = "lastupdate"

	// DefaultUpdaterDelay is the shortest allowed update check interval, in seconds.
	DefaultUpdaterDelay = 43200
)

// Store owns the configuration file of a data directory and the timestamp
// of the last update check stored next to it. Changes stay in memory until
// SaveAll.
type Store struct {
	dir    string
	logger *slog.Logger

	mu            sync.RWMutex
	cfg           *Config
	lastUpdate    int64
	configChanged bool
	valuesChanged bool
	modCount      int
	listeners     []func(Config)
}

// NewStore loads dir/config.yaml, writing the default configuration first
// when the file does not exist.
func NewStore(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{dir: dir, logger: logger}
	if err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Path() string {
	return filepath.Join(s.dir, FileName)
}

// OnChange registers fn to run with the new configuration after SetDebug
// and Reload.
func (s *Store) OnChange(fn func(Config)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) notify() {
	s.mu.RLock()
	listeners := append(([]func(Config))(nil), s.listeners...)
	s.mu.RUnlock()
	cfg := s.Config()
	for _, fn := range listeners {
		fn(cfg)
	}
}

// Reload discards unsaved changes and reads everything from disk again.
func (s *Store) Reload() error {
	if err := s.reload(); err != nil {
		return err
	}
	s.notify()
	return nil
}

func (s *Store) reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.configChanged = false
	s.valuesChanged = false
	s.modCount++

	if _, err := os.Stat(s.Path()); os.IsNotExist(err) {
		if err := s.writeConfig(Default()); err != nil {
			return err
		}
		s.logger.Info("Created default configuration", "path", s.Path())
	}

	data, err := os.ReadFile(s.Path())
	if err != nil {
		return errors.Wrap(err, "read configuration")
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrapf(err, "parse %s", s.Path())
	}
	s.cfg = cfg
	s.lastUpdate = s.loadLastUpdate()
	return nil
}

func (s *Store) loadLastUpdate() int64 {
	path := filepath.Join(s.dir, LastUpdateFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("Cannot read last update file", "path", path, "error", err)
		}
		return 0
	}
	v, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		s.logger.Warn("Cannot parse last update file as a number", "path", path)
		return 0
	}
	return v
}

// Config returns a copy of the current configuration.
func (s *Store) Config() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg := *s.cfg
	cfg.Global.SuppressedReports = append([]string(nil), s.cfg.Global.SuppressedReports...)
	return cfg
}

func (s *Store) Debug() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Global.Debug
}

func (s *Store) SetDebug(debug bool) {
	s.mu.Lock()
	s.cfg.Global.Debug = debug
	s.configChanged = true
	s.modCount++
	s.mu.Unlock()
	s.notify()
}

func (s *Store) DetailedError() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Global.DetailedError
}

func (s *Store) SuppressedReports() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.cfg.Global.SuppressedReports...)
}

// AutoDelay never returns less than DefaultUpdaterDelay.
func (s *Store) AutoDelay() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return time.Duration(max(s.cfg.Global.AutoUpdater.Delay, DefaultUpdaterDelay)) * time.Second
}

func (s *Store) AutoLastTime() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdate
}

// MarkUpdateCheck records now as the last update check when notifications
// are enabled and AutoDelay has passed since the previous one.
func (s *Store) MarkUpdateCheck(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	updater := s.cfg.Global.AutoUpdater
	delay := max(updater.Delay, DefaultUpdaterDelay)
	if !updater.Notify || now.Unix()-s.lastUpdate < delay {
		return false
	}
	s.lastUpdate = now.Unix()
	s.valuesChanged = true
	return true
}

// ModCount changes whenever the configuration is modified or reloaded.
func (s *Store) ModCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modCount
}

// SaveAll writes the parts that changed since the last load or save.
func (s *Store) SaveAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.valuesChanged {
		if err := os.MkdirAll(s.dir, 0o755); err != nil {
			return errors.Wrap(err, "create data directory")
		}
		path := filepath.Join(s.dir, LastUpdateFile)
		if err := os.WriteFile(path, []byte(strconv.FormatInt(s.lastUpdate, 10)), 0o644); err != nil {
			return errors.Wrapf(err, "write %s", path)
		}
	}
	if s.configChanged {
		if err := s.writeConfig(s.cfg); err != nil {
			return err
		}
	}
	s.valuesChanged = false
	s.configChanged = false
	return nil
}

func (s *Store) writeConfig(cfg *Config) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.Wrap(err, "create data directory")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "encode configuration")
	}
	if err := os.WriteFile(s.Path(), data, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", s.Path())
	}
	return nil
}
