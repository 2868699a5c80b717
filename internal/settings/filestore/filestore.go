// Package filestore persists setting values in a YAML file.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/52North/SOS-sub013/internal/config"
	"github.com/52North/SOS-sub013/internal/observability"
	"github.com/52North/SOS-sub013/internal/settings"
)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(logger observability.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithDebounceDelay sets the delay used to coalesce file events in Watch.
func WithDebounceDelay(d time.Duration) Option {
	return func(s *Store) {
		s.debounce = d
	}
}

// Store keeps setting values as a flat YAML mapping of keys to strings.
// The file is rewritten atomically on every change.
type Store struct {
	path     string
	logger   observability.Logger
	debounce time.Duration

	mu      sync.RWMutex
	values  map[string]string
	watcher *config.Watcher[map[string]string]
}

// New opens the store at path. A missing file is an empty store.
func New(path string, opts ...Option) (*Store, error) {
	s := &Store{
		path:     path,
		logger:   observability.NopLogger(),
		debounce: config.DefaultWatchDebounce,
	}
	for _, opt := range opts {
		opt(s)
	}

	values, err := readFile(path)
	if err != nil {
		return nil, err
	}
	s.values = values
	return s, nil
}

func readFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	values := map[string]string{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}
	return values, nil
}

// writeLocked must be called with mu held.
func (s *Store) writeLocked() error {
	data, err := yaml.Marshal(s.values)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}

func (s *Store) update(fn func(map[string]string)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]string, len(s.values)+1)
	for k, v := range s.values {
		next[k] = v
	}
	fn(next)

	prev := s.values
	s.values = next
	if err := s.writeLocked(); err != nil {
		s.values = prev
		return err
	}
	return nil
}

// GetSettingValue implements settings.Store.
func (s *Store) GetSettingValue(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return "", settings.ErrNotFound
	}
	return v, nil
}

// SaveSettingValue implements settings.Store.
func (s *Store) SaveSettingValue(_ context.Context, key, value string) error {
	return s.update(func(m map[string]string) { m[key] = value })
}

// DeleteSettingValue implements settings.Store.
func (s *Store) DeleteSettingValue(_ context.Context, key string) error {
	s.mu.RLock()
	_, ok := s.values[key]
	s.mu.RUnlock()
	if !ok {
		return nil
	}
	return s.update(func(m map[string]string) { delete(m, key) })
}

// GetSettingValues implements settings.Store.
func (s *Store) GetSettingValues(_ context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	values := make(map[string]string, len(s.values))
	for k, v := range s.values {
		values[k] = v
	}
	return values, nil
}

// GetSettingKeys implements settings.Store.
func (s *Store) GetSettingKeys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// DeleteAll implements settings.Store.
func (s *Store) DeleteAll(_ context.Context) error {
	return s.update(func(m map[string]string) { clear(m) })
}

// Watch reloads the file whenever it is changed by another process and
// then calls onChange, typically settings.Service.Refresh. It returns once
// watching has started; the watch ends with ctx or Close.
func (s *Store) Watch(ctx context.Context, onChange func(context.Context) error) error {
	w, err := config.NewWatcher(s.path, readFile, func(values map[string]string) {
		s.mu.Lock()
		s.values = values
		s.mu.Unlock()

		if onChange == nil {
			return
		}
		if err := onChange(ctx); err != nil {
			s.logger.Error("failed to apply reloaded settings",
				observability.String("path", s.path),
				observability.Error(err),
			)
		}
	},
		config.WithLogger(s.logger),
		config.WithDebounceDelay(s.debounce),
	)
	if err != nil {
		return fmt.Errorf("failed to watch settings file: %w", err)
	}
	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("failed to watch settings file: %w", err)
	}

	s.mu.Lock()
	s.watcher = w
	s.mu.Unlock()
	return nil
}

// Close stops watching the file.
func (s *Store) Close() error {
	s.mu.Lock()
	w := s.watcher
	s.watcher = nil
	s.mu.Unlock()

	if w != nil {
		return w.Stop()
	}
	return nil
}
