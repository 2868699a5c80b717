package settings

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/52North/SOS-sub013/internal/observability"
)

// State is the lifecycle state of a Service.
type State int32

const (
	// StateUnconfigured is the state before Start.
	StateUnconfigured State = iota

	// StateDefinitionsLoaded is the state after a successful Start.
	StateDefinitionsLoaded
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateUnconfigured:
		return "unconfigured"
	case StateDefinitionsLoaded:
		return "definitions-loaded"
	default:
		return "unknown"
	}
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(logger observability.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics records changes in m.
func WithMetrics(m *Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithProviders adds definition providers.
func WithProviders(providers ...Provider) Option {
	return func(s *Service) {
		s.providers = append(s.providers, providers...)
	}
}

// WithGroups adds definition groups.
func WithGroups(groups ...Group) Option {
	return func(s *Service) {
		s.groups = append(s.groups, groups...)
	}
}

// Service manages setting definitions, their current values and the
// components bound to them.
//
// Listener callbacks run while the service holds internal locks and must
// not call back into the service.
type Service struct {
	store     Store
	providers []Provider
	groups    []Group
	logger    observability.Logger
	metrics   *Metrics

	state atomic.Int32

	// mu guards definitions, values and listeners. Registration takes the
	// write lock, notification the read lock.
	mu          sync.RWMutex
	definitions map[string]Definition
	order       []string
	values      map[string]any
	listeners   map[string][]*listener

	// changeMu serialises changes, deletions, refreshes and the initial
	// configuration of components.
	changeMu sync.Mutex
}

type listener struct {
	owner   string
	binding Binding
}

// NewService creates a service reading and writing values in store.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:       store,
		logger:      observability.NopLogger(),
		definitions: make(map[string]Definition),
		values:      make(map[string]any),
		listeners:   make(map[string][]*listener),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the lifecycle state.
func (s *Service) State() State {
	return State(s.state.Load())
}

// Start collects the definitions of all providers and loads the stored
// values. Duplicate keys keep the first definition. Required settings
// without stored value and default are reported but do not fail Start;
// configuring a component with them does.
func (s *Service) Start(ctx context.Context) error {
	s.changeMu.Lock()
	defer s.changeMu.Unlock()

	if s.State() == StateDefinitionsLoaded {
		return nil
	}

	definitions := make(map[string]Definition)
	var order []string
	for _, p := range s.providers {
		for _, def := range p.Definitions() {
			if def.Key == "" || !def.Type.Valid() {
				return fmt.Errorf("%w: definition %q has type %q", ErrTypeMismatch, def.Key, def.Type)
			}
			if _, dup := definitions[def.Key]; dup {
				s.logger.Warn("duplicate setting definition ignored",
					observability.String("key", def.Key),
				)
				continue
			}
			if def.Default != nil {
				if err := Validate(def, def.Default); err != nil {
					return fmt.Errorf("invalid default: %w", err)
				}
			}
			definitions[def.Key] = def
			order = append(order, def.Key)
		}
	}

	stored, err := s.store.GetSettingValues(ctx)
	if err != nil {
		return fmt.Errorf("failed to load setting values: %w", err)
	}

	values := make(map[string]any, len(definitions))
	for _, key := range order {
		def := definitions[key]
		v := s.resolve(def, stored)
		if v == nil && !def.Optional {
			s.logger.Warn("required setting has no value",
				observability.String("key", key),
			)
		}
		values[key] = v
	}
	for key := range stored {
		if _, ok := definitions[key]; !ok {
			s.logger.Debug("stored value without definition",
				observability.String("key", key),
			)
		}
	}

	s.mu.Lock()
	s.definitions = definitions
	s.order = order
	s.values = values
	s.mu.Unlock()

	s.state.Store(int32(StateDefinitionsLoaded))
	s.logger.Info("settings loaded",
		observability.Int("definitions", len(definitions)),
		observability.Int("stored", len(stored)),
	)
	return nil
}

// resolve returns the stored value of def, or its default when nothing
// valid is stored.
func (s *Service) resolve(def Definition, stored map[string]string) any {
	str, ok := stored[def.Key]
	if !ok {
		return def.Default
	}
	v, err := ParseValue(def, str)
	if err != nil {
		s.logger.Warn("ignoring invalid stored setting value",
			observability.String("key", def.Key),
			observability.Error(err),
		)
		return def.Default
	}
	if v.Raw == nil {
		return def.Default
	}
	return v.Raw
}

// Registration is the set of bindings registered by one Configure call.
// Close it to stop receiving changes.
type Registration struct {
	service   *Service
	owner     string
	listeners []*listener
	once      sync.Once
}

// Owner returns the name passed to Configure.
func (r *Registration) Owner() string {
	return r.owner
}

// Close unregisters the bindings. It is safe to call more than once.
func (r *Registration) Close() error {
	r.once.Do(func() {
		r.service.unregister(r)
	})
	return nil
}

// Configure registers the bindings of owner and calls each of them with the
// current value of its setting. Every key must be defined and every
// binding must accept the setting's type. If a callback fails, all
// bindings of the call are unregistered and the error is returned.
func (s *Service) Configure(ctx context.Context, owner string, bindings ...Binding) (*Registration, error) {
	if s.State() != StateDefinitionsLoaded {
		return nil, ErrNotStarted
	}

	s.changeMu.Lock()
	defer s.changeMu.Unlock()

	reg := &Registration{service: s, owner: owner}
	for _, b := range bindings {
		def, ok := s.Definition(b.key)
		if !ok {
			return nil, s.configurationFailed(owner, b.key, ErrUnknownSetting)
		}
		if !b.Accepts(def.Type) {
			return nil, s.configurationFailed(owner, b.key,
				fmt.Errorf("%w: callback does not take %s values", ErrTypeMismatch, def.Type))
		}
		reg.listeners = append(reg.listeners, &listener{owner: owner, binding: b})
	}

	s.mu.Lock()
	for _, l := range reg.listeners {
		s.listeners[l.binding.key] = append(s.listeners[l.binding.key], l)
	}
	s.mu.Unlock()

	for _, l := range reg.listeners {
		if err := ctx.Err(); err != nil {
			s.unregister(reg)
			return nil, err
		}
		key := l.binding.key
		def, _ := s.Definition(key)
		value := s.value(key)
		if value == nil {
			if def.Optional {
				continue
			}
			s.unregister(reg)
			return nil, s.configurationFailed(owner, key, ErrMissingValue)
		}
		if err := l.binding.apply(value); err != nil {
			s.unregister(reg)
			return nil, s.configurationFailed(owner, key, err)
		}
	}

	s.logger.Debug("component configured",
		observability.String("owner", owner),
		observability.Int("bindings", len(reg.listeners)),
	)
	return reg, nil
}

func (s *Service) configurationFailed(owner, key string, err error) error {
	s.metrics.recordConfigurationFailure(owner)
	s.logger.Error("failed to configure component",
		observability.String("owner", owner),
		observability.String("key", key),
		observability.Error(err),
	)
	return &ConfigurationError{Key: key, Owner: owner, Cause: err}
}

func (s *Service) unregister(reg *Registration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range reg.listeners {
		key := l.binding.key
		current := s.listeners[key]
		kept := current[:0:0]
		for _, other := range current {
			if other != l {
				kept = append(kept, other)
			}
		}
		if len(kept) == 0 {
			delete(s.listeners, key)
		} else {
			s.listeners[key] = kept
		}
	}
}

// ChangeSetting sets a new value. Setting the current value again is a
// no-op. Otherwise every bound component is notified; if one fails, the
// components already notified get the old value back and the error is
// returned without persisting anything.
func (s *Service) ChangeSetting(ctx context.Context, v Value) error {
	if s.State() != StateDefinitionsLoaded {
		return ErrNotStarted
	}

	s.changeMu.Lock()
	defer s.changeMu.Unlock()

	def, ok := s.Definition(v.Key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSetting, v.Key)
	}
	if v.Type != "" && v.Type != def.Type {
		return fmt.Errorf("%w: %s is %s, got %s", ErrTypeMismatch, def.Key, def.Type, v.Type)
	}
	if err := Validate(def, v.Raw); err != nil {
		s.metrics.recordChange(def.Key, resultRejected)
		return err
	}

	old := s.value(def.Key)
	if Equal(old, v.Raw) {
		s.metrics.recordChange(def.Key, resultUnchanged)
		return nil
	}

	if err := s.notify(def.Key, old, v.Raw); err != nil {
		s.metrics.recordChange(def.Key, resultFailed)
		return err
	}
	if err := s.persist(ctx, def.Key, v.Raw); err != nil {
		s.revertAll(def.Key, old)
		s.metrics.recordChange(def.Key, resultFailed)
		return fmt.Errorf("failed to save setting %s: %w", def.Key, err)
	}

	s.setValue(def.Key, v.Raw)
	s.metrics.recordChange(def.Key, resultChanged)
	s.logger.Info("setting changed",
		observability.String("key", def.Key),
		observability.String("value", FormatValue(v.Raw)),
	)
	return nil
}

// DeleteSetting removes the stored value of key and notifies the bound
// components of the default value.
func (s *Service) DeleteSetting(ctx context.Context, key string) error {
	if s.State() != StateDefinitionsLoaded {
		return ErrNotStarted
	}

	s.changeMu.Lock()
	defer s.changeMu.Unlock()

	def, ok := s.Definition(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSetting, key)
	}

	old := s.value(key)
	changed := !Equal(old, def.Default)
	if changed {
		if def.Default == nil && !def.Optional && s.hasListeners(key) {
			return fmt.Errorf("%w: %s", ErrMissingValue, key)
		}
		if err := s.notify(key, old, def.Default); err != nil {
			s.metrics.recordChange(key, resultFailed)
			return err
		}
	}
	if err := s.store.DeleteSettingValue(ctx, key); err != nil && !errors.Is(err, ErrNotFound) {
		if changed {
			s.revertAll(key, old)
		}
		return fmt.Errorf("failed to delete setting %s: %w", key, err)
	}

	s.setValue(key, def.Default)
	s.metrics.recordChange(key, resultChanged)
	s.logger.Info("setting reset to default",
		observability.String("key", key),
	)
	return nil
}

// Refresh reloads all values from the store and notifies the components of
// every value that changed, e.g. after the store was edited externally.
// Values rejected by a component are kept at their previous value.
func (s *Service) Refresh(ctx context.Context) error {
	if s.State() != StateDefinitionsLoaded {
		return ErrNotStarted
	}

	s.changeMu.Lock()
	defer s.changeMu.Unlock()

	stored, err := s.store.GetSettingValues(ctx)
	if err != nil {
		return fmt.Errorf("failed to load setting values: %w", err)
	}

	s.mu.RLock()
	order := s.order
	s.mu.RUnlock()

	var errs []error
	for _, key := range order {
		def, _ := s.Definition(key)
		next := s.resolve(def, stored)
		old := s.value(key)
		if Equal(old, next) {
			continue
		}
		if err := s.notify(key, old, next); err != nil {
			s.metrics.recordChange(key, resultFailed)
			errs = append(errs, err)
			continue
		}
		s.setValue(key, next)
		s.metrics.recordChange(key, resultChanged)
		s.logger.Info("setting reloaded",
			observability.String("key", key),
		)
	}
	return errors.Join(errs...)
}

// notify calls every listener of key with next. On failure the listeners
// already called are set back to old.
func (s *Service) notify(key string, old, next any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	listeners := s.listeners[key]
	for i, l := range listeners {
		if err := l.binding.apply(next); err != nil {
			s.revert(key, old, listeners[:i])
			return &ConfigurationError{Key: key, Owner: l.owner, Cause: err}
		}
	}
	return nil
}

func (s *Service) revertAll(key string, old any) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.revert(key, old, s.listeners[key])
}

// revert must be called with mu held.
func (s *Service) revert(key string, old any, listeners []*listener) {
	for _, l := range listeners {
		s.metrics.recordRevert(key)
		if err := l.binding.apply(old); err != nil {
			s.logger.Error("failed to revert setting",
				observability.String("key", key),
				observability.String("owner", l.owner),
				observability.Error(err),
			)
		}
	}
}

func (s *Service) persist(ctx context.Context, key string, raw any) error {
	if raw == nil {
		err := s.store.DeleteSettingValue(ctx, key)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	return s.store.SaveSettingValue(ctx, key, FormatValue(raw))
}

func (s *Service) hasListeners(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.listeners[key]) > 0
}

func (s *Service) value(key string) any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key]
}

func (s *Service) setValue(key string, raw any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = raw
}

// Definition returns the definition of key.
func (s *Service) Definition(key string) (Definition, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	def, ok := s.definitions[key]
	return def, ok
}

// GetSetting returns the current value of key.
func (s *Service) GetSetting(key string) (Value, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	def, ok := s.definitions[key]
	if !ok {
		return Value{}, fmt.Errorf("%w: %s", ErrUnknownSetting, key)
	}
	return Value{Key: key, Type: def.Type, Raw: s.values[key]}, nil
}

// GetSettings returns the current values in definition order.
func (s *Service) GetSettings() []Value {
	defs := s.Definitions()
	s.mu.RLock()
	defer s.mu.RUnlock()
	values := make([]Value, len(defs))
	for i, def := range defs {
		values[i] = Value{Key: def.Key, Type: def.Type, Raw: s.values[def.Key]}
	}
	return values
}

// Definitions returns all definitions sorted by group order, definition
// order and key.
func (s *Service) Definitions() []Definition {
	groupOrder := make(map[string]float64, len(s.groups))
	for _, g := range s.groups {
		groupOrder[g.Key] = g.Order
	}

	s.mu.RLock()
	defs := make([]Definition, 0, len(s.order))
	for _, key := range s.order {
		defs = append(defs, s.definitions[key])
	}
	s.mu.RUnlock()

	sort.SliceStable(defs, func(i, j int) bool {
		gi, gj := groupOrder[defs[i].Group], groupOrder[defs[j].Group]
		if gi != gj {
			return gi < gj
		}
		if defs[i].Order != defs[j].Order {
			return defs[i].Order < defs[j].Order
		}
		return defs[i].Key < defs[j].Key
	})
	return defs
}

// Groups returns the groups sorted by order.
func (s *Service) Groups() []Group {
	groups := append([]Group(nil), s.groups...)
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Order < groups[j].Order
	})
	return groups
}
