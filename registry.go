package toggle

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/zoobzio/capitan"
)

// Observer receives change notifications for a flag key.
//
// Observers are compared with ==, so implementations should be pointer
// types. A notification carries no value; the observer re-reads whatever
// it needs.
type Observer interface {
	FlagChanged(key string)
}

// Kinds of flag change reported on RegistryFlagChanged.
const (
	changeDefined = "defined"
	changeUpdated = "updated"
	changeRemoved = "removed"
)

// registryConfig holds configuration options for a Registry.
type registryConfig struct {
	normalize  func(string) string
	hasDefault bool
	fallback   bool
}

// RegistryOption configures a Registry.
type RegistryOption func(*registryConfig)

// WithDefault makes lookups of unknown flags return enabled instead of
// ErrUnknownFlag.
func WithDefault(enabled bool) RegistryOption {
	return func(c *registryConfig) {
		c.hasDefault = true
		c.fallback = enabled
	}
}

// WithKeyNormalizer replaces Camelize as the registry's key normalization.
func WithKeyNormalizer(fn func(string) string) RegistryOption {
	return func(c *registryConfig) {
		if fn != nil {
			c.normalize = fn
		}
	}
}

// Registry holds named boolean flags and the observers watching them.
//
// Flag names are normalized to keys on every call, so "dark-mode" and
// "dark_mode" address the same flag. Observers are notified synchronously
// on the goroutine that made the change, after the registry lock has been
// released; an observer may therefore call back into the registry.
type Registry struct {
	normalize  func(string) string
	hasDefault bool
	fallback   bool

	mu        sync.Mutex
	flags     map[string]bool
	observers map[string][]Observer
}

// NewRegistry creates an empty Registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	cfg := &registryConfig{
		normalize: Camelize,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Registry{
		normalize:  cfg.normalize,
		hasDefault: cfg.hasDefault,
		fallback:   cfg.fallback,
		flags:      make(map[string]bool),
		observers:  make(map[string][]Observer),
	}
}

// Normalize returns the registry key for a flag name.
func (r *Registry) Normalize(name string) string {
	return r.normalize(name)
}

// IsEnabled reports whether the named flag is enabled.
//
// An unknown flag yields an error wrapping ErrUnknownFlag, or the value set
// with WithDefault.
func (r *Registry) IsEnabled(name string) (bool, error) {
	key, err := r.key(name)
	if err != nil {
		return false, err
	}

	r.mu.Lock()
	enabled, ok := r.flags[key]
	r.mu.Unlock()

	if ok {
		return enabled, nil
	}

	capitan.Emit(context.Background(), RegistryFlagMissed,
		KeyFlag.Field(name),
		KeyFlagKey.Field(key),
	)

	if r.hasDefault {
		return r.fallback, nil
	}
	return false, fmt.Errorf("%w: %s", ErrUnknownFlag, name)
}

// Enable sets the named flag to true.
func (r *Registry) Enable(ctx context.Context, name string) error {
	return r.Set(ctx, name, true)
}

// Disable sets the named flag to false.
func (r *Registry) Disable(ctx context.Context, name string) error {
	return r.Set(ctx, name, false)
}

// Set defines or updates a single flag. Observers of the flag's key are
// notified when the flag is new or its value changed.
func (r *Registry) Set(ctx context.Context, name string, enabled bool) error {
	key, err := r.key(name)
	if err != nil {
		return err
	}

	r.mu.Lock()
	prev, ok := r.flags[key]
	if ok && prev == enabled {
		r.mu.Unlock()
		return nil
	}
	r.flags[key] = enabled
	c := flagChange{
		key:       key,
		enabled:   enabled,
		kind:      changeUpdated,
		observers: slices.Clone(r.observers[key]),
	}
	if !ok {
		c.kind = changeDefined
	}
	r.mu.Unlock()

	r.notify(ctx, []flagChange{c})
	return nil
}

// Setup replaces the entire flag set.
//
// If two names normalize to the same key the registry is left unchanged and
// an error wrapping ErrDuplicateFlag is returned. Otherwise observers are
// notified for every key that was added, removed, or changed value.
func (r *Registry) Setup(ctx context.Context, flags map[string]bool) error {
	next := make(map[string]bool, len(flags))
	origin := make(map[string]string, len(flags))
	for _, name := range slices.Sorted(maps.Keys(flags)) {
		key, err := r.key(name)
		if err != nil {
			return fmt.Errorf("flag %q: %w", name, err)
		}
		if other, dup := origin[key]; dup {
			return fmt.Errorf("%w: %q and %q both normalize to %q", ErrDuplicateFlag, other, name, key)
		}
		origin[key] = name
		next[key] = flags[name]
	}

	r.mu.Lock()
	var changes []flagChange
	for key, enabled := range next {
		prev, ok := r.flags[key]
		switch {
		case !ok:
			changes = append(changes, flagChange{key: key, enabled: enabled, kind: changeDefined})
		case prev != enabled:
			changes = append(changes, flagChange{key: key, enabled: enabled, kind: changeUpdated})
		}
	}
	for key := range r.flags {
		if _, ok := next[key]; !ok {
			changes = append(changes, flagChange{key: key, kind: changeRemoved})
		}
	}
	for i := range changes {
		changes[i].observers = slices.Clone(r.observers[changes[i].key])
	}
	r.flags = next
	r.mu.Unlock()

	slices.SortFunc(changes, func(a, b flagChange) int {
		return cmp.Compare(a.key, b.key)
	})
	r.notify(ctx, changes)
	return nil
}

// Flags returns the keys of all defined flags in sorted order.
func (r *Registry) Flags() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Sorted(maps.Keys(r.flags))
}

// AddObserver registers o for changes to key. Registering the same observer
// for the same key twice has no effect.
func (r *Registry) AddObserver(key string, o Observer) {
	r.mu.Lock()
	list := r.observers[key]
	if slices.Contains(list, o) {
		r.mu.Unlock()
		return
	}
	r.observers[key] = append(list, o)
	count := len(r.observers[key])
	r.mu.Unlock()

	capitan.Emit(context.Background(), RegistryObserverAdded,
		KeyFlagKey.Field(key),
		KeyObservers.Field(count),
	)
}

// RemoveObserver deregisters o from key. Removing an observer that is not
// registered has no effect.
func (r *Registry) RemoveObserver(key string, o Observer) {
	r.mu.Lock()
	list := r.observers[key]
	i := slices.Index(list, o)
	if i < 0 {
		r.mu.Unlock()
		return
	}
	list = slices.Delete(list, i, i+1)
	if len(list) == 0 {
		delete(r.observers, key)
	} else {
		r.observers[key] = list
	}
	count := len(list)
	r.mu.Unlock()

	capitan.Emit(context.Background(), RegistryObserverRemoved,
		KeyFlagKey.Field(key),
		KeyObservers.Field(count),
	)
}

// ObserverCount returns the number of observers registered for key.
func (r *Registry) ObserverCount(key string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.observers[key])
}

// flagChange is a pending notification collected under the lock.
type flagChange struct {
	key       string
	enabled   bool
	kind      string
	observers []Observer
}

// notify emits change signals and calls observers. Must not be called with r.mu held.
func (r *Registry) notify(ctx context.Context, changes []flagChange) {
	for _, c := range changes {
		capitan.Emit(ctx, RegistryFlagChanged,
			KeyFlagKey.Field(c.key),
			KeyEnabled.Field(c.enabled),
			KeyChange.Field(c.kind),
			KeyObservers.Field(len(c.observers)),
		)
		for _, o := range c.observers {
			o.FlagChanged(c.key)
		}
	}
}

// key validates name and returns its normalized form.
func (r *Registry) key(name string) (string, error) {
	if !validName(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidFlagName, name)
	}
	key := r.normalize(name)
	if key == "" {
		return "", fmt.Errorf("%w: %q normalizes to an empty key", ErrInvalidFlagName, name)
	}
	return key, nil
}
