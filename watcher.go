package toggle

import (
	"context"
	"fmt"
	"sync"

	"github.com/zoobzio/capitan"
)

// FlagService is the registry a FlagWatcher reads from and subscribes to.
// *Registry satisfies it.
type FlagService interface {
	// IsEnabled reports the current value of the named flag. The name is
	// passed through exactly as the consumer supplied it.
	IsEnabled(name string) (bool, error)

	// AddObserver registers o for changes to key. Duplicate registrations
	// are the service's concern.
	AddObserver(key string, o Observer)

	// RemoveObserver deregisters o from key. Removing an absent
	// registration must be a no-op.
	RemoveObserver(key string, o Observer)
}

// Normalizer is implemented by services that define their own key format.
type Normalizer interface {
	Normalize(name string) string
}

// watcherConfig holds configuration options for a FlagWatcher.
type watcherConfig struct {
	normalize func(string) string
}

// WatcherOption configures a FlagWatcher.
type WatcherOption func(*watcherConfig)

// WithNormalizer sets the function used to turn flag names into observer keys.
// It must agree with the key format of the FlagService.
func WithNormalizer(fn func(string) string) WatcherOption {
	return func(c *watcherConfig) {
		c.normalize = fn
	}
}

// FlagWatcher binds a single named flag to a consumer.
//
// Each call to Evaluate returns the flag's current value and makes sure the
// watcher is subscribed to that flag, and only that flag. When the service
// reports a change the consumer's onChange callback runs; the consumer is
// expected to call Evaluate again to read the new value. The watcher caches
// nothing but the key it is subscribed to.
//
// Close releases the subscription and must be called when the consumer is
// torn down.
type FlagWatcher struct {
	service   FlagService
	onChange  func()
	normalize func(string) string

	mu          sync.Mutex
	observedKey string
	bound       bool
}

// NewFlagWatcher creates an unbound FlagWatcher.
//
// Keys are normalized with, in order of preference: the WithNormalizer
// option, the service's own Normalize method, or Camelize.
func NewFlagWatcher(service FlagService, onChange func(), opts ...WatcherOption) *FlagWatcher {
	cfg := &watcherConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	normalize := cfg.normalize
	if normalize == nil {
		if n, ok := service.(Normalizer); ok {
			normalize = n.Normalize
		} else {
			normalize = Camelize
		}
	}

	if onChange == nil {
		onChange = func() {}
	}

	return &FlagWatcher{
		service:   service,
		onChange:  onChange,
		normalize: normalize,
	}
}

// Evaluate returns the current value of the named flag and subscribes the
// watcher to it, dropping any subscription to a different flag first.
//
// Evaluating the same flag repeatedly leaves the subscription untouched.
// Errors from the service, such as ErrUnknownFlag, are returned unchanged;
// the subscription is kept so the consumer hears about the flag once it
// is defined.
func (w *FlagWatcher) Evaluate(ctx context.Context, flagName string) (bool, error) {
	if !validName(flagName) {
		return false, fmt.Errorf("%w: %q", ErrInvalidFlagName, flagName)
	}
	key := w.normalize(flagName)
	if key == "" {
		return false, fmt.Errorf("%w: %q normalizes to an empty key", ErrInvalidFlagName, flagName)
	}

	w.mu.Lock()
	if w.bound && w.observedKey != key {
		w.unbind(ctx)
	}
	if !w.bound {
		w.service.AddObserver(key, w)
		w.observedKey = key
		w.bound = true
		capitan.Emit(ctx, WatcherBound,
			KeyFlag.Field(flagName),
			KeyFlagKey.Field(key),
		)
	}
	w.mu.Unlock()

	return w.service.IsEnabled(flagName)
}

// FlagChanged implements Observer. It forwards the notification to the
// consumer's onChange callback.
func (w *FlagWatcher) FlagChanged(key string) {
	capitan.Emit(context.Background(), WatcherNotified,
		KeyFlagKey.Field(key),
	)
	w.onChange()
}

// ObservedKey returns the key the watcher is subscribed to, and false when
// it is not subscribed to anything.
func (w *FlagWatcher) ObservedKey() (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.observedKey, w.bound
}

// Close releases the watcher's subscription. It is safe to call more than
// once and always returns nil. A closed watcher may be evaluated again,
// which starts a new subscription.
func (w *FlagWatcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.bound {
		w.unbind(context.Background())
	}
	return nil
}

// unbind drops the current subscription. Must be called with w.mu held.
func (w *FlagWatcher) unbind(ctx context.Context) {
	key := w.observedKey
	w.service.RemoveObserver(key, w)
	w.observedKey = ""
	w.bound = false
	capitan.Emit(ctx, WatcherUnbound,
		KeyFlagKey.Field(key),
	)
}

// Observe creates a FlagWatcher, passes it to fn, and closes it when fn
// returns or panics.
//
//	err := toggle.Observe(registry, rerender, func(w *toggle.FlagWatcher) error {
//	    on, err := w.Evaluate(ctx, "dark-mode")
//	    if err != nil {
//	        return err
//	    }
//	    return render(on)
//	})
func Observe(service FlagService, onChange func(), fn func(*FlagWatcher) error, opts ...WatcherOption) error {
	w := NewFlagWatcher(service, onChange, opts...)
	defer w.Close()
	return fn(w)
}

// MarkDirty returns an onChange callback that signals ch without blocking.
// With a buffered channel of size one, any number of notifications between
// two reads collapse into a single pending mark.
//
//	dirty := make(chan struct{}, 1)
//	w := toggle.NewFlagWatcher(registry, toggle.MarkDirty(dirty))
func MarkDirty(ch chan<- struct{}) func() {
	return func() {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
