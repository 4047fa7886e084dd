package toggle

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// DefaultDebounce is the default debounce duration for change processing.
const DefaultDebounce = 100 * time.Millisecond

// validate is the shared validator instance.
var validate = validator.New()

// Loader keeps a Registry in step with a flag document.
//
// It watches a Source, decodes each document, validates it, and replaces
// the registry's flag set. A document that fails any step is rejected and
// the registry keeps the last good flag set.
type Loader struct {
	source   Source
	registry *Registry
	debounce time.Duration
	syncMode bool
	clock    clockz.Clock
	codec    Codec
	metrics  MetricsProvider
	history  *errorRing

	state     atomic.Int32
	current   atomic.Pointer[Document]
	lastError atomic.Pointer[error]

	mu      sync.Mutex
	started bool

	// For sync mode: channel to receive changes
	changes <-chan []byte
}

// config holds configuration options for a Loader.
type config struct {
	debounce time.Duration
	syncMode bool
	clock    clockz.Clock
	codec    Codec
	metrics  MetricsProvider
	history  int
}

// Option configures a Loader.
type Option func(*config)

// WithDebounce sets the debounce duration for change processing.
// Changes arriving within this duration are coalesced into a single update.
func WithDebounce(d time.Duration) Option {
	return func(c *config) {
		c.debounce = d
	}
}

// WithSyncMode enables synchronous processing for testing.
// In sync mode, changes are processed only through Process, without
// debouncing or background goroutines.
func WithSyncMode() Option {
	return func(c *config) {
		c.syncMode = true
	}
}

// WithClock sets a custom clock for time operations.
// Use this with clockz.FakeClock for deterministic debounce testing.
func WithClock(clock clockz.Clock) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// WithCodec sets the codec used to decode documents. Defaults to AutoCodec.
func WithCodec(codec Codec) Option {
	return func(c *config) {
		c.codec = codec
	}
}

// WithMetrics registers a MetricsProvider.
func WithMetrics(m MetricsProvider) Option {
	return func(c *config) {
		c.metrics = m
	}
}

// WithErrorHistory keeps the last n processing errors, available via Errors.
func WithErrorHistory(n int) Option {
	return func(c *config) {
		c.history = n
	}
}

// NewLoader creates a Loader that feeds documents from source into registry.
//
//	registry := toggle.NewRegistry()
//	loader := toggle.NewLoader(toggle.NewFileSource("flags.yaml"), registry)
//	if err := loader.Start(ctx); err != nil {
//	    // the registry is empty; the loader keeps watching for a valid file
//	}
func NewLoader(source Source, registry *Registry, opts ...Option) *Loader {
	cfg := &config{
		debounce: DefaultDebounce,
		clock:    clockz.RealClock,
		codec:    AutoCodec{},
		metrics:  NoOpMetricsProvider{},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	l := &Loader{
		source:   source,
		registry: registry,
		debounce: cfg.debounce,
		syncMode: cfg.syncMode,
		clock:    cfg.clock,
		codec:    cfg.codec,
		metrics:  cfg.metrics,
		history:  newErrorRing(cfg.history),
	}
	l.state.Store(int32(StateLoading))

	return l
}

// State returns the current state of the Loader.
func (l *Loader) State() State {
	return State(l.state.Load())
}

// Current returns the last applied document and true, or a zero Document
// and false if nothing has been applied.
func (l *Loader) Current() (Document, bool) {
	ptr := l.current.Load()
	if ptr == nil {
		return Document{}, false
	}
	return *ptr, true
}

// LastError returns the error from the most recent document, or nil if it
// was applied.
func (l *Loader) LastError() error {
	ptr := l.lastError.Load()
	if ptr == nil {
		return nil
	}
	return *ptr
}

// Errors returns recent processing errors, oldest first. It is empty unless
// WithErrorHistory was set.
func (l *Loader) Errors() []error {
	return l.history.all()
}

// Start begins watching the source. It blocks until the first document is
// processed, then continues watching in the background.
//
// If the first document is rejected, Start returns the error but keeps
// watching for a valid one.
//
// In sync mode, Start only processes the first document; call Process for
// each later one.
func (l *Loader) Start(ctx context.Context) error {
	l.mu.Lock()
	if l.started {
		l.mu.Unlock()
		return ErrAlreadyStarted
	}
	l.started = true
	l.mu.Unlock()

	capitan.Emit(ctx, LoaderStarted,
		KeyDebounce.Field(l.debounce),
		KeyContentType.Field(l.codec.ContentType()),
	)

	changes, err := l.source.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to start source: %w", err)
	}

	var initialErr error
	select {
	case <-ctx.Done():
		return ctx.Err()
	case raw, ok := <-changes:
		if !ok {
			return fmt.Errorf("source closed before emitting initial document")
		}
		l.received(ctx)
		initialErr = l.process(ctx, raw)
	}

	if l.syncMode {
		l.changes = changes
		return initialErr
	}

	go l.watch(ctx, changes)

	return initialErr
}

// Process reads and processes the next document from the source.
// It is only available in sync mode and returns false if no document is
// pending or the source is closed.
func (l *Loader) Process(ctx context.Context) bool {
	if !l.syncMode {
		return false
	}

	select {
	case raw, ok := <-l.changes:
		if !ok {
			return false
		}
		l.received(ctx)
		_ = l.process(ctx, raw) //nolint:errcheck // Errors stored via fail
		return true
	default:
		return false
	}
}

func (l *Loader) received(ctx context.Context) {
	capitan.Emit(ctx, LoaderChangeReceived)
	l.metrics.OnChangeReceived()
}

// process decodes, validates, and applies a single document.
func (l *Loader) process(ctx context.Context, raw []byte) error {
	start := l.clock.Now()
	oldState := l.State()

	if len(bytes.TrimSpace(raw)) == 0 {
		l.fail(ctx, oldState, StageDecode, start, ErrEmptyDocument)
		return fmt.Errorf("decode failed: %w", ErrEmptyDocument)
	}

	var doc Document
	if err := l.codec.Unmarshal(raw, &doc); err != nil {
		l.fail(ctx, oldState, StageDecode, start, err)
		return fmt.Errorf("decode failed: %w", err)
	}

	if err := validate.Struct(doc); err != nil {
		l.fail(ctx, oldState, StageValidate, start, err)
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := l.registry.Setup(ctx, doc.Values()); err != nil {
		l.fail(ctx, oldState, StageApply, start, err)
		return fmt.Errorf("apply failed: %w", err)
	}

	l.current.Store(&doc)
	l.lastError.Store(nil)
	l.transitionState(ctx, oldState, StateHealthy)
	l.metrics.OnApplySuccess(len(doc.Flags), l.clock.Now().Sub(start))
	capitan.Emit(ctx, LoaderApplySucceeded,
		KeyFlagCount.Field(len(doc.Flags)),
	)

	return nil
}

// fail records a document rejected at stage.
func (l *Loader) fail(ctx context.Context, oldState State, stage string, start time.Time, err error) {
	e := err
	l.lastError.Store(&e)
	l.history.push(err)
	l.transitionState(ctx, oldState, l.failureState())
	l.metrics.OnApplyFailure(stage, l.clock.Now().Sub(start))

	switch stage {
	case StageDecode:
		capitan.Emit(ctx, LoaderDecodeFailed, KeyError.Field(err.Error()))
	case StageValidate:
		capitan.Emit(ctx, LoaderValidationFailed, KeyError.Field(err.Error()))
	default:
		capitan.Emit(ctx, LoaderApplyFailed, KeyError.Field(err.Error()))
	}
}

// failureState returns the state to enter after a rejected document,
// depending on whether any document has been applied.
func (l *Loader) failureState() State {
	if l.current.Load() == nil {
		return StateEmpty
	}
	return StateDegraded
}

// transitionState updates the state and emits a state change event if changed.
func (l *Loader) transitionState(ctx context.Context, oldState, newState State) {
	if oldState == newState {
		return
	}
	l.state.Store(int32(newState))
	l.metrics.OnStateChange(oldState, newState)
	capitan.Emit(ctx, LoaderStateChanged,
		KeyOldState.Field(oldState.String()),
		KeyNewState.Field(newState.String()),
	)
}

// watch processes changes from the source channel with debouncing.
func (l *Loader) watch(ctx context.Context, changes <-chan []byte) {
	defer func() {
		capitan.Emit(ctx, LoaderStopped,
			KeyState.Field(l.State().String()),
		)
	}()

	var (
		timer      clockz.Timer
		pending    []byte
		hasPending bool
	)

	for {
		var timerC <-chan time.Time
		if timer != nil {
			timerC = timer.C()
		}

		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case raw, ok := <-changes:
			if !ok {
				if hasPending {
					_ = l.process(ctx, pending) //nolint:errcheck // Errors stored via fail
				}
				return
			}

			l.received(ctx)
			pending = raw
			hasPending = true

			if timer == nil {
				timer = l.clock.NewTimer(l.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C():
					default:
					}
				}
				timer.Reset(l.debounce)
			}

		case <-timerC:
			if hasPending {
				_ = l.process(ctx, pending) //nolint:errcheck // Errors stored via fail
				hasPending = false
			}
		}
	}
}
