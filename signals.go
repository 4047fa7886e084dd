package toggle

import "github.com/zoobzio/capitan"

// Registry signals.
var (
	// RegistryFlagChanged is emitted when a flag is defined, removed, or flips value.
	RegistryFlagChanged = capitan.NewSignal(
		"toggle.registry.flag.changed",
		"Flag value changed",
	)

	// RegistryFlagMissed is emitted when a lookup names a flag the registry does not hold.
	RegistryFlagMissed = capitan.NewSignal(
		"toggle.registry.flag.missed",
		"Flag lookup missed",
	)

	// RegistryObserverAdded is emitted when an observer registers for a key.
	RegistryObserverAdded = capitan.NewSignal(
		"toggle.registry.observer.added",
		"Observer registered",
	)

	// RegistryObserverRemoved is emitted when an observer deregisters from a key.
	RegistryObserverRemoved = capitan.NewSignal(
		"toggle.registry.observer.removed",
		"Observer deregistered",
	)
)

// FlagWatcher signals.
var (
	// WatcherBound is emitted when a FlagWatcher subscribes to a key.
	WatcherBound = capitan.NewSignal(
		"toggle.watcher.bound",
		"Watcher subscribed to flag",
	)

	// WatcherUnbound is emitted when a FlagWatcher releases its subscription.
	WatcherUnbound = capitan.NewSignal(
		"toggle.watcher.unbound",
		"Watcher released flag",
	)

	// WatcherNotified is emitted when a FlagWatcher forwards a change to its consumer.
	WatcherNotified = capitan.NewSignal(
		"toggle.watcher.notified",
		"Watcher forwarded change",
	)
)

// Loader lifecycle signals.
var (
	// LoaderStarted is emitted when a Loader begins watching its source.
	LoaderStarted = capitan.NewSignal(
		"toggle.loader.started",
		"Loader watching started",
	)

	// LoaderStopped is emitted when a Loader stops watching.
	LoaderStopped = capitan.NewSignal(
		"toggle.loader.stopped",
		"Loader watching stopped",
	)

	// LoaderStateChanged is emitted when a Loader transitions between states.
	LoaderStateChanged = capitan.NewSignal(
		"toggle.loader.state.changed",
		"Loader state transition",
	)
)

// Loader change processing signals.
var (
	// LoaderChangeReceived is emitted when raw data arrives from the source.
	LoaderChangeReceived = capitan.NewSignal(
		"toggle.loader.change.received",
		"Raw flag document received from source",
	)

	// LoaderDecodeFailed is emitted when a flag document cannot be decoded.
	LoaderDecodeFailed = capitan.NewSignal(
		"toggle.loader.decode.failed",
		"Flag document decode failed",
	)

	// LoaderValidationFailed is emitted when a flag document fails validation.
	LoaderValidationFailed = capitan.NewSignal(
		"toggle.loader.validation.failed",
		"Flag document validation failed",
	)

	// LoaderApplyFailed is emitted when the registry rejects a flag set.
	LoaderApplyFailed = capitan.NewSignal(
		"toggle.loader.apply.failed",
		"Flag set rejected by registry",
	)

	// LoaderApplySucceeded is emitted when a flag set is applied to the registry.
	LoaderApplySucceeded = capitan.NewSignal(
		"toggle.loader.apply.succeeded",
		"Flag set applied",
	)
)
