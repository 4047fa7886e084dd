package toggle

import "github.com/zoobzio/capitan"

// Field keys for toggle events.
var (
	// KeyFlag is the flag name as supplied by the caller.
	KeyFlag = capitan.NewStringKey("flag")

	// KeyFlagKey is the normalized registry key.
	KeyFlagKey = capitan.NewStringKey("flag_key")

	// KeyEnabled is the flag value after a change.
	KeyEnabled = capitan.NewBoolKey("enabled")

	// KeyChange describes what happened to a flag: defined, updated, or removed.
	KeyChange = capitan.NewStringKey("change")

	// KeyObservers is the number of observers registered for a key.
	KeyObservers = capitan.NewIntKey("observers")

	// KeyFlagCount is the number of flags in an applied document.
	KeyFlagCount = capitan.NewIntKey("flag_count")

	// KeyState is the current state of the Loader.
	KeyState = capitan.NewStringKey("state")

	// KeyOldState is the previous state before a transition.
	KeyOldState = capitan.NewStringKey("old_state")

	// KeyNewState is the new state after a transition.
	KeyNewState = capitan.NewStringKey("new_state")

	// KeyError is the error message when an operation fails.
	KeyError = capitan.NewStringKey("error")

	// KeyDebounce is the configured debounce duration.
	KeyDebounce = capitan.NewDurationKey("debounce")

	// KeyContentType is the MIME type of the Loader's codec.
	KeyContentType = capitan.NewStringKey("content_type")
)
