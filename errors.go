package toggle

import "errors"

var (
	// ErrUnknownFlag is returned by Registry.IsEnabled when no flag is
	// registered under the requested name and no default is configured.
	ErrUnknownFlag = errors.New("unknown flag")

	// ErrInvalidFlagName is returned when an empty flag name is evaluated or set.
	ErrInvalidFlagName = errors.New("invalid flag name")

	// ErrDuplicateFlag is returned when two names in one flag set normalize
	// to the same key.
	ErrDuplicateFlag = errors.New("duplicate flag")

	// ErrEmptyDocument is recorded when a source emits an empty flag document.
	// A document with no flags must still say so, e.g. "flags: []".
	ErrEmptyDocument = errors.New("empty flag document")

	// ErrAlreadyStarted is returned when a Loader is started twice.
	ErrAlreadyStarted = errors.New("loader already started")
)
