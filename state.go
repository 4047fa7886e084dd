package toggle

// State represents the current state of a Loader.
type State int32

const (
	// StateLoading indicates the Loader has not yet processed a document.
	StateLoading State = iota

	// StateHealthy indicates the last document was applied to the registry.
	StateHealthy

	// StateDegraded indicates the last document was rejected. The flags from
	// the previous good document remain in the registry.
	StateDegraded

	// StateEmpty indicates no document has ever been applied. The Loader
	// keeps watching for a valid one.
	StateEmpty
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateHealthy:
		return "healthy"
	case StateDegraded:
		return "degraded"
	case StateEmpty:
		return "empty"
	default:
		return "unknown"
	}
}
