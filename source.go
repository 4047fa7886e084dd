package toggle

import "context"

// Source observes a flag document and emits its raw bytes on a channel.
// Implementations must emit the current document as soon as Watch is called
// so a Loader can perform its initial load.
type Source interface {
	// Watch begins observing the document and returns a channel that emits
	// its bytes whenever it changes. The channel is closed when the context
	// is canceled or the source can no longer be observed.
	Watch(ctx context.Context) (<-chan []byte, error)
}
