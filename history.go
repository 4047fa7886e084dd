package toggle

import "sync"

// errorRing keeps the most recent processing errors of a Loader.
// A nil *errorRing records nothing.
type errorRing struct {
	mu    sync.Mutex
	slots []error
	next  int
	full  bool
}

// newErrorRing returns a ring holding up to size errors, or nil when size
// is not positive.
func newErrorRing(size int) *errorRing {
	if size <= 0 {
		return nil
	}
	return &errorRing{slots: make([]error, size)}
}

func (r *errorRing) push(err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.slots[r.next] = err
	r.next++
	if r.next == len(r.slots) {
		r.next = 0
		r.full = true
	}
}

// all returns the recorded errors, oldest first.
func (r *errorRing) all() []error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.full {
		if r.next == 0 {
			return nil
		}
		return append([]error(nil), r.slots[:r.next]...)
	}
	out := make([]error, 0, len(r.slots))
	out = append(out, r.slots[r.next:]...)
	return append(out, r.slots[:r.next]...)
}
