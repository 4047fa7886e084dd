// Package testing provides test doubles and helpers for code built on toggle.
package testing

import (
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/zoobzio/toggle"
)

// Call is a single subscription call recorded by a RecordingService.
type Call struct {
	Op  string // "add" or "remove"
	Key string
}

// String renders the call as "op:key".
func (c Call) String() string {
	return c.Op + ":" + c.Key
}

// RecordingService is a toggle.FlagService that records subscription calls
// and lets tests fire change notifications by hand. Flag values are looked
// up by the exact name passed to IsEnabled.
type RecordingService struct {
	mu        sync.Mutex
	flags     map[string]bool
	observers map[string][]toggle.Observer
	calls     []Call
}

// NewRecordingService creates a RecordingService holding flags.
func NewRecordingService(flags map[string]bool) *RecordingService {
	s := &RecordingService{
		flags:     make(map[string]bool, len(flags)),
		observers: make(map[string][]toggle.Observer),
	}
	for name, on := range flags {
		s.flags[name] = on
	}
	return s
}

// IsEnabled implements toggle.FlagService.
func (s *RecordingService) IsEnabled(name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	on, ok := s.flags[name]
	if !ok {
		return false, fmt.Errorf("%w: %s", toggle.ErrUnknownFlag, name)
	}
	return on, nil
}

// AddObserver implements toggle.FlagService. Duplicates are ignored.
func (s *RecordingService) AddObserver(key string, o toggle.Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Op: "add", Key: key})
	if !slices.Contains(s.observers[key], o) {
		s.observers[key] = append(s.observers[key], o)
	}
}

// RemoveObserver implements toggle.FlagService.
func (s *RecordingService) RemoveObserver(key string, o toggle.Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Op: "remove", Key: key})
	if i := slices.Index(s.observers[key], o); i >= 0 {
		s.observers[key] = slices.Delete(s.observers[key], i, i+1)
	}
}

// Set changes a flag value without notifying anyone.
func (s *RecordingService) Set(name string, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flags[name] = on
}

// Fire notifies every observer of key.
func (s *RecordingService) Fire(key string) {
	s.mu.Lock()
	observers := slices.Clone(s.observers[key])
	s.mu.Unlock()
	for _, o := range observers {
		o.FlagChanged(key)
	}
}

// Calls returns the recorded subscription calls in order.
func (s *RecordingService) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.calls)
}

// ObserverCount returns the number of observers registered for key.
func (s *RecordingService) ObserverCount(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.observers[key])
}

var _ toggle.FlagService = (*RecordingService)(nil)

// WaitFor polls a condition until it returns true or timeout is reached.
// Returns true if the condition was met, false if timeout occurred.
func WaitFor(t *testing.T, timeout time.Duration, condition func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return condition()
}

// WaitForState waits until the loader reaches the expected state or timeout occurs.
func WaitForState(t *testing.T, l *toggle.Loader, expected toggle.State, timeout time.Duration) bool {
	t.Helper()
	return WaitFor(t, timeout, func() bool {
		return l.State() == expected
	})
}

// RequireState fails the test immediately if the loader is not in the expected state.
func RequireState(t *testing.T, l *toggle.Loader, expected toggle.State) {
	t.Helper()
	if got := l.State(); got != expected {
		t.Fatalf("expected state %s, got %s", expected, got)
	}
}

// RequireFlag fails the test unless the named flag resolves to want.
func RequireFlag(t *testing.T, svc toggle.FlagService, name string, want bool) {
	t.Helper()
	got, err := svc.IsEnabled(name)
	if err != nil {
		t.Fatalf("IsEnabled(%q) error = %v", name, err)
	}
	if got != want {
		t.Fatalf("IsEnabled(%q) = %v, want %v", name, got, want)
	}
}
