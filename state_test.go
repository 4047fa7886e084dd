package toggle

import "testing"

func TestState_String(t *testing.T) {
	cases := map[State]string{
		StateLoading:  "loading",
		StateHealthy:  "healthy",
		StateDegraded: "degraded",
		StateEmpty:    "empty",
		State(999):    "unknown",
	}
	for s, want := range cases {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", s, got, want)
		}
	}
}

func TestState_Values(t *testing.T) {
	if StateLoading != 0 {
		t.Errorf("expected StateLoading=0, got %d", StateLoading)
	}
	if StateHealthy != 1 {
		t.Errorf("expected StateHealthy=1, got %d", StateHealthy)
	}
	if StateDegraded != 2 {
		t.Errorf("expected StateDegraded=2, got %d", StateDegraded)
	}
	if StateEmpty != 3 {
		t.Errorf("expected StateEmpty=3, got %d", StateEmpty)
	}
}
