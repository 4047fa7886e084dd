package toggle

import (
	"context"
	"testing"
	"time"
)

func TestChannelSource_ForwardsInOrder(t *testing.T) {
	in := make(chan []byte, 3)
	for _, doc := range []string{"a", "b", "c"} {
		in <- []byte(doc)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	out, err := NewChannelSource(in).Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	for _, want := range []string{"a", "b", "c"} {
		select {
		case got := <-out:
			if string(got) != want {
				t.Errorf("expected %q, got %q", want, got)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("timeout waiting for %q", want)
		}
	}
}

func TestChannelSource_ClosesWithInput(t *testing.T) {
	in := make(chan []byte)
	close(in)

	out, err := NewChannelSource(in).Watch(context.Background())
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	select {
	case _, ok := <-out:
		if ok {
			t.Error("expected closed channel")
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("timeout waiting for close")
	}
}

func TestChannelSource_ClosesOnCancel(t *testing.T) {
	in := make(chan []byte)
	ctx, cancel := context.WithCancel(context.Background())

	out, err := NewChannelSource(in).Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	cancel()

	select {
	case _, ok := <-out:
		if ok {
			t.Error("expected closed channel")
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("timeout waiting for close")
	}
}

func TestChannelSource_CancelWhileBlockedOnSend(t *testing.T) {
	in := make(chan []byte)
	ctx, cancel := context.WithCancel(context.Background())

	out, err := NewChannelSource(in).Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	go func() { in <- []byte("stuck") }()
	time.Sleep(20 * time.Millisecond)
	cancel()

	deadline := time.After(100 * time.Millisecond)
	for {
		select {
		case _, ok := <-out:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel did not close after cancel")
		}
	}
}

func TestSyncChannelSource_ReturnsInput(t *testing.T) {
	in := make(chan []byte, 1)
	in <- []byte("direct")

	out, err := NewSyncChannelSource(in).Watch(context.Background())
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	if got := <-out; string(got) != "direct" {
		t.Errorf("expected %q, got %q", "direct", got)
	}
}
