package toggle

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFlagFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func receive(t *testing.T, ch <-chan []byte) string {
	t.Helper()
	select {
	case data, ok := <-ch:
		if !ok {
			t.Fatal("channel closed")
		}
		return string(data)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for file contents")
	}
	return ""
}

func TestFileSource_EmitsInitialContents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flags.yaml")
	writeFlagFile(t, path, "flags: []\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out, err := NewFileSource(path).Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	if got := receive(t, out); got != "flags: []\n" {
		t.Errorf("unexpected contents %q", got)
	}
}

func TestFileSource_EmitsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flags.yaml")
	writeFlagFile(t, path, "v1")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out, err := NewFileSource(path).Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	receive(t, out)

	writeFlagFile(t, path, "v2")

	deadline := time.After(2 * time.Second)
	for {
		select {
		case data := <-out:
			if string(data) == "v2" {
				return
			}
		case <-deadline:
			t.Fatal("timeout waiting for updated contents")
		}
	}
}

func TestFileSource_EmitsOnRenameReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flags.yaml")
	writeFlagFile(t, path, "v1")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out, err := NewFileSource(path).Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	receive(t, out)

	tmp := filepath.Join(dir, "flags.yaml.tmp")
	writeFlagFile(t, tmp, "v2")
	if err := os.Rename(tmp, path); err != nil {
		t.Fatalf("rename failed: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case data := <-out:
			if string(data) == "v2" {
				return
			}
		case <-deadline:
			t.Fatal("timeout waiting for replaced contents")
		}
	}
}

func TestFileSource_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flags.yaml")
	writeFlagFile(t, path, "v1")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out, err := NewFileSource(path).Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	receive(t, out)

	writeFlagFile(t, filepath.Join(dir, "other.yaml"), "noise")

	select {
	case data := <-out:
		t.Errorf("unexpected emission %q", data)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestFileSource_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.yaml")

	if _, err := NewFileSource(path).Watch(context.Background()); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFileSource_ClosesOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flags.yaml")
	writeFlagFile(t, path, "v1")

	ctx, cancel := context.WithCancel(context.Background())
	out, err := NewFileSource(path).Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	receive(t, out)
	cancel()

	select {
	case _, ok := <-out:
		if ok {
			t.Error("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Error("timeout waiting for close")
	}
}

func TestLoader_WithFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flags.yaml")
	writeFlagFile(t, path, "flags:\n  - name: dark-mode\n    enabled: false\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := NewRegistry()
	dirty := make(chan struct{}, 1)
	w := NewFlagWatcher(r, MarkDirty(dirty))
	defer w.Close()

	l := NewLoader(NewFileSource(path), r, WithDebounce(10*time.Millisecond))
	if err := l.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if on, err := w.Evaluate(ctx, "dark-mode"); err != nil || on {
		t.Fatalf("expected false, nil; got %v, %v", on, err)
	}

	writeFlagFile(t, path, "flags:\n  - name: dark-mode\n    enabled: true\n")

	select {
	case <-dirty:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for change notification")
	}
	if on, err := w.Evaluate(ctx, "dark-mode"); err != nil || !on {
		t.Errorf("expected true, nil; got %v, %v", on, err)
	}
}
