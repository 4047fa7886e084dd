/*
Package toggle provides live feature flags with per-flag change subscriptions.

A Registry holds the current flag set and notifies observers when a flag they
subscribed to changes. A FlagWatcher binds one consumer, such as a rendered
view or a request handler, to exactly one flag: it answers "is this flag on?"
and arranges for the consumer to be told when the answer may have changed.

# Basic Usage

Create a registry and evaluate a flag through a watcher:

	registry := toggle.NewRegistry()
	registry.Enable(ctx, "dark-mode")

	dirty := make(chan struct{}, 1)
	w := toggle.NewFlagWatcher(registry, toggle.MarkDirty(dirty))
	defer w.Close()

	on, err := w.Evaluate(ctx, "dark-mode")

Flag names are normalized into observer keys with Camelize, so "dark-mode",
"dark_mode" and "darkMode" all name the same flag. The watcher re-subscribes
only when the evaluated name maps to a different key.

# Loading Flags

A Loader keeps a Registry in step with a flag document read from a Source:

	loader := toggle.NewLoader(
	    toggle.NewFileSource("/etc/app/flags.yaml"),
	    registry,
	    toggle.WithDebounce(200*time.Millisecond),
	)
	if err := loader.Start(ctx); err != nil {
	    // registry is empty; the loader keeps watching
	}

Documents are JSON or YAML:

	flags:
	  - name: dark-mode
	    enabled: true
	  - name: new-checkout
	    enabled: false

Each document is decoded, validated and applied as a whole. A rejected
document leaves the previous flag set in place and moves the loader to the
degraded state.

# Observability

Registry, FlagWatcher and Loader emit capitan signals for flag changes,
subscriptions and loader state transitions:

	capitan.Hook(toggle.RegistryFlagChanged, func(_ context.Context, e *capitan.Event) {
	    key, _ := toggle.KeyFlagKey.From(e)
	    log.Printf("flag %s changed", key)
	})

Loader metrics can be collected by passing a MetricsProvider with WithMetrics.

# Testing

Use WithSyncMode and NewSyncChannelSource to drive a Loader one document at a
time, and WithClock with a clockz.FakeClock to test debouncing. The
toggle/testing package provides a recording FlagService and wait helpers.
*/
package toggle
