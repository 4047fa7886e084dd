package toggle

import "time"

// Processing stages reported to MetricsProvider.OnApplyFailure.
const (
	StageDecode   = "decode"
	StageValidate = "validate"
	StageApply    = "apply"
)

// MetricsProvider allows integration with metrics systems like Prometheus or StatsD.
// Implement this interface to receive callbacks on key Loader events.
type MetricsProvider interface {
	// OnStateChange is called when the Loader transitions between states.
	OnStateChange(from, to State)

	// OnApplySuccess is called when a document is applied to the registry.
	// Duration covers decode, validation, and apply.
	OnApplySuccess(flags int, duration time.Duration)

	// OnApplyFailure is called when processing fails at any stage.
	// Stage is one of StageDecode, StageValidate, or StageApply.
	OnApplyFailure(stage string, duration time.Duration)

	// OnChangeReceived is called when raw data arrives from the source.
	OnChangeReceived()
}

// NoOpMetricsProvider is a no-op implementation of MetricsProvider.
// Embed it to implement only the methods you need.
type NoOpMetricsProvider struct{}

func (NoOpMetricsProvider) OnStateChange(_, _ State)                 {}
func (NoOpMetricsProvider) OnApplySuccess(_ int, _ time.Duration)    {}
func (NoOpMetricsProvider) OnApplyFailure(_ string, _ time.Duration) {}
func (NoOpMetricsProvider) OnChangeReceived()                        {}
