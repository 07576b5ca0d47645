package patina

import "time"

// MetricsProvider allows integration with metrics systems like Prometheus, StatsD, etc.
// Implement this interface to receive callbacks on key manager and reactor events.
type MetricsProvider interface {
	// OnStateChange is called when the manager transitions between clean and dirty.
	OnStateChange(from, to State)

	// OnDraftChange is called when a draft setter accepts a value.
	OnDraftChange()

	// OnCommitSuccess is called when a commit or reset reaches the store.
	// Duration is the time taken to serialize and save.
	OnCommitSuccess(duration time.Duration)

	// OnCommitFailure is called when a commit or reset fails.
	// Stage indicates where the failure occurred: "marshal" or "save".
	OnCommitFailure(stage string, duration time.Duration)

	// OnApplySuccess is called when the reactor applies style variables.
	OnApplySuccess(duration time.Duration)

	// OnApplyFailure is called when the applier pipeline fails.
	OnApplyFailure(duration time.Duration)
}

// NoOpMetricsProvider is a no-op implementation of MetricsProvider.
// Use this as an embedded type to implement only the methods you need.
type NoOpMetricsProvider struct{}

func (NoOpMetricsProvider) OnStateChange(_, _ State)                   {}
func (NoOpMetricsProvider) OnDraftChange()                             {}
func (NoOpMetricsProvider) OnCommitSuccess(_ time.Duration)            {}
func (NoOpMetricsProvider) OnCommitFailure(_ string, _ time.Duration)  {}
func (NoOpMetricsProvider) OnApplySuccess(_ time.Duration)             {}
func (NoOpMetricsProvider) OnApplyFailure(_ time.Duration)             {}
