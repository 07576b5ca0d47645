package patina

import (
	"context"
	"time"

	"github.com/zoobzio/pipz"
)

// Option configures the save pipeline of a Manager. Save options wrap the
// store write performed by Commit and ResetToDefaults with middleware for
// retry, timeout, and other reliability patterns.
//
// Instance configuration (codec, clock, metrics) is handled via chainable
// methods on the Manager before first use.
type Option func(pipz.Chainable[*SaveRequest]) pipz.Chainable[*SaveRequest]

// buildSavePipeline wraps a terminal with save options.
func buildSavePipeline(terminal pipz.Chainable[*SaveRequest], opts []Option) pipz.Chainable[*SaveRequest] {
	pipeline := terminal
	for _, opt := range opts {
		pipeline = opt(pipeline)
	}
	return pipeline
}

// WithSaveRetry wraps the store write with retry logic.
// Failed writes are retried immediately up to maxAttempts times.
// For exponential backoff between retries, use WithSaveBackoff instead.
func WithSaveRetry(maxAttempts int) Option {
	return func(p pipz.Chainable[*SaveRequest]) pipz.Chainable[*SaveRequest] {
		return pipz.NewRetry("retry", p, maxAttempts)
	}
}

// WithSaveBackoff wraps the store write with exponential backoff retry logic.
// Failed writes are retried with increasing delays: baseDelay, 2*baseDelay,
// 4*baseDelay, and so on.
func WithSaveBackoff(maxAttempts int, baseDelay time.Duration) Option {
	return func(p pipz.Chainable[*SaveRequest]) pipz.Chainable[*SaveRequest] {
		return pipz.NewBackoff("backoff", p, maxAttempts, baseDelay)
	}
}

// WithSaveTimeout wraps the store write with a deadline. If the write takes
// longer than d, the commit fails and both layers are left unchanged.
func WithSaveTimeout(d time.Duration) Option {
	return func(p pipz.Chainable[*SaveRequest]) pipz.Chainable[*SaveRequest] {
		return pipz.NewTimeout("timeout", p, d)
	}
}

// WithSaveMiddleware wraps the store write with a sequence of processors.
// Processors execute in order, with the write last.
func WithSaveMiddleware(processors ...pipz.Chainable[*SaveRequest]) Option {
	return func(p pipz.Chainable[*SaveRequest]) pipz.Chainable[*SaveRequest] {
		all := make([]pipz.Chainable[*SaveRequest], 0, len(processors)+1)
		all = append(all, processors...)
		all = append(all, p)
		return pipz.NewSequence("middleware", all...)
	}
}

// ApplyOption configures the apply pipeline of a Reactor. Apply options wrap
// the applier with middleware for retry, timeout, and fallback.
type ApplyOption func(pipz.Chainable[*ApplyRequest]) pipz.Chainable[*ApplyRequest]

// buildApplyPipeline wraps a terminal with apply options.
func buildApplyPipeline(terminal pipz.Chainable[*ApplyRequest], opts []ApplyOption) pipz.Chainable[*ApplyRequest] {
	pipeline := terminal
	for _, opt := range opts {
		pipeline = opt(pipeline)
	}
	return pipeline
}

// WithApplyRetry wraps the applier with retry logic.
// Failed applications are retried immediately up to maxAttempts times.
func WithApplyRetry(maxAttempts int) ApplyOption {
	return func(p pipz.Chainable[*ApplyRequest]) pipz.Chainable[*ApplyRequest] {
		return pipz.NewRetry("retry", p, maxAttempts)
	}
}

// WithApplyBackoff wraps the applier with exponential backoff retry logic.
func WithApplyBackoff(maxAttempts int, baseDelay time.Duration) ApplyOption {
	return func(p pipz.Chainable[*ApplyRequest]) pipz.Chainable[*ApplyRequest] {
		return pipz.NewBackoff("backoff", p, maxAttempts, baseDelay)
	}
}

// WithApplyTimeout wraps the applier with a deadline.
func WithApplyTimeout(d time.Duration) ApplyOption {
	return func(p pipz.Chainable[*ApplyRequest]) pipz.Chainable[*ApplyRequest] {
		return pipz.NewTimeout("timeout", p, d)
	}
}

// WithApplyFallback wraps the applier with fallback appliers. If the primary
// fails, each fallback is tried in order until one succeeds.
func WithApplyFallback(fallbacks ...Applier) ApplyOption {
	return func(p pipz.Chainable[*ApplyRequest]) pipz.Chainable[*ApplyRequest] {
		all := make([]pipz.Chainable[*ApplyRequest], 0, len(fallbacks)+1)
		all = append(all, p)
		for _, fb := range fallbacks {
			applier := fb
			all = append(all, pipz.Effect("fallback-applier", func(ctx context.Context, req *ApplyRequest) error {
				return applier.Apply(ctx, req.Vars)
			}))
		}
		return pipz.NewFallback("fallback", all...)
	}
}

// WithApplyMiddleware wraps the applier with a sequence of processors.
// Processors execute in order, with the applier last.
//
// Example:
//
//	patina.NewReactor(manager, source, applier,
//	    patina.WithApplyMiddleware(
//	        patina.UseApplyEffect("log", logFn),
//	    ),
//	    patina.WithApplyRetry(3),
//	)
func WithApplyMiddleware(processors ...pipz.Chainable[*ApplyRequest]) ApplyOption {
	return func(p pipz.Chainable[*ApplyRequest]) pipz.Chainable[*ApplyRequest] {
		all := make([]pipz.Chainable[*ApplyRequest], 0, len(processors)+1)
		all = append(all, processors...)
		all = append(all, p)
		return pipz.NewSequence("middleware", all...)
	}
}

// UseApplyTransform creates a processor that transforms the apply request.
// Cannot fail. Use for pure adjustments like injecting extra variables.
func UseApplyTransform(name string, fn func(context.Context, *ApplyRequest) *ApplyRequest) pipz.Chainable[*ApplyRequest] {
	return pipz.Transform(pipz.Name(name), fn)
}

// UseApplyEffect creates a processor that performs a side effect. The
// request passes through unchanged. Use for logging, metrics, or
// notifications that should not affect the applied variables.
func UseApplyEffect(name string, fn func(context.Context, *ApplyRequest) error) pipz.Chainable[*ApplyRequest] {
	return pipz.Effect(pipz.Name(name), fn)
}
