package patina

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
	"github.com/zoobzio/pipz"
)

// DefaultDebounce is the default debounce duration for re-application.
const DefaultDebounce = 100 * time.Millisecond

// Reactor is the system's one reactive component: whenever the effective
// configuration or the display-mode signal changes, it recomputes the style
// variables and re-applies them through the apply pipeline.
//
// The applier is treated as a pure function of (configuration, dark flag);
// the Reactor keeps no styling state of its own beyond the last applied
// variables exposed for inspection.
type Reactor struct {
	manager        *Manager
	source         ModeSource
	applier        Applier
	pipeline       pipz.Chainable[*ApplyRequest]
	debounce       time.Duration
	startupTimeout time.Duration
	syncMode       bool
	clock          clockz.Clock
	metrics        MetricsProvider
	systemDark     func() bool
	onStop         func()

	mode      atomic.Int32
	lastError atomic.Pointer[error]
	lastVars  atomic.Pointer[StyleVars]

	mu      sync.Mutex
	started bool

	// For sync mode and the watch loop
	modes       <-chan Mode
	changes     chan struct{}
	unsubscribe func()
}

// NewReactor creates a Reactor that keeps applier in sync with the
// manager's effective configuration and the mode source.
//
// Apply options (With*) configure the apply pipeline. Instance configuration
// uses chainable methods before calling Start().
//
// Example:
//
//	reactor := patina.NewReactor(manager, patina.NewFileModeSource(modePath), applier,
//	    patina.WithApplyRetry(3),
//	).Debounce(200 * time.Millisecond)
func NewReactor(
	manager *Manager,
	source ModeSource,
	applier Applier,
	opts ...ApplyOption,
) *Reactor {
	r := &Reactor{
		manager:    manager,
		source:     source,
		applier:    applier,
		debounce:   DefaultDebounce,
		clock:      clockz.RealClock,
		systemDark: func() bool { return false },
	}
	terminal := pipz.Effect(applierID, func(ctx context.Context, req *ApplyRequest) error {
		return r.applier.Apply(ctx, req.Vars)
	})
	r.pipeline = buildApplyPipeline(terminal, opts)
	return r
}

// -----------------------------------------------------------------------------
// Chainable Instance Configuration
// -----------------------------------------------------------------------------

// Debounce sets the debounce duration for re-application.
// Changes arriving within this duration are coalesced into a single apply.
// Default: 100ms. Must be called before Start().
func (r *Reactor) Debounce(d time.Duration) *Reactor {
	r.debounce = d
	return r
}

// SyncMode enables synchronous processing for testing.
// In sync mode, changes are processed via Process() without debouncing
// or async goroutines, making tests deterministic. Must be called before Start().
func (r *Reactor) SyncMode() *Reactor {
	r.syncMode = true
	return r
}

// Clock sets a custom clock for time operations.
// Use this with clockz.FakeClock for deterministic debounce testing.
// Must be called before Start().
func (r *Reactor) Clock(clock clockz.Clock) *Reactor {
	r.clock = clock
	return r
}

// Metrics sets a metrics provider for observability integration.
// The provider receives callbacks on apply success and failure.
// Must be called before Start().
func (r *Reactor) Metrics(provider MetricsProvider) *Reactor {
	r.metrics = provider
	return r
}

// StartupTimeout sets the maximum duration to wait for the initial mode
// value from the source. If the source fails to emit within this duration,
// Start() returns an error.
// Default: no timeout (wait indefinitely). Must be called before Start().
func (r *Reactor) StartupTimeout(d time.Duration) *Reactor {
	r.startupTimeout = d
	return r
}

// SystemDark sets the probe used to resolve ModeSystem to a concrete dark
// flag. Default: always light. Must be called before Start().
func (r *Reactor) SystemDark(probe func() bool) *Reactor {
	r.systemDark = probe
	return r
}

// OnStop sets a callback that is invoked when the reactor stops watching.
// Must be called before Start().
func (r *Reactor) OnStop(fn func()) *Reactor {
	r.onStop = fn
	return r
}

// -----------------------------------------------------------------------------
// Inspection
// -----------------------------------------------------------------------------

// Mode returns the last observed display mode.
func (r *Reactor) Mode() Mode {
	return Mode(r.mode.Load())
}

// LastVars returns the last successfully applied style variables and true,
// or nil and false if nothing has been applied yet.
func (r *Reactor) LastVars() (StyleVars, bool) {
	ptr := r.lastVars.Load()
	if ptr == nil {
		return nil, false
	}
	return *ptr, true
}

// LastError returns the last apply error, or nil if the most recent apply
// succeeded.
func (r *Reactor) LastError() error {
	ptr := r.lastError.Load()
	if ptr == nil {
		return nil
	}
	return *ptr
}

// -----------------------------------------------------------------------------
// Lifecycle
// -----------------------------------------------------------------------------

// Start subscribes to the manager, begins watching the mode source, and
// performs the initial application synchronously. It then continues watching
// asynchronously until ctx is canceled.
//
// If the initial application fails, Start returns the error but continues
// watching for changes that may apply cleanly.
//
// In sync mode, Start only performs the initial application. Use Process()
// to handle subsequent changes deterministically.
//
// Start can only be called once. Subsequent calls return an error.
func (r *Reactor) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return fmt.Errorf("reactor already started")
	}
	r.started = true
	r.mu.Unlock()

	capitan.Emit(ctx, ReactorStarted,
		KeyDebounce.Field(r.debounce),
	)

	r.changes = make(chan struct{}, 1)
	r.unsubscribe = r.manager.Subscribe(func(Appearance) {
		select {
		case r.changes <- struct{}{}:
		default:
		}
	})

	modes, err := r.source.Watch(ctx)
	if err != nil {
		r.unsubscribe()
		return fmt.Errorf("failed to start mode source: %w", err)
	}
	r.modes = modes

	// Wait for the initial mode value
	startupCtx := ctx
	if r.startupTimeout > 0 {
		var cancel context.CancelFunc
		startupCtx, cancel = r.clock.WithTimeout(ctx, r.startupTimeout)
		defer cancel()
	}

	select {
	case <-startupCtx.Done():
		r.unsubscribe()
		if r.startupTimeout > 0 && startupCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("startup timeout: mode source did not emit initial value within %v", r.startupTimeout)
		}
		return startupCtx.Err()
	case mode, ok := <-modes:
		if !ok {
			r.unsubscribe()
			return fmt.Errorf("mode source closed before emitting initial value")
		}
		r.mode.Store(int32(mode))
	}

	initialErr := r.apply(ctx)

	if r.syncMode {
		return initialErr
	}

	go r.watch(ctx)

	return initialErr
}

// Process handles pending changes in sync mode: it drains the mode and
// change channels without blocking and re-applies once if anything changed.
// Returns false if nothing was pending. Only available in sync mode.
func (r *Reactor) Process(ctx context.Context) bool {
	if !r.syncMode {
		return false
	}

	changed := false
	for {
		select {
		case mode, ok := <-r.modes:
			if !ok {
				r.modes = nil
				continue
			}
			r.mode.Store(int32(mode))
			changed = true
			continue
		default:
		}
		break
	}
	select {
	case <-r.changes:
		changed = true
	default:
	}

	if !changed {
		return false
	}
	_ = r.apply(ctx) //nolint:errcheck // Errors stored via lastError
	return true
}

// apply recomputes the style variables and runs them through the pipeline.
func (r *Reactor) apply(ctx context.Context) error {
	start := r.clock.Now()

	eff := r.manager.Effective()
	dark := r.Mode().Resolved(r.systemDark())
	req := &ApplyRequest{Config: eff, Dark: dark, Vars: Vars(eff, dark)}

	processed, err := r.pipeline.Process(ctx, req)
	if err != nil {
		e := err
		r.lastError.Store(&e)
		capitan.Emit(ctx, ApplyFailed,
			KeyError.Field(err.Error()),
		)
		if r.metrics != nil {
			r.metrics.OnApplyFailure(r.clock.Since(start))
		}
		return fmt.Errorf("apply failed: %w", err)
	}

	r.lastVars.Store(&processed.Vars)
	r.lastError.Store(nil)
	mode := "light"
	if dark {
		mode = "dark"
	}
	capitan.Emit(ctx, ApplySucceeded,
		KeyMode.Field(mode),
	)
	if r.metrics != nil {
		r.metrics.OnApplySuccess(r.clock.Since(start))
	}
	return nil
}

// watch coalesces manager and mode changes with debouncing and re-applies.
func (r *Reactor) watch(ctx context.Context) {
	defer func() {
		r.unsubscribe()
		capitan.Emit(ctx, ReactorStopped,
			KeyMode.Field(r.Mode().String()),
		)
		if r.onStop != nil {
			r.onStop()
		}
	}()

	var (
		timer      clockz.Timer
		hasPending bool
	)
	modes := r.modes

	for {
		var timerC <-chan time.Time
		if timer != nil {
			timerC = timer.C()
		}

		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case mode, ok := <-modes:
			if !ok {
				// Source exhausted; keep reacting to manager changes
				modes = nil
				continue
			}
			r.mode.Store(int32(mode))
			hasPending = true
			timer = r.resetTimer(timer)

		case <-r.changes:
			hasPending = true
			timer = r.resetTimer(timer)

		case <-timerC:
			if hasPending {
				_ = r.apply(ctx) //nolint:errcheck // Errors stored via lastError
				hasPending = false
			}
		}
	}
}

// resetTimer starts or restarts the debounce timer.
func (r *Reactor) resetTimer(timer clockz.Timer) clockz.Timer {
	if timer == nil {
		return r.clock.NewTimer(r.debounce)
	}
	if !timer.Stop() {
		select {
		case <-timer.C():
		default:
		}
	}
	timer.Reset(r.debounce)
	return timer
}
