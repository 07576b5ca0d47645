package patina

import (
	"context"
	"fmt"
	"sync"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
	"github.com/zoobzio/pipz"
)

// Manager owns the two configuration layers: the persisted baseline and the
// in-memory draft overlay. Draft setters write only to the draft; Commit,
// Discard, and ResetToDefaults move between the layers atomically.
//
// All reads derive the effective configuration on demand via Merge, so every
// mutation is observable downstream without explicit invalidation.
//
// A Manager is safe for concurrent use. Mutations run to completion under an
// internal mutex; Commit and ResetToDefaults hold it across the store write
// so no intermediate layer state is ever observable.
type Manager struct {
	store   Store
	codec   Codec
	clock   clockz.Clock
	metrics MetricsProvider
	save    pipz.Chainable[*SaveRequest]

	mu        sync.Mutex
	persisted Appearance
	draft     Draft
	subs      map[uint64]func(Appearance)
	nextSub   uint64
}

// New creates a Manager backed by the given store.
//
// The persisted layer starts at Defaults(); call Load to initialize it from
// the store. Save options (With*) configure the store-write pipeline used by
// Commit and ResetToDefaults. Instance configuration uses chainable methods
// before first use.
//
// Example:
//
//	manager := patina.New(
//	    file.New("/var/lib/app/appearance.json"),
//	    patina.WithSaveRetry(3),
//	).Codec(patina.JSONCodec{})
func New(store Store, opts ...Option) *Manager {
	m := &Manager{
		store:     store,
		codec:     JSONCodec{},
		clock:     clockz.RealClock,
		persisted: Defaults(),
		subs:      make(map[uint64]func(Appearance)),
	}
	terminal := pipz.Effect(storeSaveID, func(ctx context.Context, req *SaveRequest) error {
		return m.store.Save(ctx, req.Data)
	})
	m.save = buildSavePipeline(terminal, opts)
	return m
}

// -----------------------------------------------------------------------------
// Chainable Instance Configuration
// -----------------------------------------------------------------------------

// Codec sets the codec for the persisted blob.
// Default: JSONCodec. Must be called before Load().
func (m *Manager) Codec(codec Codec) *Manager {
	m.codec = codec
	return m
}

// Clock sets a custom clock for time operations.
// Use this with clockz.FakeClock for deterministic testing.
func (m *Manager) Clock(clock clockz.Clock) *Manager {
	m.clock = clock
	return m
}

// Metrics sets a metrics provider for observability integration.
// The provider receives callbacks on state changes, draft mutations, and
// commit success/failure.
func (m *Manager) Metrics(provider MetricsProvider) *Manager {
	m.metrics = provider
	return m
}

// -----------------------------------------------------------------------------
// Bootstrap
// -----------------------------------------------------------------------------

// Load initializes the persisted layer from the store and returns the
// effective configuration.
//
// An absent, unreadable, or invalid blob falls back to Defaults(); the
// fallback is signalled but never surfaced as an error. A partial blob is
// decoded over Defaults() so missing fields keep their default values.
//
// Load replaces the persisted layer wholesale and leaves the draft layer
// untouched. It is typically called once at startup.
func (m *Manager) Load(ctx context.Context) Appearance {
	cfg := Defaults()

	data, ok, err := m.store.Load(ctx)
	switch {
	case err != nil:
		capitan.Emit(ctx, ManagerLoadFallback, KeyError.Field(err.Error()))
	case !ok:
		capitan.Emit(ctx, ManagerLoadFallback, KeyError.Field("no stored configuration"))
	default:
		if uerr := m.codec.Unmarshal(data, &cfg); uerr != nil {
			cfg = Defaults()
			capitan.Emit(ctx, ManagerLoadFallback, KeyError.Field(uerr.Error()))
		} else if verr := cfg.Validate(); verr != nil {
			cfg = Defaults()
			capitan.Emit(ctx, ManagerLoadFallback, KeyError.Field(verr.Error()))
		}
	}

	m.mu.Lock()
	m.persisted = cfg
	eff := Merge(m.persisted, m.draft)
	subs := m.subscribersLocked()
	m.mu.Unlock()

	capitan.Emit(ctx, ManagerLoaded,
		KeyContentType.Field(m.codec.ContentType()),
		KeyState.Field(m.State().String()),
	)
	notify(subs, eff)
	return eff
}

// -----------------------------------------------------------------------------
// Reads
// -----------------------------------------------------------------------------

// Effective returns the merged configuration: draft fields where set,
// persisted fields otherwise. Recomputed on every call.
func (m *Manager) Effective() Appearance {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Merge(m.persisted, m.draft)
}

// Persisted returns the last durably-saved configuration.
func (m *Manager) Persisted() Appearance {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.persisted
}

// Draft returns a snapshot of the draft overlay. Non-nil fields are the ones
// that differ from the persisted layer, which is what "differs from saved"
// UI affordances render.
func (m *Manager) Draft() Draft {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draft.clone()
}

// HasUnsavedChanges reports whether at least one draft field is set.
func (m *Manager) HasUnsavedChanges() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.draft.Empty()
}

// State returns StateDirty while the draft holds at least one field and
// StateClean otherwise.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stateLocked()
}

func (m *Manager) stateLocked() State {
	if m.draft.Empty() {
		return StateClean
	}
	return StateDirty
}

// -----------------------------------------------------------------------------
// Draft Mutation API
// -----------------------------------------------------------------------------

// SetColorScheme stages a color scheme in the draft layer.
// Returns ErrInvalidValue if the scheme is not a known preset.
func (m *Manager) SetColorScheme(scheme string) error {
	if err := validate.Var(scheme, schemeTag); err != nil {
		return m.reject("colorScheme", fmt.Errorf("%w: color scheme %q", ErrInvalidValue, scheme))
	}
	m.setField("colorScheme", func(d *Draft) {
		d.ColorScheme = &scheme
	})
	return nil
}

// SetRadius stages a radius preset in the draft layer. Selecting a preset
// also deactivates custom-radius mode in the same draft update, so the two
// selections are never observably inconsistent.
// Returns ErrInvalidValue if the preset is unknown.
func (m *Manager) SetRadius(radius string) error {
	if err := validate.Var(radius, radiusTag); err != nil {
		return m.reject("radius", fmt.Errorf("%w: radius %q", ErrInvalidValue, radius))
	}
	m.setField("radius", func(d *Draft) {
		off := false
		d.Radius = &radius
		d.UseCustomRadius = &off
	})
	return nil
}

// SetCustomRadius stages an explicit corner radius in pixels and activates
// custom-radius mode in the same draft update.
// Returns ErrInvalidValue if px is outside [0, MaxCustomRadius].
func (m *Manager) SetCustomRadius(px float64) error {
	if err := validate.Var(px, customRadiusTag); err != nil {
		return m.reject("customRadius", fmt.Errorf("%w: custom radius %v", ErrInvalidValue, px))
	}
	m.setField("customRadius", func(d *Draft) {
		on := true
		d.CustomRadius = &px
		d.UseCustomRadius = &on
	})
	return nil
}

// SetUseCustomRadius stages the custom-radius toggle without touching either
// radius value.
func (m *Manager) SetUseCustomRadius(on bool) {
	m.setField("useCustomRadius", func(d *Draft) {
		d.UseCustomRadius = &on
	})
}

// reject signals a rejected draft value and returns the error unchanged.
func (m *Manager) reject(field string, err error) error {
	capitan.Emit(context.Background(), DraftRejected,
		KeyField.Field(field),
		KeyError.Field(err.Error()),
	)
	return err
}

// setField applies one draft mutation atomically and notifies downstream.
func (m *Manager) setField(field string, mutate func(*Draft)) {
	m.mu.Lock()
	before := m.stateLocked()
	mutate(&m.draft)
	after := m.stateLocked()
	eff := Merge(m.persisted, m.draft)
	subs := m.subscribersLocked()
	m.mu.Unlock()

	capitan.Emit(context.Background(), DraftChanged, KeyField.Field(field))
	if m.metrics != nil {
		m.metrics.OnDraftChange()
	}
	m.transition(context.Background(), before, after)
	notify(subs, eff)
}

// -----------------------------------------------------------------------------
// Commit/Reset Controller
// -----------------------------------------------------------------------------

// Commit promotes the current effective configuration into the persisted
// layer and the store, then clears the draft. The promotion is atomic: on
// any failure both layers are left exactly as they were and the error is
// returned.
func (m *Manager) Commit(ctx context.Context) error {
	m.mu.Lock()
	eff := Merge(m.persisted, m.draft)
	wasDirty := !m.draft.Empty()
	if err := m.persistLocked(ctx, eff); err != nil {
		m.mu.Unlock()
		return err
	}
	m.draft = Draft{}
	subs := m.subscribersLocked()
	m.mu.Unlock()

	capitan.Emit(ctx, CommitSucceeded, KeyContentType.Field(m.codec.ContentType()))
	if wasDirty {
		m.transition(ctx, StateDirty, StateClean)
	}
	notify(subs, eff)
	return nil
}

// ResetToDefaults restores the factory baseline: Defaults() is written to
// the store and the persisted layer, and the draft is cleared, as one
// atomic step. Any draft content is ignored. A store failure leaves both
// layers unchanged and is returned to the caller.
func (m *Manager) ResetToDefaults(ctx context.Context) error {
	def := Defaults()

	m.mu.Lock()
	wasDirty := !m.draft.Empty()
	if err := m.persistLocked(ctx, def); err != nil {
		m.mu.Unlock()
		return err
	}
	m.draft = Draft{}
	subs := m.subscribersLocked()
	m.mu.Unlock()

	capitan.Emit(ctx, ResetApplied)
	if wasDirty {
		m.transition(ctx, StateDirty, StateClean)
	}
	notify(subs, def)
	return nil
}

// Discard clears the draft layer without persisting anything, restoring the
// effective configuration to the persisted baseline. Never fails.
func (m *Manager) Discard() {
	m.mu.Lock()
	wasDirty := !m.draft.Empty()
	m.draft = Draft{}
	eff := m.persisted
	subs := m.subscribersLocked()
	m.mu.Unlock()

	capitan.Emit(context.Background(), DraftDiscarded)
	if wasDirty {
		m.transition(context.Background(), StateDirty, StateClean)
	}
	notify(subs, eff)
}

// persistLocked serializes cfg and writes it through the save pipeline,
// then replaces the persisted layer. Must be called with m.mu held; on
// error the persisted layer is untouched.
func (m *Manager) persistLocked(ctx context.Context, cfg Appearance) error {
	start := m.clock.Now()

	data, err := m.codec.Marshal(cfg)
	if err != nil {
		capitan.Emit(ctx, CommitFailed, KeyError.Field(err.Error()))
		if m.metrics != nil {
			m.metrics.OnCommitFailure("marshal", m.clock.Since(start))
		}
		return fmt.Errorf("marshal failed: %w", err)
	}

	req := &SaveRequest{Data: data, ContentType: m.codec.ContentType()}
	if _, err := m.save.Process(ctx, req); err != nil {
		capitan.Emit(ctx, CommitFailed, KeyError.Field(err.Error()))
		if m.metrics != nil {
			m.metrics.OnCommitFailure("save", m.clock.Since(start))
		}
		return fmt.Errorf("save failed: %w", err)
	}

	m.persisted = cfg
	if m.metrics != nil {
		m.metrics.OnCommitSuccess(m.clock.Since(start))
	}
	return nil
}

// -----------------------------------------------------------------------------
// Subscriptions
// -----------------------------------------------------------------------------

// Subscribe registers fn to be called with the new effective configuration
// after every change: draft mutation, load, commit, discard, and reset.
// The returned function removes the subscription.
//
// Callbacks run synchronously on the mutating goroutine after the mutation
// has completed; they may safely read the Manager.
func (m *Manager) Subscribe(fn func(Appearance)) func() {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// subscribersLocked snapshots the subscriber list. Must be called with
// m.mu held; the snapshot is invoked after unlocking.
func (m *Manager) subscribersLocked() []func(Appearance) {
	if len(m.subs) == 0 {
		return nil
	}
	subs := make([]func(Appearance), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	return subs
}

func notify(subs []func(Appearance), eff Appearance) {
	for _, fn := range subs {
		fn(eff)
	}
}

// transition emits a state change event if the state actually changed.
func (m *Manager) transition(ctx context.Context, from, to State) {
	if from == to {
		return
	}
	capitan.Emit(ctx, ManagerStateChanged,
		KeyOldState.Field(from.String()),
		KeyNewState.Field(to.String()),
	)
	if m.metrics != nil {
		m.metrics.OnStateChange(from, to)
	}
}
