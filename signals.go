package patina

import "github.com/zoobzio/capitan"

// Manager lifecycle signals.
var (
	// ManagerLoaded is emitted when the persisted layer is initialized
	// from the store.
	ManagerLoaded = capitan.NewSignal(
		"patina.manager.loaded",
		"Persisted configuration loaded",
	)

	// ManagerLoadFallback is emitted when the stored blob is absent,
	// unreadable, or invalid and the factory defaults are used instead.
	ManagerLoadFallback = capitan.NewSignal(
		"patina.manager.load.fallback",
		"Stored configuration unusable, falling back to defaults",
	)

	// ManagerStateChanged is emitted when the manager transitions between
	// clean and dirty.
	ManagerStateChanged = capitan.NewSignal(
		"patina.manager.state.changed",
		"Manager state transition",
	)
)

// Draft and commit signals.
var (
	// DraftChanged is emitted when a draft setter accepts a value.
	DraftChanged = capitan.NewSignal(
		"patina.draft.changed",
		"Draft field set",
	)

	// DraftRejected is emitted when a draft setter rejects a value.
	DraftRejected = capitan.NewSignal(
		"patina.draft.rejected",
		"Draft field rejected by validation",
	)

	// DraftDiscarded is emitted when the draft layer is cleared without
	// being persisted.
	DraftDiscarded = capitan.NewSignal(
		"patina.draft.discarded",
		"Draft discarded",
	)

	// CommitSucceeded is emitted when the effective configuration is
	// promoted into the persisted layer and the store.
	CommitSucceeded = capitan.NewSignal(
		"patina.commit.succeeded",
		"Draft committed",
	)

	// CommitFailed is emitted when a commit or reset fails to reach the
	// store. Both layers are left unchanged.
	CommitFailed = capitan.NewSignal(
		"patina.commit.failed",
		"Commit failed, layers unchanged",
	)

	// ResetApplied is emitted when the factory defaults are restored.
	ResetApplied = capitan.NewSignal(
		"patina.reset.applied",
		"Factory defaults restored",
	)
)

// Reactor signals.
var (
	// ReactorStarted is emitted when a Reactor begins watching its inputs.
	ReactorStarted = capitan.NewSignal(
		"patina.reactor.started",
		"Reactor watching started",
	)

	// ReactorStopped is emitted when a Reactor stops watching.
	ReactorStopped = capitan.NewSignal(
		"patina.reactor.stopped",
		"Reactor watching stopped",
	)

	// ApplySucceeded is emitted when style variables are applied to the
	// rendering environment.
	ApplySucceeded = capitan.NewSignal(
		"patina.apply.succeeded",
		"Style variables applied",
	)

	// ApplyFailed is emitted when the applier pipeline fails.
	ApplyFailed = capitan.NewSignal(
		"patina.apply.failed",
		"Style variable application failed",
	)
)
