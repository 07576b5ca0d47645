// Package patina manages a layered appearance configuration: a persisted
// baseline plus an in-memory draft overlay, with atomic commit and reset.
//
// # Layers
//
// The Manager owns two layers. The persisted layer is the last configuration
// known to be durably saved; it is initialized from a Store at startup and
// replaced wholesale by a successful Commit or ResetToDefaults. The draft
// layer is a per-field overlay holding unsaved edits. The effective
// configuration is derived on every read:
//
//	Defaults → (bootstrap) Persisted → Merge(Persisted, Draft) → Effective
//
// Draft setters write only to the draft layer, so edits are previewable and
// discardable. Commit promotes the effective configuration into the
// persisted layer and the store as one atomic step: a store failure leaves
// both layers exactly as they were.
//
// # State Machine
//
// A Manager is in one of two states:
//
//   - Clean: draft empty, no unsaved changes
//   - Dirty: at least one draft field set
//
// Any setter moves Clean → Dirty. Commit, Discard, and ResetToDefaults move
// Dirty → Clean. A failed Commit leaves the manager Dirty; there is no
// intermediate state visible to callers.
//
// # Stores
//
// The Store interface abstracts the persistence backend. The core package
// provides MemoryStore for testing. Backend adapters live in subpackages:
//
//   - file: atomic file writes, fsnotify change watching
//   - consul: Consul KV
//   - etcd: etcd key
//   - nats: NATS JetStream KV
//   - zookeeper: ZooKeeper node
//   - redis: Redis key
//   - postgres: PostgreSQL row
//   - firestore: Firestore document
//
// # Reactor
//
// The Reactor keeps a rendering environment in sync: whenever the effective
// configuration or the externally-owned display-mode signal changes, it
// recomputes style variables via Vars and re-applies them through an
// Applier, debounced and with optional retry/timeout/fallback middleware.
//
// # Example
//
//	manager := patina.New(
//	    file.New("/var/lib/app/appearance.json"),
//	    patina.WithSaveRetry(3),
//	)
//	manager.Load(ctx)
//
//	reactor := patina.NewReactor(manager, patina.StaticMode(patina.ModeDark), applier)
//	if err := reactor.Start(ctx); err != nil {
//	    log.Printf("initial apply failed: %v", err)
//	}
//
//	manager.SetColorScheme(patina.SchemeBlue) // draft only, reactor re-applies
//	if err := manager.Commit(ctx); err != nil {
//	    log.Printf("save failed: %v", err) // layers unchanged
//	}
package patina
