package patina

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

// errStore fails every Load with a fixed error.
type errStore struct {
	err error
}

func (s *errStore) Load(_ context.Context) ([]byte, bool, error) {
	return nil, false, s.err
}

func (s *errStore) Save(_ context.Context, _ []byte) error {
	return s.err
}

// flakyStore fails the first n saves, then behaves like a MemoryStore.
type flakyStore struct {
	MemoryStore
	failures int
}

func (s *flakyStore) Save(ctx context.Context, data []byte) error {
	if s.failures > 0 {
		s.failures--
		return errors.New("store unavailable")
	}
	return s.MemoryStore.Save(ctx, data)
}

func seeded(t *testing.T, blob string) *Manager {
	t.Helper()
	m := New(NewMemoryStoreWith([]byte(blob)))
	m.Load(context.Background())
	return m
}

func TestManager_LoadMissing(t *testing.T) {
	m := New(NewMemoryStore())

	eff := m.Load(context.Background())

	if eff != Defaults() {
		t.Errorf("expected defaults, got %+v", eff)
	}
	if m.HasUnsavedChanges() {
		t.Error("expected no unsaved changes after load")
	}
}

func TestManager_LoadCorrupt(t *testing.T) {
	m := New(NewMemoryStoreWith([]byte(`{not valid json`)))

	eff := m.Load(context.Background())

	if eff != Defaults() {
		t.Errorf("expected defaults for corrupt blob, got %+v", eff)
	}
}

func TestManager_LoadPartial(t *testing.T) {
	m := New(NewMemoryStoreWith([]byte(`{"colorScheme": "rose"}`)))

	eff := m.Load(context.Background())

	if eff.ColorScheme != SchemeRose {
		t.Errorf("expected rose, got %s", eff.ColorScheme)
	}
	// Missing fields are filled from defaults, not rejected
	if eff.Radius != Defaults().Radius {
		t.Errorf("expected default radius, got %s", eff.Radius)
	}
	if eff.CustomRadius != Defaults().CustomRadius {
		t.Errorf("expected default custom radius, got %v", eff.CustomRadius)
	}
}

func TestManager_LoadInvalidValues(t *testing.T) {
	m := New(NewMemoryStoreWith([]byte(`{"colorScheme": "magenta", "radius": "md"}`)))

	eff := m.Load(context.Background())

	if eff != Defaults() {
		t.Errorf("expected defaults for invalid blob, got %+v", eff)
	}
}

func TestManager_LoadStoreError(t *testing.T) {
	m := New(&errStore{err: errors.New("disk on fire")})

	eff := m.Load(context.Background())

	if eff != Defaults() {
		t.Errorf("expected defaults on read error, got %+v", eff)
	}
}

func TestManager_SetColorScheme(t *testing.T) {
	m := New(NewMemoryStore())
	m.Load(context.Background())

	if err := m.SetColorScheme(SchemeBlue); err != nil {
		t.Fatalf("SetColorScheme failed: %v", err)
	}

	if got := m.Effective().ColorScheme; got != SchemeBlue {
		t.Errorf("expected blue effective, got %s", got)
	}
	if got := m.Persisted().ColorScheme; got != SchemeZinc {
		t.Errorf("persisted layer mutated: got %s", got)
	}
	if !m.HasUnsavedChanges() {
		t.Error("expected unsaved changes")
	}
	if m.State() != StateDirty {
		t.Errorf("expected dirty, got %s", m.State())
	}
}

func TestManager_SetterRejectsInvalid(t *testing.T) {
	m := New(NewMemoryStore())
	m.Load(context.Background())

	cases := []struct {
		name string
		call func() error
	}{
		{"scheme", func() error { return m.SetColorScheme("magenta") }},
		{"radius", func() error { return m.SetRadius("xl") }},
		{"custom radius high", func() error { return m.SetCustomRadius(65) }},
		{"custom radius negative", func() error { return m.SetCustomRadius(-1) }},
	}

	for _, tc := range cases {
		err := tc.call()
		if err == nil {
			t.Errorf("%s: expected error", tc.name)
			continue
		}
		if !errors.Is(err, ErrInvalidValue) {
			t.Errorf("%s: expected ErrInvalidValue, got %v", tc.name, err)
		}
	}

	if m.HasUnsavedChanges() {
		t.Error("rejected values must not enter the draft")
	}
	if m.State() != StateClean {
		t.Errorf("expected clean, got %s", m.State())
	}
}

func TestManager_SetRadiusDeactivatesCustom(t *testing.T) {
	m := New(NewMemoryStore())
	m.Load(context.Background())

	m.SetUseCustomRadius(true)
	if err := m.SetCustomRadius(12); err != nil {
		t.Fatalf("SetCustomRadius failed: %v", err)
	}
	if err := m.SetRadius(RadiusLG); err != nil {
		t.Fatalf("SetRadius failed: %v", err)
	}

	draft := m.Draft()
	if draft.UseCustomRadius == nil || *draft.UseCustomRadius {
		t.Error("expected useCustomRadius false after preset selection")
	}
	if draft.Radius == nil || *draft.Radius != RadiusLG {
		t.Error("expected radius lg in draft")
	}
	// The staged custom value survives untouched
	if draft.CustomRadius == nil || *draft.CustomRadius != 12 {
		t.Error("expected customRadius 12 preserved in draft")
	}
	if m.Effective().UseCustomRadius {
		t.Error("custom radius must not be observably active after preset selection")
	}
}

func TestManager_SetCustomRadiusActivates(t *testing.T) {
	m := New(NewMemoryStore())
	m.Load(context.Background())

	if err := m.SetCustomRadius(14); err != nil {
		t.Fatalf("SetCustomRadius failed: %v", err)
	}

	eff := m.Effective()
	if !eff.UseCustomRadius {
		t.Error("expected custom radius active in the same draft update")
	}
	if eff.CustomRadius != 14 {
		t.Errorf("expected custom radius 14, got %v", eff.CustomRadius)
	}
}

func TestManager_DraftAndDiscard(t *testing.T) {
	m := seeded(t, `{"colorScheme": "blue", "radius": "md", "customRadius": 8, "useCustomRadius": false}`)

	if err := m.SetRadius(RadiusFull); err != nil {
		t.Fatalf("SetRadius failed: %v", err)
	}

	eff := m.Effective()
	if eff.ColorScheme != SchemeBlue || eff.Radius != RadiusFull {
		t.Errorf("expected blue/full, got %s/%s", eff.ColorScheme, eff.Radius)
	}
	if !m.HasUnsavedChanges() {
		t.Error("expected unsaved changes")
	}

	m.Discard()

	eff = m.Effective()
	if eff.ColorScheme != SchemeBlue || eff.Radius != RadiusMD {
		t.Errorf("expected blue/md after discard, got %s/%s", eff.ColorScheme, eff.Radius)
	}
	if m.HasUnsavedChanges() {
		t.Error("expected no unsaved changes after discard")
	}
}

func TestManager_Commit(t *testing.T) {
	store := NewMemoryStore()
	m := New(store)
	m.Load(context.Background())

	if err := m.SetColorScheme(SchemeViolet); err != nil {
		t.Fatalf("SetColorScheme failed: %v", err)
	}
	wantEff := m.Effective()

	if err := m.Commit(context.Background()); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	if m.Persisted() != wantEff {
		t.Errorf("expected persisted %+v, got %+v", wantEff, m.Persisted())
	}
	if !m.Draft().Empty() {
		t.Error("expected empty draft after commit")
	}
	if m.HasUnsavedChanges() {
		t.Error("expected no unsaved changes after commit")
	}

	// The store holds exactly the committed configuration
	data, ok := store.Bytes()
	if !ok {
		t.Fatal("expected stored blob after commit")
	}
	var saved Appearance
	if err := (JSONCodec{}).Unmarshal(data, &saved); err != nil {
		t.Fatalf("stored blob does not decode: %v", err)
	}
	if saved != wantEff {
		t.Errorf("expected stored %+v, got %+v", wantEff, saved)
	}
}

func TestManager_CommitFailureLeavesLayersUnchanged(t *testing.T) {
	store := NewMemoryStoreWith([]byte(`{"colorScheme": "green", "radius": "sm", "customRadius": 8, "useCustomRadius": false}`))
	m := New(store)
	m.Load(context.Background())

	if err := m.SetRadius(RadiusFull); err != nil {
		t.Fatalf("SetRadius failed: %v", err)
	}
	beforePersisted := m.Persisted()
	beforeDraft := m.Draft()
	beforeBytes, _ := store.Bytes()

	store.FailSaves(errors.New("quota exceeded"))

	err := m.Commit(context.Background())
	if err == nil {
		t.Fatal("expected commit error")
	}

	if m.Persisted() != beforePersisted {
		t.Error("persisted layer changed on failed commit")
	}
	if !reflect.DeepEqual(m.Draft(), beforeDraft) {
		t.Error("draft layer changed on failed commit")
	}
	afterBytes, _ := store.Bytes()
	if string(afterBytes) != string(beforeBytes) {
		t.Error("store contents changed on failed commit")
	}
	if m.State() != StateDirty {
		t.Errorf("expected still dirty, got %s", m.State())
	}
}

func TestManager_ResetToDefaults(t *testing.T) {
	store := NewMemoryStoreWith([]byte(`{"colorScheme": "blue", "radius": "full", "customRadius": 20, "useCustomRadius": true}`))
	m := New(store)
	m.Load(context.Background())

	// Draft content is ignored by reset
	if err := m.SetColorScheme(SchemeOrange); err != nil {
		t.Fatalf("SetColorScheme failed: %v", err)
	}

	if err := m.ResetToDefaults(context.Background()); err != nil {
		t.Fatalf("ResetToDefaults failed: %v", err)
	}

	if m.Persisted() != Defaults() {
		t.Errorf("expected defaults persisted, got %+v", m.Persisted())
	}
	if !m.Draft().Empty() {
		t.Error("expected empty draft after reset")
	}

	data, ok := store.Bytes()
	if !ok {
		t.Fatal("expected stored blob after reset")
	}
	var saved Appearance
	if err := (JSONCodec{}).Unmarshal(data, &saved); err != nil {
		t.Fatalf("stored blob does not decode: %v", err)
	}
	if saved != Defaults() {
		t.Errorf("expected stored defaults, got %+v", saved)
	}
}

func TestManager_ResetFailureLeavesLayersUnchanged(t *testing.T) {
	store := NewMemoryStoreWith([]byte(`{"colorScheme": "blue", "radius": "lg", "customRadius": 8, "useCustomRadius": false}`))
	m := New(store)
	m.Load(context.Background())

	if err := m.SetRadius(RadiusNone); err != nil {
		t.Fatalf("SetRadius failed: %v", err)
	}
	beforePersisted := m.Persisted()
	beforeDraft := m.Draft()

	store.FailSaves(errors.New("store unavailable"))

	if err := m.ResetToDefaults(context.Background()); err == nil {
		t.Fatal("expected reset error")
	}

	if m.Persisted() != beforePersisted {
		t.Error("persisted layer changed on failed reset")
	}
	if !reflect.DeepEqual(m.Draft(), beforeDraft) {
		t.Error("draft layer changed on failed reset")
	}
}

func TestManager_SaveRetry(t *testing.T) {
	store := &flakyStore{failures: 2}
	m := New(store, WithSaveRetry(3))
	m.Load(context.Background())

	if err := m.SetColorScheme(SchemeGreen); err != nil {
		t.Fatalf("SetColorScheme failed: %v", err)
	}

	if err := m.Commit(context.Background()); err != nil {
		t.Fatalf("expected commit to succeed after retries: %v", err)
	}
	if m.Persisted().ColorScheme != SchemeGreen {
		t.Errorf("expected green persisted, got %s", m.Persisted().ColorScheme)
	}
}

func TestManager_Subscribe(t *testing.T) {
	m := New(NewMemoryStore())
	m.Load(context.Background())

	var seen []Appearance
	unsubscribe := m.Subscribe(func(eff Appearance) {
		seen = append(seen, eff)
	})

	if err := m.SetColorScheme(SchemeRose); err != nil {
		t.Fatalf("SetColorScheme failed: %v", err)
	}
	if len(seen) != 1 || seen[0].ColorScheme != SchemeRose {
		t.Fatalf("expected one notification with rose, got %v", seen)
	}

	m.Discard()
	if len(seen) != 2 || seen[1].ColorScheme != SchemeZinc {
		t.Fatalf("expected discard notification with zinc, got %v", seen)
	}

	unsubscribe()
	if err := m.SetColorScheme(SchemeBlue); err != nil {
		t.Fatalf("SetColorScheme failed: %v", err)
	}
	if len(seen) != 2 {
		t.Errorf("expected no notifications after unsubscribe, got %d", len(seen))
	}
}

func TestManager_StateTransitions(t *testing.T) {
	m := New(NewMemoryStore())
	m.Load(context.Background())

	if m.State() != StateClean {
		t.Fatalf("expected clean at start, got %s", m.State())
	}

	m.SetUseCustomRadius(true)
	if m.State() != StateDirty {
		t.Fatalf("expected dirty after set, got %s", m.State())
	}

	if err := m.Commit(context.Background()); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if m.State() != StateClean {
		t.Fatalf("expected clean after commit, got %s", m.State())
	}
}

func TestManager_YAMLRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	m := New(store).Codec(YAMLCodec{})
	m.Load(context.Background())

	if err := m.SetColorScheme(SchemeBlue); err != nil {
		t.Fatalf("SetColorScheme failed: %v", err)
	}
	if err := m.Commit(context.Background()); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	reloaded := New(store).Codec(YAMLCodec{})
	eff := reloaded.Load(context.Background())
	if eff.ColorScheme != SchemeBlue {
		t.Errorf("expected blue after reload, got %s", eff.ColorScheme)
	}
}
