package nats

import (
	"context"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/testcontainers/testcontainers-go"
	tcnats "github.com/testcontainers/testcontainers-go/modules/nats"

	"github.com/zoobzio/patina"
)

func setupNATS(t *testing.T) jetstream.KeyValue {
	t.Helper()
	ctx := context.Background()

	container, err := tcnats.Run(ctx, "nats:2.10-alpine", tcnats.WithArgument("--jetstream", ""))
	if err != nil {
		t.Fatalf("failed to start nats container: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	endpoint, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("failed to get endpoint: %v", err)
	}

	nc, err := nats.Connect(endpoint)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(func() {
		nc.Close()
	})

	js, err := jetstream.New(nc)
	if err != nil {
		t.Fatalf("failed to create jetstream: %v", err)
	}

	kv, err := js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket: "preferences",
	})
	if err != nil {
		t.Fatalf("failed to create kv bucket: %v", err)
	}

	return kv
}

func TestStore_LoadAbsent(t *testing.T) {
	kv := setupNATS(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store := New(kv, "missing")

	data, ok, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if ok {
		t.Error("expected ok=false for absent key")
	}
	if data != nil {
		t.Errorf("expected nil data, got %q", data)
	}
}

func TestStore_SaveLoad(t *testing.T) {
	kv := setupNATS(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store := New(kv, "appearance")
	blob := []byte(`{"colorScheme": "orange"}`)

	if err := store.Save(ctx, blob); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, ok, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !ok {
		t.Fatal("expected ok=true after save")
	}
	if string(data) != string(blob) {
		t.Errorf("expected %q, got %q", blob, data)
	}
}

func TestStore_ManagerCommit(t *testing.T) {
	kv := setupNATS(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	m := patina.New(New(kv, "appearance"))
	m.Load(ctx)
	if err := m.SetColorScheme(patina.SchemeOrange); err != nil {
		t.Fatalf("SetColorScheme failed: %v", err)
	}
	if err := m.Commit(ctx); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	reloaded := patina.New(New(kv, "appearance"))
	eff := reloaded.Load(ctx)
	if eff.ColorScheme != patina.SchemeOrange {
		t.Errorf("expected orange after reload, got %s", eff.ColorScheme)
	}
}
