package patina

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestMode_Resolved(t *testing.T) {
	cases := []struct {
		mode       Mode
		systemDark bool
		want       bool
	}{
		{ModeLight, false, false},
		{ModeLight, true, false},
		{ModeDark, false, true},
		{ModeDark, true, true},
		{ModeSystem, false, false},
		{ModeSystem, true, true},
	}

	for _, tc := range cases {
		if got := tc.mode.Resolved(tc.systemDark); got != tc.want {
			t.Errorf("%s.Resolved(%v) = %v, want %v", tc.mode, tc.systemDark, got, tc.want)
		}
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{
		"light":    ModeLight,
		"dark":     ModeDark,
		"system":   ModeSystem,
		" Dark \n": ModeDark,
		"SYSTEM":   ModeSystem,
	} {
		got, err := ParseMode(in)
		if err != nil {
			t.Errorf("ParseMode(%q) failed: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseMode(%q) = %s, want %s", in, got, want)
		}
	}

	if _, err := ParseMode("auto"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestStaticModeSource(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := StaticMode(ModeDark).Watch(ctx)
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	select {
	case m := <-ch:
		if m != ModeDark {
			t.Errorf("expected dark, got %s", m)
		}
	case <-time.After(time.Second):
		t.Fatal("expected immediate emission")
	}

	cancel()
	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected channel close after cancel")
		}
	case <-time.After(time.Second):
		t.Fatal("expected channel close after cancel")
	}
}

func TestChannelModeSource(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := make(chan Mode, 1)
	ch, err := NewChannelModeSource(src).Watch(ctx)
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	src <- ModeSystem
	select {
	case m := <-ch:
		if m != ModeSystem {
			t.Errorf("expected system, got %s", m)
		}
	case <-time.After(time.Second):
		t.Fatal("expected forwarded value")
	}

	close(src)
	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected channel close after source close")
		}
	case <-time.After(time.Second):
		t.Fatal("expected channel close after source close")
	}
}

func TestFileModeSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mode")
	if err := os.WriteFile(path, []byte("dark\n"), 0o600); err != nil {
		t.Fatalf("failed to write mode file: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := NewFileModeSource(path).Watch(ctx)
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	select {
	case m := <-ch:
		if m != ModeDark {
			t.Errorf("expected dark on initial read, got %s", m)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected immediate emission")
	}

	if err := os.WriteFile(path, []byte("light"), 0o600); err != nil {
		t.Fatalf("failed to rewrite mode file: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case m := <-ch:
			if m == ModeLight {
				return
			}
			// Intermediate events may re-emit the old value
		case <-deadline:
			t.Fatal("expected light after file change")
		}
	}
}

func TestFileModeSource_UnparsableFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mode")
	if err := os.WriteFile(path, []byte("blurple"), 0o600); err != nil {
		t.Fatalf("failed to write mode file: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := NewFileModeSource(path).Watch(ctx)
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	select {
	case m := <-ch:
		if m != ModeSystem {
			t.Errorf("expected system fallback, got %s", m)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected immediate emission")
	}
}
