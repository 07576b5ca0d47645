package patina

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Mode is the externally-owned display-mode signal consumed by the Reactor.
// It is an input to style derivation, not part of the managed configuration.
type Mode int

const (
	// ModeLight forces light styling.
	ModeLight Mode = iota

	// ModeDark forces dark styling.
	ModeDark

	// ModeSystem defers to the platform preference, resolved through the
	// Reactor's system probe.
	ModeSystem
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeLight:
		return "light"
	case ModeDark:
		return "dark"
	case ModeSystem:
		return "system"
	default:
		return "unknown"
	}
}

// Resolved returns the concrete dark flag for this mode. systemDark is the
// platform preference, consulted only for ModeSystem.
func (m Mode) Resolved(systemDark bool) bool {
	switch m {
	case ModeDark:
		return true
	case ModeSystem:
		return systemDark
	default:
		return false
	}
}

// ParseMode parses "light", "dark", or "system" (case-insensitive,
// surrounding whitespace ignored).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "light":
		return ModeLight, nil
	case "dark":
		return ModeDark, nil
	case "system":
		return ModeSystem, nil
	default:
		return ModeLight, fmt.Errorf("unknown mode %q", s)
	}
}

// ModeSource observes the display-mode signal and emits values on a channel.
// Implementations must emit the current value immediately upon Watch() being
// called so the Reactor can perform its initial application.
type ModeSource interface {
	// Watch begins observing the signal and returns a channel that emits
	// mode values when they change. The channel is closed when the context
	// is canceled or an unrecoverable error occurs.
	Watch(ctx context.Context) (<-chan Mode, error)
}

// StaticModeSource emits a single fixed mode and never changes.
type StaticModeSource struct {
	mode Mode
}

// StaticMode creates a ModeSource pinned to the given mode.
func StaticMode(m Mode) *StaticModeSource {
	return &StaticModeSource{mode: m}
}

// Watch emits the fixed mode once and then stays silent until ctx ends.
func (s *StaticModeSource) Watch(ctx context.Context) (<-chan Mode, error) {
	out := make(chan Mode, 1)
	out <- s.mode
	go func() {
		<-ctx.Done()
		close(out)
	}()
	return out, nil
}

// ChannelModeSource wraps an existing mode channel as a ModeSource.
// Useful for testing and custom signals that already produce modes.
type ChannelModeSource struct {
	ch   <-chan Mode
	sync bool
}

// NewChannelModeSource creates a ChannelModeSource that forwards values from
// the given channel through an internal goroutine.
func NewChannelModeSource(ch <-chan Mode) *ChannelModeSource {
	return &ChannelModeSource{ch: ch, sync: false}
}

// NewSyncChannelModeSource creates a ChannelModeSource that returns the
// source channel directly without an intermediate goroutine.
// Use with SyncMode() for deterministic testing.
func NewSyncChannelModeSource(ch <-chan Mode) *ChannelModeSource {
	return &ChannelModeSource{ch: ch, sync: true}
}

// Watch returns a channel that emits values from the wrapped channel.
func (s *ChannelModeSource) Watch(ctx context.Context) (<-chan Mode, error) {
	if s.sync {
		return s.ch, nil
	}

	out := make(chan Mode)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-s.ch:
				if !ok {
					return
				}
				select {
				case out <- v:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// FileModeSource watches a file whose content is a single mode word
// ("light", "dark", or "system"), re-emitting whenever the file is written.
// Desktop environments that surface the platform preference through a
// settings file can drive a Reactor with this source directly.
type FileModeSource struct {
	path string
}

// NewFileModeSource creates a FileModeSource for the given file path.
func NewFileModeSource(path string) *FileModeSource {
	return &FileModeSource{path: path}
}

// Watch begins watching the mode file and returns a channel that emits the
// parsed mode whenever the file changes. The current value is emitted
// immediately; an unreadable or unparsable file emits ModeSystem.
func (s *FileModeSource) Watch(ctx context.Context) (<-chan Mode, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	if err := watcher.Add(s.path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch file %s: %w", s.path, err)
	}

	out := make(chan Mode)

	go func() {
		defer close(out)
		defer watcher.Close()

		// Emit current contents
		select {
		case out <- s.read():
		case <-ctx.Done():
			return
		}

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}

				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}

				select {
				case out <- s.read():
				case <-ctx.Done():
					return
				}

			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
				// Continue watching despite errors
			}
		}
	}()

	return out, nil
}

func (s *FileModeSource) read() Mode {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return ModeSystem
	}
	mode, err := ParseMode(string(data))
	if err != nil {
		return ModeSystem
	}
	return mode
}
