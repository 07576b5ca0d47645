package patina

import "github.com/zoobzio/capitan"

// Field keys for manager and reactor events.
var (
	// KeyField is the name of the configuration field involved.
	KeyField = capitan.NewStringKey("field")

	// KeyError is the error message when an operation fails.
	KeyError = capitan.NewStringKey("error")

	// KeyState is the current state of the manager or reactor.
	KeyState = capitan.NewStringKey("state")

	// KeyOldState is the previous state before a transition.
	KeyOldState = capitan.NewStringKey("old_state")

	// KeyNewState is the new state after a transition.
	KeyNewState = capitan.NewStringKey("new_state")

	// KeyContentType is the codec content type of the persisted blob.
	KeyContentType = capitan.NewStringKey("content_type")

	// KeyMode is the resolved display mode ("light" or "dark").
	KeyMode = capitan.NewStringKey("mode")

	// KeyDebounce is the configured debounce duration.
	KeyDebounce = capitan.NewDurationKey("debounce")
)
