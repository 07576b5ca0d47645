package patina

// State represents the current state of a Manager's draft layer.
type State int32

const (
	// StateClean indicates the draft layer is empty: the effective
	// configuration equals the persisted configuration.
	StateClean State = iota

	// StateDirty indicates at least one draft field is set. A successful
	// Commit, a Discard, or a ResetToDefaults returns the manager to
	// StateClean; a failed Commit leaves it in StateDirty.
	StateDirty
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClean:
		return "clean"
	case StateDirty:
		return "dirty"
	default:
		return "unknown"
	}
}
