package patina

// Draft is a per-field optional overlay on top of the persisted
// configuration. A nil field defers to the persisted value; a non-nil field
// overrides it. Drafts are built through the Manager setters and cleared
// wholesale by Commit, Discard, and ResetToDefaults.
type Draft struct {
	ColorScheme     *string
	Radius          *string
	CustomRadius    *float64
	UseCustomRadius *bool
}

// Empty reports whether every field is unset. The manager's unsaved-changes
// flag is exactly the negation of this.
func (d Draft) Empty() bool {
	return d.ColorScheme == nil &&
		d.Radius == nil &&
		d.CustomRadius == nil &&
		d.UseCustomRadius == nil
}

// clone returns a copy that shares no pointers with d, so snapshots handed
// to callers cannot alias the manager's internal state.
func (d Draft) clone() Draft {
	var out Draft
	if d.ColorScheme != nil {
		v := *d.ColorScheme
		out.ColorScheme = &v
	}
	if d.Radius != nil {
		v := *d.Radius
		out.Radius = &v
	}
	if d.CustomRadius != nil {
		v := *d.CustomRadius
		out.CustomRadius = &v
	}
	if d.UseCustomRadius != nil {
		v := *d.UseCustomRadius
		out.UseCustomRadius = &v
	}
	return out
}
