package patina

// Merge derives the effective configuration from the persisted layer and a
// draft overlay: each field takes the draft value if set, the persisted
// value otherwise. The result is always total because the persisted layer
// carries a concrete value for every field.
//
// Merge is pure and cheap; the manager recomputes it on every read rather
// than caching, so every draft mutation is immediately observable.
func Merge(persisted Appearance, draft Draft) Appearance {
	out := persisted
	if draft.ColorScheme != nil {
		out.ColorScheme = *draft.ColorScheme
	}
	if draft.Radius != nil {
		out.Radius = *draft.Radius
	}
	if draft.CustomRadius != nil {
		out.CustomRadius = *draft.CustomRadius
	}
	if draft.UseCustomRadius != nil {
		out.UseCustomRadius = *draft.UseCustomRadius
	}
	return out
}
