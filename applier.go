package patina

import (
	"context"
	"strconv"
)

// StyleVars is a set of style variables (CSS custom properties) ready to be
// projected onto a rendering environment.
type StyleVars map[string]string

// Applier projects style variables onto a rendering environment.
//
// Implementations must be idempotent: applying the same variables twice must
// produce the same end state as applying them once. The Reactor relies on
// this when it re-applies after coalesced changes.
type Applier interface {
	Apply(ctx context.Context, vars StyleVars) error
}

// ApplierFunc adapts a function to the Applier interface.
type ApplierFunc func(ctx context.Context, vars StyleVars) error

// Apply calls f.
func (f ApplierFunc) Apply(ctx context.Context, vars StyleVars) error {
	return f(ctx, vars)
}

// palette holds the color variables for one scheme in one display mode.
// Shape follows the usual dashboard surface/accent split.
type palette struct {
	background string
	surface    string
	text       string
	muted      string
	accent     string
	accentText string
	border     string
}

var lightBase = palette{
	background: "#ffffff",
	surface:    "#f4f4f5",
	text:       "#09090b",
	muted:      "#71717a",
	border:     "#e4e4e7",
}

var darkBase = palette{
	background: "#09090b",
	surface:    "#18181b",
	text:       "#fafafa",
	muted:      "#a1a1aa",
	border:     "#27272a",
}

// accents maps each color scheme to its light and dark accent pair.
var accents = map[string]struct{ light, dark string }{
	SchemeZinc:   {"#18181b", "#fafafa"},
	SchemeBlue:   {"#2563eb", "#3b82f6"},
	SchemeGreen:  {"#16a34a", "#22c55e"},
	SchemeRose:   {"#e11d48", "#f43f5e"},
	SchemeOrange: {"#ea580c", "#f97316"},
	SchemeViolet: {"#7c3aed", "#8b5cf6"},
}

// presetRadii maps radius presets to pixel values. "full" is the usual
// pill-shape sentinel.
var presetRadii = map[string]float64{
	RadiusNone: 0,
	RadiusSM:   2,
	RadiusMD:   6,
	RadiusLG:   10,
	RadiusFull: 9999,
}

// Vars derives the style variables for an effective configuration and a
// resolved dark-mode flag. It is a pure function of its two inputs, which
// makes application idempotent by construction.
//
// Unknown scheme or radius values fall back to the defaults so the variable
// set is always complete; validated configurations never hit that path.
func Vars(app Appearance, dark bool) StyleVars {
	base := lightBase
	if dark {
		base = darkBase
	}

	accent, ok := accents[app.ColorScheme]
	if !ok {
		accent = accents[Defaults().ColorScheme]
	}
	accentColor := accent.light
	accentText := "#fafafa"
	if dark {
		accentColor = accent.dark
		accentText = "#18181b"
	}

	radius := app.CustomRadius
	if !app.UseCustomRadius {
		var found bool
		if radius, found = presetRadii[app.Radius]; !found {
			radius = presetRadii[Defaults().Radius]
		}
	}

	return StyleVars{
		"--background":  base.background,
		"--surface":     base.surface,
		"--text":        base.text,
		"--muted":       base.muted,
		"--border":      base.border,
		"--accent":      accentColor,
		"--accent-text": accentText,
		"--radius":      strconv.FormatFloat(radius, 'f', -1, 64) + "px",
	}
}
