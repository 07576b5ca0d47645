package patina

import "github.com/go-playground/validator/v10"

// validate is the shared validator instance.
var validate = validator.New()

// Color scheme presets.
const (
	SchemeZinc   = "zinc"
	SchemeBlue   = "blue"
	SchemeGreen  = "green"
	SchemeRose   = "rose"
	SchemeOrange = "orange"
	SchemeViolet = "violet"
)

// Radius presets.
const (
	RadiusNone = "none"
	RadiusSM   = "sm"
	RadiusMD   = "md"
	RadiusLG   = "lg"
	RadiusFull = "full"
)

// MaxCustomRadius is the largest accepted custom corner radius in pixels.
const MaxCustomRadius = 64

// Validation tags per field, shared between Appearance.Validate and the
// draft setter boundary.
const (
	schemeTag       = "oneof=zinc blue green rose orange violet"
	radiusTag       = "oneof=none sm md lg full"
	customRadiusTag = "gte=0,lte=64"
)

// Appearance is the complete appearance configuration. Values are produced
// by Defaults, the loader, or Merge; they are never mutated in place.
type Appearance struct {
	// ColorScheme selects the accent palette.
	ColorScheme string `json:"colorScheme" yaml:"colorScheme" toml:"colorScheme" validate:"oneof=zinc blue green rose orange violet"`

	// Radius is the corner radius preset, used while UseCustomRadius is false.
	Radius string `json:"radius" yaml:"radius" toml:"radius" validate:"oneof=none sm md lg full"`

	// CustomRadius is an explicit corner radius in pixels, used while
	// UseCustomRadius is true.
	CustomRadius float64 `json:"customRadius" yaml:"customRadius" toml:"customRadius" validate:"gte=0,lte=64"`

	// UseCustomRadius selects CustomRadius over the Radius preset.
	UseCustomRadius bool `json:"useCustomRadius" yaml:"useCustomRadius" toml:"useCustomRadius"`
}

// Defaults returns the factory baseline configuration. It is the value in
// effect when no configuration has ever been saved, and the value restored
// by Manager.ResetToDefaults.
func Defaults() Appearance {
	return Appearance{
		ColorScheme:     SchemeZinc,
		Radius:          RadiusMD,
		CustomRadius:    8,
		UseCustomRadius: false,
	}
}

// Validate checks every field against its validation tags.
func (a Appearance) Validate() error {
	return validate.Struct(a)
}
