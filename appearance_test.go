package patina

import "testing"

func TestDefaults_Valid(t *testing.T) {
	if err := Defaults().Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestAppearance_Validate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Appearance)
		wantErr bool
	}{
		{"valid", func(a *Appearance) {}, false},
		{"all schemes", func(a *Appearance) { a.ColorScheme = SchemeOrange }, false},
		{"bad scheme", func(a *Appearance) { a.ColorScheme = "crimson" }, true},
		{"empty scheme", func(a *Appearance) { a.ColorScheme = "" }, true},
		{"bad radius", func(a *Appearance) { a.Radius = "xl" }, true},
		{"radius bounds", func(a *Appearance) { a.CustomRadius = MaxCustomRadius }, false},
		{"radius too large", func(a *Appearance) { a.CustomRadius = MaxCustomRadius + 1 }, true},
		{"radius negative", func(a *Appearance) { a.CustomRadius = -0.5 }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := Defaults()
			tc.mutate(&app)
			err := app.Validate()
			if tc.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}
