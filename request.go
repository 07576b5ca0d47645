package patina

// Pipeline processor names.
const (
	storeSaveID = "store-save"
	applierID   = "applier"
)

// SaveRequest carries a serialized configuration blob through the save
// pipeline during Commit and ResetToDefaults.
type SaveRequest struct {
	// Data is the encoded blob bound for the store.
	Data []byte

	// ContentType is the codec content type, for middleware that wants to
	// log or route on format.
	ContentType string
}

// ApplyRequest carries an effective configuration and its derived style
// variables through the apply pipeline.
type ApplyRequest struct {
	// Config is the effective configuration being applied.
	Config Appearance

	// Dark is the resolved dark-mode flag at apply time.
	Dark bool

	// Vars holds the style variables derived from Config and Dark.
	// Pipeline stages may inspect or extend them before the applier runs.
	Vars StyleVars
}
