package assets

// PreambleLoader loads Typst preambles by name.
type PreambleLoader interface {
	// LoadPreamble loads a preamble by name (without the .typ extension).
	// Returns ErrPreambleNotFound if the preamble doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadPreamble(name string) (string, error)
}

// DefaultPreambleName is the name of the built-in preamble.
const DefaultPreambleName = "default"
