package assets

// defaultLoader is the package-level embedded loader.
var defaultLoader = NewEmbeddedLoader()

// LoadPreamble loads an embedded preamble by name.
// Returns ErrPreambleNotFound if the preamble does not exist.
// Returns ErrInvalidAssetName if the name contains path separators or traversal.
func LoadPreamble(name string) (string, error) {
	return defaultLoader.LoadPreamble(name)
}

// Names lists the embedded preamble names.
func Names() []string {
	return defaultLoader.Names()
}
