package formdef

import (
	"embed"
	"io/fs"
)

//go:embed forms/*.yaml
var embeddedForms embed.FS

// EmbeddedFS returns the bundled form definitions covering the foundation's
// registration screens. Pass this filesystem to LoadFS to use the defaults.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedForms, "forms")
	if err != nil {
		// The embed directive guarantees the subpath exists, so panic is
		// acceptable here.
		panic(err)
	}
	return sub
}

// LoadEmbedded loads the bundled definitions.
func LoadEmbedded() (*Store, error) {
	return LoadFS(EmbeddedFS())
}
