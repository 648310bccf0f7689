package assets

import (
	"os"
	"path/filepath"

	"github.com/hubastard/lumen/engine/errs"
)

// LoadEffectSource reads root/effects/name. The bytes are handed to the
// device compiler untouched.
func LoadEffectSource(root, name string) ([]byte, error) {
	path := filepath.Join(root, "effects", name)
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(err, errs.CouldNotOpenFile, "load effect %q", name)
	}
	return b, nil
}
