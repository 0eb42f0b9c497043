package app

import (
	"path/filepath"

	"github.com/edward-yakop/go-hfsnap/internal/misc"
)

// MissingFiles returns the names, in order, that do not exist directly
// under dir. Only existence is checked.
func MissingFiles(dir string, names []string) []string {
	missing := make([]string, 0)
	for _, name := range names {
		if !misc.IsFileExists(filepath.Join(dir, name)) {
			missing = append(missing, name)
		}
	}
	return missing
}
