package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

const (

	// Name used for directory and file naming.
	appName = "xccgen"

	// Default permission mode for directories.
	DefaultDirMode os.FileMode = 0755

	// Default permission mode for files.
	DefaultFileMode os.FileMode = 0644
)

// Path to the default directory for generated recipes.
//
//	Linux:   ~/.local/share/xccgen
//	macOS:   ~/Library/Application Support/xccgen
func Recipes() string {
	return filepath.Join(xdg.DataHome, appName)
}

// Path to the directory for built images and other large scratch files.
//
//	Linux:   ~/.cache/xccgen
//	macOS:   ~/Library/Caches/xccgen
func Images() string {
	return filepath.Join(xdg.CacheHome, appName)
}

// Path of the provenance file written beside a recipe.
//
// The file records the exact generator invocation; it shares the
// recipe's base name with a "_command.txt" suffix (e.g. "xcc.def"
// becomes "xcc_command.txt").
func CommandFile(recipePath string) string {
	base := filepath.Base(recipePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(recipePath), base+"_command.txt")
}
