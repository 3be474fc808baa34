package update

import (
	"os"
	"path/filepath"
	"strings"
)

// expandHome resolves a leading ~/ typed into the palette.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~/"))
}
