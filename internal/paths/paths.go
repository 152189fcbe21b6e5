package paths

import (
	"os"
	"path/filepath"
)

func home() string {
	h, _ := os.UserHomeDir()
	return h
}

// AppDir returns ~/.tmdlsync.
func AppDir() string {
	return filepath.Join(home(), ".tmdlsync")
}

// ConfigFile returns ~/.tmdlsync/config.yaml.
func ConfigFile() string {
	return filepath.Join(AppDir(), "config.yaml")
}
