package config

import (
	"os"
	"path/filepath"
)

const defaultRuntimePath = ".cmdgate"

// GetRuntimePath is available before the .env file is loaded, which lives
// inside the runtime directory.
func GetRuntimePath() string {
	return resolveRuntimePath(os.Getenv("GATE_RUNTIME_PATH"))
}

func resolveRuntimePath(path string) string {
	if path == "" {
		path = defaultRuntimePath
	}

	if !filepath.IsAbs(path) {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path)
	}
	return path
}
