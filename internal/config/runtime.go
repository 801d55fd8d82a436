package config

import (
	"os"
	"path/filepath"
)

const defaultRuntimeDir = ".chatrelay"

// GetRuntimePath resolves RELAY_RUNTIME_PATH; relative paths live under $HOME.
func GetRuntimePath() string {
	path := os.Getenv("RELAY_RUNTIME_PATH")
	if path == "" {
		path = defaultRuntimeDir
	}

	if !filepath.IsAbs(path) {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path)
	}
	return path
}

func GetEnvPath() string {
	return filepath.Join(GetRuntimePath(), ".env")
}
