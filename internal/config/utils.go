package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// getDefaultConfigPaths returns a list of default config paths for the current OS
func getDefaultConfigPaths() ([]string, error) {
	var configPaths []string

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("error fetching user directory: %v", err)
	}

	switch runtime.GOOS {
	case "windows":
		// Windows path, usually in "C:\Users\Username\AppData\Roaming"
		configPaths = []string{
			".",
			filepath.Join(homeDir, "AppData", "Local", "specset-go"),
		}
	default:
		// Linux and macOS path
		configPaths = []string{
			".",
			filepath.Join(homeDir, ".config", "specset-go"),
			"/etc/specset-go",
		}
	}

	return configPaths, nil
}

// GetBasePath expands variables such as $HOME, and if the path does not
// exist it is created.
func GetBasePath(path string) string {
	// Expand environment variables
	expandedPath := os.ExpandEnv(path)

	// Clean the path to remove trailing slashes and fix any irregularities
	basePath := filepath.Clean(expandedPath)

	// Create the directory if it doesn't exist
	if _, err := os.Stat(basePath); os.IsNotExist(err) {
		if err := os.MkdirAll(basePath, 0755); err != nil {
			fmt.Printf("failed to create directory '%s': %v\n", basePath, err)
		}
	}

	return basePath
}
