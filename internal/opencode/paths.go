package opencode

import (
	"fmt"
	"os"
	"path/filepath"
)

// OpenCode keeps its configuration in a fixed location; the three managed
// files all live in the same directory.
const (
	ConfigFile   = "opencode.json"
	AGConfigFile = "antigravity.json"
	AccountsFile = "antigravity-accounts.json"
)

// ManagedFiles is the allowlist of file names agsync will ever read or
// write inside the OpenCode config directory.
var ManagedFiles = []string{ConfigFile, AGConfigFile, AccountsFile}

// ConfigDir returns the OpenCode configuration directory
func ConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "opencode"), nil
}

// isManagedFile reports whether name is on the allowlist
func isManagedFile(name string) bool {
	for _, f := range ManagedFiles {
		if name == f {
			return true
		}
	}
	return false
}
