//go:build !windows
// +build !windows

package opencode

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

// resolveFallback scans the usual unix install locations for opencode
func resolveFallback() (string, bool) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}

	userBins := []string{
		filepath.Join(home, ".local", "bin", executableName),
		filepath.Join(home, ".npm-global", "bin", executableName),
		filepath.Join(home, ".volta", "bin", executableName),
		filepath.Join(home, "bin", executableName),
	}
	for _, path := range userBins {
		if fileExists(path) {
			log.Debugf("found opencode in user bin: %s", path)
			return path, true
		}
	}

	systemBins := []string{
		"/opt/homebrew/bin/" + executableName,
		"/usr/local/bin/" + executableName,
		"/usr/bin/" + executableName,
	}
	for _, path := range systemBins {
		if fileExists(path) {
			log.Debugf("found opencode in system bin: %s", path)
			return path, true
		}
	}

	if path, ok := scanNodeVersions(filepath.Join(home, ".nvm", "versions", "node")); ok {
		return path, true
	}

	fnmDirs := []string{
		filepath.Join(home, ".fnm", "node-versions"),
		filepath.Join(home, "Library", "Application Support", "fnm", "node-versions"),
	}
	for _, dir := range fnmDirs {
		if path, ok := scanFnmVersions(dir); ok {
			return path, true
		}
	}

	return "", false
}

// scanNodeVersions looks for opencode inside nvm-managed node installs
func scanNodeVersions(versionsDir string) (string, bool) {
	entries, err := os.ReadDir(versionsDir)
	if err != nil {
		return "", false
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		candidate := filepath.Join(versionsDir, entry.Name(), "bin", executableName)
		if fileExists(candidate) {
			log.Debugf("found opencode in nvm: %s", candidate)
			return candidate, true
		}
	}
	return "", false
}

// scanFnmVersions looks for opencode inside fnm-managed node installs
func scanFnmVersions(versionsDir string) (string, bool) {
	entries, err := os.ReadDir(versionsDir)
	if err != nil {
		return "", false
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		candidate := filepath.Join(versionsDir, entry.Name(), "installation", "bin", executableName)
		if fileExists(candidate) {
			log.Debugf("found opencode in fnm: %s", candidate)
			return candidate, true
		}
	}
	return "", false
}

// runVersionCommand runs the binary with --version and captures both streams
func runVersionCommand(path string) (stdout, stderr string, err error) {
	cmd := exec.Command(path, "--version")
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	if err := cmd.Run(); err != nil {
		return "", "", err
	}
	return outBuf.String(), errBuf.String(), nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
