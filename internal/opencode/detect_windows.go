//go:build windows
// +build windows

package opencode

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
)

// resolveFallback scans the usual Windows install locations for opencode
func resolveFallback() (string, bool) {
	if appData := os.Getenv("APPDATA"); appData != "" {
		for _, name := range []string{"opencode.cmd", "opencode.exe"} {
			candidate := filepath.Join(appData, "npm", name)
			if fileExists(candidate) {
				log.Debugf("found %s in APPDATA npm: %s", name, candidate)
				return candidate, true
			}
		}
	}

	if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
		for _, name := range []string{"opencode.cmd", "opencode.exe"} {
			candidate := filepath.Join(localAppData, "pnpm", name)
			if fileExists(candidate) {
				log.Debugf("found %s in LOCALAPPDATA pnpm: %s", name, candidate)
				return candidate, true
			}
		}
		candidate := filepath.Join(localAppData, "Yarn", "bin", "opencode.cmd")
		if fileExists(candidate) {
			log.Debugf("found opencode.cmd in Yarn bin: %s", candidate)
			return candidate, true
		}
	}

	if nvmHome := os.Getenv("NVM_HOME"); nvmHome != "" {
		if path, ok := scanNvmDirectory(nvmHome); ok {
			return path, true
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		if path, ok := scanNvmDirectory(filepath.Join(home, ".nvm")); ok {
			return path, true
		}
	}

	return "", false
}

// scanNvmDirectory looks for opencode inside nvm-windows version dirs
func scanNvmDirectory(nvmPath string) (string, bool) {
	entries, err := os.ReadDir(nvmPath)
	if err != nil {
		return "", false
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		for _, name := range []string{"opencode.cmd", "opencode.exe"} {
			candidate := filepath.Join(nvmPath, entry.Name(), name)
			if fileExists(candidate) {
				log.Debugf("found %s in NVM: %s", name, candidate)
				return candidate, true
			}
		}
	}
	return "", false
}

// runVersionCommand runs the binary with --version. Batch scripts need
// cmd.exe as the interpreter.
func runVersionCommand(path string) (stdout, stderr string, err error) {
	lower := strings.ToLower(path)
	var cmd *exec.Cmd
	if strings.HasSuffix(lower, ".cmd") || strings.HasSuffix(lower, ".bat") {
		cmd = exec.Command("cmd.exe", "/C", path, "--version")
	} else {
		cmd = exec.Command(path, "--version")
	}
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
