package opencode

import (
	"os/exec"
	"strings"

	log "github.com/sirupsen/logrus"
)

const executableName = "opencode"

// ResolveExecutable locates the opencode binary. PATH wins; package-manager
// install locations (npm globals, volta, nvm, fnm and friends) are scanned
// as fallbacks because GUI-launched processes often run with a minimal PATH.
func ResolveExecutable() (string, bool) {
	if path, err := exec.LookPath(executableName); err == nil {
		log.Debugf("found opencode in PATH: %s", path)
		return path, true
	}
	if path, ok := resolveFallback(); ok {
		return path, true
	}
	log.Debug("could not resolve opencode path")
	return "", false
}

// CheckInstalled reports whether opencode is installed and, if so, its
// version string (or "unknown" when the output has no recognizable version).
func CheckInstalled() (bool, string) {
	path, ok := ResolveExecutable()
	if !ok {
		return false, ""
	}

	version, ok := runVersion(path)
	if !ok {
		return false, ""
	}
	return true, version
}

// runVersion runs `opencode --version` and extracts the version from its
// output. Some tools print the version to stderr, so both streams are tried.
func runVersion(path string) (string, bool) {
	out, errOut, err := runVersionCommand(path)
	if err != nil {
		log.Debugf("failed to run opencode --version: %v", err)
		return "", false
	}

	raw := strings.TrimSpace(out)
	if raw == "" {
		raw = strings.TrimSpace(errOut)
	}
	log.Debugf("opencode --version output: %s", raw)
	return ExtractVersion(raw), true
}

// ExtractVersion pulls a semantic version out of strings like
// "opencode/1.2.3" or "codex-cli 0.86.0". Returns "unknown" when no
// version-shaped token is found.
func ExtractVersion(raw string) string {
	trimmed := strings.TrimSpace(raw)

	for _, part := range strings.Fields(trimmed) {
		if idx := strings.Index(part, "/"); idx >= 0 {
			if after := part[idx+1:]; isValidVersion(after) {
				return after
			}
		}
		if isValidVersion(part) {
			return part
		}
		// Tokens like "v2.0.1"
		if stripped := strings.TrimPrefix(part, "v"); stripped != part && isValidVersion(stripped) {
			return stripped
		}
	}

	// Fallback: first run of digits and dots
	start := strings.IndexFunc(trimmed, isDigit)
	if start >= 0 {
		end := start
		for end < len(trimmed) && (isDigit(rune(trimmed[end])) || trimmed[end] == '.') {
			end++
		}
		candidate := trimmed[start:end]
		if strings.Contains(candidate, ".") {
			return candidate
		}
	}

	return "unknown"
}

// isValidVersion reports whether s looks like a dotted numeric version
func isValidVersion(s string) bool {
	if s == "" || !isDigit(rune(s[0])) || !strings.Contains(s, ".") {
		return false
	}
	for _, c := range s {
		if !isDigit(c) && c != '.' {
			return false
		}
	}
	return true
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}
