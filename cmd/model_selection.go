package cmd

import "os"

// ModelSelector decides when the interactive model picker should run
type ModelSelector struct{}

// NewModelSelector creates a new ModelSelector instance
func NewModelSelector() *ModelSelector {
	return &ModelSelector{}
}

// ShouldPrompt reports whether the interactive picker should run.
// --select forces it (the picker itself rejects non-terminals); without
// it the picker only runs on a real interactive terminal, and never
// under --no-prompt. Non-interactive syncs get the full catalog.
func (ms *ModelSelector) ShouldPrompt(selectFlag, noPrompt bool) bool {
	if noPrompt {
		return false
	}
	if selectFlag {
		return true
	}
	return isInteractiveTerminal()
}

// isInteractiveTerminal checks if the current stdin is an interactive terminal
func isInteractiveTerminal() bool {
	if isCIEnvironment() {
		return false
	}

	term := os.Getenv("TERM")
	if term == "" || term == "dumb" {
		return false
	}

	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// isCIEnvironment checks if we're running in a CI/CD environment
func isCIEnvironment() bool {
	ciVars := []string{
		"CI",
		"CONTINUOUS_INTEGRATION",
		"BUILD_NUMBER",
		"RUN_ID",
		"GITHUB_ACTIONS",
		"GITLAB_CI",
		"JENKINS_HOME",
		"TRAVIS",
		"CIRCLECI",
		"TEAMCITY_VERSION",
	}

	for _, envVar := range ciVars {
		if os.Getenv(envVar) != "" {
			return true
		}
	}
	return false
}
