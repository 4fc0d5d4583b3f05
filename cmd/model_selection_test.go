package cmd

import "testing"

func TestShouldPrompt(t *testing.T) {
	ms := NewModelSelector()

	if ms.ShouldPrompt(true, true) {
		t.Error("--no-prompt must win over --select")
	}
	if !ms.ShouldPrompt(true, false) {
		t.Error("--select should force the prompt")
	}

	t.Setenv("CI", "1")
	if ms.ShouldPrompt(false, false) {
		t.Error("non-interactive runs must not prompt")
	}
}

func TestIsCIEnvironment(t *testing.T) {
	t.Setenv("GITHUB_ACTIONS", "true")
	if !isCIEnvironment() {
		t.Error("GITHUB_ACTIONS should mark a CI environment")
	}
	if isInteractiveTerminal() {
		t.Error("CI environments are never interactive")
	}
}
