package opencode

import "testing"

func TestExtractVersion(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"slash format", "opencode/1.2.3", "1.2.3"},
		{"cli format", "codex-cli 0.86.0\n", "0.86.0"},
		{"v prefix", "v2.0.1", "2.0.1"},
		{"bare version", "1.0.12", "1.0.12"},
		{"embedded", "tool version 3.4.5 (build abc)", "3.4.5"},
		{"no version", "some random text without version", "unknown"},
		{"empty", "", "unknown"},
		{"digits without dot", "build 42", "unknown"},
		{"whitespace", "  opencode/0.5.0  ", "0.5.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractVersion(tt.raw); got != tt.want {
				t.Errorf("ExtractVersion(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestIsValidVersion(t *testing.T) {
	valid := []string{"1.2.3", "0.86.0", "10.0", "1.2.3.4"}
	for _, s := range valid {
		if !isValidVersion(s) {
			t.Errorf("isValidVersion(%q) = false, want true", s)
		}
	}
	invalid := []string{"", "v1.2.3", "123", "1.2.3-beta", "abc"}
	for _, s := range invalid {
		if isValidVersion(s) {
			t.Errorf("isValidVersion(%q) = true, want false", s)
		}
	}
}
