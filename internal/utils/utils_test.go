package utils

import "testing"

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{"empty", "", "****"},
		{"short", "sk-12345", "****"},
		{"normal", "sk-ant-1234567890abcd", "sk-a****abcd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaskAPIKey(tt.key); got != tt.want {
				t.Errorf("MaskAPIKey(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"http://localhost:3000", "http://localhost:3000/v1"},
		{"http://localhost:3000/", "http://localhost:3000/v1"},
		{"http://localhost:3000/v1", "http://localhost:3000/v1"},
		{"http://localhost:3000/v1/", "http://localhost:3000/v1"},
		{"  http://localhost:3000  ", "http://localhost:3000/v1"},
		{"  http://localhost:3000/v1  ", "http://localhost:3000/v1"},
	}

	for _, tt := range tests {
		if got := NormalizeBaseURL(tt.input); got != tt.want {
			t.Errorf("NormalizeBaseURL(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestBaseURLMatches(t *testing.T) {
	matching := [][2]string{
		{"http://localhost:3000/v1", "http://localhost:3000"},
		{"http://localhost:3000", "http://localhost:3000/v1"},
		{"http://localhost:3000/v1/", "http://localhost:3000"},
		{"http://localhost:3000", "http://localhost:3000"},
	}
	for _, pair := range matching {
		if !BaseURLMatches(pair[0], pair[1]) {
			t.Errorf("BaseURLMatches(%q, %q) = false, want true", pair[0], pair[1])
		}
	}

	different := [][2]string{
		{"http://localhost:3000", "http://other-host:3000"},
		{"http://localhost:3000/v1", "http://localhost:4000/v1"},
	}
	for _, pair := range different {
		if BaseURLMatches(pair[0], pair[1]) {
			t.Errorf("BaseURLMatches(%q, %q) = true, want false", pair[0], pair[1])
		}
	}
}

func TestValidateURL(t *testing.T) {
	valid := []string{"http://localhost:3000", "https://api.example.com/v1"}
	for _, u := range valid {
		if !ValidateURL(u) {
			t.Errorf("ValidateURL(%q) = false, want true", u)
		}
	}

	invalid := []string{"", "not-a-url", "ftp://example.com", "//missing-scheme"}
	for _, u := range invalid {
		if ValidateURL(u) {
			t.Errorf("ValidateURL(%q) = true, want false", u)
		}
	}
}
