package utils

import (
	"net/url"
	"strings"
)

// ValidateURL validates that a URL has a valid scheme and host
func ValidateURL(rawURL string) bool {
	if rawURL == "" {
		return false
	}

	parsed, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return false
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}

	if parsed.Host == "" {
		return false
	}

	return true
}

// NormalizeBaseURL normalizes a proxy base URL for the OpenCode provider
// options. It trims whitespace and trailing slashes and appends "/v1"
// unless the URL already ends with it, so "/v1/v1" can never occur.
func NormalizeBaseURL(rawURL string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(rawURL), "/")
	if strings.HasSuffix(trimmed, "/v1") {
		return trimmed
	}
	return trimmed + "/v1"
}

// BaseURLMatches reports whether two base URLs point at the same endpoint.
// Both sides are normalized first, so "http://h:3000", "http://h:3000/v1"
// and "http://h:3000/v1/" all compare equal.
func BaseURLMatches(configURL, proxyURL string) bool {
	return NormalizeBaseURL(configURL) == NormalizeBaseURL(proxyURL)
}

// ExtractHost extracts the host from a URL
func ExtractHost(rawURL string) string {
	parsed, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return ""
	}
	return parsed.Host
}
