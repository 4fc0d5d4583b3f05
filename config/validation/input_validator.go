package validation

import (
	"fmt"
	"strings"

	"agsync/config/catalog"
	"agsync/internal/utils"
)

// InputValidator validates user input from the CLI surface
type InputValidator struct {
}

// NewInputValidator creates a new InputValidator
func NewInputValidator() *InputValidator {
	return &InputValidator{}
}

// ValidateURL checks if a URL is valid
func (iv *InputValidator) ValidateURL(url string) error {
	if url != "" && !utils.ValidateURL(url) {
		return fmt.Errorf("invalid URL format")
	}
	return nil
}

// ValidateModelID checks that a model id refers to a known catalog model
func (iv *InputValidator) ValidateModelID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("model id cannot be empty")
	}
	if _, ok := catalog.Lookup(id); !ok {
		return fmt.Errorf("unknown model '%s' (see 'agsync models' for the full list)", id)
	}
	return nil
}

// ValidateModelIDs validates and deduplicates a list of model ids,
// preserving order. An empty result is an error: callers that want the
// full catalog pass no list at all.
func (iv *InputValidator) ValidateModelIDs(ids []string) ([]string, error) {
	seen := make(map[string]bool)
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		trimmed := strings.TrimSpace(id)
		if trimmed == "" || seen[trimmed] {
			continue
		}
		if err := iv.ValidateModelID(trimmed); err != nil {
			return nil, err
		}
		seen[trimmed] = true
		result = append(result, trimmed)
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("models list cannot be empty")
	}
	return result, nil
}
