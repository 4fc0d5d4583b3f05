package validation

import (
	"fmt"
	"strings"
)

// Validator validates accounts before they enter the store
type Validator struct {
}

// NewValidator creates a new Validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAccount validates an account's identifying fields
func (v *Validator) ValidateAccount(email, refreshToken string) error {
	if err := v.ValidateEmail(email); err != nil {
		return err
	}
	if strings.TrimSpace(refreshToken) == "" {
		return fmt.Errorf("refresh token cannot be empty")
	}
	return nil
}

// ValidateEmail performs a shallow shape check. The upstream OAuth flow is
// the real authority on what counts as a valid account email.
func (v *Validator) ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return fmt.Errorf("invalid email format: %s", email)
	}
	if strings.ContainsAny(email, " <>\"'") {
		return fmt.Errorf("email contains invalid characters")
	}
	return nil
}
