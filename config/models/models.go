package models

// Account represents a single Antigravity account managed by agsync.
// This list is the authoritative side of the accounts reconciliation; the
// external accounts file only ever receives projections of it.
type Account struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	RefreshToken string `json:"refresh_token"`
	ProjectID    string `json:"project_id,omitempty"`
	AddedAt      int64  `json:"added_at"`
	LastUsed     int64  `json:"last_used"`
	// Disabled removes the account from every use; ProxyDisabled only
	// keeps it out of the proxy rotation. Either flag excludes the
	// account from the synced accounts file.
	Disabled      bool `json:"disabled,omitempty"`
	ProxyDisabled bool `json:"proxy_disabled,omitempty"`
}

// SyncEligible reports whether the account should appear in the external
// accounts file.
func (a Account) SyncEligible() bool {
	return !a.Disabled && !a.ProxyDisabled
}

// File represents the structure of the agsync account store
type File struct {
	Accounts []Account `json:"accounts"`
}
