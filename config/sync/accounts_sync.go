package sync

import (
	"encoding/json"

	"agsync/config/models"
)

// AccountsSchemaVersion is the schema version written to the external
// accounts file, regardless of what version the input file carried.
const AccountsSchemaVersion = 3

// PluginAccount is a single record in the external accounts file. Fields
// past LastUsed are owned by the plugin once written; reconciliation
// carries them over verbatim and never synthesizes them. Opaque shapes
// (fingerprint, cached quota) stay raw so unknown sub-fields survive.
type PluginAccount struct {
	Email                string           `json:"email,omitempty"`
	RefreshToken         string           `json:"refreshToken"`
	ProjectID            string           `json:"projectId,omitempty"`
	AddedAt              int64            `json:"addedAt"`
	LastUsed             int64            `json:"lastUsed"`
	RateLimitResetTimes  map[string]int64 `json:"rateLimitResetTimes,omitempty"`
	ManagedProjectID     string           `json:"managedProjectId,omitempty"`
	Enabled              *bool            `json:"enabled,omitempty"`
	LastSwitchReason     string           `json:"lastSwitchReason,omitempty"`
	CoolingDownUntil     *int64           `json:"coolingDownUntil,omitempty"`
	CooldownReason       string           `json:"cooldownReason,omitempty"`
	Fingerprint          json.RawMessage  `json:"fingerprint,omitempty"`
	CachedQuota          json.RawMessage  `json:"cachedQuota,omitempty"`
	CachedQuotaUpdatedAt *int64           `json:"cachedQuotaUpdatedAt,omitempty"`
	FingerprintHistory   json.RawMessage  `json:"fingerprintHistory,omitempty"`
}

// PluginAccountsFile is the full external accounts file (schema v3).
type PluginAccountsFile struct {
	Version             int             `json:"version"`
	Accounts            []PluginAccount `json:"accounts"`
	ActiveIndex         int             `json:"activeIndex"`
	ActiveIndexByFamily map[string]int  `json:"activeIndexByFamily"`
}

// existingState is what reconciliation salvages from the previous file.
type existingState struct {
	byRefreshToken map[string]PluginAccount
	byEmail        map[string]PluginAccount
	activeIndex    int
	indexByFamily  map[string]int
}

// parseExistingAccounts reads the prior accounts file leniently: a missing
// or malformed file yields empty state, and individually malformed records
// are skipped rather than failing the whole parse.
func parseExistingAccounts(raw []byte) existingState {
	state := existingState{
		byRefreshToken: make(map[string]PluginAccount),
		byEmail:        make(map[string]PluginAccount),
		indexByFamily:  make(map[string]int),
	}
	if len(raw) == 0 {
		return state
	}

	var file struct {
		Accounts            []json.RawMessage `json:"accounts"`
		ActiveIndex         int               `json:"activeIndex"`
		ActiveIndexByFamily map[string]int    `json:"activeIndexByFamily"`
	}
	if err := json.Unmarshal(raw, &file); err != nil {
		return state
	}

	for _, entry := range file.Accounts {
		var acc PluginAccount
		if err := json.Unmarshal(entry, &acc); err != nil || acc.RefreshToken == "" {
			continue
		}
		state.byRefreshToken[acc.RefreshToken] = acc
		if acc.Email != "" {
			state.byEmail[acc.Email] = acc
		}
	}

	state.activeIndex = file.ActiveIndex
	for family, idx := range file.ActiveIndexByFamily {
		state.indexByFamily[family] = idx
	}
	return state
}

// clampIndex clamps idx into [0, count-1], or 0 for an empty list.
func clampIndex(idx, count int) int {
	if count <= 0 {
		return 0
	}
	if idx < 0 {
		return 0
	}
	if idx >= count {
		return count - 1
	}
	return idx
}

// ReconcileAccounts maps the authoritative account list into the external
// schema, preserving plugin-owned runtime state from the existing file.
// Records match by refresh token first, then by email. Disabled accounts
// are dropped from the output. now is the timestamp (unix millis) stamped
// onto newly appearing records.
func ReconcileAccounts(appAccounts []models.Account, existingRaw []byte, now int64) PluginAccountsFile {
	existing := parseExistingAccounts(existingRaw)

	accounts := make([]PluginAccount, 0, len(appAccounts))
	for _, acc := range appAccounts {
		if !acc.SyncEligible() {
			continue
		}

		prior, matched := existing.byRefreshToken[acc.RefreshToken]
		if !matched && acc.Email != "" {
			prior, matched = existing.byEmail[acc.Email]
		}

		record := PluginAccount{
			Email:        acc.Email,
			RefreshToken: acc.RefreshToken,
			ProjectID:    acc.ProjectID,
			AddedAt:      now,
			LastUsed:     acc.LastUsed,
		}
		if matched {
			record.AddedAt = prior.AddedAt
			if prior.LastUsed > record.LastUsed {
				record.LastUsed = prior.LastUsed
			}
			record.RateLimitResetTimes = prior.RateLimitResetTimes
			record.ManagedProjectID = prior.ManagedProjectID
			record.Enabled = prior.Enabled
			record.LastSwitchReason = prior.LastSwitchReason
			record.CoolingDownUntil = prior.CoolingDownUntil
			record.CooldownReason = prior.CooldownReason
			record.Fingerprint = prior.Fingerprint
			record.CachedQuota = prior.CachedQuota
			record.CachedQuotaUpdatedAt = prior.CachedQuotaUpdatedAt
			record.FingerprintHistory = prior.FingerprintHistory
		}

		accounts = append(accounts, record)
	}

	activeIndex := clampIndex(existing.activeIndex, len(accounts))
	indexByFamily := make(map[string]int, len(existing.indexByFamily)+2)
	for family, idx := range existing.indexByFamily {
		indexByFamily[family] = clampIndex(idx, len(accounts))
	}
	// The plugin expects both families to be addressable at all times.
	for _, family := range []string{"claude", "gemini"} {
		if _, ok := indexByFamily[family]; !ok {
			indexByFamily[family] = activeIndex
		}
	}

	return PluginAccountsFile{
		Version:             AccountsSchemaVersion,
		Accounts:            accounts,
		ActiveIndex:         activeIndex,
		ActiveIndexByFamily: indexByFamily,
	}
}
