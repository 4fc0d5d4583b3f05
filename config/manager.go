package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"agsync/config/models"
	"agsync/config/validation"
	"agsync/internal/crypto"
)

// Manager owns the agsync account store. The store is the authoritative
// account list; the opencode accounts file only ever receives projections
// of it during a sync.
type Manager struct {
	storePath string
	keys      *crypto.KeyManager
	mu        sync.Mutex
}

// NewManager creates a new Manager with the unified store path
func NewManager() (*Manager, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}

	// Check XDG_CONFIG_HOME environment variable for custom config location
	xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfigHome == "" {
		xdgConfigHome = filepath.Join(homeDir, ".config")
	}

	storePath := filepath.Join(xdgConfigHome, "agsync", "accounts.json")

	if err := os.MkdirAll(filepath.Dir(storePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	keys, err := crypto.NewKeyManager()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize key manager: %w", err)
	}

	return &Manager{
		storePath: storePath,
		keys:      keys,
	}, nil
}

// NewManagerAt creates a Manager backed by an explicit store path.
// Used by tests and by callers that relocate the store.
func NewManagerAt(storePath string) (*Manager, error) {
	keys, err := crypto.NewKeyManager()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize key manager: %w", err)
	}
	return &Manager{storePath: storePath, keys: keys}, nil
}

// GetStorePath returns the path to the account store file
func (m *Manager) GetStorePath() string {
	return m.storePath
}

// loadStore loads the account store with a shared lock
func (m *Manager) loadStore() (*models.File, error) {
	file, err := os.OpenFile(m.storePath, os.O_RDONLY, 0600)
	if err != nil {
		if os.IsNotExist(err) {
			return &models.File{Accounts: []models.Account{}}, nil
		}
		return nil, fmt.Errorf("failed to open account store: %w", err)
	}
	defer file.Close()

	if err := lockFileShared(file); err != nil {
		return nil, fmt.Errorf("failed to lock account store: %w", err)
	}
	defer func() {
		if err := unlockFile(file); err != nil {
			fmt.Printf("⚠️  Failed to unlock file: %v\n", err)
		}
	}()

	data, err := os.ReadFile(m.storePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read account store: %w", err)
	}

	if len(data) == 0 {
		return &models.File{Accounts: []models.Account{}}, nil
	}

	var store models.File
	if err := json.Unmarshal(data, &store); err != nil {
		return nil, fmt.Errorf("failed to parse account store: %w", err)
	}

	// Decrypt refresh tokens at rest
	for i := range store.Accounts {
		if crypto.IsEncrypted(store.Accounts[i].RefreshToken) {
			plain, err := m.keys.Decrypt(store.Accounts[i].RefreshToken)
			if err != nil {
				return nil, fmt.Errorf("failed to decrypt refresh token for %s: %w", store.Accounts[i].Email, err)
			}
			store.Accounts[i].RefreshToken = plain
		}
	}

	return &store, nil
}

// saveStore saves the account store with an exclusive lock
func (m *Manager) saveStore(store *models.File) error {
	// Encrypt refresh tokens before they touch disk. Work on a copy so
	// the caller keeps plaintext tokens.
	out := models.File{Accounts: make([]models.Account, len(store.Accounts))}
	copy(out.Accounts, store.Accounts)
	for i := range out.Accounts {
		if out.Accounts[i].RefreshToken == "" || crypto.IsEncrypted(out.Accounts[i].RefreshToken) {
			continue
		}
		enc, err := m.keys.Encrypt(out.Accounts[i].RefreshToken)
		if err != nil {
			return fmt.Errorf("failed to encrypt refresh token: %w", err)
		}
		out.Accounts[i].RefreshToken = enc
	}

	data, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize account store: %w", err)
	}

	file, err := os.OpenFile(m.storePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open account store: %w", err)
	}
	defer file.Close()

	if err := lockFileExclusive(file); err != nil {
		return fmt.Errorf("failed to lock account store: %w", err)
	}
	defer func() {
		if err := unlockFile(file); err != nil {
			fmt.Printf("⚠️  Failed to unlock file: %v\n", err)
		}
	}()

	if _, err := file.Write(data); err != nil {
		return fmt.Errorf("failed to write account store: %w", err)
	}

	if err := file.Sync(); err != nil {
		return fmt.Errorf("failed to sync account store: %w", err)
	}

	return nil
}

// List returns all accounts with decrypted refresh tokens
func (m *Manager) List() ([]models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	store, err := m.loadStore()
	if err != nil {
		return nil, err
	}
	return store.Accounts, nil
}

// SyncEligible returns the accounts that should be projected into the
// opencode accounts file.
func (m *Manager) SyncEligible() ([]models.Account, error) {
	all, err := m.List()
	if err != nil {
		return nil, err
	}
	eligible := make([]models.Account, 0, len(all))
	for _, a := range all {
		if a.SyncEligible() {
			eligible = append(eligible, a)
		}
	}
	return eligible, nil
}

// Add registers a new account, or updates the refresh token and project
// of an existing account with the same email.
func (m *Manager) Add(email, refreshToken, projectID string) (*models.Account, error) {
	validator := validation.NewValidator()
	if err := validator.ValidateAccount(email, refreshToken); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	store, err := m.loadStore()
	if err != nil {
		return nil, err
	}

	now := time.Now().UnixMilli()

	for i, existing := range store.Accounts {
		if strings.EqualFold(existing.Email, email) {
			store.Accounts[i].RefreshToken = refreshToken
			if projectID != "" {
				store.Accounts[i].ProjectID = projectID
			}
			if err := m.saveStore(store); err != nil {
				return nil, err
			}
			updated := store.Accounts[i]
			return &updated, nil
		}
	}

	account := models.Account{
		ID:           uuid.NewString(),
		Email:        email,
		RefreshToken: refreshToken,
		ProjectID:    projectID,
		AddedAt:      now,
	}
	store.Accounts = append(store.Accounts, account)
	if err := m.saveStore(store); err != nil {
		return nil, err
	}
	return &account, nil
}

// Get returns an account by id or email
func (m *Manager) Get(idOrEmail string) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	store, err := m.loadStore()
	if err != nil {
		return nil, err
	}

	if a := findAccount(store, idOrEmail); a != nil {
		found := *a
		return &found, nil
	}
	return nil, fmt.Errorf("account '%s' does not exist", idOrEmail)
}

// Remove deletes an account by id or email
func (m *Manager) Remove(idOrEmail string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	store, err := m.loadStore()
	if err != nil {
		return err
	}

	for i, a := range store.Accounts {
		if a.ID == idOrEmail || strings.EqualFold(a.Email, idOrEmail) {
			store.Accounts = append(store.Accounts[:i], store.Accounts[i+1:]...)
			return m.saveStore(store)
		}
	}

	return fmt.Errorf("account '%s' does not exist", idOrEmail)
}

// SetDisabled toggles the hard-disabled flag of an account
func (m *Manager) SetDisabled(idOrEmail string, disabled bool) error {
	return m.update(idOrEmail, func(a *models.Account) {
		a.Disabled = disabled
	})
}

// SetProxyDisabled toggles the proxy-rotation flag of an account
func (m *Manager) SetProxyDisabled(idOrEmail string, disabled bool) error {
	return m.update(idOrEmail, func(a *models.Account) {
		a.ProxyDisabled = disabled
	})
}

// TouchLastUsed records a use of the account. Timestamps never move
// backwards.
func (m *Manager) TouchLastUsed(idOrEmail string, ts int64) error {
	return m.update(idOrEmail, func(a *models.Account) {
		if ts > a.LastUsed {
			a.LastUsed = ts
		}
	})
}

func (m *Manager) update(idOrEmail string, fn func(*models.Account)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	store, err := m.loadStore()
	if err != nil {
		return err
	}

	a := findAccount(store, idOrEmail)
	if a == nil {
		return fmt.Errorf("account '%s' does not exist", idOrEmail)
	}
	fn(a)
	return m.saveStore(store)
}

func findAccount(store *models.File, idOrEmail string) *models.Account {
	for i := range store.Accounts {
		if store.Accounts[i].ID == idOrEmail || strings.EqualFold(store.Accounts[i].Email, idOrEmail) {
			return &store.Accounts[i]
		}
	}
	return nil
}
