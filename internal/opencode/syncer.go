package opencode

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/tidwall/jsonc"

	"agsync/config/models"
	"agsync/config/storage"
	syncpkg "agsync/config/sync"
	"agsync/internal/utils"
)

// Syncer orchestrates reads and writes of the OpenCode config directory:
// backup first, transform the document, write atomically.
type Syncer struct {
	dir     string
	backups *storage.BackupManager
}

// NewSyncer creates a Syncer rooted at the OpenCode config directory
func NewSyncer() (*Syncer, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	return NewSyncerAt(dir), nil
}

// NewSyncerAt creates a Syncer rooted at an explicit directory.
// Used by tests.
func NewSyncerAt(dir string) *Syncer {
	return &Syncer{
		dir:     dir,
		backups: storage.NewBackupManager(),
	}
}

// ConfigPath returns the path of the managed opencode.json
func (s *Syncer) ConfigPath() string {
	return filepath.Join(s.dir, ConfigFile)
}

// AccountsPath returns the path of the managed accounts file
func (s *Syncer) AccountsPath() string {
	return filepath.Join(s.dir, AccountsFile)
}

// SyncOptions carries the inputs of a sync operation
type SyncOptions struct {
	ProxyURL string
	APIKey   string
	// ModelIDs selects a subset of the catalog; nil means all models.
	ModelIDs []string
	// Accounts, when non-nil, triggers the accounts file reconciliation
	// with this authoritative list.
	Accounts []models.Account
}

// Sync merges the managed provider into opencode.json and, when requested,
// reconciles the accounts file. The live file is backed up before the first
// modification ever made to it.
func (s *Syncer) Sync(opts SyncOptions) error {
	configPath := s.ConfigPath()

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory %s: %w", s.dir, err)
	}

	if err := s.backups.CreateBackup(configPath); err != nil {
		return err
	}

	doc := s.loadDocTolerant(configPath)
	updated := syncpkg.ApplySync(doc, opts.ProxyURL, opts.APIKey, opts.ModelIDs)

	if err := storage.AtomicFileUpdate(configPath, []byte(updated)); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}
	log.Debugf("synced %s", configPath)

	if opts.Accounts != nil {
		if err := s.syncAccountsFile(opts.Accounts); err != nil {
			return err
		}
	}

	return nil
}

// loadDocTolerant reads the config document for a sync. A missing or
// unreadable file yields an empty document; jsonc comments are stripped;
// anything still unparseable degrades to an empty document so a sync always
// produces a working config.
func (s *Syncer) loadDocTolerant(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Debugf("failed to read %s, starting fresh: %v", path, err)
		}
		return "{}"
	}

	doc := string(data)
	if gjson.Valid(doc) {
		return doc
	}

	// OpenCode tolerates comments and trailing commas in its config
	cleaned := string(jsonc.ToJSON(data))
	if gjson.Valid(cleaned) {
		return cleaned
	}

	log.Debugf("config at %s is not valid JSON, starting fresh", path)
	return "{}"
}

// syncAccountsFile projects the authoritative account list into the
// external accounts file, preserving externally-owned state.
func (s *Syncer) syncAccountsFile(accounts []models.Account) error {
	accountsPath := s.AccountsPath()

	if err := s.backups.CreateBackup(accountsPath); err != nil {
		return err
	}

	existing, err := os.ReadFile(accountsPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read %s: %w", accountsPath, err)
	}

	reconciled := syncpkg.ReconcileAccounts(accounts, existing, time.Now().UnixMilli())

	data, err := json.MarshalIndent(&reconciled, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize accounts file: %w", err)
	}

	if err := storage.AtomicFileUpdate(accountsPath, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", accountsPath, err)
	}
	log.Debugf("reconciled %d accounts into %s", len(reconciled.Accounts), accountsPath)

	return nil
}

// Clear removes the managed provider from opencode.json and returns the
// accounts file to its pre-sync state (restored from backup, or deleted
// when no backup exists). Unlike Sync, a malformed document is an error
// here: clearing must not silently discard a config it cannot parse.
func (s *Syncer) Clear(proxyURL string, clearLegacy bool) error {
	configPath := s.ConfigPath()

	if storage.FileExists(configPath) {
		if err := s.backups.CreateBackup(configPath); err != nil {
			return err
		}

		data, err := os.ReadFile(configPath)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", configPath, err)
		}

		doc := string(data)
		if !gjson.Valid(doc) {
			return fmt.Errorf("failed to parse %s: not valid JSON", configPath)
		}

		updated := syncpkg.ApplyClear(doc, proxyURL, clearLegacy)
		if err := storage.AtomicFileUpdate(configPath, []byte(updated)); err != nil {
			return fmt.Errorf("failed to write %s: %w", configPath, err)
		}
	}

	return s.resetAccountsFile()
}

// resetAccountsFile restores the accounts file from its backup, or deletes
// it when there is nothing to restore.
func (s *Syncer) resetAccountsFile() error {
	accountsPath := s.AccountsPath()

	restored, err := s.backups.RestoreBackup(accountsPath)
	if err != nil {
		return err
	}
	if restored {
		log.Debugf("restored %s from backup", accountsPath)
		return nil
	}

	if err := os.Remove(accountsPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", accountsPath, err)
	}
	return nil
}

// Restore puts both managed files back to their backed-up state. It fails
// only when neither file had a backup to restore.
func (s *Syncer) Restore() error {
	configRestored, err := s.backups.RestoreBackup(s.ConfigPath())
	if err != nil {
		return err
	}

	accountsRestored, err := s.backups.RestoreBackup(s.AccountsPath())
	if err != nil {
		return err
	}

	if !configRestored && !accountsRestored {
		return fmt.Errorf("no backup files found")
	}
	return nil
}

// Status describes the current sync state against a proxy URL
type Status struct {
	Installed      bool     `json:"installed"`
	Version        string   `json:"version,omitempty"`
	IsSynced       bool     `json:"isSynced"`
	HasBackup      bool     `json:"hasBackup"`
	CurrentBaseURL string   `json:"currentBaseUrl,omitempty"`
	Files          []string `json:"files"`
}

// Status inspects the installation and the managed config. A missing or
// malformed config file is a normal not-synced state, never an error.
func (s *Syncer) Status(proxyURL string) Status {
	status := Status{
		Files: append([]string(nil), ManagedFiles...),
	}

	status.Installed, status.Version = CheckInstalled()

	configPath := s.ConfigPath()
	status.HasBackup = s.backups.HasBackup(configPath)

	data, err := os.ReadFile(configPath)
	if err != nil {
		return status
	}

	baseURL, _, ok := syncpkg.ManagedOptions(string(data))
	if !ok {
		return status
	}

	status.CurrentBaseURL = baseURL
	status.IsSynced = utils.BaseURLMatches(baseURL, proxyURL)
	return status
}

// ReadRawFile returns the raw contents of one of the managed files. The
// name is validated against the allowlist before any file access; an empty
// name reads opencode.json.
func (s *Syncer) ReadRawFile(name string) (string, error) {
	if name == "" {
		name = ConfigFile
	}
	if !isManagedFile(name) {
		return "", fmt.Errorf("invalid file name: %s (allowed: %v)", name, ManagedFiles)
	}

	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("config file does not exist: %s", path)
		}
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}
