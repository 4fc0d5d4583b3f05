package storage

import (
	"fmt"
	"io"
	"os"
)

// Backup suffixes, newest convention first. Restore walks this list in
// order, so adding another legacy suffix later is a one-line change. New
// backups are only ever written under the first entry.
const (
	BackupSuffix    = ".antigravity-manager.bak"
	OldBackupSuffix = ".antigravity.bak"
)

var backupSuffixes = []string{BackupSuffix, OldBackupSuffix}

// BackupManager creates and restores pre-sync snapshots of the files agsync
// rewrites. At most one backup exists per file: the first snapshot wins and
// is never overwritten, so repeated syncs cannot erode the user's original.
type BackupManager struct{}

// NewBackupManager creates a new BackupManager
func NewBackupManager() *BackupManager {
	return &BackupManager{}
}

// CreateBackup snapshots filePath to filePath+BackupSuffix. It is a no-op
// when the target does not exist or a current-suffix backup is already
// present.
func (bm *BackupManager) CreateBackup(filePath string) error {
	if !FileExists(filePath) {
		return nil
	}

	backupPath := filePath + BackupSuffix
	if FileExists(backupPath) {
		return nil
	}

	if err := copyFile(filePath, backupPath); err != nil {
		return fmt.Errorf("failed to create backup of %s: %w", filePath, err)
	}
	return nil
}

// FindBackup returns the path of the best available backup for filePath,
// checking the suffix conventions in priority order. ok is false when no
// backup exists.
func (bm *BackupManager) FindBackup(filePath string) (backupPath string, ok bool) {
	for _, suffix := range backupSuffixes {
		candidate := filePath + suffix
		if FileExists(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// HasBackup reports whether any backup exists for filePath.
func (bm *BackupManager) HasBackup(filePath string) bool {
	_, ok := bm.FindBackup(filePath)
	return ok
}

// RestoreBackup moves the backup for filePath back into place, replacing
// whatever is currently at the target. The backup is consumed by the
// rename; a second restore needs a fresh backup. restored is false when no
// backup existed, which is not an error at this level.
func (bm *BackupManager) RestoreBackup(filePath string) (restored bool, err error) {
	backupPath, ok := bm.FindBackup(filePath)
	if !ok {
		return false, nil
	}

	if FileExists(filePath) {
		if err := os.Remove(filePath); err != nil {
			return false, fmt.Errorf("failed to remove %s before restore: %w", filePath, err)
		}
	}

	if err := os.Rename(backupPath, filePath); err != nil {
		return false, fmt.Errorf("failed to restore %s from %s: %w", filePath, backupPath, err)
	}
	return true, nil
}

// copyFile copies a file from src to dst, preserving permissions.
func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return err
	}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}
	return os.Chmod(dst, srcInfo.Mode())
}
