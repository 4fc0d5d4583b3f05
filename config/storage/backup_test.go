package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

func TestCreateBackupMissingTargetIsNoop(t *testing.T) {
	bm := NewBackupManager()
	target := filepath.Join(t.TempDir(), "opencode.json")

	if err := bm.CreateBackup(target); err != nil {
		t.Fatalf("backup of missing file should be a no-op: %v", err)
	}
	if bm.HasBackup(target) {
		t.Error("no backup should exist for a missing file")
	}
}

func TestCreateBackupFirstSnapshotWins(t *testing.T) {
	bm := NewBackupManager()
	target := filepath.Join(t.TempDir(), "opencode.json")

	writeFile(t, target, `{"version":1}`)
	if err := bm.CreateBackup(target); err != nil {
		t.Fatal(err)
	}

	// Mutate and back up again: the original snapshot must survive.
	writeFile(t, target, `{"version":2}`)
	if err := bm.CreateBackup(target); err != nil {
		t.Fatal(err)
	}

	if got := readFile(t, target+BackupSuffix); got != `{"version":1}` {
		t.Errorf("backup should hold the first snapshot, got %s", got)
	}
}

func TestRestoreBackupRoundTrip(t *testing.T) {
	bm := NewBackupManager()
	target := filepath.Join(t.TempDir(), "opencode.json")

	writeFile(t, target, "original")
	if err := bm.CreateBackup(target); err != nil {
		t.Fatal(err)
	}
	writeFile(t, target, "mutated")

	restored, err := bm.RestoreBackup(target)
	if err != nil {
		t.Fatal(err)
	}
	if !restored {
		t.Fatal("restore should have found the backup")
	}
	if got := readFile(t, target); got != "original" {
		t.Errorf("restored content = %q, want original", got)
	}

	// The rename consumed the backup.
	if bm.HasBackup(target) {
		t.Error("backup should be consumed by restore")
	}
	restored, err = bm.RestoreBackup(target)
	if err != nil {
		t.Fatal(err)
	}
	if restored {
		t.Error("second restore should report nothing to do")
	}
}

func TestRestorePrefersCurrentSuffix(t *testing.T) {
	bm := NewBackupManager()
	target := filepath.Join(t.TempDir(), "opencode.json")

	writeFile(t, target, "live")
	writeFile(t, target+BackupSuffix, "new-suffix")
	writeFile(t, target+OldBackupSuffix, "old-suffix")

	restored, err := bm.RestoreBackup(target)
	if err != nil || !restored {
		t.Fatalf("restore failed: restored=%v err=%v", restored, err)
	}
	if got := readFile(t, target); got != "new-suffix" {
		t.Errorf("current suffix should win, got %q", got)
	}
}

func TestRestoreFallsBackToLegacySuffix(t *testing.T) {
	bm := NewBackupManager()
	target := filepath.Join(t.TempDir(), "opencode.json")

	writeFile(t, target, "live")
	writeFile(t, target+OldBackupSuffix, "legacy")

	restored, err := bm.RestoreBackup(target)
	if err != nil || !restored {
		t.Fatalf("restore failed: restored=%v err=%v", restored, err)
	}
	if got := readFile(t, target); got != "legacy" {
		t.Errorf("legacy backup should be used, got %q", got)
	}
}

func TestRestoreWithoutLiveTarget(t *testing.T) {
	bm := NewBackupManager()
	target := filepath.Join(t.TempDir(), "opencode.json")

	writeFile(t, target+BackupSuffix, "snapshot")

	restored, err := bm.RestoreBackup(target)
	if err != nil || !restored {
		t.Fatalf("restore failed: restored=%v err=%v", restored, err)
	}
	if got := readFile(t, target); got != "snapshot" {
		t.Errorf("got %q", got)
	}
}

func TestAtomicFileUpdate(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "opencode.json")

	if err := AtomicFileUpdate(target, []byte(`{"a":1}`)); err != nil {
		t.Fatal(err)
	}
	if got := readFile(t, target); got != `{"a":1}` {
		t.Errorf("got %q", got)
	}

	if err := AtomicFileUpdate(target, []byte(`{"a":2}`)); err != nil {
		t.Fatal(err)
	}
	if got := readFile(t, target); got != `{"a":2}` {
		t.Errorf("got %q", got)
	}

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the target file in %s, found %d entries", dir, len(entries))
	}
}
