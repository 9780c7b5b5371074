package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// DefaultBackupRetention is how many settings backups are kept
const DefaultBackupRetention = 3

// backupSuffix separates the settings file name from the backup timestamp
const backupSuffix = ".bak-"

// Backups keeps timestamped copies of a settings file next to it
type Backups struct {
	Retain int
}

// NewBackups returns a Backups keeping retain copies, or the default when
// retain is not positive
func NewBackups(retain int) *Backups {
	if retain <= 0 {
		retain = DefaultBackupRetention
	}
	return &Backups{Retain: retain}
}

// Create copies filePath to filePath.bak-<timestamp> and returns the copy's path
func (b *Backups) Create(filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", filePath, err)
	}
	// fixed width keeps lexical order equal to creation order
	path := filePath + backupSuffix + time.Now().UTC().Format("20060102T150405.000000000")
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	return path, nil
}

// List returns the backups of filePath, oldest first
func (b *Backups) List(filePath string) ([]string, error) {
	paths, err := filepath.Glob(filePath + backupSuffix + "*")
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}
	sort.Strings(paths)
	return paths, nil
}

// Prune removes all but the newest Retain backups
func (b *Backups) Prune(filePath string) error {
	paths, err := b.List(filePath)
	if err != nil {
		return err
	}
	for len(paths) > b.Retain {
		if err := os.Remove(paths[0]); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", paths[0], err)
		}
		paths = paths[1:]
	}
	return nil
}

// Restore replaces filePath with the content of backupPath. backupPath must
// be one of filePath's backups.
func (b *Backups) Restore(filePath, backupPath string) error {
	if ok, _ := filepath.Match(filePath+backupSuffix+"*", backupPath); !ok {
		return fmt.Errorf("%s is not a backup of %s", backupPath, filePath)
	}
	data, err := os.ReadFile(backupPath)
	if err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}
	return AtomicFileUpdate(filePath, data, false)
}

// RestoreLatest restores the newest backup and returns its path
func (b *Backups) RestoreLatest(filePath string) (string, error) {
	paths, err := b.List(filePath)
	if err != nil {
		return "", err
	}
	if len(paths) == 0 {
		return "", fmt.Errorf("no backups found for %s", filePath)
	}
	latest := paths[len(paths)-1]
	return latest, b.Restore(filePath, latest)
}
