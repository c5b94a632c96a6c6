/*
Copyright © 2025 SubstantialCattle5, nilaysharan.com
*/
package quarantine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/substantialcattle5/naib/internal/constants"
)

// RestoreEntry maps one quarantined file back to where it came from. The
// full set of entries for a run losslessly inverts every move.
type RestoreEntry struct {
	OriginalPath   string `json:"originalPath"`
	QuarantinePath string `json:"quarantinePath"`
	Digest         string `json:"digest"`
	Size           int64  `json:"size"`
}

// Manifest is the restore manifest written after a run that moved at least
// one file. It is the single source of truth for undoing that run.
type Manifest struct {
	Version   int            `json:"version"`
	RunID     string         `json:"runId"`
	Root      string         `json:"root"`
	Algorithm string         `json:"algorithm"`
	CreatedAt time.Time      `json:"createdAt"`
	Entries   []RestoreEntry `json:"entries"`
}

// WriteManifest persists the manifest into dir with a tmp+rename so a crash
// mid-write never leaves a truncated manifest behind.
func WriteManifest(dir string, manifest *Manifest) (string, error) {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal manifest: %w", err)
	}

	final := filepath.Join(dir, constants.RestoreManifestName)
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, data, constants.SecureFilePerms); err != nil {
		return "", fmt.Errorf("write manifest: %w", err)
	}
	if err := os.Rename(tmp, final); err != nil {
		return "", fmt.Errorf("finalize manifest: %w", err)
	}
	return final, nil
}

// LoadManifest reads a restore manifest back from disk.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if manifest.Version != 1 {
		return nil, fmt.Errorf("unsupported manifest version %d in %s", manifest.Version, path)
	}
	return &manifest, nil
}
