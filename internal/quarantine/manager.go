/*
Copyright © 2025 SubstantialCattle5, nilaysharan.com
*/
package quarantine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/substantialcattle5/naib/internal/constants"
	"github.com/substantialcattle5/naib/internal/decide"
	"github.com/substantialcattle5/naib/internal/group"
	"github.com/substantialcattle5/naib/internal/logger"
)

// Options configures a quarantine run.
type Options struct {
	Mode           string // report, quarantine or delete
	Apply          bool   // false means record only, touch nothing
	Confirm        bool   // required for applied deletes
	Root           string // scan root; quarantine mirrors paths relative to it
	QuarantineRoot string // parent directory of per-run session dirs
	Algorithm      string // recorded in the manifest for restore verification
}

// Manager carries out the keep decisions of one run. It never touches a
// survivor, records every outcome, and treats per-file failures as
// non-fatal.
type Manager struct {
	opts       Options
	runID      string
	sessionDir string
	records    []ActionRecord
	restores   []RestoreEntry
}

// NewManager validates the options and prepares a run. An applied delete
// without explicit confirmation is refused here as well as at config
// validation, so no caller can reach os.Remove without both flags.
func NewManager(opts Options) (*Manager, error) {
	switch opts.Mode {
	case constants.ModeReport, constants.ModeQuarantine, constants.ModeDelete:
	default:
		return nil, fmt.Errorf("unknown execution mode: %q", opts.Mode)
	}
	if opts.Mode == constants.ModeDelete && opts.Apply && !opts.Confirm {
		return nil, fmt.Errorf("delete mode requires explicit confirmation before any file is removed")
	}
	if opts.Mode == constants.ModeQuarantine && opts.Apply && opts.QuarantineRoot == "" {
		return nil, fmt.Errorf("quarantine mode requires a quarantine root")
	}
	return &Manager{opts: opts, runID: uuid.New().String()}, nil
}

// RunID identifies this run in records and the manifest.
func (m *Manager) RunID() string {
	return m.runID
}

// Apply acts on every removable of one decision. The survivor is never a
// target; failures are recorded on the file's ActionRecord and do not stop
// the run.
func (m *Manager) Apply(cluster group.DuplicateCluster, decision decide.KeepDecision) error {
	log := logger.Get()

	for _, removable := range decision.Removables {
		if removable.Path == decision.Survivor.Path {
			return fmt.Errorf("survivor %s listed as removable in cluster %s", removable.Path, cluster.Digest)
		}

		record := ActionRecord{
			Digest:           cluster.Digest,
			Size:             cluster.Size,
			SurvivorPath:     decision.Survivor.Path,
			RemovedPath:      removable.Path,
			SurvivorModified: decision.Survivor.ModifiedAt,
			RemovedModified:  removable.ModifiedAt,
			RecordedAt:       time.Now(),
		}

		switch {
		case m.opts.Mode == constants.ModeReport:
			record.Action = ActionReportOnly
		case !m.opts.Apply:
			record.Action = ActionDryRun
		case m.opts.Mode == constants.ModeQuarantine:
			dest, err := m.moveToQuarantine(removable.Path, cluster.Digest)
			if err != nil {
				record.Action = ActionFailed
				record.Error = err.Error()
				log.Warn().Err(err).Str("path", removable.Path).Msg("quarantine move failed")
			} else {
				record.Action = ActionMoved
				record.QuarantinePath = dest
				m.restores = append(m.restores, RestoreEntry{
					OriginalPath:   removable.Path,
					QuarantinePath: dest,
					Digest:         cluster.Digest,
					Size:           cluster.Size,
				})
				log.Debug().Str("from", removable.Path).Str("to", dest).Msg("quarantined")
			}
		case m.opts.Mode == constants.ModeDelete:
			if err := os.Remove(removable.Path); err != nil {
				record.Action = ActionFailed
				record.Error = (&ActionError{Op: "delete", Path: removable.Path, Err: err}).Error()
				log.Warn().Err(err).Str("path", removable.Path).Msg("delete failed")
			} else {
				record.Action = ActionDeleted
				log.Debug().Str("path", removable.Path).Msg("deleted")
			}
		}

		m.records = append(m.records, record)
	}

	return nil
}

// Finish writes the restore manifest if anything was moved. It returns the
// manifest path, or "" when there was nothing to undo.
func (m *Manager) Finish() (string, error) {
	if len(m.restores) == 0 {
		return "", nil
	}
	manifest := &Manifest{
		Version:   1,
		RunID:     m.runID,
		Root:      m.opts.Root,
		Algorithm: m.opts.Algorithm,
		CreatedAt: time.Now(),
		Entries:   m.restores,
	}
	return WriteManifest(m.sessionDir, manifest)
}

// Records returns every ActionRecord of the run so far.
func (m *Manager) Records() []ActionRecord {
	return m.records
}

// RestoreEntries returns the moves performed so far.
func (m *Manager) RestoreEntries() []RestoreEntry {
	return m.restores
}

// moveToQuarantine moves one file into the session directory, mirroring its
// path relative to the scan root. Collisions get the cluster digest spliced
// into the name; an existing destination is never overwritten.
func (m *Manager) moveToQuarantine(path, digest string) (string, error) {
	if err := m.ensureSessionDir(); err != nil {
		return "", err
	}

	dest := filepath.Join(m.sessionDir, m.mirrorPath(path))
	if err := os.MkdirAll(filepath.Dir(dest), constants.SecureDirPerms); err != nil {
		return "", &ActionError{Op: "quarantine", Path: path, Err: err}
	}

	if _, err := os.Lstat(dest); err == nil {
		dest = disambiguate(dest, digest)
		if _, err := os.Lstat(dest); err == nil {
			return "", &ActionError{Op: "quarantine", Path: path, Err: fmt.Errorf("destination %s already exists", dest)}
		}
	}

	if err := os.Rename(path, dest); err != nil {
		return "", &ActionError{Op: "quarantine", Path: path, Err: err}
	}
	return dest, nil
}

// ensureSessionDir creates the per-run directory on first use, so dry runs
// and pure deletes never leave an empty quarantine tree behind.
func (m *Manager) ensureSessionDir() error {
	if m.sessionDir != "" {
		return nil
	}
	dir := filepath.Join(m.opts.QuarantineRoot, time.Now().Format("20060102_150405")+"_"+shortRunID(m.runID))
	if err := os.MkdirAll(dir, constants.SecureDirPerms); err != nil {
		return &ActionError{Op: "quarantine", Path: dir, Err: err}
	}
	m.sessionDir = dir
	return nil
}

// mirrorPath maps an absolute file path to its location under the session
// directory. Paths outside the scan root collapse to their base name.
func (m *Manager) mirrorPath(path string) string {
	rel, err := filepath.Rel(m.opts.Root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.Base(path)
	}
	return rel
}

func disambiguate(dest, digest string) string {
	short := digest
	if len(short) > constants.HashDisplayLength {
		short = short[:constants.HashDisplayLength]
	}
	ext := filepath.Ext(dest)
	return strings.TrimSuffix(dest, ext) + "_" + short + ext
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
