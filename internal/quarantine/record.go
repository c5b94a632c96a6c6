package quarantine

import (
	"fmt"
	"time"
)

// Terminal states of a per-file action. Every removable starts out pending
// and ends in exactly one of these.
const (
	ActionReportOnly = "report-only"
	ActionDryRun     = "dry-run"
	ActionMoved      = "moved"
	ActionDeleted    = "deleted"
	ActionFailed     = "failed"
)

// ActionRecord documents what happened (or would happen) to one removable
// file. Records are append-only; a failed move never retries.
type ActionRecord struct {
	Digest           string    `json:"digest"`
	Size             int64     `json:"size"`
	SurvivorPath     string    `json:"survivorPath"`
	RemovedPath      string    `json:"removedPath"`
	QuarantinePath   string    `json:"quarantinePath,omitempty"`
	SurvivorModified time.Time `json:"survivorModified"`
	RemovedModified  time.Time `json:"removedModified"`
	Action           string    `json:"action"`
	Error            string    `json:"error,omitempty"`
	RecordedAt       time.Time `json:"recordedAt"`
}

// ActionError records a move or delete that failed for one file. The
// failure lands on the file's ActionRecord; the run continues.
type ActionError struct {
	Op   string
	Path string
	Err  error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}
