/*
Copyright © 2025 SubstantialCattle5, nilaysharan.com
*/
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/fatih/color"

	"github.com/substantialcattle5/naib/internal/constants"
	"github.com/substantialcattle5/naib/internal/quarantine"
	"github.com/substantialcattle5/naib/util"
)

// Summary carries the final counts of one run. The orchestrator fills it
// in regardless of how far the run got.
type Summary struct {
	Mode              string        `json:"mode"`
	Apply             bool          `json:"apply"`
	Root              string        `json:"root"`
	Scanned           int           `json:"scanned"`
	Skipped           int           `json:"skipped"`
	SizeCandidates    int           `json:"sizeCandidates"`
	PartialCandidates int           `json:"partialCandidates"`
	Clusters          int           `json:"clusters"`
	Duplicates        int           `json:"duplicates"`
	ScanErrors        int           `json:"scanErrors"`
	HashErrors        int           `json:"hashErrors"`
	ActionFailures    int           `json:"actionFailures"`
	Acted             int           `json:"acted"`
	BytesReclaimable  int64         `json:"bytesReclaimable"`
	Duration          time.Duration `json:"duration"`
	ManifestPath      string        `json:"manifestPath,omitempty"`
}

// Reporter renders a run's action records into the log directory as CSV
// and JSON, and a human summary to a writer.
type Reporter struct {
	logDir string
	stamp  string
}

// NewReporter prepares the log directory for one run's report files.
func NewReporter(logDir string) (*Reporter, error) {
	if err := os.MkdirAll(logDir, constants.StandardDirPerms); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	return &Reporter{
		logDir: logDir,
		stamp:  time.Now().Format("20060102_150405"),
	}, nil
}

var csvHeader = []string{
	"digest", "size", "action", "survivor", "removed", "quarantine_path", "error",
}

// WriteCSV writes one row per action record, survivor and removable side
// by side so the file is greppable by either path.
func (r *Reporter) WriteCSV(records []quarantine.ActionRecord) (string, error) {
	path := filepath.Join(r.logDir, "duplicates_"+r.stamp+".csv")
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create csv report: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(csvHeader); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}
	for _, record := range records {
		row := []string{
			record.Digest,
			strconv.FormatInt(record.Size, 10),
			record.Action,
			record.SurvivorPath,
			record.RemovedPath,
			record.QuarantinePath,
			record.Error,
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv report: %w", err)
	}
	return path, nil
}

type jsonReport struct {
	Summary Summary                   `json:"summary"`
	Records []quarantine.ActionRecord `json:"records"`
}

// WriteJSON writes the machine-readable run report.
func (r *Reporter) WriteJSON(summary Summary, records []quarantine.ActionRecord) (string, error) {
	path := filepath.Join(r.logDir, "report_"+r.stamp+".json")
	data, err := json.MarshalIndent(jsonReport{Summary: summary, Records: records}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, constants.StandardFilePerms); err != nil {
		return "", fmt.Errorf("write json report: %w", err)
	}
	return path, nil
}

// RenderSummary prints the human summary of a run.
func (r *Reporter) RenderSummary(w io.Writer, summary Summary) {
	bold := color.New(color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	fmt.Fprintf(w, "\n%s\n", bold("Duplicate scan summary"))
	fmt.Fprintf(w, "  Root:              %s\n", summary.Root)
	fmt.Fprintf(w, "  Mode:              %s%s\n", summary.Mode, dryRunTag(summary))
	fmt.Fprintf(w, "  Files scanned:     %d (%d skipped)\n", summary.Scanned, summary.Skipped)
	fmt.Fprintf(w, "  Size candidates:   %d\n", summary.SizeCandidates)
	fmt.Fprintf(w, "  Hash candidates:   %d\n", summary.PartialCandidates)
	fmt.Fprintf(w, "  Duplicate sets:    %d (%d redundant files)\n", summary.Clusters, summary.Duplicates)
	fmt.Fprintf(w, "  Reclaimable:       %s\n", green(util.HumanReadableSize(summary.BytesReclaimable)))

	if summary.Acted > 0 {
		fmt.Fprintf(w, "  %s %d files %s\n", green("✓"), summary.Acted, actedVerb(summary.Mode))
	}
	if summary.ManifestPath != "" {
		fmt.Fprintf(w, "  Restore manifest:  %s\n", summary.ManifestPath)
	}

	errTotal := summary.ScanErrors + summary.HashErrors + summary.ActionFailures
	if errTotal > 0 {
		fmt.Fprintf(w, "  %s %d errors (%d scan, %d hash, %d action), see the log directory\n",
			yellow("⚠️"), errTotal, summary.ScanErrors, summary.HashErrors, summary.ActionFailures)
	}

	fmt.Fprintf(w, "  Elapsed:           %s\n", summary.Duration.Round(time.Millisecond))
}

func dryRunTag(summary Summary) string {
	if summary.Mode != constants.ModeReport && !summary.Apply {
		return " (dry run)"
	}
	return ""
}

func actedVerb(mode string) string {
	if mode == constants.ModeDelete {
		return "deleted"
	}
	return "quarantined"
}
