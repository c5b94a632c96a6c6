/*
Copyright © 2025 SubstantialCattle5, nilaysharan.com
*/
package orchestrator

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/substantialcattle5/naib/internal/config"
	"github.com/substantialcattle5/naib/internal/decide"
	"github.com/substantialcattle5/naib/internal/group"
	"github.com/substantialcattle5/naib/internal/hash"
	"github.com/substantialcattle5/naib/internal/index"
	"github.com/substantialcattle5/naib/internal/logger"
	"github.com/substantialcattle5/naib/internal/progress"
	"github.com/substantialcattle5/naib/internal/quarantine"
	"github.com/substantialcattle5/naib/internal/report"
)

// Result is everything one run produced: the final counts, every action
// record, and the paths of the artifacts written to disk.
type Result struct {
	Summary      report.Summary
	Records      []quarantine.ActionRecord
	Clusters     []group.DuplicateCluster
	ManifestPath string
	CSVPath      string
	JSONPath     string
}

// Runner sequences one full run: index, group, decide, act, report. It is
// the only component that knows the execution mode; everything below it
// works from the validated configuration it is handed.
type Runner struct {
	cfg      config.Config
	progress *progress.Manager
	out      io.Writer
}

// NewRunner validates the configuration before anything else. A
// configuration violation aborts here, before a single file is touched.
func NewRunner(cfg config.Config, pm *progress.Manager, out io.Writer) (*Runner, error) {
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if pm == nil {
		pm = progress.NewManager(progress.Options{Quiet: true})
	}
	return &Runner{cfg: cfg, progress: pm, out: out}, nil
}

// Config returns the normalized configuration the runner works from.
func (r *Runner) Config() config.Config {
	return r.cfg
}

// Run executes the pipeline. Cancellation is cooperative: the run stops
// between pipeline stages, in-flight hashes finish first, and the summary
// is still rendered from whatever completed.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	started := time.Now()
	log := logger.Get()
	result := &Result{Summary: report.Summary{
		Mode:  r.cfg.Mode,
		Apply: r.cfg.Apply,
		Root:  r.cfg.Root,
	}}

	throttle, err := hash.NewThrottle(r.cfg.IOLimit)
	if err != nil {
		return nil, err
	}
	hasher, err := hash.NewHasher(r.cfg.HashAlgorithm, throttle)
	if err != nil {
		return nil, err
	}

	// Stage 1: index. The tool's own output trees are never scanned.
	r.progress.PrintInfo("Scanning %s...\n", r.cfg.Root)
	scanCfg := r.cfg
	scanCfg.ExcludePaths = append(append([]string{}, r.cfg.ExcludePaths...),
		r.cfg.QuarantineRoot, r.cfg.LogDir)
	indexer := index.NewIndexer(scanCfg)
	var descriptors []index.FileDescriptor
	if err := indexer.Walk(ctx, func(fd index.FileDescriptor) {
		descriptors = append(descriptors, fd)
	}); err != nil {
		return r.finish(result, started, err)
	}
	result.Summary.Scanned = indexer.Scanned()
	result.Summary.Skipped = indexer.Skipped()
	result.Summary.ScanErrors = len(indexer.ScanErrors())

	// Stage 2: narrow to confirmed clusters.
	engine := group.NewEngine(hasher, r.cfg.Workers)
	currentPass := ""
	engine.OnProgress = func(pass string, completed, total int) {
		if pass != currentPass {
			currentPass = pass
			r.progress.StartStage(passLabel(pass), total)
		}
		r.progress.SetStageProgress(completed)
	}
	groups, err := engine.FindClusters(ctx, descriptors)
	r.progress.FinishStage()
	result.Summary.SizeCandidates = groups.SizeCandidates
	result.Summary.PartialCandidates = groups.PartialCandidates
	result.Summary.Clusters = len(groups.Clusters)
	result.Summary.Duplicates = groups.Duplicates
	result.Summary.HashErrors = len(groups.HashErrors)
	result.Clusters = groups.Clusters
	if err != nil {
		return r.finish(result, started, err)
	}

	// Stage 3 and 4: decide and act, sequentially per cluster.
	decider := decide.NewEngine(indexer)
	manager, err := quarantine.NewManager(quarantine.Options{
		Mode:           r.cfg.Mode,
		Apply:          r.cfg.Apply,
		Confirm:        r.cfg.Confirm,
		Root:           r.cfg.Root,
		QuarantineRoot: r.cfg.QuarantineRoot,
		Algorithm:      r.cfg.HashAlgorithm,
	})
	if err != nil {
		return r.finish(result, started, err)
	}

	for _, cluster := range groups.Clusters {
		if err := ctx.Err(); err != nil {
			return r.finish(result, started, err)
		}

		decision, err := decider.Decide(cluster)
		if err != nil {
			return r.finish(result, started, err)
		}
		result.Summary.BytesReclaimable += cluster.Wasted()

		log.Debug().
			Str("cluster", cluster.String()).
			Str("survivor", decision.Survivor.Path).
			Str("reason", decision.Reason).
			Msg("keep decision")

		if err := manager.Apply(cluster, decision); err != nil {
			return r.finish(result, started, err)
		}
	}

	result.Records = manager.Records()
	for _, record := range result.Records {
		switch record.Action {
		case quarantine.ActionMoved, quarantine.ActionDeleted:
			result.Summary.Acted++
		case quarantine.ActionFailed:
			result.Summary.ActionFailures++
		}
	}

	manifestPath, err := manager.Finish()
	if err != nil {
		return r.finish(result, started, err)
	}
	result.ManifestPath = manifestPath
	result.Summary.ManifestPath = manifestPath

	return r.finish(result, started, nil)
}

// finish renders whatever is known so far. Reports are written even for a
// cancelled run so partial findings are never lost.
func (r *Runner) finish(result *Result, started time.Time, runErr error) (*Result, error) {
	result.Summary.Duration = time.Since(started)

	reporter, err := report.NewReporter(r.cfg.LogDir)
	if err != nil {
		if runErr != nil {
			return result, runErr
		}
		return result, err
	}

	if csvPath, err := reporter.WriteCSV(result.Records); err == nil {
		result.CSVPath = csvPath
	} else if runErr == nil {
		runErr = err
	}
	if jsonPath, err := reporter.WriteJSON(result.Summary, result.Records); err == nil {
		result.JSONPath = jsonPath
	} else if runErr == nil {
		runErr = err
	}

	if r.out != nil {
		reporter.RenderSummary(r.out, result.Summary)
	}

	return result, runErr
}

func passLabel(pass string) string {
	switch pass {
	case "partial":
		return "Sampling candidates"
	case "full":
		return "Confirming duplicates"
	default:
		return fmt.Sprintf("Hashing (%s)", pass)
	}
}
