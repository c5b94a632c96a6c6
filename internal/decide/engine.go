/*
Copyright © 2025 SubstantialCattle5, nilaysharan.com
*/
package decide

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/substantialcattle5/naib/internal/group"
	"github.com/substantialcattle5/naib/internal/index"
)

// Tie-break levels, in the order they are consulted.
const (
	TieBreakFolderScore = "folder-score"
	TieBreakAge         = "age"
	TieBreakPathLength  = "path-length"
	TieBreakPathOrder   = "path-order"
)

// KeepDecision names the one cluster member to leave untouched and the
// ones subject to quarantine or deletion.
type KeepDecision struct {
	Survivor   index.FileDescriptor
	Removables []index.FileDescriptor
	Reason     string
	TieBreak   string
}

// SiblingProvider supplies the regular file names observed next to a
// candidate during the walk. The indexer implements this.
type SiblingProvider interface {
	SiblingFiles(dir string) []string
}

// Engine ranks cluster members and selects the survivor. It performs no
// filesystem I/O: directory facts come from the walk via the provider.
type Engine struct {
	siblings SiblingProvider
	rules    []Rule
}

// NewEngine creates a decision engine. A nil provider is allowed; sibling
// based rules then simply score zero.
func NewEngine(siblings SiblingProvider) *Engine {
	return &Engine{
		siblings: siblings,
		rules:    DefaultRules(),
	}
}

type scored struct {
	fd    index.FileDescriptor
	score int
}

// Decide selects the survivor of a cluster. A cluster with fewer than two
// members is a contract violation.
func (e *Engine) Decide(cluster group.DuplicateCluster) (KeepDecision, error) {
	if len(cluster.Members) < 2 {
		return KeepDecision{}, fmt.Errorf("cluster %s has %d members, need at least 2", cluster.Digest, len(cluster.Members))
	}

	candidates := make([]scored, 0, len(cluster.Members))
	for _, fd := range cluster.Members {
		candidates = append(candidates, scored{fd: fd, score: e.FolderScore(fd)})
	}

	// Total order, most preferred first. Members arrive path-sorted, and
	// the final comparison repeats that, so the order is deterministic.
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.score != b.score {
			return a.score > b.score
		}
		at, bt := a.fd.EffectiveCreation(), b.fd.EffectiveCreation()
		if !at.Equal(bt) {
			return at.Before(bt)
		}
		if len(a.fd.Path) != len(b.fd.Path) {
			return len(a.fd.Path) < len(b.fd.Path)
		}
		return a.fd.Path < b.fd.Path
	})

	survivor, runnerUp := candidates[0], candidates[1]

	removables := make([]index.FileDescriptor, 0, len(candidates)-1)
	for _, c := range candidates[1:] {
		removables = append(removables, c.fd)
	}

	tieBreak, reason := explain(survivor, runnerUp)

	return KeepDecision{
		Survivor:   survivor.fd,
		Removables: removables,
		Reason:     reason,
		TieBreak:   tieBreak,
	}, nil
}

// FolderScore sums every scoring rule for one candidate.
func (e *Engine) FolderScore(fd index.FileDescriptor) int {
	facts := e.factsFor(fd)
	total := 0
	for _, rule := range e.rules {
		total += rule.Score(facts)
	}
	return total
}

func (e *Engine) factsFor(fd index.FileDescriptor) Facts {
	dir := filepath.Dir(fd.Path)
	var siblings []string
	if e.siblings != nil {
		siblings = e.siblings.SiblingFiles(dir)
	}
	return Facts{
		FileName:     filepath.Base(fd.Path),
		DirName:      strings.ToLower(filepath.Base(dir)),
		SiblingFiles: siblings,
		Depth:        fd.Depth,
	}
}

// explain records which rule level separated the survivor from its closest
// competitor.
func explain(survivor, runnerUp scored) (string, string) {
	if survivor.score != runnerUp.score {
		return TieBreakFolderScore, fmt.Sprintf("folder-score %d>%d", survivor.score, runnerUp.score)
	}

	st, rt := survivor.fd.EffectiveCreation(), runnerUp.fd.EffectiveCreation()
	if !st.Equal(rt) {
		return TieBreakAge, fmt.Sprintf("age: %s<%s", st.Format("2006-01-02"), rt.Format("2006-01-02"))
	}

	if len(survivor.fd.Path) != len(runnerUp.fd.Path) {
		return TieBreakPathLength, fmt.Sprintf("path-length %d<%d", len(survivor.fd.Path), len(runnerUp.fd.Path))
	}

	// Last resort: deterministic lexicographic order, never arbitrary.
	return TieBreakPathOrder, fmt.Sprintf("path-order %s<%s", survivor.fd.Path, runnerUp.fd.Path)
}
