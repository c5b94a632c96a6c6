package group

import (
	"github.com/substantialcattle5/naib/internal/index"
)

// DuplicateCluster is a set of files confirmed to share identical content:
// same size and same full digest. Members are sorted by path so downstream
// decisions are deterministic.
type DuplicateCluster struct {
	Digest  string
	Size    int64
	Members []index.FileDescriptor
}

// Wasted returns the bytes that could be reclaimed by keeping one member.
func (c DuplicateCluster) Wasted() int64 {
	if len(c.Members) < 2 {
		return 0
	}
	return c.Size * int64(len(c.Members)-1)
}

// Result carries the confirmed clusters plus everything that went wrong on
// the way. Hash failures exclude a file from comparison, never abort a run.
type Result struct {
	Clusters   []DuplicateCluster
	HashErrors []error

	// Funnel counters, reported at the end of a run.
	SizeCandidates    int // files sharing a size with at least one other
	PartialCandidates int // files sharing size + partial digest
	Duplicates        int // removable copies across all clusters
}
