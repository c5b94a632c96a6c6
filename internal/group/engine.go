/*
Copyright © 2025 SubstantialCattle5, nilaysharan.com
*/
package group

import (
	"context"
	"fmt"
	"sort"

	"github.com/substantialcattle5/naib/internal/constants"
	"github.com/substantialcattle5/naib/internal/hash"
	"github.com/substantialcattle5/naib/internal/index"
	"github.com/substantialcattle5/naib/internal/logger"
)

// Engine narrows a set of file descriptors down to duplicate clusters in
// three passes: exact size, partial digest, full digest. Full hashing is
// the expensive path and only ever runs for files that already share a
// size and a sampled digest with at least one other file.
type Engine struct {
	hasher  *hash.Hasher
	workers int

	// OnProgress, when set, is called once per completed hash with the
	// pass name and running counts.
	OnProgress func(pass string, completed, total int)
}

// NewEngine creates a grouping engine backed by the given hasher and a
// bounded pool of hash workers.
func NewEngine(hasher *hash.Hasher, workers int) *Engine {
	return &Engine{hasher: hasher, workers: workers}
}

type partialKey struct {
	size   int64
	digest string
}

// FindClusters runs the three narrowing passes. Cancellation is honored
// between passes; a cancelled context returns what was confirmed so far
// along with the context error.
func (e *Engine) FindClusters(ctx context.Context, descriptors []index.FileDescriptor) (*Result, error) {
	result := &Result{}
	log := logger.Get()

	// Pass 1: group by exact size, drop singletons. A file whose size is
	// unique cannot have a content duplicate.
	bySize := make(map[int64][]index.FileDescriptor)
	for _, fd := range descriptors {
		bySize[fd.Size] = append(bySize[fd.Size], fd)
	}

	var sizeCandidates []index.FileDescriptor
	for _, members := range bySize {
		if len(members) < 2 {
			continue
		}
		sizeCandidates = append(sizeCandidates, members...)
	}
	result.SizeCandidates = len(sizeCandidates)
	log.Info().Int("candidates", len(sizeCandidates)).Msg("size grouping complete")

	if len(sizeCandidates) == 0 {
		return result, nil
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	// Pass 2: partial digests in parallel, then a sequential reduction
	// keyed by (size, partial digest). Singletons drop out.
	partialResults, err := runPool(ctx, e.workers, sizeCandidates,
		func(ctx context.Context, fd index.FileDescriptor) (string, error) {
			return e.hasher.PartialDigest(ctx, fd.Path)
		},
		e.progressFunc("partial", len(sizeCandidates)))
	if err != nil {
		return result, err
	}

	byPartial := make(map[partialKey][]index.FileDescriptor)
	for _, res := range partialResults {
		if res.err != nil {
			result.HashErrors = append(result.HashErrors, res.err)
			continue
		}
		key := partialKey{size: res.fd.Size, digest: res.digest}
		byPartial[key] = append(byPartial[key], res.fd)
	}

	var fullCandidates []index.FileDescriptor
	for _, members := range byPartial {
		if len(members) < 2 {
			continue
		}
		fullCandidates = append(fullCandidates, members...)
	}
	result.PartialCandidates = len(fullCandidates)
	log.Info().Int("candidates", len(fullCandidates)).Msg("partial digest triage complete")

	if len(fullCandidates) == 0 {
		return result, nil
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	// Pass 3: full digests for the survivors, confirm clusters.
	fullResults, err := runPool(ctx, e.workers, fullCandidates,
		func(ctx context.Context, fd index.FileDescriptor) (string, error) {
			return e.hasher.FullDigest(ctx, fd)
		},
		e.progressFunc("full", len(fullCandidates)))
	if err != nil {
		return result, err
	}

	type fullKey struct {
		size   int64
		digest string
	}
	byFull := make(map[fullKey][]index.FileDescriptor)
	for _, res := range fullResults {
		if res.err != nil {
			result.HashErrors = append(result.HashErrors, res.err)
			continue
		}
		key := fullKey{size: res.fd.Size, digest: res.digest}
		byFull[key] = append(byFull[key], res.fd)
	}

	for key, members := range byFull {
		if len(members) < 2 {
			continue
		}
		sort.Slice(members, func(i, j int) bool {
			return members[i].Path < members[j].Path
		})
		result.Clusters = append(result.Clusters, DuplicateCluster{
			Digest:  key.digest,
			Size:    key.size,
			Members: members,
		})
		result.Duplicates += len(members) - 1
	}

	// Deterministic cluster order for reporting and tests.
	sort.Slice(result.Clusters, func(i, j int) bool {
		return result.Clusters[i].Digest < result.Clusters[j].Digest
	})

	log.Info().
		Int("clusters", len(result.Clusters)).
		Int("duplicates", result.Duplicates).
		Int("hash_errors", len(result.HashErrors)).
		Msg("duplicate confirmation complete")

	return result, nil
}

func (e *Engine) progressFunc(pass string, total int) func() {
	if e.OnProgress == nil {
		return nil
	}
	completed := 0
	return func() {
		completed++
		e.OnProgress(pass, completed, total)
	}
}

// String implements fmt.Stringer for quick logging of a cluster.
func (c DuplicateCluster) String() string {
	return fmt.Sprintf("cluster %s (%d files, %d bytes each)", shortDigest(c.Digest), len(c.Members), c.Size)
}

func shortDigest(digest string) string {
	if len(digest) > constants.HashDisplayLength {
		return digest[:constants.HashDisplayLength]
	}
	return digest
}
