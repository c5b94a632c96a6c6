package decide

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/substantialcattle5/naib/internal/group"
	"github.com/substantialcattle5/naib/internal/index"
)

type fakeSiblings map[string][]string

func (f fakeSiblings) SiblingFiles(dir string) []string {
	return f[dir]
}

func at(year int) time.Time {
	return time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
}

func member(path string, depth int, created time.Time) index.FileDescriptor {
	return index.FileDescriptor{
		Path:       path,
		Size:       3,
		CreatedAt:  created,
		ModifiedAt: created,
		Depth:      depth,
	}
}

func clusterOf(members ...index.FileDescriptor) group.DuplicateCluster {
	return group.DuplicateCluster{
		Digest:  "abcdef0123456789",
		Size:    3,
		Members: members,
	}
}

func TestDecideRejectsDegenerateClusters(t *testing.T) {
	engine := NewEngine(nil)

	_, err := engine.Decide(group.DuplicateCluster{})
	require.Error(t, err, "empty cluster is a contract violation")

	_, err = engine.Decide(clusterOf(member("/root/a.txt", 0, at(2020))))
	require.Error(t, err, "single-member cluster is a contract violation")
}

func TestProjectFolderBeatsTransient(t *testing.T) {
	siblings := fakeSiblings{
		"/root/src": {"a.txt", "go.mod"},
		"/root/tmp": {"b.txt", "c.txt"},
	}
	engine := NewEngine(siblings)

	decision, err := engine.Decide(clusterOf(
		member("/root/src/a.txt", 1, at(2022)),
		member("/root/tmp/b.txt", 1, at(2020)),
		member("/root/tmp/c.txt", 1, at(2020)),
	))
	require.NoError(t, err)

	assert.Equal(t, "/root/src/a.txt", decision.Survivor.Path)
	assert.Equal(t, TieBreakFolderScore, decision.TieBreak)
	assert.True(t, strings.HasPrefix(decision.Reason, "folder-score "), "reason %q", decision.Reason)
	assert.Len(t, decision.Removables, 2)
}

func TestAgeBreaksFolderScoreTie(t *testing.T) {
	engine := NewEngine(nil)

	decision, err := engine.Decide(clusterOf(
		member("/root/x/old.txt", 1, at(2020)),
		member("/root/y/new.txt", 1, at(2021)),
	))
	require.NoError(t, err)

	assert.Equal(t, "/root/x/old.txt", decision.Survivor.Path)
	assert.Equal(t, TieBreakAge, decision.TieBreak)
	assert.Equal(t, "age: 2020-01-01<2021-01-01", decision.Reason)
}

func TestEffectiveCreationUsesEarlierOfCtimeMtime(t *testing.T) {
	engine := NewEngine(nil)

	// Creation time newer than modification time (copied file): the
	// modification time wins as the age signal.
	copied := index.FileDescriptor{
		Path:       "/root/x/copied.txt",
		Size:       3,
		CreatedAt:  at(2023),
		ModifiedAt: at(2019),
		Depth:      1,
	}
	original := member("/root/y/original.txt", 1, at(2020))

	decision, err := engine.Decide(clusterOf(copied, original))
	require.NoError(t, err)

	assert.Equal(t, "/root/x/copied.txt", decision.Survivor.Path)
	assert.Equal(t, TieBreakAge, decision.TieBreak)
}

func TestPathLengthBreaksAgeTie(t *testing.T) {
	engine := NewEngine(nil)

	decision, err := engine.Decide(clusterOf(
		member("/root/x/a.txt", 1, at(2020)),
		member("/root/x/abcd.txt", 1, at(2020)),
	))
	require.NoError(t, err)

	assert.Equal(t, "/root/x/a.txt", decision.Survivor.Path)
	assert.Equal(t, TieBreakPathLength, decision.TieBreak)
	assert.Equal(t, "path-length 13<16", decision.Reason)
}

func TestLexicographicLastResort(t *testing.T) {
	engine := NewEngine(nil)

	decision, err := engine.Decide(clusterOf(
		member("/root/x/a.txt", 1, at(2020)),
		member("/root/x/b.txt", 1, at(2020)),
	))
	require.NoError(t, err)

	assert.Equal(t, "/root/x/a.txt", decision.Survivor.Path)
	assert.Equal(t, TieBreakPathOrder, decision.TieBreak)
}

func TestSurvivorNeverAmongRemovables(t *testing.T) {
	engine := NewEngine(nil)

	members := []index.FileDescriptor{
		member("/root/a/f.txt", 1, at(2020)),
		member("/root/b/f.txt", 1, at(2021)),
		member("/root/c/f.txt", 1, at(2022)),
	}
	decision, err := engine.Decide(clusterOf(members...))
	require.NoError(t, err)

	seen := map[string]bool{decision.Survivor.Path: true}
	for _, r := range decision.Removables {
		assert.NotEqual(t, decision.Survivor.Path, r.Path, "survivor listed as removable")
		seen[r.Path] = true
	}
	// {survivor} ∪ removables must equal the cluster.
	assert.Len(t, seen, len(members))
	for _, m := range members {
		assert.True(t, seen[m.Path], "cluster member %s missing from decision", m.Path)
	}
}

func TestDecideIsDeterministic(t *testing.T) {
	siblings := fakeSiblings{
		"/root/documents": {"f.txt"},
		"/root/stash":     {"f.txt"},
	}
	engine := NewEngine(siblings)

	cluster := clusterOf(
		member("/root/documents/f.txt", 1, at(2020)),
		member("/root/stash/f.txt", 1, at(2020)),
	)

	first, err := engine.Decide(cluster)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := engine.Decide(cluster)
		require.NoError(t, err)
		assert.Equal(t, first.Survivor.Path, again.Survivor.Path)
		assert.Equal(t, first.Reason, again.Reason)
	}
}

func TestFolderScoreComposition(t *testing.T) {
	siblings := fakeSiblings{
		"/root/src": {"main.go", "go.mod"},
	}
	engine := NewEngine(siblings)

	// project indicator (+50) + project dir name (+30) − depth 1 (−2)
	score := engine.FolderScore(member("/root/src/main.go", 1, at(2020)))
	assert.Equal(t, 78, score)
}
