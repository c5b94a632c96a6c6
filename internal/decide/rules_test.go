package decide

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ruleByName(t *testing.T, name string) Rule {
	t.Helper()
	for _, rule := range DefaultRules() {
		if rule.Name == name {
			return rule
		}
	}
	t.Fatalf("no rule named %s", name)
	return Rule{}
}

func TestProjectIndicatorAppliedOnce(t *testing.T) {
	rule := ruleByName(t, "project-indicator")

	// Several indicators in one directory still score a single +50.
	facts := Facts{
		DirName:      "myproject",
		SiblingFiles: []string{"go.mod", "Makefile", ".gitignore", "main.go"},
	}
	assert.Equal(t, 50, rule.Score(facts))

	assert.Equal(t, 0, rule.Score(Facts{DirName: "plain", SiblingFiles: []string{"a.txt"}}))
}

func TestProjectDirName(t *testing.T) {
	rule := ruleByName(t, "project-dir-name")

	assert.Equal(t, 30, rule.Score(Facts{DirName: "src"}))
	assert.Equal(t, 30, rule.Score(Facts{DirName: "lib"}))
	assert.Equal(t, 0, rule.Score(Facts{DirName: "holiday-snaps"}))
}

func TestUserContentDir(t *testing.T) {
	rule := ruleByName(t, "user-content-dir")

	assert.Equal(t, 40, rule.Score(Facts{DirName: "documents"}))
	assert.Equal(t, 40, rule.Score(Facts{DirName: "my photos"}))
	assert.Equal(t, 0, rule.Score(Facts{DirName: "src"}))
}

func TestTransientDir(t *testing.T) {
	rule := ruleByName(t, "transient-dir")

	assert.Equal(t, -100, rule.Score(Facts{DirName: "tmp"}))
	assert.Equal(t, -100, rule.Score(Facts{DirName: "browser-cache"}))
	assert.Equal(t, -100, rule.Score(Facts{DirName: "downloads"}))
	assert.Equal(t, 0, rule.Score(Facts{DirName: "documents"}))
}

func TestDepthPenalty(t *testing.T) {
	rule := ruleByName(t, "depth-penalty")

	assert.Equal(t, 0, rule.Score(Facts{Depth: 0}))
	assert.Equal(t, -6, rule.Score(Facts{Depth: 3}))
}

func TestSiblingPrefixRun(t *testing.T) {
	rule := ruleByName(t, "sibling-prefix-run")

	siblings := []string{"IMG_0001.jpg"}
	for i := 2; i <= 12; i++ {
		siblings = append(siblings, fmt.Sprintf("IMG_%04d.jpg", i))
	}
	facts := Facts{FileName: "IMG_0001.jpg", SiblingFiles: siblings}
	assert.Equal(t, 20, rule.Score(facts), "11 same-stem siblings should trigger the bonus")

	few := Facts{
		FileName:     "IMG_0001.jpg",
		SiblingFiles: []string{"IMG_0001.jpg", "IMG_0002.jpg", "notes.txt"},
	}
	assert.Equal(t, 0, rule.Score(few))
}

func TestStem(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"IMG_0041.jpg", "img"},
		{"IMG_0107.jpg", "img"},
		{"report (2).pdf", "report"},
		{"report.pdf", "report"},
		{"backup-2023-01-01.tar", "backup"},
		{"notes.txt", "notes"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, stem(tt.input), "stem(%q)", tt.input)
	}
}
