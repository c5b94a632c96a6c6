package decide

import (
	"path/filepath"
	"strings"
)

// Facts is everything a scoring rule may look at for one candidate. It is
// assembled from the indexer's walk output; rules themselves perform no
// filesystem I/O.
type Facts struct {
	FileName     string   // base name of the candidate
	DirName      string   // base name of the containing directory, lowercased
	SiblingFiles []string // regular file names in the containing directory
	Depth        int      // directory depth below the scan root
}

// Rule is a named, pure scoring heuristic over directory metadata. The
// engine sums every rule; keeping them as a list makes the heuristic set
// inspectable and testable on its own.
type Rule struct {
	Name  string
	Score func(f Facts) int
}

// Marker files that identify a directory as a project workspace.
var projectIndicators = map[string]bool{
	"package.json":      true,
	"package-lock.json": true,
	"yarn.lock":         true,
	"pom.xml":           true,
	"build.gradle":      true,
	"settings.gradle":   true,
	"angular.json":      true,
	"tsconfig.json":     true,
	"pyproject.toml":    true,
	"setup.py":          true,
	"requirements.txt":  true,
	"pipfile":           true,
	"cargo.toml":        true,
	"go.mod":            true,
	"composer.json":     true,
	".gitignore":        true,
	"makefile":          true,
	"cmakelists.txt":    true,
}

// Conventional project directory names.
var projectDirNames = map[string]bool{
	"src":        true,
	"source":     true,
	"lib":        true,
	"app":        true,
	"components": true,
	"modules":    true,
	"dist":       true,
	"build":      true,
	"target":     true,
	"bin":        true,
	"obj":        true,
	"internal":   true,
	"pkg":        true,
	"cmd":        true,
}

// Directory names that suggest curated user content.
var userContentKeywords = []string{
	"documents", "photos", "pictures", "videos", "music",
	"desktop", "onedrive", "dropbox",
}

// Directory names that suggest throwaway content.
var transientKeywords = []string{
	"temp", "tmp", "cache", "download", "recycle", "trash", "scratch", "staging",
}

// DefaultRules returns the scoring rules in their documented order.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name: "project-indicator",
			Score: func(f Facts) int {
				for _, sibling := range f.SiblingFiles {
					if projectIndicators[strings.ToLower(sibling)] {
						return 50 // applied at most once
					}
				}
				return 0
			},
		},
		{
			Name: "project-dir-name",
			Score: func(f Facts) int {
				if projectDirNames[f.DirName] {
					return 30
				}
				return 0
			},
		},
		{
			Name: "user-content-dir",
			Score: func(f Facts) int {
				for _, keyword := range userContentKeywords {
					if strings.Contains(f.DirName, keyword) {
						return 40
					}
				}
				return 0
			},
		},
		{
			Name: "sibling-prefix-run",
			Score: func(f Facts) int {
				want := stem(f.FileName)
				if want == "" {
					return 0
				}
				run := 0
				for _, sibling := range f.SiblingFiles {
					if sibling == f.FileName {
						continue
					}
					if stem(sibling) == want {
						run++
					}
				}
				if run >= 10 {
					return 20
				}
				return 0
			},
		},
		{
			Name: "transient-dir",
			Score: func(f Facts) int {
				for _, keyword := range transientKeywords {
					if strings.Contains(f.DirName, keyword) {
						return -100
					}
				}
				return 0
			},
		},
		{
			Name: "depth-penalty",
			Score: func(f Facts) int {
				return -2 * f.Depth
			},
		},
	}
}

// stem reduces a file name to its base-name prefix: extension dropped,
// trailing numeric and separator variation trimmed. "IMG_0041.jpg" and
// "IMG_0107.jpg" share the stem "img".
func stem(name string) string {
	s := strings.ToLower(name)
	s = strings.TrimSuffix(s, filepath.Ext(s))
	for {
		trimmed := strings.TrimRight(s, "0123456789")
		trimmed = strings.TrimRight(trimmed, "-_ ()")
		if trimmed == s {
			break
		}
		s = trimmed
	}
	return s
}
