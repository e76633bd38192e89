package registry

import (
	"os"
	"path/filepath"
	"sort"
)

// searchDirs are the configuration directories a checkout may provide.
var searchDirs = []string{"agents", "skills", "hooks", "plugins", "commands", "prompts"}

// ruleFiles are the top-level instruction files a checkout may provide.
var ruleFiles = []string{"CLAUDE.md", "AGENTS.md", "rules.md"}

// candidateSubdirs are checked below the checkout root in addition to the
// root itself and every packages/* directory.
var candidateSubdirs = []string{"src", ".claude", "config"}

// Discovery is the best location found in a checkout.
type Discovery struct {
	// Dir is the directory the items were found in.
	Dir string
	// Found lists directory items first, then rule files.
	Found []string
}

// Discover scores the candidate directories of a checkout by how many
// known items they hold and returns the best one. Ties go to the earlier
// candidate, so the root wins when nothing scores higher.
func Discover(root string) Discovery {
	best, bestScore := root, 0
	for _, c := range candidates(root) {
		if s := len(itemsIn(c)); s > bestScore {
			best, bestScore = c, s
		}
	}
	return Discovery{Dir: best, Found: itemsIn(best)}
}

func candidates(root string) []string {
	out := []string{root}

	if entries, err := os.ReadDir(filepath.Join(root, "packages")); err == nil {
		var pkgs []string
		for _, e := range entries {
			if e.IsDir() {
				pkgs = append(pkgs, filepath.Join(root, "packages", e.Name()))
			}
		}
		sort.Strings(pkgs)
		out = append(out, pkgs...)
	}

	for _, sub := range candidateSubdirs {
		p := filepath.Join(root, sub)
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			out = append(out, p)
		}
	}
	return out
}

func itemsIn(dir string) []string {
	var found []string
	for _, d := range searchDirs {
		if info, err := os.Stat(filepath.Join(dir, d)); err == nil && info.IsDir() {
			found = append(found, d)
		}
	}
	for _, f := range ruleFiles {
		if info, err := os.Stat(filepath.Join(dir, f)); err == nil && !info.IsDir() {
			found = append(found, f)
		}
	}
	return found
}
