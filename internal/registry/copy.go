package registry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/orchester-labs/orchester/internal/manifest"
	"github.com/orchester-labs/orchester/internal/platform"
	"github.com/orchester-labs/orchester/internal/tools"
)

// excludedNames are files/directories excluded when copying a checkout.
var excludedNames = map[string]bool{
	"node_modules": true,
	".git":         true,
	".DS_Store":    true,
}

// shouldExclude returns true if the name should be excluded during copy.
func shouldExclude(name string) bool {
	return excludedNames[name]
}

// copyItems copies discovered items into filesDir and returns the links
// they map to. Directories link to the matching Claude directory, and
// CLAUDE.md links into the project.
func copyItems(d Discovery, filesDir string) ([]manifest.LinkDef, error) {
	if err := os.MkdirAll(filesDir, 0755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", filesDir, err)
	}

	var links []manifest.LinkDef
	for _, item := range d.Found {
		src := filepath.Join(d.Dir, item)
		if err := platform.CopyTree(src, filepath.Join(filesDir, item), shouldExclude); err != nil {
			return nil, fmt.Errorf("copying %s: %w", item, err)
		}

		info, err := os.Stat(src)
		if err != nil {
			return nil, err
		}
		switch {
		case info.IsDir():
			if target, ok := tools.Dir(tools.Claude, item); ok {
				links = append(links, manifest.LinkDef{Source: "files/" + item + "/", Target: target})
			}
		case item == "CLAUDE.md":
			links = append(links, manifest.LinkDef{Source: "files/" + item, Target: "$PROJECT/CLAUDE.md"})
		}
	}
	return links, nil
}
