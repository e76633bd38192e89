package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/orchester-labs/orchester/internal/orcherr"
)

// ResolveSource joins a link source onto its profile directory. Sources
// that climb out of the profile fail with orcherr.SourceMissing.
func ResolveSource(profileRoot, source string) (string, error) {
	src := filepath.Join(profileRoot, source)
	rel, err := filepath.Rel(profileRoot, src)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", orcherr.Newf(orcherr.SourceMissing, "source %q escapes the profile directory", source).WithPath(profileRoot)
	}
	return src, nil
}

// Check validates a profile directory: the manifest against the schema,
// then every symlink source against the files actually present. Issues
// found by the file checks use the keywords "contained" and "exists".
func Check(profileRoot string) (*ValidationResult, error) {
	data, err := os.ReadFile(Path(profileRoot))
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", Path(profileRoot), err)
	}
	var set issueSet
	if err := set.validateSchema(data); err != nil {
		return nil, err
	}

	p, err := ParseBytes(data, filepath.Base(profileRoot))
	if err != nil {
		return set.result(), nil
	}
	for i, l := range p.Links {
		if l.IsPlugin() {
			continue
		}
		at := []string{"links", strconv.Itoa(i), "source"}
		src, err := ResolveSource(profileRoot, l.Source)
		if err != nil {
			set.add(at, "contained", fmt.Sprintf("source %q escapes the profile directory", l.Source))
			continue
		}
		if _, err := os.Stat(src); err != nil {
			set.add(at, "exists", fmt.Sprintf("source %q does not exist", l.Source))
		}
	}
	return set.result(), nil
}
