package registry

import (
	_ "embed"
	"fmt"
	"sync"

	"go.yaml.in/yaml/v3"

	"github.com/orchester-labs/orchester/internal/tools"
)

//go:embed registry.yaml
var builtinYAML []byte

var (
	builtinOnce    sync.Once
	builtinEntries []Entry
	builtinErr     error
)

// Builtin returns the entries shipped with the binary.
func Builtin() []Entry {
	builtinOnce.Do(func() {
		builtinEntries, builtinErr = parseEntries(builtinYAML)
	})
	if builtinErr != nil {
		panic(fmt.Sprintf("embedded registry.yaml: %v", builtinErr))
	}
	return append([]Entry(nil), builtinEntries...)
}

func parseEntries(data []byte) ([]Entry, error) {
	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Manifest.Tool = tools.Normalize(string(entries[i].Manifest.Tool))
	}
	return entries, nil
}
