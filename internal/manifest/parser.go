package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/orchester-labs/orchester/internal/orcherr"
	"github.com/orchester-labs/orchester/internal/tools"
)

// Path returns the manifest location inside a profile directory.
func Path(profileRoot string) string {
	return filepath.Join(profileRoot, FileName)
}

// Parse reads <profileRoot>/manifest.yaml. It fails with
// orcherr.ManifestNotFound when the file is absent and orcherr.ManifestInvalid
// when the document is not a YAML mapping.
func Parse(profileRoot string) (*Profile, error) {
	path := Path(profileRoot)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, orcherr.New(orcherr.ManifestNotFound, "manifest.yaml not found").WithPath(profileRoot)
		}
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return ParseBytes(data, filepath.Base(profileRoot))
}

// ParseBytes decodes manifest content. defaultName is used when the
// document has no name.
func ParseBytes(data []byte, defaultName string) (*Profile, error) {
	raw, err := decode(data)
	if err != nil {
		return nil, orcherr.Wrap(err, orcherr.ManifestInvalid, "malformed manifest.yaml")
	}
	doc, ok := raw.(map[string]any)
	if !ok {
		return nil, orcherr.New(orcherr.ManifestInvalid, "manifest.yaml is not a mapping")
	}

	p := &Profile{
		Name:        stringOr(doc["name"], defaultName),
		Description: stringOr(doc["description"], ""),
		Tags:        stringList(doc["tags"]),
		Focus:       stringList(doc["focus"]),
		Tool:        tools.Normalize(stringOr(doc["tool"], DefaultTool)),
		InstallType: InstallType(stringOr(doc["installType"], "")),
		Version:     stringOr(doc["version"], ""),
		Links:       []LinkDef{},
	}

	entries, _ := doc["links"].([]any)
	for _, e := range entries {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		l := LinkDef{
			Source:        stringOr(m["source"], ""),
			Target:        stringOr(m["target"], ""),
			InstallType:   InstallType(stringOr(m["installType"], "")),
			PluginCommand: stringOr(m["pluginCommand"], ""),
			PluginLabel:   stringOr(m["pluginLabel"], ""),
		}
		// Partial entries are dropped, not reported.
		if l.Source == "" || l.Target == "" {
			continue
		}
		p.Links = append(p.Links, l)
	}

	return p, nil
}

// decode unmarshals a YAML document into plain values with string-keyed
// maps. yaml.v3 yields map[any]any for mappings with non-string keys.
func decode(data []byte) (any, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return stringKeys(raw), nil
}

func stringKeys(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, item := range val {
			val[k] = stringKeys(item)
		}
		return val
	case map[any]any:
		m := make(map[string]any, len(val))
		for k, item := range val {
			m[fmt.Sprint(k)] = stringKeys(item)
		}
		return m
	case []any:
		for i, item := range val {
			val[i] = stringKeys(item)
		}
		return val
	default:
		return val
	}
}

// stringOr renders a scalar as a string, or returns def for nil and
// non-scalar values.
func stringOr(v any, def string) string {
	switch val := v.(type) {
	case nil:
		return def
	case string:
		return val
	case map[string]any, []any:
		return def
	default:
		return fmt.Sprint(val)
	}
}

func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s := stringOr(it, ""); s != "" {
			out = append(out, s)
		}
	}
	return out
}
