package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPath(name string) string {
	return filepath.Join("testdata", name)
}

func TestValidateFile_Valid(t *testing.T) {
	result, err := ValidateFile(testPath("valid.yaml"))
	require.NoError(t, err)
	assert.True(t, result.Valid, "issues: %+v", result.Issues)
}

func TestValidateFile_Invalid(t *testing.T) {
	tests := []struct {
		file    string
		keyword string
	}{
		{"invalid-plugin-no-command.yaml", "required"},
		{"invalid-bad-install-type.yaml", "enum"},
		{"invalid-link-missing-target.yaml", "required"},
		{"invalid-bad-name.yaml", "pattern"},
		{"invalid-not-mapping.yaml", "type"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			result, err := ValidateFile(testPath(tt.file))
			require.NoError(t, err)
			assert.False(t, result.Valid)
			require.NotEmpty(t, result.Issues)

			var keywords []string
			for _, is := range result.Issues {
				keywords = append(keywords, is.Keyword)
				assert.NotEmpty(t, is.Message)
			}
			assert.Contains(t, keywords, tt.keyword)
		})
	}
}

func TestValidate_LinkMessages(t *testing.T) {
	result, err := ValidateFile(testPath("invalid-plugin-no-command.yaml"))
	require.NoError(t, err)
	require.Len(t, result.Issues, 1)
	is := result.Issues[0]
	assert.Equal(t, "/links/0", is.Path)
	assert.Equal(t, "links[0]: pluginCommand required for plugin links", is.String())

	result, err = Validate([]byte("links:\n  - {source: a}\n  - {source: b}\n"))
	require.NoError(t, err)
	require.Len(t, result.Issues, 2)
	assert.Equal(t, "links[1]: target required for every link", result.Issues[1].String())
}

func TestValidate_NonStringKeys(t *testing.T) {
	result, err := Validate([]byte("name: ok\n1: extra\n"))
	require.NoError(t, err)
	assert.True(t, result.Valid, "issues: %+v", result.Issues)
}

func TestValidationIssue_String(t *testing.T) {
	assert.Equal(t, "links[2].source: gone", ValidationIssue{Path: "/links/2/source", Message: "gone"}.String())
	assert.Equal(t, "whole", ValidationIssue{Message: "whole"}.String())
}

func TestValidate_InvalidYAML(t *testing.T) {
	_, err := Validate([]byte("name: [unclosed\n"))
	assert.Error(t, err)
}

func TestValidateFile_Missing(t *testing.T) {
	_, err := ValidateFile(testPath("does-not-exist.yaml"))
	assert.Error(t, err)
}

func TestCheck_SourceFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "p")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "files", "agents"), 0755))
	writeManifest(t, dir, `
name: p
links:
  - source: files/agents/
    target: $HOME/.claude/agents/
  - source: files/skills/
    target: $HOME/.claude/skills/
  - source: ../../etc
    target: $HOME/.claude/hooks/
  - source: p@market
    target: plugin
    installType: plugin
    pluginCommand: claude plugin install p@market
`)

	result, err := Check(dir)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	require.Len(t, result.Issues, 2)
	assert.Equal(t, "/links/1/source", result.Issues[0].Path)
	assert.Equal(t, "exists", result.Issues[0].Keyword)
	assert.Equal(t, "/links/2/source", result.Issues[1].Path)
	assert.Equal(t, "contained", result.Issues[1].Keyword)
}

func TestCheck_Clean(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "p")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "files", "agents"), 0755))
	writeManifest(t, dir, "name: p\nlinks:\n  - {source: files/agents/, target: $HOME/.claude/agents/}\n")

	result, err := Check(dir)
	require.NoError(t, err)
	assert.True(t, result.Valid)
}
