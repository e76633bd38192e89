package branding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmbeddedBranding(t *testing.T) {
	assert.Equal(t, "orchester", CLIName())
	assert.Equal(t, ".orchester", HomeDir())
	assert.Equal(t, ".orch", LegacyHomeDir())
	assert.Equal(t, "ORCHESTER", EnvPrefix())
}

func TestEnvVar(t *testing.T) {
	assert.Equal(t, "ORCHESTER_HOME", EnvVar("home"))
	assert.Equal(t, "ORCHESTER_PROJECT_DIR", EnvVar("project_dir"))
}
