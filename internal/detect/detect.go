// Package detect reports which AI coding tools are installed, what
// configuration they already hold and which orchestration layers appear to
// be active. Nothing here is needed for switching; the results feed the
// doctor and init commands.
package detect

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/orchester-labs/orchester/internal/logging"
	"github.com/orchester-labs/orchester/internal/tools"
)

// ProbeTimeout bounds each "<binary> --version" call.
const ProbeTimeout = 5 * time.Second

// Detector inspects the environment of one home directory. LookPath and
// Output default to the os/exec implementations.
type Detector struct {
	Home     string
	LookPath func(file string) (string, error)
	Output   func(ctx context.Context, name string, args ...string) ([]byte, error)
	Timeout  time.Duration

	log zerolog.Logger
}

// New returns a Detector for home.
func New(home string) *Detector {
	return &Detector{
		Home:     home,
		LookPath: exec.LookPath,
		Output:   commandOutput,
		Timeout:  ProbeTimeout,
		log:      logging.For("detect"),
	}
}

func commandOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Runtime is one supported tool and whether it is present.
type Runtime struct {
	ID        tools.ID `json:"id"`
	Name      string   `json:"name"`
	Binary    string   `json:"binary"`
	Path      string   `json:"path,omitempty"`
	Installed bool     `json:"installed"`
	Version   string   `json:"version,omitempty"`
	ConfigDir string   `json:"configDir"`
}

type probe struct {
	binary string
	// version is false for GUI tools whose binary has no useful --version.
	version bool
	// byConfig marks tools that count as installed when only their config
	// directory exists.
	byConfig bool
}

var probes = map[tools.ID]probe{
	tools.Claude:      {binary: "claude", version: true},
	tools.Codex:       {binary: "codex", version: true},
	tools.Gemini:      {binary: "gemini", version: true},
	tools.Cursor:      {binary: "cursor", byConfig: true},
	tools.Antigravity: {binary: "antigravity", byConfig: true},
	tools.OpenCode:    {binary: "opencode", version: true, byConfig: true},
}

var versionPattern = regexp.MustCompile(`(\d+\.\d+[.\d]*)`)

// Runtimes probes every supported tool in table order.
func (d *Detector) Runtimes(ctx context.Context) []Runtime {
	var out []Runtime
	for _, id := range tools.All() {
		p := probes[id]
		rt := Runtime{
			ID:        id,
			Name:      id.Name(),
			Binary:    p.binary,
			ConfigDir: d.expand(tools.ConfigDir(id)),
		}
		if path, err := d.lookPath(p.binary); err == nil {
			rt.Path = path
			rt.Installed = true
			if p.version {
				rt.Version = d.version(ctx, path)
			}
		} else if p.byConfig && isDir(rt.ConfigDir) {
			rt.Installed = true
		}
		out = append(out, rt)
	}
	return out
}

func (d *Detector) version(ctx context.Context, bin string) string {
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = ProbeTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	run := d.Output
	if run == nil {
		run = commandOutput
	}
	out, err := run(ctx, bin, "--version")
	if err != nil {
		d.log.Debug().Err(err).Str("binary", bin).Msg("Version probe failed")
		return ""
	}
	return ParseVersion(string(out))
}

// ParseVersion extracts the first dotted version number from a --version
// banner, falling back to its first 20 characters.
func ParseVersion(out string) string {
	out = strings.TrimSpace(out)
	if m := versionPattern.FindStringSubmatch(out); m != nil {
		return m[1]
	}
	if len(out) > 20 {
		return out[:20]
	}
	return out
}

func (d *Detector) lookPath(bin string) (string, error) {
	if d.LookPath == nil {
		return exec.LookPath(bin)
	}
	return d.LookPath(bin)
}

func (d *Detector) expand(template string) string {
	return filepath.Clean(tools.Expander{Home: d.Home}.Expand(template))
}

func isDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}

// countEntries counts the visible entries of dir.
func countEntries(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	n := 0
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), ".") {
			n++
		}
	}
	return n
}
