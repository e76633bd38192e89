package registry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/orchester-labs/orchester/internal/logging"
	"github.com/orchester-labs/orchester/internal/manifest"
	"github.com/orchester-labs/orchester/internal/orcherr"
	"github.com/orchester-labs/orchester/internal/paths"
	"github.com/orchester-labs/orchester/internal/tools"
)

// DefaultTimeout bounds a single clone.
const DefaultTimeout = 120 * time.Second

// customTagDirs are the discovered items that become tags of a custom entry.
var customTagDirs = []string{"agents", "skills", "hooks", "plugins", "commands"}

// Installer turns registry entries into installed profiles.
type Installer struct {
	ProfilesRoot string
	Custom       *CustomStore
	Timeout      time.Duration
	// Clone defaults to GitClone.
	Clone CloneFunc

	log zerolog.Logger
}

// NewInstaller returns an Installer writing into profilesRoot.
func NewInstaller(profilesRoot string, custom *CustomStore) *Installer {
	return &Installer{
		ProfilesRoot: profilesRoot,
		Custom:       custom,
		Timeout:      DefaultTimeout,
		Clone:        GitClone,
		log:          logging.For("registry"),
	}
}

// Install clones the entry's repository, copies what discovery finds into
// the profile's files/ directory and writes its manifest. When discovery
// yields no linkable items the entry's template links are used.
func (in *Installer) Install(ctx context.Context, e Entry, progress ProgressFunc) (*Result, error) {
	report := reporter(progress)
	profileDir, err := in.profileDir(e.Dir())
	if err != nil {
		return nil, err
	}

	d, links, err := in.fetch(ctx, e.Repo, e.Name, profileDir, report)
	if err != nil {
		return nil, err
	}

	p := e.Manifest
	if p.Name == "" {
		p.Name = e.Name
	}
	if p.Description == "" {
		p.Description = e.Description
	}
	if p.Tags == nil {
		p.Tags = e.Tags
	}
	if p.Tool == "" {
		p.Tool = tools.Primary
	}
	if p.InstallType == "" {
		p.InstallType = e.InstallType
	}
	p.Version = e.Version
	if len(links) > 0 {
		p.Links = links
	}

	report("Writing manifest...")
	if err := manifest.Write(profileDir, &p); err != nil {
		return nil, err
	}

	report(fmt.Sprintf("Done! %s installed (%d items)", e.Name, len(d.Found)))
	in.log.Info().Str("profile", e.Name).Strs("items", d.Found).Msg("Profile installed")
	return &Result{Entry: e, ProfileDir: profileDir, Items: d.Found, Links: p.Links}, nil
}

// InstallFromURL installs an arbitrary repository as a custom profile
// named after the last path segment of url and records it in the custom
// registry.
func (in *Installer) InstallFromURL(ctx context.Context, url string, progress ProgressFunc) (*Result, error) {
	report := reporter(progress)
	name := NameFromURL(url)
	profileDir, err := in.profileDir(name)
	if err != nil {
		return nil, err
	}

	d, links, err := in.fetch(ctx, url, name, profileDir, report)
	if err != nil {
		return nil, err
	}

	description := strings.Join(d.Found, ", ") + " (custom)"
	tags := []string{"custom"}
	for _, f := range d.Found {
		if slices.Contains(customTagDirs, f) {
			tags = append(tags, f)
		}
	}
	if links == nil {
		links = []manifest.LinkDef{}
	}
	e := Entry{
		Name:        name,
		Description: description,
		Repo:        url,
		Tags:        tags,
		Stars:       "-",
		ProfileDir:  name,
		Manifest: manifest.Profile{
			Name:        name,
			Description: description,
			Tags:        []string{"custom"},
			Tool:        tools.Primary,
			Links:       links,
		},
	}

	report("Writing manifest...")
	p := e.Manifest
	if err := manifest.Write(profileDir, &p); err != nil {
		return nil, err
	}
	if in.Custom != nil {
		if err := in.Custom.Save(e); err != nil {
			return nil, err
		}
	}

	report(fmt.Sprintf("Done! %s installed (%d items)", name, len(d.Found)))
	return &Result{Entry: e, ProfileDir: profileDir, Items: d.Found, Links: links}, nil
}

// Uninstall removes a profile directory and, for custom profiles, its
// registry entry. Only a direct child of the profile store that holds a
// manifest is removed.
func (in *Installer) Uninstall(name string) (UninstallResult, error) {
	var res UninstallResult
	dir, err := in.profileDir(name)
	if err != nil {
		return res, orcherr.Wrapf(err, orcherr.ProfileNotFound, "profile %q is not installed", name)
	}
	if in.Custom != nil {
		res.WasCustom = in.Custom.Contains(name)
	}

	if _, err := os.Stat(manifest.Path(dir)); err == nil {
		if err := os.RemoveAll(dir); err != nil {
			return res, fmt.Errorf("removing %s: %w", dir, err)
		}
		res.Removed = true
	}

	if res.WasCustom {
		if err := in.Custom.Remove(name); err != nil {
			return res, err
		}
	}
	return res, nil
}

// profileDir maps a profile name to its directory, rejecting names that
// would resolve anywhere but directly under ProfilesRoot.
func (in *Installer) profileDir(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", orcherr.Newf(orcherr.InvalidProfileName, "invalid profile name %q", name)
	}
	dir := filepath.Join(in.ProfilesRoot, name)
	rel, err := filepath.Rel(in.ProfilesRoot, dir)
	if err != nil || rel != name {
		return "", orcherr.Newf(orcherr.InvalidProfileName, "invalid profile name %q", name)
	}
	return dir, nil
}

// fetch clones repo into a temporary directory, discovers its items and
// copies them into profileDir/files, replacing an earlier install.
func (in *Installer) fetch(ctx context.Context, repo, name, profileDir string, report ProgressFunc) (Discovery, []manifest.LinkDef, error) {
	if err := os.MkdirAll(in.ProfilesRoot, 0755); err != nil {
		return Discovery{}, nil, fmt.Errorf("creating profile store: %w", err)
	}

	tmp, err := os.MkdirTemp("", "orchester-install-"+name+"-")
	if err != nil {
		return Discovery{}, nil, fmt.Errorf("creating temp directory: %w", err)
	}
	defer os.RemoveAll(tmp)
	checkout := filepath.Join(tmp, "repo")

	report(fmt.Sprintf("Cloning %s...", repo))
	timeout := in.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	clone := in.Clone
	if clone == nil {
		clone = GitClone
	}
	if err := clone(cctx, repo, checkout); err != nil {
		return Discovery{}, nil, err
	}

	report("Scanning for config files...")
	d := Discover(checkout)
	if len(d.Found) == 0 {
		return d, nil, orcherr.Newf(orcherr.NothingDiscovered, "no agents/skills/hooks found in %s", repo)
	}
	report("Found: " + strings.Join(d.Found, ", "))

	filesDir := filepath.Join(profileDir, paths.FilesDir)
	if err := os.RemoveAll(filesDir); err != nil {
		return d, nil, fmt.Errorf("clearing %s: %w", filesDir, err)
	}
	report(fmt.Sprintf("Copying %d items to profile...", len(d.Found)))
	links, err := copyItems(d, filesDir)
	if err != nil {
		return d, nil, err
	}
	return d, links, nil
}

// NameFromURL derives a profile name from a repository URL:
// "https://github.com/user/repo.git" → "repo".
func NameFromURL(url string) string {
	u := strings.TrimRight(strings.TrimSpace(url), "/")
	u = strings.TrimSuffix(u, ".git")
	if i := strings.LastIndexAny(u, "/:"); i >= 0 {
		u = u[i+1:]
	}
	if u == "" {
		return "custom"
	}
	return u
}

func reporter(p ProgressFunc) ProgressFunc {
	if p == nil {
		return func(string) {}
	}
	return p
}
