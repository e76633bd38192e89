package switcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/orchester-labs/orchester/internal/history"
	"github.com/orchester-labs/orchester/internal/linker"
	"github.com/orchester-labs/orchester/internal/logging"
	"github.com/orchester-labs/orchester/internal/manifest"
	"github.com/orchester-labs/orchester/internal/orcherr"
	"github.com/orchester-labs/orchester/internal/state"
	"github.com/orchester-labs/orchester/internal/tools"
)

// Restorer puts the vanilla configuration back in place.
type Restorer interface {
	Restore() error
}

// Recorder journals switch attempts.
type Recorder interface {
	Record(ctx context.Context, e history.Entry) error
}

// Engine plans and executes switches for one profile store.
type Engine struct {
	ProfilesRoot string
	Expander     tools.Expander
	State        state.Store
	Links        *linker.Manager
	Vanilla      Restorer
	// History is optional.
	History Recorder
	Now     func() time.Time

	log zerolog.Logger
}

// New returns an Engine. History may be set afterwards.
func New(profilesRoot string, exp tools.Expander, st state.Store, links *linker.Manager, v Restorer) *Engine {
	return &Engine{
		ProfilesRoot: profilesRoot,
		Expander:     exp,
		State:        st,
		Links:        links,
		Vanilla:      v,
		Now:          time.Now,
		log:          logging.For("switcher"),
	}
}

// SwitchTo switches from the currently active profile to to.
func (e *Engine) SwitchTo(to string, targetTools []tools.ID) SwitchResult {
	return e.Switch(e.State.Load().ActiveName(), to, targetTools)
}

// Switch deactivates from and activates to against targetTools (the
// primary tool when empty). An empty to restores vanilla. Any failure
// after validation rolls back to vanilla with no active profile.
func (e *Engine) Switch(from, to string, targetTools []tools.ID) SwitchResult {
	done := logging.Start(e.log, "switch")
	defer done()

	target := tools.OrPrimary(targetTools)
	previous := tools.OrPrimary(e.State.Load().ActiveTools)
	res := SwitchResult{
		Phase:          PhaseIdle,
		CreatedLinks:   []Item{},
		RemovedLinks:   []Item{},
		PluginCommands: []PluginCommand{},
	}

	e.enter(&res, PhaseValidating)
	toM, err := e.loadManifest(to, FailToManifest, ModeSwitch)
	if err != nil {
		// Nothing has been touched yet.
		e.fail(&res, err)
		e.record(from, to, target, res)
		return res
	}
	fromM, _ := e.loadManifest(from, FailFromManifest, ModeSwitch)

	d := e.plan(from, fromM, previous, to, toM, target)
	if err := e.apply(d, to, target, &res); err != nil {
		e.fail(&res, err)
		e.rollback(&res)
		res.Phase = PhaseFailed
		e.record(from, to, target, res)
		return res
	}

	e.enter(&res, PhaseDone)
	res.Success = true
	e.log.Info().Str("from", from).Str("to", to).
		Int("created", res.LinksCreated).Int("removed", res.LinksRemoved).
		Msg("Switch complete")
	e.record(from, to, target, res)
	return res
}

func (e *Engine) apply(d Diff, to string, target []tools.ID, res *SwitchResult) error {
	e.enter(res, PhaseDeactivating)
	for _, it := range d.Items {
		if it.Type != ItemRemove {
			continue
		}
		if it.IsPlugin() {
			res.PluginCommands = append(res.PluginCommands, pluginCommand(it, ActionUninstall))
			continue
		}
		removed, err := e.Links.RemoveOwned(it.ResolvedTarget)
		if err != nil {
			return fmt.Errorf("deactivating %s: %w", it.ResolvedTarget, err)
		}
		if removed {
			res.LinksRemoved++
			res.RemovedLinks = append(res.RemovedLinks, it)
		}
	}

	e.enter(res, PhaseActivating)
	if to == "" {
		if e.Vanilla != nil {
			if err := e.Vanilla.Restore(); err != nil {
				return fmt.Errorf("restoring vanilla: %w", err)
			}
		}
		if err := e.State.Save(state.Vanilla(e.now())); err != nil {
			return fmt.Errorf("saving state: %w", err)
		}
		return nil
	}

	for _, it := range d.Items {
		if it.Type != ItemAdd {
			continue
		}
		if it.IsPlugin() {
			res.PluginCommands = append(res.PluginCommands, pluginCommand(it, ActionInstall))
			continue
		}
		// Links to anything outside the profile could never be recognised
		// as owned again.
		if _, err := manifest.ResolveSource(filepath.Join(e.ProfilesRoot, it.Profile), it.Source); err != nil {
			return fmt.Errorf("activating %s for %s: %w", it.Source, it.Tool, err)
		}
		if err := e.Links.CreateSymlink(it.ResolvedSource, it.ResolvedTarget); err != nil {
			return fmt.Errorf("activating %s for %s: %w", it.Source, it.Tool, err)
		}
		res.LinksCreated++
		res.CreatedLinks = append(res.CreatedLinks, it)
	}

	if err := e.State.Save(state.Activated(to, target, e.now())); err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	return nil
}

// rollback removes the links created by this attempt, restores vanilla and
// clears the active profile. Its own failures are logged only.
func (e *Engine) rollback(res *SwitchResult) {
	e.enter(res, PhaseRollingBack)

	for i := len(res.CreatedLinks) - 1; i >= 0; i-- {
		target := res.CreatedLinks[i].ResolvedTarget
		if _, err := e.Links.RemoveOwned(target); err != nil {
			e.swallow(FailRollback, err, target)
		}
	}
	if e.Vanilla != nil {
		if err := e.Vanilla.Restore(); err != nil {
			e.swallow(FailRollback, err, "vanilla")
		}
	}
	if err := e.State.Save(state.Vanilla(e.now())); err != nil {
		e.swallow(FailRollback, err, "state")
	}

	res.LinksCreated = 0
	res.CreatedLinks = []Item{}
	kept := res.PluginCommands[:0]
	for _, pc := range res.PluginCommands {
		if pc.Action != ActionInstall {
			kept = append(kept, pc)
		}
	}
	res.PluginCommands = kept
}

func (e *Engine) fail(res *SwitchResult, err error) {
	res.Success = false
	res.FailedPhase = res.Phase
	res.Phase = PhaseFailed
	res.Error = err.Error()

	class := FailFilesystem
	switch {
	case res.FailedPhase == PhaseValidating:
		class = FailToManifest
	case orcherr.HasCode(err, orcherr.SourceMissing):
		class = FailSourceMissing
	}
	e.log.Warn().Err(err).Str("phase", string(res.FailedPhase)).Str("failure", string(class)).Msg("Switch failed")
}

func (e *Engine) swallow(f Failure, err error, subject string) {
	e.log.Warn().Err(err).Str("failure", string(f)).Str("subject", subject).Str("policy", string(PolicyFor(f, ModeSwitch))).Msg("Ignoring error")
}

func (e *Engine) enter(res *SwitchResult, p Phase) {
	e.log.Debug().Str("from", string(res.Phase)).Str("to", string(p)).Msg("Phase transition")
	res.Phase = p
}

func (e *Engine) record(from, to string, target []tools.ID, res SwitchResult) {
	if e.History == nil {
		return
	}
	entry := history.Entry{
		From:         from,
		To:           to,
		Tools:        target,
		Success:      res.Success,
		LinksCreated: res.LinksCreated,
		LinksRemoved: res.LinksRemoved,
		Error:        res.Error,
		SwitchedAt:   e.now(),
	}
	if err := e.History.Record(context.Background(), entry); err != nil {
		e.swallow(FailHistory, err, "history")
	}
}

func (e *Engine) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

// pluginCommand builds the user-facing command for a plugin item. The
// uninstall form replaces the first "install" in the command.
func pluginCommand(it Item, action string) PluginCommand {
	cmd := it.PluginCommand
	if action == ActionUninstall {
		cmd = strings.Replace(cmd, "install", "uninstall", 1)
	}
	label := it.PluginLabel
	if label == "" {
		label = it.Source
	}
	return PluginCommand{Command: cmd, Label: label, Action: action}
}
