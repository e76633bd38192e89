package switcher

// Failure names a class of error the engine can meet.
type Failure string

const (
	FailToManifest    Failure = "to-manifest"
	FailFromManifest  Failure = "from-manifest"
	FailSourceMissing Failure = "source-missing"
	FailFilesystem    Failure = "filesystem"
	FailStateLoad     Failure = "state-load"
	FailRollback      Failure = "rollback"
	FailHistory       Failure = "history"
)

// Action is what the engine does with a failure.
type Action string

const (
	// Degrade substitutes an empty or default value and carries on.
	Degrade Action = "degrade"
	// Propagate fails the operation.
	Propagate Action = "propagate"
	// Swallow logs the error and carries on.
	Swallow Action = "swallow"
	// NotApplicable marks failures that cannot happen in that mode.
	NotApplicable Action = "n/a"
)

// Mode is the operation a failure happens in.
type Mode int

const (
	ModePreview Mode = iota
	ModeSwitch
)

type rule struct {
	preview Action
	apply   Action
}

// policies is the single table deciding which failures degrade and which
// propagate.
var policies = map[Failure]rule{
	FailToManifest:    {preview: Degrade, apply: Propagate},
	FailFromManifest:  {preview: Degrade, apply: Degrade},
	FailSourceMissing: {preview: NotApplicable, apply: Propagate},
	FailFilesystem:    {preview: NotApplicable, apply: Propagate},
	FailStateLoad:     {preview: Degrade, apply: Degrade},
	FailRollback:      {preview: NotApplicable, apply: Swallow},
	FailHistory:       {preview: NotApplicable, apply: Swallow},
}

// PolicyFor returns the action for f in mode m.
func PolicyFor(f Failure, m Mode) Action {
	r, ok := policies[f]
	if !ok {
		return Propagate
	}
	if m == ModePreview {
		return r.preview
	}
	return r.apply
}
