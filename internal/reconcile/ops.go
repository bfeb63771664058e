package reconcile

import (
	"context"

	"github.com/andywolf/skillsctl/internal/skillid"
)

// Op names a mutating command.
type Op string

const (
	OpBootstrap Op = "bootstrap"
	OpInstall   Op = "install"
	OpRemove    Op = "remove"
	OpSet       Op = "set"
	OpSync      Op = "sync"
)

// Options carries the flags shared by every mutating command.
type Options struct {
	RepoURL string
	Branch  string
	Stage   bool
}

// Plan is the desired selection computed for an Op before it is applied.
type Plan struct {
	Op      Op
	Current []string
	Desired []string
	Added   []string
	Removed []string
}

// Changed reports whether the plan alters the manifest.
func (p *Plan) Changed() bool {
	return len(p.Added) > 0 || len(p.Removed) > 0
}

// Plan derives the desired id set for op from the current manifest and the
// ids given on the command line.
func (e *Engine) Plan(op Op, ids []string) (*Plan, error) {
	given, err := skillid.Validate(ids)
	if err != nil {
		return nil, err
	}
	current, err := e.manifest.Load()
	if err != nil {
		return nil, err
	}

	var desired []string
	switch op {
	case OpInstall:
		desired = skillid.Union(current, given)
	case OpRemove:
		desired = skillid.Subtract(current, given)
	case OpSet:
		desired = skillid.Canonical(given)
	default:
		desired = current
	}

	return &Plan{
		Op:      op,
		Current: current,
		Desired: desired,
		Added:   skillid.Subtract(desired, current),
		Removed: skillid.Subtract(current, desired),
	}, nil
}

// Run resolves the repository and applies a plan.
func (e *Engine) Run(ctx context.Context, plan *Plan, opts Options) (*Result, error) {
	rc, err := e.ResolveContext(ctx, opts.RepoURL, opts.Branch)
	if err != nil {
		return nil, err
	}
	return e.Apply(ctx, rc, plan.Desired, opts.Stage)
}

func (e *Engine) do(ctx context.Context, op Op, ids []string, opts Options) (*Result, error) {
	plan, err := e.Plan(op, ids)
	if err != nil {
		return nil, err
	}
	return e.Run(ctx, plan, opts)
}

// Bootstrap registers and checks out the nested repository, creating an
// empty manifest when none exists, and re-applies the current selection.
func (e *Engine) Bootstrap(ctx context.Context, opts Options) (*Result, error) {
	return e.do(ctx, OpBootstrap, nil, opts)
}

// Install adds ids to the selection.
func (e *Engine) Install(ctx context.Context, ids []string, opts Options) (*Result, error) {
	return e.do(ctx, OpInstall, ids, opts)
}

// Remove drops ids from the selection.
func (e *Engine) Remove(ctx context.Context, ids []string, opts Options) (*Result, error) {
	return e.do(ctx, OpRemove, ids, opts)
}

// Set replaces the selection with exactly ids. An empty list clears it.
func (e *Engine) Set(ctx context.Context, ids []string, opts Options) (*Result, error) {
	return e.do(ctx, OpSet, ids, opts)
}

// Sync re-applies the persisted manifest, re-creating the nested checkout
// when it was removed.
func (e *Engine) Sync(ctx context.Context, opts Options) (*Result, error) {
	return e.do(ctx, OpSync, nil, opts)
}
