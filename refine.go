package qskema

import (
	"context"
	"errors"
	"slices"
)

// Phase orders record-level refinements. PhaseDomain rules are pure;
// PhaseContext rules may do I/O and only run when every PhaseDomain rule
// passed.
type Phase uint8

const (
	PhaseDomain Phase = iota
	PhaseContext
)

// SeenMode determines how WhenSeen conditions are evaluated.
// SeenAll requires all listed fields to be present; SeenAny requires at least one.
type SeenMode uint8

const (
	SeenAll SeenMode = iota
	SeenAny
)

// RefineFunc checks a record whose fields already passed validation. Returning
// Issues reports them as is; any other error becomes a single custom issue at
// the root.
type RefineFunc func(ctx context.Context, rec Record) error

// RefineOpt gates and orders a refinement.
type RefineOpt struct {
	// WhenSeen lists field names that must have appeared in the query for the
	// rule to run. Empty means no presence gating.
	WhenSeen     []string
	WhenSeenMode SeenMode
	Phase        Phase
}

type refinement struct {
	fn  RefineFunc
	opt RefineOpt
}

// Refine returns a copy of s that runs fn after field validation.
// Refinements run in the order they were added, PhaseDomain before
// PhaseContext.
func (s *Schema) Refine(fn RefineFunc, opts ...RefineOpt) *Schema {
	var opt RefineOpt
	if len(opts) > 0 {
		opt = opts[0]
	}
	cp := *s
	cp.refines = append(slices.Clone(s.refines), refinement{fn: fn, opt: opt})
	return &cp
}

func (r refinement) gated(seen func(string) bool) bool {
	if len(r.opt.WhenSeen) == 0 {
		return true
	}
	if r.opt.WhenSeenMode == SeenAny {
		return slices.ContainsFunc(r.opt.WhenSeen, seen)
	}
	for _, f := range r.opt.WhenSeen {
		if !seen(f) {
			return false
		}
	}
	return true
}

func (s *Schema) runRefinements(ctx context.Context, rec Record, seen func(string) bool) Issues {
	var iss Issues
	for _, phase := range []Phase{PhaseDomain, PhaseContext} {
		if phase == PhaseContext && len(iss) > 0 {
			break
		}
		for _, r := range s.refines {
			if r.opt.Phase != phase || !r.gated(seen) {
				continue
			}
			err := r.fn(ctx, rec)
			if err == nil {
				continue
			}
			iss = AppendIssues(iss, refineIssues(err)...)
			if IsFailFast(ctx) {
				return iss
			}
		}
	}
	return iss
}

func refineIssues(err error) Issues {
	var iss Issues
	if errors.As(err, &iss) {
		out := make(Issues, len(iss))
		for i, it := range iss {
			if it.Path == nil {
				it.Path = []string{}
			}
			out[i] = it
		}
		return out
	}
	return Issues{{Code: CodeCustom, Path: []string{}, Message: err.Error(), Cause: err}}
}
