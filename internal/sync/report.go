package sync

import "github.com/dotsync-labs/dotsync/internal/manifest"

// Outcome is what a rule did to its path.
type Outcome string

const (
	OutcomeCreated   Outcome = "created"
	OutcomeUpdated   Outcome = "updated"
	OutcomeReplaced  Outcome = "replaced"
	OutcomeRemoved   Outcome = "removed"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeLocked    Outcome = "locked"
	OutcomeKept      Outcome = "kept"
	OutcomeAbsent    Outcome = "absent"
)

// Changed reports whether the outcome writes to or deletes from the project.
func (o Outcome) Changed() bool {
	switch o {
	case OutcomeCreated, OutcomeUpdated, OutcomeReplaced, OutcomeRemoved:
		return true
	default:
		return false
	}
}

// Result records one rule's outcome.
type Result struct {
	Path    string        `json:"path"`
	Mode    manifest.Mode `json:"mode"`
	Outcome Outcome       `json:"outcome"`
}

// HookResult records one hook invocation.
type HookResult struct {
	Name    string `json:"name"`
	Skipped bool   `json:"skipped,omitempty"`
	Locked  bool   `json:"locked,omitempty"`
}

// Report summarizes a run.
type Report struct {
	DryRun    bool         `json:"dry_run"`
	Canonical bool         `json:"canonical"`
	Results   []Result     `json:"results"`
	Hooks     []HookResult `json:"hooks,omitempty"`
}

// Changed returns the number of rules that wrote or deleted something.
func (r *Report) Changed() int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome.Changed() {
			n++
		}
	}
	return n
}

// Count returns the number of rules with outcome o.
func (r *Report) Count(o Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == o {
			n++
		}
	}
	return n
}

func (r *Report) add(rule manifest.Rule, o Outcome) {
	r.Results = append(r.Results, Result{Path: rule.Path, Mode: rule.Mode, Outcome: o})
}
