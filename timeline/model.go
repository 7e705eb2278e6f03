package timeline

import "time"

// A Model is the finished timeline handed to the renderer and the trace
// exporter. It is immutable once built.
type Model struct {
	// ExecutionID identifies the parent execution.
	ExecutionID string `json:"execution_id"`

	// Root is a synthetic span covering the whole profiled interval,
	// expanded to include contributor activity.
	Root Span `json:"root"`

	// Lanes is the parent lane pool. When the build interleaves, contributor
	// items share these lanes with the parent's own spans.
	Lanes []Lane `json:"lanes"`

	// ContributorLanes is the segregated contributor pool, rendered beneath
	// all parent lanes. Empty when the build interleaves. Lane indices
	// continue from the parent pool.
	ContributorLanes []Lane `json:"contributor_lanes,omitempty"`

	// Ranked lists the largest contributors to elapsed time across the
	// post-aggregation item set.
	Ranked []RankedTask `json:"ranked_contributors"`

	// RankedWithLoops ranks the parent execution's own tasks with loop
	// iterations folded into one pseudo-task per loop.
	RankedWithLoops []RankedTask `json:"ranked_with_loops"`

	// Links records which parent span each contributor execution was
	// attached to.
	Links []Link `json:"links,omitempty"`

	// Loops are the loops detected in the parent execution, for rendering
	// loop overlays.
	Loops []*Loop `json:"loops,omitempty"`

	// Warnings carries every recoverable data-quality issue found during
	// the build.
	Warnings []Warning `json:"warnings,omitempty"`

	// Partial flags executions whose histories were malformed; their
	// subtrees are best-effort.
	Partial map[string]bool `json:"partial,omitempty"`
}

// Start returns the start of the profiled interval.
func (m *Model) Start() time.Time { return m.Root.Start }

// End returns the end of the profiled interval.
func (m *Model) End() time.Time { return m.Root.End }

// Duration returns the wall time covered by the model.
func (m *Model) Duration() time.Duration { return m.Root.Duration() }

// AllLanes returns the parent pool followed by the segregated contributor
// pool.
func (m *Model) AllLanes() []Lane {
	if len(m.ContributorLanes) == 0 {
		return m.Lanes
	}

	out := make([]Lane, 0, len(m.Lanes)+len(m.ContributorLanes))
	out = append(out, m.Lanes...)
	out = append(out, m.ContributorLanes...)

	return out
}
