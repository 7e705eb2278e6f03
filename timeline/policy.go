package timeline

import (
	"fmt"
	"time"
)

// A Policy controls how a timeline is built. The zero value is not useful;
// start from DefaultPolicy. A Policy is immutable once handed to Build, so
// one engine can serve concurrent builds with different policies.
type Policy struct {
	// Aggregate collapses same-named contributor spans, across all
	// contributor executions attached to a parent span, into statistical
	// summaries.
	Aggregate bool

	// MinContributorTaskDuration drops contributor spans strictly shorter
	// than this before aggregation. Zero keeps everything.
	MinContributorTaskDuration time.Duration

	// Interleave places contributor items in the same lane pool as the
	// parent's own spans. When false, contributor items get a separate lane
	// pool rendered beneath all parent lanes.
	Interleave bool

	// TopN truncates the largest-contributors ranking. Zero or negative
	// keeps every entry.
	TopN int

	// SeparateRetries keeps each retry of a task as its own span instead of
	// folding retries into one span with an attempt count.
	SeparateRetries bool

	// CoalesceLoops replaces repeated polling iterations in contributor
	// executions with one span per loop before aggregation.
	CoalesceLoops bool
}

// DefaultPolicy returns the policy used when the caller specifies nothing.
func DefaultPolicy() Policy {
	return Policy{
		Aggregate:     true,
		Interleave:    true,
		CoalesceLoops: true,
	}
}

// A PolicyError reports an invalid policy. It is fatal and detected before
// any history is fetched.
type PolicyError struct {
	Field  string
	Reason string
}

func (e *PolicyError) Error() string {
	return fmt.Sprintf("invalid policy: %s %s", e.Field, e.Reason)
}

// Validate rejects policies no timeline can be built from.
func (p Policy) Validate() error {
	if p.MinContributorTaskDuration < 0 {
		return &PolicyError{
			Field:  "MinContributorTaskDuration",
			Reason: "must not be negative",
		}
	}

	if p.TopN < 0 {
		return &PolicyError{Field: "TopN", Reason: "must not be negative"}
	}

	return nil
}
