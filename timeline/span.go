package timeline

import (
	"fmt"
	"time"
)

// Status is the terminal state of a task span.
type Status int

const (
	// StatusSucceeded means the task exited normally.
	StatusSucceeded Status = iota

	// StatusFailed means the task exited with a failure.
	StatusFailed

	// StatusAborted means the task was aborted.
	StatusAborted

	// StatusRunning means the history ended before the task exited. The span
	// is closed at the last known timestamp of its execution.
	StatusRunning
)

func (s Status) String() string {
	switch s {
	case StatusSucceeded:
		return "Succeeded"
	case StatusFailed:
		return "Failed"
	case StatusAborted:
		return "Aborted"
	case StatusRunning:
		return "Running"
	default:
		return "Unknown"
	}
}

// A Span is the time interval during which one task of an execution was
// active. Spans are never mutated after the span builder closes them.
type Span struct {
	ID          string    `json:"id"`
	ExecutionID string    `json:"execution_id"`
	TaskName    string    `json:"task_name"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Status      Status    `json:"status"`
	ParentID    string    `json:"parent_id"`
	Depth       int       `json:"depth"`
	Attempts    int       `json:"attempts"`
	Payload     string    `json:"payload"`
}

// Duration returns the length of the span's interval.
func (s Span) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// spanID builds a stable span identifier from the execution, the task name,
// and the task's occurrence index within the execution. Stable IDs keep
// repeated builds byte-for-byte identical.
func spanID(execID, taskName string, occurrence int) string {
	return fmt.Sprintf("%s/%s#%d", execID, taskName, occurrence)
}

// A Tree holds the closed spans of one execution, ordered by start time. The
// spans form an arena; parent/child relations are expressed through span IDs
// rather than pointers so they can be recomputed and tested in isolation.
type Tree struct {
	ExecutionID string    `json:"execution_id"`
	Spans       []Span    `json:"spans"`
	Partial     bool      `json:"partial"`
	Warnings    []Warning `json:"warnings"`
}

// Start returns the earliest span start in the tree.
func (t *Tree) Start() time.Time {
	var start time.Time

	for _, s := range t.Spans {
		if start.IsZero() || s.Start.Before(start) {
			start = s.Start
		}
	}

	return start
}

// End returns the latest span end in the tree.
func (t *Tree) End() time.Time {
	var end time.Time

	for _, s := range t.Spans {
		if s.End.After(end) {
			end = s.End
		}
	}

	return end
}

// Duration returns the wall time covered by the tree.
func (t *Tree) Duration() time.Duration {
	if len(t.Spans) == 0 {
		return 0
	}

	return t.End().Sub(t.Start())
}

// Span returns the span with the given ID.
func (t *Tree) Span(id string) (Span, bool) {
	for _, s := range t.Spans {
		if s.ID == id {
			return s, true
		}
	}

	return Span{}, false
}
