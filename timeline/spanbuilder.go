package timeline

import (
	"sort"
)

// BuildSpans pairs the enter and exit events of one execution into closed
// task spans.
//
// Open tasks are tracked on a stack so that nested state machines produce
// parent/child span relations. An exit event with no matching open task is a
// malformed history: the event is dropped, the tree is marked partial, and a
// warning is recorded. Tasks still open at the end of the history are closed
// as Running at the last known timestamp.
//
// Unless separateRetries is set, a task that re-enters immediately after
// exiting (a retry) extends the previous span and bumps its attempt count
// instead of producing a new span.
func BuildSpans(execID string, events []Event, separateRetries bool) *Tree {
	b := &spanBuilder{
		tree:            &Tree{ExecutionID: execID},
		occurrences:     make(map[string]int),
		separateRetries: separateRetries,
	}

	for _, e := range events {
		switch e.Kind {
		case KindEntered:
			b.enter(e)
		case KindExited, KindFailed, KindAborted:
			b.exit(e)
		}
	}

	b.closeRemaining(events)
	b.sortSpans()

	return b.tree
}

type spanBuilder struct {
	tree            *Tree
	stack           []Span
	occurrences     map[string]int
	separateRetries bool
}

func (b *spanBuilder) enter(e Event) {
	parentID := ""
	if len(b.stack) > 0 {
		parentID = b.stack[len(b.stack)-1].ID
	}

	occ := b.occurrences[e.TaskName]
	b.occurrences[e.TaskName]++

	b.stack = append(b.stack, Span{
		ID:          spanID(e.ExecutionID, e.TaskName, occ),
		ExecutionID: e.ExecutionID,
		TaskName:    e.TaskName,
		Start:       e.Time,
		ParentID:    parentID,
		Depth:       len(b.stack),
		Attempts:    1,
		Payload:     e.Payload,
	})
}

func (b *spanBuilder) exit(e Event) {
	if e.TaskName == "" {
		// Execution-level termination closes every open task.
		for i := len(b.stack) - 1; i >= 0; i-- {
			b.closeSpan(i, e)
		}

		b.stack = b.stack[:0]

		return
	}

	idx := b.topOpenWithName(e.TaskName)
	if idx < 0 {
		b.tree.Partial = true
		b.tree.Warnings = append(b.tree.Warnings,
			warnf(WarnMalformedHistory, b.tree.ExecutionID,
				"exit event for task %q has no matching enter event", e.TaskName))

		return
	}

	b.closeSpan(idx, e)
	b.stack = append(b.stack[:idx], b.stack[idx+1:]...)
}

func (b *spanBuilder) topOpenWithName(name string) int {
	for i := len(b.stack) - 1; i >= 0; i-- {
		if b.stack[i].TaskName == name {
			return i
		}
	}

	return -1
}

func (b *spanBuilder) closeSpan(stackIdx int, e Event) {
	s := b.stack[stackIdx]
	s.End = e.Time
	s.Status = statusForKind(e.Kind)

	if e.Payload != "" {
		s.Payload += "\n" + e.Payload
	}

	b.append(s)
}

// append adds a closed span, folding it into the previous span when it is an
// immediate retry of the same task.
func (b *spanBuilder) append(s Span) {
	n := len(b.tree.Spans)
	if n > 0 {
		prev := &b.tree.Spans[n-1]
		if prev.TaskName == s.TaskName &&
			prev.ParentID == s.ParentID &&
			!b.separateRetries {
			if s.End.After(prev.End) {
				prev.End = s.End
			}

			prev.Attempts++
			prev.Status = s.Status
			b.occurrences[s.TaskName]--

			return
		}
	}

	b.tree.Spans = append(b.tree.Spans, s)
}

func (b *spanBuilder) closeRemaining(events []Event) {
	if len(b.stack) == 0 {
		return
	}

	var last Event
	if len(events) > 0 {
		last = events[len(events)-1]
	}

	for i := len(b.stack) - 1; i >= 0; i-- {
		s := b.stack[i]
		s.End = last.Time
		s.Status = StatusRunning
		b.tree.Spans = append(b.tree.Spans, s)

		b.tree.Warnings = append(b.tree.Warnings,
			warnf(WarnMalformedHistory, b.tree.ExecutionID,
				"task %q never exited; closed as running at the last known timestamp",
				s.TaskName))
	}

	b.tree.Partial = true
	b.stack = b.stack[:0]
}

func (b *spanBuilder) sortSpans() {
	sort.SliceStable(b.tree.Spans, func(i, j int) bool {
		a, c := b.tree.Spans[i], b.tree.Spans[j]
		if !a.Start.Equal(c.Start) {
			return a.Start.Before(c.Start)
		}

		return a.ID < c.ID
	})
}

func statusForKind(k EventKind) Status {
	switch k {
	case KindFailed:
		return StatusFailed
	case KindAborted:
		return StatusAborted
	default:
		return StatusSucceeded
	}
}
