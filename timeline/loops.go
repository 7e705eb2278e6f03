package timeline

import (
	"sort"
	"strings"
	"time"
)

// A Loop is a run of consecutively repeating tasks in one execution, such as
// a polling wait. Coalescing a loop into a single span keeps repeated
// iterations from dominating a timeline.
type Loop struct {
	Name       string    `json:"name"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Iterations int       `json:"iterations"`
	Members    []Span    `json:"members"`

	names map[string]bool
}

// Duration returns the wall time covered by the loop.
func (l *Loop) Duration() time.Duration {
	return l.End.Sub(l.Start)
}

// Contains reports whether a span with the given task name and start time
// falls inside the loop.
func (l *Loop) Contains(name string, start time.Time) bool {
	return l.names[name] && !start.Before(l.Start) && !start.After(l.End)
}

// Span collapses the loop into a single span.
func (l *Loop) Span() Span {
	execID := ""
	if len(l.Members) > 0 {
		execID = l.Members[0].ExecutionID
	}

	return Span{
		ID:          spanID(execID, l.Name, 0),
		ExecutionID: execID,
		TaskName:    l.Name,
		Start:       l.Start,
		End:         l.End,
		Status:      StatusSucceeded,
		Attempts:    l.Iterations,
	}
}

func loopFromRun(run []Span) *Loop {
	names := make(map[string]bool)
	counts := make(map[string]int)

	for _, s := range run {
		names[s.TaskName] = true
		counts[s.TaskName]++
	}

	iterations := 0
	for _, c := range counts {
		if c > iterations {
			iterations = c
		}
	}

	sorted := make([]string, 0, len(names))
	for n := range names {
		sorted = append(sorted, n)
	}
	sort.Strings(sorted)

	return &Loop{
		Name:       strings.Join(sorted, "|"),
		Start:      run[0].Start,
		End:        run[len(run)-1].End,
		Iterations: iterations,
		Members:    append([]Span(nil), run...),
		names:      names,
	}
}

// FindLoops scans an execution's spans, ordered by start time, for runs of
// repeating task names. A loop opens when a task name recurs and closes when
// a name outside the repeating set shows up. A loop still open when the
// history ends is not reported, since there is no evidence the cycle
// completed.
func FindLoops(spans []Span) []*Loop {
	var (
		loops   []*Loop
		run     []Span
		current map[string]bool
	)

	for _, s := range spans {
		switch {
		case current == nil:
			idx := -1
			for i, r := range run {
				if r.TaskName == s.TaskName {
					idx = i
					break
				}
			}

			if idx >= 0 {
				current = make(map[string]bool)
				for _, r := range run[idx:] {
					current[r.TaskName] = true
				}

				run = append(run[idx:], s)
			} else {
				run = append(run, s)
			}
		case !current[s.TaskName]:
			loops = append(loops, loopFromRun(run))
			current = nil
			run = []Span{s}
		default:
			run = append(run, s)
		}
	}

	return loops
}

// CoalesceLoops replaces every span belonging to a loop with one span per
// loop. Spans outside any loop pass through unchanged. The result is ordered
// by start time.
func CoalesceLoops(spans []Span, loops []*Loop) []Span {
	if len(loops) == 0 {
		return spans
	}

	var out []Span

	for _, s := range spans {
		inLoop := false
		for _, l := range loops {
			if l.Contains(s.TaskName, s.Start) {
				inLoop = true
				break
			}
		}

		if !inLoop {
			out = append(out, s)
		}
	}

	for _, l := range loops {
		out = append(out, l.Span())
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}

		return out[i].TaskName < out[j].TaskName
	})

	return out
}
