package timeline

import (
	"sort"
	"time"
)

// An Aggregate summarizes a group of same-named contributor spans. Its
// Start/End interval stretches from the earliest member start to the latest
// member end and is a placement hint only: the interval's width is not the
// sum of the member durations, which Total carries exactly. The distinction
// is deliberate and must not be "fixed".
type Aggregate struct {
	TaskName     string          `json:"task_name"`
	Count        int             `json:"member_count"`
	Total        time.Duration   `json:"total_duration"`
	Mean         time.Duration   `json:"mean_duration"`
	Min          time.Duration   `json:"min_duration"`
	Max          time.Duration   `json:"max_duration"`
	Start        time.Time       `json:"representative_start"`
	End          time.Time       `json:"representative_end"`
	Durations    []time.Duration `json:"durations"`
	Contributors []string        `json:"contributors"`
}

// FilterSpans drops spans whose duration is strictly below min.
func FilterSpans(spans []Span, min time.Duration) []Span {
	if min <= 0 {
		return spans
	}

	var out []Span

	for _, s := range spans {
		if s.Duration() >= min {
			out = append(out, s)
		}
	}

	return out
}

// AggregateSpans groups spans by task name, across all source executions,
// and collapses each group into one Aggregate. The result is ordered by
// representative start time, ties broken by task name.
func AggregateSpans(spans []Span) []Aggregate {
	groups := make(map[string][]Span)

	for _, s := range spans {
		groups[s.TaskName] = append(groups[s.TaskName], s)
	}

	out := make([]Aggregate, 0, len(groups))
	for name, members := range groups {
		out = append(out, aggregateGroup(name, members))
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}

		return out[i].TaskName < out[j].TaskName
	})

	return out
}

func aggregateGroup(name string, members []Span) Aggregate {
	agg := Aggregate{TaskName: name, Count: len(members)}

	contributors := make(map[string]bool)

	for i, s := range members {
		d := s.Duration()
		agg.Total += d
		agg.Durations = append(agg.Durations, d)
		contributors[s.ExecutionID] = true

		if i == 0 || d < agg.Min {
			agg.Min = d
		}

		if d > agg.Max {
			agg.Max = d
		}

		if i == 0 || s.Start.Before(agg.Start) {
			agg.Start = s.Start
		}

		if s.End.After(agg.End) {
			agg.End = s.End
		}
	}

	if agg.Count > 0 {
		agg.Mean = agg.Total / time.Duration(agg.Count)
	}

	for id := range contributors {
		agg.Contributors = append(agg.Contributors, id)
	}
	sort.Strings(agg.Contributors)

	return agg
}
