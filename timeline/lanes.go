package timeline

import (
	"sort"
	"time"
)

// An Item is one timeline entry: either a single span or an aggregate of
// contributor spans. Exactly one of Span and Aggregate is set.
type Item struct {
	Span      *Span      `json:"span,omitempty"`
	Aggregate *Aggregate `json:"aggregate,omitempty"`

	// Contributor marks an item that came from a contributor execution
	// rather than the parent execution.
	Contributor bool `json:"contributor"`
}

// Name returns the task name of the item.
func (it Item) Name() string {
	if it.Aggregate != nil {
		return it.Aggregate.TaskName
	}

	return it.Span.TaskName
}

// Start returns the placement start of the item.
func (it Item) Start() time.Time {
	if it.Aggregate != nil {
		return it.Aggregate.Start
	}

	return it.Span.Start
}

// End returns the placement end of the item.
func (it Item) End() time.Time {
	if it.Aggregate != nil {
		return it.Aggregate.End
	}

	return it.Span.End
}

// Width returns the length of the item's placement interval. For aggregates
// this is the representative interval, not the summed member durations.
func (it Item) Width() time.Duration {
	return it.End().Sub(it.Start())
}

// Total returns the item's contribution to elapsed time: the span duration,
// or the exact summed member durations for an aggregate.
func (it Item) Total() time.Duration {
	if it.Aggregate != nil {
		return it.Aggregate.Total
	}

	return it.Span.Duration()
}

// A Lane is one display row. No two items in a lane overlap in
// [start, end).
type Lane struct {
	Index int    `json:"index"`
	Items []Item `json:"items"`
}

// AssignLanes packs items into the minimum number of non-overlapping lanes
// using greedy interval partitioning: items are visited in start order (ties
// broken by longer placement interval first, then by name) and each is placed
// in the first lane whose last item ended at or before the item's start. The
// lane count equals the maximum number of simultaneously open items.
func AssignLanes(items []Item) []Lane {
	sorted := append([]Item(nil), items...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if !a.Start().Equal(b.Start()) {
			return a.Start().Before(b.Start())
		}

		if a.Width() != b.Width() {
			return a.Width() > b.Width()
		}

		return a.Name() < b.Name()
	})

	var (
		lanes    []Lane
		laneEnds []time.Time
	)

	for _, it := range sorted {
		placed := false

		for i := range lanes {
			if !laneEnds[i].After(it.Start()) {
				lanes[i].Items = append(lanes[i].Items, it)
				laneEnds[i] = it.End()
				placed = true

				break
			}
		}

		if !placed {
			lanes = append(lanes, Lane{
				Index: len(lanes),
				Items: []Item{it},
			})
			laneEnds = append(laneEnds, it.End())
		}
	}

	return lanes
}
