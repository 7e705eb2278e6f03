package timeline

import (
	"sort"
	"time"
)

// Input carries the fully materialized trees a build consumes.
type Input struct {
	// Parent is the profiled execution's span tree.
	Parent *Tree

	// Contributors are the span trees of the related executions whose
	// activity is attributed under the parent's timeline.
	Contributors []*Tree

	// Keys optionally maps a contributor execution id to the parent span id
	// that invoked it, overriding payload-based inference.
	Keys map[string]string
}

// Build assembles the timeline model. It is a pure function of its inputs:
// identical trees and policy yield an identical model, regardless of the
// order the histories were fetched in.
func Build(in Input, p Policy) (*Model, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	links, linkWarnings := Correlate(in.Parent, in.Contributors, in.Keys)

	m := &Model{
		ExecutionID: in.Parent.ExecutionID,
		Links:       links,
		Loops:       FindLoops(in.Parent.Spans),
		Partial:     map[string]bool{},
	}

	collectWarnings(m, in, linkWarnings)

	parentItems := make([]Item, 0, len(in.Parent.Spans))
	for i := range in.Parent.Spans {
		parentItems = append(parentItems, Item{Span: &in.Parent.Spans[i]})
	}

	contribItems := buildContributorItems(in, links, p)

	allItems := make([]Item, 0, len(parentItems)+len(contribItems))
	allItems = append(allItems, parentItems...)
	allItems = append(allItems, contribItems...)

	if p.Interleave {
		m.Lanes = AssignLanes(allItems)
	} else {
		m.Lanes = AssignLanes(parentItems)
		m.ContributorLanes = offsetLanes(AssignLanes(contribItems), len(m.Lanes))
	}

	m.Ranked = Rank(allItems, p.TopN)
	m.RankedWithLoops = RankWithLoops(in.Parent.Spans, m.Loops, p.TopN)
	m.Root = rootSpan(in.Parent.ExecutionID, allItems)

	return m, nil
}

func collectWarnings(m *Model, in Input, linkWarnings []Warning) {
	m.Warnings = append(m.Warnings, in.Parent.Warnings...)
	if in.Parent.Partial {
		m.Partial[in.Parent.ExecutionID] = true
	}

	for _, c := range sortedTrees(in.Contributors) {
		m.Warnings = append(m.Warnings, c.Warnings...)
		if c.Partial {
			m.Partial[c.ExecutionID] = true
		}
	}

	m.Warnings = append(m.Warnings, linkWarnings...)
}

// buildContributorItems prepares the contributor side of the timeline:
// per-execution loop coalescing, the minimum-duration filter, then either
// per-parent-span aggregation or pass-through spans tagged with their source
// execution.
func buildContributorItems(in Input, links []Link, p Policy) []Item {
	spansByExec := make(map[string][]Span)

	for _, c := range in.Contributors {
		spans := c.Spans
		if p.CoalesceLoops {
			spans = CoalesceLoops(spans, FindLoops(spans))
		}

		spansByExec[c.ExecutionID] = FilterSpans(spans, p.MinContributorTaskDuration)
	}

	// Group contributor spans by the parent span they attach to. Links are
	// already in contributor-id order, so groups are deterministic.
	groups := make(map[string][]Span)
	for _, l := range links {
		groups[l.ParentSpanID] = append(
			groups[l.ParentSpanID], spansByExec[l.ContributorID]...)
	}

	var items []Item

	for _, parentSpanID := range groupOrder(in.Parent, groups) {
		group := groups[parentSpanID]

		if !p.Aggregate {
			for i := range group {
				items = append(items, Item{Span: &group[i], Contributor: true})
			}

			continue
		}

		aggs := AggregateSpans(group)
		for i := range aggs {
			items = append(items, Item{Aggregate: &aggs[i], Contributor: true})
		}
	}

	return items
}

// groupOrder lists the occupied parent span IDs in the parent tree's span
// order, with orphans (empty ID) last.
func groupOrder(parent *Tree, groups map[string][]Span) []string {
	order := make([]string, 0, len(groups))

	for _, s := range parent.Spans {
		if _, ok := groups[s.ID]; ok {
			order = append(order, s.ID)
		}
	}

	if _, ok := groups[""]; ok {
		order = append(order, "")
	}

	return order
}

func offsetLanes(lanes []Lane, offset int) []Lane {
	for i := range lanes {
		lanes[i].Index += offset
	}

	return lanes
}

func rootSpan(execID string, items []Item) Span {
	var start, end time.Time

	for _, it := range items {
		if start.IsZero() || it.Start().Before(start) {
			start = it.Start()
		}

		if it.End().After(end) {
			end = it.End()
		}
	}

	return Span{
		ID:          spanID(execID, "execution", 0),
		ExecutionID: execID,
		TaskName:    execID,
		Start:       start,
		End:         end,
		Status:      StatusSucceeded,
		Attempts:    1,
	}
}

func sortedTrees(trees []*Tree) []*Tree {
	out := append([]*Tree(nil), trees...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ExecutionID < out[j].ExecutionID
	})

	return out
}
