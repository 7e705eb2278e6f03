package timeline

import (
	"sort"
	"strings"
)

// A Link attaches one contributor execution to the parent task span that
// invoked it. An empty ParentSpanID marks an orphan that is attached directly
// under the parent execution's root.
type Link struct {
	ParentSpanID  string `json:"parent_span_id"`
	ContributorID string `json:"contributor_execution_id"`
}

// Correlate links every contributor execution to a task span of the parent
// execution.
//
// A caller-supplied key (contributor execution id -> parent span id) wins
// when present. Otherwise candidates are inferred by scanning parent span
// payloads for the contributor's execution id. When several candidates match,
// the most recently started span that was still open at the contributor's
// start wins. A contributor with no temporally consistent candidate is
// attached as a top-level orphan and flagged.
func Correlate(
	parent *Tree,
	contributors []*Tree,
	keys map[string]string,
) ([]Link, []Warning) {
	links := make([]Link, 0, len(contributors))

	var warnings []Warning

	sorted := append([]*Tree(nil), contributors...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ExecutionID < sorted[j].ExecutionID
	})

	for _, c := range sorted {
		link, warning := correlateOne(parent, c, keys)
		links = append(links, link)

		if warning != nil {
			warnings = append(warnings, *warning)
		}
	}

	return links, warnings
}

func correlateOne(
	parent *Tree,
	contributor *Tree,
	keys map[string]string,
) (Link, *Warning) {
	if id, ok := keys[contributor.ExecutionID]; ok {
		if _, found := parent.Span(id); found {
			return Link{ParentSpanID: id, ContributorID: contributor.ExecutionID}, nil
		}

		w := warnf(WarnCorrelationAmbiguity, contributor.ExecutionID,
			"correlation key names unknown parent span %q; attaching at the root", id)

		return Link{ContributorID: contributor.ExecutionID}, &w
	}

	candidates := candidateSpans(parent, contributor.ExecutionID)

	switch len(candidates) {
	case 0:
		w := warnf(WarnCorrelationAmbiguity, contributor.ExecutionID,
			"no parent span references this execution; attaching at the root")

		return Link{ContributorID: contributor.ExecutionID}, &w
	case 1:
		return Link{
			ParentSpanID:  candidates[0].ID,
			ContributorID: contributor.ExecutionID,
		}, nil
	}

	if best, ok := temporalBestMatch(candidates, contributor); ok {
		return Link{ParentSpanID: best.ID, ContributorID: contributor.ExecutionID}, nil
	}

	w := warnf(WarnCorrelationAmbiguity, contributor.ExecutionID,
		"%d parent spans reference this execution but none contains its start; "+
			"attaching at the root", len(candidates))

	return Link{ContributorID: contributor.ExecutionID}, &w
}

func candidateSpans(parent *Tree, contributorID string) []Span {
	var candidates []Span

	for _, s := range parent.Spans {
		if strings.Contains(s.Payload, contributorID) {
			candidates = append(candidates, s)
		}
	}

	return candidates
}

// temporalBestMatch picks the most recently started candidate that had not
// yet exited when the contributor started.
func temporalBestMatch(candidates []Span, contributor *Tree) (Span, bool) {
	start := contributor.Start()

	best := -1
	for i, s := range candidates {
		if s.Start.After(start) || s.End.Before(start) {
			continue
		}

		if best < 0 || s.Start.After(candidates[best].Start) {
			best = i
		}
	}

	if best < 0 {
		return Span{}, false
	}

	return candidates[best], true
}
