package timeline

import (
	"sort"
	"time"
)

// A RankedTask is one entry of a largest-contributors list.
type RankedTask struct {
	Name  string        `json:"name"`
	Total time.Duration `json:"total_duration"`
}

// Rank sums, for every distinct task name in the given items, the total
// contribution to elapsed time, and returns the names ordered by descending
// total, ties broken by ascending name. A positive topN truncates the list.
func Rank(items []Item, topN int) []RankedTask {
	totals := make(map[string]time.Duration)

	for _, it := range items {
		totals[it.Name()] += it.Total()
	}

	return rankTotals(totals, topN)
}

// RankWithLoops ranks one execution's spans with loop iterations folded into
// a single "[LOOP] a|b" pseudo-task per loop, the way the interactive profile
// reports largest contributors including loops.
func RankWithLoops(spans []Span, loops []*Loop, topN int) []RankedTask {
	totals := make(map[string]time.Duration)

	for _, s := range spans {
		inLoop := false
		for _, l := range loops {
			if l.Contains(s.TaskName, s.Start) {
				inLoop = true
				break
			}
		}

		if !inLoop {
			totals[s.TaskName] += s.Duration()
		}
	}

	for _, l := range loops {
		totals["[LOOP] "+l.Name] += l.Duration()
	}

	return rankTotals(totals, topN)
}

func rankTotals(totals map[string]time.Duration, topN int) []RankedTask {
	ranked := make([]RankedTask, 0, len(totals))
	for name, total := range totals {
		ranked = append(ranked, RankedTask{Name: name, Total: total})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Total != ranked[j].Total {
			return ranked[i].Total > ranked[j].Total
		}

		return ranked[i].Name < ranked[j].Name
	})

	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}

	return ranked
}
