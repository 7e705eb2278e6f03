package timeline

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Rank", func() {
	It("should order task names by descending total duration", func() {
		items := spanItems([]Span{
			closedSpan("e", "A", 0, 10),
			closedSpan("e", "B", 10, 25),
			closedSpan("e", "C", 25, 27),
		})

		ranked := Rank(items, 0)

		Expect(ranked).To(Equal([]RankedTask{
			{Name: "B", Total: 15 * time.Second},
			{Name: "A", Total: 10 * time.Second},
			{Name: "C", Total: 2 * time.Second},
		}))
	})

	It("should sum repeated occurrences of a task name", func() {
		items := spanItems([]Span{
			closedSpan("e", "Poll", 0, 2),
			closedSpan("e", "Poll", 5, 9),
		})

		ranked := Rank(items, 0)

		Expect(ranked).To(HaveLen(1))
		Expect(ranked[0].Total).To(Equal(6 * time.Second))
	})

	It("should count an aggregate's exact total, not its width", func() {
		aggs := AggregateSpans([]Span{
			closedSpan("c1", "Fetch", 0, 3),
			closedSpan("c2", "Fetch", 7, 12),
		})

		ranked := Rank([]Item{{Aggregate: &aggs[0], Contributor: true}}, 0)

		Expect(ranked[0].Total).To(Equal(8 * time.Second))
	})

	It("should break duration ties by ascending name", func() {
		items := spanItems([]Span{
			closedSpan("e", "Zeta", 0, 5),
			closedSpan("e", "Alpha", 5, 10),
		})

		ranked := Rank(items, 0)

		Expect(ranked[0].Name).To(Equal("Alpha"))
		Expect(ranked[1].Name).To(Equal("Zeta"))
	})

	It("should truncate to the requested size", func() {
		items := spanItems([]Span{
			closedSpan("e", "A", 0, 10),
			closedSpan("e", "B", 10, 25),
			closedSpan("e", "C", 25, 27),
		})

		Expect(Rank(items, 2)).To(HaveLen(2))
		Expect(Rank(items, 10)).To(HaveLen(3))
	})
})

var _ = Describe("RankWithLoops", func() {
	It("should fold loop iterations into one pseudo-task", func() {
		spans := []Span{
			closedSpan("e", "Setup", 0, 1),
			closedSpan("e", "Check", 1, 3),
			closedSpan("e", "Wait", 3, 6),
			closedSpan("e", "Check", 6, 8),
			closedSpan("e", "Wait", 8, 11),
			closedSpan("e", "Done", 11, 12),
		}
		loops := FindLoops(spans)
		Expect(loops).To(HaveLen(1))

		ranked := RankWithLoops(spans, loops, 0)

		Expect(ranked[0].Name).To(Equal("[LOOP] Check|Wait"))
		Expect(ranked[0].Total).To(Equal(10 * time.Second))

		for _, r := range ranked[1:] {
			Expect(r.Name).NotTo(ContainSubstring("Check"))
			Expect(r.Name).NotTo(ContainSubstring("Wait"))
		}
	})
})
