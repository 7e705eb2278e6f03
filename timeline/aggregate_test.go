package timeline

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("FilterSpans", func() {
	It("should drop spans strictly shorter than the minimum", func() {
		spans := []Span{
			closedSpan("e", "Short", 0, 1),
			closedSpan("e", "Exact", 1, 3),
			closedSpan("e", "Long", 3, 10),
		}

		out := FilterSpans(spans, 2*time.Second)

		Expect(out).To(HaveLen(2))
		Expect(out[0].TaskName).To(Equal("Exact"))
		Expect(out[1].TaskName).To(Equal("Long"))
	})

	It("should keep everything when the minimum is zero", func() {
		spans := []Span{closedSpan("e", "Short", 0, 1)}
		Expect(FilterSpans(spans, 0)).To(Equal(spans))
	})
})

var _ = Describe("AggregateSpans", func() {
	It("should collapse same-named spans across executions", func() {
		spans := []Span{
			closedSpan("child-1", "Fetch", 0, 3),
			closedSpan("child-2", "Fetch", 1, 6),
		}

		aggs := AggregateSpans(spans)

		Expect(aggs).To(HaveLen(1))
		agg := aggs[0]
		Expect(agg.TaskName).To(Equal("Fetch"))
		Expect(agg.Count).To(Equal(2))
		Expect(agg.Total).To(Equal(8 * time.Second))
		Expect(agg.Mean).To(Equal(4 * time.Second))
		Expect(agg.Min).To(Equal(3 * time.Second))
		Expect(agg.Max).To(Equal(5 * time.Second))
		Expect(agg.Contributors).To(Equal([]string{"child-1", "child-2"}))
	})

	It("should place the aggregate over the members' envelope interval", func() {
		spans := []Span{
			closedSpan("child-1", "Fetch", 2, 5),
			closedSpan("child-2", "Fetch", 0, 3),
			closedSpan("child-3", "Fetch", 4, 9),
		}

		agg := AggregateSpans(spans)[0]

		// Placement interval is the earliest start to the latest end, which
		// is wider than the summed member durations.
		Expect(agg.Start).To(Equal(at(0)))
		Expect(agg.End).To(Equal(at(9)))
		Expect(agg.Total).To(Equal(11 * time.Second))
	})

	It("should conserve the total duration across groups", func() {
		spans := []Span{
			closedSpan("c1", "Fetch", 0, 3),
			closedSpan("c1", "Store", 3, 4),
			closedSpan("c2", "Fetch", 1, 6),
			closedSpan("c2", "Store", 6, 9),
		}

		var sumSpans, sumAggs time.Duration
		for _, s := range spans {
			sumSpans += s.Duration()
		}
		for _, a := range AggregateSpans(spans) {
			sumAggs += a.Total
		}

		Expect(sumAggs).To(Equal(sumSpans))
	})

	It("should order groups by start time then name", func() {
		spans := []Span{
			closedSpan("c1", "Zeta", 0, 1),
			closedSpan("c1", "Alpha", 0, 2),
			closedSpan("c1", "Mid", 5, 6),
		}

		aggs := AggregateSpans(spans)

		Expect(aggs[0].TaskName).To(Equal("Alpha"))
		Expect(aggs[1].TaskName).To(Equal("Zeta"))
		Expect(aggs[2].TaskName).To(Equal("Mid"))
	})
})
