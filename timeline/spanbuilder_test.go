package timeline

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("BuildSpans", func() {
	It("should pair enter and exit events into closed spans", func() {
		var events []Event
		events = append(events, enterExit("exec-1", "A", 0, 10, 1)...)
		events = append(events, enterExit("exec-1", "B", 10, 25, 3)...)

		tree := BuildSpans("exec-1", events, false)

		Expect(tree.Partial).To(BeFalse())
		Expect(tree.Spans).To(HaveLen(2))
		Expect(tree.Spans[0].TaskName).To(Equal("A"))
		Expect(tree.Spans[0].Duration().Seconds()).To(Equal(10.0))
		Expect(tree.Spans[1].TaskName).To(Equal("B"))
		Expect(tree.Spans[1].Status).To(Equal(StatusSucceeded))
	})

	It("should record parent and depth for nested tasks", func() {
		events := []Event{
			{ExecutionID: "e", TaskName: "Outer", Kind: KindEntered, Time: at(0), Seq: 1},
			{ExecutionID: "e", TaskName: "Inner", Kind: KindEntered, Time: at(1), Seq: 2},
			{ExecutionID: "e", TaskName: "Inner", Kind: KindExited, Time: at(2), Seq: 3},
			{ExecutionID: "e", TaskName: "Outer", Kind: KindExited, Time: at(3), Seq: 4},
		}

		tree := BuildSpans("e", events, false)

		Expect(tree.Spans).To(HaveLen(2))

		outer, _ := tree.Span(spanID("e", "Outer", 0))
		inner, _ := tree.Span(spanID("e", "Inner", 0))
		Expect(outer.ParentID).To(BeEmpty())
		Expect(outer.Depth).To(Equal(0))
		Expect(inner.ParentID).To(Equal(outer.ID))
		Expect(inner.Depth).To(Equal(1))
	})

	It("should flag an exit with no matching enter and keep building", func() {
		events := []Event{
			{ExecutionID: "e", TaskName: "Validate", Kind: KindExited, Time: at(1), Seq: 1},
			{ExecutionID: "e", TaskName: "A", Kind: KindEntered, Time: at(2), Seq: 2},
			{ExecutionID: "e", TaskName: "A", Kind: KindExited, Time: at(3), Seq: 3},
		}

		tree := BuildSpans("e", events, false)

		Expect(tree.Partial).To(BeTrue())
		Expect(tree.Warnings).To(HaveLen(1))
		Expect(tree.Warnings[0].Kind).To(Equal(WarnMalformedHistory))

		names := []string{}
		for _, s := range tree.Spans {
			names = append(names, s.TaskName)
		}
		Expect(names).To(Equal([]string{"A"}))
	})

	It("should close still-open tasks as running at the last timestamp", func() {
		events := []Event{
			{ExecutionID: "e", TaskName: "A", Kind: KindEntered, Time: at(0), Seq: 1},
			{ExecutionID: "e", TaskName: "B", Kind: KindEntered, Time: at(1), Seq: 2},
			{ExecutionID: "e", TaskName: "B", Kind: KindExited, Time: at(4), Seq: 3},
		}

		tree := BuildSpans("e", events, false)

		Expect(tree.Partial).To(BeTrue())

		a, ok := tree.Span(spanID("e", "A", 0))
		Expect(ok).To(BeTrue())
		Expect(a.Status).To(Equal(StatusRunning))
		Expect(a.End).To(Equal(at(4)))
	})

	It("should fold immediate retries into one span with attempt counts", func() {
		var events []Event
		events = append(events, enterExit("e", "Poll", 0, 2, 1)...)
		events = append(events, enterExit("e", "Poll", 2, 5, 3)...)

		tree := BuildSpans("e", events, false)

		Expect(tree.Spans).To(HaveLen(1))
		Expect(tree.Spans[0].Attempts).To(Equal(2))
		Expect(tree.Spans[0].Start).To(Equal(at(0)))
		Expect(tree.Spans[0].End).To(Equal(at(5)))
	})

	It("should keep retries separate when asked to", func() {
		var events []Event
		events = append(events, enterExit("e", "Poll", 0, 2, 1)...)
		events = append(events, enterExit("e", "Poll", 2, 5, 3)...)

		tree := BuildSpans("e", events, true)

		Expect(tree.Spans).To(HaveLen(2))
		Expect(tree.Spans[0].Attempts).To(Equal(1))
	})

	It("should close every open task on an execution-level abort", func() {
		events := []Event{
			{ExecutionID: "e", TaskName: "A", Kind: KindEntered, Time: at(0), Seq: 1},
			{ExecutionID: "e", TaskName: "B", Kind: KindEntered, Time: at(1), Seq: 2},
			{ExecutionID: "e", TaskName: "", Kind: KindAborted, Time: at(3), Seq: 3},
		}

		tree := BuildSpans("e", events, false)

		Expect(tree.Partial).To(BeFalse())
		Expect(tree.Spans).To(HaveLen(2))
		for _, s := range tree.Spans {
			Expect(s.Status).To(Equal(StatusAborted))
			Expect(s.End).To(Equal(at(3)))
		}
	})
})
