package timeline

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Normalize", func() {
	It("should map provider state transitions to typed events", func() {
		records := []RawRecord{
			{Seq: 1, Kind: "TaskStateEntered", TaskName: "Fetch", Time: at(0)},
			{Seq: 2, Kind: "TaskStateExited", TaskName: "Fetch", Time: at(5)},
			{Seq: 3, Kind: "MapStateEntered", TaskName: "FanOut", Time: at(5)},
			{Seq: 4, Kind: "MapStateAborted", TaskName: "FanOut", Time: at(7)},
		}

		events, warnings := Normalize("exec-1", records)

		Expect(warnings).To(BeEmpty())
		Expect(events).To(HaveLen(4))
		Expect(events[0].Kind).To(Equal(KindEntered))
		Expect(events[1].Kind).To(Equal(KindExited))
		Expect(events[3].Kind).To(Equal(KindAborted))
		Expect(events[0].ExecutionID).To(Equal("exec-1"))
	})

	It("should drop unknown record kinds with a warning", func() {
		records := []RawRecord{
			{Seq: 1, Kind: "ExecutionStarted", Time: at(0)},
			{Seq: 2, Kind: "TaskStateEntered", TaskName: "A", Time: at(1)},
			{Seq: 3, Kind: "LambdaFunctionScheduled", Time: at(1)},
			{Seq: 4, Kind: "TaskStateExited", TaskName: "A", Time: at(2)},
		}

		events, warnings := Normalize("exec-1", records)

		Expect(events).To(HaveLen(2))
		Expect(warnings).To(HaveLen(2))
		Expect(warnings[0].Kind).To(Equal(WarnUnknownEvent))
	})

	It("should re-sort out-of-order records and flag the disorder", func() {
		records := []RawRecord{
			{Seq: 1, Kind: "TaskStateExited", TaskName: "A", Time: at(2)},
			{Seq: 2, Kind: "TaskStateEntered", TaskName: "A", Time: at(1)},
		}

		events, warnings := Normalize("exec-1", records)

		Expect(events[0].Kind).To(Equal(KindEntered))
		Expect(events[1].Kind).To(Equal(KindExited))
		Expect(warnings).To(HaveLen(1))
		Expect(warnings[0].Kind).To(Equal(WarnMalformedHistory))
	})

	It("should break timestamp ties by the original sequence index", func() {
		records := []RawRecord{
			{Seq: 10, Kind: "TaskStateEntered", TaskName: "A", Time: at(1)},
			{Seq: 11, Kind: "TaskStateExited", TaskName: "A", Time: at(1)},
		}

		events, warnings := Normalize("exec-1", records)

		Expect(warnings).To(BeEmpty())
		Expect(events[0].Seq).To(Equal(int64(10)))
		Expect(events[1].Seq).To(Equal(int64(11)))
	})
})
