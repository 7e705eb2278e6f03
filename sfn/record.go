package sfn

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sfn/types"

	"github.com/sanjams2/sfn-profiler/timeline"
)

// rawRecord maps one SDK history event into the neutral record shape. Only
// the fields the timeline engine needs survive: the event type name, the
// state name, the timestamp, and the state's input/output payload (used for
// contributor correlation).
func rawRecord(e types.HistoryEvent) timeline.RawRecord {
	r := timeline.RawRecord{
		Seq:  e.Id,
		Kind: string(e.Type),
	}

	if e.Timestamp != nil {
		r.Time = e.Timestamp.UTC()
	} else {
		r.Time = time.Time{}
	}

	if d := e.StateEnteredEventDetails; d != nil {
		r.TaskName = aws.ToString(d.Name)
		r.Payload = aws.ToString(d.Input)
	}

	if d := e.StateExitedEventDetails; d != nil {
		r.TaskName = aws.ToString(d.Name)
		r.Payload = aws.ToString(d.Output)
	}

	return r
}
