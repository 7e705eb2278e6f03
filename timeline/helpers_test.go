package timeline

import "time"

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func at(sec float64) time.Time {
	return t0.Add(time.Duration(sec * float64(time.Second)))
}

func enterExit(execID, name string, startSec, endSec float64, seq int64) []Event {
	return []Event{
		{
			ExecutionID: execID,
			TaskName:    name,
			Kind:        KindEntered,
			Time:        at(startSec),
			Seq:         seq,
		},
		{
			ExecutionID: execID,
			TaskName:    name,
			Kind:        KindExited,
			Time:        at(endSec),
			Seq:         seq + 1,
		},
	}
}

func closedSpan(execID, name string, startSec, endSec float64) Span {
	return Span{
		ID:          spanID(execID, name, 0),
		ExecutionID: execID,
		TaskName:    name,
		Start:       at(startSec),
		End:         at(endSec),
		Status:      StatusSucceeded,
		Attempts:    1,
	}
}
