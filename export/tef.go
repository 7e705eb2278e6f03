package export

import (
	"encoding/json"
	"io"
	"time"
)

// tefEvent is one entry in a Chrome Trace Event Format file. Timestamps and
// durations are microseconds; "X" events are complete slices, "M" events are
// metadata naming processes and threads.
type tefEvent struct {
	Name  string         `json:"name"`
	Phase string         `json:"ph"`
	PID   int            `json:"pid"`
	TID   int            `json:"tid"`
	Ts    int64          `json:"ts"`
	Dur   int64          `json:"dur,omitempty"`
	Args  map[string]any `json:"args,omitempty"`
}

type tefFile struct {
	TraceEvents     []tefEvent `json:"traceEvents"`
	DisplayTimeUnit string     `json:"displayTimeUnit"`
}

// WriteTEF serializes traces into one Chrome Trace Event Format file. Each
// trace becomes its own process, named after its execution; each track becomes
// a thread within that process. Timestamps are relative to the earliest record
// across all traces, so the viewer opens at zero.
func WriteTEF(w io.Writer, traces ...Trace) error {
	epoch := earliestStart(traces)

	file := tefFile{
		TraceEvents:     []tefEvent{},
		DisplayTimeUnit: "ms",
	}

	for pid, trace := range traces {
		file.TraceEvents = append(file.TraceEvents, tefEvent{
			Name:  "process_name",
			Phase: "M",
			PID:   pid,
			Args:  map[string]any{"name": trace.ExecutionID},
		})

		named := map[int]bool{}
		for _, r := range trace.Records {
			if !named[r.TrackID] {
				named[r.TrackID] = true
				file.TraceEvents = append(file.TraceEvents, tefEvent{
					Name:  "thread_name",
					Phase: "M",
					PID:   pid,
					TID:   r.TrackID,
					Args:  map[string]any{"name": r.Track},
				})
			}

			file.TraceEvents = append(file.TraceEvents, recordEvent(pid, r, epoch))
		}
	}

	enc := json.NewEncoder(w)

	return enc.Encode(file)
}

func recordEvent(pid int, r Record, epoch time.Time) tefEvent {
	ev := tefEvent{
		Name:  r.Event,
		Phase: "X",
		PID:   pid,
		TID:   r.TrackID,
		Ts:    r.Start.Sub(epoch).Microseconds(),
		Dur:   r.End.Sub(r.Start).Microseconds(),
	}

	if len(r.Meta) > 0 {
		ev.Args = make(map[string]any, len(r.Meta))
		for k, v := range r.Meta {
			ev.Args[k] = v
		}
	}

	return ev
}

func earliestStart(traces []Trace) time.Time {
	var epoch time.Time
	for _, t := range traces {
		for _, r := range t.Records {
			if epoch.IsZero() || r.Start.Before(epoch) {
				epoch = r.Start
			}
		}
	}

	return epoch
}
