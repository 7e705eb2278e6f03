package timeline

import (
	"sort"
	"strings"
)

// Normalize converts the raw history records of one execution into an ordered
// sequence of typed events. Records with unrecognized kinds are dropped with a
// warning. Records delivered out of order are re-sorted by timestamp, with
// ties broken by the original sequence index so that provider ordering is
// preserved.
func Normalize(execID string, records []RawRecord) ([]Event, []Warning) {
	var warnings []Warning

	events := make([]Event, 0, len(records))
	dropped := make(map[string]int)

	for _, r := range records {
		kind, ok := eventKind(r.Kind)
		if !ok {
			dropped[r.Kind]++
			continue
		}

		events = append(events, Event{
			ExecutionID: execID,
			TaskName:    r.TaskName,
			Kind:        kind,
			Time:        r.Time,
			Seq:         r.Seq,
			Payload:     r.Payload,
		})
	}

	kinds := make([]string, 0, len(dropped))
	for k := range dropped {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)

	for _, k := range kinds {
		warnings = append(warnings, warnf(WarnUnknownEvent, execID,
			"dropped %d record(s) of unsupported kind %q", dropped[k], k))
	}

	if !eventsOrdered(events) {
		warnings = append(warnings, warnf(WarnMalformedHistory, execID,
			"history records are not in timestamp order"))
	}

	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Time.Equal(events[j].Time) {
			return events[i].Time.Before(events[j].Time)
		}

		return events[i].Seq < events[j].Seq
	})

	return events, warnings
}

func eventsOrdered(events []Event) bool {
	for i := 1; i < len(events); i++ {
		if events[i].Time.Before(events[i-1].Time) {
			return false
		}
	}

	return true
}

// eventKind maps a provider event type name to a typed transition. Step
// Functions names state transitions with a state-type prefix
// (e.g., TaskStateEntered, MapStateExited), so matching on the suffix covers
// every state type with one rule.
func eventKind(kind string) (EventKind, bool) {
	switch {
	case strings.HasSuffix(kind, "StateEntered"):
		return KindEntered, true
	case strings.HasSuffix(kind, "StateExited"):
		return KindExited, true
	case strings.HasSuffix(kind, "StateFailed"):
		return KindFailed, true
	case strings.HasSuffix(kind, "StateAborted"):
		return KindAborted, true
	case kind == "ExecutionFailed", kind == "ExecutionTimedOut":
		return KindFailed, true
	case kind == "ExecutionAborted":
		return KindAborted, true
	default:
		return 0, false
	}
}
