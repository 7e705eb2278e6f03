// Package export flattens a timeline model into a neutral stream of track
// events and serializes that stream into the Chrome Trace Event Format, the
// interchange format the Perfetto UI loads.
package export

import (
	"fmt"
	"strconv"
	"time"

	"github.com/sanjams2/sfn-profiler/timeline"
)

// A Record is one neutral track event. Records carry no knowledge of any
// serialization schema; a serializer turns them into bytes.
type Record struct {
	// TrackID is unique per (lane, source execution) pair, so concurrent
	// executions never share a track.
	TrackID int `json:"track_id"`

	// Track is the track's display name.
	Track string `json:"track"`

	// Event is the task or aggregate name.
	Event string `json:"event"`

	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	// Meta carries span status, attempt counts, and aggregate statistics.
	Meta map[string]string `json:"meta,omitempty"`
}

// A Trace is the exported form of one timeline model.
type Trace struct {
	ExecutionID string   `json:"execution_id"`
	Records     []Record `json:"records"`
}

// Walk flattens a model into a trace. The root span comes first, then every
// lane's items in lane order. Track IDs are assigned in that same order, so
// identical models yield identical traces.
func Walk(m *timeline.Model) Trace {
	t := Trace{ExecutionID: m.ExecutionID}

	tracks := map[string]int{}
	trackID := func(laneIndex int, execID string) int {
		key := fmt.Sprintf("%d/%s", laneIndex, execID)
		if id, ok := tracks[key]; ok {
			return id
		}

		id := len(tracks)
		tracks[key] = id

		return id
	}

	root := m.Root
	t.Records = append(t.Records, Record{
		TrackID: trackID(-1, root.ExecutionID),
		Track:   root.ExecutionID,
		Event:   root.TaskName,
		Start:   root.Start,
		End:     root.End,
	})

	for _, lane := range m.AllLanes() {
		for _, it := range lane.Items {
			t.Records = append(t.Records, itemRecord(lane, it, trackID))
		}
	}

	return t
}

func itemRecord(
	lane timeline.Lane,
	it timeline.Item,
	trackID func(int, string) int,
) Record {
	if agg := it.Aggregate; agg != nil {
		return Record{
			TrackID: trackID(lane.Index, "aggregate"),
			Track:   fmt.Sprintf("lane %d (aggregated)", lane.Index),
			Event:   agg.TaskName,
			Start:   agg.Start,
			End:     agg.End,
			Meta: map[string]string{
				"member_count":   strconv.Itoa(agg.Count),
				"total_duration": agg.Total.String(),
				"mean_duration":  agg.Mean.String(),
				"min_duration":   agg.Min.String(),
				"max_duration":   agg.Max.String(),
			},
		}
	}

	s := it.Span

	meta := map[string]string{
		"execution": s.ExecutionID,
		"status":    s.Status.String(),
	}
	if s.Attempts > 1 {
		meta["attempts"] = strconv.Itoa(s.Attempts)
	}

	track := fmt.Sprintf("lane %d", lane.Index)
	if it.Contributor {
		track = fmt.Sprintf("lane %d (%s)", lane.Index, s.ExecutionID)
	}

	return Record{
		TrackID: trackID(lane.Index, s.ExecutionID),
		Track:   track,
		Event:   s.TaskName,
		Start:   s.Start,
		End:     s.End,
		Meta:    meta,
	}
}
