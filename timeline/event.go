package timeline

import "time"

// EventKind classifies a state transition in an execution history.
type EventKind int

const (
	// KindEntered marks the start of a task.
	KindEntered EventKind = iota

	// KindExited marks the successful end of a task.
	KindExited

	// KindFailed marks the failed end of a task.
	KindFailed

	// KindAborted marks the aborted end of a task.
	KindAborted
)

func (k EventKind) String() string {
	switch k {
	case KindEntered:
		return "Entered"
	case KindExited:
		return "Exited"
	case KindFailed:
		return "Failed"
	case KindAborted:
		return "Aborted"
	default:
		return "Unknown"
	}
}

// A RawRecord is one history record as delivered by a history source. The
// Kind field carries the provider's event type name. Seq is the record's
// position in the provider's original ordering and breaks timestamp ties.
type RawRecord struct {
	Seq      int64     `json:"seq"`
	Kind     string    `json:"kind"`
	TaskName string    `json:"task_name"`
	Time     time.Time `json:"time"`
	Payload  string    `json:"payload"`
}

// An Event is one typed state transition within an execution.
type Event struct {
	ExecutionID string    `json:"execution_id"`
	TaskName    string    `json:"task_name"`
	Kind        EventKind `json:"kind"`
	Time        time.Time `json:"time"`
	Seq         int64     `json:"seq"`
	Payload     string    `json:"payload"`
}
