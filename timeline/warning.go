package timeline

import "fmt"

// WarningKind classifies a recoverable data-quality issue found during a
// build.
type WarningKind int

const (
	// WarnUnknownEvent reports a history record kind the normalizer does not
	// understand. The record is dropped.
	WarnUnknownEvent WarningKind = iota

	// WarnMalformedHistory reports an unmatched exit event, a still-open task
	// at the end of a history, or non-monotonic record ordering. The affected
	// execution's tree is marked partial.
	WarnMalformedHistory

	// WarnCorrelationAmbiguity reports a contributor execution that could not
	// be unambiguously attached to a parent task span.
	WarnCorrelationAmbiguity
)

func (k WarningKind) String() string {
	switch k {
	case WarnUnknownEvent:
		return "UnknownEvent"
	case WarnMalformedHistory:
		return "MalformedHistory"
	case WarnCorrelationAmbiguity:
		return "CorrelationAmbiguity"
	default:
		return "Unknown"
	}
}

// A Warning annotates a timeline with a recoverable data-quality issue.
// Warnings never abort a build.
type Warning struct {
	Kind        WarningKind `json:"kind"`
	ExecutionID string      `json:"execution_id"`
	Message     string      `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("[%s] %s: %s", w.Kind, w.ExecutionID, w.Message)
}

func warnf(
	kind WarningKind,
	execID string,
	format string,
	args ...any,
) Warning {
	return Warning{
		Kind:        kind,
		ExecutionID: execID,
		Message:     fmt.Sprintf(format, args...),
	}
}
