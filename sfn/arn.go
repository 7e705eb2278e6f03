// Package sfn fetches AWS Step Functions execution histories and maps them
// into the neutral record shape the timeline engine consumes. All Step
// Functions schema knowledge stays behind this boundary.
package sfn

import (
	"fmt"
	"strings"
)

// An ExecutionArn identifies one state machine execution.
type ExecutionArn struct {
	Account      string
	Region       string
	StateMachine string
	Execution    string
}

// ParseArn parses a full execution ARN, e.g.
// arn:aws:states:us-west-2:123456789012:execution:MyStateMachine:run-1.
func ParseArn(s string) (ExecutionArn, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 8 {
		return ExecutionArn{}, fmt.Errorf("invalid execution arn: %q", s)
	}

	return ExecutionArn{
		Region:       parts[3],
		Account:      parts[4],
		StateMachine: parts[6],
		Execution:    parts[7],
	}, nil
}

// IsShortID reports whether s looks like the shortened
// "stateMachine:execution" form rather than a full ARN.
func IsShortID(s string) bool {
	return len(strings.Split(s, ":")) == 2
}

func (a ExecutionArn) String() string {
	return fmt.Sprintf("arn:aws:states:%s:%s:execution:%s:%s",
		a.Region, a.Account, a.StateMachine, a.Execution)
}

// Filename returns the ARN in a form safe to use as a file name.
func (a ExecutionArn) Filename() string {
	return strings.NewReplacer(":", "-", "/", "-").Replace(a.String())
}
