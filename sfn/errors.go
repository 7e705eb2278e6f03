package sfn

import "fmt"

// A FetchError reports a failed history fetch. Fetch errors are fatal for
// the build that required the execution: no meaningful timeline can be built
// around a missing history.
type FetchError struct {
	Execution string
	Err       error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching history of %s: %v", e.Execution, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
