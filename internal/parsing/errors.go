package parsing

import "fmt"

// UnparsableOutputError is returned when every repair strategy has been
// exhausted without producing valid JSON.
type UnparsableOutputError struct {
	Attempts int
	Snippet  string
	LastErr  error
}

func (e *UnparsableOutputError) Error() string {
	if e.LastErr != nil {
		return fmt.Sprintf("unparsable model output after %d attempts: %v (snippet: %q)", e.Attempts, e.LastErr, e.Snippet)
	}
	return fmt.Sprintf("unparsable model output after %d attempts (snippet: %q)", e.Attempts, e.Snippet)
}

func (e *UnparsableOutputError) Unwrap() error {
	return e.LastErr
}
