package llm

import "fmt"

// OracleError represents a failed call to the generative model service:
// network failure, timeout, throttling, or an empty/malformed response.
type OracleError struct {
	Model   string
	Message string
	Cause   error
}

func (e *OracleError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("oracle error (%s): %s: %v", e.Model, e.Message, e.Cause)
	}
	return fmt.Sprintf("oracle error (%s): %s", e.Model, e.Message)
}

func (e *OracleError) Unwrap() error {
	return e.Cause
}

// AllModelsExhaustedError is returned by the invoker when every model in
// the fallback list failed for a stage.
type AllModelsExhaustedError struct {
	Stage   string
	Models  []string
	LastErr error
}

func (e *AllModelsExhaustedError) Error() string {
	return fmt.Sprintf("all %d models exhausted for stage %s: %v", len(e.Models), e.Stage, e.LastErr)
}

func (e *AllModelsExhaustedError) Unwrap() error {
	return e.LastErr
}
