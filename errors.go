package lexpdf

import "fmt"

// EngineError wraps a failure with the engine operation it occurred in.
type EngineError struct {
	Op  string // operation name, e.g. "Validate", "Annotate"
	Err error  // underlying error
}

func (e *EngineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("lexpdf.%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("lexpdf.%s: unknown error", e.Op)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

func opError(op string, err error) *EngineError {
	return &EngineError{Op: op, Err: err}
}
