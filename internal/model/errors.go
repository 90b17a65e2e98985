package model

import (
	"errors"
	"fmt"
)

// Error taxonomy for the gateway surface. Every rejection carries a
// structured, human-readable reason; a bare boolean is never enough.
var (
	// ErrAuthentication marks a bad or missing invocation token. Rejected
	// before the pipeline runs; never recorded as a policy block.
	ErrAuthentication = errors.New("authentication failure")

	// ErrSchemaViolation marks arguments that failed the tool's input schema.
	ErrSchemaViolation = errors.New("schema violation")

	// ErrFatalConfiguration marks startup config that must refuse service
	// rather than degrade to a permissive state.
	ErrFatalConfiguration = errors.New("fatal configuration")
)

// ExecutionError wraps an underlying tool or collaborator failure. It is
// surfaced to the caller so the script's own reasoning can retry, and it
// never mutates tracker state.
type ExecutionError struct {
	Tool string
	Err  error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("tool %s execution failed: %v", e.Tool, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }
