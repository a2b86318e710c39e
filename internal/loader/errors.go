package loader

import (
	"errors"
	"fmt"
)

const (
	unsupportedEntryPointTemplateConstant = "no loader registered for %s"
	taskPanicTemplateConstant             = "task panicked: %v"
	executorMissingMessageConstant        = "node loader executor not configured"
)

// ErrExecutorNotConfigured indicates that the node loader was built without a command executor.
var ErrExecutorNotConfigured = errors.New(executorMissingMessageConstant)

// UnsupportedEntryPointError reports an entry point no loader can handle.
type UnsupportedEntryPointError struct {
	EntryPoint string
}

// Error implements the error interface.
func (unsupportedError UnsupportedEntryPointError) Error() string {
	return fmt.Sprintf(unsupportedEntryPointTemplateConstant, unsupportedError.EntryPoint)
}

// TaskPanicError wraps a panic raised while a task ran.
type TaskPanicError struct {
	Value any
}

// Error implements the error interface.
func (panicError TaskPanicError) Error() string {
	return fmt.Sprintf(taskPanicTemplateConstant, panicError.Value)
}
