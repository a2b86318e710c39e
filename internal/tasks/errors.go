package tasks

import (
	"errors"
	"fmt"
)

const (
	taskNotFoundMessageConstant            = "task not found"
	taskNotFoundTemplateConstant           = "Error: Task `%s` not found."
	executionFailureTemplateConstant       = "Task `%s` error: %v"
	loggerMissingMessageConstant           = "task logger not configured"
	fileSystemMissingMessageConstant       = "task filesystem not configured"
	manifestReaderMissingMessageConstant   = "task manifest reader not configured"
	loaderMissingMessageConstant           = "task loader not configured"
	workingDirectoryMissingMessageConstant = "working directory must be provided"
)

// ErrTaskNotFound indicates that no scope holds a definition for the requested task.
var ErrTaskNotFound = errors.New(taskNotFoundMessageConstant)

// ErrLoggerNotConfigured indicates that the service was built without a reporter.
var ErrLoggerNotConfigured = errors.New(loggerMissingMessageConstant)

// ErrFileSystemNotConfigured indicates that the service was built without a filesystem.
var ErrFileSystemNotConfigured = errors.New(fileSystemMissingMessageConstant)

// ErrManifestReaderNotConfigured indicates that the service was built without a manifest reader.
var ErrManifestReaderNotConfigured = errors.New(manifestReaderMissingMessageConstant)

// ErrLoaderNotConfigured indicates that the service was built without a module loader.
var ErrLoaderNotConfigured = errors.New(loaderMissingMessageConstant)

// ErrWorkingDirectoryRequired indicates that the service was built without a working directory.
var ErrWorkingDirectoryRequired = errors.New(workingDirectoryMissingMessageConstant)

// TaskNotFoundError reports the task name that could not be resolved.
type TaskNotFoundError struct {
	TaskName string
}

// Error implements the error interface.
func (notFoundError TaskNotFoundError) Error() string {
	return fmt.Sprintf(taskNotFoundTemplateConstant, notFoundError.TaskName)
}

// Unwrap exposes ErrTaskNotFound.
func (notFoundError TaskNotFoundError) Unwrap() error {
	return ErrTaskNotFound
}

// ExecutionFailureError wraps a failure raised while loading or running a task.
type ExecutionFailureError struct {
	TaskName string
	Cause    error
}

// Error implements the error interface.
func (failureError ExecutionFailureError) Error() string {
	return fmt.Sprintf(executionFailureTemplateConstant, failureError.TaskName, failureError.Cause)
}

// Unwrap exposes the underlying cause.
func (failureError ExecutionFailureError) Unwrap() error {
	return failureError.Cause
}
