// Package loader loads task entry points and invokes the callable they export.
//
// A task module's contract is to export a callable that receives the task context. The callable
// may be asynchronous; any other export shape is a no-op execution. Each load receives its own
// ordered list of module search directories, so no module-resolution state leaks between tasks.
package loader

import (
	"context"
	"io"
	"path/filepath"
	"strings"
)

// ModeView exposes the execution mode flags to task code.
type ModeView struct {
	Template bool `json:"template"`
	Global   bool `json:"global"`
	Debug    bool `json:"debug"`
	Parallel bool `json:"parallel"`
}

// TemplateView exposes the active template to task code.
type TemplateView struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// TaskContext is the explicit context handed to a task's exported callable.
type TaskContext struct {
	Name             string            `json:"name"`
	Type             string            `json:"type"`
	Path             string            `json:"path"`
	Params           map[string]string `json:"params"`
	Mode             ModeView          `json:"mode"`
	Template         TemplateView      `json:"template"`
	WorkingDirectory string            `json:"workingDirectory"`
	SearchPaths      []string          `json:"searchPaths"`
	RunIdentifier    string            `json:"runId"`
}

// LoadRequest describes one entry-point load.
type LoadRequest struct {
	EntryPoint  string
	SearchPaths []string
	Context     TaskContext
	Output      io.Writer
	Errors      io.Writer
}

// Loader loads an entry point and awaits its exported callable.
type Loader interface {
	Load(executionContext context.Context, request LoadRequest) error
}

// Dispatcher routes loads to a loader registered for the entry point's file extension.
type Dispatcher struct {
	fallback    Loader
	byExtension map[string]Loader
}

// NewDispatcher builds a Dispatcher. Extensions are matched case-insensitively and include the leading dot.
func NewDispatcher(fallback Loader, byExtension map[string]Loader) Dispatcher {
	normalized := make(map[string]Loader, len(byExtension))
	for extension, extensionLoader := range byExtension {
		normalized[strings.ToLower(extension)] = extensionLoader
	}
	return Dispatcher{fallback: fallback, byExtension: normalized}
}

// Load delegates to the loader registered for the entry point's extension or to the fallback.
func (dispatcher Dispatcher) Load(executionContext context.Context, request LoadRequest) error {
	extension := strings.ToLower(filepath.Ext(request.EntryPoint))
	if extensionLoader, exists := dispatcher.byExtension[extension]; exists && extensionLoader != nil {
		return extensionLoader.Load(executionContext, request)
	}
	if dispatcher.fallback == nil {
		return UnsupportedEntryPointError{EntryPoint: request.EntryPoint}
	}
	return dispatcher.fallback.Load(executionContext, request)
}
