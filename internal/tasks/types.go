// Package tasks resolves task invocations to executable entry points across the local project,
// the active template, and globally installed task packages, records invocation parameters,
// and executes the resolved entry points.
package tasks

import (
	"github.com/tyemirov/tasker/internal/stores"
)

// Scope identifies where a task definition was found.
type Scope string

const (
	// ScopeLocal identifies tasks defined in the current project.
	ScopeLocal Scope = "local"
	// ScopeTemplate identifies tasks shipped with the active template.
	ScopeTemplate Scope = "template"
	// ScopeGlobal identifies globally installed task packages.
	ScopeGlobal Scope = "global"
)

// ParameterSet maps parameter keys to their values for one invocation.
type ParameterSet map[string]string

// TaskRequest is one task invocation.
type TaskRequest struct {
	Name   string
	Params ParameterSet
}

// Mode holds the execution mode flags.
type Mode struct {
	Template bool
	Global   bool
	Debug    bool
	Parallel bool
}

// TemplateDescriptor names the active template.
type TemplateDescriptor struct {
	Name    string `mapstructure:"name" yaml:"name" json:"name"`
	Version string `mapstructure:"version" yaml:"version" json:"version"`
}

// TaskAlias declares a short alias and a description for a canonical task name.
type TaskAlias struct {
	Alias       string `mapstructure:"alias" yaml:"alias" json:"alias"`
	Description string `mapstructure:"description" yaml:"description" json:"description"`
}

// AliasTable maps canonical task names to their aliases.
type AliasTable map[string]TaskAlias

// Options carries the user-level options of the current project.
type Options struct {
	Template *TemplateDescriptor
	Tasks    AliasTable
}

// ExecutionContext is the long-lived context shared by every task of a batch.
type ExecutionContext struct {
	Mode          Mode
	Configuration Configuration
	Options       Options
	Store         stores.Store
	RunIdentifier string
}

// TaskInfo describes a resolved task.
type TaskInfo struct {
	Name            string `json:"name"`
	Type            Scope  `json:"type"`
	Path            string `json:"path"`
	TemplateName    string `json:"template,omitempty"`
	TemplateVersion string `json:"templateVersion,omitempty"`
}

// ScopeFromMode derives the requested scope. The template flag wins over the global flag.
func ScopeFromMode(mode Mode) Scope {
	switch {
	case mode.Template:
		return ScopeTemplate
	case mode.Global:
		return ScopeGlobal
	default:
		return ScopeLocal
	}
}
