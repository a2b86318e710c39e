// Package cli exposes the task engine through Cobra commands.
package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/tyemirov/tasker/internal/tasks"
)

const defaultDataRootDirectoryNameConstant = ".tasker"

// CommandConfiguration captures the settings shared by the task commands.
type CommandConfiguration struct {
	Tasks    tasks.Configuration
	Template tasks.TemplateDescriptor
	Aliases  tasks.AliasTable
}

// DefaultCommandConfiguration returns the built-in command settings.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{Tasks: tasks.DefaultConfiguration(), Aliases: tasks.AliasTable{}}
}

// Sanitize trims values and fills the data root when it is not configured.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.Tasks = configuration.Tasks.Sanitize()
	if len(sanitized.Tasks.DataRoot) == 0 {
		sanitized.Tasks.DataRoot = DefaultDataRoot()
	}
	sanitized.Template = tasks.TemplateDescriptor{
		Name:    strings.TrimSpace(configuration.Template.Name),
		Version: strings.TrimSpace(configuration.Template.Version),
	}
	sanitized.Aliases = make(tasks.AliasTable, len(configuration.Aliases))
	for name, alias := range configuration.Aliases {
		trimmedName := strings.TrimSpace(name)
		if len(trimmedName) == 0 {
			continue
		}
		sanitized.Aliases[trimmedName] = tasks.TaskAlias{
			Alias:       strings.TrimSpace(alias.Alias),
			Description: strings.TrimSpace(alias.Description),
		}
	}
	return sanitized
}

// DefaultDataRoot returns $HOME/.tasker, or .tasker relative to the working directory when the home directory is unknown.
func DefaultDataRoot() string {
	homeDirectory, homeDirectoryError := os.UserHomeDir()
	if homeDirectoryError != nil || len(strings.TrimSpace(homeDirectory)) == 0 {
		return defaultDataRootDirectoryNameConstant
	}
	return filepath.Join(homeDirectory, defaultDataRootDirectoryNameConstant)
}
