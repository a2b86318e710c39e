package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tyemirov/tasker/internal/execshell"
	"github.com/tyemirov/tasker/internal/filesystem"
	"github.com/tyemirov/tasker/internal/stores"
	"github.com/tyemirov/tasker/internal/tasks"
	flagutils "github.com/tyemirov/tasker/internal/utils/flags"
	"github.com/tyemirov/tasker/pkg/taskrunner"
)

const configurationInvalidTemplateConstant = "invalid task configuration: %w"

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the task Cobra commands.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConsoleLoggerProvider        LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
	CommandRunner                execshell.CommandRunner
	FileSystem                   filesystem.FileSystem
	WorkingDirectory             string
	RunIdentifierGenerator       func() string
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	if logger := builder.LoggerProvider(); logger != nil {
		return logger
	}
	return zap.NewNop()
}

func (builder *CommandBuilder) resolveConfiguration() (CommandConfiguration, error) {
	configuration := DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}
	sanitized := configuration.Sanitize()
	if validationError := sanitized.Tasks.Validate(); validationError != nil {
		return CommandConfiguration{}, fmt.Errorf(configurationInvalidTemplateConstant, validationError)
	}
	return sanitized, nil
}

func (builder *CommandBuilder) resolveFileSystem() filesystem.FileSystem {
	if builder.FileSystem != nil {
		return builder.FileSystem
	}
	return filesystem.NewOSFileSystem()
}

func (builder *CommandBuilder) resolveRunIdentifier() string {
	if builder.RunIdentifierGenerator != nil {
		if identifier := strings.TrimSpace(builder.RunIdentifierGenerator()); len(identifier) > 0 {
			return identifier
		}
	}
	return uuid.NewString()
}

func (builder *CommandBuilder) buildDependencies(command *cobra.Command, configuration CommandConfiguration) (taskrunner.DependenciesResult, error) {
	return taskrunner.BuildDependencies(
		taskrunner.DependenciesConfig{
			LoggerProvider:               builder.resolveLogger,
			ConsoleLoggerProvider:        builder.ConsoleLoggerProvider,
			HumanReadableLoggingProvider: builder.HumanReadableLoggingProvider,
			CommandRunner:                builder.CommandRunner,
			FileSystem:                   builder.resolveFileSystem(),
		},
		taskrunner.DependenciesOptions{
			Command:          command,
			WorkingDirectory: builder.WorkingDirectory,
			NodeCommand:      configuration.Tasks.NodeCommand,
		},
	)
}

// buildExecutionContext combines configuration, the installed store, and the mode flags of the command.
func (builder *CommandBuilder) buildExecutionContext(command *cobra.Command, configuration CommandConfiguration, runIdentifier string) (tasks.ExecutionContext, error) {
	store, storeError := stores.LoadStore(builder.resolveFileSystem(), filepath.Join(configuration.Tasks.DataRoot, configuration.Tasks.StoreFile))
	if storeError != nil {
		return tasks.ExecutionContext{}, storeError
	}

	modeFlags := flagutils.CollectModeFlags(command)

	options := tasks.Options{Tasks: configuration.Aliases}
	if len(configuration.Template.Name) > 0 {
		template := configuration.Template
		options.Template = &template
	}
	if len(modeFlags.TemplateName) > 0 {
		options.Template = &tasks.TemplateDescriptor{Name: modeFlags.TemplateName, Version: modeFlags.TemplateVersion}
	}

	return tasks.ExecutionContext{
		Mode: tasks.Mode{
			Template: modeFlags.Template,
			Global:   modeFlags.Global,
			Debug:    modeFlags.Debug,
			Parallel: modeFlags.Parallel,
		},
		Configuration: configuration.Tasks,
		Options:       options,
		Store:         store,
		RunIdentifier: runIdentifier,
	}, nil
}

func commandContext(command *cobra.Command) context.Context {
	if command == nil || command.Context() == nil {
		return context.Background()
	}
	return command.Context()
}
