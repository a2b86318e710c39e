package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tyemirov/tasker/internal/utils"
	flagutils "github.com/tyemirov/tasker/internal/utils/flags"
	"github.com/tyemirov/tasker/pkg/taskrunner"
)

const (
	runCommandUseConstant              = "run <task> [key=value...] [<task> [key=value...]...]"
	runCommandShortDescriptionConstant = "Run one or more tasks"
	runCommandLongDescriptionConstant  = "run resolves each task in the local project, the active template, or the globally installed task packages and executes it. key=value arguments attach parameters to the task named before them."
	paramsFlagNameConstant             = "params"
	paramsFlagUsageConstant            = "Print the recorded task parameters as JSON after the batch finishes"
	taskNameRequiredMessageConstant    = "at least one task name is required"
	batchStartedMessageConstant        = "Task batch started"
	batchFinishedMessageConstant       = "Task batch finished"
	runIdentifierFieldConstant         = "run_id"
	taskCountFieldConstant             = "task_count"
	parallelFieldConstant              = "parallel"
	paramsEncodeErrorTemplateConstant  = "unable to encode task parameters: %w"
	jsonIndentConstant                 = "  "
)

// ErrTaskNameRequired indicates that no task name was supplied.
var ErrTaskNameRequired = errors.New(taskNameRequiredMessageConstant)

// BuildRunCommand constructs the run command.
func (builder *CommandBuilder) BuildRunCommand() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   runCommandUseConstant,
		Short: runCommandShortDescriptionConstant,
		Long:  runCommandLongDescriptionConstant,
		Args:  cobra.ArbitraryArgs,
		RunE:  builder.RunTasks,
	}
	command.Flags().Bool(paramsFlagNameConstant, false, paramsFlagUsageConstant)
	flagutils.BindModeFlags(command)
	return command, nil
}

// RunTasks executes the tasks named in arguments with the mode selected by the command flags.
func (builder *CommandBuilder) RunTasks(command *cobra.Command, arguments []string) error {
	requests, parseError := ParseTaskArguments(arguments)
	if parseError != nil {
		return parseError
	}
	if len(requests) == 0 {
		if command != nil {
			_ = command.Help()
		}
		return ErrTaskNameRequired
	}

	configuration, configurationError := builder.resolveConfiguration()
	if configurationError != nil {
		return configurationError
	}

	runIdentifier := builder.resolveRunIdentifier()
	executionContext, contextError := builder.buildExecutionContext(command, configuration, runIdentifier)
	if contextError != nil {
		return contextError
	}

	dependencies, dependenciesError := builder.buildDependencies(command, configuration)
	if dependenciesError != nil {
		return dependenciesError
	}

	logger := builder.resolveLogger()
	logger.Debug(batchStartedMessageConstant,
		zap.String(runIdentifierFieldConstant, runIdentifier),
		zap.Int(taskCountFieldConstant, len(requests)),
		zap.Bool(parallelFieldConstant, executionContext.Mode.Parallel),
	)

	runContext := utils.NewCommandContextAccessor().WithRunIdentifier(commandContext(command), runIdentifier)
	executor := taskrunner.Resolve(executionContext.Mode.Parallel, dependencies.Service)
	executor.Execute(runContext, requests, executionContext).Wait()

	logger.Debug(batchFinishedMessageConstant,
		zap.String(runIdentifierFieldConstant, runIdentifier),
		zap.Int(taskCountFieldConstant, len(requests)),
	)

	printParams := false
	if command != nil {
		if flagValue, _, flagError := flagutils.BoolFlag(command, paramsFlagNameConstant); flagError == nil {
			printParams = flagValue
		}
	}
	if !printParams {
		return nil
	}

	encodedParams, encodeError := json.MarshalIndent(dependencies.Service.Params(), "", jsonIndentConstant)
	if encodeError != nil {
		return fmt.Errorf(paramsEncodeErrorTemplateConstant, encodeError)
	}
	fmt.Fprintln(command.OutOrStdout(), string(encodedParams))
	return nil
}
