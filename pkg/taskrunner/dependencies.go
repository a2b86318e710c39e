package taskrunner

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tyemirov/tasker/internal/execshell"
	"github.com/tyemirov/tasker/internal/filesystem"
	"github.com/tyemirov/tasker/internal/loader"
	"github.com/tyemirov/tasker/internal/manifest"
	"github.com/tyemirov/tasker/internal/tasks"
	"github.com/tyemirov/tasker/internal/utils"
)

const luaExtensionConstant = ".lua"

// DependenciesConfig captures providers required to build the task engine.
type DependenciesConfig struct {
	LoggerProvider               func() *zap.Logger
	ConsoleLoggerProvider        func() *zap.Logger
	HumanReadableLoggingProvider func() bool
	CommandRunner                execshell.CommandRunner
	FileSystem                   filesystem.FileSystem
	Loader                       loader.Loader
}

// DependenciesOptions allows per-command overrides when resolving engine dependencies.
type DependenciesOptions struct {
	Command          *cobra.Command
	Output           io.Writer
	Errors           io.Writer
	WorkingDirectory string
	NodeCommand      string
	Ledger           *tasks.Ledger
}

// DependenciesResult exposes the wired task service along with its collaborators.
type DependenciesResult struct {
	Service        *tasks.Service
	ShellExecutor  *execshell.ShellExecutor
	FileSystem     filesystem.FileSystem
	ManifestReader *manifest.Reader
	Loader         loader.Loader
}

// BuildDependencies resolves the shell executor, filesystem, manifest reader, and loaders, then builds the task service.
func BuildDependencies(config DependenciesConfig, options DependenciesOptions) (DependenciesResult, error) {
	logger := resolveLogger(config.LoggerProvider)
	consoleLogger := resolveLogger(config.ConsoleLoggerProvider)
	humanReadable := false
	if config.HumanReadableLoggingProvider != nil {
		humanReadable = config.HumanReadableLoggingProvider()
	}

	commandRunner := config.CommandRunner
	if commandRunner == nil {
		commandRunner = execshell.NewOSCommandRunner()
	}
	shellExecutor, executorError := execshell.NewShellExecutor(logger, commandRunner, humanReadable)
	if executorError != nil {
		return DependenciesResult{}, fmt.Errorf("taskrunner.dependencies.shell_executor: %w", executorError)
	}

	fileSystem := config.FileSystem
	if fileSystem == nil {
		fileSystem = filesystem.NewOSFileSystem()
	}

	manifestReader, readerError := manifest.NewReader(fileSystem)
	if readerError != nil {
		return DependenciesResult{}, fmt.Errorf("taskrunner.dependencies.manifest_reader: %w", readerError)
	}

	taskLoader := config.Loader
	if taskLoader == nil {
		nodeLoader, nodeLoaderError := loader.NewNodeLoader(shellExecutor, options.NodeCommand)
		if nodeLoaderError != nil {
			return DependenciesResult{}, fmt.Errorf("taskrunner.dependencies.node_loader: %w", nodeLoaderError)
		}
		taskLoader = loader.NewDispatcher(nodeLoader, map[string]loader.Loader{luaExtensionConstant: loader.NewLuaLoader()})
	}

	reporter, reporterError := tasks.NewReporter(logger, consoleLogger)
	if reporterError != nil {
		return DependenciesResult{}, fmt.Errorf("taskrunner.dependencies.reporter: %w", reporterError)
	}

	workingDirectory := options.WorkingDirectory
	if len(workingDirectory) == 0 {
		currentDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return DependenciesResult{}, fmt.Errorf("taskrunner.dependencies.working_directory: %w", workingDirectoryError)
		}
		workingDirectory = currentDirectory
	}

	service, serviceError := tasks.NewService(tasks.ServiceDependencies{
		Reporter:         reporter,
		FileSystem:       fileSystem,
		ManifestReader:   manifestReader,
		Loader:           taskLoader,
		WorkingDirectory: workingDirectory,
		Ledger:           options.Ledger,
		Output:           utils.NewFlushingWriter(resolveWriter(options.Output, options.Command, true)),
		Errors:           utils.NewFlushingWriter(resolveWriter(options.Errors, options.Command, false)),
	})
	if serviceError != nil {
		return DependenciesResult{}, fmt.Errorf("taskrunner.dependencies.service: %w", serviceError)
	}

	return DependenciesResult{
		Service:        service,
		ShellExecutor:  shellExecutor,
		FileSystem:     fileSystem,
		ManifestReader: manifestReader,
		Loader:         taskLoader,
	}, nil
}

func resolveLogger(provider func() *zap.Logger) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func resolveWriter(provided io.Writer, command *cobra.Command, useStdout bool) io.Writer {
	if provided != nil {
		return provided
	}
	if command != nil {
		if useStdout {
			if writer := command.OutOrStdout(); writer != nil && writer != io.Discard {
				return writer
			}
		} else {
			if writer := command.ErrOrStderr(); writer != nil && writer != io.Discard {
				return writer
			}
		}
	}
	if useStdout {
		return os.Stdout
	}
	return os.Stderr
}
