// Package installer detects missing package dependencies and installs them with npm or yarn.
package installer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"

	"go.uber.org/zap"

	"github.com/tyemirov/tasker/internal/execshell"
	"github.com/tyemirov/tasker/internal/manifest"
)

// DependencyType selects the dependency group to install.
type DependencyType string

const (
	// DependencyTypeProduction selects the manifest "dependencies" group.
	DependencyTypeProduction DependencyType = "prod"
	// DependencyTypeDevelopment selects the manifest "devDependencies" group.
	DependencyTypeDevelopment DependencyType = "dev"
)

const (
	packageManagerNPMConstant        = string(execshell.CommandNPM)
	packageManagerYarnConstant       = string(execshell.CommandYarn)
	actionInstallConstant            = "install"
	actionAddConstant                = "add"
	yarnProductionFlagConstant       = "--prod"
	yarnDevelopmentFlagConstant      = "--dev"
	npmSaveFlagConstant              = "--save"
	npmSaveDevelopmentFlagConstant   = "--save-dev"
	windowsCommandSuffixConstant     = ".cmd"
	windowsOperatingSystemConstant   = "windows"
	defaultDirectoryConstant         = "."
	defaultModuleDirectoryConstant   = "node_modules"
	execCommandMessageConstant       = "Exec command"
	installedTemplateConstant        = "%s dependencies installed."
	commandFieldConstant             = "command"
	directoryFieldConstant           = "directory"
	installFailureTemplateConstant   = "unable to install %s dependencies in %s: %w"
	manifestCheckTemplateConstant    = "unable to check dependencies of %s: %w"
	loggerMissingMessageConstant     = "installer logger not configured"
	fileSystemMissingMessageConstant = "installer filesystem not configured"
	readerMissingMessageConstant     = "installer manifest reader not configured"
	executorMissingMessageConstant   = "installer command executor not configured"
)

// ErrLoggerNotConfigured indicates that the installer was built without a logger.
var ErrLoggerNotConfigured = errors.New(loggerMissingMessageConstant)

// ErrFileSystemNotConfigured indicates that the installer was built without a filesystem.
var ErrFileSystemNotConfigured = errors.New(fileSystemMissingMessageConstant)

// ErrManifestReaderNotConfigured indicates that the installer was built without a manifest reader.
var ErrManifestReaderNotConfigured = errors.New(readerMissingMessageConstant)

// ErrExecutorNotConfigured indicates that the installer was built without a command executor.
var ErrExecutorNotConfigured = errors.New(executorMissingMessageConstant)

// FileSystem reports existence and emptiness of paths.
type FileSystem interface {
	Exists(path string) bool
	IsEmptyDirectory(path string) (bool, error)
}

// ManifestReader reads the package manifest of a directory.
type ManifestReader interface {
	Read(directory string) (manifest.Manifest, error)
}

// CommandExecutor runs shell commands.
type CommandExecutor interface {
	Execute(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error)
}

// ServiceDependencies enumerates collaborators required by the installer.
type ServiceDependencies struct {
	Logger          *zap.Logger
	FileSystem      FileSystem
	ManifestReader  ManifestReader
	Executor        CommandExecutor
	ModuleDirectory string
}

// Options configure one installation.
type Options struct {
	Command   string
	Action    string
	Packages  []string
	Extra     []string
	Directory string
	Type      DependencyType
	Output    io.Writer
	Errors    io.Writer
}

// Service checks and installs package dependencies.
type Service struct {
	logger          *zap.Logger
	fileSystem      FileSystem
	manifestReader  ManifestReader
	executor        CommandExecutor
	moduleDirectory string
}

// NewService constructs a Service from dependencies.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if dependencies.FileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	if dependencies.ManifestReader == nil {
		return nil, ErrManifestReaderNotConfigured
	}
	if dependencies.Executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	moduleDirectory := strings.TrimSpace(dependencies.ModuleDirectory)
	if len(moduleDirectory) == 0 {
		moduleDirectory = defaultModuleDirectoryConstant
	}
	return &Service{
		logger:          dependencies.Logger,
		fileSystem:      dependencies.FileSystem,
		manifestReader:  dependencies.ManifestReader,
		executor:        dependencies.Executor,
		moduleDirectory: moduleDirectory,
	}, nil
}

// Check reports whether directory declares dependencies of the given type while its module directory is empty.
func (service *Service) Check(directory string, dependencyType DependencyType) (bool, error) {
	if !service.fileSystem.Exists(filepath.Join(directory, manifest.FileName)) {
		return false, nil
	}
	packageManifest, readError := service.manifestReader.Read(directory)
	if readError != nil {
		return false, fmt.Errorf(manifestCheckTemplateConstant, directory, readError)
	}

	declared := packageManifest.Dependencies
	if normalizeType(dependencyType) == DependencyTypeDevelopment {
		declared = packageManifest.DevDependencies
	}
	if len(declared) == 0 {
		return false, nil
	}

	empty, emptyError := service.fileSystem.IsEmptyDirectory(filepath.Join(directory, service.moduleDirectory))
	if emptyError != nil {
		return false, fmt.Errorf(manifestCheckTemplateConstant, directory, emptyError)
	}
	return empty, nil
}

// Start installs dependencies with the selected package manager.
func (service *Service) Start(executionContext context.Context, options Options) error {
	command := BuildCommand(options)
	command.Details.StandardOutput = options.Output
	command.Details.StandardError = options.Errors

	service.logger.Info(execCommandMessageConstant,
		zap.String(commandFieldConstant, strings.Join(append([]string{string(command.Name)}, command.Details.Arguments...), " ")),
		zap.String(directoryFieldConstant, command.Details.WorkingDirectory),
	)

	dependencyType := normalizeType(options.Type)
	if _, executionError := service.executor.Execute(executionContext, command); executionError != nil {
		return fmt.Errorf(installFailureTemplateConstant, dependencyType, command.Details.WorkingDirectory, executionError)
	}
	service.logger.Info(fmt.Sprintf(installedTemplateConstant, dependencyType))
	return nil
}

// BuildCommand translates options into the npm or yarn command line.
func BuildCommand(options Options) execshell.ShellCommand {
	packageManager := strings.TrimSpace(options.Command)
	if len(packageManager) == 0 {
		packageManager = packageManagerNPMConstant
	}
	action := strings.TrimSpace(options.Action)
	if len(action) == 0 {
		action = actionInstallConstant
	}
	dependencyType := normalizeType(options.Type)

	var flags []string
	switch packageManager {
	case packageManagerYarnConstant:
		if len(options.Packages) > 0 {
			action = actionAddConstant
		}
		switch {
		case action == actionInstallConstant && dependencyType == DependencyTypeProduction:
			flags = []string{yarnProductionFlagConstant}
		case action == actionAddConstant && dependencyType == DependencyTypeDevelopment:
			flags = []string{yarnDevelopmentFlagConstant}
		}
	default:
		if len(options.Packages) > 0 {
			if dependencyType == DependencyTypeProduction {
				flags = []string{npmSaveFlagConstant}
			} else {
				flags = []string{npmSaveDevelopmentFlagConstant}
			}
		}
	}

	arguments := append([]string{action}, options.Packages...)
	arguments = append(arguments, flags...)
	arguments = append(arguments, options.Extra...)

	directory := strings.TrimSpace(options.Directory)
	if len(directory) == 0 {
		directory = defaultDirectoryConstant
	}

	commandName := packageManager
	if runtime.GOOS == windowsOperatingSystemConstant {
		commandName += windowsCommandSuffixConstant
	}

	return execshell.ShellCommand{
		Name:    execshell.CommandName(commandName),
		Details: execshell.CommandDetails{Arguments: arguments, WorkingDirectory: directory},
	}
}

func normalizeType(dependencyType DependencyType) DependencyType {
	if DependencyType(strings.ToLower(strings.TrimSpace(string(dependencyType)))) == DependencyTypeDevelopment {
		return DependencyTypeDevelopment
	}
	return DependencyTypeProduction
}
