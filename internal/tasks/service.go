package tasks

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/tyemirov/tasker/internal/loader"
)

const (
	aboutToExecuteMessageConstant    = "About to execute task"
	taskInfoFoundMessageConstant     = "Task info found"
	usingTemplateTemplateConstant    = "Using template '%s'"
	templateVersionSeparatorConstant = "@"
	runningTaskTemplateConstant      = "Running %s task %s..."
	taskParamsPrefixConstant         = "Task Params:"
	taskParamTemplateConstant        = " %s=%s"
	taskDoneTemplateConstant         = "Task `%s` done."
	taskErrorTemplateConstant        = "Task `%s` error"
	moduleSearchPathsMessageConstant = "Module search paths"
)

// ServiceDependencies enumerates collaborators required by the task service.
type ServiceDependencies struct {
	Reporter         Reporter
	FileSystem       FileSystem
	ManifestReader   ManifestReader
	Loader           loader.Loader
	WorkingDirectory string
	Ledger           *Ledger
	Output           io.Writer
	Errors           io.Writer
}

// Service resolves, records, and executes task invocations.
type Service struct {
	reporter         Reporter
	fileSystem       FileSystem
	manifestReader   ManifestReader
	taskLoader       loader.Loader
	locator          Locator
	ledger           *Ledger
	workingDirectory string
	output           io.Writer
	errors           io.Writer
}

// NewService constructs a Service from dependencies. A nil ledger starts an empty one.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Reporter == nil {
		return nil, ErrLoggerNotConfigured
	}
	if dependencies.Loader == nil {
		return nil, ErrLoaderNotConfigured
	}
	locator, locatorError := NewLocator(dependencies.FileSystem, dependencies.ManifestReader, dependencies.WorkingDirectory)
	if locatorError != nil {
		return nil, locatorError
	}

	ledger := dependencies.Ledger
	if ledger == nil {
		ledger = NewLedger()
	}

	return &Service{
		reporter:         dependencies.Reporter,
		fileSystem:       dependencies.FileSystem,
		manifestReader:   dependencies.ManifestReader,
		taskLoader:       dependencies.Loader,
		locator:          locator,
		ledger:           ledger,
		workingDirectory: dependencies.WorkingDirectory,
		output:           dependencies.Output,
		errors:           dependencies.Errors,
	}, nil
}

// Run resolves and executes one task. Failures are reported and never returned.
func (service *Service) Run(executionContext context.Context, request TaskRequest, taskContext ExecutionContext) {
	scope := ScopeFromMode(taskContext.Mode)
	service.reporter.Debug(aboutToExecuteMessageConstant,
		zap.String(taskNameFieldConstant, request.Name),
		zap.String(requestedScopeFieldConstant, string(scope)),
		zap.String(runIdentifierFieldConstant, taskContext.RunIdentifier),
	)

	taskInfo, found := service.locator.Locate(request.Name, scope, taskContext)
	if !found {
		notFoundError := TaskNotFoundError{TaskName: request.Name}
		service.reporter.Error(notFoundError.Error(), nil,
			zap.Error(notFoundError),
			zap.String(taskNameFieldConstant, request.Name),
			zap.String(runIdentifierFieldConstant, taskContext.RunIdentifier),
		)
		return
	}

	service.ledger.Record(taskInfo.Name, request.Params)

	taskFields := []zap.Field{
		zap.String(taskNameFieldConstant, taskInfo.Name),
		zap.String(taskTypeFieldConstant, string(taskInfo.Type)),
		zap.String(runIdentifierFieldConstant, taskContext.RunIdentifier),
	}
	service.reporter.Debug(taskInfoFoundMessageConstant, append(taskFields,
		zap.String(taskPathFieldConstant, taskInfo.Path),
		zap.String(templateFieldConstant, taskInfo.TemplateName),
		zap.String(templateVersionFieldConstant, taskInfo.TemplateVersion),
	)...)

	if template := taskContext.Options.Template; template != nil {
		service.reporter.Log(fmt.Sprintf(usingTemplateTemplateConstant, formatTemplateReference(*template)), taskFields...)
	}
	service.reporter.Info(fmt.Sprintf(runningTaskTemplateConstant, taskInfo.Type, taskInfo.Name), taskFields...)
	if len(request.Params) > 0 {
		service.reporter.Log(formatTaskParams(request.Params), append(taskFields, zap.Any(parametersFieldConstant, request.Params))...)
	}

	searchPaths := service.moduleSearchPaths(taskInfo, taskContext)
	service.reporter.Debug(moduleSearchPathsMessageConstant, append(taskFields, zap.Strings(searchPathsFieldConstant, searchPaths))...)

	loadRequest := loader.LoadRequest{
		EntryPoint:  taskInfo.Path,
		SearchPaths: searchPaths,
		Context:     service.taskContextView(taskInfo, request, taskContext, searchPaths),
		Output:      service.output,
		Errors:      service.errors,
	}
	if loadError := service.load(executionContext, loadRequest); loadError != nil {
		service.reporter.Error(fmt.Sprintf(taskErrorTemplateConstant, taskInfo.Name),
			ExecutionFailureError{TaskName: taskInfo.Name, Cause: loadError},
			taskFields...,
		)
		return
	}
	service.reporter.Success(fmt.Sprintf(taskDoneTemplateConstant, taskInfo.Name), taskFields...)
}

// Ledger exposes the parameter ledger shared by every run of this service.
func (service *Service) Ledger() *Ledger {
	return service.ledger
}

// Params returns a snapshot of every recorded invocation.
func (service *Service) Params() map[string]LedgerEntry {
	return service.ledger.All()
}

// TaskParams returns the ledger entry of one task.
func (service *Service) TaskParams(name string) (LedgerEntry, bool) {
	return service.ledger.Lookup(name)
}

// ParamValue returns one parameter of a task recorded exactly once.
func (service *Service) ParamValue(name string, key string) (string, bool) {
	return service.ledger.Value(name, key)
}

func (service *Service) load(executionContext context.Context, request loader.LoadRequest) (loadError error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			loadError = loader.TaskPanicError{Value: recovered}
		}
	}()
	return service.taskLoader.Load(executionContext, request)
}

// moduleSearchPaths lists the project modules, then the template modules, then the global package modules.
func (service *Service) moduleSearchPaths(taskInfo TaskInfo, taskContext ExecutionContext) []string {
	configuration := taskContext.Configuration
	searchPaths := []string{filepath.Join(service.workingDirectory, configuration.ModuleDirectory)}

	if template := taskContext.Options.Template; template != nil {
		if templateEntry, installed := taskContext.Store.Lookup(template.Name); installed {
			searchPaths = append(searchPaths, filepath.Join(templateEntry.Path, configuration.ModuleDirectory))
		}
	}
	if taskInfo.Type == ScopeGlobal {
		searchPaths = append(searchPaths, filepath.Join(configuration.DataRoot, configuration.TaskPrefix+taskInfo.Name, configuration.ModuleDirectory))
	}
	return searchPaths
}

func (service *Service) taskContextView(taskInfo TaskInfo, request TaskRequest, taskContext ExecutionContext, searchPaths []string) loader.TaskContext {
	view := loader.TaskContext{
		Name:   taskInfo.Name,
		Type:   string(taskInfo.Type),
		Path:   taskInfo.Path,
		Params: copyParameterSet(request.Params),
		Mode: loader.ModeView{
			Template: taskContext.Mode.Template,
			Global:   taskContext.Mode.Global,
			Debug:    taskContext.Mode.Debug,
			Parallel: taskContext.Mode.Parallel,
		},
		WorkingDirectory: service.workingDirectory,
		SearchPaths:      append([]string(nil), searchPaths...),
		RunIdentifier:    taskContext.RunIdentifier,
	}
	if template := taskContext.Options.Template; template != nil {
		view.Template = loader.TemplateView{Name: template.Name, Version: template.Version}
	}
	if len(taskInfo.TemplateVersion) > 0 {
		view.Template.Version = taskInfo.TemplateVersion
	}
	return view
}

func formatTemplateReference(template TemplateDescriptor) string {
	if len(template.Version) == 0 {
		return template.Name
	}
	return template.Name + templateVersionSeparatorConstant + template.Version
}

func formatTaskParams(params ParameterSet) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var builder strings.Builder
	builder.WriteString(taskParamsPrefixConstant)
	for _, key := range keys {
		builder.WriteString(fmt.Sprintf(taskParamTemplateConstant, key, params[key]))
	}
	return builder.String()
}
