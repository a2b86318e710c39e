package tasks_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tyemirov/tasker/internal/filesystem"
	"github.com/tyemirov/tasker/internal/loader"
	"github.com/tyemirov/tasker/internal/manifest"
	"github.com/tyemirov/tasker/internal/stores"
	"github.com/tyemirov/tasker/internal/tasks"
)

const (
	projectDirectoryConstant      = "/project"
	templateDirectoryConstant     = "/store/react"
	globalTaskDirectoryConstant   = "/data/fbi-task-deploy"
	dataRootConstant              = "/data"
	templateNameConstant          = "react"
	globalTaskStoreKeyConstant    = "fbi-task-deploy"
	taskTemplateNameConstant      = "fbi-task-deploy"
	taskFileContentsConstant      = "module.exports = () => {}"
	templateLatestVersionConstant = "1.2.0"
)

type recordingLoader struct {
	mutex      sync.Mutex
	requests   []loader.LoadRequest
	loadError  error
	panicValue any
}

func (recorder *recordingLoader) Load(_ context.Context, request loader.LoadRequest) error {
	recorder.mutex.Lock()
	recorder.requests = append(recorder.requests, request)
	recorder.mutex.Unlock()
	if recorder.panicValue != nil {
		panic(recorder.panicValue)
	}
	return recorder.loadError
}

func (recorder *recordingLoader) recordedRequests() []loader.LoadRequest {
	recorder.mutex.Lock()
	defer recorder.mutex.Unlock()
	return append([]loader.LoadRequest(nil), recorder.requests...)
}

type serviceHarness struct {
	fileSystem     afero.Fs
	taskFileSystem filesystem.AferoFileSystem
	manifestReader *manifest.Reader
	loader         *recordingLoader
	logs           *observer.ObservedLogs
	service        *tasks.Service
}

func newServiceHarness(testInstance *testing.T) *serviceHarness {
	testInstance.Helper()

	memoryFileSystem := afero.NewMemMapFs()
	taskFileSystem := filesystem.NewFileSystem(memoryFileSystem)
	manifestReader, readerError := manifest.NewReader(taskFileSystem)
	require.NoError(testInstance, readerError)

	observerCore, observedLogs := observer.New(zapcore.DebugLevel)
	reporter, reporterError := tasks.NewReporter(zap.New(observerCore), nil)
	require.NoError(testInstance, reporterError)

	taskLoader := &recordingLoader{}
	service, serviceError := tasks.NewService(tasks.ServiceDependencies{
		Reporter:         reporter,
		FileSystem:       taskFileSystem,
		ManifestReader:   manifestReader,
		Loader:           taskLoader,
		WorkingDirectory: projectDirectoryConstant,
	})
	require.NoError(testInstance, serviceError)

	return &serviceHarness{
		fileSystem:     memoryFileSystem,
		taskFileSystem: taskFileSystem,
		manifestReader: manifestReader,
		loader:         taskLoader,
		logs:           observedLogs,
		service:        service,
	}
}

func (harness *serviceHarness) writeFile(testInstance *testing.T, path string, contents string) {
	testInstance.Helper()
	require.NoError(testInstance, harness.fileSystem.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(testInstance, afero.WriteFile(harness.fileSystem, path, []byte(contents), 0o644))
}

func (harness *serviceHarness) messages() []string {
	messages := make([]string, 0, harness.logs.Len())
	for _, entry := range harness.logs.All() {
		messages = append(messages, entry.Message)
	}
	return messages
}

func newTestStore() stores.Store {
	return stores.NewStore(map[string]stores.Entry{
		templateNameConstant: {
			Path:    templateDirectoryConstant,
			Version: stores.Version{Latest: templateLatestVersionConstant},
		},
		globalTaskStoreKeyConstant: {
			Path:        globalTaskDirectoryConstant,
			File:        "index.js",
			Description: "Deploy the project",
			Version:     stores.Version{Current: "0.3.0"},
		},
		"unrelated-template": {Path: "/store/unrelated"},
	})
}

func newExecutionContext() tasks.ExecutionContext {
	configuration := tasks.DefaultConfiguration()
	configuration.DataRoot = dataRootConstant
	return tasks.ExecutionContext{
		Configuration: configuration,
		Options:       tasks.Options{Tasks: tasks.AliasTable{}},
		Store:         newTestStore(),
		RunIdentifier: "run-1",
	}
}
