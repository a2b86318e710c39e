package version

import (
	"context"
	"os"
	"runtime/debug"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/tyemirov/tasker/internal/execshell"
)

const (
	unknownVersionFallbackConstant     = "unknown"
	unavailableRuntimeFallbackConstant = "unavailable"
	buildInfoDevelVersionValue         = "devel"
	nodeVersionFlagConstant            = "--version"
)

// Version is injected at build time with -ldflags "-X github.com/tyemirov/tasker/internal/version.Version=...".
var Version string

// BuildInfoProvider exposes runtime build metadata.
type BuildInfoProvider interface {
	Read() (*debug.BuildInfo, bool)
}

// CommandExecutor runs shell commands.
type CommandExecutor interface {
	Execute(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error)
}

// Report lists the application version alongside the task runtimes it drives.
type Report struct {
	Application string
	Node        string
	Lua         string
}

// Detector resolves application and runtime version strings.
type Detector struct {
	buildInfoProvider BuildInfoProvider
	executor          CommandExecutor
	nodeCommand       string
	injectedVersion   string
}

// Dependencies describes the collaborators required for version detection.
type Dependencies struct {
	BuildInfoProvider BuildInfoProvider
	Executor          CommandExecutor
	NodeCommand       string
	InjectedVersion   string
}

// NewDetector constructs a Detector with the supplied dependencies or sensible defaults.
func NewDetector(dependencies Dependencies) (*Detector, error) {
	provider := dependencies.BuildInfoProvider
	if provider == nil {
		provider = runtimeBuildInfoProvider{}
	}

	executor := dependencies.Executor
	if executor == nil {
		shellExecutor, creationError := execshell.NewShellExecutor(zap.NewNop(), execshell.NewOSCommandRunner(), false)
		if creationError != nil {
			return nil, creationError
		}
		executor = shellExecutor
	}

	nodeCommand := strings.TrimSpace(dependencies.NodeCommand)
	if len(nodeCommand) == 0 {
		nodeCommand = string(execshell.CommandNode)
	}

	injectedVersion := strings.TrimSpace(dependencies.InjectedVersion)
	if len(injectedVersion) == 0 {
		injectedVersion = strings.TrimSpace(Version)
	}

	return &Detector{
		buildInfoProvider: provider,
		executor:          executor,
		nodeCommand:       nodeCommand,
		injectedVersion:   injectedVersion,
	}, nil
}

// Detect resolves the version report using the supplied dependencies.
func Detect(executionContext context.Context, dependencies Dependencies) Report {
	detector, detectorError := NewDetector(dependencies)
	if detectorError != nil {
		return Report{Application: unknownVersionFallbackConstant, Node: unavailableRuntimeFallbackConstant, Lua: lua.LuaVersion}
	}
	return detector.Report(executionContext)
}

// Report returns the application version with the node and Lua runtime versions.
func (detector *Detector) Report(executionContext context.Context) Report {
	return Report{
		Application: detector.Version(),
		Node:        detector.NodeVersion(executionContext),
		Lua:         lua.LuaVersion,
	}
}

// Version returns the detected application version string.
func (detector *Detector) Version() string {
	if detector == nil {
		return unknownVersionFallbackConstant
	}
	if len(detector.injectedVersion) > 0 {
		return detector.injectedVersion
	}
	if buildVersion := detector.versionFromBuildInfo(); len(buildVersion) > 0 {
		return buildVersion
	}
	return unknownVersionFallbackConstant
}

// NodeVersion returns the version reported by the node executable used for JavaScript tasks.
func (detector *Detector) NodeVersion(executionContext context.Context) string {
	if detector == nil {
		return unavailableRuntimeFallbackConstant
	}
	executionResult, executionError := detector.executor.Execute(executionContext, execshell.ShellCommand{
		Name:    execshell.CommandName(detector.nodeCommand),
		Details: execshell.CommandDetails{Arguments: []string{nodeVersionFlagConstant}, WorkingDirectory: workingDirectory()},
	})
	if executionError != nil {
		return unavailableRuntimeFallbackConstant
	}
	trimmedVersion := strings.TrimSpace(executionResult.StandardOutput)
	if len(trimmedVersion) == 0 {
		return unavailableRuntimeFallbackConstant
	}
	return trimmedVersion
}

func (detector *Detector) versionFromBuildInfo() string {
	if detector.buildInfoProvider == nil {
		return ""
	}

	buildInfo, available := detector.buildInfoProvider.Read()
	if !available || buildInfo == nil {
		return ""
	}

	trimmedVersion := strings.TrimSpace(buildInfo.Main.Version)
	if len(trimmedVersion) == 0 {
		return ""
	}

	if strings.EqualFold(trimmedVersion, buildInfoDevelVersionValue) || strings.EqualFold(trimmedVersion, "("+buildInfoDevelVersionValue+")") {
		return ""
	}

	return trimmedVersion
}

func workingDirectory() string {
	currentDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return ""
	}
	return currentDirectory
}

type runtimeBuildInfoProvider struct{}

func (runtimeBuildInfoProvider) Read() (*debug.BuildInfo, bool) {
	return debug.ReadBuildInfo()
}
