package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/tyemirov/tasker/internal/execshell"
)

const (
	// NodePathEnvironmentVariable carries the module search path to the node process.
	NodePathEnvironmentVariable = "NODE_PATH"
	// TaskContextEnvironmentVariable carries the JSON-encoded task context to the node process.
	TaskContextEnvironmentVariable = "TASKER_CONTEXT"

	nodeEvaluateFlagConstant           = "-e"
	nodeContextEncodeErrorTemplate     = "unable to encode task context: %w"
	nodeExecutionErrorTemplateConstant = "task %s failed: %w"
)

// nodeBootstrapScript loads the entry point and awaits its exported function with the decoded task context.
const nodeBootstrapScript = `const path = require('path');
const taskModule = require(path.resolve(process.argv[1]));
const taskContext = JSON.parse(process.env.TASKER_CONTEXT || '{}');
const exported = taskModule && typeof taskModule.default === 'function' ? taskModule.default : taskModule;
Promise.resolve(typeof exported === 'function' ? exported(taskContext) : undefined).catch(function (error) {
  console.error(error && error.stack ? error.stack : error);
  process.exitCode = 1;
});`

// CommandExecutor runs shell commands.
type CommandExecutor interface {
	Execute(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error)
}

// NodeLoader runs JavaScript entry points in a node subprocess.
type NodeLoader struct {
	executor    CommandExecutor
	commandName execshell.CommandName
}

// NewNodeLoader constructs a NodeLoader. An empty command name selects "node".
func NewNodeLoader(executor CommandExecutor, commandName string) (*NodeLoader, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	resolvedCommandName := execshell.CommandNode
	if trimmedCommandName := strings.TrimSpace(commandName); len(trimmedCommandName) > 0 {
		resolvedCommandName = execshell.CommandName(trimmedCommandName)
	}
	return &NodeLoader{executor: executor, commandName: resolvedCommandName}, nil
}

// Load runs the entry point with NODE_PATH set to the request's search paths.
func (nodeLoader *NodeLoader) Load(executionContext context.Context, request LoadRequest) error {
	encodedContext, encodeError := json.Marshal(request.Context)
	if encodeError != nil {
		return fmt.Errorf(nodeContextEncodeErrorTemplate, encodeError)
	}

	command := execshell.ShellCommand{
		Name: nodeLoader.commandName,
		Details: execshell.CommandDetails{
			Arguments:        []string{nodeEvaluateFlagConstant, nodeBootstrapScript, request.EntryPoint},
			WorkingDirectory: request.Context.WorkingDirectory,
			EnvironmentVariables: map[string]string{
				NodePathEnvironmentVariable:    strings.Join(request.SearchPaths, string(os.PathListSeparator)),
				TaskContextEnvironmentVariable: string(encodedContext),
			},
			StandardOutput: request.Output,
			StandardError:  request.Errors,
			DebugLifecycle: true,
		},
	}

	if _, executionError := nodeLoader.executor.Execute(executionContext, command); executionError != nil {
		return fmt.Errorf(nodeExecutionErrorTemplateConstant, request.Context.Name, executionError)
	}
	return nil
}
