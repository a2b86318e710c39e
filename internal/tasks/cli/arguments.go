package cli

import (
	"fmt"
	"strings"

	"github.com/tyemirov/tasker/internal/tasks"
)

const (
	parameterSeparatorConstant     = "="
	orphanParameterErrorTemplate   = "parameter %q must follow a task name"
	emptyParameterKeyErrorTemplate = "parameter %q has an empty key"
)

// ParseTaskArguments turns "build env=prod serve port=8080" into task requests.
// A key=value argument attaches a parameter to the task named before it.
func ParseTaskArguments(arguments []string) ([]tasks.TaskRequest, error) {
	requests := make([]tasks.TaskRequest, 0, len(arguments))
	for _, argument := range arguments {
		trimmedArgument := strings.TrimSpace(argument)
		if len(trimmedArgument) == 0 {
			continue
		}

		key, value, isParameter := strings.Cut(trimmedArgument, parameterSeparatorConstant)
		if !isParameter {
			requests = append(requests, tasks.TaskRequest{Name: trimmedArgument, Params: tasks.ParameterSet{}})
			continue
		}

		if len(requests) == 0 {
			return nil, fmt.Errorf(orphanParameterErrorTemplate, trimmedArgument)
		}
		trimmedKey := strings.TrimSpace(key)
		if len(trimmedKey) == 0 {
			return nil, fmt.Errorf(emptyParameterKeyErrorTemplate, trimmedArgument)
		}
		requests[len(requests)-1].Params[trimmedKey] = value
	}
	return requests, nil
}
