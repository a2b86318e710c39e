package cli

import (
	"fmt"
	"reflect"
	"strings"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"go.uber.org/zap"

	"github.com/tyemirov/tasker/internal/tasks"
	taskcli "github.com/tyemirov/tasker/internal/tasks/cli"
	"github.com/tyemirov/tasker/internal/utils"
)

const (
	aliasDecodeErrorTemplateConstant = "unable to decode task aliases: %w"
	aliasDecodeFailedMessageConstant = "task alias table ignored"
	aliasKeyConstant                 = "alias"
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common  ApplicationCommonConfiguration  `mapstructure:"common"`
	Tasks   tasks.Configuration             `mapstructure:"tasks"`
	Project ApplicationProjectConfiguration `mapstructure:"project"`
}

// ApplicationCommonConfiguration stores logging defaults shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// ApplicationProjectConfiguration stores the active template and the task alias table of the project.
// Alias entries accept either a bare alias string or an {alias, description} mapping.
type ApplicationProjectConfiguration struct {
	Template tasks.TemplateDescriptor `mapstructure:"template"`
	Tasks    map[string]any           `mapstructure:"tasks"`
}

// DefaultApplicationConfiguration returns the configuration used before any file is loaded.
func DefaultApplicationConfiguration() ApplicationConfiguration {
	return ApplicationConfiguration{
		Common: ApplicationCommonConfiguration{
			LogLevel:  string(utils.LogLevelInfo),
			LogFormat: string(utils.LogFormatConsole),
		},
		Tasks: tasks.DefaultConfiguration(),
	}
}

// DecodeAliasTable converts the raw project task table into an AliasTable.
func DecodeAliasTable(rawTable map[string]any) (tasks.AliasTable, error) {
	aliasTable := tasks.AliasTable{}
	if len(rawTable) == 0 {
		return aliasTable, nil
	}

	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.DecodeHookFuncType(aliasShorthandDecodeHook),
		Result:           &aliasTable,
		WeaklyTypedInput: true,
	})
	if decoderError != nil {
		return nil, fmt.Errorf(aliasDecodeErrorTemplateConstant, decoderError)
	}
	if decodeError := decoder.Decode(rawTable); decodeError != nil {
		return nil, fmt.Errorf(aliasDecodeErrorTemplateConstant, decodeError)
	}
	return aliasTable, nil
}

func aliasShorthandDecodeHook(sourceType reflect.Type, targetType reflect.Type, data any) (any, error) {
	if sourceType.Kind() != reflect.String || targetType != reflect.TypeOf(tasks.TaskAlias{}) {
		return data, nil
	}
	return map[string]any{aliasKeyConstant: strings.TrimSpace(data.(string))}, nil
}

func (application *Application) taskCommandConfiguration() taskcli.CommandConfiguration {
	aliasTable, aliasError := DecodeAliasTable(application.configuration.Project.Tasks)
	if aliasError != nil {
		application.logger.Warn(aliasDecodeFailedMessageConstant, zap.Error(aliasError))
		aliasTable = tasks.AliasTable{}
	}

	return taskcli.CommandConfiguration{
		Tasks:    application.configuration.Tasks,
		Template: application.configuration.Project.Template,
		Aliases:  aliasTable,
	}
}
