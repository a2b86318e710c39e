package tasks

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	// DefaultTaskDirectory is the directory, relative to a project or template, holding task files.
	DefaultTaskDirectory = "fbi"
	// DefaultTaskPrefix prefixes the store keys of globally installed task packages.
	DefaultTaskPrefix = "fbi-task-"
	// DefaultModuleDirectory is the per-package directory holding installed modules.
	DefaultModuleDirectory = "node_modules"
	// DefaultStoreFile is the store file name under the data root.
	DefaultStoreFile = "store.yaml"

	javaScriptExtensionConstant          = ".js"
	luaExtensionConstant                 = ".lua"
	extensionPrefixConstant              = "."
	invalidConfigurationTemplateConstant = "invalid tasks configuration: %w"
)

var configurationValidator = validator.New()

// Configuration captures the task engine settings.
type Configuration struct {
	TaskDirectory   string   `mapstructure:"task_directory" yaml:"task_directory" validate:"required"`
	TaskPrefix      string   `mapstructure:"task_prefix" yaml:"task_prefix" validate:"required"`
	DataRoot        string   `mapstructure:"data_root" yaml:"data_root"`
	StoreFile       string   `mapstructure:"store_file" yaml:"store_file" validate:"required"`
	ModuleDirectory string   `mapstructure:"module_directory" yaml:"module_directory" validate:"required"`
	TaskExtensions  []string `mapstructure:"extensions" yaml:"extensions" validate:"required,min=1,dive,required,startswith=."`
	NodeCommand     string   `mapstructure:"node_command" yaml:"node_command"`
}

// DefaultConfiguration returns the built-in task engine settings.
func DefaultConfiguration() Configuration {
	return Configuration{
		TaskDirectory:   DefaultTaskDirectory,
		TaskPrefix:      DefaultTaskPrefix,
		StoreFile:       DefaultStoreFile,
		ModuleDirectory: DefaultModuleDirectory,
		TaskExtensions:  []string{javaScriptExtensionConstant, luaExtensionConstant},
	}
}

// Sanitize trims values and normalizes extensions to carry a leading dot.
func (configuration Configuration) Sanitize() Configuration {
	sanitized := configuration
	sanitized.TaskDirectory = strings.TrimSpace(configuration.TaskDirectory)
	sanitized.TaskPrefix = strings.TrimSpace(configuration.TaskPrefix)
	sanitized.DataRoot = strings.TrimSpace(configuration.DataRoot)
	sanitized.StoreFile = strings.TrimSpace(configuration.StoreFile)
	sanitized.ModuleDirectory = strings.TrimSpace(configuration.ModuleDirectory)
	sanitized.NodeCommand = strings.TrimSpace(configuration.NodeCommand)

	sanitized.TaskExtensions = make([]string, 0, len(configuration.TaskExtensions))
	for _, extension := range configuration.TaskExtensions {
		trimmedExtension := strings.ToLower(strings.TrimSpace(extension))
		if len(trimmedExtension) == 0 {
			continue
		}
		if !strings.HasPrefix(trimmedExtension, extensionPrefixConstant) {
			trimmedExtension = extensionPrefixConstant + trimmedExtension
		}
		sanitized.TaskExtensions = append(sanitized.TaskExtensions, trimmedExtension)
	}
	return sanitized
}

// Validate reports missing or malformed settings.
func (configuration Configuration) Validate() error {
	if validationError := configurationValidator.Struct(configuration); validationError != nil {
		return fmt.Errorf(invalidConfigurationTemplateConstant, validationError)
	}
	return nil
}

// isTaskFile reports whether the file name carries one of the configured task extensions.
// Matching is exact so that listed tasks are the ones Locate can resolve.
func (configuration Configuration) isTaskFile(fileName string) (string, bool) {
	for _, extension := range configuration.TaskExtensions {
		if strings.HasSuffix(fileName, extension) && len(fileName) > len(extension) {
			return fileName[:len(fileName)-len(extension)], true
		}
	}
	return "", false
}
