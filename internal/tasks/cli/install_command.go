package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tyemirov/tasker/internal/installer"
	flagutils "github.com/tyemirov/tasker/internal/utils/flags"
)

const (
	installCommandUseConstant              = "install [package...]"
	installCommandShortDescriptionConstant = "Install package dependencies with npm or yarn"
	installCommandLongDescriptionConstant  = "install runs npm or yarn in the target directory. Without package names it installs the dependencies declared in the package manifest; with --check it skips the installation when the module directory is already populated."
	managerFlagNameConstant                = "manager"
	managerFlagUsageConstant               = "Package manager to use (npm or yarn)"
	devFlagNameConstant                    = "dev"
	devFlagUsageConstant                   = "Install development dependencies"
	directoryFlagNameConstant              = "dir"
	directoryFlagUsageConstant             = "Directory to install into"
	checkFlagNameConstant                  = "check"
	checkFlagUsageConstant                 = "Install only when declared dependencies are missing"
	defaultManagerConstant                 = "npm"
	defaultInstallDirectoryConstant        = "."
	dependenciesPresentTemplateConstant    = "%s dependencies already installed in %s\n"
)

// BuildInstallCommand constructs the install command.
func (builder *CommandBuilder) BuildInstallCommand() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   installCommandUseConstant,
		Short: installCommandShortDescriptionConstant,
		Long:  installCommandLongDescriptionConstant,
		Args:  cobra.ArbitraryArgs,
		RunE:  builder.InstallDependencies,
	}
	command.Flags().String(managerFlagNameConstant, defaultManagerConstant, managerFlagUsageConstant)
	command.Flags().Bool(devFlagNameConstant, false, devFlagUsageConstant)
	command.Flags().String(directoryFlagNameConstant, defaultInstallDirectoryConstant, directoryFlagUsageConstant)
	command.Flags().Bool(checkFlagNameConstant, false, checkFlagUsageConstant)
	return command, nil
}

// InstallDependencies installs the named packages, or the manifest dependencies when none are named.
func (builder *CommandBuilder) InstallDependencies(command *cobra.Command, arguments []string) error {
	configuration, configurationError := builder.resolveConfiguration()
	if configurationError != nil {
		return configurationError
	}

	dependencies, dependenciesError := builder.buildDependencies(command, configuration)
	if dependenciesError != nil {
		return dependenciesError
	}

	installerService, installerError := installer.NewService(installer.ServiceDependencies{
		Logger:          builder.resolveLogger(),
		FileSystem:      dependencies.FileSystem,
		ManifestReader:  dependencies.ManifestReader,
		Executor:        dependencies.ShellExecutor,
		ModuleDirectory: configuration.Tasks.ModuleDirectory,
	})
	if installerError != nil {
		return installerError
	}

	manager, _, _ := flagutils.StringFlag(command, managerFlagNameConstant)
	directory, _, _ := flagutils.StringFlag(command, directoryFlagNameConstant)
	development, _, _ := flagutils.BoolFlag(command, devFlagNameConstant)
	checkOnly, _, _ := flagutils.BoolFlag(command, checkFlagNameConstant)

	dependencyType := installer.DependencyTypeProduction
	if development {
		dependencyType = installer.DependencyTypeDevelopment
	}

	packages := make([]string, 0, len(arguments))
	for _, argument := range arguments {
		if trimmed := strings.TrimSpace(argument); len(trimmed) > 0 {
			packages = append(packages, trimmed)
		}
	}

	if checkOnly && len(packages) == 0 {
		missing, checkError := installerService.Check(directory, dependencyType)
		if checkError != nil {
			return checkError
		}
		if !missing {
			fmt.Fprintf(command.OutOrStdout(), dependenciesPresentTemplateConstant, dependencyType, directory)
			return nil
		}
	}

	return installerService.Start(commandContext(command), installer.Options{
		Command:   manager,
		Packages:  packages,
		Directory: directory,
		Type:      dependencyType,
		Output:    command.OutOrStdout(),
		Errors:    command.ErrOrStderr(),
	})
}
