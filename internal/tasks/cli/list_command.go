package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tyemirov/tasker/internal/tasks"
	flagutils "github.com/tyemirov/tasker/internal/utils/flags"
)

const (
	listCommandUseConstant              = "list"
	listCommandAliasConstant            = "ls"
	listCommandShortDescriptionConstant = "List the available tasks"
	listCommandLongDescriptionConstant  = "list prints the tasks defined in the local project, the active template, and the globally installed task packages."
	jsonFlagNameConstant                = "json"
	jsonFlagUsageConstant               = "Print the task catalog as JSON"
	catalogEncodeErrorTemplateConstant  = "unable to encode task catalog: %w"
	catalogSectionTemplateConstant      = "%s tasks:\n"
	catalogEmptySectionConstant         = "  (none)"
	catalogHeaderConstant               = "  NAME\tALIAS\tVERSION\tDESCRIPTION"
	catalogRowTemplateConstant          = "  %s\t%s\t%s\t%s\n"
	catalogSectionLocalConstant         = "Local"
	catalogSectionTemplateNameConstant  = "Template"
	catalogSectionGlobalConstant        = "Global"
	tabwriterMinimumWidthConstant       = 0
	tabwriterTabWidthConstant           = 4
	tabwriterPaddingConstant            = 2
	tabwriterPaddingCharacterConstant   = ' '
)

// BuildListCommand constructs the list command.
func (builder *CommandBuilder) BuildListCommand() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     listCommandUseConstant,
		Aliases: []string{listCommandAliasConstant},
		Short:   listCommandShortDescriptionConstant,
		Long:    listCommandLongDescriptionConstant,
		Args:    cobra.NoArgs,
		RunE:    builder.ListTasks,
	}
	command.Flags().Bool(jsonFlagNameConstant, false, jsonFlagUsageConstant)
	return command, nil
}

// ListTasks prints the task catalog of every scope.
func (builder *CommandBuilder) ListTasks(command *cobra.Command, arguments []string) error {
	configuration, configurationError := builder.resolveConfiguration()
	if configurationError != nil {
		return configurationError
	}

	executionContext, contextError := builder.buildExecutionContext(command, configuration, builder.resolveRunIdentifier())
	if contextError != nil {
		return contextError
	}

	dependencies, dependenciesError := builder.buildDependencies(command, configuration)
	if dependenciesError != nil {
		return dependenciesError
	}

	catalog := dependencies.Service.All(executionContext.Configuration, executionContext.Options, executionContext.Store)

	printJSON := false
	if flagValue, _, flagError := flagutils.BoolFlag(command, jsonFlagNameConstant); flagError == nil {
		printJSON = flagValue
	}
	if printJSON {
		encodedCatalog, encodeError := json.MarshalIndent(catalog, "", jsonIndentConstant)
		if encodeError != nil {
			return fmt.Errorf(catalogEncodeErrorTemplateConstant, encodeError)
		}
		fmt.Fprintln(command.OutOrStdout(), string(encodedCatalog))
		return nil
	}

	return writeCatalog(command.OutOrStdout(), catalog)
}

func writeCatalog(output io.Writer, catalog tasks.Catalog) error {
	sections := []struct {
		title   string
		entries []tasks.CatalogEntry
	}{
		{title: catalogSectionLocalConstant, entries: catalog.Local},
		{title: catalogSectionTemplateNameConstant, entries: catalog.Template},
		{title: catalogSectionGlobalConstant, entries: catalog.Global},
	}

	writer := tabwriter.NewWriter(output, tabwriterMinimumWidthConstant, tabwriterTabWidthConstant, tabwriterPaddingConstant, tabwriterPaddingCharacterConstant, 0)
	for _, section := range sections {
		fmt.Fprintf(writer, catalogSectionTemplateConstant, section.title)
		if len(section.entries) == 0 {
			fmt.Fprintln(writer, catalogEmptySectionConstant)
			continue
		}
		fmt.Fprintln(writer, catalogHeaderConstant)
		for _, entry := range section.entries {
			fmt.Fprintf(writer, catalogRowTemplateConstant, entry.Name, entry.Alias, entry.Version, entry.Description)
		}
	}
	return writer.Flush()
}
