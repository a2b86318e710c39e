package flags

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const boolFlagParseErrorTemplate = "unable to parse flag %q: %w"

// ErrFlagNotDefined indicates that the requested flag is not present on the command.
var ErrFlagNotDefined = errors.New("flag not defined")

// ModeFlags captures the execution mode requested on the command line.
type ModeFlags struct {
	Debug           bool
	Template        bool
	TemplateName    string
	TemplateVersion string
	Global          bool
	Parallel        bool
}

func BoolFlag(command *cobra.Command, name string) (bool, bool, error) {
	flagSet, flag := locateFlag(command, name)
	if flag == nil {
		return false, false, ErrFlagNotDefined
	}
	value, err := flagSet.GetBool(name)
	if err == nil {
		return value, flag.Changed, nil
	}

	if flag.Value == nil {
		return false, false, err
	}

	parsedValue, parseError := strconv.ParseBool(strings.TrimSpace(flag.Value.String()))
	if parseError != nil {
		return false, false, fmt.Errorf(boolFlagParseErrorTemplate, name, parseError)
	}

	return parsedValue, flag.Changed, nil
}

func StringFlag(command *cobra.Command, name string) (string, bool, error) {
	flagSet, flag := locateFlag(command, name)
	if flag == nil {
		return "", false, ErrFlagNotDefined
	}
	value, err := flagSet.GetString(name)
	if err != nil {
		return "", false, err
	}
	return value, flag.Changed, nil
}

func locateFlag(command *cobra.Command, name string) (*pflag.FlagSet, *pflag.Flag) {
	if command == nil {
		return nil, nil
	}

	candidateSets := []*pflag.FlagSet{
		command.Flags(),
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	if root := command.Root(); root != nil {
		candidateSets = append(candidateSets, root.PersistentFlags())
	}

	for _, set := range candidateSets {
		if set == nil {
			continue
		}
		if flag := set.Lookup(name); flag != nil {
			return set, flag
		}
	}

	return nil, nil
}

// CollectModeFlags inspects the command's flags to produce the requested execution mode.
func CollectModeFlags(command *cobra.Command) ModeFlags {
	modeFlags := ModeFlags{}
	if command == nil {
		return modeFlags
	}

	if debugValue, _, debugError := BoolFlag(command, DebugFlagName); debugError == nil {
		modeFlags.Debug = debugValue
	}
	if globalValue, _, globalError := BoolFlag(command, GlobalFlagName); globalError == nil {
		modeFlags.Global = globalValue
	}
	if parallelValue, _, parallelError := BoolFlag(command, ParallelFlagName); parallelError == nil {
		modeFlags.Parallel = parallelValue
	}
	if templateValue, templateChanged, templateError := StringFlag(command, TemplateFlagName); templateError == nil && templateChanged {
		modeFlags.Template = true
		if templateValue != TemplateFlagNoValue {
			modeFlags.TemplateName, modeFlags.TemplateVersion = ParseTemplateReference(templateValue)
		}
	}

	return modeFlags
}

// ParseTemplateReference splits a name[@version] reference.
func ParseTemplateReference(reference string) (string, string) {
	trimmedReference := strings.TrimSpace(reference)
	separatorIndex := strings.LastIndex(trimmedReference, "@")
	if separatorIndex <= 0 {
		return trimmedReference, ""
	}
	return strings.TrimSpace(trimmedReference[:separatorIndex]), strings.TrimSpace(trimmedReference[separatorIndex+1:])
}
