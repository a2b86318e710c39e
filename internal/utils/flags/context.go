// Package flags provides helpers for binding the task execution mode flags to Cobra commands.
package flags

import "github.com/spf13/cobra"

const (
	// DebugFlagName exposes the debug mode flag name.
	DebugFlagName = "debug"
	// DebugFlagShorthand provides the shorthand for the debug mode flag.
	DebugFlagShorthand = "D"
	// DebugFlagUsage describes the debug mode flag purpose.
	DebugFlagUsage = "Execute in debug mode"
	// TemplateFlagName exposes the template mode flag name.
	TemplateFlagName = "template"
	// TemplateFlagShorthand provides the shorthand for the template mode flag.
	TemplateFlagShorthand = "T"
	// TemplateFlagUsage describes the template mode flag purpose.
	TemplateFlagUsage = "Execute tasks in template mode, optionally naming the template (name[@version])"
	// GlobalFlagName exposes the global mode flag name.
	GlobalFlagName = "global"
	// GlobalFlagShorthand provides the shorthand for the global mode flag.
	GlobalFlagShorthand = "G"
	// GlobalFlagUsage describes the global mode flag purpose.
	GlobalFlagUsage = "Execute tasks in global mode"
	// ParallelFlagName exposes the parallel mode flag name.
	ParallelFlagName = "parallel"
	// ParallelFlagShorthand provides the shorthand for the parallel mode flag.
	ParallelFlagShorthand = "P"
	// ParallelFlagUsage describes the parallel mode flag purpose.
	ParallelFlagUsage = "Execute tasks in parallel mode"

	// TemplateFlagNoValue is recorded when the template flag is passed without a template name.
	TemplateFlagNoValue = "\x00"
)

// ModeFlagValues stores the mode flag values bound to a command.
type ModeFlagValues struct {
	Debug    bool
	Template string
	Global   bool
	Parallel bool
}

// BindModeFlags attaches the debug, template, global, and parallel flags to the command's persistent flag set.
func BindModeFlags(command *cobra.Command) *ModeFlagValues {
	values := &ModeFlagValues{}
	if command == nil {
		return values
	}

	persistentFlagSet := command.PersistentFlags()
	if persistentFlagSet.Lookup(DebugFlagName) == nil {
		persistentFlagSet.BoolVarP(&values.Debug, DebugFlagName, DebugFlagShorthand, false, DebugFlagUsage)
	}
	if persistentFlagSet.Lookup(TemplateFlagName) == nil {
		persistentFlagSet.StringVarP(&values.Template, TemplateFlagName, TemplateFlagShorthand, "", TemplateFlagUsage)
		if templateFlag := persistentFlagSet.Lookup(TemplateFlagName); templateFlag != nil {
			templateFlag.NoOptDefVal = TemplateFlagNoValue
		}
	}
	if persistentFlagSet.Lookup(GlobalFlagName) == nil {
		persistentFlagSet.BoolVarP(&values.Global, GlobalFlagName, GlobalFlagShorthand, false, GlobalFlagUsage)
	}
	if persistentFlagSet.Lookup(ParallelFlagName) == nil {
		persistentFlagSet.BoolVarP(&values.Parallel, ParallelFlagName, ParallelFlagShorthand, false, ParallelFlagUsage)
	}
	return values
}
