package loader

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

const (
	luaPackageGlobalConstant         = "package"
	luaPackagePathFieldConstant      = "path"
	luaPrintGlobalConstant           = "print"
	luaPathSeparatorConstant         = ";"
	luaModulePatternTemplateConstant = "%s/?.lua"
	luaInitPatternTemplateConstant   = "%s/?/init.lua"
	luaLoadErrorTemplateConstant     = "unable to load %s: %w"
	luaInvokeErrorTemplateConstant   = "task %s failed: %w"
	luaPrintSeparatorConstant        = "\t"
)

// LuaLoader runs Lua entry points in a fresh interpreter per load.
type LuaLoader struct{}

// NewLuaLoader constructs a LuaLoader.
func NewLuaLoader() LuaLoader {
	return LuaLoader{}
}

// Load executes the entry point chunk and, when it returns a function, calls it with the task context table.
func (luaLoader LuaLoader) Load(executionContext context.Context, request LoadRequest) (loadError error) {
	if executionContext == nil {
		executionContext = context.Background()
	}

	state := lua.NewState()
	defer state.Close()
	state.SetContext(executionContext)

	defer func() {
		if recovered := recover(); recovered != nil {
			loadError = TaskPanicError{Value: recovered}
		}
	}()

	state.SetField(state.GetGlobal(luaPackageGlobalConstant), luaPackagePathFieldConstant, lua.LString(buildLuaPackagePath(request.EntryPoint, request.SearchPaths)))
	if request.Output != nil {
		state.SetGlobal(luaPrintGlobalConstant, state.NewFunction(printTo(request.Output)))
	}

	stackTop := state.GetTop()
	if doFileError := state.DoFile(request.EntryPoint); doFileError != nil {
		return fmt.Errorf(luaLoadErrorTemplateConstant, request.EntryPoint, doFileError)
	}
	if state.GetTop() == stackTop {
		return nil
	}

	exportedFunction, callable := state.Get(stackTop + 1).(*lua.LFunction)
	if !callable {
		return nil
	}

	contextTable := buildContextTable(state, request.Context)
	if callError := state.CallByParam(lua.P{Fn: exportedFunction, NRet: 0, Protect: true}, contextTable); callError != nil {
		return fmt.Errorf(luaInvokeErrorTemplateConstant, request.Context.Name, callError)
	}
	return nil
}

func buildLuaPackagePath(entryPoint string, searchPaths []string) string {
	directories := append([]string{filepath.Dir(entryPoint)}, searchPaths...)
	patterns := make([]string, 0, len(directories)*2)
	for _, directory := range directories {
		trimmedDirectory := strings.TrimSpace(directory)
		if len(trimmedDirectory) == 0 {
			continue
		}
		patterns = append(patterns,
			fmt.Sprintf(luaModulePatternTemplateConstant, filepath.ToSlash(trimmedDirectory)),
			fmt.Sprintf(luaInitPatternTemplateConstant, filepath.ToSlash(trimmedDirectory)),
		)
	}
	return strings.Join(patterns, luaPathSeparatorConstant)
}

func buildContextTable(state *lua.LState, taskContext TaskContext) *lua.LTable {
	contextTable := state.NewTable()
	contextTable.RawSetString("name", lua.LString(taskContext.Name))
	contextTable.RawSetString("type", lua.LString(taskContext.Type))
	contextTable.RawSetString("path", lua.LString(taskContext.Path))
	contextTable.RawSetString("working_directory", lua.LString(taskContext.WorkingDirectory))
	contextTable.RawSetString("run_id", lua.LString(taskContext.RunIdentifier))

	paramsTable := state.NewTable()
	parameterKeys := make([]string, 0, len(taskContext.Params))
	for parameterKey := range taskContext.Params {
		parameterKeys = append(parameterKeys, parameterKey)
	}
	sort.Strings(parameterKeys)
	for _, parameterKey := range parameterKeys {
		paramsTable.RawSetString(parameterKey, lua.LString(taskContext.Params[parameterKey]))
	}
	contextTable.RawSetString("params", paramsTable)

	modeTable := state.NewTable()
	modeTable.RawSetString("template", lua.LBool(taskContext.Mode.Template))
	modeTable.RawSetString("global", lua.LBool(taskContext.Mode.Global))
	modeTable.RawSetString("debug", lua.LBool(taskContext.Mode.Debug))
	modeTable.RawSetString("parallel", lua.LBool(taskContext.Mode.Parallel))
	contextTable.RawSetString("mode", modeTable)

	templateTable := state.NewTable()
	templateTable.RawSetString("name", lua.LString(taskContext.Template.Name))
	templateTable.RawSetString("version", lua.LString(taskContext.Template.Version))
	contextTable.RawSetString("template", templateTable)

	searchPathsTable := state.NewTable()
	for _, searchPath := range taskContext.SearchPaths {
		searchPathsTable.Append(lua.LString(searchPath))
	}
	contextTable.RawSetString("search_paths", searchPathsTable)

	return contextTable
}

func printTo(output io.Writer) lua.LGFunction {
	return func(state *lua.LState) int {
		argumentCount := state.GetTop()
		parts := make([]string, 0, argumentCount)
		for argumentIndex := 1; argumentIndex <= argumentCount; argumentIndex++ {
			parts = append(parts, state.ToStringMeta(state.Get(argumentIndex)).String())
		}
		fmt.Fprintln(output, strings.Join(parts, luaPrintSeparatorConstant))
		return 0
	}
}
