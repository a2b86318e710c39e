package tasks_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tyemirov/tasker/internal/tasks"
)

func TestNewLocatorValidatesDependencies(testInstance *testing.T) {
	harness := newServiceHarness(testInstance)

	_, locatorError := tasks.NewLocator(nil, harness.manifestReader, projectDirectoryConstant)
	require.ErrorIs(testInstance, locatorError, tasks.ErrFileSystemNotConfigured)

	_, locatorError = tasks.NewLocator(harness.taskFileSystem, nil, projectDirectoryConstant)
	require.ErrorIs(testInstance, locatorError, tasks.ErrManifestReaderNotConfigured)

	_, locatorError = tasks.NewLocator(harness.taskFileSystem, harness.manifestReader, " ")
	require.ErrorIs(testInstance, locatorError, tasks.ErrWorkingDirectoryRequired)
}

func TestLocatorLocate(testInstance *testing.T) {
	testCases := []struct {
		name          string
		files         map[string]string
		rawName       string
		scope         tasks.Scope
		configure     func(*tasks.ExecutionContext)
		expectedFound bool
		expected      tasks.TaskInfo
	}{
		{
			name:          "local_javascript_task",
			files:         map[string]string{"/project/fbi/build.js": taskFileContentsConstant},
			rawName:       "build",
			scope:         tasks.ScopeLocal,
			expectedFound: true,
			expected:      tasks.TaskInfo{Name: "build", Type: tasks.ScopeLocal, Path: "/project/fbi/build.js"},
		},
		{
			name:          "local_lua_task",
			files:         map[string]string{"/project/fbi/build.lua": "return function() end"},
			rawName:       "build",
			scope:         tasks.ScopeLocal,
			expectedFound: true,
			expected:      tasks.TaskInfo{Name: "build", Type: tasks.ScopeLocal, Path: "/project/fbi/build.lua"},
		},
		{
			name: "first_configured_extension_wins",
			files: map[string]string{
				"/project/fbi/build.js":  taskFileContentsConstant,
				"/project/fbi/build.lua": "return function() end",
			},
			rawName:       "build",
			scope:         tasks.ScopeLocal,
			expectedFound: true,
			expected:      tasks.TaskInfo{Name: "build", Type: tasks.ScopeLocal, Path: "/project/fbi/build.js"},
		},
		{
			name:    "alias_resolves_to_canonical_name",
			files:   map[string]string{"/project/fbi/build.js": taskFileContentsConstant},
			rawName: "b",
			scope:   tasks.ScopeLocal,
			configure: func(executionContext *tasks.ExecutionContext) {
				executionContext.Options.Tasks = tasks.AliasTable{"build": {Alias: "b"}}
			},
			expectedFound: true,
			expected:      tasks.TaskInfo{Name: "build", Type: tasks.ScopeLocal, Path: "/project/fbi/build.js"},
		},
		{
			name: "local_wins_over_template",
			files: map[string]string{
				"/project/fbi/build.js":     taskFileContentsConstant,
				"/store/react/fbi/build.js": taskFileContentsConstant,
			},
			rawName: "build",
			scope:   tasks.ScopeLocal,
			configure: func(executionContext *tasks.ExecutionContext) {
				executionContext.Options.Template = &tasks.TemplateDescriptor{Name: templateNameConstant}
			},
			expectedFound: true,
			expected:      tasks.TaskInfo{Name: "build", Type: tasks.ScopeLocal, Path: "/project/fbi/build.js"},
		},
		{
			name:    "template_task_uses_latest_version",
			files:   map[string]string{"/store/react/fbi/build.js": taskFileContentsConstant},
			rawName: "build",
			scope:   tasks.ScopeLocal,
			configure: func(executionContext *tasks.ExecutionContext) {
				executionContext.Options.Template = &tasks.TemplateDescriptor{Name: templateNameConstant}
			},
			expectedFound: true,
			expected: tasks.TaskInfo{
				Name:            "build",
				Type:            tasks.ScopeTemplate,
				Path:            "/store/react/fbi/build.js",
				TemplateName:    templateNameConstant,
				TemplateVersion: templateLatestVersionConstant,
			},
		},
		{
			name: "template_scope_skips_local",
			files: map[string]string{
				"/project/fbi/build.js":     taskFileContentsConstant,
				"/store/react/fbi/build.js": taskFileContentsConstant,
			},
			rawName: "build",
			scope:   tasks.ScopeTemplate,
			configure: func(executionContext *tasks.ExecutionContext) {
				executionContext.Options.Template = &tasks.TemplateDescriptor{Name: templateNameConstant, Version: "2.0.0"}
			},
			expectedFound: true,
			expected: tasks.TaskInfo{
				Name:            "build",
				Type:            tasks.ScopeTemplate,
				Path:            "/store/react/fbi/build.js",
				TemplateName:    templateNameConstant,
				TemplateVersion: "2.0.0",
			},
		},
		{
			name:          "global_fallback",
			files:         map[string]string{"/data/fbi-task-deploy/index.js": taskFileContentsConstant},
			rawName:       "deploy",
			scope:         tasks.ScopeLocal,
			expectedFound: true,
			expected:      tasks.TaskInfo{Name: "deploy", Type: tasks.ScopeGlobal, Path: "/data/fbi-task-deploy/index.js"},
		},
		{
			name: "global_scope_overrides_local",
			files: map[string]string{
				"/project/fbi/deploy.js":         taskFileContentsConstant,
				"/data/fbi-task-deploy/index.js": taskFileContentsConstant,
			},
			rawName:       "deploy",
			scope:         tasks.ScopeGlobal,
			expectedFound: true,
			expected:      tasks.TaskInfo{Name: "deploy", Type: tasks.ScopeGlobal, Path: "/data/fbi-task-deploy/index.js"},
		},
		{
			name: "global_scope_overrides_template",
			files: map[string]string{
				"/store/react/fbi/deploy.js":     taskFileContentsConstant,
				"/data/fbi-task-deploy/index.js": taskFileContentsConstant,
			},
			rawName: "deploy",
			scope:   tasks.ScopeGlobal,
			configure: func(executionContext *tasks.ExecutionContext) {
				executionContext.Options.Template = &tasks.TemplateDescriptor{Name: templateNameConstant}
			},
			expectedFound: true,
			expected:      tasks.TaskInfo{Name: "deploy", Type: tasks.ScopeGlobal, Path: "/data/fbi-task-deploy/index.js"},
		},
		{
			name: "template_wins_over_global_outside_global_scope",
			files: map[string]string{
				"/store/react/fbi/deploy.js":     taskFileContentsConstant,
				"/data/fbi-task-deploy/index.js": taskFileContentsConstant,
			},
			rawName: "deploy",
			scope:   tasks.ScopeLocal,
			configure: func(executionContext *tasks.ExecutionContext) {
				executionContext.Options.Template = &tasks.TemplateDescriptor{Name: templateNameConstant}
			},
			expectedFound: true,
			expected: tasks.TaskInfo{
				Name:            "deploy",
				Type:            tasks.ScopeTemplate,
				Path:            "/store/react/fbi/deploy.js",
				TemplateName:    templateNameConstant,
				TemplateVersion: templateLatestVersionConstant,
			},
		},
		{
			name:          "global_scope_without_package_keeps_nothing_from_local",
			files:         map[string]string{"/project/fbi/build.js": taskFileContentsConstant},
			rawName:       "build",
			scope:         tasks.ScopeGlobal,
			expectedFound: false,
		},
		{
			name:          "global_entry_without_artifact",
			rawName:       "deploy",
			scope:         tasks.ScopeLocal,
			expectedFound: false,
		},
		{
			name:          "missing_everywhere",
			rawName:       "unknown",
			scope:         tasks.ScopeLocal,
			expectedFound: false,
		},
		{
			name:          "empty_name",
			files:         map[string]string{"/project/fbi/.js": taskFileContentsConstant},
			rawName:       "",
			scope:         tasks.ScopeLocal,
			expectedFound: false,
		},
		{
			name:    "template_missing_from_store",
			files:   map[string]string{"/store/vue/fbi/build.js": taskFileContentsConstant},
			rawName: "build",
			scope:   tasks.ScopeTemplate,
			configure: func(executionContext *tasks.ExecutionContext) {
				executionContext.Options.Template = &tasks.TemplateDescriptor{Name: "vue"}
			},
			expectedFound: false,
		},
		{
			name: "task_template_main_wins",
			files: map[string]string{
				"/project/package.json":  `{"main": "lib/index.js"}`,
				"/project/lib/index.js":  taskFileContentsConstant,
				"/project/fbi/deploy.js": taskFileContentsConstant,
			},
			rawName: "d",
			scope:   tasks.ScopeLocal,
			configure: func(executionContext *tasks.ExecutionContext) {
				executionContext.Options.Template = &tasks.TemplateDescriptor{Name: taskTemplateNameConstant}
				executionContext.Options.Tasks = tasks.AliasTable{"deploy": {Alias: "d"}}
			},
			expectedFound: true,
			expected:      tasks.TaskInfo{Name: "deploy", Type: tasks.ScopeLocal, Path: "/project/lib/index.js"},
		},
		{
			name: "task_template_without_alias_table",
			files: map[string]string{
				"/project/package.json":  `{"main": "lib/index.js"}`,
				"/project/lib/index.js":  taskFileContentsConstant,
				"/project/fbi/deploy.js": taskFileContentsConstant,
			},
			rawName: "deploy",
			scope:   tasks.ScopeLocal,
			configure: func(executionContext *tasks.ExecutionContext) {
				executionContext.Options.Template = &tasks.TemplateDescriptor{Name: taskTemplateNameConstant}
			},
			expectedFound: true,
			expected:      tasks.TaskInfo{Name: "deploy", Type: tasks.ScopeLocal, Path: "/project/fbi/deploy.js"},
		},
		{
			name: "task_template_malformed_manifest_is_ignored",
			files: map[string]string{
				"/project/package.json":  `{"main": `,
				"/project/fbi/deploy.js": taskFileContentsConstant,
			},
			rawName: "deploy",
			scope:   tasks.ScopeLocal,
			configure: func(executionContext *tasks.ExecutionContext) {
				executionContext.Options.Template = &tasks.TemplateDescriptor{Name: taskTemplateNameConstant}
				executionContext.Options.Tasks = tasks.AliasTable{"deploy": {}}
			},
			expectedFound: true,
			expected:      tasks.TaskInfo{Name: "deploy", Type: tasks.ScopeLocal, Path: "/project/fbi/deploy.js"},
		},
		{
			name: "task_template_main_missing_on_disk",
			files: map[string]string{
				"/project/package.json": `{"main": "lib/index.js"}`,
			},
			rawName: "deploy",
			scope:   tasks.ScopeLocal,
			configure: func(executionContext *tasks.ExecutionContext) {
				executionContext.Options.Template = &tasks.TemplateDescriptor{Name: taskTemplateNameConstant}
				executionContext.Options.Tasks = tasks.AliasTable{"deploy": {}}
			},
			expectedFound: false,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			harness := newServiceHarness(subtest)
			for path, contents := range testCase.files {
				harness.writeFile(subtest, path, contents)
			}

			executionContext := newExecutionContext()
			if testCase.configure != nil {
				testCase.configure(&executionContext)
			}

			locator, locatorError := tasks.NewLocator(harness.taskFileSystem, harness.manifestReader, projectDirectoryConstant)
			require.NoError(subtest, locatorError)

			located, found := locator.Locate(testCase.rawName, testCase.scope, executionContext)
			require.Equal(subtest, testCase.expectedFound, found)
			if testCase.expectedFound {
				require.Equal(subtest, testCase.expected, located)
			}

			repeated, repeatedFound := locator.Locate(testCase.rawName, testCase.scope, executionContext)
			require.Equal(subtest, found, repeatedFound)
			require.Equal(subtest, located, repeated)
		})
	}
}
