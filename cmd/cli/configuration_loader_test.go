package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tyemirov/tasker/internal/tasks"
	"github.com/tyemirov/tasker/internal/utils"
)

const (
	testTaskPrefixEnvironmentVariableConstant = "TASKER_TASKS_TASK_PREFIX"
	testProjectConfigurationConstant          = `tasks:
  task_directory: scripts
  task_prefix: acme-task-
  extensions: [.lua]
project:
  template:
    name: react
    version: 2.0.0
  tasks:
    build: b
    deploy:
      alias: d
      description: Deploy the project
`
)

func newApplicationConfigurationLoader(searchPaths ...string) *utils.ConfigurationLoader {
	configurationLoader := utils.NewConfigurationLoader(configurationNameConstant, configurationTypeConstant, environmentPrefixConstant, searchPaths)
	embeddedConfigurationData, embeddedConfigurationType := EmbeddedDefaultConfiguration()
	configurationLoader.SetEmbeddedConfiguration(embeddedConfigurationData, embeddedConfigurationType)
	return configurationLoader
}

func writeConfigurationFile(testInstance *testing.T, directory string, contents string) string {
	testInstance.Helper()
	require.NoError(testInstance, os.MkdirAll(directory, 0o755))
	configurationFilePath := filepath.Join(directory, configurationFileNameConstant)
	require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte(contents), 0o600))
	return configurationFilePath
}

func TestConfigurationLoaderLayersApplicationConfiguration(testInstance *testing.T) {
	testCases := []struct {
		name                  string
		fileContents          string
		environmentTaskPrefix string
		expectedTasks         tasks.Configuration
		expectedTemplate      tasks.TemplateDescriptor
		expectedAliases       tasks.AliasTable
		expectedResolvedName  string
	}{
		{
			name:                 "embedded_defaults",
			expectedTasks:        tasks.Configuration{TaskDirectory: "fbi", TaskPrefix: "fbi-task-", StoreFile: "store.yaml", ModuleDirectory: "node_modules", TaskExtensions: []string{".js", ".lua"}, NodeCommand: "node"},
			expectedAliases:      tasks.AliasTable{},
			expectedTemplate:     tasks.TemplateDescriptor{},
			expectedResolvedName: "d",
		},
		{
			name:          "project_file_overrides_defaults",
			fileContents:  testProjectConfigurationConstant,
			expectedTasks: tasks.Configuration{TaskDirectory: "scripts", TaskPrefix: "acme-task-", StoreFile: "store.yaml", ModuleDirectory: "node_modules", TaskExtensions: []string{".lua"}, NodeCommand: "node"},
			expectedAliases: tasks.AliasTable{
				"build":  {Alias: "b"},
				"deploy": {Alias: "d", Description: "Deploy the project"},
			},
			expectedTemplate:     tasks.TemplateDescriptor{Name: "react", Version: "2.0.0"},
			expectedResolvedName: "deploy",
		},
		{
			name:                  "environment_overrides_project_file",
			fileContents:          testProjectConfigurationConstant,
			environmentTaskPrefix: "env-task-",
			expectedTasks:         tasks.Configuration{TaskDirectory: "scripts", TaskPrefix: "env-task-", StoreFile: "store.yaml", ModuleDirectory: "node_modules", TaskExtensions: []string{".lua"}, NodeCommand: "node"},
			expectedAliases: tasks.AliasTable{
				"build":  {Alias: "b"},
				"deploy": {Alias: "d", Description: "Deploy the project"},
			},
			expectedTemplate:     tasks.TemplateDescriptor{Name: "react", Version: "2.0.0"},
			expectedResolvedName: "deploy",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			testInstance.Setenv(testTaskPrefixEnvironmentVariableConstant, testCase.environmentTaskPrefix)
			testInstance.Setenv("TASKER_TASKS_DATA_ROOT", "")
			projectDirectory := testInstance.TempDir()
			expectedConfigurationFile := ""
			if len(testCase.fileContents) > 0 {
				expectedConfigurationFile = writeConfigurationFile(testInstance, projectDirectory, testCase.fileContents)
			}

			loadedConfiguration := DefaultApplicationConfiguration()
			metadata, loadError := newApplicationConfigurationLoader(projectDirectory).LoadConfiguration("", nil, &loadedConfiguration)
			require.NoError(testInstance, loadError)
			require.Equal(testInstance, expectedConfigurationFile, metadata.ConfigFileUsed)

			require.Equal(testInstance, testCase.expectedTasks, loadedConfiguration.Tasks)
			require.NoError(testInstance, loadedConfiguration.Tasks.Sanitize().Validate())
			require.Equal(testInstance, testCase.expectedTemplate, loadedConfiguration.Project.Template)

			aliasTable, aliasError := DecodeAliasTable(loadedConfiguration.Project.Tasks)
			require.NoError(testInstance, aliasError)
			require.Equal(testInstance, testCase.expectedAliases, aliasTable)
			require.Equal(testInstance, testCase.expectedResolvedName, tasks.ResolveFullName("d", aliasTable))
		})
	}
}

func TestConfigurationLoaderSearchPathPrecedence(testInstance *testing.T) {
	testCases := []struct {
		name                      string
		directoriesWithFile       []string
		expectedConfigurationRole string
	}{
		{name: "project_only", directoriesWithFile: []string{"project"}, expectedConfigurationRole: "project"},
		{name: "xdg_only", directoriesWithFile: []string{"xdg"}, expectedConfigurationRole: "xdg"},
		{name: "home_only", directoriesWithFile: []string{"home"}, expectedConfigurationRole: "home"},
		{name: "project_preferred", directoriesWithFile: []string{"project", "xdg", "home"}, expectedConfigurationRole: "project"},
		{name: "xdg_over_home", directoriesWithFile: []string{"xdg", "home"}, expectedConfigurationRole: "xdg"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			testInstance.Setenv(testTaskPrefixEnvironmentVariableConstant, "")
			rootDirectory := testInstance.TempDir()
			directoryByRole := map[string]string{
				"project": filepath.Join(rootDirectory, "project"),
				"xdg":     filepath.Join(rootDirectory, "xdg", xdgConfigurationDirectoryNameConstant),
				"home":    filepath.Join(rootDirectory, "home", userConfigurationDirectoryNameConstant),
			}
			for _, role := range testCase.directoriesWithFile {
				writeConfigurationFile(testInstance, directoryByRole[role], "tasks:\n  task_directory: "+role+"-tasks\n")
			}

			loadedConfiguration := DefaultApplicationConfiguration()
			metadata, loadError := newApplicationConfigurationLoader(
				directoryByRole["project"],
				directoryByRole["xdg"],
				directoryByRole["home"],
			).LoadConfiguration("", nil, &loadedConfiguration)
			require.NoError(testInstance, loadError)
			require.Equal(testInstance, testCase.expectedConfigurationRole+"-tasks", loadedConfiguration.Tasks.TaskDirectory)
			require.Equal(testInstance, filepath.Join(directoryByRole[testCase.expectedConfigurationRole], configurationFileNameConstant), metadata.ConfigFileUsed)
			require.Equal(testInstance, tasks.DefaultTaskPrefix, loadedConfiguration.Tasks.TaskPrefix)
		})
	}
}

func TestConfigurationLoaderExplicitFileOverridesSearchPaths(testInstance *testing.T) {
	rootDirectory := testInstance.TempDir()
	searchDirectory := filepath.Join(rootDirectory, "search")
	writeConfigurationFile(testInstance, searchDirectory, "tasks:\n  task_prefix: search-task-\n")
	explicitFilePath := writeConfigurationFile(testInstance, filepath.Join(rootDirectory, "explicit"), "tasks:\n  task_prefix: explicit-task-\n")

	loadedConfiguration := DefaultApplicationConfiguration()
	metadata, loadError := newApplicationConfigurationLoader(searchDirectory).LoadConfiguration(explicitFilePath, nil, &loadedConfiguration)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, "explicit-task-", loadedConfiguration.Tasks.TaskPrefix)
	require.Equal(testInstance, explicitFilePath, metadata.ConfigFileUsed)
}

func TestConfigurationLoaderRejectsMalformedProjectFile(testInstance *testing.T) {
	projectDirectory := testInstance.TempDir()
	writeConfigurationFile(testInstance, projectDirectory, "tasks: [unterminated\n")

	loadedConfiguration := DefaultApplicationConfiguration()
	_, loadError := newApplicationConfigurationLoader(projectDirectory).LoadConfiguration("", nil, &loadedConfiguration)
	require.Error(testInstance, loadError)

	_, loadError = newApplicationConfigurationLoader(projectDirectory).LoadConfiguration("", nil, nil)
	require.Error(testInstance, loadError)
}
