package filesystem_test

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/tyemirov/tasker/internal/filesystem"
)

func seedFileSystem(testInstance *testing.T, files map[string]string) afero.Fs {
	testInstance.Helper()
	memoryFileSystem := afero.NewMemMapFs()
	for filePath, content := range files {
		require.NoError(testInstance, afero.WriteFile(memoryFileSystem, filePath, []byte(content), 0o644))
	}
	return memoryFileSystem
}

func TestListEntriesHonorsDepthAndExcludes(testInstance *testing.T) {
	memoryFileSystem := seedFileSystem(testInstance, map[string]string{
		"/project/tasks/build.js":         "",
		"/project/tasks/serve.js":         "",
		"/project/tasks/README.md":        "",
		"/project/tasks/nested/deploy.js": "",
		"/project/tasks/.hidden.js":       "",
	})
	fileSystem := filesystem.NewFileSystem(memoryFileSystem)

	testCases := []struct {
		name            string
		depth           int
		excludePatterns []string
		expected        []string
	}{
		{
			name:  "depth_one",
			depth: 1,
			expected: []string{
				"/project/tasks/.hidden.js",
				"/project/tasks/README.md",
				"/project/tasks/build.js",
				"/project/tasks/serve.js",
			},
		},
		{
			name:            "depth_two_with_excludes",
			depth:           2,
			excludePatterns: []string{".*", "*.md"},
			expected: []string{
				"/project/tasks/build.js",
				"/project/tasks/nested/deploy.js",
				"/project/tasks/serve.js",
			},
		},
		{
			name:  "depth_zero",
			depth: 0,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			entries, listError := fileSystem.ListEntries("/project/tasks", testCase.excludePatterns, testCase.depth)
			require.NoError(testInstance, listError)
			require.Equal(testInstance, testCase.expected, entries)
		})
	}
}

func TestListEntriesReportsMissingDirectory(testInstance *testing.T) {
	fileSystem := filesystem.NewFileSystem(afero.NewMemMapFs())
	_, listError := fileSystem.ListEntries("/missing", nil, 1)
	require.Error(testInstance, listError)
}

func TestExistsAndIsEmptyDirectory(testInstance *testing.T) {
	memoryFileSystem := seedFileSystem(testInstance, map[string]string{
		"/project/node_modules/left-pad/index.js": "",
	})
	require.NoError(testInstance, memoryFileSystem.MkdirAll("/template/node_modules", 0o755))
	fileSystem := filesystem.NewFileSystem(memoryFileSystem)

	require.True(testInstance, fileSystem.Exists("/project/node_modules"))
	require.False(testInstance, fileSystem.Exists("/absent"))
	require.False(testInstance, fileSystem.Exists(""))

	populated, populatedError := fileSystem.IsEmptyDirectory("/project/node_modules")
	require.NoError(testInstance, populatedError)
	require.False(testInstance, populated)

	empty, emptyError := fileSystem.IsEmptyDirectory("/template/node_modules")
	require.NoError(testInstance, emptyError)
	require.True(testInstance, empty)

	missing, missingError := fileSystem.IsEmptyDirectory(filepath.Join("/absent", "node_modules"))
	require.NoError(testInstance, missingError)
	require.True(testInstance, missing)
}

func TestOSFileSystemReadsRealFiles(testInstance *testing.T) {
	directory := testInstance.TempDir()
	filePath := filepath.Join(directory, "package.json")
	require.NoError(testInstance, afero.WriteFile(afero.NewOsFs(), filePath, []byte("{}"), 0o644))

	fileSystem := filesystem.NewOSFileSystem()
	content, readError := fileSystem.ReadFile(filePath)
	require.NoError(testInstance, readError)
	require.Equal(testInstance, "{}", string(content))
}
