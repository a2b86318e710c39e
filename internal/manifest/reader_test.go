package manifest_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/tyemirov/tasker/internal/filesystem"
	"github.com/tyemirov/tasker/internal/manifest"
)

func TestReaderRead(testInstance *testing.T) {
	testCases := []struct {
		name        string
		content     string
		expectError bool
		expected    manifest.Manifest
	}{
		{
			name:    "complete_manifest",
			content: `{"name":"fbi-task-lint","main":" index.js ","description":"Lint sources","dependencies":{"eslint":"^8.0.0"},"devDependencies":{"jest":"^29.0.0"}}`,
			expected: manifest.Manifest{
				Main:            "index.js",
				Description:     "Lint sources",
				Dependencies:    map[string]string{"eslint": "^8.0.0"},
				DevDependencies: map[string]string{"jest": "^29.0.0"},
			},
		},
		{
			name:    "sparse_manifest",
			content: `{"name":"project"}`,
			expected: manifest.Manifest{
				Dependencies:    map[string]string{},
				DevDependencies: map[string]string{},
			},
		},
		{
			name:        "malformed_manifest",
			content:     `{"name":`,
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			memoryFileSystem := afero.NewMemMapFs()
			require.NoError(testInstance, afero.WriteFile(memoryFileSystem, "/project/package.json", []byte(testCase.content), 0o644))

			reader, readerError := manifest.NewReader(filesystem.NewFileSystem(memoryFileSystem))
			require.NoError(testInstance, readerError)

			parsed, parseError := reader.Read("/project")
			if testCase.expectError {
				require.Error(testInstance, parseError)
				return
			}
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expected, parsed)
		})
	}
}

func TestReaderReportsMissingManifest(testInstance *testing.T) {
	reader, readerError := manifest.NewReader(filesystem.NewFileSystem(afero.NewMemMapFs()))
	require.NoError(testInstance, readerError)

	_, parseError := reader.Read("/absent")
	require.ErrorContains(testInstance, parseError, "unable to read manifest")
}

func TestNewReaderRequiresFileReader(testInstance *testing.T) {
	_, readerError := manifest.NewReader(nil)
	require.ErrorIs(testInstance, readerError, manifest.ErrFileReaderNotConfigured)
}
