package stores_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/tyemirov/tasker/internal/filesystem"
	"github.com/tyemirov/tasker/internal/stores"
)

const testStoreContentConstant = `
vue:
  path: /data/templates/vue
  description: Vue project template
  version:
    current: 2.1.0
    latest: 2.2.0
fbi-task-lint:
  path: /data/tasks/fbi-task-lint
  file: index.js
  description: Lint sources
  version:
    current: 1.0.0
`

func TestLoadStoreParsesEntries(testInstance *testing.T) {
	memoryFileSystem := afero.NewMemMapFs()
	require.NoError(testInstance, afero.WriteFile(memoryFileSystem, "/data/stores.yaml", []byte(testStoreContentConstant), 0o644))

	store, loadError := stores.LoadStore(filesystem.NewFileSystem(memoryFileSystem), "/data/stores.yaml")
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, 2, store.Len())
	require.Equal(testInstance, []string{"fbi-task-lint", "vue"}, store.Keys())

	taskEntry, exists := store.Lookup("fbi-task-lint")
	require.True(testInstance, exists)
	require.Equal(testInstance, "index.js", taskEntry.File)
	require.Equal(testInstance, "1.0.0", taskEntry.Version.Current)

	_, exists = store.Lookup("missing")
	require.False(testInstance, exists)
}

func TestLoadStoreAcceptsJSON(testInstance *testing.T) {
	memoryFileSystem := afero.NewMemMapFs()
	require.NoError(testInstance, afero.WriteFile(memoryFileSystem, "/data/stores.json", []byte(`{"react":{"path":"/data/templates/react","version":{"latest":"1.0.0"}}}`), 0o644))

	store, loadError := stores.LoadStore(filesystem.NewFileSystem(memoryFileSystem), "/data/stores.json")
	require.NoError(testInstance, loadError)

	entry, exists := store.Lookup("react")
	require.True(testInstance, exists)
	require.Equal(testInstance, "/data/templates/react", entry.Path)
}

func TestLoadStoreHandlesMissingAndMalformedFiles(testInstance *testing.T) {
	memoryFileSystem := afero.NewMemMapFs()
	require.NoError(testInstance, afero.WriteFile(memoryFileSystem, "/data/broken.yaml", []byte("vue: [unterminated"), 0o644))
	fileSystem := filesystem.NewFileSystem(memoryFileSystem)

	emptyStore, missingError := stores.LoadStore(fileSystem, "/data/absent.yaml")
	require.NoError(testInstance, missingError)
	require.Zero(testInstance, emptyStore.Len())

	_, parseError := stores.LoadStore(fileSystem, "/data/broken.yaml")
	require.ErrorContains(testInstance, parseError, "unable to parse store")
}

func TestNewStoreCopiesEntries(testInstance *testing.T) {
	entries := map[string]stores.Entry{"vue": {Path: "/a"}}
	store := stores.NewStore(entries)
	entries["vue"] = stores.Entry{Path: "/b"}

	entry, _ := store.Lookup("vue")
	require.Equal(testInstance, "/a", entry.Path)
}

func TestResolveLatestVersion(testInstance *testing.T) {
	testCases := []struct {
		name     string
		entry    stores.Entry
		expected string
	}{
		{
			name:     "declared_latest",
			entry:    stores.Entry{Version: stores.Version{Latest: "3.0.0", Available: []string{"4.0.0"}}},
			expected: "3.0.0",
		},
		{
			name:     "highest_available",
			entry:    stores.Entry{Version: stores.Version{Available: []string{"1.2.0", "v1.10.0", "1.9.3", "not-a-version"}}},
			expected: "v1.10.0",
		},
		{
			name:     "nothing_known",
			entry:    stores.Entry{},
			expected: "",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expected, stores.ResolveLatestVersion(testCase.entry))
		})
	}
}
