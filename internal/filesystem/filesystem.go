// Package filesystem exposes the narrow filesystem primitives used by task resolution on top of afero.
package filesystem

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
)

const (
	listDirectoryErrorTemplateConstant = "unable to list directory %s: %w"
	emptyCheckErrorTemplateConstant    = "unable to inspect directory %s: %w"
)

// FileSystem describes the filesystem operations consumed by the task engine.
type FileSystem interface {
	Exists(path string) bool
	ListEntries(directory string, excludePatterns []string, depth int) ([]string, error)
	IsEmptyDirectory(path string) (bool, error)
	ReadFile(path string) ([]byte, error)
}

// AferoFileSystem implements FileSystem over an afero filesystem.
type AferoFileSystem struct {
	fileSystem afero.Fs
}

// NewFileSystem wraps the provided afero filesystem. A nil filesystem selects the operating system.
func NewFileSystem(fileSystem afero.Fs) AferoFileSystem {
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}
	return AferoFileSystem{fileSystem: fileSystem}
}

// NewOSFileSystem returns a FileSystem backed by the operating system.
func NewOSFileSystem() AferoFileSystem {
	return NewFileSystem(afero.NewOsFs())
}

// Exists reports whether path exists. Lookup errors are treated as absence.
func (fileSystem AferoFileSystem) Exists(path string) bool {
	if len(path) == 0 {
		return false
	}
	exists, existsError := afero.Exists(fileSystem.fileSystem, path)
	return existsError == nil && exists
}

// ListEntries returns the regular files under directory down to depth levels, skipping names matching an exclude pattern.
// A depth of 1 lists only the directory's direct children. Results are sorted.
func (fileSystem AferoFileSystem) ListEntries(directory string, excludePatterns []string, depth int) ([]string, error) {
	if depth < 1 {
		return nil, nil
	}

	directoryEntries, readError := afero.ReadDir(fileSystem.fileSystem, directory)
	if readError != nil {
		return nil, fmt.Errorf(listDirectoryErrorTemplateConstant, directory, readError)
	}

	collected := make([]string, 0, len(directoryEntries))
	for _, directoryEntry := range directoryEntries {
		if matchesAny(directoryEntry.Name(), excludePatterns) {
			continue
		}
		entryPath := filepath.Join(directory, directoryEntry.Name())
		if directoryEntry.IsDir() {
			nestedEntries, nestedError := fileSystem.ListEntries(entryPath, excludePatterns, depth-1)
			if nestedError != nil {
				return nil, nestedError
			}
			collected = append(collected, nestedEntries...)
			continue
		}
		collected = append(collected, entryPath)
	}

	sort.Strings(collected)
	return collected, nil
}

// IsEmptyDirectory reports whether path is missing or an empty directory.
func (fileSystem AferoFileSystem) IsEmptyDirectory(path string) (bool, error) {
	if !fileSystem.Exists(path) {
		return true, nil
	}
	empty, emptyError := afero.IsEmpty(fileSystem.fileSystem, path)
	if emptyError != nil {
		return false, fmt.Errorf(emptyCheckErrorTemplateConstant, path, emptyError)
	}
	return empty, nil
}

// ReadFile returns the content of path.
func (fileSystem AferoFileSystem) ReadFile(path string) ([]byte, error) {
	return afero.ReadFile(fileSystem.fileSystem, path)
}

func matchesAny(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, matchError := filepath.Match(pattern, name); matchError == nil && matched {
			return true
		}
	}
	return false
}
