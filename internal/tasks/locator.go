package tasks

import (
	"path/filepath"
	"strings"

	"github.com/tyemirov/tasker/internal/manifest"
	"github.com/tyemirov/tasker/internal/stores"
)

// FileSystem describes the filesystem operations used to locate and enumerate tasks.
type FileSystem interface {
	Exists(path string) bool
	ListEntries(directory string, excludePatterns []string, depth int) ([]string, error)
}

// ManifestReader reads the package manifest of a directory.
type ManifestReader interface {
	Read(directory string) (manifest.Manifest, error)
}

// Locator resolves task names to entry points across the local, template, and global scopes.
type Locator struct {
	fileSystem       FileSystem
	manifestReader   ManifestReader
	workingDirectory string
}

// NewLocator constructs a Locator rooted at workingDirectory.
func NewLocator(fileSystem FileSystem, manifestReader ManifestReader, workingDirectory string) (Locator, error) {
	if fileSystem == nil {
		return Locator{}, ErrFileSystemNotConfigured
	}
	if manifestReader == nil {
		return Locator{}, ErrManifestReaderNotConfigured
	}
	if len(strings.TrimSpace(workingDirectory)) == 0 {
		return Locator{}, ErrWorkingDirectoryRequired
	}
	return Locator{fileSystem: fileSystem, manifestReader: manifestReader, workingDirectory: workingDirectory}, nil
}

// Locate resolves rawName within scope. Later scopes are consulted only when earlier ones found nothing,
// except that the global scope always overrides when requested explicitly.
func (locator Locator) Locate(rawName string, scope Scope, executionContext ExecutionContext) (TaskInfo, bool) {
	configuration := executionContext.Configuration
	options := executionContext.Options

	name := ResolveFullName(rawName, options.Tasks)
	if len(name) == 0 {
		return TaskInfo{}, false
	}

	var located TaskInfo
	found := false

	if scope == ScopeLocal {
		localTaskDirectory := filepath.Join(locator.workingDirectory, configuration.TaskDirectory)
		if taskPath, exists := locator.findTaskFile(localTaskDirectory, name, configuration.TaskExtensions); exists {
			located = TaskInfo{Name: name, Type: ScopeLocal, Path: taskPath}
			found = true
		}
		if taskTemplateInfo, isTaskTemplate := locator.locateTaskTemplateMain(executionContext); isTaskTemplate {
			located = taskTemplateInfo
			found = true
		}
	}

	if !found && options.Template != nil && len(options.Template.Name) > 0 {
		if templateEntry, templateInstalled := executionContext.Store.Lookup(options.Template.Name); templateInstalled {
			templateTaskDirectory := filepath.Join(templateEntry.Path, configuration.TaskDirectory)
			if taskPath, exists := locator.findTaskFile(templateTaskDirectory, name, configuration.TaskExtensions); exists {
				located = TaskInfo{
					Name:            name,
					Type:            ScopeTemplate,
					Path:            taskPath,
					TemplateName:    options.Template.Name,
					TemplateVersion: templateVersion(options.Template, templateEntry),
				}
				found = true
			}
		}
	}

	if !found || scope == ScopeGlobal {
		if globalEntry, installed := executionContext.Store.Lookup(configuration.TaskPrefix + name); installed {
			taskPath := filepath.Join(globalEntry.Path, globalEntry.File)
			if locator.fileSystem.Exists(taskPath) {
				located = TaskInfo{Name: name, Type: ScopeGlobal, Path: taskPath}
				found = true
			}
		}
	}

	return located, found
}

// locateTaskTemplateMain resolves the manifest main of a project that is itself a task template.
// The canonical name comes from the alias table; manifest failures are ignored.
func (locator Locator) locateTaskTemplateMain(executionContext ExecutionContext) (TaskInfo, bool) {
	mainPath, located := locator.taskTemplateMainPath(executionContext)
	if !located {
		return TaskInfo{}, false
	}
	canonicalName, declared := soleAliasKey(executionContext.Options.Tasks)
	if !declared {
		return TaskInfo{}, false
	}
	return TaskInfo{Name: canonicalName, Type: ScopeLocal, Path: mainPath}, true
}

func (locator Locator) taskTemplateMainPath(executionContext ExecutionContext) (string, bool) {
	if !isTaskTemplate(executionContext.Options, executionContext.Configuration) {
		return "", false
	}
	projectManifest, readError := locator.manifestReader.Read(locator.workingDirectory)
	if readError != nil || len(projectManifest.Main) == 0 {
		return "", false
	}
	mainPath := filepath.Join(locator.workingDirectory, projectManifest.Main)
	if !locator.fileSystem.Exists(mainPath) {
		return "", false
	}
	return mainPath, true
}

func (locator Locator) findTaskFile(directory string, name string, extensions []string) (string, bool) {
	for _, extension := range extensions {
		candidate := filepath.Join(directory, name+extension)
		if locator.fileSystem.Exists(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func isTaskTemplate(options Options, configuration Configuration) bool {
	return options.Template != nil &&
		len(configuration.TaskPrefix) > 0 &&
		strings.HasPrefix(options.Template.Name, configuration.TaskPrefix)
}

func templateVersion(descriptor *TemplateDescriptor, entry stores.Entry) string {
	if descriptor != nil && len(descriptor.Version) > 0 {
		return descriptor.Version
	}
	return stores.ResolveLatestVersion(entry)
}
