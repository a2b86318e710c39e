package tasks

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/tyemirov/tasker/internal/stores"
)

const catalogListingDepthConstant = 1

// CatalogEntry describes one available task.
type CatalogEntry struct {
	Name        string `json:"name"`
	Alias       string `json:"alias"`
	Description string `json:"description"`
	Version     string `json:"version,omitempty"`
}

// Catalog groups available tasks by scope.
type Catalog struct {
	Local    []CatalogEntry `json:"local"`
	Global   []CatalogEntry `json:"global"`
	Template []CatalogEntry `json:"template"`
}

// All enumerates every task available in each scope without touching the ledger.
func (service *Service) All(configuration Configuration, options Options, store stores.Store) Catalog {
	catalog := Catalog{
		Local:    service.findTasks(filepath.Join(service.workingDirectory, configuration.TaskDirectory), configuration, options),
		Global:   []CatalogEntry{},
		Template: []CatalogEntry{},
	}

	executionContext := ExecutionContext{Configuration: configuration, Options: options, Store: store}
	if _, isTaskTemplate := service.locator.taskTemplateMainPath(executionContext); isTaskTemplate {
		if canonicalName, declared := soleAliasKey(options.Tasks); declared {
			description := ""
			if projectManifest, readError := service.manifestReader.Read(service.workingDirectory); readError == nil {
				description = projectManifest.Description
			}
			catalog.Local = append(catalog.Local, CatalogEntry{
				Name:        canonicalName,
				Alias:       AliasByName(canonicalName, options.Tasks),
				Description: description,
			})
		}
	}

	if options.Template != nil && len(options.Template.Name) > 0 {
		if templateEntry, installed := store.Lookup(options.Template.Name); installed {
			catalog.Template = service.findTasks(filepath.Join(templateEntry.Path, configuration.TaskDirectory), configuration, options)
		}
	}

	if len(configuration.TaskPrefix) > 0 {
		for _, storeKey := range store.Keys() {
			taskName, isTaskPackage := strings.CutPrefix(storeKey, configuration.TaskPrefix)
			if !isTaskPackage || len(taskName) == 0 {
				continue
			}
			storeEntry, _ := store.Lookup(storeKey)
			catalog.Global = append(catalog.Global, CatalogEntry{
				Name:        taskName,
				Alias:       AliasByName(taskName, options.Tasks),
				Description: storeEntry.Description,
				Version:     storeEntry.Version.Current,
			})
		}
	}

	return catalog
}

func (service *Service) findTasks(directory string, configuration Configuration, options Options) []CatalogEntry {
	entries := []CatalogEntry{}
	if !service.fileSystem.Exists(directory) {
		return entries
	}
	filePaths, listError := service.fileSystem.ListEntries(directory, nil, catalogListingDepthConstant)
	if listError != nil {
		service.reporter.Debug(listError.Error())
		return entries
	}

	seen := make(map[string]struct{}, len(filePaths))
	for _, filePath := range filePaths {
		taskName, isTaskFile := configuration.isTaskFile(filepath.Base(filePath))
		if !isTaskFile {
			continue
		}
		if _, duplicate := seen[taskName]; duplicate {
			continue
		}
		seen[taskName] = struct{}{}
		aliasEntry := options.Tasks[taskName]
		entries = append(entries, CatalogEntry{Name: taskName, Alias: aliasEntry.Alias, Description: aliasEntry.Description})
	}

	sort.Slice(entries, func(leftIndex int, rightIndex int) bool {
		return entries[leftIndex].Name < entries[rightIndex].Name
	})
	return entries
}
