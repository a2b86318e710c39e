// Package stores models the read-only registry of installed templates and global task packages.
package stores

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

const (
	storeReadErrorTemplateConstant  = "unable to read store %s: %w"
	storeParseErrorTemplateConstant = "unable to parse store %s: %w"
	semanticVersionPrefixConstant   = "v"
)

// Version describes the installed and newest known versions of a store entry.
type Version struct {
	Current   string   `yaml:"current" json:"current"`
	Latest    string   `yaml:"latest" json:"latest"`
	Available []string `yaml:"available" json:"available"`
}

// Entry describes one installed template or task package.
type Entry struct {
	Path        string  `yaml:"path" json:"path"`
	File        string  `yaml:"file" json:"file"`
	Description string  `yaml:"description" json:"description"`
	Version     Version `yaml:"version" json:"version"`
}

// Store is an immutable mapping from store key to entry.
type Store struct {
	entries map[string]Entry
}

// NewStore copies entries into a Store.
func NewStore(entries map[string]Entry) Store {
	copied := make(map[string]Entry, len(entries))
	for key, entry := range entries {
		copied[key] = entry
	}
	return Store{entries: copied}
}

// Lookup returns the entry registered under key.
func (store Store) Lookup(key string) (Entry, bool) {
	entry, exists := store.entries[key]
	return entry, exists
}

// Keys returns every store key in lexical order.
func (store Store) Keys() []string {
	keys := make([]string, 0, len(store.entries))
	for key := range store.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Len reports the number of entries.
func (store Store) Len() int {
	return len(store.entries)
}

// FileSource provides the file access needed to load a store.
type FileSource interface {
	Exists(path string) bool
	ReadFile(path string) ([]byte, error)
}

// LoadStore parses the YAML or JSON store file at path. A missing file yields an empty store.
func LoadStore(fileSource FileSource, path string) (Store, error) {
	if fileSource == nil || !fileSource.Exists(path) {
		return NewStore(nil), nil
	}

	content, readError := fileSource.ReadFile(path)
	if readError != nil {
		return Store{}, fmt.Errorf(storeReadErrorTemplateConstant, path, readError)
	}

	entries := map[string]Entry{}
	if unmarshalError := yaml.Unmarshal(content, &entries); unmarshalError != nil {
		return Store{}, fmt.Errorf(storeParseErrorTemplateConstant, path, unmarshalError)
	}

	return NewStore(entries), nil
}

// ResolveLatestVersion returns the entry's declared latest version or, when absent, the highest semantic version it lists.
func ResolveLatestVersion(entry Entry) string {
	if latest := strings.TrimSpace(entry.Version.Latest); len(latest) > 0 {
		return latest
	}

	highest := ""
	highestCanonical := ""
	for _, candidate := range entry.Version.Available {
		canonical := canonicalSemanticVersion(candidate)
		if !semver.IsValid(canonical) {
			continue
		}
		if len(highestCanonical) == 0 || semver.Compare(canonical, highestCanonical) > 0 {
			highest = strings.TrimSpace(candidate)
			highestCanonical = canonical
		}
	}
	return highest
}

func canonicalSemanticVersion(version string) string {
	trimmed := strings.TrimSpace(version)
	if len(trimmed) == 0 || strings.HasPrefix(trimmed, semanticVersionPrefixConstant) {
		return trimmed
	}
	return semanticVersionPrefixConstant + trimmed
}
