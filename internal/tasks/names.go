package tasks

import "sort"

// ResolveFullName maps an alias to its canonical task name.
// Empty names and names without a matching alias are returned unchanged.
func ResolveFullName(rawName string, aliases AliasTable) string {
	if len(rawName) == 0 || aliases == nil {
		return rawName
	}
	if _, exists := aliases[rawName]; exists {
		return rawName
	}
	for _, canonicalName := range sortedAliasKeys(aliases) {
		if aliases[canonicalName].Alias == rawName {
			return canonicalName
		}
	}
	return rawName
}

// AliasByName returns the alias declared for a canonical task name, or an empty string.
func AliasByName(name string, aliases AliasTable) string {
	if len(name) == 0 || aliases == nil {
		return ""
	}
	return aliases[name].Alias
}

// soleAliasKey returns the canonical name a task template declares for itself.
func soleAliasKey(aliases AliasTable) (string, bool) {
	keys := sortedAliasKeys(aliases)
	if len(keys) == 0 {
		return "", false
	}
	return keys[0], true
}

func sortedAliasKeys(aliases AliasTable) []string {
	keys := make([]string, 0, len(aliases))
	for key := range aliases {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
