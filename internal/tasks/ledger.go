package tasks

import (
	"encoding/json"
	"sync"
)

// LedgerEntry holds the parameters recorded for one canonical task name.
// A single invocation keeps a bare parameter set; repeated invocations promote it to an ordered sequence.
type LedgerEntry struct {
	sets     []ParameterSet
	promoted bool
}

// IsSequence reports whether the entry was promoted to a sequence.
func (entry LedgerEntry) IsSequence() bool {
	return entry.promoted
}

// Single returns the bare parameter set of an entry that was recorded exactly once.
func (entry LedgerEntry) Single() (ParameterSet, bool) {
	if entry.promoted || len(entry.sets) == 0 {
		return nil, false
	}
	return copyParameterSet(entry.sets[0]), true
}

// Sequence returns every recorded parameter set in invocation order.
func (entry LedgerEntry) Sequence() []ParameterSet {
	sequence := make([]ParameterSet, 0, len(entry.sets))
	for _, parameterSet := range entry.sets {
		sequence = append(sequence, copyParameterSet(parameterSet))
	}
	return sequence
}

// MarshalJSON renders a bare entry as an object and a promoted entry as an array.
func (entry LedgerEntry) MarshalJSON() ([]byte, error) {
	if single, isSingle := entry.Single(); isSingle {
		return json.Marshal(single)
	}
	return json.Marshal(entry.Sequence())
}

// Ledger records the parameters of every resolved invocation in the process.
type Ledger struct {
	mutex   sync.RWMutex
	entries map[string]LedgerEntry
}

// NewLedger constructs an empty Ledger.
func NewLedger() *Ledger {
	return &Ledger{entries: make(map[string]LedgerEntry)}
}

// Record stores params under name: absent names get a bare set, a bare set becomes a two-element sequence, and a sequence grows.
func (ledger *Ledger) Record(name string, params ParameterSet) {
	ledger.mutex.Lock()
	defer ledger.mutex.Unlock()

	entry, exists := ledger.entries[name]
	recorded := copyParameterSet(params)
	if !exists {
		ledger.entries[name] = LedgerEntry{sets: []ParameterSet{recorded}}
		return
	}
	entry.sets = append(append([]ParameterSet(nil), entry.sets...), recorded)
	entry.promoted = true
	ledger.entries[name] = entry
}

// All returns a snapshot of the whole ledger.
func (ledger *Ledger) All() map[string]LedgerEntry {
	ledger.mutex.RLock()
	defer ledger.mutex.RUnlock()

	snapshot := make(map[string]LedgerEntry, len(ledger.entries))
	for name, entry := range ledger.entries {
		snapshot[name] = entry
	}
	return snapshot
}

// Lookup returns the entry recorded for name.
func (ledger *Ledger) Lookup(name string) (LedgerEntry, bool) {
	ledger.mutex.RLock()
	defer ledger.mutex.RUnlock()

	entry, exists := ledger.entries[name]
	return entry, exists
}

// Value returns params[key] for a task recorded exactly once. Promoted entries have no keyed values.
func (ledger *Ledger) Value(name string, key string) (string, bool) {
	entry, exists := ledger.Lookup(name)
	if !exists {
		return "", false
	}
	single, isSingle := entry.Single()
	if !isSingle {
		return "", false
	}
	value, found := single[key]
	return value, found
}

func copyParameterSet(params ParameterSet) ParameterSet {
	copied := make(ParameterSet, len(params))
	for key, value := range params {
		copied[key] = value
	}
	return copied
}
