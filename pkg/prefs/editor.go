package prefs

import (
	"sort"

	"github.com/arthur-debert/coredroid/pkg/types"
)

type change struct {
	value  string
	remove bool
}

// batch is the pending state of an editor
type batch struct {
	clear   bool
	changes map[string]change
}

// apply returns a new map holding current with the batch applied.
// current is never modified.
func (b *batch) apply(current map[string]string) map[string]string {
	next := make(map[string]string, len(current)+len(b.changes))
	if !b.clear {
		for k, v := range current {
			next[k] = v
		}
	}
	for k, c := range b.changes {
		if c.remove {
			delete(next, k)
		} else {
			next[k] = c.value
		}
	}
	return next
}

// keys returns the changed keys in sorted order
func (b *batch) keys() []string {
	keys := make([]string, 0, len(b.changes))
	for k := range b.changes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (b *batch) empty() bool {
	return !b.clear && len(b.changes) == 0
}

// editor implements types.Editor on top of a backend commit function
type editor struct {
	batch
	commit func(*batch) error
}

func newEditor(commit func(*batch) error) *editor {
	return &editor{
		batch:  batch{changes: make(map[string]change)},
		commit: commit,
	}
}

func (e *editor) PutString(key, value string) types.Editor {
	e.changes[key] = change{value: value}
	return e
}

func (e *editor) Remove(key string) types.Editor {
	e.changes[key] = change{remove: true}
	return e
}

func (e *editor) Clear() types.Editor {
	e.clear = true
	return e
}

// Commit applies the batch and resets the editor so it can be reused
func (e *editor) Commit() error {
	if e.empty() {
		return nil
	}
	pending := e.batch
	e.batch = batch{changes: make(map[string]change)}
	return e.commit(&pending)
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
