package testutil

import (
	"github.com/arthur-debert/coredroid/pkg/errors"
	"github.com/arthur-debert/coredroid/pkg/types"
)

// FaultyPreferences wraps a Preferences and fails reads or commits while
// the matching flag is set
type FaultyPreferences struct {
	types.Preferences
	FailRead   bool
	FailCommit bool
}

func (f *FaultyPreferences) GetString(key string) (string, bool, error) {
	if f.FailRead {
		return "", false, errors.New(errors.ErrFileAccess, "disk unavailable")
	}
	return f.Preferences.GetString(key)
}

func (f *FaultyPreferences) All() (map[string]string, error) {
	if f.FailRead {
		return nil, errors.New(errors.ErrFileAccess, "disk unavailable")
	}
	return f.Preferences.All()
}

func (f *FaultyPreferences) Edit() types.Editor {
	return &faultyEditor{Editor: f.Preferences.Edit(), prefs: f}
}

type faultyEditor struct {
	types.Editor
	prefs *FaultyPreferences
}

func (e *faultyEditor) PutString(key, value string) types.Editor {
	e.Editor.PutString(key, value)
	return e
}

func (e *faultyEditor) Remove(key string) types.Editor {
	e.Editor.Remove(key)
	return e
}

func (e *faultyEditor) Clear() types.Editor {
	e.Editor.Clear()
	return e
}

func (e *faultyEditor) Commit() error {
	if e.prefs.FailCommit {
		return errors.New(errors.ErrFileWrite, "read-only storage")
	}
	return e.Editor.Commit()
}
