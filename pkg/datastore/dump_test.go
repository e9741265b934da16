// pkg/datastore/dump_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: in-memory preferences
// PURPOSE: Dump output format and sink failures

package datastore_test

import (
	"bytes"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/coredroid/pkg/datastore"
	"github.com/arthur-debert/coredroid/pkg/errors"
	"github.com/arthur-debert/coredroid/pkg/prefs"
	"github.com/arthur-debert/coredroid/pkg/testutil"
)

func TestDump_Empty(t *testing.T) {
	f := newFixture(t, memoryBackend())

	var buf bytes.Buffer
	require.NoError(t, f.store.Dump(&buf))
	assert.Equal(t, "Persistent\n\nSession\n", buf.String())
}

func TestDump_ListsRawEntries(t *testing.T) {
	f := newFixture(t, memoryBackend())
	require.NoError(t, f.store.Save("settings", &userSettings{Theme: "dark"}))
	require.NoError(t, f.store.Save("auth", &sessionToken{Token: "<abc>"}))

	var buf bytes.Buffer
	require.NoError(t, f.store.Dump(&buf))

	want := "Persistent\n" +
		"\tsettings: \"{\\n  \\\"theme\\\": \\\"dark\\\"\\n}\"\n" +
		"\tsettings-Class: \"test.UserSettings\"\n" +
		"\n" +
		"Session\n" +
		"\tauth: \"{\\n  \\\"token\\\": \\\"<abc>\\\",\\n  \\\"count\\\": 0\\n}\"\n" +
		"\tauth-Class: \"test.SessionToken\"\n"
	assert.Equal(t, want, buf.String())
}

func TestDump_IncludesCorruptEntries(t *testing.T) {
	f := newFixture(t, memoryBackend())
	require.NoError(t, f.session.Edit().PutString("orphan", "not json").Commit())

	var buf bytes.Buffer
	require.NoError(t, f.store.Dump(&buf))
	assert.Contains(t, buf.String(), "\torphan: \"not json\"\n")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, stderrors.New("broken pipe")
}

func TestDump_SinkFailure(t *testing.T) {
	f := newFixture(t, memoryBackend())
	require.NoError(t, f.store.Save("auth", &sessionToken{Token: "abc"}))

	err := f.store.Dump(failingWriter{})
	require.Error(t, err)
	assert.Equal(t, errors.ErrDump, errors.GetErrorCode(err))
}

func TestDump_ReadFailure(t *testing.T) {
	persistent := &testutil.FaultyPreferences{Preferences: prefs.NewMemory("PersistentPrefs"), FailRead: true}
	store := datastore.New(prefs.NewMemory("AppState"), persistent, testTypes(t))

	var buf bytes.Buffer
	err := store.Dump(&buf)
	assert.Equal(t, errors.ErrRead, errors.GetErrorCode(err))
	assert.Empty(t, buf.String())
}
