// pkg/datastore/datastore_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: in-memory, XML (afero) and SQLite preferences
// PURPOSE: Save/Get/Clear semantics of PreferencesDataStore on every backend

package datastore_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/coredroid/pkg/datastore"
	"github.com/arthur-debert/coredroid/pkg/errors"
	"github.com/arthur-debert/coredroid/pkg/filesystem"
	"github.com/arthur-debert/coredroid/pkg/prefs"
	"github.com/arthur-debert/coredroid/pkg/registry"
	"github.com/arthur-debert/coredroid/pkg/testutil"
	"github.com/arthur-debert/coredroid/pkg/types"
)

func TestPreferencesDataStore_RoundTrip(t *testing.T) {
	for _, b := range testutil.Backends() {
		t.Run(b.Name, func(t *testing.T) {
			f := newFixture(t, b)

			require.NoError(t, f.store.Save("auth", &sessionToken{Token: "abc", Count: 2}))
			require.NoError(t, f.store.Save("settings", &userSettings{Theme: "dark", Tags: []string{"a", "b"}}))

			got, err := f.store.Get("auth")
			require.NoError(t, err)
			assert.Equal(t, &sessionToken{Token: "abc", Count: 2}, got)

			got, err = f.store.Get("settings")
			require.NoError(t, err)
			assert.Equal(t, &userSettings{Theme: "dark", Tags: []string{"a", "b"}}, got)
		})
	}
}

func TestPreferencesDataStore_Routing(t *testing.T) {
	for _, b := range testutil.Backends() {
		t.Run(b.Name, func(t *testing.T) {
			f := newFixture(t, b)

			require.NoError(t, f.store.Save("auth", &sessionToken{Token: "abc"}))
			require.NoError(t, f.store.Save("settings", &userSettings{Theme: "dark"}))

			assertHas(t, f.session, "auth", true)
			assertHas(t, f.session, "auth"+datastore.ClassSuffix, true)
			assertHas(t, f.persistent, "auth", false)

			assertHas(t, f.persistent, "settings", true)
			assertHas(t, f.persistent, "settings"+datastore.ClassSuffix, true)
			assertHas(t, f.session, "settings", false)

			tag, _, err := f.session.GetString("auth-Class")
			require.NoError(t, err)
			assert.Equal(t, "test.SessionToken", tag)
		})
	}
}

func TestPreferencesDataStore_PayloadIsIndentedJSON(t *testing.T) {
	f := newFixture(t, memoryBackend())
	require.NoError(t, f.store.Save("auth", &sessionToken{Token: "abc", Count: 1}))

	raw, ok, err := f.session.GetString("auth")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "{\n  \"token\": \"abc\",\n  \"count\": 1\n}", raw)
}

func TestPreferencesDataStore_PayloadKeepsMarkupLiteral(t *testing.T) {
	for _, b := range testutil.Backends() {
		t.Run(b.Name, func(t *testing.T) {
			f := newFixture(t, b)
			require.NoError(t, f.store.Save("auth", &sessionToken{Token: "<a&b>"}))

			raw, ok, err := f.session.GetString("auth")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, "{\n  \"token\": \"<a&b>\",\n  \"count\": 0\n}", raw)

			got, err := f.store.Get("auth")
			require.NoError(t, err)
			assert.Equal(t, &sessionToken{Token: "<a&b>"}, got)
		})
	}
}

func TestPreferencesDataStore_KeyMovesBetweenPartitions(t *testing.T) {
	for _, b := range testutil.Backends() {
		t.Run(b.Name, func(t *testing.T) {
			f := newFixture(t, b)

			require.NoError(t, f.store.Save("item", &movable{Keep: true, Note: "first"}))
			assertHas(t, f.persistent, "item", true)

			require.NoError(t, f.store.Save("item", &movable{Keep: false, Note: "second"}))
			assertHas(t, f.persistent, "item", false)
			assertHas(t, f.persistent, "item-Class", false)
			assertHas(t, f.session, "item", true)
			assertHas(t, f.session, "item-Class", true)

			got, err := f.store.Get("item")
			require.NoError(t, err)
			assert.Equal(t, &movable{Keep: false, Note: "second"}, got)

			// Clearing the session must not resurrect the stale persistent copy
			require.NoError(t, f.store.Clear())
			_, err = f.store.Get("item")
			assert.True(t, errors.IsNotFound(err))
		})
	}
}

func TestPreferencesDataStore_Overwrite(t *testing.T) {
	f := newFixture(t, memoryBackend())

	require.NoError(t, f.store.Save("auth", &sessionToken{Token: "one"}))
	require.NoError(t, f.store.Save("auth", &sessionToken{Token: "two"}))

	got, err := f.store.Get("auth")
	require.NoError(t, err)
	assert.Equal(t, "two", got.(*sessionToken).Token)
}

func TestPreferencesDataStore_SaveNilDeletes(t *testing.T) {
	tests := []struct {
		name string
		obj  types.CoreObject
	}{
		{name: "untyped_nil", obj: nil},
		{name: "typed_nil_pointer", obj: (*sessionToken)(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, memoryBackend())
			require.NoError(t, f.store.Save("auth", &sessionToken{Token: "abc"}))
			require.NoError(t, f.store.Save("settings", &userSettings{Theme: "dark"}))

			require.NoError(t, f.store.Save("auth", tt.obj))
			require.NoError(t, f.store.Save("settings", tt.obj))

			for _, p := range []types.Preferences{f.session, f.persistent} {
				all, err := p.All()
				require.NoError(t, err)
				assert.Empty(t, all)
			}

			_, err := f.store.Get("auth")
			assert.True(t, errors.IsNotFound(err))
		})
	}
}

func TestPreferencesDataStore_SaveNilOnAbsentKey(t *testing.T) {
	f := newFixture(t, memoryBackend())
	assert.NoError(t, f.store.Save("never-saved", nil))
}

func TestPreferencesDataStore_InvalidKeys(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{name: "empty", key: ""},
		{name: "reserved_suffix", key: "auth-Class"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, memoryBackend())

			err := f.store.Save(tt.key, &sessionToken{})
			assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

			_, err = f.store.Get(tt.key)
			assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

			all, err := f.session.All()
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}
}

func TestPreferencesDataStore_SaveUnregisteredType(t *testing.T) {
	f := newFixture(t, memoryBackend())

	err := f.store.Save("x", &unregistered{})
	require.Error(t, err)
	assert.Equal(t, errors.ErrUnknownType, errors.GetErrorCode(err))

	assertHas(t, f.session, "x", false)
	assertHas(t, f.persistent, "x", false)
}

func TestPreferencesDataStore_SaveEncodeFailure(t *testing.T) {
	f := newFixture(t, memoryBackend())
	require.NoError(t, f.store.Save("x", &sessionToken{Token: "keep"}))

	err := f.store.Save("x", &unencodable{Ch: make(chan int)})
	require.Error(t, err)
	assert.Equal(t, errors.ErrEncode, errors.GetErrorCode(err))

	got, err := f.store.Get("x")
	require.NoError(t, err)
	assert.Equal(t, "keep", got.(*sessionToken).Token)
}

func TestPreferencesDataStore_GetMissing(t *testing.T) {
	for _, b := range testutil.Backends() {
		t.Run(b.Name, func(t *testing.T) {
			f := newFixture(t, b)

			obj, err := f.store.Get("nothing")
			assert.Nil(t, obj)
			assert.True(t, errors.IsNotFound(err))
			assert.False(t, datastore.IsCorrupt(err))
		})
	}
}

func TestPreferencesDataStore_CorruptEntries(t *testing.T) {
	tests := []struct {
		name     string
		entries  map[string]string
		wantCode errors.ErrorCode
		wantType string
	}{
		{
			name:     "missing_type_tag",
			entries:  map[string]string{"auth": `{"token":"abc"}`},
			wantCode: errors.ErrMissingTypeTag,
		},
		{
			name:     "unknown_type",
			entries:  map[string]string{"auth": `{"token":"abc"}`, "auth-Class": "com.example.Gone"},
			wantCode: errors.ErrUnknownType,
			wantType: "com.example.Gone",
		},
		{
			name:     "malformed_payload",
			entries:  map[string]string{"auth": `{"token":`, "auth-Class": "test.SessionToken"},
			wantCode: errors.ErrDecode,
			wantType: "test.SessionToken",
		},
		{
			name:     "payload_type_mismatch",
			entries:  map[string]string{"auth": `{"count":"many"}`, "auth-Class": "test.SessionToken"},
			wantCode: errors.ErrDecode,
			wantType: "test.SessionToken",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, memoryBackend())
			ed := f.session.Edit()
			for k, v := range tt.entries {
				ed.PutString(k, v)
			}
			require.NoError(t, ed.Commit())

			res := f.store.Lookup("auth")
			assert.Equal(t, datastore.StatusCorrupt, res.Status)
			assert.Equal(t, types.PartitionSession, res.Partition)
			assert.Equal(t, tt.wantType, res.TypeName)
			assert.Nil(t, res.Object)
			assert.Equal(t, tt.wantCode, errors.GetErrorCode(res.Err))

			obj, err := f.store.Get("auth")
			assert.Nil(t, obj)
			assert.True(t, datastore.IsCorrupt(err))
			assert.False(t, errors.IsNotFound(err))
		})
	}
}

func TestPreferencesDataStore_TagReadFromValuePartition(t *testing.T) {
	f := newFixture(t, memoryBackend())

	// Value in session, tag only in persistent: the tag must not be borrowed
	require.NoError(t, f.session.Edit().PutString("auth", `{"token":"abc"}`).Commit())
	require.NoError(t, f.persistent.Edit().PutString("auth-Class", "test.SessionToken").Commit())

	res := f.store.Lookup("auth")
	assert.Equal(t, datastore.StatusCorrupt, res.Status)
	assert.Equal(t, errors.ErrMissingTypeTag, errors.GetErrorCode(res.Err))
}

func TestPreferencesDataStore_SessionWinsOnConflict(t *testing.T) {
	f := newFixture(t, memoryBackend())

	require.NoError(t, f.session.Edit().
		PutString("k", `{"token":"session"}`).
		PutString("k-Class", "test.SessionToken").
		Commit())
	require.NoError(t, f.persistent.Edit().
		PutString("k", `{"theme":"persistent"}`).
		PutString("k-Class", "test.UserSettings").
		Commit())

	res := f.store.Lookup("k")
	require.Equal(t, datastore.StatusFound, res.Status)
	assert.Equal(t, types.PartitionSession, res.Partition)
	assert.Equal(t, "session", res.Object.(*sessionToken).Token)
}

func TestPreferencesDataStore_ToleratesUnknownFields(t *testing.T) {
	f := newFixture(t, memoryBackend())
	require.NoError(t, f.session.Edit().
		PutString("auth", `{"token":"abc","legacy_field":true}`).
		PutString("auth-Class", "test.SessionToken").
		Commit())

	got, err := f.store.Get("auth")
	require.NoError(t, err)
	assert.Equal(t, &sessionToken{Token: "abc"}, got)
}

func TestPreferencesDataStore_AliasResolvesOnRead(t *testing.T) {
	s, p := prefs.NewMemory("AppState"), prefs.NewMemory("PersistentPrefs")
	reg := testTypes(t)
	require.NoError(t, registry.RegisterTypeAs[sessionToken](reg, "com.example.LegacyToken"))
	store := datastore.New(s, p, reg)

	require.NoError(t, s.Edit().
		PutString("auth", `{"token":"old"}`).
		PutString("auth-Class", "com.example.LegacyToken").
		Commit())

	got, err := store.Get("auth")
	require.NoError(t, err)
	assert.Equal(t, "old", got.(*sessionToken).Token)

	// Re-saving writes the canonical name
	require.NoError(t, store.Save("auth", got))
	tag, _, err := s.GetString("auth-Class")
	require.NoError(t, err)
	assert.Equal(t, "test.SessionToken", tag)
}

func TestPreferencesDataStore_Clear(t *testing.T) {
	for _, b := range testutil.Backends() {
		t.Run(b.Name, func(t *testing.T) {
			f := newFixture(t, b)
			require.NoError(t, f.store.Save("auth", &sessionToken{Token: "abc"}))
			require.NoError(t, f.store.Save("settings", &userSettings{Theme: "dark"}))

			require.NoError(t, f.store.Clear())

			_, err := f.store.Get("auth")
			assert.True(t, errors.IsNotFound(err))

			got, err := f.store.Get("settings")
			require.NoError(t, err)
			assert.Equal(t, "dark", got.(*userSettings).Theme)

			// Idempotent
			require.NoError(t, f.store.Clear())
			all, err := f.session.All()
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}
}

func TestPreferencesDataStore_SubstrateFailures(t *testing.T) {
	t.Run("read_failure_is_unavailable", func(t *testing.T) {
		session := &testutil.FaultyPreferences{Preferences: prefs.NewMemory("AppState"), FailRead: true}
		store := datastore.New(session, prefs.NewMemory("PersistentPrefs"), testTypes(t))

		res := store.Lookup("auth")
		assert.Equal(t, datastore.StatusUnavailable, res.Status)
		assert.Equal(t, errors.ErrRead, errors.GetErrorCode(res.Err))
		assert.False(t, datastore.IsCorrupt(res.Err))
	})

	t.Run("commit_failure_on_save", func(t *testing.T) {
		session := &testutil.FaultyPreferences{Preferences: prefs.NewMemory("AppState"), FailCommit: true}
		store := datastore.New(session, prefs.NewMemory("PersistentPrefs"), testTypes(t))

		err := store.Save("auth", &sessionToken{Token: "abc"})
		assert.Equal(t, errors.ErrCommit, errors.GetErrorCode(err))

		_, err = store.Get("auth")
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("commit_failure_on_clear", func(t *testing.T) {
		session := &testutil.FaultyPreferences{Preferences: prefs.NewMemory("AppState"), FailCommit: true}
		store := datastore.New(session, prefs.NewMemory("PersistentPrefs"), testTypes(t))

		assert.Equal(t, errors.ErrCommit, errors.GetErrorCode(store.Clear()))
	})

	t.Run("eviction_failure_keeps_target_untouched", func(t *testing.T) {
		persistent := &testutil.FaultyPreferences{Preferences: prefs.NewMemory("PersistentPrefs")}
		session := prefs.NewMemory("AppState")
		store := datastore.New(session, persistent, testTypes(t))

		require.NoError(t, store.Save("item", &movable{Keep: true}))
		persistent.FailCommit = true

		err := store.Save("item", &movable{Keep: false})
		assert.Equal(t, errors.ErrCommit, errors.GetErrorCode(err))
		assertHas(t, session, "item", false)

		got, err := store.Get("item")
		require.NoError(t, err)
		assert.True(t, got.(*movable).Keep)
	})
}

func TestPreferencesDataStore_ReopenXML(t *testing.T) {
	fs := filesystem.NewMemFS()
	open := func() *datastore.PreferencesDataStore {
		s, err := prefs.OpenXML(fs, "/data/shared_prefs", "AppState")
		require.NoError(t, err)
		p, err := prefs.OpenXML(fs, "/data/shared_prefs", "PersistentPrefs")
		require.NoError(t, err)
		return datastore.New(s, p, testTypes(t))
	}

	require.NoError(t, open().Save("settings", &userSettings{Theme: "dark"}))
	require.NoError(t, open().Save("auth", &sessionToken{Token: "abc"}))

	store := open()
	got, err := store.Get("settings")
	require.NoError(t, err)
	assert.Equal(t, "dark", got.(*userSettings).Theme)

	got, err = store.Get("auth")
	require.NoError(t, err)
	assert.Equal(t, "abc", got.(*sessionToken).Token)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "not-found", datastore.StatusNotFound.String())
	assert.Equal(t, "found", datastore.StatusFound.String())
	assert.Equal(t, "corrupt", datastore.StatusCorrupt.String())
	assert.Equal(t, "unavailable", datastore.StatusUnavailable.String())
	assert.Equal(t, "unknown", datastore.Status(42).String())
}

func TestIsCorrupt(t *testing.T) {
	assert.True(t, datastore.IsCorrupt(errors.New(errors.ErrDecode, "x")))
	assert.True(t, datastore.IsCorrupt(errors.New(errors.ErrMissingTypeTag, "x")))
	assert.True(t, datastore.IsCorrupt(errors.New(errors.ErrUnknownType, "x")))
	assert.False(t, datastore.IsCorrupt(errors.New(errors.ErrNotFound, "x")))
	assert.False(t, datastore.IsCorrupt(nil))
	assert.False(t, datastore.IsCorrupt(&json.SyntaxError{}))
}
