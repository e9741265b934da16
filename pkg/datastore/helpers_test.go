package datastore_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/coredroid/pkg/datastore"
	"github.com/arthur-debert/coredroid/pkg/registry"
	"github.com/arthur-debert/coredroid/pkg/testutil"
	"github.com/arthur-debert/coredroid/pkg/types"
)

type sessionToken struct {
	Token string `json:"token"`
	Count int    `json:"count"`
}

func (*sessionToken) IsPersistent() bool { return false }

type userSettings struct {
	Theme string   `json:"theme"`
	Tags  []string `json:"tags,omitempty"`
}

func (*userSettings) IsPersistent() bool { return true }

// movable switches partition depending on its own field
type movable struct {
	Keep bool   `json:"keep"`
	Note string `json:"note"`
}

func (m *movable) IsPersistent() bool { return m.Keep }

// unencodable carries a field encoding/json refuses
type unencodable struct {
	Ch chan int `json:"ch"`
}

func (*unencodable) IsPersistent() bool { return false }

type unregistered struct{}

func (*unregistered) IsPersistent() bool { return false }

func testTypes(t *testing.T) *registry.Types {
	t.Helper()
	reg := registry.NewTypes()
	require.NoError(t, registry.RegisterTypeAs[sessionToken](reg, "test.SessionToken"))
	require.NoError(t, registry.RegisterTypeAs[userSettings](reg, "test.UserSettings"))
	require.NoError(t, registry.RegisterTypeAs[movable](reg, "test.Movable"))
	require.NoError(t, registry.RegisterTypeAs[unencodable](reg, "test.Unencodable"))
	return reg
}

type fixture struct {
	store      *datastore.PreferencesDataStore
	session    types.Preferences
	persistent types.Preferences
}

func newFixture(t *testing.T, b testutil.Backend) fixture {
	t.Helper()
	s, p := b.OpenPair(t)
	return fixture{
		store:      datastore.New(s, p, testTypes(t)),
		session:    s,
		persistent: p,
	}
}

func memoryBackend() testutil.Backend {
	return testutil.Backends()[0]
}

func assertHas(t *testing.T, p types.Preferences, key string, want bool) {
	t.Helper()
	_, ok, err := p.GetString(key)
	require.NoError(t, err)
	require.Equal(t, want, ok, "presence of %q in %s", key, p.Name())
}
