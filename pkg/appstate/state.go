package appstate

import (
	"context"
	"io"

	"github.com/arthur-debert/coredroid/pkg/datastore"
	"github.com/arthur-debert/coredroid/pkg/errors"
	"github.com/arthur-debert/coredroid/pkg/registry"
)

// State is the application state composition root.
type State struct {
	store   datastore.DataStore
	types   *registry.Types
	backend string
	closers []io.Closer
}

// New wraps an already constructed store. The caller keeps ownership of
// whatever backs it.
func New(store datastore.DataStore, reg *registry.Types) *State {
	return &State{store: store, types: reg}
}

// Store returns the DataStore
func (s *State) Store() datastore.DataStore {
	return s.store
}

// Types returns the registry that names and rebuilds stored objects
func (s *State) Types() *registry.Types {
	return s.types
}

// Backend returns the name of the backend opened by Bootstrap, or "" for
// states built with New.
func (s *State) Backend() string {
	return s.backend
}

// Close releases the resources opened by Bootstrap. It is safe to call
// more than once.
func (s *State) Close() error {
	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	s.closers = nil
	return first
}

type contextKey struct{}

// WithState returns a copy of ctx carrying s
func WithState(ctx context.Context, s *State) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the State carried by ctx. It fails with
// errors.ErrNotInitialized when the state has not been set up yet.
func FromContext(ctx context.Context) (*State, error) {
	if ctx != nil {
		if s, ok := ctx.Value(contextKey{}).(*State); ok && s != nil {
			return s, nil
		}
	}
	return nil, errors.New(errors.ErrNotInitialized, "application state accessed before startup completed")
}
