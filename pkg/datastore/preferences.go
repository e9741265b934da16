package datastore

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/coredroid/pkg/errors"
	"github.com/arthur-debert/coredroid/pkg/logging"
	"github.com/arthur-debert/coredroid/pkg/registry"
	"github.com/arthur-debert/coredroid/pkg/types"
)

// PreferencesDataStore implements DataStore on top of two Preferences,
// one per partition.
type PreferencesDataStore struct {
	partitions map[types.Partition]types.Preferences
	types      *registry.Types
	log        zerolog.Logger
}

var _ DataStore = (*PreferencesDataStore)(nil)

// Option configures a PreferencesDataStore
type Option func(*PreferencesDataStore)

// WithLogger replaces the default "datastore" component logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *PreferencesDataStore) {
		s.log = logger
	}
}

// New creates a PreferencesDataStore. session and persistent must be
// distinct; reg resolves type discriminators in both directions.
func New(session, persistent types.Preferences, reg *registry.Types, opts ...Option) *PreferencesDataStore {
	s := &PreferencesDataStore{
		partitions: map[types.Partition]types.Preferences{
			types.PartitionSession:    session,
			types.PartitionPersistent: persistent,
		},
		types: reg,
		log:   logging.GetLogger("datastore"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Preferences returns the substrate backing partition p
func (s *PreferencesDataStore) Preferences(p types.Partition) types.Preferences {
	return s.partitions[p]
}

// Types returns the registry used to name and rebuild objects
func (s *PreferencesDataStore) Types() *registry.Types {
	return s.types
}

// Save implements DataStore.
//
// The key is first evicted from the partition the object is not routed
// to, then value and type tag are committed together to the target
// partition. Between the two commits the key may briefly be absent, but
// it is never present in both partitions.
func (s *PreferencesDataStore) Save(key string, obj types.CoreObject) error {
	if err := validateKey(key); err != nil {
		return err
	}
	done := logging.LogOperationStart(s.log.With().Str("key", key).Logger(), "save")
	defer done()

	if isNil(obj) {
		return s.evictAll(key)
	}

	name, err := s.types.NameOf(obj)
	if err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("Refusing to save object of unregistered type")
		return errors.Wrapf(err, errors.ErrUnknownType, "cannot save %q", key).WithDetail("key", key)
	}

	payload, err := encodeJSON(obj)
	if err != nil {
		s.log.Error().Err(err).Str("key", key).Str("type", name).Msg("Failed to encode object")
		return errors.Wrapf(err, errors.ErrEncode, "failed to encode %q", key).
			WithDetail("key", key).
			WithDetail("type", name)
	}

	target := types.PartitionFor(obj)
	if err := s.evict(target.Other(), key); err != nil {
		return err
	}

	err = s.partitions[target].Edit().
		PutString(key, payload).
		PutString(key+ClassSuffix, name).
		Commit()
	if err != nil {
		s.log.Error().Err(err).Str("key", key).Str("partition", string(target)).Msg("Failed to commit object")
		return errors.Wrapf(err, errors.ErrCommit, "failed to save %q", key).
			WithDetail("key", key).
			WithDetail("partition", string(target))
	}

	s.log.Debug().Str("key", key).Str("partition", string(target)).Str("type", name).Msg("Saved object")
	return nil
}

// Get implements DataStore
func (s *PreferencesDataStore) Get(key string) (types.CoreObject, error) {
	res := s.Lookup(key)
	if res.Status != StatusFound {
		return nil, res.Err
	}
	return res.Object, nil
}

// Lookup is Get with the outcome spelled out. The session partition is
// searched first, then the persistent one.
func (s *PreferencesDataStore) Lookup(key string) Result {
	if err := validateKey(key); err != nil {
		return Result{Status: StatusNotFound, Err: err}
	}

	for _, p := range []types.Partition{types.PartitionSession, types.PartitionPersistent} {
		raw, ok, err := s.partitions[p].GetString(key)
		if err != nil {
			s.log.Error().Err(err).Str("key", key).Str("partition", string(p)).Msg("Failed to read entry")
			return Result{
				Status:    StatusUnavailable,
				Partition: p,
				Err:       errors.Wrapf(err, errors.ErrRead, "failed to read %q", key).WithDetail("key", key),
			}
		}
		if ok {
			return s.load(key, p, raw)
		}
	}

	return Result{
		Status: StatusNotFound,
		Err:    errors.Newf(errors.ErrNotFound, "no entry for %q", key).WithDetail("key", key),
	}
}

// load rebuilds the object whose payload raw was found in partition p
func (s *PreferencesDataStore) load(key string, p types.Partition, raw string) Result {
	res := Result{Status: StatusCorrupt, Partition: p}
	details := map[string]interface{}{"key": key, "partition": string(p)}

	name, ok, err := s.partitions[p].GetString(key + ClassSuffix)
	switch {
	case err != nil:
		s.log.Error().Err(err).Str("key", key).Str("partition", string(p)).Msg("Failed to read type tag")
		res.Status = StatusUnavailable
		res.Err = errors.Wrapf(err, errors.ErrRead, "failed to read type tag of %q", key).WithDetails(details)
		return res
	case !ok:
		s.log.Warn().Str("key", key).Str("partition", string(p)).Msg("Could not find type tag for entry")
		res.Err = errors.Newf(errors.ErrMissingTypeTag, "entry %q has no type tag", key).WithDetails(details)
		return res
	}
	res.TypeName = name
	details["type"] = name

	obj, err := s.types.New(name)
	if err != nil {
		s.log.Error().Err(err).
			Str("key", key).
			Str("type", name).
			Str("payload", raw).
			Msg("Could not find type for entry")
		res.Err = errors.Wrapf(err, errors.ErrUnknownType, "cannot load %q", key).WithDetails(details)
		return res
	}

	if err := json.Unmarshal([]byte(raw), obj); err != nil {
		s.log.Error().Err(err).
			Str("key", key).
			Str("type", name).
			Str("payload", raw).
			Msg("Discarding unreadable entry, state must be rebuilt")
		res.Err = errors.Wrapf(err, errors.ErrDecode, "failed to decode %q", key).WithDetails(details)
		return res
	}

	s.log.Debug().Str("key", key).Str("partition", string(p)).Str("type", name).Msg("Loaded object")
	res.Status = StatusFound
	res.Object = obj
	return res
}

// Clear implements DataStore
func (s *PreferencesDataStore) Clear() error {
	if err := s.partitions[types.PartitionSession].Edit().Clear().Commit(); err != nil {
		s.log.Error().Err(err).Msg("Failed to clear session partition")
		return errors.Wrap(err, errors.ErrCommit, "failed to clear session partition")
	}
	s.log.Debug().Msg("Cleared session partition")
	return nil
}

// evictAll removes key from both partitions, persistent first
func (s *PreferencesDataStore) evictAll(key string) error {
	for _, p := range []types.Partition{types.PartitionPersistent, types.PartitionSession} {
		if err := s.evict(p, key); err != nil {
			return err
		}
	}
	return nil
}

// evict removes key and its type tag from partition p. Nothing is
// committed when neither entry exists.
func (s *PreferencesDataStore) evict(p types.Partition, key string) error {
	prefs := s.partitions[p]

	present := false
	for _, k := range []string{key, key + ClassSuffix} {
		_, ok, err := prefs.GetString(k)
		if err != nil {
			return errors.Wrapf(err, errors.ErrRead, "failed to read %q", k).
				WithDetail("key", key).
				WithDetail("partition", string(p))
		}
		present = present || ok
	}
	if !present {
		return nil
	}

	if err := prefs.Edit().Remove(key).Remove(key + ClassSuffix).Commit(); err != nil {
		s.log.Error().Err(err).Str("key", key).Str("partition", string(p)).Msg("Failed to remove entry")
		return errors.Wrapf(err, errors.ErrCommit, "failed to remove %q", key).
			WithDetail("key", key).
			WithDetail("partition", string(p))
	}
	s.log.Debug().Str("key", key).Str("partition", string(p)).Msg("Removed entry")
	return nil
}

func validateKey(key string) error {
	if key == "" {
		return errors.New(errors.ErrInvalidInput, "key cannot be empty")
	}
	if strings.HasSuffix(key, ClassSuffix) {
		return errors.Newf(errors.ErrInvalidInput, "key %q ends with reserved suffix %q", key, ClassSuffix).
			WithDetail("key", key)
	}
	return nil
}

// isNil reports whether obj is nil or a typed nil pointer
func isNil(obj types.CoreObject) bool {
	if obj == nil {
		return true
	}
	v := reflect.ValueOf(obj)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice:
		return v.IsNil()
	default:
		return false
	}
}
