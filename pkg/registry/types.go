package registry

import (
	"reflect"
	"strings"
	"sync"

	"github.com/arthur-debert/coredroid/pkg/errors"
	"github.com/arthur-debert/coredroid/pkg/types"
)

// Factory returns a fresh zero value to decode a stored object into.
type Factory func() types.CoreObject

// Types maps type discriminators to factories, and Go types back to
// their canonical discriminator.
type Types struct {
	factories Registry[Factory]

	mu    sync.RWMutex
	names map[reflect.Type]string
}

// NewTypes creates an empty type registry
func NewTypes() *Types {
	return &Types{
		factories: New[Factory](),
		names:     make(map[reflect.Type]string),
	}
}

// RegisterType registers *T under its qualified Go name
// (import path, a dot, and the type name) and returns that name.
func RegisterType[T any, PT interface {
	*T
	types.CoreObject
}](r *Types) (string, error) {
	name := QualifiedName(reflect.TypeOf((*T)(nil)).Elem())
	return name, RegisterTypeAs[T, PT](r, name)
}

// RegisterTypeAs registers *T under an explicit discriminator. It may be
// called several times for the same type to accept legacy names; the first
// name registered is the one written on save.
func RegisterTypeAs[T any, PT interface {
	*T
	types.CoreObject
}](r *Types, name string) error {
	factory := func() types.CoreObject { return PT(new(T)) }
	if err := r.factories.Register(name, factory); err != nil {
		return err
	}

	rt := reflect.TypeOf((*T)(nil)).Elem()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.names[rt]; !exists {
		r.names[rt] = name
	}
	return nil
}

// MustRegisterType is RegisterType that panics on failure
func MustRegisterType[T any, PT interface {
	*T
	types.CoreObject
}](r *Types) string {
	name, err := RegisterType[T, PT](r)
	if err != nil {
		panic("failed to register type " + name + ": " + err.Error())
	}
	return name
}

// New returns a fresh instance of the type registered under name.
func (r *Types) New(name string) (types.CoreObject, error) {
	factory, err := r.factories.Get(name)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrUnknownType, "type %q is not registered", name).
			WithDetail("type", name)
	}
	return factory(), nil
}

// NameOf returns the canonical discriminator for obj's concrete type.
// Pointer and value forms of a registered type resolve to the same name.
func (r *Types) NameOf(obj types.CoreObject) (string, error) {
	rt := reflect.TypeOf(obj)
	if rt == nil {
		return "", errors.New(errors.ErrInvalidInput, "cannot name a nil object")
	}
	if rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}

	r.mu.RLock()
	name, ok := r.names[rt]
	r.mu.RUnlock()
	if !ok {
		return "", errors.Newf(errors.ErrUnknownType, "type %s is not registered", rt).
			WithDetail("type", rt.String())
	}
	return name, nil
}

// Has reports whether name is registered
func (r *Types) Has(name string) bool {
	return r.factories.Has(name)
}

// Names returns every registered discriminator, aliases included, sorted
func (r *Types) Names() []string {
	return r.factories.List()
}

// QualifiedName returns the import path and type name of rt, joined by a dot.
func QualifiedName(rt reflect.Type) string {
	if rt.PkgPath() == "" || rt.Name() == "" {
		return rt.String()
	}
	return rt.PkgPath() + "." + rt.Name()
}

// Resolve maps a user-supplied type name to a registered discriminator.
// Exact matches win; otherwise name is compared, ignoring case, with the
// part of each registered name after its last dot.
func (r *Types) Resolve(name string) (string, error) {
	if r.Has(name) {
		return name, nil
	}

	var matches []string
	for _, candidate := range r.Names() {
		short := candidate[strings.LastIndex(candidate, ".")+1:]
		if strings.EqualFold(short, name) {
			matches = append(matches, candidate)
		}
	}

	switch len(matches) {
	case 0:
		return "", errors.Newf(errors.ErrUnknownType, "type %q is not registered", name).
			WithDetail("type", name)
	case 1:
		return matches[0], nil
	default:
		return "", errors.Newf(errors.ErrInvalidInput, "type %q is ambiguous: %s", name, strings.Join(matches, ", ")).
			WithDetail("type", name).
			WithDetail("candidates", matches)
	}
}

// Canonical reports the name written on save for the type registered
// under name, which differs from name when name is an alias.
func (r *Types) Canonical(name string) (string, error) {
	obj, err := r.New(name)
	if err != nil {
		return "", err
	}
	return r.NameOf(obj)
}
