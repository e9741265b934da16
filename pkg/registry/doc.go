// Package registry provides a generic, thread-safe registry and, built on
// it, the type registry that maps stored type discriminators to factories.
//
// The type registry replaces loading classes by name: only types that were
// registered explicitly can be reconstructed from storage.
package registry
