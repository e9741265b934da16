// Package types defines the core types and interfaces shared by coredroid's
// packages: the CoreObject contract for persisted values, the two storage
// partitions, and the key-value substrate (Preferences and Editor) that
// storage backends implement.
package types
