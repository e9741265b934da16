// Package filesystem provides implementations of types.FS.
//
// NewOS talks to the real filesystem; NewAferoFS adapts any afero.Fs and
// is what tests use with an in-memory backing.
package filesystem
