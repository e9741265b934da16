// Package testutil provides helpers shared by coredroid's tests.
//
// Key components:
//   - Backends: the storage backends every Preferences consumer is tested against
//   - FaultyPreferences: a Preferences wrapper that fails reads or commits on demand
//   - CreateFile: writes fixture files into temp dirs
//
// Test data should be defined inline, not in external files.
package testutil
