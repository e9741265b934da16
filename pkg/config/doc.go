// Package config loads coredroid's configuration.
//
// Sources are layered, later ones winning:
//
//  1. defaults embedded in the binary (embedded/defaults.toml)
//  2. the user's TOML config file, when present
//  3. COREDROID_<SECTION>_<KEY> environment variables,
//     e.g. COREDROID_STORE_BACKEND=sqlite
package config
