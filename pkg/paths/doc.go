// Package paths provides centralized path handling for coredroid.
// It implements XDG Base Directory specification compliance and lets
// every directory be overridden through COREDROID_* environment variables.
package paths
