// Package prefs implements types.Preferences, the string key-value
// substrate that coredroid partitions are stored in.
//
// Three backends are provided:
//
//   - Memory keeps entries in a map and loses them on exit.
//   - XMLFile stores one partition per file using the shared_prefs layout
//     (<map><string name="key">value</string></map>).
//   - SQLite stores every partition as rows of a single table.
//
// All backends share the same editor, so batches behave identically: a
// Clear is applied first, then puts and removes, and the last change to a
// key inside a batch wins.
package prefs
