// Package objects holds the CoreObject types coredroid ships with.
//
// Credentials lives in the session partition and is dropped on logout
// (DataStore.Clear). Profile lives in the persistent partition.
package objects
