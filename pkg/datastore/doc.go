// Package datastore stores application objects under string keys in two
// partitions: session entries, which Clear discards, and persistent
// entries, which are never cleared by the store.
//
// Each object is written as two entries in the same partition and the same
// commit: the JSON encoding under the key itself, and the object's type
// discriminator under key + ClassSuffix. The discriminator is resolved
// through a registry.Types when the object is read back, so only
// registered types can be reconstructed.
package datastore
