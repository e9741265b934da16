package types

// CoreObject is any application value that can be persisted by a DataStore.
// Implementations must round-trip through encoding/json.
type CoreObject interface {
	// IsPersistent selects the partition: true for persistent, false for session.
	IsPersistent() bool
}

// Partition names one of the two key-value namespaces.
type Partition string

const (
	// PartitionSession holds values that are cleared by DataStore.Clear.
	PartitionSession Partition = "session"

	// PartitionPersistent holds values that are never cleared by the store.
	PartitionPersistent Partition = "persistent"
)

// PartitionFor returns the partition an object is routed to.
func PartitionFor(obj CoreObject) Partition {
	if obj.IsPersistent() {
		return PartitionPersistent
	}
	return PartitionSession
}

// Other returns the opposite partition.
func (p Partition) Other() Partition {
	if p == PartitionPersistent {
		return PartitionSession
	}
	return PartitionPersistent
}

// Title returns the section header used in dumps.
func (p Partition) Title() string {
	switch p {
	case PartitionPersistent:
		return "Persistent"
	case PartitionSession:
		return "Session"
	default:
		return string(p)
	}
}
