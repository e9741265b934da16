package datastore

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/arthur-debert/coredroid/pkg/errors"
	"github.com/arthur-debert/coredroid/pkg/types"
)

// Dump implements DataStore. Each partition is written as a header line
// followed by one tab-indented "key: value" line per raw entry, keys
// sorted. Values are the stored strings rendered as JSON, and type tags
// are listed like any other entry.
func (s *PreferencesDataStore) Dump(w io.Writer) error {
	var buf bytes.Buffer

	for i, p := range []types.Partition{types.PartitionPersistent, types.PartitionSession} {
		entries, err := s.partitions[p].All()
		if err != nil {
			return errors.Wrapf(err, errors.ErrRead, "failed to list %s partition", p)
		}

		if i > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(p.Title())
		buf.WriteString("\n")

		keys := make([]string, 0, len(entries))
		for k := range entries {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			rendered, err := encodeJSON(entries[k])
			if err != nil {
				return errors.Wrapf(err, errors.ErrEncode, "failed to render %q", k)
			}
			fmt.Fprintf(&buf, "\t%s: %s\n", k, rendered)
		}
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return errors.Wrap(err, errors.ErrDump, "failed to write dump")
	}
	return nil
}
