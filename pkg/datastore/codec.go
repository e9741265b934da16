package datastore

import (
	"bytes"
	"encoding/json"
)

// encodeJSON renders v as two-space indented JSON. Markup characters are
// kept literal so stored payloads read the same as they were written.
func encodeJSON(v interface{}) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
