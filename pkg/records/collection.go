package records

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/webspiderteam/pinoutbot/pkg/errors"
)

// Collection is the canonical, append-only sequence of records.
type Collection []Record

// ParseCollection decodes a top-level JSON array of records.
func ParseCollection(data []byte, origin string) (Collection, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, parseError(origin, data, err)
	}
	if items == nil {
		return nil, errors.NewParseError("json", origin, "expected a top-level array", nil)
	}

	c := make(Collection, 0, len(items))
	for i, item := range items {
		r, err := ParseRecord(item, fmt.Sprintf("%s[%d]", origin, i))
		if err != nil {
			return nil, err
		}
		c = append(c, r)
	}
	return c, nil
}

// Len returns the number of records.
func (c Collection) Len() int {
	return len(c)
}

// Clone returns a copy of the slice. Records are immutable and shared.
func (c Collection) Clone() Collection {
	out := make(Collection, len(c))
	copy(out, c)
	return out
}

// Keys returns the identity-key set of the collection.
func (c Collection) Keys() map[string]struct{} {
	keys := make(map[string]struct{}, len(c))
	for _, r := range c {
		keys[r.Key()] = struct{}{}
	}
	return keys
}

// Contains reports whether a structurally equal record is present.
func (c Collection) Contains(r Record) bool {
	for _, existing := range c {
		if existing.Equal(r) {
			return true
		}
	}
	return false
}

// Duplicates returns groups of indexes whose records share an identity key.
// Groups are ordered by their first index. A collection maintained only by
// Merge has none; hand edits can introduce them.
func (c Collection) Duplicates() [][]int {
	positions := make(map[string][]int)
	var order []string
	for i, r := range c {
		if _, seen := positions[r.Key()]; !seen {
			order = append(order, r.Key())
		}
		positions[r.Key()] = append(positions[r.Key()], i)
	}

	var groups [][]int
	for _, key := range order {
		if idx := positions[key]; len(idx) > 1 {
			groups = append(groups, idx)
		}
	}
	return groups
}

// MarshalIndent encodes the collection the way it is persisted: a top-level
// array, two-space indentation, UTF-8 with non-ASCII characters written
// literally, no HTML escaping and a trailing newline.
func (c Collection) MarshalIndent() ([]byte, error) {
	if c == nil {
		c = Collection{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return nil, errors.WrapParse("json", "", err)
	}
	return literalSeparators(buf.Bytes()), nil
}
