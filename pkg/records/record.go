package records

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"

	"github.com/webspiderteam/pinoutbot/pkg/errors"
)

// Record is one submitted pinout. It keeps the submitted key order for
// persistence and the decoded tree for comparison.
type Record struct {
	raw   []byte
	value any
	key   string
}

// ParseRecord decodes a single JSON value. origin names the source (a file
// path or an API position) and is carried in the returned *errors.ParseError.
func ParseRecord(data []byte, origin string) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		if err == io.EOF {
			return Record{}, errors.NewParseError("json", origin, "empty document", err)
		}
		return Record{}, parseError(origin, data, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		if err != nil {
			return Record{}, parseError(origin, data, err)
		}
		return Record{}, errors.NewParseError("json", origin, "unexpected data after top-level value", nil)
	}

	raw, err := normalize(data)
	if err != nil {
		return Record{}, parseError(origin, data, err)
	}

	return Record{raw: raw, value: value, key: canonical(value)}, nil
}

// NewRecord builds a record from a Go value by encoding it to JSON first.
func NewRecord(v any) (Record, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Record{}, errors.WrapParse("json", "", err)
	}
	return ParseRecord(data, "")
}

// MustParse is like ParseRecord but panics on malformed input. It is meant
// for literals in tests and examples.
func MustParse(s string) Record {
	r, err := ParseRecord([]byte(s), "")
	if err != nil {
		panic(err)
	}
	return r
}

// Key returns the canonical serialization used as the identity key.
func (r Record) Key() string {
	return r.key
}

// Digest returns a short hex fingerprint of Key, for display only.
func (r Record) Digest(n int) string {
	sum := sha256.Sum256([]byte(r.key))
	d := hex.EncodeToString(sum[:])
	if n > 0 && n < len(d) {
		return d[:n]
	}
	return d
}

// Value returns the decoded tree. Numbers are json.Number.
func (r Record) Value() any {
	return r.value
}

// Raw returns the compact JSON of the record in submitted key order.
func (r Record) Raw() []byte {
	return bytes.Clone(r.raw)
}

// IsZero reports whether r was never parsed.
func (r Record) IsZero() bool {
	return r.raw == nil
}

// Equal reports structural equality, ignoring object key order.
func (r Record) Equal(other Record) bool {
	return r.key == other.key && r.IsZero() == other.IsZero()
}

// String returns the compact JSON form.
func (r Record) String() string {
	if r.IsZero() {
		return "null"
	}
	return string(r.raw)
}

// MarshalJSON implements json.Marshaler.
func (r Record) MarshalJSON() ([]byte, error) {
	if r.IsZero() {
		return []byte("null"), nil
	}
	return bytes.Clone(r.raw), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Record) UnmarshalJSON(data []byte) error {
	parsed, err := ParseRecord(data, "")
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// TopLevelKeys returns the object keys of the record in submitted order, or
// nil when the record is not an object.
func (r Record) TopLevelKeys() []string {
	if _, ok := r.value.(map[string]any); !ok {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(r.raw))
	if _, err := dec.Token(); err != nil {
		return nil
	}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return keys
		}
		name, _ := tok.(string)
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return keys
		}
		keys = append(keys, name)
	}
	return keys
}

// parseError converts a decoder error into a ParseError, adding the line and
// column when the decoder reported an offset.
func parseError(origin string, data []byte, err error) error {
	pe := errors.NewParseError("json", origin, err.Error(), err)
	if se, ok := err.(*json.SyntaxError); ok {
		pe.Line, pe.Column = position(data, se.Offset)
	}
	return pe
}

func position(data []byte, offset int64) (line, col int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	line = 1
	col = 1
	for _, b := range data[:offset] {
		if b == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}
