// Package records holds the pinout record model and the merge engine.
//
// A Record is an opaque JSON value. The package never looks at fields: the
// only operation it needs is the canonical serialization returned by
// Record.Key, which sorts object keys recursively and is used purely as a
// deduplication fingerprint.
//
// Merge is pure. It appends the candidates whose key is not yet present to a
// copy of the existing collection and reports what it accepted; reading
// submission files, writing the collection and any git operations are left to
// the caller.
//
// Example usage:
//
//	existing, _ := records.ParseCollection(data, "pinouts.json")
//	candidate, err := records.ParseRecord(raw, "submissions/pinout_42.json")
//	if err != nil {
//	    return err // *errors.ParseError
//	}
//	result := records.Merge(existing, []records.Record{candidate})
//	if result.Added > 0 {
//	    out, _ := result.Collection.MarshalIndent()
//	    // write out
//	}
package records
