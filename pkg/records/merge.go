package records

// Result is the outcome of a merge.
type Result struct {
	// Collection is the existing collection followed by the accepted
	// candidates in candidate order.
	Collection Collection

	// Added is the number of accepted candidates.
	Added int

	// AddedRecords lists the accepted candidates in candidate order.
	AddedRecords []Record

	// Skipped is the number of candidates dropped as exact duplicates of a
	// record already present or of an earlier candidate.
	Skipped int

	// Duplicates holds the candidate indexes that were skipped.
	Duplicates []int
}

// HasChanges reports whether at least one candidate was accepted.
func (r Result) HasChanges() bool {
	return r.Added > 0
}

// Merge appends every candidate whose identity key is not yet present.
// It never mutates existing and is idempotent: merging the same candidates
// into the returned collection adds nothing.
func Merge(existing Collection, candidates []Record) Result {
	seen := existing.Keys()

	result := Result{
		Collection: make(Collection, len(existing), len(existing)+len(candidates)),
	}
	copy(result.Collection, existing)

	for i, candidate := range candidates {
		key := candidate.Key()
		if _, dup := seen[key]; dup {
			result.Skipped++
			result.Duplicates = append(result.Duplicates, i)
			continue
		}
		seen[key] = struct{}{}
		result.Collection = append(result.Collection, candidate)
		result.AddedRecords = append(result.AddedRecords, candidate)
		result.Added++
	}

	return result
}
