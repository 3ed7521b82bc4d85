package records_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webspiderteam/pinoutbot/pkg/records"
)

// recordEqual lets go-cmp compare records structurally.
var recordEqual = cmp.Comparer(func(a, b records.Record) bool { return a.Equal(b) })

func parseAll(t *testing.T, docs ...string) []records.Record {
	t.Helper()
	out := make([]records.Record, 0, len(docs))
	for _, d := range docs {
		r, err := records.ParseRecord([]byte(d), "test")
		require.NoError(t, err)
		out = append(out, r)
	}
	return out
}

func TestMerge_Scenarios(t *testing.T) {
	tests := []struct {
		name       string
		existing   []string
		candidates []string
		want       []string
		wantAdded  []string
		skipped    int
	}{
		{
			name:       "one new one duplicate",
			existing:   []string{`{"pins":3}`},
			candidates: []string{`{"pins":3}`, `{"pins":4}`},
			want:       []string{`{"pins":3}`, `{"pins":4}`},
			wantAdded:  []string{`{"pins":4}`},
			skipped:    1,
		},
		{
			name:       "intra-batch duplicates collapse",
			existing:   nil,
			candidates: []string{`{"x":1}`, `{"x":1}`},
			want:       []string{`{"x":1}`},
			wantAdded:  []string{`{"x":1}`},
			skipped:    1,
		},
		{
			name:       "key order does not matter",
			existing:   []string{`{"a":1,"b":2}`},
			candidates: []string{`{"b":2,"a":1}`},
			want:       []string{`{"a":1,"b":2}`},
			skipped:    1,
		},
		{
			name:       "different values are kept",
			existing:   []string{`{"a":1,"b":2}`},
			candidates: []string{`{"a":1,"b":3}`},
			want:       []string{`{"a":1,"b":2}`, `{"a":1,"b":3}`},
			wantAdded:  []string{`{"a":1,"b":3}`},
		},
		{
			name:       "nested key order does not matter",
			existing:   []string{`{"pins":[{"n":1,"label":"V+"}],"model":"A32"}`},
			candidates: []string{`{"model":"A32","pins":[{"label":"V+","n":1}]}`},
			want:       []string{`{"pins":[{"n":1,"label":"V+"}],"model":"A32"}`},
			skipped:    1,
		},
		{
			name:       "array order matters",
			existing:   []string{`{"pins":[1,2]}`},
			candidates: []string{`{"pins":[2,1]}`},
			want:       []string{`{"pins":[1,2]}`, `{"pins":[2,1]}`},
			wantAdded:  []string{`{"pins":[2,1]}`},
		},
		{
			name:       "subset of fields is not a duplicate",
			existing:   []string{`{"model":"A32","pins":7}`},
			candidates: []string{`{"model":"A32"}`},
			want:       []string{`{"model":"A32","pins":7}`, `{"model":"A32"}`},
			wantAdded:  []string{`{"model":"A32"}`},
		},
		{
			name:       "candidate order is kept",
			existing:   nil,
			candidates: []string{`{"n":3}`, `{"n":1}`, `{"n":2}`},
			want:       []string{`{"n":3}`, `{"n":1}`, `{"n":2}`},
			wantAdded:  []string{`{"n":3}`, `{"n":1}`, `{"n":2}`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			existing := records.Collection(parseAll(t, tt.existing...))
			result := records.Merge(existing, parseAll(t, tt.candidates...))

			if diff := cmp.Diff(records.Collection(parseAll(t, tt.want...)), result.Collection, recordEqual, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("collection mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, len(tt.wantAdded), result.Added)
			assert.Equal(t, tt.skipped, result.Skipped)
			if diff := cmp.Diff(parseAll(t, tt.wantAdded...), result.AddedRecords, recordEqual, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("added records mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMerge_Idempotent(t *testing.T) {
	existing := records.Collection(parseAll(t, `{"pins":3}`, `{"pins":5}`))
	candidates := parseAll(t, `{"pins":4}`, `{"pins":3}`, `{"pins":6}`, `{"pins":4}`)

	first := records.Merge(existing, candidates)
	require.Equal(t, 2, first.Added)

	second := records.Merge(first.Collection, candidates)
	assert.Equal(t, 0, second.Added)
	assert.Empty(t, second.AddedRecords)
	assert.False(t, second.HasChanges())
	if diff := cmp.Diff(first.Collection, second.Collection, recordEqual); diff != "" {
		t.Errorf("second merge changed the collection (-first +second):\n%s", diff)
	}
}

func TestMerge_PreservesPrefix(t *testing.T) {
	existing := records.Collection(parseAll(t, `{"b":1}`, `{"a":1}`, `{"c":[1,2,3]}`))
	result := records.Merge(existing, parseAll(t, `{"d":1}`, `{"a":1}`))

	require.GreaterOrEqual(t, result.Collection.Len(), existing.Len())
	if diff := cmp.Diff(existing, result.Collection[:existing.Len()], recordEqual); diff != "" {
		t.Errorf("prefix changed (-want +got):\n%s", diff)
	}
}

func TestMerge_EmptyCandidates(t *testing.T) {
	existing := records.Collection(parseAll(t, `{"pins":3}`))

	result := records.Merge(existing, nil)
	assert.Equal(t, 0, result.Added)
	assert.Equal(t, 0, result.Skipped)
	if diff := cmp.Diff(existing, result.Collection, recordEqual); diff != "" {
		t.Errorf("collection changed (-want +got):\n%s", diff)
	}
}

func TestMerge_DoesNotMutateExisting(t *testing.T) {
	backing := make(records.Collection, 1, 8)
	backing[0] = records.MustParse(`{"pins":3}`)

	result := records.Merge(backing, parseAll(t, `{"pins":4}`))
	require.Equal(t, 1, result.Added)

	assert.Equal(t, 1, backing.Len())
	extended := backing[:2]
	assert.True(t, extended[1].IsZero(), "merge wrote into the caller's backing array")
}

func TestMerge_Deterministic(t *testing.T) {
	existing := records.Collection(parseAll(t, `{"x":{"b":1,"a":2}}`))
	candidates := parseAll(t, `{"y":1}`, `{"x":{"a":2,"b":1}}`, `{"z":[{"k":"v"}]}`)

	a := records.Merge(existing, candidates)
	b := records.Merge(existing, candidates)

	outA, err := a.Collection.MarshalIndent()
	require.NoError(t, err)
	outB, err := b.Collection.MarshalIndent()
	require.NoError(t, err)
	assert.Equal(t, string(outA), string(outB))
}

func TestMerge_ReportsDuplicateIndexes(t *testing.T) {
	existing := records.Collection(parseAll(t, `{"pins":3}`))
	candidates := parseAll(t, `{"pins":3}`, `{"pins":4}`, `{"pins":4}`, `{"pins":5}`)

	result := records.Merge(existing, candidates)
	assert.Equal(t, []int{0, 2}, result.Duplicates)
	assert.Equal(t, 2, result.Added)
}
