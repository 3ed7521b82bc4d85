package sync

import (
	"fmt"
	"strings"

	"github.com/webspiderteam/pinoutbot/pkg/records"
	"github.com/webspiderteam/pinoutbot/pkg/sources"
)

// Result represents the complete result of a sync operation.
type Result struct {
	Source sources.ID `json:"source" yaml:"source"` // Driver the candidates came from

	// Merge statistics
	Candidates   int                `json:"candidates" yaml:"candidates"`                 // Records fetched from the source
	Added        int                `json:"added" yaml:"added"`                           // Records appended to the collection
	Skipped      int                `json:"skipped" yaml:"skipped"`                       // Candidates already present
	AddedRecords []records.Record   `json:"added_records" yaml:"added_records"`           // Appended records in append order
	Rejected     []sources.Rejected `json:"rejected,omitempty" yaml:"rejected,omitempty"` // Malformed submissions skipped with SkipInvalid

	// Side effects
	Written   bool `json:"written" yaml:"written"`     // Collection file was rewritten
	Committed bool `json:"committed" yaml:"committed"` // A commit was created
	Pushed    bool `json:"pushed" yaml:"pushed"`       // Commits were pushed
	Released  bool `json:"released" yaml:"released"`   // Source.Commit ran after persisting

	// Operation metadata
	DryRun         bool   `json:"dry_run" yaml:"dry_run"`
	CollectionPath string `json:"collection_path" yaml:"collection_path"`
	CollectionSize int    `json:"collection_size" yaml:"collection_size"` // Records in the collection after merging
}

// HasChanges returns true if the sync added at least one record.
func (r *Result) HasChanges() bool {
	return r.Added > 0
}

// Summary returns a human-readable summary of the sync result.
func (r *Result) Summary() string {
	var parts []string
	if r.DryRun {
		parts = append(parts, "(Dry run)")
	}
	if len(r.Rejected) > 0 {
		parts = append(parts, fmt.Sprintf("(%d invalid skipped)", len(r.Rejected)))
	}

	summary := "No new pinouts to add"
	if r.HasChanges() {
		summary = fmt.Sprintf("%d new pinouts added, %d duplicates skipped", r.Added, r.Skipped)
	}
	if len(parts) > 0 {
		summary += " " + strings.Join(parts, " ")
	}
	return summary
}
