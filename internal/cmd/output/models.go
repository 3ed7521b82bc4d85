package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/webspiderteam/pinoutbot/internal/hosting"
	"github.com/webspiderteam/pinoutbot/pkg/records"
	"github.com/webspiderteam/pinoutbot/pkg/sync"
)

// Print writes data to w in format. Table formats render view when one is
// given, so commands control the columns; other formats encode data.
func Print(w io.Writer, format Format, data any, view func(wide bool) Data) error {
	formatter := NewFormatter(format)
	switch format {
	case FormatTable, FormatWide, "":
		if view != nil {
			return formatter.Format(w, view(format == FormatWide))
		}
	}
	return formatter.Format(w, data)
}

// SyncResultToTableData converts a sync result to a property table. The
// wide view also lists every appended record.
func SyncResultToTableData(r *sync.Result, wide bool) Data {
	rows := [][]string{
		{"Source", r.Source.String()},
		{"Candidates", strconv.Itoa(r.Candidates)},
		{"Added", strconv.Itoa(r.Added)},
		{"Duplicates", strconv.Itoa(r.Skipped)},
		{"Invalid", strconv.Itoa(len(r.Rejected))},
		{"Collection", fmt.Sprintf("%s (%d records)", r.CollectionPath, r.CollectionSize)},
		{"Written", yesNo(r.Written)},
		{"Committed", yesNo(r.Committed)},
		{"Pushed", yesNo(r.Pushed)},
		{"Dry Run", yesNo(r.DryRun)},
	}
	if wide {
		for i, rec := range r.AddedRecords {
			rows = append(rows, []string{fmt.Sprintf("Added #%d", i+1), truncate(rec.Key(), 80)})
		}
		for _, rej := range r.Rejected {
			rows = append(rows, []string{"Invalid", rej.Origin})
		}
	}
	return Data{
		Headers:         []string{"Property", "Value"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft},
	}
}

// AutoMergeReportToTableData converts an auto-merge report to one row per
// pull request. A skipped pass is a single explanatory row.
func AutoMergeReportToTableData(r *hosting.Report, wide bool) Data {
	headers := []string{"PR", "Title", "Branch", "Outcome", "Branch Deleted"}
	if wide {
		headers = append(headers, "Error")
	}
	if r.Skipped {
		return Data{Headers: []string{"Auto-merge"}, Rows: [][]string{{r.Summary()}}}
	}

	rows := make([][]string, 0, len(r.PullRequests))
	for _, pr := range r.PullRequests {
		row := []string{
			"#" + strconv.Itoa(pr.Number),
			truncate(pr.Title, 48),
			pr.Branch,
			string(pr.Outcome),
			yesNo(pr.BranchDeleted),
		}
		if wide {
			row = append(row, pr.Error)
		}
		rows = append(rows, row)
	}

	align := []Align{AlignRight, AlignLeft, AlignLeft, AlignLeft, AlignCenter}
	if wide {
		align = append(align, AlignLeft)
	}
	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// RecordsToTableData lists records with their key fingerprint. The wide view
// shows the compact canonical JSON instead of the top-level field names.
func RecordsToTableData(c records.Collection, digestLen int, wide bool) Data {
	headers := []string{"#", "Fingerprint", "Fields"}
	if wide {
		headers[2] = "Record"
	}
	rows := make([][]string, 0, c.Len())
	for i, rec := range c {
		detail := strings.Join(rec.TopLevelKeys(), ", ")
		if wide || detail == "" {
			detail = rec.Key()
		}
		rows = append(rows, []string{strconv.Itoa(i), rec.Digest(digestLen), truncate(detail, 80)})
	}
	return Data{
		Headers:         headers,
		Rows:            rows,
		ColumnAlignment: []Align{AlignRight, AlignLeft, AlignLeft},
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
