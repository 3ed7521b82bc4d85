// Package inspect provides the inspect command, an audit of the collection
// file for records that share an identity key.
package inspect

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/webspiderteam/pinoutbot/internal/cmd/application"
	"github.com/webspiderteam/pinoutbot/internal/cmd/output"
	"github.com/webspiderteam/pinoutbot/pkg/constants"
	"github.com/webspiderteam/pinoutbot/pkg/errors"
	"github.com/webspiderteam/pinoutbot/pkg/records"
)

// Report is the result of inspecting a collection.
type Report struct {
	Path            string  `json:"path" yaml:"path"`
	Records         int     `json:"records" yaml:"records"`
	DuplicateGroups [][]int `json:"duplicate_groups" yaml:"duplicate_groups"`
	Entries         []Entry `json:"entries,omitempty" yaml:"entries,omitempty"`
}

// Entry describes one record of the collection.
type Entry struct {
	Index       int      `json:"index" yaml:"index"`
	Fingerprint string   `json:"fingerprint" yaml:"fingerprint"`
	Fields      []string `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// Flags holds the inspect command flags.
type Flags struct {
	Records bool
	Strict  bool
}

// NewCommand creates the inspect command using app context.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Audit the collection for duplicate records",
		Args:  cobra.NoArgs,
		Long: `Inspect loads the collection file and reports its size and every group
of records that share an identity key, which can only happen when the
file was edited by hand. With --records every record is listed with a
short fingerprint of its key.`,
		Example: `  pinoutbot inspect
  pinoutbot inspect --records -o wide
  pinoutbot inspect --strict          # exit non-zero on duplicates`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Execute(cmd.Context(), app, flags, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&flags.Records, "records", false, "list every record with its key fingerprint")
	cmd.Flags().BoolVar(&flags.Strict, "strict", false, "fail when duplicate records are found")

	return cmd
}

// Execute inspects the configured collection and prints the report to w.
func Execute(_ context.Context, app application.Application, flags *Flags, w io.Writer) error {
	client, err := app.Client()
	if err != nil {
		return err
	}
	coll, err := client.Collection()
	if err != nil {
		return err
	}

	report := Build(client.CollectionPath(), coll, flags.Records)

	format := output.Format(app.OutputFormat())
	err = output.Print(w, format, report, func(wide bool) output.Data {
		return summaryTable(report)
	})
	if err != nil {
		return err
	}
	if flags.Records && (format == output.FormatTable || format == output.FormatWide || format == "") {
		data := output.RecordsToTableData(coll, constants.KeyDigestLength, format == output.FormatWide)
		if err := output.NewFormatter(format).Format(w, data); err != nil {
			return err
		}
	}

	if flags.Strict && len(report.DuplicateGroups) > 0 {
		return errors.NewValidationError("collection", report.Path,
			fmt.Sprintf("%d groups of duplicate records", len(report.DuplicateGroups)))
	}
	return nil
}

// Build creates the report for coll.
func Build(path string, coll records.Collection, withEntries bool) *Report {
	report := &Report{
		Path:            path,
		Records:         coll.Len(),
		DuplicateGroups: coll.Duplicates(),
	}
	if report.DuplicateGroups == nil {
		report.DuplicateGroups = [][]int{}
	}
	if withEntries {
		for i, rec := range coll {
			report.Entries = append(report.Entries, Entry{
				Index:       i,
				Fingerprint: rec.Digest(constants.KeyDigestLength),
				Fields:      rec.TopLevelKeys(),
			})
		}
	}
	return report
}

func summaryTable(r *Report) output.Data {
	rows := [][]string{
		{"Collection", r.Path},
		{"Records", strconv.Itoa(r.Records)},
		{"Duplicate Groups", strconv.Itoa(len(r.DuplicateGroups))},
	}
	for _, group := range r.DuplicateGroups {
		idx := make([]string, len(group))
		for i, n := range group {
			idx[i] = strconv.Itoa(n)
		}
		rows = append(rows, []string{"Duplicates", strings.Join(idx, ", ")})
	}
	return output.Data{
		Headers:         []string{"Property", "Value"},
		Rows:            rows,
		ColumnAlignment: []output.Align{output.AlignLeft, output.AlignLeft},
	}
}
