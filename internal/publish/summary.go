package publish

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
)

// WriteSummary prints the run tally as a table.
func WriteSummary(w io.Writer, res *Result) error {
	table := tablewriter.NewTable(w)
	table.Header("Outcome", "Pages")

	rows := [][]any{
		{"Updated", fmt.Sprintf("%d", res.Updated)},
		{"Unchanged", fmt.Sprintf("%d", res.Unchanged)},
		{"Skipped", fmt.Sprintf("%d", res.Skipped)},
		{"Failed", fmt.Sprintf("%d", res.Failed)},
	}
	for _, row := range rows {
		if err := table.Append(row...); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	for _, page := range res.FailedPages {
		if _, err := fmt.Fprintf(w, "failed: %s\n", page); err != nil {
			return err
		}
	}
	return nil
}
