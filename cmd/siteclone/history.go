package main

import (
	"fmt"
	"time"

	"github.com/water102/siteclone"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	if c.Delete != "" {
		if err := deps.History.DeleteRecord(deps.Ctx, c.Delete); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", siteclone.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Deleted record %s\n", c.Delete)
		return nil
	}

	filter := siteclone.CloneRecordFilter{Limit: c.Limit}
	if c.URL != "" {
		filter.TargetURL = &c.URL
	}

	records, err := deps.History.FindRecords(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", siteclone.ErrorMessage(err))
		return err
	}

	if len(records) == 0 {
		fmt.Fprintln(deps.Stdout, "No clone runs recorded. Use 'siteclone clone' to create one.")
		return nil
	}

	for _, rec := range records {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %d/%d/%d  %s\n",
			rec.ID, rec.CreatedAt.Format(time.RFC3339), rec.TargetURL,
			rec.Processed, rec.Downloaded, rec.Skipped, rec.Duration.Round(time.Millisecond))
	}

	return nil
}
