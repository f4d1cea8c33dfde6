package main

import (
	"fmt"
	"os"

	"github.com/water102/siteclone"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	result, err := deps.Extractor.Extract(string(data), c.BaseURL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", siteclone.ErrorMessage(err))
		return err
	}

	for _, ref := range result.StaticFiles {
		fmt.Fprintf(deps.Stdout, "%s  %s\n", ref.Type, ref.URL)
	}

	if c.Skipped {
		for _, ref := range result.SkippedFiles {
			fmt.Fprintf(deps.Stdout, "skipped  %s  %s (%s)\n", ref.Type, ref.URL, ref.Reason)
		}
	}

	return nil
}
