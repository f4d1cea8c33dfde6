package main

import (
	"fmt"
	"os"

	"github.com/water102/siteclone"
)

// Run executes the clone command.
func (c *CloneCmd) Run(deps *Dependencies) error {
	req := &siteclone.CaptureRequest{
		URL:       c.URL,
		OutputDir: c.Output,
		Filename:  c.Filename,
		Cookies:   deps.Config.CookieList(),
		HTMLOnly:  c.HTMLOnly || c.HTMLFile != "",
	}

	if c.HTMLFile != "" {
		data, err := os.ReadFile(c.HTMLFile)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %v\n", err)
			return err
		}
		req.HTML = string(data)
	}

	progress := func(event siteclone.ProgressEvent) {
		switch event.Type {
		case siteclone.ProgressCookiesApplied:
			fmt.Fprintf(deps.Stdout, "  Applied %d cookies\n", event.CookiesApplied)
		case siteclone.ProgressResourceSkipped:
			fmt.Fprintf(deps.Stderr, "  skip %s: %s\n", event.URL, event.Reason)
		case siteclone.ProgressFinished:
			// Summary printed after the clone completes
		}
	}

	result, err := deps.Cloner.Clone(deps.Ctx, req, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", siteclone.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Saved %s\n", result.SavedFullPath)
	if !req.HTMLOnly {
		fmt.Fprintf(deps.Stdout, "  %d resources (%d downloaded, %d skipped), %d API calls, %d WS frames\n",
			result.Processed, result.Downloaded, result.Skipped, result.APICount, result.FrameCount)
	}

	return nil
}
