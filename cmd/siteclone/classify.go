package main

import (
	"fmt"
	"strings"
)

// Run executes the classify command.
func (c *ClassifyCmd) Run(deps *Dependencies) error {
	result := deps.Classifier.Classify(c.URL, c.Method)

	fmt.Fprintf(deps.Stdout, "%s  confidence=%.2f\n", result.Type, result.Confidence)
	if len(result.Reasons) > 0 {
		fmt.Fprintf(deps.Stdout, "  reasons: %s\n", strings.Join(result.Reasons, "; "))
	}
	if result.FileType != "" {
		fmt.Fprintf(deps.Stdout, "  file: type=%s ext=%s mime=%s\n",
			result.FileType, result.Extension, result.MIMEType)
	}

	return nil
}
