package main

import (
	"fmt"

	"github.com/fwojciec/useby"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	text, err := readText(c.File, deps.Stdin)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}

	var res useby.ExtractionResult
	if c.RegexOnly {
		res = useby.ExtractDates(text)
	} else {
		res = deps.Extractor.Extract(deps.Ctx, text)
	}
	return writeJSON(deps.Stdout, newDatesOutput(res))
}
