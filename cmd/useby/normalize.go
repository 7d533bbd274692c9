package main

import (
	"fmt"

	"github.com/fwojciec/useby"
)

// Run executes the normalize command.
func (c *NormalizeCmd) Run(deps *Dependencies) error {
	text, err := readText(c.File, deps.Stdin)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}
	fmt.Fprintln(deps.Stdout, useby.Normalize(text))
	return nil
}
