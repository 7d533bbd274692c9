package main

import (
	"fmt"
	"os"

	"github.com/fwojciec/useby"
)

// Run executes the name command.
func (c *NameCmd) Run(deps *Dependencies) error {
	if deps.Labeler == nil {
		err := useby.Errorf(useby.EUNAVAILABLE, "no label provider configured")
		fmt.Fprintf(deps.Stderr, "error: %s\n", useby.ErrorMessage(err))
		fmt.Fprintln(deps.Stderr, "Hint: set GOOGLE_VISION_API_KEY")
		return err
	}

	image, err := os.ReadFile(c.File)
	if err != nil {
		return err
	}
	labels, err := deps.Labeler.LabelImage(deps.Ctx, image)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", useby.ErrorMessage(err))
		return err
	}

	name := useby.ClassifyName(labels.Labels, labels.Objects)
	if name == "" {
		fmt.Fprintln(deps.Stderr, "no name found")
		return useby.Errorf(useby.ENOTFOUND, "no name found for %s", c.File)
	}
	fmt.Fprintln(deps.Stdout, name)
	return nil
}
