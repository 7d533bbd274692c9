package main

import (
	"fmt"
	"os"

	"github.com/fwojciec/useby"
	"golang.org/x/sync/errgroup"
)

// Run executes the scan command. Files are processed concurrently and
// printed in argument order, one JSON object per line.
func (c *ScanCmd) Run(deps *Dependencies) error {
	if deps.Recognizer == nil {
		err := useby.Errorf(useby.EUNAVAILABLE, "no OCR provider configured")
		fmt.Fprintf(deps.Stderr, "error: %s\n", useby.ErrorMessage(err))
		fmt.Fprintln(deps.Stderr, "Hint: set GOOGLE_VISION_API_KEY or use --ocr-provider=tesseract")
		return err
	}

	results := make([]datesOutput, len(c.Files))

	g, ctx := errgroup.WithContext(deps.Ctx)
	g.SetLimit(max(c.Concurrency, 1))
	for i, path := range c.Files {
		g.Go(func() error {
			out := datesOutput{File: path}
			defer func() { results[i] = out }()

			image, err := os.ReadFile(path)
			if err != nil {
				out.Error = err.Error()
				return nil
			}
			text, err := deps.Recognizer.RecognizeText(ctx, image)
			if err != nil {
				out.Error = useby.ErrorMessage(err)
				return nil
			}

			var res useby.ExtractionResult
			if c.RegexOnly {
				res = useby.ExtractDates(text)
			} else {
				res = deps.Extractor.Extract(ctx, text)
			}
			out = newDatesOutput(res)
			out.File = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var failed int
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
		if err := writeJSON(deps.Stdout, r); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}
