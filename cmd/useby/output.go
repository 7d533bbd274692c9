package main

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/fwojciec/useby"
)

// datesOutput is the JSON printed for one extraction. Missing values are null.
type datesOutput struct {
	File              string  `json:"file,omitempty"`
	ProductionDateISO *string `json:"productionDateISO"`
	ExpiryDateISO     *string `json:"expiryDateISO"`
	BestBeforeDateISO *string `json:"bestBeforeDateISO"`
	Notes             *string `json:"notes"`
	Error             string  `json:"error,omitempty"`
}

func newDatesOutput(r useby.ExtractionResult) datesOutput {
	return datesOutput{
		ProductionDateISO: nullable(r.ProductionISO),
		ExpiryDateISO:     nullable(r.ExpiryISO),
		BestBeforeDateISO: nullable(r.BestBeforeISO),
		Notes:             nullable(r.Note),
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// readText returns the contents of path, or of stdin when path is empty.
func readText(path string, stdin io.Reader) (string, error) {
	var b []byte
	var err error
	if path == "" {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
