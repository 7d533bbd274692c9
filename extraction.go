package useby

import "context"

// ExtractionResult holds the dates recognized on a product label. Empty
// strings mean the date was not found; JSON surfaces render them as null.
type ExtractionResult struct {
	ProductionISO string `json:"productionISO"`
	ExpiryISO     string `json:"expiryISO"`
	BestBeforeISO string `json:"bestBeforeISO"`
	Note          string `json:"note"`
}

// HasDate reports whether any of the three dates is set.
func (r ExtractionResult) HasDate() bool {
	return r.ProductionISO != "" || r.ExpiryISO != "" || r.BestBeforeISO != ""
}

// Fields is the structured reply of a language model asked to read a label.
type Fields struct {
	ProductName    string `json:"product_name"`
	ProductionDate string `json:"production_date"`
	ExpiryDate     string `json:"expiry_date"`
	BestBeforeDate string `json:"best_before_date"`
	Notes          string `json:"notes"`
}

// HasDate reports whether any of the three dates is set.
func (f Fields) HasDate() bool {
	return f.ProductionDate != "" || f.ExpiryDate != "" || f.BestBeforeDate != ""
}

// Backfill returns f with every empty date and the notes filled from r.
// Values already present in f always win.
func (f Fields) Backfill(r ExtractionResult) Fields {
	f.ProductionDate = firstNonEmpty(f.ProductionDate, r.ProductionISO)
	f.ExpiryDate = firstNonEmpty(f.ExpiryDate, r.ExpiryISO)
	f.BestBeforeDate = firstNonEmpty(f.BestBeforeDate, r.BestBeforeISO)
	f.Notes = firstNonEmpty(f.Notes, r.Note)
	return f
}

// Result converts the fields into an ExtractionResult.
func (f Fields) Result() ExtractionResult {
	return ExtractionResult{
		ProductionISO: f.ProductionDate,
		ExpiryISO:     f.ExpiryDate,
		BestBeforeISO: f.BestBeforeDate,
		Note:          f.Notes,
	}
}

// FieldsFromResult converts a regex result into Fields without a product name.
func FieldsFromResult(r ExtractionResult) Fields {
	return Fields{}.Backfill(r)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// DateExtractor runs the full extraction pipeline over OCR text. Neither
// method returns an error; provider failures degrade to the regex grammar.
type DateExtractor interface {
	// Extract runs the grammar first and consults the LLM only on a miss.
	Extract(ctx context.Context, ocrText string) ExtractionResult

	// Structure asks the LLM for the product name and dates, filling any
	// date it leaves empty from the grammar.
	Structure(ctx context.Context, ocrText string) Fields
}
