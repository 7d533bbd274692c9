package extract

import "strings"

// SystemPrompt instructs the model to return the label dates as strict JSON,
// using the same partial-date policy as the regex grammar.
const SystemPrompt = `You extract product-related dates from OCR text.
Return strictly JSON with keys:
- product_name (string|null)
- production_date (YYYY-MM-DD|null)
- expiry_date (YYYY-MM-DD|null)
- best_before_date (YYYY-MM-DD|null)
- notes (string|null)
If the text only has a year-month (e.g., 2029/03 or Feb 2029), assume the first day of that month (YYYY-MM-01) and mention that in "notes".
If the text only has a year (e.g., 2029), assume 2029-01-01 and mention that in "notes".`

// maxPromptText caps the OCR text sent to the model.
const maxPromptText = 4000

// BuildUserPrompt wraps OCR text into the user message.
func BuildUserPrompt(ocrText string) string {
	var sb strings.Builder
	sb.WriteString("OCR text:\n\n")
	text := strings.TrimSpace(ocrText)
	if len(text) > maxPromptText {
		text = strings.ToValidUTF8(text[:maxPromptText], "")
	}
	sb.WriteString(text)
	return sb.String()
}
