package useby

import (
	"regexp"
	"strconv"
	"strings"
)

// Notes attached to dates whose day or month had to be assumed.
const (
	NoteYearMonth     = "assumed day=01 from year-month"
	NoteMonthYear     = "assumed day=01 from month-year"
	NoteMonthName     = "assumed day=01 from month name"
	NoteYearMonthName = "assumed day=01 from year + month name"
	NoteYearOnly      = "assumed 01-01 from year only"
)

const (
	sep   = `[-/.\s]`
	year  = `(20\d{2})`
	month = `(0?[1-9]|1[0-2])`
	day   = `(0?[1-9]|[12]\d|3[01])`
	mon   = `(Jan(?:uary)?|Feb(?:ruary|urary)?|Mar(?:ch)?|Apr(?:il)?|May|Jun(?:e)?|Jul(?:y)?|Aug(?:ust)?|Sep(?:t|tember)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?)`
)

var monthNames = map[string]int{
	"jan": 1, "january": 1,
	"feb": 2, "february": 2, "feburary": 2,
	"mar": 3, "march": 3,
	"apr": 4, "april": 4,
	"may": 5,
	"jun": 6, "june": 6,
	"jul": 7, "july": 7,
	"aug": 8, "august": 8,
	"sep": 9, "sept": 9, "september": 9,
	"oct": 10, "october": 10,
	"nov": 11, "november": 11,
	"dec": 12, "december": 12,
}

// dateRule is one step of the date grammar. Extract turns the submatches of
// pattern into a year, month and day; note is attached to every match.
type dateRule struct {
	pattern *regexp.Regexp
	extract func(m []string) (y, mo, d int)
	note    string
}

// dateRules is the grammar in priority order: full numeric dates, month-name
// dates, partial dates, then a bare year.
var dateRules = []dateRule{
	{
		pattern: regexp.MustCompile(`\b` + year + sep + month + sep + day + `\b`),
		extract: func(m []string) (int, int, int) { return atoi(m[1]), atoi(m[2]), atoi(m[3]) },
	},
	{
		pattern: regexp.MustCompile(`\b` + day + sep + month + sep + year + `\b`),
		extract: func(m []string) (int, int, int) { return atoi(m[3]), atoi(m[2]), atoi(m[1]) },
	},
	{
		pattern: regexp.MustCompile(`\b` + month + sep + day + sep + year + `\b`),
		extract: func(m []string) (int, int, int) { return atoi(m[3]), atoi(m[1]), atoi(m[2]) },
	},
	{
		pattern: regexp.MustCompile(`(?i)\b` + mon + `\.?\s+` + day + `[, ]+\s*` + year + `\b`),
		extract: func(m []string) (int, int, int) { return atoi(m[3]), monthNumber(m[1]), atoi(m[2]) },
	},
	{
		pattern: regexp.MustCompile(`(?i)\b` + day + `\s+` + mon + `\.?,?\s+` + year + `\b`),
		extract: func(m []string) (int, int, int) { return atoi(m[3]), monthNumber(m[2]), atoi(m[1]) },
	},
	{
		pattern: regexp.MustCompile(`(?i)\b` + year + `\s+` + mon + `\.?\s+` + day + `\b`),
		extract: func(m []string) (int, int, int) { return atoi(m[1]), monthNumber(m[2]), atoi(m[3]) },
	},
	{
		pattern: regexp.MustCompile(`\b` + year + sep + month + `\b`),
		extract: func(m []string) (int, int, int) { return atoi(m[1]), atoi(m[2]), 1 },
		note:    NoteYearMonth,
	},
	{
		pattern: regexp.MustCompile(`\b` + month + sep + year + `\b`),
		extract: func(m []string) (int, int, int) { return atoi(m[2]), atoi(m[1]), 1 },
		note:    NoteMonthYear,
	},
	{
		pattern: regexp.MustCompile(`(?i)\b` + mon + `\b[ ,.-]*` + year + `\b`),
		extract: func(m []string) (int, int, int) { return atoi(m[2]), monthNumber(m[1]), 1 },
		note:    NoteMonthName,
	},
	{
		pattern: regexp.MustCompile(`(?i)\b` + year + `\b[ ,.-]*` + mon + `\b`),
		extract: func(m []string) (int, int, int) { return atoi(m[1]), monthNumber(m[2]), 1 },
		note:    NoteYearMonthName,
	},
	{
		pattern: regexp.MustCompile(`\b` + year + `\b`),
		extract: func(m []string) (int, int, int) { return atoi(m[1]), 1, 1 },
		note:    NoteYearOnly,
	},
}

// MatchDate runs the date grammar over OCR text and returns the first date
// it recognizes. Rules are tried in priority order against their leftmost
// match only. A match that is not a real calendar date counts as no match and
// the next rule is tried, so a full date is never overridden by a partial one
// elsewhere in the text. It returns false when nothing matches.
func MatchDate(text string) (DateMatch, bool) {
	t := Normalize(text)
	if t == "" {
		return DateMatch{}, false
	}

	for _, r := range dateRules {
		m := r.pattern.FindStringSubmatch(t)
		if m == nil {
			continue
		}
		y, mo, d := r.extract(m)
		if iso, ok := ToISO(y, mo, d); ok {
			return DateMatch{ISO: iso, Note: r.note}, true
		}
	}
	return DateMatch{}, false
}

// ExtractDates is the deterministic, regex-only extraction. The grammar
// cannot tell which role a lone date plays on a label, so a match fills both
// ExpiryISO and BestBeforeISO and ProductionISO is always empty.
func ExtractDates(ocrText string) ExtractionResult {
	m, ok := MatchDate(ocrText)
	if !ok {
		return ExtractionResult{}
	}
	return ExtractionResult{
		ExpiryISO:     m.ISO,
		BestBeforeISO: m.ISO,
		Note:          m.Note,
	}
}

func monthNumber(name string) int {
	return monthNames[strings.TrimSuffix(strings.ToLower(name), ".")]
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
