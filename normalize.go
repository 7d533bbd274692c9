package useby

import (
	"regexp"
	"strings"
)

var (
	dashReplacer = strings.NewReplacer(
		"‐", "-", "‑", "-", "‒", "-", "–", "-", "—", "-", "―", "-",
		"−", "-", "﹣", "-", "－", "-",
	)
	glyphReplacer = strings.NewReplacer(
		"·", ".", "•", ".", "∙", ".",
		"|", "1",
	)

	unicodeSpaceRe = regexp.MustCompile(`[\p{Z}\x{85}\x{FEFF}]`)
	multiSpaceRe   = regexp.MustCompile(`\s{2,}`)
	spacedYMDRe    = regexp.MustCompile(`\b(20\d{2})\s+(0?\d|1[0-2])\s+([0-3]?\d)\b`)
	spacedDMYRe    = regexp.MustCompile(`\b([0-3]?\d)\s+(0?\d|1[0-2])\s+(20\d{2})\b`)
)

// Normalize canonicalizes common OCR quirks so the date grammar only has to
// deal with one family of separators and digits. It is pure and idempotent.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	t := dashReplacer.Replace(raw)
	t = glyphReplacer.Replace(t)
	t = fixDigitConfusions(t)
	// No-break and thin spaces become plain spaces.
	t = unicodeSpaceRe.ReplaceAllString(t, " ")
	t = multiSpaceRe.ReplaceAllString(t, " ")
	t = strings.TrimSpace(t)

	// Y M D and D M Y separated by spaces become hyphenated.
	t = spacedYMDRe.ReplaceAllString(t, "$1-$2-$3")
	t = spacedDMYRe.ReplaceAllString(t, "$1-$2-$3")
	return t
}

// fixDigitConfusions rewrites O to 0 and l to 1 inside runs of O, l and
// digits that contain at least one digit. Words without digits are left alone.
func fixDigitConfusions(s string) string {
	b := []byte(s)
	changed := false
	for i := 0; i < len(b); {
		if !isConfusable(b[i]) {
			i++
			continue
		}
		j, digits := i, false
		for j < len(b) && isConfusable(b[j]) {
			if isDigit(b[j]) {
				digits = true
			}
			j++
		}
		if digits {
			for k := i; k < j; k++ {
				switch b[k] {
				case 'O':
					b[k], changed = '0', true
				case 'l':
					b[k], changed = '1', true
				}
			}
		}
		i = j
	}
	if !changed {
		return s
	}
	return string(b)
}

func isConfusable(c byte) bool { return c == 'O' || c == 'l' || isDigit(c) }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
