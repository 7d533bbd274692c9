package useby

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// maxNameWords is the number of words kept in a classified product name.
const maxNameWords = 3

// genericLabels are label descriptions too broad to name a product.
var genericLabels = map[string]struct{}{
	"food": {}, "fruit": {}, "vegetable": {}, "produce": {}, "dish": {},
	"ingredient": {}, "meat": {}, "seafood": {},
	"white": {}, "black": {}, "red": {}, "green": {}, "blue": {}, "yellow": {},
	"orange": {}, "purple": {}, "brown": {}, "gray": {}, "grey": {},
}

// ClassifyName picks a short product name from image annotations.
//
// The highest scoring label that is not a generic term wins. Without one,
// the first detected object is used, then the top label regardless of how
// generic it is. The name is cut to its first three words and title-cased.
func ClassifyName(labels, objects []Annotation) string {
	sorted := make([]Annotation, len(labels))
	copy(sorted, labels)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	var specific string
	for _, l := range sorted {
		d := strings.ToLower(l.Description)
		if d == "" {
			continue
		}
		if _, generic := genericLabels[d]; !generic {
			specific = l.Description
			break
		}
	}
	if specific == "" && len(objects) > 0 {
		specific = objects[0].Description
	}
	if specific == "" && len(sorted) > 0 {
		specific = sorted[0].Description
	}

	words := strings.FieldsFunc(specific, func(r rune) bool {
		return unicode.IsSpace(r) || r == '_'
	})
	if len(words) > maxNameWords {
		words = words[:maxNameWords]
	}
	return cases.Title(language.Und).String(strings.Join(words, " "))
}
