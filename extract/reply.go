package extract

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/fwojciec/useby"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Reply keys understood by ParseReply.
const (
	keyProductName    = "product_name"
	keyProductionDate = "production_date"
	keyExpiryDate     = "expiry_date"
	keyBestBeforeDate = "best_before_date"
	keyNotes          = "notes"
)

var dateKeys = []string{keyProductionDate, keyExpiryDate, keyBestBeforeDate}

var fieldsSchema = mustCompileSchema("fields.json", BuildFieldsSchema())

// BuildFieldsSchema returns the JSON schema a sanitized model reply must satisfy.
func BuildFieldsSchema() map[string]any {
	nullableString := func() map[string]any {
		return map[string]any{"type": []string{"string", "null"}}
	}
	isoDate := func() map[string]any {
		return map[string]any{
			"type":    []string{"string", "null"},
			"pattern": `^\d{4}-\d{2}-\d{2}$`,
		}
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			keyProductName:    nullableString(),
			keyProductionDate: isoDate(),
			keyExpiryDate:     isoDate(),
			keyBestBeforeDate: isoDate(),
			keyNotes:          nullableString(),
		},
	}
}

// ParseReply decodes a model reply into Fields.
//
// Code fences around the JSON are stripped, unknown keys are dropped, blank
// strings become empty and dates that are not real YYYY-MM-DD calendar dates
// are discarded. The names of discarded keys are returned. Replies that are
// not a JSON object, or whose values have the wrong type, yield EINVALID.
func ParseReply(reply string) (useby.Fields, []string, error) {
	var m map[string]any
	if err := json.Unmarshal([]byte(stripCodeFence(reply)), &m); err != nil {
		return useby.Fields{}, nil, useby.Errorf(useby.EINVALID, "llm reply is not a JSON object: %v", err)
	}
	if m == nil {
		return useby.Fields{}, nil, useby.Errorf(useby.EINVALID, "llm reply is not a JSON object")
	}

	dropped := sanitize(m)

	if err := fieldsSchema.Validate(m); err != nil {
		return useby.Fields{}, dropped, useby.Errorf(useby.EINVALID, "llm reply does not match schema: %v", err)
	}

	b, err := json.Marshal(m)
	if err != nil {
		return useby.Fields{}, dropped, err
	}
	var f useby.Fields
	if err := json.Unmarshal(b, &f); err != nil {
		return useby.Fields{}, dropped, useby.Errorf(useby.EINVALID, "decode llm reply: %v", err)
	}
	return f, dropped, nil
}

// sanitize normalizes m in place and returns the keys it removed.
func sanitize(m map[string]any) []string {
	var dropped []string
	for k, v := range m {
		switch k {
		case keyProductName, keyProductionDate, keyExpiryDate, keyBestBeforeDate, keyNotes:
		default:
			delete(m, k)
			dropped = append(dropped, k+"(unknown)")
			continue
		}

		s, ok := v.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" || strings.EqualFold(s, "null") {
			delete(m, k)
			continue
		}
		m[k] = s
	}

	for _, k := range dateKeys {
		if s, ok := m[k].(string); ok && !useby.IsISODate(s) {
			delete(m, k)
			dropped = append(dropped, k+"(invalid date)")
		}
	}
	return dropped
}

// stripCodeFence removes a surrounding ```json ... ``` block, if any.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func mustCompileSchema(url string, schema map[string]any) *jsonschema.Schema {
	b, err := json.Marshal(schema)
	if err != nil {
		panic(err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, bytes.NewReader(b)); err != nil {
		panic(err)
	}
	return compiler.MustCompile(url)
}
