// Package useby extracts expiry, production and best-before dates from the
// OCR text of product label photos, and derives short product names from
// image label annotations.
//
// The deterministic pipeline (normalization, the date grammar and the ISO
// validator) lives in this package together with the domain types and the
// interfaces for external providers. Implementations live in subdirectories
// named after their primary dependency (e.g., vision/, openai/, gemini/).
package useby
