package mcp

import (
	"context"
	"os"

	"github.com/fwojciec/useby"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ExtractInput is the input schema for the extract_dates tool.
type ExtractInput struct {
	Text      string `json:"text" jsonschema:"OCR text of a product label"`
	RegexOnly bool   `json:"regex_only,omitempty" jsonschema:"skip the language model and use the regex grammar only"`
}

// ScanInput is the input schema for the scan_label tool.
type ScanInput struct {
	Path string `json:"path" jsonschema:"path to a label photo on the local filesystem"`
}

// NormalizeInput is the input schema for the normalize_text tool.
type NormalizeInput struct {
	Text string `json:"text" jsonschema:"raw OCR text"`
}

// DatesOutput is the output schema for the date tools. Missing dates are
// omitted.
type DatesOutput struct {
	ProductionDate string `json:"production_date,omitempty"`
	ExpiryDate     string `json:"expiry_date,omitempty"`
	BestBeforeDate string `json:"best_before_date,omitempty"`
	Notes          string `json:"notes,omitempty"`
	OCRText        string `json:"ocr_text,omitempty"`
}

// NormalizeOutput is the output schema for the normalize_text tool.
type NormalizeOutput struct {
	Text string `json:"text"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "extract_dates",
		Description: "Extract production, expiry and best-before dates (YYYY-MM-DD) from product label OCR text",
	}, s.handleExtractDates)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "scan_label",
		Description: "Run OCR on a label photo and extract its dates",
	}, s.handleScanLabel)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "normalize_text",
		Description: "Show how OCR text is cleaned up before date matching",
	}, s.handleNormalizeText)
}

func (s *Server) handleExtractDates(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExtractInput,
) (*mcp.CallToolResult, DatesOutput, error) {
	if input.RegexOnly {
		return nil, datesOutput(useby.ExtractDates(input.Text)), nil
	}
	return nil, datesOutput(s.extractor.Extract(ctx, input.Text)), nil
}

func (s *Server) handleScanLabel(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ScanInput,
) (*mcp.CallToolResult, DatesOutput, error) {
	if input.Path == "" {
		return nil, DatesOutput{}, useby.Errorf(useby.EINVALID, "path required")
	}
	if s.recognizer == nil {
		return nil, DatesOutput{}, useby.Errorf(useby.EUNAVAILABLE, "ocr provider not configured")
	}

	image, err := os.ReadFile(input.Path)
	if err != nil {
		return nil, DatesOutput{}, err
	}
	text, err := s.recognizer.RecognizeText(ctx, image)
	if err != nil {
		return nil, DatesOutput{}, err
	}

	out := datesOutput(s.extractor.Extract(ctx, text))
	out.OCRText = text
	return nil, out, nil
}

func (s *Server) handleNormalizeText(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input NormalizeInput,
) (*mcp.CallToolResult, NormalizeOutput, error) {
	return nil, NormalizeOutput{Text: useby.Normalize(input.Text)}, nil
}

func datesOutput(r useby.ExtractionResult) DatesOutput {
	return DatesOutput{
		ProductionDate: r.ProductionISO,
		ExpiryDate:     r.ExpiryISO,
		BestBeforeDate: r.BestBeforeISO,
		Notes:          r.Note,
	}
}
