package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/useby"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx        context.Context
	Stdin      io.Reader
	Stdout     io.Writer
	Stderr     io.Writer
	Logger     *slog.Logger
	Extractor  useby.DateExtractor
	Recognizer useby.TextRecognizer
	Labeler    useby.ImageLabeler
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config    kong.ConfigFlag `help:"TOML configuration file" placeholder:"FILE"`
	LogFormat string          `name:"log-format" enum:"text,json" default:"text" env:"USEBY_LOG_FORMAT" help:"Log output format (text, json)"`
	Verbose   bool            `short:"v" help:"Enable debug logging"`

	LLMProvider string        `name:"llm-provider" enum:"openai,gemini,none" default:"openai" env:"LLM_PROVIDER" help:"Language model used when the regex grammar finds no date (openai, gemini, none)"`
	LLMTimeout  time.Duration `name:"llm-timeout" default:"3s" env:"LLM_TIMEOUT" help:"Deadline for a single language model call"`
	LLMRate     float64       `name:"llm-rate" default:"0" env:"LLM_RATE" help:"Maximum language model calls per second (0 = unlimited)"`
	OpenAIKey   string        `name:"openai-api-key" env:"OPENAI_API_KEY" help:"OpenAI API key"`
	OpenAIModel string        `name:"openai-model" default:"gpt-4o-mini" env:"OPENAI_MODEL" help:"OpenAI model"`
	GeminiKey   string        `name:"gemini-api-key" env:"GEMINI_API_KEY" help:"Gemini API key"`
	GeminiModel string        `name:"gemini-model" default:"gemini-2.5-flash" env:"GEMINI_MODEL" help:"Gemini model"`

	OCRProvider   string `name:"ocr-provider" enum:"vision,tesseract" default:"vision" env:"OCR_PROVIDER" help:"OCR engine (vision, tesseract)"`
	VisionKey     string `name:"vision-api-key" env:"GOOGLE_VISION_API_KEY" help:"Google Cloud Vision API key"`
	TesseractLang string `name:"tesseract-lang" default:"eng" env:"TESSERACT_LANG" help:"Tesseract language"`

	Serve     ServeCmd     `cmd:"" help:"Run the HTTP API"`
	Extract   ExtractCmd   `cmd:"" help:"Extract dates from OCR text"`
	Normalize NormalizeCmd `cmd:"" help:"Print OCR text as the date grammar sees it"`
	Scan      ScanCmd      `cmd:"" help:"OCR label photos and extract their dates"`
	Name      NameCmd      `cmd:"" help:"Derive a product name from a photo"`
	MCP       MCPCmd       `cmd:"" name:"mcp" help:"Serve extraction tools over MCP (stdio)"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Port           int      `default:"4000" env:"PORT" help:"Listen port"`
	AllowedOrigins []string `name:"allowed-origins" default:"*" env:"ALLOWED_ORIGINS" help:"Comma separated CORS origins (* allows all)"`
	KeepUploads    bool     `name:"keep-uploads" env:"KEEP_UPLOADS" help:"Keep uploaded images on disk"`
	UploadsDir     string   `name:"uploads-dir" env:"UPLOADS_DIR" help:"Directory for kept uploads"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	File      string `arg:"" optional:"" type:"existingfile" help:"File with OCR text (default: stdin)"`
	RegexOnly bool   `name:"regex-only" help:"Skip the language model"`
}

// NormalizeCmd is the "normalize" subcommand.
type NormalizeCmd struct {
	File string `arg:"" optional:"" type:"existingfile" help:"File with OCR text (default: stdin)"`
}

// ScanCmd is the "scan" subcommand.
type ScanCmd struct {
	Files       []string `arg:"" type:"existingfile" help:"Label photos"`
	Concurrency int      `short:"c" default:"4" help:"Concurrent OCR limit"`
	RegexOnly   bool     `name:"regex-only" help:"Skip the language model"`
}

// NameCmd is the "name" subcommand.
type NameCmd struct {
	File string `arg:"" type:"existingfile" help:"Product photo"`
}

// MCPCmd is the "mcp" subcommand.
type MCPCmd struct{}
