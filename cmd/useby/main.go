package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/useby"
	"github.com/fwojciec/useby/extract"
	"github.com/fwojciec/useby/gemini"
	"github.com/fwojciec/useby/openai"
	useslog "github.com/fwojciec/useby/slog"
	"github.com/fwojciec/useby/tesseract"
	"github.com/fwojciec/useby/toml"
	"github.com/fwojciec/useby/vision"
	"google.golang.org/genai"
	visionapi "google.golang.org/api/vision/v1"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Input for commands that read OCR text. Defaults to os.Stdin.
	Stdin io.Reader

	// ConfigPath is the TOML file loaded before flags and environment.
	ConfigPath string

	// Providers for end-to-end testing. When set they replace the real
	// adapters selected by flags.
	Completer  useby.Completer
	Recognizer useby.TextRecognizer
	Labeler    useby.ImageLabeler
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		Stdin:      os.Stdin,
		ConfigPath: toml.DefaultPath(),
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  m.Stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	options := []kong.Option{
		kong.Name("useby"),
		kong.Description("Extract expiry, production and best-before dates from product label photos."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	}
	if m.ConfigPath != "" {
		options = append(options, kong.Configuration(toml.Loader, m.ConfigPath))
	} else {
		options = append(options, kong.Configuration(toml.Loader))
	}
	parser, err := kong.New(cli, options...)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'useby --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps.Logger = newLogger(stderr, cli.LogFormat, cli.Verbose)

	cmd := strings.Fields(kongCtx.Command())[0]
	regexOnly := (cmd == "extract" && cli.Extract.RegexOnly) || (cmd == "scan" && cli.Scan.RegexOnly)

	var completer useby.Completer
	if cmd != "normalize" && cmd != "name" && !regexOnly {
		if completer, err = m.newCompleter(ctx, cli, deps.Logger); err != nil {
			return err
		}
	}
	deps.Extractor = extract.NewExtractor(completer,
		extract.WithTimeout(cli.LLMTimeout),
		extract.WithLogger(deps.Logger),
	)

	needRecognizer := cmd == "serve" || cmd == "scan" || cmd == "mcp"
	needLabeler := cmd == "serve" || cmd == "name"
	needVision := (needRecognizer && m.Recognizer == nil && cli.OCRProvider == "vision") ||
		(needLabeler && m.Labeler == nil)

	var svc *visionapi.Service
	if needVision {
		if svc, err = newVisionService(ctx, cli.VisionKey, deps.Logger); err != nil {
			return err
		}
	}
	if needRecognizer {
		deps.Recognizer = m.newRecognizer(cli, svc, deps.Logger)
	}
	if needLabeler {
		deps.Labeler = m.newLabeler(svc, deps.Logger)
	}

	return kongCtx.Run(deps)
}

func newLogger(w io.Writer, format string, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// newCompleter returns the configured language model, or nil when none is
// available. A missing key is a warning, not an error: extraction falls
// back to the regex grammar.
func (m *Main) newCompleter(ctx context.Context, cli *CLI, logger *slog.Logger) (useby.Completer, error) {
	var c useby.Completer
	provider := cli.LLMProvider

	switch {
	case m.Completer != nil:
		c, provider = m.Completer, "custom"
	case provider == "openai":
		if cli.OpenAIKey == "" {
			logger.Warn("OPENAI_API_KEY missing, dates fall back to regex")
			return nil, nil
		}
		c = openai.NewCompleter(cli.OpenAIKey, openai.WithModel(cli.OpenAIModel))
	case provider == "gemini":
		if cli.GeminiKey == "" {
			logger.Warn("GEMINI_API_KEY missing, dates fall back to regex")
			return nil, nil
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cli.GeminiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		c = gemini.NewCompleter(client, cli.GeminiModel)
	default:
		return nil, nil
	}

	c = useslog.NewLoggingCompleter(c, provider, logger)
	if cli.LLMRate > 0 {
		c = extract.NewLimitedCompleter(c, cli.LLMRate, 1)
	}
	return c, nil
}

// newVisionService returns nil with a warning when no key is configured.
func newVisionService(ctx context.Context, apiKey string, logger *slog.Logger) (*visionapi.Service, error) {
	if apiKey == "" {
		logger.Warn("GOOGLE_VISION_API_KEY missing, Vision calls will fail")
		return nil, nil
	}
	svc, err := vision.NewService(ctx, apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vision client: %w", err)
	}
	return svc, nil
}

func (m *Main) newRecognizer(cli *CLI, svc *visionapi.Service, logger *slog.Logger) useby.TextRecognizer {
	var r useby.TextRecognizer
	switch {
	case m.Recognizer != nil:
		r = m.Recognizer
	case cli.OCRProvider == "tesseract":
		if !tesseract.Available() {
			logger.Warn("tesseract requires a cgo build, OCR calls will fail")
		}
		r = tesseract.NewRecognizer(cli.TesseractLang)
	case svc != nil:
		r = vision.NewRecognizer(svc)
	default:
		return nil
	}
	return useslog.NewLoggingRecognizer(r, logger)
}

func (m *Main) newLabeler(svc *visionapi.Service, logger *slog.Logger) useby.ImageLabeler {
	var l useby.ImageLabeler
	switch {
	case m.Labeler != nil:
		l = m.Labeler
	case svc != nil:
		l = vision.NewLabeler(svc)
	default:
		return nil
	}
	return useslog.NewLoggingLabeler(l, logger)
}
