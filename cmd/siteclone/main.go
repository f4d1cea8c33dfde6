package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/water102/siteclone"
	"github.com/water102/siteclone/capture"
	"github.com/water102/siteclone/classify"
	"github.com/water102/siteclone/goquery"
	schttp "github.com/water102/siteclone/http"
	"github.com/water102/siteclone/rod"
	scslog "github.com/water102/siteclone/slog"
	"github.com/water102/siteclone/sqlite"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	HistoryService siteclone.HistoryService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	// Create Kong parser with dependency binding
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("siteclone"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags using Kong
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'siteclone --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	// Parse arguments first to know which command and its flags
	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	if cli.Config != "" {
		cfg, err := LoadConfig(cli.Config)
		if err != nil {
			return err
		}
		deps.Config = cfg
	}

	// Open database
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set SITECLONE_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	// Wire core services into dependencies
	m.HistoryService = sqlite.NewHistoryService(m.DB)
	deps.DB = m.DB
	deps.History = m.HistoryService
	deps.Classifier = classify.New()
	deps.Extractor = goquery.NewExtractor()

	// Wire the clone pipeline only when cloning: the browser is
	// expensive to start.
	if cmd == "clone" {
		pipeline := &capture.Pipeline{
			Fetcher:    schttp.NewFetcher(),
			Classifier: deps.Classifier,
			History:    m.HistoryService,
		}

		htmlOnly := cli.Clone.HTMLOnly || cli.Clone.HTMLFile != ""
		if !htmlOnly {
			var opts []rod.Option
			if d := deps.Config.NavTimeout(); d > 0 {
				opts = append(opts, rod.WithNavTimeout(d))
			}
			if d := deps.Config.SettleDelay(); d > 0 {
				opts = append(opts, rod.WithSettleDelay(d))
			}
			if deps.Config != nil && deps.Config.BodyConcurrency > 0 {
				opts = append(opts, rod.WithBodyConcurrency(deps.Config.BodyConcurrency))
			}

			driver, err := rod.NewDriver(opts...)
			if err != nil {
				fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
				return fmt.Errorf("failed to start browser: %w", err)
			}
			defer driver.Close()
			pipeline.Driver = driver
		}

		deps.Cloner = pipeline
		if cli.Clone.Verbose {
			logger := slog.New(slog.NewTextHandler(stderr, nil))
			deps.Cloner = scslog.NewLoggingCloner(pipeline, logger)
		}
	}

	return kongCtx.Run(deps)
}

func defaultDBPath() string {
	if path := os.Getenv("SITECLONE_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "siteclone.db"
	}
	dir := filepath.Join(home, ".siteclone")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "siteclone.db")
}
