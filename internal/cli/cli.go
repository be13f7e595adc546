package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/clubdash/ffcv-import/internal/calendar"
	"github.com/clubdash/ffcv-import/internal/config"
	"github.com/clubdash/ffcv-import/internal/importer"
	"github.com/clubdash/ffcv-import/internal/logger"
	"github.com/clubdash/ffcv-import/internal/metrics"
	"github.com/clubdash/ffcv-import/internal/scraper"
	"github.com/clubdash/ffcv-import/internal/web"
)

const (
	ExitSuccess = 0
	ExitError   = 1
	ExitFailed  = 2
)

var (
	flagURL     string
	flagDB      string
	flagFormat  string
	flagVerbose bool
	flagAddr    string
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ffcv-import",
		Short: "Import FFCV fixtures into the club calendar",
		Long: `Fetches the FFCV results-website calendar page for the configured team,
extracts the fixtures and reconciles them against the local calendar
database without creating duplicates.`,
	}

	cmd.PersistentFlags().StringVar(&flagURL, "url", "", "Calendar page URL (overrides config)")
	cmd.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path (overrides config)")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newServeCmd())

	return cmd
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one import and print the result",
		RunE:  runImport,
	}
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	return cmd
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the import API over HTTP",
		RunE:  runServe,
	}
	cmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (overrides config)")
	return cmd
}

// loadConfig layers CLI flags on top of the file/env configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if flagURL != "" {
		cfg.CalendarURL = flagURL
	}
	if flagDB != "" {
		cfg.DatabasePath = flagDB
	}
	if flagAddr != "" {
		cfg.Addr = flagAddr
	}
	if flagVerbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// buildSession wires the session from configuration. Logs go to stderr so
// stdout stays clean for the result output.
func buildSession(cfg *config.Config, m *metrics.Metrics) (*importer.Session, error) {
	logger.SetDefault(logger.New(logger.ParseLevel(cfg.LogLevel), os.Stderr))

	store, err := calendar.Open(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("opening calendar store: %w", err)
	}

	client := scraper.NewClientWithTimeout(time.Duration(cfg.FetchTimeoutSeconds) * time.Second)
	sess := importer.NewSession(
		client,
		scraper.NewFFCV(),
		importer.StoreFunc(func(ctx context.Context) (importer.Batch, error) {
			return store.Begin(ctx)
		}),
		m,
	)
	sess.Configure(cfg.CalendarURL)
	return sess, nil
}

// runImport is the one-shot import command.
func runImport(cmd *cobra.Command, args []string) error {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	sess, err := buildSession(cfg, nil)
	if err != nil {
		return err
	}

	res := sess.Run(cmd.Context())

	if err := WriteResult(os.Stdout, res, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	if !res.Success {
		os.Exit(ExitFailed)
	}
	os.Exit(ExitSuccess)
	return nil
}

// runServe starts the HTTP API.
func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	m := metrics.New()
	sess, err := buildSession(cfg, m)
	if err != nil {
		return err
	}

	r := gin.Default()
	// Trust only loopback; the dashboard proxies from the same host.
	if err := r.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
		return fmt.Errorf("trusted proxies: %w", err)
	}
	web.RegisterRoutes(r, sess, m)

	logger.Info("serving import API", logger.Fields{"addr": cfg.Addr})
	if err := r.Run(cfg.Addr); err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
