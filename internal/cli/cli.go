package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pfrederiksen/conf-events/internal/aggregator"
	"github.com/pfrederiksen/conf-events/internal/api"
	"github.com/pfrederiksen/conf-events/internal/config"
	"github.com/pfrederiksen/conf-events/internal/logger"
	"github.com/pfrederiksen/conf-events/internal/metrics"
	"github.com/pfrederiksen/conf-events/internal/scraper"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const ExitError = 1

var version = "dev"

var (
	flagConfig  string
	flagVerbose bool
	flagFormat  string
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "conf-events",
		Short: "Aggregate conference listings from two Russian event sites",
		Long: `conf-events crawls two conference listing sites, normalizes every event
into {title, date, organizers, link, location, source} and merges them into a
single ordered list. Nothing is stored: each run crawls again.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default is ./config/config.yaml)")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	cmd.AddCommand(newServeCmd(), newFetchCmd())
	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the aggregated conferences over HTTP",
		Long: `Start the HTTP server. Every GET /conferences runs one aggregate crawl.

Endpoints:
  GET /conferences  merged event list (JSON array)
  GET /health       liveness
  GET /metrics      Prometheus metrics`,
		RunE: runServe,
	}
}

func newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Run one aggregate crawl and print the events",
		RunE:  runFetch,
	}
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	return cmd
}

// loadConfig reads and validates configuration and sets up the default logger
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(viper.New(), flagConfig)
	if err != nil {
		return cfg, err
	}

	level := logger.ParseLevel(cfg.Log.Level)
	if flagVerbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, os.Stderr))

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newAggregator wires the fetcher, both crawlers and the aggregator. The
// HTTP client is owned here and shared by every fetch of the process.
func newAggregator(cfg config.Config) (*aggregator.Aggregator, error) {
	client := &http.Client{Timeout: cfg.Crawl.RequestTimeout}
	fetcher := scraper.NewHTTPFetcher(client, cfg.Crawl.UserAgent)

	siteA := scraper.NewSiteA(cfg.SiteA.BaseURL, cfg.SiteA.Year)
	siteB := scraper.NewSiteB(cfg.SiteB.BaseURL, cfg.SiteB.Country, cfg.SiteB.OrganizerLabels)

	return aggregator.New(
		aggregator.Options{
			Timeout: cfg.Crawl.Timeout,
			Dedup:   cfg.Crawl.Dedup,
		},
		scraper.NewCrawler(siteA, fetcher, cfg.Crawl.MaxParallel),
		scraper.NewCrawler(siteB, fetcher, cfg.Crawl.MaxParallel),
	)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	agg, err := newAggregator(cfg)
	if err != nil {
		return fmt.Errorf("building aggregator: %w", err)
	}

	metrics.Init(version)
	gin.SetMode(gin.ReleaseMode)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api.NewRouter(agg),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", logger.Fields{"addr": cfg.Server.Addr, "version": version})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("server shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

func runFetch(cmd *cobra.Command, args []string) error {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	agg, err := newAggregator(cfg)
	if err != nil {
		return fmt.Errorf("building aggregator: %w", err)
	}

	events, err := agg.Aggregate(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetching events: %w", err)
	}

	result := NewOutputResult(events)
	if err := WriteOutput(cmd.OutOrStdout(), result, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if flagVerbose {
		return writeMetrics(cmd.ErrOrStderr(), logger.MetricsSnapshot())
	}
	return nil
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
