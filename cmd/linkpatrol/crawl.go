package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/linkpatrol/internal/config"
	"github.com/nao1215/linkpatrol/internal/crawler"
	"github.com/nao1215/linkpatrol/internal/fetch"
	"github.com/nao1215/linkpatrol/internal/log"
	"github.com/nao1215/linkpatrol/internal/model"
	"github.com/nao1215/linkpatrol/internal/report"
	"github.com/nao1215/linkpatrol/internal/store"
	"github.com/spf13/cobra"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl <start-url> <name>",
		Short: "Crawl a website and record the status of every link",
		Long: `Crawl starts from <start-url> and checks every link reachable from it.

Pages under the start URL are fetched and parsed for further links.
Links pointing elsewhere are probed with a header request but not
followed. Every URL's outcome (status code, headers, or the error that
prevented fetching it) is stored durably under <name>.

Re-running with the same <name> resumes an interrupted crawl: URLs that
already have a stored result are skipped and the pending queue is picked
up where it was left.

Examples:
  # Check a site, storing results under the name "mysite"
  linkpatrol crawl https://example.com/ mysite

  # Crawl with 8 concurrent workers and a request delay
  linkpatrol crawl --workers 8 --delay 200ms https://example.com/ mysite

  # Disable the discovery-trail depth cap
  linkpatrol crawl --no-trail https://example.com/ mysite

Configuration file (.linkpatrol) example:
  hosts:
    example.com:
      cookie: "session_id=abc123"
      headers:
        Authorization: "Bearer token"
      workers: 4`,
		Args: exactArgs(2),
		RunE: runCrawlCmd,
	}

	cmd.Flags().IntP("workers", "w", config.DefaultWorkers,
		"Number of concurrent fetch workers")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Connection timeout for each request")
	cmd.Flags().StringP("user-agent", "u", config.DefaultUserAgent,
		"User-Agent header sent with every request")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize,
		"Maximum response body size in bytes to read per page")
	cmd.Flags().IntP("max-trail-depth", "d", config.DefaultMaxTrailDepth,
		"Discovery-trail length at which URLs stop being followed")
	cmd.Flags().Bool("no-trail", false,
		"Disable the discovery-trail depth cap entirely")
	cmd.Flags().Duration("delay", config.DefaultDelay,
		"Politeness pause after each processed URL")
	cmd.Flags().String("data-dir", "",
		"Directory holding the store files (default: XDG data directory)")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .linkpatrol in current or home directory)")
	cmd.Flags().Bool("no-color", false,
		"Disable colored progress output")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildCrawlConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(os.Stderr, getVerboseFlag(cmd))

	// Cancel the crawl on interrupt. Durability means nothing is lost;
	// the run can be resumed under the same name.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Warn("received shutdown signal, stopping crawl")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runCrawl(ctx, cmd, cfg, logger)
}

// buildCrawlConfig creates a Config from cobra command flags.
func buildCrawlConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.StartURL = args[0]
	cfg.Name = args[1]

	var err error

	cfg.Workers, err = cmd.Flags().GetInt("workers")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}

	cfg.MaxBodySize, err = cmd.Flags().GetInt64("max-body-size")
	if err != nil {
		return nil, err
	}

	cfg.MaxTrailDepth, err = cmd.Flags().GetInt("max-trail-depth")
	if err != nil {
		return nil, err
	}

	noTrail, err := cmd.Flags().GetBool("no-trail")
	if err != nil {
		return nil, err
	}
	cfg.TrailTracking = !noTrail

	cfg.Delay, err = cmd.Flags().GetDuration("delay")
	if err != nil {
		return nil, err
	}

	dataDir, err := cmd.Flags().GetString("data-dir")
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	cfg.NoColor, err = cmd.Flags().GetBool("no-color")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load per-host settings from the config file. An explicitly given
	// path must exist; the default search may come up empty.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		cfg.HostConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	} else {
		cfg.HostConfigs = &config.File{Hosts: make(map[string]config.HostConfig)}
	}

	return cfg, nil
}

// runCrawl opens the stores, builds the engine, and runs the crawl to
// completion, then prints the summary.
func runCrawl(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	site, err := model.NewSite(cfg.StartURL)
	if err != nil {
		return fmt.Errorf("invalid start URL: %w", err)
	}

	seedHost := hostOf(site.Seed)
	hostCfg := hostConfigFor(cfg, seedHost)
	applyHostConfig(cmd, cfg, hostCfg)

	if err := os.MkdirAll(cfg.DataDir, 0o750); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	frontier, err := store.OpenFrontier(store.FrontierPath(cfg.DataDir, cfg.Name), store.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open frontier store: %w", err)
	}
	defer frontier.Close()

	results, err := store.OpenResults(store.ResultsPath(cfg.DataDir, cfg.Name), store.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open result store: %w", err)
	}
	defer results.Close()

	logger.Info("stores opened", "dir", cfg.DataDir, "name", cfg.Name)

	fetchOpts := []fetch.Option{
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
	}
	if hostCfg.Cookie != "" || len(hostCfg.Headers) > 0 {
		// Per-host credentials stay on the crawled host; external probes
		// must not carry them.
		fetchOpts = append(fetchOpts, fetch.WithCredentialHost(seedHost))
	}
	if hostCfg.Cookie != "" {
		fetchOpts = append(fetchOpts, fetch.WithCookie(hostCfg.Cookie))
	}
	if len(hostCfg.Headers) > 0 {
		fetchOpts = append(fetchOpts, fetch.WithHeaders(hostCfg.Headers))
	}
	client := fetch.NewClient(fetchOpts...)

	progressOpts := []report.ProgressOption{}
	if cfg.NoColor {
		progressOpts = append(progressOpts, report.WithNoColor())
	}
	progress := report.NewProgress(cmd.OutOrStdout(), progressOpts...)

	engine, err := crawler.NewEngine(site, frontier, results, client,
		crawler.WithWorkers(cfg.Workers),
		crawler.WithTrailTracking(cfg.TrailTracking),
		crawler.WithMaxTrailDepth(cfg.MaxTrailDepth),
		crawler.WithDelay(cfg.Delay),
		crawler.WithOnResult(progress.Handle),
		crawler.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("failed to create crawl engine: %w", err)
	}

	logger.Info("starting crawl",
		"startURL", cfg.StartURL,
		"name", cfg.Name,
		"workers", cfg.Workers,
		"trailTracking", cfg.TrailTracking,
	)

	runErr := engine.Run(ctx)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return fmt.Errorf("crawl failed: %w", runErr)
	}

	if errors.Is(runErr, context.Canceled) {
		fmt.Fprintf(cmd.OutOrStdout(), "\ncrawl interrupted; resume with: linkpatrol crawl %s %s\n\n", cfg.StartURL, cfg.Name)
	}

	summary, err := report.BuildSummary(ctx, cfg.Name, results)
	if err != nil {
		// The interrupt that stopped the crawl also cancels ctx, which
		// aborts the summary query. The stores are intact either way.
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("failed to build summary: %w", err)
	}

	summaryOpts := []report.SummaryWriterOption{}
	if cfg.NoColor {
		summaryOpts = append(summaryOpts, report.WithSummaryNoColor())
	}
	fmt.Fprintln(cmd.OutOrStdout())
	return report.NewSummaryWriter(cmd.OutOrStdout(), summaryOpts...).Write(summary)
}

// hostOf extracts the host[:port] from a URL, or "" if it has none.
func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}

// hostConfigFor returns the merged settings for the given host.
func hostConfigFor(cfg *config.Config, host string) config.HostConfig {
	if cfg.HostConfigs == nil {
		return config.HostConfig{}
	}
	return cfg.HostConfigs.HostConfig(host)
}

// applyHostConfig overlays per-host file settings onto the flag-derived
// config. A flag the user set explicitly wins over the file.
func applyHostConfig(cmd *cobra.Command, cfg *config.Config, hc config.HostConfig) {
	if hc.UserAgent != "" && !cmd.Flags().Changed("user-agent") {
		cfg.UserAgent = hc.UserAgent
	}
	if hc.Workers > 0 && !cmd.Flags().Changed("workers") {
		cfg.Workers = hc.Workers
	}
	if hc.MaxTrailDepth > 0 && !cmd.Flags().Changed("max-trail-depth") {
		cfg.MaxTrailDepth = hc.MaxTrailDepth
	}
}
