package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/favstats/zwemsterdam/internal/calendar"
	"github.com/favstats/zwemsterdam/internal/config"
	"github.com/favstats/zwemsterdam/internal/logger"
	"github.com/favstats/zwemsterdam/internal/optisport"
	"github.com/favstats/zwemsterdam/internal/pipeline"
	"github.com/favstats/zwemsterdam/internal/session"
	"github.com/favstats/zwemsterdam/internal/storage"
	"github.com/spf13/cobra"
)

var (
	flagConfig  string
	flagDataDir string
	flagVerbose bool
)

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "zwemsterdam",
		Short: "Aggregate Amsterdam swim schedules into one dataset",
		Long: `zwemsterdam scrapes the public schedules of Amsterdam's swimming pools
from their various websites and APIs, normalizes them and writes a single
data.json plus metadata.json for the dashboard.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagVerbose {
				logger.SetLevel(logger.LevelDebug)
			}
		},
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "config.yaml", "Path to the YAML configuration file")
	root.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Override the configured data directory")
	root.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	root.AddCommand(newScrapeCmd())
	root.AddCommand(newOptisportCmd())
	return root
}

func loadConfigAndStorage() (*config.Config, *storage.Storage, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	dataDir := cfg.DataDir
	if flagDataDir != "" {
		dataDir = flagDataDir
	}
	store, err := storage.New(dataDir, cfg.CacheFile)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing storage: %w", err)
	}
	return cfg, store, nil
}

func newScrapeCmd() *cobra.Command {
	var (
		flagFormat string
		flagICS    bool
	)

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Run all sources and write data.json and metadata.json",
		RunE: func(cmd *cobra.Command, args []string) error {
			format := OutputFormat(flagFormat)
			if format != FormatText && format != FormatJSON {
				return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
			}

			cfg, store, err := loadConfigAndStorage()
			if err != nil {
				return err
			}

			previous, err := store.LoadPrevious()
			if err != nil {
				logger.Warn("previous export unreadable, change report skipped", logger.Fields{
					"err": err.Error(),
				})
			}

			p := pipeline.New(cfg)
			cache, err := store.LoadOptisportCache()
			switch {
			case err != nil:
				logger.Warn("optisport cache unreadable, source skipped", logger.Fields{
					"err": err.Error(),
				})
			case cache == nil:
				logger.Info("no optisport cache present, source skipped", nil)
			default:
				logger.Info("optisport cache loaded", logger.Fields{
					"sessions":  len(cache.Sessions),
					"fetchedAt": cache.FetchedAt,
				})
				p.SetCachedSessions(cache.Sessions)
			}

			sessions, metadata := p.Run(cmd.Context())
			diff := session.Diff(previous, sessions)

			if err := store.WriteDataset(sessions, metadata); err != nil {
				return err
			}

			if flagICS {
				path := store.DataPath("rooster.ics")
				if err := os.WriteFile(path, []byte(calendar.GenerateICS(sessions)), 0o644); err != nil {
					return fmt.Errorf("writing %s: %w", path, err)
				}
			}

			logger.Info("run metrics", logger.MetricsSnapshot())

			result := newRunResult(sessions, metadata, diff)
			return WriteOutput(os.Stdout, result, format)
		},
	}

	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&flagICS, "ics", false, "Also write rooster.ics with the dated sessions")
	return cmd
}

func newOptisportCmd() *cobra.Command {
	var (
		flagWait    time.Duration
		flagHeadful bool
	)

	cmd := &cobra.Command{
		Use:   "optisport",
		Short: "Fetch the Optisport schedule through a browser session and cache it",
		Long: `Bootstraps a headless-browser session against the Optisport site, waits
for the bot challenge to clear, fetches every location's schedule through the
paginated API and writes the result to the cache file that "scrape" reads.
Kept separate because the browser step is slow and rate-limited.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, store, err := loadConfigAndStorage()
			if err != nil {
				return err
			}

			sess, err := optisport.NewBrowserSession(cmd.Context(), optisport.SessionOptions{
				BaseURL:       cfg.Sources.Optisport,
				ChallengeWait: flagWait,
				Headful:       flagHeadful,
			})
			if err != nil {
				return fmt.Errorf("bootstrapping optisport session: %w", err)
			}
			defer sess.Close()

			sessions := optisport.NewClient(sess).FetchAll(cmd.Context())
			if err := store.SaveOptisportCache(sessions); err != nil {
				return err
			}

			fmt.Fprintf(os.Stdout, "Cached %d optisport sessions.\n", len(sessions))
			return nil
		},
	}

	cmd.Flags().DurationVar(&flagWait, "challenge-wait", optisport.DefaultChallengeWait, "How long to wait for the bot challenge to clear")
	cmd.Flags().BoolVar(&flagHeadful, "headful", false, "Run the browser with a visible window (debugging)")
	return cmd
}

// Execute runs the root command against a background context.
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
