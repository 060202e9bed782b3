package torbox

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dylanmazurek/torbox-go/internal/config"
	"github.com/dylanmazurek/torbox-go/internal/logger"
	api "github.com/dylanmazurek/torbox-go/pkg/torbox"
)

var (
	cfgFile  string
	logLevel string

	cfg    *config.Config
	_log   zerolog.Logger
	client *api.Client
)

var rootCmd = &cobra.Command{
	Use:   "torbox",
	Short: "Command line client for the TorBox API",
	Long: `torbox talks to the TorBox debrid API. It can inspect the account,
manage torrents and fetch finished downloads to disk.`,
	SilenceUsage:      true,
	PersistentPreRunE: initializeApp,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if client != nil {
			client.Close()
		}
	},
}

// Execute runs the command line. ctx is handed to every subcommand.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./config.yaml, ~/.torbox/config.yaml or env only)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging.level")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(meCmd)
	rootCmd.AddCommand(torrentsCmd)
	rootCmd.AddCommand(fetchCmd)
}

func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	config.SetConfigPath(cfgFile)
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = logLevel
	}

	if err := logger.Configure(logger.Options{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Color:   cfg.Logging.Color,
		File:    cfg.Logging.File,
		MaxSize: cfg.Logging.MaxSize,
		MaxAge:  cfg.Logging.MaxAge,
	}); err != nil {
		return fmt.Errorf("failed to configure logging: %w", err)
	}
	_log = logger.New("cli")

	client, err = newAPIClient(cfg)
	if err != nil {
		return err
	}

	return nil
}

func newAPIClient(cfg *config.Config) (*api.Client, error) {
	return api.New(
		api.WithBaseURL(cfg.API.BaseURL),
		api.WithAPIVersion(cfg.API.APIVersion),
		api.WithAccessToken(cfg.API.APIKey),
		api.WithRateLimit(cfg.API.RateLimit),
		api.WithProxy(cfg.API.Proxy),
		api.WithUserAgent(cfg.API.UserAgent),
		api.WithTimeout(cfg.API.Timeout),
		api.WithRetryPolicy(api.RetryPolicy{
			MaxAttempts:    cfg.Retry.MaxAttempts,
			InitialBackoff: cfg.Retry.InitialBackoff,
			MaxBackoff:     cfg.Retry.MaxBackoff,
		}),
		api.WithLogger(logger.New("api")),
	)
}

func requireAPIKey() error {
	if cfg.API.APIKey == "" {
		return fmt.Errorf("no api key: set api.api_key or TORBOX_API_KEY")
	}

	return nil
}
