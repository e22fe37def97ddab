package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dharsanguruparan/docchat/internal/app"
	"github.com/dharsanguruparan/docchat/internal/config"
	"github.com/dharsanguruparan/docchat/internal/logger"
	"github.com/dharsanguruparan/docchat/internal/model"
)

func main() {
	// A missing .env file is normal; real environment variables still apply.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "docchat: %v\n", err)
		}
		os.Exit(1)
	}
}

// rootOptions carries the global flags and the state built from them before
// any subcommand runs.
type rootOptions struct {
	baseURL  string
	apiKey   string
	logLevel string

	cfg *config.Config
	log *zap.Logger
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "docchat",
		Short: "Chat with an uploaded PDF or CSV document",
		Long: `docchat uploads a PDF or CSV document to the document-processing backend and
streams answers to questions about it. Configuration comes from DOCCHAT_* environment
variables (or a .env file) and can be overridden with flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.log != nil {
				_ = opts.log.Sync()
			}
		},
	}
	cmd.PersistentFlags().StringVar(&opts.baseURL, "base-url", "", "Backend API base URL (overrides DOCCHAT_BASE_URL)")
	cmd.PersistentFlags().StringVar(&opts.apiKey, "api-key", "", "API key sent with uploads and questions (overrides DOCCHAT_API_KEY)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides DOCCHAT_LOG_LEVEL)")
	cmd.AddCommand(
		newStatusCmd(opts),
		newHealthCmd(opts),
		newInspectCmd(),
		newUploadCmd(opts),
		newAskCmd(opts),
		newSessionCmd(opts),
		newStubServerCmd(opts),
	)
	return cmd
}

func (o *rootOptions) load(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if o.baseURL != "" {
		cfg.BaseURL = o.baseURL
	}
	if o.apiKey != "" {
		cfg.APIKey = model.Credential(o.apiKey)
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	log, err := logger.New(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile, Console: cmd.ErrOrStderr()})
	if err != nil {
		return err
	}
	o.cfg = cfg
	o.log = log
	return nil
}

func (o *rootOptions) container(extra ...app.Option) *app.Container {
	return app.NewContainer(o.cfg, o.log, extra...)
}
