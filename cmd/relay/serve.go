package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/illuzioner/chat-relay/internal/config"
	"github.com/illuzioner/chat-relay/internal/logger"
	"github.com/illuzioner/chat-relay/internal/observability"
	"github.com/illuzioner/chat-relay/internal/server"
)

const serveLongDesc string = `Run the chat relay.

POST /api/chat accepts {"messages": [...]}, prepends the coaching system
prompt when the conversation lacks one, and returns {"reply": "..."} from the
completion API. OPENAI_API_KEY must be set in the environment, a .env file
or the config file.`

const serveShortDesc string = "Run the chat relay HTTP server"

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("listen") {
				cfg.Address, _ = cmd.Flags().GetString("listen")
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringP("listen", "l", "", "Address to listen on (overrides config)")
	return cmd
}

// loadConfig reads the config file named by --config and applies --debug.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Debug = true
	}
	return cfg, nil
}

func runServe(parent context.Context, cfg *config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	log := logger.New(cfg.Debug)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.TelemetryURL != "" {
		tp, err := observability.Setup(ctx, cfg.TelemetryURL)
		if err != nil {
			return fmt.Errorf("setting up tracing: %w", err)
		}
		defer func() {
			shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(shutCtx); err != nil {
				log.Warn("tracer shutdown", zap.Error(err))
			}
		}()
		log.Info("tracing enabled", zap.String("endpoint", cfg.TelemetryURL))
	}

	if cfg.OpenAIAPIKey == "" {
		log.Warn(config.CredentialEnv + " is not set; chat requests will fail until it is configured")
	}

	srv := server.New(cfg, log)
	if err := srv.Start(ctx); err != nil {
		log.Error("server error", zap.Error(err))
		return err
	}
	log.Info("server stopped")
	return nil
}
