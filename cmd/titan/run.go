package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"halo-hq/titan/pkg/config"
	"halo-hq/titan/pkg/credentials"
	"halo-hq/titan/pkg/providers"
	"halo-hq/titan/pkg/routing"
	"halo-hq/titan/pkg/server"
	"halo-hq/titan/pkg/server/handlers"
	"halo-hq/titan/pkg/session"
	"halo-hq/titan/pkg/store"
	"halo-hq/titan/pkg/telemetry/logging"
	"halo-hq/titan/pkg/telemetry/metrics"
)

var runFlags struct {
	listenAddress string
	logLevel      string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the gateway server",
	Long: `Start the gateway server with the specified configuration.

Examples:
  # Start with defaults (credentials from environment)
  titan run

  # Start with a config file
  titan run --config /etc/titan/config.yaml

  # Override listen address
  titan run --listen 0.0.0.0:9090`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.LogLevel = runFlags.logLevel
	}

	if _, err := logging.Setup(logging.Config{
		Level:  cfg.Telemetry.LogLevel,
		Format: cfg.Telemetry.LogFormat,
	}); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for _, path := range []string{cfg.Storage.ConversationsPath, cfg.Storage.SettingsPath} {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return fmt.Errorf("creating data directory %q: %w", dir, err)
			}
		}
	}

	conversations, err := store.NewSQLiteConversationStore(store.SQLiteConversationStoreConfig{
		Path: cfg.Storage.ConversationsPath,
	})
	if err != nil {
		return fmt.Errorf("opening conversation store: %w", err)
	}
	defer conversations.Close()

	settings, err := store.NewSQLiteSettingsStore(store.SQLiteSettingsStoreConfig{
		Path: cfg.Storage.SettingsPath,
	})
	if err != nil {
		return fmt.Errorf("opening settings store: %w", err)
	}
	defer settings.Close()

	globals, err := seedGlobalCredentials(ctx, cfg, settings)
	if err != nil {
		return err
	}
	resolver := credentials.NewResolver(globals, settings)
	slog.Info("credentials loaded", "providers", len(globals))

	var m *metrics.Metrics
	if cfg.Telemetry.MetricsEnabled {
		m = metrics.New()
	}

	sess, err := session.New(session.Config{
		Selector: routing.NewSelector(),
		Resolver: resolver,
		Invoker: providers.NewHTTPInvoker(providers.HTTPInvokerConfig{
			Timeout: cfg.Server.BackendTimeout,
		}),
		Conversations: conversations,
		Observer:      m,
	})
	if err != nil {
		return err
	}

	if cfg.Retention.Enabled {
		pruner := store.NewPruner(conversations, store.RetentionConfig{
			MaxAge:   cfg.Retention.MaxAge,
			Schedule: cfg.Retention.Schedule,
		})
		scheduler := store.NewRetentionScheduler(pruner)
		if err := scheduler.Start(ctx); err != nil {
			return fmt.Errorf("starting retention scheduler: %w", err)
		}
		defer scheduler.Stop()
	}

	if cfg.Credentials.WatchFile {
		watcher, err := config.NewCredentialWatcher(cfg.Credentials.File)
		if err != nil {
			return fmt.Errorf("watching credentials file: %w", err)
		}
		go func() {
			err := watcher.Watch(ctx, func(fresh map[string]string) {
				merged, err := reloadGlobalCredentials(ctx, fresh, settings)
				if err != nil {
					slog.Error("reloading credentials", "error", err)
					return
				}
				resolver.ReplaceGlobals(merged)
			})
			if err != nil {
				slog.Error("credential watcher stopped", "error", err)
			}
		}()
	}

	srv := server.New(server.Config{
		Server: cfg.Server,
		Handlers: handlers.New(handlers.Config{
			Session:        sess,
			Conversations:  conversations,
			Settings:       settings,
			Resolver:       resolver,
			BackendTimeout: cfg.Server.BackendTimeout,
			MaxUploadBytes: cfg.Server.MaxUploadBytes,
			Version:        Version,
		}),
		Metrics: m,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	return srv.Shutdown(context.Background())
}

// seedGlobalCredentials layers startup credential sources: environment
// variables first, then the optional credentials file, then keys previously
// stored through the settings endpoint.
func seedGlobalCredentials(ctx context.Context, cfg *config.Config, settings store.SettingsStore) (map[string]string, error) {
	layers := []map[string]string{config.CredentialsFromEnv()}

	if cfg.Credentials.File != "" {
		fromFile, err := config.LoadCredentialsFile(cfg.Credentials.File)
		if err != nil {
			return nil, err
		}
		layers = append(layers, fromFile)
	}

	stored, err := settings.GlobalDefaults(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading stored global keys: %w", err)
	}
	layers = append(layers, stored)

	return config.MergeCredentials(layers...), nil
}

// reloadGlobalCredentials rebuilds the global layer on a credentials-file
// change, preserving the startup layering: environment, then the fresh file
// contents, then keys stored through the settings endpoint. Dropping the
// stored layer here would erase admin-rotated keys on the next file touch.
func reloadGlobalCredentials(ctx context.Context, fresh map[string]string, settings store.SettingsStore) (map[string]string, error) {
	stored, err := settings.GlobalDefaults(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading stored global keys: %w", err)
	}
	return config.MergeCredentials(config.CredentialsFromEnv(), fresh, stored), nil
}
