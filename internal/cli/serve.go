package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/slingshot/slingshot/internal/api"
	"github.com/slingshot/slingshot/internal/config"
	"github.com/slingshot/slingshot/internal/logging"
	"github.com/slingshot/slingshot/internal/oauth"
	"github.com/slingshot/slingshot/internal/store"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"s", "server", "run"},
	Short:   "Start the Slingshot server",
	Long: `Start the Slingshot server in main mode.

This command starts the HTTP server that handles the Google OAuth
consent flow and proxies Analytics and Search Console reports.

Example:
  slingshot serve --config config.yaml --db ./data/slingshot.db

The server will start listening on the address configured in the config file.`,
	RunE: runServe,
}

var serveFlags struct {
	Host    string
	Port    int
	Timeout time.Duration
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.Host, "host", "", "Server host (overrides config)")
	serveCmd.Flags().IntVar(&serveFlags.Port, "port", 0, "Server port (overrides config)")
	serveCmd.Flags().DurationVar(&serveFlags.Timeout, "timeout", envDuration("SHUTDOWN_TIMEOUT", 30*time.Second), "Shutdown timeout")

	RootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if globalFlags.Verbose {
		log.Println("Starting Slingshot server...")
		log.Printf("Config path: %s", globalFlags.Config)
	}

	// Load configuration
	loader := config.NewLoader(globalFlags.Config)
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Apply CLI flags to config
	if serveFlags.Host != "" {
		cfg.Server.Host = serveFlags.Host
	}
	if serveFlags.Port != 0 {
		cfg.Server.HTTPPort = serveFlags.Port
	}
	if globalFlags.DBPath != "" {
		cfg.Store.Path = globalFlags.DBPath
	}

	if globalFlags.Verbose {
		log.Printf("Configuration loaded successfully")
		log.Printf("Server host: %s, port: %d", cfg.Server.Host, cfg.Server.HTTPPort)
	}

	st, err := openStore(cfg.Store)
	if err != nil {
		return fmt.Errorf("failed to open credential store: %w", err)
	}

	logger := logging.NewLogger()
	oauthSvc := oauth.NewService(cfg.Google, logger)
	server := api.NewServer(*cfg, st, oauthSvc)

	// Reload config on file changes. Only the Google client settings
	// take effect live; server address changes need a restart.
	loader.SetOnChange(func(updated *config.Config) {
		logger.Info("configuration reloaded", "version", updated.Version)
	})
	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if err := loader.StartWatcher(watchCtx); err != nil {
		log.Printf("Config watcher warning: %v", err)
	}

	setupGracefulShutdown(server, serveFlags.Timeout)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort)
	log.Printf("Starting Slingshot HTTP server on %s", addr)
	if cfg.Store.Driver == "sqlite" {
		log.Printf("Database: %s (WAL mode enabled)", cfg.Store.Path)
	}

	if err := server.Run(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// openStore creates the credential store named by the config driver.
func openStore(cfg config.StoreConfig) (store.Store, error) {
	if cfg.Driver == "memory" {
		return store.NewMemoryStore(), nil
	}
	return store.NewSQLiteStoreWithRetention(cfg.Path, cfg.RetentionDays)
}

// setupGracefulShutdown handles graceful shutdown of all components
func setupGracefulShutdown(server *api.Server, timeout time.Duration) {
	sigChan := api.SetupSignalHandler()

	go func() {
		sig := api.WaitForSignal(sigChan)
		log.Printf("Received signal: %v", sig)

		// Create context with timeout for shutdown
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		// Shutdown server (closes the store as well)
		log.Println("Shutting down API server...")
		if err := server.Shutdown(ctx); err != nil {
			log.Printf("Error during server shutdown: %v", err)
		}

		log.Println("Graceful shutdown completed")
		os.Exit(0)
	}()
}

func envDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	if parsed, err := time.ParseDuration(value); err == nil {
		return parsed
	}
	return fallback
}
