// cmd/main.go is the application entry point.
// It wires together all layers behind a small cobra command tree.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Shivanand-hulikatti/eventhub/internal/config"
	"github.com/Shivanand-hulikatti/eventhub/internal/logger"
)

// Flag overrides applied on top of the environment configuration.
var (
	storeDriver string
	usersFile   string
	eventsFile  string
)

var rootCmd = &cobra.Command{
	Use:   "eventhub",
	Short: "Event registration and approval service",
	Long: `eventhub manages organizer-proposed events, admin approval and
capacity-limited seat registration for regular users.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&storeDriver, "store", "", "storage driver: file, postgres or memory (overrides STORE_DRIVER)")
	rootCmd.PersistentFlags().StringVar(&usersFile, "users-file", "", "users document path (overrides USERS_FILE)")
	rootCmd.PersistentFlags().StringVar(&eventsFile, "events-file", "", "events document path (overrides EVENTS_FILE)")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// loadConfig reads the environment, applies flag overrides and installs the
// process logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if storeDriver != "" {
		cfg.StoreDriver = strings.ToLower(storeDriver)
	}
	if usersFile != "" {
		cfg.UsersFile = usersFile
	}
	if eventsFile != "" {
		cfg.EventsFile = eventsFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger.SetLogger(logger.New(os.Stdout, cfg.LogLevel))
	return cfg, nil
}
