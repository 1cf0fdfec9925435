package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/staynest/pricingservice/internal/pricing/repo/postgres"
	"github.com/staynest/pricingservice/internal/pricing/usecase"
	"github.com/staynest/pricingservice/internal/shared/config"
	sharedlog "github.com/staynest/pricingservice/internal/shared/log"
)

var (
	cfgFile string
	cfg     *config.Config
	store   *postgres.Store
	service *usecase.Service
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pricingctl",
	Short: "Pricing service CLI - rule import/export and calendar inspection",
	Long: `A CLI tool for operating the room pricing engine: importing and
exporting pricing rules as CSV and inspecting resolved price calendars.`,
	PersistentPreRunE: persistentPreRun,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file")
}

// persistentPreRun initializes shared dependencies before each command
func persistentPreRun(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "help" || cmd.Name() == "completion" {
		return nil
	}

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := sharedlog.Init(cfg.Log.Level); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	store, err = postgres.NewStore(cfg.Postgres.DSN)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	service = usecase.NewService(store, nil, 0)
	if err := service.Load(context.Background()); err != nil {
		return fmt.Errorf("failed to load pricing state: %w", err)
	}
	return nil
}

func closeStore() {
	if store == nil {
		return
	}
	if err := store.Close(); err != nil {
		log.Printf("Failed to close store: %v", err)
	}
}
