package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Rorical/CircuiTech/internal/app"
	"github.com/Rorical/CircuiTech/internal/config"
	"github.com/Rorical/CircuiTech/internal/logging"
)

var (
	profileFlag     string
	metricsAddrFlag string
)

var rootCmd = &cobra.Command{
	Use:   "circuitech",
	Short: "Embedded hardware design co-pilot",
	Long: `CircuiTech turns a plain-language description of an embedded project into
a sourced bill of materials and a pin-to-pin wiring map.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		if profileFlag != "" {
			if err := cfg.UseProfile(profileFlag); err != nil {
				log.Fatalf("%v", err)
			}
		}
		if err := runApp(cfg); err != nil {
			log.Fatalf("Application error: %v", err)
		}
	},
}

// runApp starts the TUI for the active profile of cfg.
func runApp(cfg *config.Config) error {
	logger, err := logging.New(logging.Config{
		Level:      cfg.LogLevel,
		Format:     "json",
		OutputPath: cfg.LogFile,
	})
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	application, err := app.NewApplication(cfg, logger, app.Options{MetricsAddr: metricsAddrFlag})
	if err != nil {
		logger.Error("failed to create application", zap.Error(err))
		return err
	}
	defer application.Stop()

	return application.Start()
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution error: %v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&profileFlag, "profile", "p", "", "profile to use for this run without changing the active one")
	rootCmd.PersistentFlags().StringVar(&metricsAddrFlag, "metrics-addr", "", "serve Prometheus metrics on this address")

	// Add subcommands
	rootCmd.AddCommand(profileCmd)
}
