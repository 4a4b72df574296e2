package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"epsol/importer/internal/config"
	"epsol/importer/internal/container"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configPath string
	startURLs  []string
)

var rootCmd = &cobra.Command{
	Use:   "epsol-import [--start <url>...]",
	Short: "Imports the EPSOL product catalog into the equipment store.",
	Long: "Without --start the whole catalog is crawled from its root page. " +
		"With --start every given URL is treated as a subcategory listing page.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		log.Info("Starting EPSOL importer...")

		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		configureLogging(cfg.Log)
		log.Info("Configuration loaded successfully")

		app, err := container.New(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize container: %w", err)
		}
		defer app.Close()

		// --start given at all, even with no URLs, selects explicit mode.
		var urls []string
		if cmd.Flags().Changed("start") {
			urls = append([]string{}, startURLs...)
		}

		if _, err := app.Run(cmd.Context(), urls); err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		log.Info("Application finished successfully")
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to the YAML config file (default ./config.yaml)")
	rootCmd.Flags().StringSliceVar(&startURLs, "start", nil, "listing URLs to import instead of crawling the catalog")
}

func configureLogging(cfg config.LogConfig) {
	if level, err := log.ParseLevel(cfg.Level); err == nil {
		log.SetLevel(level)
	} else {
		log.Warnf("Unknown log level %q, keeping %s", cfg.Level, log.GetLevel())
	}

	if strings.EqualFold(cfg.Format, "json") {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
