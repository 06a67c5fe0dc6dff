package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cardiochat/internal/catalog"
	"cardiochat/internal/common/config"
	"cardiochat/internal/common/logger"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "cardiochat",
	Short: "CardioChat - conversational cardiovascular risk questionnaire",
	Long: `CardioChat asks a short health questionnaire one question at a time,
sends the answers to a risk prediction service and shows the explained result.

Commands:
  chat        Run the questionnaire in the terminal
  serve-mock  Start a local stand-in prediction service
  catalog     List, show or export question catalogs
  version     Show version info

Quick Start:
  1. cardiochat serve-mock &
  2. cardiochat chat`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: configs/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging.level")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file named by --config, or the default search
// path, and applies command-line overrides.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFromFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) logger.Logger {
	return logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output).
		With(map[string]interface{}{
			"app":         cfg.App.Name,
			"environment": cfg.App.Environment,
		})
}

// resolveCatalog picks the catalog file when one is given, the named builtin
// otherwise.
func resolveCatalog(name, file string) (*catalog.Catalog, error) {
	if file != "" {
		c, err := catalog.Load(file)
		if err != nil {
			return nil, fmt.Errorf("load catalog %s: %w", file, err)
		}
		return c, nil
	}
	return catalog.Builtin(name)
}
