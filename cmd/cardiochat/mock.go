package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"cardiochat/internal/common/config"
	"cardiochat/internal/common/validation"
	"cardiochat/internal/mockservice"
)

var (
	mockAddress   string
	mockNarrative bool
	mockLatency   time.Duration
	mockValidate  bool
)

var mockCmd = &cobra.Command{
	Use:   "serve-mock",
	Short: "Start a local stand-in prediction service",
	Long: `Start a local stand-in prediction service.

The mock scores answers with a simple additive model and replies with a
structured explanation object, or with narrative text when --narrative is set.

Examples:
  cardiochat serve-mock
  cardiochat serve-mock --address :9000 --narrative --latency 2s
  cardiochat serve-mock --validate --catalog cardio`,
	RunE: runMock,
}

func init() {
	mockCmd.Flags().StringVar(&mockAddress, "address", "", "listen address (overrides mock_service.address)")
	mockCmd.Flags().BoolVar(&mockNarrative, "narrative", false, "reply with narrative text instead of a structured object")
	mockCmd.Flags().DurationVar(&mockLatency, "latency", 0, "artificial delay before each reply")
	mockCmd.Flags().BoolVar(&mockValidate, "validate", false, "reject requests that do not match the catalog schema")
	mockCmd.Flags().StringVar(&chatCatalog, "catalog", "", "builtin catalog used by --validate")
	mockCmd.Flags().StringVar(&chatCatalogFile, "catalog-file", "", "YAML catalog used by --validate")
	rootCmd.AddCommand(mockCmd)
}

func runMock(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	serverCfg := mockservice.ConfigFrom(cfg)
	if mockAddress != "" {
		serverCfg.Address = mockAddress
	}
	if mockNarrative {
		serverCfg.Mode = config.ModeNarrative
	}
	if mockLatency > 0 {
		serverCfg.Latency = mockLatency
	}

	var opts []mockservice.Option
	if mockValidate {
		name, file := cfg.Form.Catalog, cfg.Form.CatalogFile
		if chatCatalog != "" {
			name = chatCatalog
		}
		if chatCatalogFile != "" {
			file = chatCatalogFile
		}
		c, err := resolveCatalog(name, file)
		if err != nil {
			return err
		}
		v, err := validation.NewCatalogValidator(c)
		if err != nil {
			return fmt.Errorf("build request schema: %w", err)
		}
		opts = append(opts, mockservice.WithValidator(v))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return mockservice.NewServer(serverCfg, log, opts...).ListenAndServe(ctx)
}
