package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"cardiochat/internal/catalog"
	"cardiochat/internal/common/config"
	stderrors "cardiochat/internal/common/errors"
	"cardiochat/internal/common/logger"
	"cardiochat/internal/common/observability"
	"cardiochat/internal/common/validation"
	"cardiochat/internal/form"
	"cardiochat/internal/prediction"
	"cardiochat/internal/render"
	"cardiochat/internal/session"
	"cardiochat/internal/transcript"
)

var (
	chatCatalog     string
	chatCatalogFile string
	chatURL         string
	chatJSON        bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Run the questionnaire in the terminal",
	Long: `Run the questionnaire in the terminal.

Each question is asked in turn; invalid answers are explained and asked
again. After the last answer the form is sent to the prediction service and
the analysis is shown.

Examples:
  cardiochat chat
  cardiochat chat --catalog cardio --url http://localhost:8000
  printf 'Ana\n45\nfemale\n165\n62.5\nfalse\n' | cardiochat chat --json`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatCatalog, "catalog", "", "builtin catalog name (overrides form.catalog)")
	chatCmd.Flags().StringVar(&chatCatalogFile, "catalog-file", "", "YAML catalog file (overrides form.catalog_file)")
	chatCmd.Flags().StringVar(&chatURL, "url", "", "prediction service base URL (overrides prediction.base_url)")
	chatCmd.Flags().BoolVar(&chatJSON, "json", false, "print the final transcript as JSON instead of the chat")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyChatOverrides(cfg); err != nil {
		return err
	}

	log := newLogger(cfg)

	c, err := resolveCatalog(cfg.Form.Catalog, cfg.Form.CatalogFile)
	if err != nil {
		return err
	}
	validator, err := validation.NewCatalogValidator(c)
	if err != nil {
		return fmt.Errorf("build request schema: %w", err)
	}

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Enabled {
		shutdown := serveMetrics(cfg.Metrics.Address, log)
		defer shutdown()
	}

	client := prediction.NewClient(prediction.ConfigFrom(cfg.Prediction), log, prediction.WithValidator(validator))

	_, err = runChatSession(ctx, chatDeps{
		catalog:    c,
		predictor:  client,
		logger:     log,
		obs:        obs,
		in:         cmd.InOrStdin(),
		out:        cmd.OutOrStdout(),
		jsonOutput: chatJSON,
	})
	return err
}

// applyChatOverrides copies the chat flags onto cfg. The loader has already
// validated cfg, so an overridden URL is checked here.
func applyChatOverrides(cfg *config.Config) error {
	if chatCatalog != "" {
		cfg.Form.Catalog = chatCatalog
	}
	if chatCatalogFile != "" {
		cfg.Form.CatalogFile = chatCatalogFile
	}
	if chatURL != "" {
		if err := config.ValidateBaseURL(chatURL); err != nil {
			return err
		}
		cfg.Prediction.BaseURL = chatURL
	}
	return nil
}

type chatDeps struct {
	catalog    *catalog.Catalog
	predictor  prediction.Predictor
	logger     logger.Logger
	obs        *observability.Observability
	in         io.Reader
	out        io.Writer
	jsonOutput bool
}

var errInputClosed = errors.New("input closed before the questionnaire was complete")

// runChatSession reads one answer per line until the session is done.
func runChatSession(ctx context.Context, d chatDeps) (*session.Session, error) {
	display := render.NewDisplay(d.out)

	var listeners []transcript.Listener
	if !d.jsonOutput {
		listeners = append(listeners, display.Listener(d.catalog.SubmittingMessage()))
	}

	sess, err := session.New(session.Options{
		Catalog:       d.catalog,
		Predictor:     d.predictor,
		Logger:        d.logger,
		Observability: d.obs,
		Listeners:     listeners,
	})
	if err != nil {
		return nil, err
	}

	scanner := bufio.NewScanner(d.in)
	for !sess.State().Complete {
		if field, ok := sess.CurrentField(); ok && !d.jsonOutput {
			display.ShowHint(form.Hint(field))
			display.ShowPrompt()
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return sess, fmt.Errorf("read answer: %w", err)
			}
			return sess, errInputClosed
		}
		if err := ctx.Err(); err != nil {
			return sess, err
		}

		if _, err := sess.Answer(ctx, scanner.Text()); err != nil && !errors.Is(err, stderrors.ErrValidation) {
			return sess, err
		}
	}

	if d.jsonOutput {
		return sess, writeTranscriptJSON(d.out, sess)
	}
	return sess, nil
}

func writeTranscriptJSON(w io.Writer, sess *session.Session) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		SessionID  string                 `json:"sessionId"`
		Answers    form.AnswerSet         `json:"answers"`
		Transcript *transcript.Transcript `json:"transcript"`
	}{
		SessionID:  sess.ID(),
		Answers:    sess.State().Answers,
		Transcript: sess.Transcript(),
	})
}

// serveMetrics exposes the prometheus registry and returns a shutdown func.
func serveMetrics(addr string, log logger.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server stopped", map[string]interface{}{
				"address": addr,
				"error":   err.Error(),
			})
		}
	}()
	log.Debug("metrics server listening", map[string]interface{}{"address": addr})

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
