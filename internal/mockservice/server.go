// Package mockservice is a local stand-in for the risk prediction service.
// It scores answers with a toy model and replies in either the structured or
// the narrative explanation format.
package mockservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cardiochat/internal/common/config"
	"cardiochat/internal/common/logger"
	"cardiochat/internal/common/metrics"
	"cardiochat/internal/common/validation"
	"cardiochat/internal/prediction"
)

type Config struct {
	Address  string
	Path     string
	Mode     string // structured | narrative
	Accuracy float64
	Latency  time.Duration
}

// ConfigFrom maps the application config onto a server config.
func ConfigFrom(cfg *config.Config) *Config {
	return &Config{
		Address:  cfg.MockService.Address,
		Path:     cfg.Prediction.Path,
		Mode:     cfg.MockService.Mode,
		Accuracy: cfg.MockService.Accuracy,
		Latency:  config.GetDuration(cfg.MockService.Latency),
	}
}

type Server struct {
	config    *Config
	validator *validation.Validator
	logger    logger.Logger
	router    *mux.Router
}

type Option func(*Server)

// WithValidator rejects requests that do not match v with a 422.
func WithValidator(v *validation.Validator) Option {
	return func(s *Server) { s.validator = v }
}

func NewServer(cfg *Config, log logger.Logger, opts ...Option) *Server {
	if cfg.Path == "" {
		cfg.Path = "/predict"
	}
	if cfg.Mode == "" {
		cfg.Mode = config.ModeStructured
	}
	s := &Server{
		config: cfg,
		logger: log.With(map[string]interface{}{"component": "mock-service"}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc(s.config.Path, s.predict).Methods(http.MethodPost)
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"mode":   s.config.Mode,
		})
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	return r
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Address,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("mock prediction service listening", map[string]interface{}{
			"address": s.config.Address,
			"path":    s.config.Path,
			"mode":    s.config.Mode,
		})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down mock prediction service", nil)
		return srv.Shutdown(shutdownCtx)
	}
}

type predictResponse struct {
	Success     bool        `json:"success"`
	Explanation interface{} `json:"explanation,omitempty"`
	Error       string      `json:"error,omitempty"`
}

type detailItem struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

func (s *Server) predict(w http.ResponseWriter, r *http.Request) {
	var answers map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&answers); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"detail": fmt.Sprintf("Corpo da requisição inválido: %v", err),
		})
		return
	}

	if s.validator != nil {
		result, err := s.validator.Validate(answers)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": err.Error()})
			return
		}
		if !result.Valid {
			items := make([]detailItem, len(result.Errors))
			for i, e := range result.Errors {
				items[i] = detailItem{Loc: []string{"body", e.Field}, Msg: e.Message, Type: e.Code}
			}
			writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{"detail": items})
			return
		}
	}

	if s.config.Latency > 0 {
		select {
		case <-time.After(s.config.Latency):
		case <-r.Context().Done():
			return
		}
	}

	assessment := Assess(answers)
	resp := predictResponse{Success: true}
	if s.config.Mode == config.ModeNarrative {
		resp.Explanation = assessment.Narrative()
	} else {
		resp.Explanation = assessment.Structured(s.config.Accuracy)
	}

	metrics.PredictionRequestsServed.WithLabelValues(s.config.Mode, assessment.Level).Inc()
	s.logger.Info("prediction served", map[string]interface{}{
		"sessionId": r.Header.Get(prediction.SessionHeader),
		"score":     assessment.Score,
		"riskLevel": assessment.Level,
	})
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request handled", map[string]interface{}{
			"method":     r.Method,
			"path":       r.URL.Path,
			"durationMs": time.Since(start).Milliseconds(),
		})
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
