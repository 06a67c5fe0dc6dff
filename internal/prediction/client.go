// Package prediction posts completed answer sets to the risk prediction
// service and maps its replies onto StandardErrors.
package prediction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	stderrors "cardiochat/internal/common/errors"
	commonhttp "cardiochat/internal/common/http"
	"cardiochat/internal/common/logger"
	"cardiochat/internal/common/validation"
	"cardiochat/internal/form"
)

// Predictor is the outbound boundary used by the submission coordinator.
type Predictor interface {
	Predict(ctx context.Context, sessionID string, answers form.AnswerSet) (*Response, error)
}

type Client struct {
	config    *Config
	http      *commonhttp.Client
	validator *validation.Validator
	logger    logger.Logger
}

type Option func(*Client)

// WithValidator checks every request body against v before it is sent.
func WithValidator(v *validation.Validator) Option {
	return func(c *Client) { c.validator = v }
}

// WithHTTPClient replaces the transport.
func WithHTTPClient(h *commonhttp.Client) Option {
	return func(c *Client) { c.http = h }
}

func NewClient(cfg *Config, log logger.Logger, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout < 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		config: cfg,
		http:   commonhttp.NewClient(timeout),
		logger: log.With(map[string]interface{}{
			"component": "prediction",
			"url":       cfg.URL(),
		}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Predict sends answers once. It never retries.
//
// Errors:
//   - REQUEST_SCHEMA_VIOLATION when a validator is set and answers do not conform; nothing is sent
//   - TRANSPORT_FAILURE on network errors, non-2xx statuses and unreadable bodies
//   - SERVICE_ERROR when the service answers success=false
//
// A SERVICE_ERROR is returned together with the decoded Response.
func (c *Client) Predict(ctx context.Context, sessionID string, answers form.AnswerSet) (*Response, error) {
	if c.validator != nil {
		if err := c.validator.Check(answers); err != nil {
			c.logger.Warn("request rejected by schema", map[string]interface{}{
				"sessionId": sessionID,
				"error":     err.Error(),
			})
			return nil, err
		}
	}

	headers := map[string]string{SessionHeader: sessionID}
	resp, err := c.http.PostJSON(ctx, c.config.URL(), answers, headers)
	if err != nil {
		reason := "Falha na comunicação com o serviço de predição"
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			reason = "Tempo limite excedido"
		}
		c.logger.Error("prediction request failed", map[string]interface{}{
			"sessionId": sessionID,
			"error":     err.Error(),
		})
		return nil, stderrors.NewTransportFailureError(reason, err)
	}

	if !resp.OK() {
		reason := fmt.Sprintf("Erro HTTP: %d", resp.StatusCode)
		var body errorBody
		if json.Unmarshal(resp.Body, &body) == nil {
			if detail := body.reason(); detail != "" {
				reason = detail
			}
		}
		c.logger.Error("prediction service returned error status", map[string]interface{}{
			"sessionId":  sessionID,
			"statusCode": resp.StatusCode,
			"reason":     reason,
		})
		return nil, stderrors.NewTransportFailureError(reason, fmt.Errorf("status %d", resp.StatusCode)).
			WithMetadata("statusCode", resp.StatusCode)
	}

	var out Response
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		c.logger.Error("prediction response unreadable", map[string]interface{}{
			"sessionId": sessionID,
			"error":     err.Error(),
		})
		return nil, stderrors.NewTransportFailureError("Resposta inválida do serviço de predição", err)
	}

	if !out.Success {
		reason := strings.TrimSpace(out.Error)
		if reason == "" {
			reason = stderrors.NewNoExplanationError().Message
		}
		c.logger.Warn("prediction service reported failure", map[string]interface{}{
			"sessionId": sessionID,
			"reason":    reason,
		})
		return &out, stderrors.NewServiceError(reason)
	}

	c.logger.Info("prediction received", map[string]interface{}{
		"sessionId":      sessionID,
		"explanationLen": len(out.Explanation),
	})
	return &out, nil
}
