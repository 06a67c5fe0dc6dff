// Package submission hands a completed answer set to the prediction service
// and routes the reply into the session transcript.
package submission

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	stderrors "cardiochat/internal/common/errors"
	"cardiochat/internal/common/logger"
	"cardiochat/internal/common/metrics"
	"cardiochat/internal/common/observability"
	"cardiochat/internal/explanation"
	"cardiochat/internal/form"
	"cardiochat/internal/prediction"
	"cardiochat/internal/transcript"
)

const spanName = "prediction.submit"

// Outcome is what a resolved submission appended to the transcript.
type Outcome struct {
	Entry       transcript.Entry
	Explanation *explanation.Explanation
	Err         error
	Duration    time.Duration
}

// Succeeded reports whether a result entry was appended.
func (o *Outcome) Succeeded() bool { return o.Err == nil }

type Coordinator struct {
	sessionID  string
	predictor  prediction.Predictor
	transcript *transcript.Transcript
	logger     logger.Logger
	obs        *observability.Observability

	inFlight atomic.Bool
	resolved atomic.Bool
}

func NewCoordinator(sessionID string, p prediction.Predictor, t *transcript.Transcript, log logger.Logger, obs *observability.Observability) *Coordinator {
	if obs == nil {
		obs = observability.NewNoop()
	}
	return &Coordinator{
		sessionID:  sessionID,
		predictor:  p,
		transcript: t,
		obs:        obs,
		logger: log.With(map[string]interface{}{
			"component": "submission",
			"sessionId": sessionID,
		}),
	}
}

// Loading reports whether a prediction call is outstanding.
func (c *Coordinator) Loading() bool { return c.inFlight.Load() }

// Resolved reports whether the session's submission has finished.
func (c *Coordinator) Resolved() bool { return c.resolved.Load() }

// Submit calls the predictor once and appends exactly one result or error
// entry. A call made while another is outstanding fails with
// SUBMISSION_IN_PROGRESS and a call after resolution fails with
// SESSION_COMPLETE; neither sends a request nor touches the transcript.
//
// For a resolved submission the returned Outcome is always set; its Err (also
// returned) is the prediction failure, if any.
func (c *Coordinator) Submit(ctx context.Context, answers form.AnswerSet) (*Outcome, error) {
	if c.resolved.Load() {
		return nil, stderrors.NewSessionCompleteError("submit")
	}
	if !c.inFlight.CompareAndSwap(false, true) {
		c.logger.Warn("submission rejected, another is in flight", nil)
		return nil, stderrors.NewSubmissionInProgressError()
	}
	defer c.inFlight.Store(false)
	if c.resolved.Load() {
		return nil, stderrors.NewSessionCompleteError("submit")
	}

	metrics.SubmissionsInFlight.Inc()
	defer metrics.SubmissionsInFlight.Dec()

	ctx, span := c.obs.StartSpan(ctx, spanName,
		attribute.String("session.id", c.sessionID),
		attribute.Int("answers.count", answers.Len()),
	)
	defer span.End()

	start := time.Now()
	exp, err := c.predict(ctx, answers)
	elapsed := time.Since(start)

	outcome := &Outcome{Explanation: exp, Err: err, Duration: elapsed}
	label := outcomeLabel(err)

	if err != nil {
		outcome.Entry = transcript.Error(stderrors.UserMessage(err))
		span.RecordError(err)
		code := stderrors.Normalize(err).Code
		span.SetStatus(codes.Error, string(code))
		c.logger.WithError(err).Warn("prediction failed", map[string]interface{}{
			"outcome":    label,
			"code":       string(code),
			"category":   stderrors.GetErrorCategory(code),
			"retryable":  stderrors.IsRetryableErrorCode(code),
			"durationMs": elapsed.Milliseconds(),
		})
	} else {
		outcome.Entry = transcript.Result(exp)
		span.SetAttributes(attribute.String("risk.level", exp.RiskLevel))
		span.SetStatus(codes.Ok, "")
		c.logger.Info("prediction resolved", map[string]interface{}{
			"riskLevel":  exp.RiskLevel,
			"narrative":  exp.FromNarrative,
			"durationMs": elapsed.Milliseconds(),
		})
	}

	c.resolved.Store(true)
	c.transcript.Append(outcome.Entry)

	metrics.SubmissionsTotal.WithLabelValues(label).Inc()
	metrics.SubmissionDuration.WithLabelValues(label).Observe(elapsed.Seconds())
	c.obs.RecordSubmission(ctx, label)
	c.obs.RecordSubmissionDuration(ctx, elapsed, label)

	return outcome, err
}

func (c *Coordinator) predict(ctx context.Context, answers form.AnswerSet) (*explanation.Explanation, error) {
	resp, err := c.predictor.Predict(ctx, c.sessionID, answers)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, stderrors.NewNoExplanationError()
	}
	return explanation.Interpret(resp.Explanation)
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, stderrors.ErrTransportFailure):
		return metrics.OutcomeTransportFailure
	case errors.Is(err, stderrors.ErrNoExplanation):
		return metrics.OutcomeNoExplanation
	case errors.Is(err, stderrors.ErrRequestSchema):
		return metrics.OutcomeRejectedRequest
	default:
		return metrics.OutcomeServiceError
	}
}
