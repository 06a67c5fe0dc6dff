// Package form drives a questionnaire one field at a time. The engine is
// stateless: every operation takes a State and returns the next one along
// with the transcript entries the transition produced.
package form

import (
	"errors"

	"cardiochat/internal/catalog"
	stderrors "cardiochat/internal/common/errors"
	"cardiochat/internal/common/logger"
	"cardiochat/internal/common/metrics"
	"cardiochat/internal/transcript"
)

// State is a session's position in the questionnaire.
type State struct {
	Step     int
	Answers  AnswerSet
	Complete bool
}

// Transition is the outcome of one Submit call.
type Transition struct {
	State   State
	Entries []transcript.Entry
	// Completed is set only on the call that finished the questionnaire.
	Completed *AnswerSet
}

type Engine struct {
	catalog *catalog.Catalog
	logger  logger.Logger
}

func NewEngine(c *catalog.Catalog, log logger.Logger) *Engine {
	return &Engine{
		catalog: c,
		logger:  log.With(map[string]interface{}{"catalog": c.Name()}),
	}
}

func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

// Start returns the initial state and the first prompt.
func (e *Engine) Start() (State, []transcript.Entry) {
	state := State{}
	return state, []transcript.Entry{transcript.System(e.Prompt(state))}
}

// CurrentField returns the field awaiting an answer. It is false once the
// questionnaire is complete.
func (e *Engine) CurrentField(state State) (catalog.FieldSpec, bool) {
	if state.Complete || state.Step < 0 || state.Step >= e.catalog.Len() {
		return catalog.FieldSpec{}, false
	}
	return e.catalog.Field(state.Step), true
}

// Prompt renders the question for the current step.
func (e *Engine) Prompt(state State) string {
	field, ok := e.CurrentField(state)
	if !ok {
		return ""
	}
	return RenderPrompt(field, state.Answers, e.catalog.NameKey())
}

// Submit applies one raw answer.
//
// On a validation failure the returned state equals the input state and the
// only entry is an error entry with the field's message; the error is a
// VALIDATION_ERROR. On success the user entry precedes either the next
// prompt or, after the last field, the submitting message. Once complete,
// every call fails with SESSION_COMPLETE and emits nothing.
func (e *Engine) Submit(state State, raw string) (Transition, error) {
	field, ok := e.CurrentField(state)
	if !ok {
		return Transition{State: state}, stderrors.NewSessionCompleteError("submitAnswer")
	}

	value, display, err := Normalize(field, raw)
	if err != nil {
		metrics.AnswersTotal.WithLabelValues(field.Key, metrics.OutcomeRejected).Inc()
		var stdErr *stderrors.StandardError
		if !errors.As(err, &stdErr) {
			e.logger.Error("unsupported field kind", map[string]interface{}{
				"field": field.Key,
				"kind":  field.Kind.String(),
			})
			return Transition{State: state}, err
		}
		e.logger.Debug("answer rejected", map[string]interface{}{
			"field": field.Key,
			"step":  state.Step,
		})
		return Transition{
			State:   state,
			Entries: []transcript.Entry{transcript.Error(stdErr.Message)},
		}, err
	}

	metrics.AnswersTotal.WithLabelValues(field.Key, metrics.OutcomeAccepted).Inc()

	next := State{
		Step:    state.Step + 1,
		Answers: state.Answers.With(field.Key, value),
	}
	entries := []transcript.Entry{transcript.User(display)}

	e.logger.Debug("answer accepted", map[string]interface{}{
		"field": field.Key,
		"step":  state.Step,
	})

	if next.Step < e.catalog.Len() {
		entries = append(entries, transcript.System(e.Prompt(next)))
		return Transition{State: next, Entries: entries}, nil
	}

	next.Complete = true
	entries = append(entries, transcript.System(e.catalog.SubmittingMessage()))
	completed := next.Answers

	e.logger.Info("questionnaire complete", map[string]interface{}{
		"answers": completed.Len(),
	})

	return Transition{State: next, Entries: entries, Completed: &completed}, nil
}
