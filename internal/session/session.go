// Package session runs one questionnaire conversation: the form engine feeds
// the transcript, and the completed answer set is submitted exactly once.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"cardiochat/internal/catalog"
	"cardiochat/internal/common/logger"
	"cardiochat/internal/common/observability"
	"cardiochat/internal/form"
	"cardiochat/internal/prediction"
	"cardiochat/internal/submission"
	"cardiochat/internal/transcript"
)

type Options struct {
	Catalog       *catalog.Catalog
	Predictor     prediction.Predictor
	Logger        logger.Logger
	Observability *observability.Observability
	// Listeners observe every transcript append, including the first prompt.
	Listeners []transcript.Listener
	// ID overrides the generated session id.
	ID string
}

type Session struct {
	id          string
	engine      *form.Engine
	transcript  *transcript.Transcript
	coordinator *submission.Coordinator
	logger      logger.Logger

	mu    sync.Mutex
	state form.State
}

// New starts a session and appends the first prompt to its transcript.
func New(opts Options) (*Session, error) {
	if opts.Catalog == nil {
		return nil, fmt.Errorf("session: catalog is required")
	}
	if opts.Predictor == nil {
		return nil, fmt.Errorf("session: predictor is required")
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	id := opts.ID
	if id == "" {
		generated, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("session: generate id: %w", err)
		}
		id = generated.String()
	}
	log = log.With(map[string]interface{}{"sessionId": id})

	t := transcript.New(opts.Listeners...)
	s := &Session{
		id:          id,
		engine:      form.NewEngine(opts.Catalog, log),
		transcript:  t,
		coordinator: submission.NewCoordinator(id, opts.Predictor, t, log, opts.Observability),
		logger:      log,
	}

	state, entries := s.engine.Start()
	s.state = state
	t.Append(entries...)

	log.Info("session started", map[string]interface{}{
		"catalog": opts.Catalog.Name(),
		"fields":  opts.Catalog.Len(),
	})
	return s, nil
}

// Answer applies one raw answer. Entries produced by the engine are appended
// before the call returns; when the answer completes the questionnaire the
// prediction call runs synchronously and its result or error entry follows.
//
// Validation failures are returned as VALIDATION_ERROR after the error entry
// has been appended. The submission outcome, when one happened, is returned
// alongside; a failed prediction is reported through the outcome and the
// transcript, not as an error.
func (s *Session) Answer(ctx context.Context, raw string) (*submission.Outcome, error) {
	s.mu.Lock()
	tr, err := s.engine.Submit(s.state, raw)
	s.state = tr.State
	s.transcript.Append(tr.Entries...)
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if tr.Completed == nil {
		return nil, nil
	}

	outcome, subErr := s.coordinator.Submit(ctx, *tr.Completed)
	if outcome == nil {
		return nil, subErr
	}
	return outcome, nil
}

func (s *Session) ID() string { return s.id }

func (s *Session) Catalog() *catalog.Catalog { return s.engine.Catalog() }

func (s *Session) State() form.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Transcript() *transcript.Transcript { return s.transcript }

// CurrentField is the field awaiting an answer, false once complete.
func (s *Session) CurrentField() (catalog.FieldSpec, bool) {
	return s.engine.CurrentField(s.State())
}

// Done reports whether the questionnaire is complete and its submission resolved.
func (s *Session) Done() bool {
	return s.State().Complete && s.coordinator.Resolved()
}

// Loading reports whether the prediction call is outstanding.
func (s *Session) Loading() bool { return s.coordinator.Loading() }
