package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardiochat/internal/catalog"
	"cardiochat/internal/common/config"
	stderrors "cardiochat/internal/common/errors"
	"cardiochat/internal/common/logger"
	"cardiochat/internal/mockservice"
	"cardiochat/internal/prediction"
	"cardiochat/internal/transcript"
)

func mockPredictor(t *testing.T, mode string) prediction.Predictor {
	t.Helper()
	srv := mockservice.NewServer(&mockservice.Config{Mode: mode, Accuracy: 0.73}, logger.NewTestLogger(t))
	server := httptest.NewServer(srv.Handler())
	t.Cleanup(server.Close)
	return prediction.NewClient(&prediction.Config{BaseURL: server.URL, Timeout: 2 * time.Second}, logger.NewNoOpLogger())
}

func basicCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Builtin(catalog.Basic)
	require.NoError(t, err)
	return c
}

func TestRunChatSession_JSON(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("Ana\nabc\n45\nFEMALE\n165\n62,5\nfalse\n")

	sess, err := runChatSession(context.Background(), chatDeps{
		catalog:    basicCatalog(t),
		predictor:  mockPredictor(t, config.ModeStructured),
		logger:     logger.NewTestLogger(t),
		in:         in,
		out:        &out,
		jsonOutput: true,
	})
	require.NoError(t, err)
	assert.True(t, sess.Done())

	var result struct {
		SessionID  string             `json:"sessionId"`
		Answers    json.RawMessage    `json:"answers"`
		Transcript []transcript.Entry `json:"transcript"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))

	assert.Equal(t, sess.ID(), result.SessionID)
	assert.JSONEq(t,
		`{"nome":"Ana","age":45,"gender":"female","height":165,"weight":62.5,"smoker":false}`,
		string(result.Answers))

	last := result.Transcript[len(result.Transcript)-1]
	assert.Equal(t, transcript.OriginResult, last.Origin)
	require.NotNil(t, last.Explanation)
	assert.Equal(t, mockservice.LevelMinimal, last.Explanation.RiskLevel)

	errorsSeen := 0
	for _, e := range result.Transcript {
		if e.Origin == transcript.OriginError {
			errorsSeen++
		}
	}
	assert.Equal(t, 1, errorsSeen, "only the bad age should produce an error entry")
}

func TestRunChatSession_Interactive(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("Ana\n45\nfemale\n165\n62.5\nfalse\n")

	sess, err := runChatSession(context.Background(), chatDeps{
		catalog:   basicCatalog(t),
		predictor: mockPredictor(t, config.ModeNarrative),
		logger:    logger.NewTestLogger(t),
		in:        in,
		out:       &out,
	})
	require.NoError(t, err)
	assert.True(t, sess.Done())

	text := out.String()
	assert.Contains(t, text, "Ana")
	assert.Contains(t, text, "Feminino")
	assert.Contains(t, text, "Ana, seu score de risco cardiovascular")
}

func TestRunChatSession_InputClosedEarly(t *testing.T) {
	var out bytes.Buffer

	sess, err := runChatSession(context.Background(), chatDeps{
		catalog:   basicCatalog(t),
		predictor: mockPredictor(t, config.ModeStructured),
		logger:    logger.NewNoOpLogger(),
		in:        strings.NewReader("Ana\n45\n"),
		out:       &out,
	})
	assert.True(t, errors.Is(err, errInputClosed))
	require.NotNil(t, sess)
	assert.False(t, sess.State().Complete)
	assert.Equal(t, 2, sess.State().Answers.Len())
}

func TestRunChatSession_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runChatSession(ctx, chatDeps{
		catalog:   basicCatalog(t),
		predictor: mockPredictor(t, config.ModeStructured),
		logger:    logger.NewNoOpLogger(),
		in:        strings.NewReader("Ana\n"),
		out:       &bytes.Buffer{},
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestApplyChatOverrides(t *testing.T) {
	t.Cleanup(func() { chatURL, chatCatalog = "", "" })

	tests := []struct {
		name    string
		url     string
		wantErr bool
		wantURL string
	}{
		{"no override keeps config", "", false, "http://localhost:8000"},
		{"absolute url", "http://risk.internal:9000", false, "http://risk.internal:9000"},
		{"missing scheme", "risk.internal:9000", true, "http://localhost:8000"},
		{"path only", "/predict", true, "http://localhost:8000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chatURL, chatCatalog = tt.url, catalog.Cardio
			cfg := &config.Config{Prediction: config.PredictionConfig{BaseURL: "http://localhost:8000"}}

			err := applyChatOverrides(cfg)

			if tt.wantErr {
				assert.ErrorIs(t, err, stderrors.ErrConfigInvalid)
			} else {
				require.NoError(t, err)
				assert.Equal(t, catalog.Cardio, cfg.Form.Catalog)
			}
			assert.Equal(t, tt.wantURL, cfg.Prediction.BaseURL)
		})
	}
}

func TestCatalogCommands(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	rootCmd.SetArgs([]string{"catalog", "schema", "basic"})
	require.NoError(t, rootCmd.Execute())

	var schema map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &schema))
	assert.Equal(t, "object", schema["type"])
	assert.Contains(t, schema["properties"], "smoker")

	out.Reset()
	rootCmd.SetArgs([]string{"catalog", "show", "cardio"})
	require.NoError(t, rootCmd.Execute())

	parsed, err := catalog.Parse(out.Bytes())
	require.NoError(t, err)
	assert.Equal(t, catalog.Cardio, parsed.Name())
}
