package mockservice

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardiochat/internal/catalog"
	"cardiochat/internal/common/config"
	"cardiochat/internal/common/logger"
	"cardiochat/internal/common/validation"
	"cardiochat/internal/explanation"
	"cardiochat/internal/form"
	"cardiochat/internal/prediction"
)

func TestRiskLevel_Thresholds(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{1.0, LevelCritical},
		{0.8, LevelCritical},
		{0.79, LevelHigh},
		{0.6, LevelHigh},
		{0.59, LevelMedium},
		{0.4, LevelMedium},
		{0.39, LevelLow},
		{0.2, LevelLow},
		{0.19, LevelMinimal},
		{0, LevelMinimal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RiskLevel(tt.score), "score %v", tt.score)
	}
}

func TestBMIBand(t *testing.T) {
	assert.Equal(t, "Abaixo do peso", BMIBand(18.4))
	assert.Equal(t, "Peso normal", BMIBand(18.5))
	assert.Equal(t, "Sobrepeso", BMIBand(25))
	assert.Equal(t, "Obesidade", BMIBand(30))
}

func TestAssess(t *testing.T) {
	low := Assess(map[string]interface{}{
		"nome": "Ana", "age": 45.0, "gender": "female", "height": 165.0, "weight": 62.5, "smoker": false,
	})
	assert.Equal(t, "Ana", low.PatientName)
	assert.Equal(t, 0.14, low.Score)
	assert.Equal(t, LevelMinimal, low.Level)
	require.Len(t, low.Factors, 3)
	assert.Equal(t, "22.96 (Peso normal)", low.Factors[1].FactorValue)

	high := Assess(map[string]interface{}{
		"user_id": "p-9", "age": 70.0, "gender": 2.0, "height": 170.0, "weight": 100.0,
		"ap_hi": 165.0, "ap_lo": 100.0, "cholesterol": 3.0, "gluc": 3.0, "smoke": 1.0, "alco": 1.0, "active": 0.0,
	})
	assert.Equal(t, "p-9", high.PatientName)
	assert.Equal(t, 1.0, high.Score)
	assert.Equal(t, LevelCritical, high.Level)

	empty := Assess(map[string]interface{}{})
	assert.Equal(t, baseScore, empty.Score)
	assert.Empty(t, empty.Factors)
	assert.Equal(t, []explanation.Recommendation{followUp}, empty.Recommendations())
}

func newTestServer(t *testing.T, mode string, opts ...Option) *httptest.Server {
	t.Helper()
	s := NewServer(&Config{Mode: mode, Accuracy: 0.73}, logger.NewTestLogger(t), opts...)
	server := httptest.NewServer(s.Handler())
	t.Cleanup(server.Close)
	return server
}

func post(t *testing.T, url string, body string) (*http.Response, map[string]json.RawMessage) {
	t.Helper()
	resp, err := http.Post(url+"/predict", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

const basicBody = `{"nome":"Ana","age":45,"gender":"female","height":165,"weight":62.5,"smoker":false}`

func TestServer_Structured(t *testing.T) {
	server := newTestServer(t, config.ModeStructured)

	resp, out := post(t, server.URL, basicBody)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "true", string(out["success"]))

	exp, err := explanation.Interpret(out["explanation"])
	require.NoError(t, err)
	assert.False(t, exp.FromNarrative)
	assert.Equal(t, "Ana", exp.PatientName)
	assert.Equal(t, LevelMinimal, exp.RiskLevel)
	assert.Equal(t, 73.0, exp.ModelInfo.Accuracy)
	assert.NotEmpty(t, exp.Recommendations)
}

func TestServer_Narrative(t *testing.T) {
	server := newTestServer(t, config.ModeNarrative)

	_, out := post(t, server.URL, `{"nome":"Ana","age":70,"height":170,"weight":100,"smoker":true}`)

	var text string
	require.NoError(t, json.Unmarshal(out["explanation"], &text))

	exp, err := explanation.Interpret(out["explanation"])
	require.NoError(t, err)
	assert.True(t, exp.FromNarrative)
	assert.True(t, strings.HasPrefix(exp.PredictionSummary, "Ana, seu score"))
	require.Len(t, exp.Recommendations, 3)
	assert.Equal(t, "Controle de peso", exp.Recommendations[0].Title)
	assert.Equal(t, "Parar de fumar", exp.Recommendations[1].Title)
	assert.Equal(t, "Acompanhamento médico", exp.Recommendations[2].Title)
	assert.NotContains(t, exp.PredictionSummary, "não substitui")
}

func TestServer_RejectsMalformedBody(t *testing.T) {
	server := newTestServer(t, config.ModeStructured)

	resp, out := post(t, server.URL, `not json`)

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, string(out["detail"]), "Corpo da requisição inválido")
}

func TestServer_ValidatesAgainstCatalog(t *testing.T) {
	c, err := catalog.Builtin(catalog.Basic)
	require.NoError(t, err)
	v, err := validation.NewCatalogValidator(c)
	require.NoError(t, err)
	server := newTestServer(t, config.ModeStructured, WithValidator(v))

	resp, out := post(t, server.URL, `{"nome":"Ana","age":45}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, string(out["detail"]), "gender")

	resp, _ = post(t, server.URL, basicBody)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_HealthAndMetrics(t *testing.T) {
	server := newTestServer(t, config.ModeNarrative)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	var health map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "healthy", health["status"])
	assert.Equal(t, config.ModeNarrative, health["mode"])

	post(t, server.URL, basicBody)

	metricsResp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer metricsResp.Body.Close()
	assert.Equal(t, http.StatusOK, metricsResp.StatusCode)

	resp2, err := http.Get(server.URL + "/predict")
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp2.StatusCode)
}

func TestServer_WithPredictionClient(t *testing.T) {
	server := newTestServer(t, config.ModeStructured)

	client := prediction.NewClient(&prediction.Config{BaseURL: server.URL, Timeout: 2 * time.Second}, logger.NewNoOpLogger())
	answers := form.AnswerSet{}.With("nome", "Bia").With("age", 62).With("smoker", true)

	resp, err := client.Predict(context.Background(), "session-mock", answers)
	require.NoError(t, err)

	exp, err := explanation.Interpret(resp.Explanation)
	require.NoError(t, err)
	assert.Equal(t, "Bia", exp.PatientName)
	assert.Equal(t, LevelLow, exp.RiskLevel)
	assert.Equal(t, 0.39, exp.RiskScore)
}
