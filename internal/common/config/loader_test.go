package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "cardiochat/internal/common/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	path := writeConfig(t, "app:\n  name: cardiochat\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.Prediction.BaseURL)
	assert.Equal(t, "/predict", cfg.Prediction.Path)
	assert.Equal(t, 30*time.Second, GetDuration(cfg.Prediction.Timeout))
	assert.Equal(t, "basic", cfg.Form.Catalog)
	assert.Equal(t, "stderr", cfg.Logging.Output)
	assert.Equal(t, ModeStructured, cfg.MockService.Mode)
	assert.InDelta(t, 0.73, cfg.MockService.Accuracy, 1e-9)
}

func TestLoadFromFile_EnvOverridesAndExpansion(t *testing.T) {
	t.Setenv("CARDIOCHAT_PREDICTION_TIMEOUT", "1500")
	t.Setenv("CARDIOCHAT_FORM_CATALOG", "cardio")
	t.Setenv("RISK_HOST", "risk.internal:9000")

	path := writeConfig(t, `
prediction:
  base_url: http://${RISK_HOST}/
  timeout: 10000
logging:
  format: console
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "http://risk.internal:9000/", cfg.Prediction.BaseURL)
	assert.Equal(t, 1500, cfg.Prediction.Timeout)
	assert.Equal(t, "cardio", cfg.Form.Catalog)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadFromFile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"relative base url", "prediction:\n  base_url: localhost\n", "prediction.base_url"},
		{"path without slash", "prediction:\n  path: predict\n", "prediction.path"},
		{"unknown mock mode", "mock_service:\n  mode: random\n", "mock_service.mode"},
		{"accuracy out of range", "mock_service:\n  accuracy: 1.5\n", "mock_service.accuracy"},
		{"unknown log format", "logging:\n  format: xml\n", "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.ErrorIs(t, err, stderrors.ErrConfigInvalid)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateBaseURL(t *testing.T) {
	assert.NoError(t, ValidateBaseURL("http://risk.internal:9000"))

	for _, raw := range []string{"", "localhost:8000", "/predict", "http://"} {
		err := ValidateBaseURL(raw)
		assert.ErrorIs(t, err, stderrors.ErrConfigInvalid, "url %q", raw)
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
