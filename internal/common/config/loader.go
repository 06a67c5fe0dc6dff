// internal/common/config/loader.go
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	stderrors "cardiochat/internal/common/errors"
)

const (
	ModeStructured = "structured"
	ModeNarrative  = "narrative"
)

// Load reads configs/config.yaml, merges config.<APP_ENVIRONMENT>.yaml on top and
// applies CARDIOCHAT_* environment overrides.
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")
	if root := findProjectRoot(); root != "" {
		v.AddConfigPath(filepath.Join(root, "configs"))
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // optional

	return finish(v, env)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v, os.Getenv("APP_ENVIRONMENT"))
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("CARDIOCHAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)
	return v
}

// bindEnvKeys registers every key so AutomaticEnv also applies to keys that are
// absent from the yaml file.
func bindEnvKeys(v *viper.Viper) {
	for _, key := range []string{
		"app.name", "app.version", "app.environment",
		"prediction.base_url", "prediction.path", "prediction.timeout",
		"form.catalog", "form.catalog_file",
		"logging.level", "logging.format", "logging.output",
		"metrics.enabled", "metrics.address",
		"mock_service.address", "mock_service.mode", "mock_service.accuracy", "mock_service.latency",
	} {
		_ = v.BindEnv(key)
	}
}

func finish(v *viper.Viper, env string) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = env
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, stderrors.NewConfigInvalidError(err.Error())
	}
	return &cfg, nil
}

// loadEnvFile loads the first .env found walking up towards the project root.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up from the working directory looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// expandEnvVars resolves ${VAR} placeholders in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "cardiochat"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}

	if cfg.Prediction.BaseURL == "" {
		cfg.Prediction.BaseURL = "http://localhost:8000"
	}
	if cfg.Prediction.Path == "" {
		cfg.Prediction.Path = "/predict"
	}
	if cfg.Prediction.Timeout == 0 {
		cfg.Prediction.Timeout = 30000
	}

	if cfg.Form.Catalog == "" {
		cfg.Form.Catalog = "basic"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}

	if cfg.Metrics.Address == "" {
		cfg.Metrics.Address = ":9090"
	}

	if cfg.MockService.Address == "" {
		cfg.MockService.Address = ":8000"
	}
	if cfg.MockService.Mode == "" {
		cfg.MockService.Mode = ModeStructured
	}
	if cfg.MockService.Accuracy == 0 {
		cfg.MockService.Accuracy = 0.73
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	if err := checkBaseURL(cfg.Prediction.BaseURL); err != nil {
		return err
	}
	if !strings.HasPrefix(cfg.Prediction.Path, "/") {
		return fmt.Errorf("prediction.path must start with '/', got %q", cfg.Prediction.Path)
	}
	if cfg.Prediction.Timeout < 0 {
		return fmt.Errorf("prediction.timeout must not be negative")
	}

	switch cfg.MockService.Mode {
	case ModeStructured, ModeNarrative:
	default:
		return fmt.Errorf("mock_service.mode must be %q or %q, got %q", ModeStructured, ModeNarrative, cfg.MockService.Mode)
	}
	if cfg.MockService.Accuracy < 0 || cfg.MockService.Accuracy > 1 {
		return fmt.Errorf("mock_service.accuracy must be within [0, 1]")
	}

	switch cfg.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", cfg.Logging.Format)
	}
	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// ValidateBaseURL checks a prediction base URL supplied after loading, such
// as a command-line override.
func ValidateBaseURL(raw string) error {
	if err := checkBaseURL(raw); err != nil {
		return stderrors.NewConfigInvalidError(err.Error())
	}
	return nil
}

func checkBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("prediction.base_url must be an absolute URL, got %q", raw)
	}
	return nil
}
