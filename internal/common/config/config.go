// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Prediction  PredictionConfig  `mapstructure:"prediction"`
	Form        FormConfig        `mapstructure:"form"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
	MockService MockServiceConfig `mapstructure:"mock_service"`
}

// --- Core App Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// PredictionConfig points at the remote risk-prediction service.
type PredictionConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Path    string `mapstructure:"path"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

// FormConfig selects the question catalog. CatalogFile, when set, wins over Catalog.
type FormConfig struct {
	Catalog     string `mapstructure:"catalog"`
	CatalogFile string `mapstructure:"catalog_file"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// MetricsConfig controls the prometheus endpoint exposed while a chat runs.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

// MockServiceConfig configures the local stand-in prediction service.
type MockServiceConfig struct {
	Address  string  `mapstructure:"address"`
	Mode     string  `mapstructure:"mode"` // structured | narrative
	Accuracy float64 `mapstructure:"accuracy"`
	Latency  int     `mapstructure:"latency"` // milliseconds
}
