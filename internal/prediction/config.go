package prediction

import (
	"strings"
	"time"

	"cardiochat/internal/common/config"
)

const (
	DefaultPath    = "/predict"
	DefaultTimeout = 30 * time.Second

	// SessionHeader carries the session id on every prediction request.
	SessionHeader = "X-Session-ID"
)

type Config struct {
	BaseURL string
	Path    string
	Timeout time.Duration
}

// ConfigFrom maps the application config onto a client config.
func ConfigFrom(cfg config.PredictionConfig) *Config {
	return &Config{
		BaseURL: cfg.BaseURL,
		Path:    cfg.Path,
		Timeout: config.GetDuration(cfg.Timeout),
	}
}

// URL joins BaseURL and Path.
func (c *Config) URL() string {
	path := c.Path
	if path == "" {
		path = DefaultPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimRight(c.BaseURL, "/") + path
}
