// Package config provides configuration loading, validation, and management
// for the predictor service. It handles reading from YAML files and
// PREDICTOR_* environment variables, setting default values, and validating
// configuration parameters.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrConfiguration wraps every failure to load or validate the configuration.
var ErrConfiguration = errors.New("configuration error")

// Config defines the application configuration parameters for all components
// of the predictor: logging, the web server, the remote prediction API,
// the optional history store, scheduled tasks and user-facing messages.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Server    ServerConfig    `mapstructure:"server"`
	API       APIConfig       `mapstructure:"api"`
	History   HistoryConfig   `mapstructure:"history"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Messages  Messages        `mapstructure:"messages"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// ServerConfig holds the listener settings of the web front-end.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"             validate:"required"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"     validate:"min=1s"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"    validate:"min=1s"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"min=1s,max=5m"`
}

// APIConfig locates the remote prediction API.
type APIConfig struct {
	BaseURL       string        `mapstructure:"base_url"        validate:"required,url"`
	PredictPath   string        `mapstructure:"predict_path"    validate:"required,startswith=/"`
	HealthPath    string        `mapstructure:"health_path"     validate:"required,startswith=/"`
	ModelInfoPath string        `mapstructure:"model_info_path" validate:"required,startswith=/"`
	Timeout       time.Duration `mapstructure:"timeout"         validate:"min=1s,max=5m"`
}

// HistoryConfig enables the SQLite record of prediction exchanges.
type HistoryConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	DBPath    string        `mapstructure:"db_path"   validate:"required_if=Enabled true"`
	Retention time.Duration `mapstructure:"retention" validate:"min=0"`
	PageSize  int           `mapstructure:"page_size" validate:"min=1,max=500"`
}

// SchedulerConfig maps task names to their schedule.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks" validate:"dive"`
}

// TaskConfig configures a single scheduled task. Schedule is a cron
// expression with a leading seconds field.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule" validate:"required_if=Enabled true"`
}

// Messages are the user-facing strings rendered by the front-end.
type Messages struct {
	IncompleteForm    string `mapstructure:"incomplete_form"    validate:"required"`
	PredictionFailed  string `mapstructure:"prediction_failed"  validate:"required"`
	ConnectionError   string `mapstructure:"connection_error"   validate:"required"`
	ServiceDown       string `mapstructure:"service_down"       validate:"required"`
	EmptyResult       string `mapstructure:"empty_result"       validate:"required"`
	EmptyResultDetail string `mapstructure:"empty_result_detail"`
}

// Connection formats ConnectionError with the API base URL when it has a
// %s verb.
func (m Messages) Connection(baseURL string) string {
	if strings.Contains(m.ConnectionError, "%s") {
		return fmt.Sprintf(m.ConnectionError, baseURL)
	}
	return m.ConnectionError
}

// PredictURL returns the absolute URL of the prediction endpoint.
func (c APIConfig) PredictURL() string { return joinURL(c.BaseURL, c.PredictPath) }

// HealthURL returns the absolute URL of the health endpoint.
func (c APIConfig) HealthURL() string { return joinURL(c.BaseURL, c.HealthPath) }

// ModelInfoURL returns the absolute URL of the model info endpoint.
func (c APIConfig) ModelInfoURL() string { return joinURL(c.BaseURL, c.ModelInfoPath) }

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + path
}
