package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// PREDICTOR_API_BASE_URL for api.base_url.
const EnvPrefix = "PREDICTOR"

// Load loads and validates configuration from:
// 1. Default values
// 2. the YAML file at path (optional; a missing file is not an error)
// 3. PREDICTOR_* environment variables
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("%w: failed to read config file %s: %v", ErrConfiguration, path, err)
			}
			slog.Info("Configuration file not found, using defaults", "path", path)
		} else {
			slog.Debug("Configuration file loaded", "path", v.ConfigFileUsed())
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrConfiguration, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks struct tags and returns the first violation wrapped in
// ErrConfiguration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	return nil
}

// setDefaults sets default values for optional configuration parameters.
// Every key needs a default so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.json", DefaultLogJSON)

	v.SetDefault("server.addr", DefaultServerAddr)
	v.SetDefault("server.read_timeout", DefaultServerReadTimeout)
	v.SetDefault("server.write_timeout", DefaultServerWriteTimeout)
	v.SetDefault("server.shutdown_timeout", DefaultServerShutdownTimeout)

	v.SetDefault("api.base_url", DefaultAPIBaseURL)
	v.SetDefault("api.predict_path", DefaultAPIPredictPath)
	v.SetDefault("api.health_path", DefaultAPIHealthPath)
	v.SetDefault("api.model_info_path", DefaultAPIModelInfoPath)
	v.SetDefault("api.timeout", DefaultAPITimeout)

	v.SetDefault("history.enabled", DefaultHistoryEnabled)
	v.SetDefault("history.db_path", DefaultHistoryDBPath)
	v.SetDefault("history.retention", DefaultHistoryRetention)
	v.SetDefault("history.page_size", DefaultHistoryPageSize)

	for name, task := range DefaultTasks {
		v.SetDefault("scheduler.tasks."+name+".enabled", task.Enabled)
		v.SetDefault("scheduler.tasks."+name+".schedule", task.Schedule)
	}

	v.SetDefault("messages.incomplete_form", DefaultMessages.IncompleteForm)
	v.SetDefault("messages.prediction_failed", DefaultMessages.PredictionFailed)
	v.SetDefault("messages.connection_error", DefaultMessages.ConnectionError)
	v.SetDefault("messages.service_down", DefaultMessages.ServiceDown)
	v.SetDefault("messages.empty_result", DefaultMessages.EmptyResult)
	v.SetDefault("messages.empty_result_detail", DefaultMessages.EmptyResultDetail)
}

// Default returns the configuration Load would produce with no file and no
// environment overrides.
func Default() *Config {
	tasks := make(map[string]TaskConfig, len(DefaultTasks))
	for name, task := range DefaultTasks {
		tasks[name] = task
	}
	return &Config{
		Log: LogConfig{Level: DefaultLogLevel, JSON: DefaultLogJSON},
		Server: ServerConfig{
			Addr:            DefaultServerAddr,
			ReadTimeout:     DefaultServerReadTimeout,
			WriteTimeout:    DefaultServerWriteTimeout,
			ShutdownTimeout: DefaultServerShutdownTimeout,
		},
		API: APIConfig{
			BaseURL:       DefaultAPIBaseURL,
			PredictPath:   DefaultAPIPredictPath,
			HealthPath:    DefaultAPIHealthPath,
			ModelInfoPath: DefaultAPIModelInfoPath,
			Timeout:       DefaultAPITimeout,
		},
		History: HistoryConfig{
			Enabled:   DefaultHistoryEnabled,
			DBPath:    DefaultHistoryDBPath,
			Retention: DefaultHistoryRetention,
			PageSize:  DefaultHistoryPageSize,
		},
		Scheduler: SchedulerConfig{Tasks: tasks},
		Messages:  DefaultMessages,
	}
}
