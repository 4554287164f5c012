package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Scenario store backends
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// EnvPrefix namespaces environment overrides, e.g. PLANNER_HTTP_ADDR
const EnvPrefix = "PLANNER"

// Settings holds application settings for the CLI and HTTP server
type Settings struct {
	DataDir         string `mapstructure:"data_dir"`
	ScenarioBackend string `mapstructure:"scenario_backend"`
	HTTPAddr        string `mapstructure:"http_addr"`
	ReadTimeout     int    `mapstructure:"read_timeout"`  // seconds
	WriteTimeout    int    `mapstructure:"write_timeout"` // seconds
	LogLevel        string `mapstructure:"log_level"`
	LogFormat       string `mapstructure:"log_format"`
	DefaultFreq     string `mapstructure:"default_freq"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "./user_data")
	v.SetDefault("scenario_backend", BackendJSON)
	v.SetDefault("http_addr", ":8000")
	v.SetDefault("read_timeout", 15)
	v.SetDefault("write_timeout", 15)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("default_freq", "Q")
}

// LoadSettings loads settings from defaults, an optional config file and PLANNER_* env vars.
// A .env file in the working directory is applied first when present. An empty
// configFile searches for planner.yaml in the working directory.
func LoadSettings(configFile string) (*Settings, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("planner")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	s.ScenarioBackend = strings.ToLower(strings.TrimSpace(s.ScenarioBackend))
	s.LogFormat = strings.ToLower(strings.TrimSpace(s.LogFormat))

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &s, nil
}

// Validate reports every problem at once
func (s *Settings) Validate() error {
	var problems []string

	if strings.TrimSpace(s.DataDir) == "" {
		problems = append(problems, "data_dir is required")
	}
	switch s.ScenarioBackend {
	case BackendJSON, BackendSQLite:
	default:
		problems = append(problems, fmt.Sprintf("invalid scenario_backend %q: must be one of %s, %s", s.ScenarioBackend, BackendJSON, BackendSQLite))
	}
	if strings.TrimSpace(s.HTTPAddr) == "" {
		problems = append(problems, "http_addr is required")
	}
	if s.ReadTimeout <= 0 || s.WriteTimeout <= 0 {
		problems = append(problems, "read_timeout and write_timeout must be positive")
	}
	switch s.LogFormat {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("invalid log_format %q: must be text or json", s.LogFormat))
	}
	switch strings.ToUpper(strings.TrimSpace(s.DefaultFreq)) {
	case "M", "Q", "Y":
	default:
		problems = append(problems, fmt.Sprintf("invalid default_freq %q: must be M, Q or Y", s.DefaultFreq))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(problems, "; "))
	}
	return nil
}

// PlansFile is where saved plans are persisted
func (s *Settings) PlansFile() string { return filepath.Join(s.DataDir, "plans.json") }

// LayoutFile is where the dashboard layout is persisted
func (s *Settings) LayoutFile() string { return filepath.Join(s.DataDir, "layout.json") }

// ScenariosFile is the JSON scenario store
func (s *Settings) ScenariosFile() string { return filepath.Join(s.DataDir, "scenarios.json") }

// ScenariosDB is the SQLite scenario store
func (s *Settings) ScenariosDB() string { return filepath.Join(s.DataDir, "scenarios.db") }

// ReadTimeoutDuration converts ReadTimeout to a duration
func (s *Settings) ReadTimeoutDuration() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Second
}

// WriteTimeoutDuration converts WriteTimeout to a duration
func (s *Settings) WriteTimeoutDuration() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Second
}
