package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const maxPort = 65535

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Env        string           `yaml:"env"`         // Env is the current environment: local, development, production.
	HTTP       HTTPConfig       `yaml:"http"`        // HTTP holds the API listener configuration
	Monitoring MonitoringConfig `yaml:"monitoring"`  // Monitoring holds the metrics/health listener configuration
	Storage    StorageConfig    `yaml:"storage"`     // Storage holds the snapshot file configuration
	RequestLog RequestLogConfig `yaml:"request_log"` // RequestLog controls the HTTP access log
}

// HTTPConfig struct holds the configuration of the public JSON API.
type HTTPConfig struct {
	Port         int           `yaml:"port"`          // Port is the API listening port.
	ReadTimeout  time.Duration `yaml:"read_timeout"`  // ReadTimeout bounds reading a full request.
	WriteTimeout time.Duration `yaml:"write_timeout"` // WriteTimeout bounds writing a response.
	MaxBodySize  int           `yaml:"max_body_size"` // MaxBodySize is the request body limit in bytes.
}

// MonitoringConfig struct holds the configuration of the metrics and health endpoints.
type MonitoringConfig struct {
	Port int `yaml:"port"`
}

// StorageConfig struct holds where employees are persisted.
type StorageConfig struct {
	DataFile string `yaml:"data_file"` // DataFile is the path of the JSON snapshot.
}

// RequestLogConfig struct holds the access log settings.
type RequestLogConfig struct {
	Format            string `yaml:"format"`              // Format is a named format, a :token template or "json".
	SkipCodeThreshold int    `yaml:"skip_code_threshold"` // Responses with a lower status are not logged.
}

// keys maps configuration keys to the environment variables that override them.
var keys = map[string]string{
	"env":                             "APP_ENV",
	"http.port":                       "PORT",
	"http.read_timeout":               "HTTP_READ_TIMEOUT",
	"http.write_timeout":              "HTTP_WRITE_TIMEOUT",
	"http.max_body_size":              "HTTP_MAX_BODY_SIZE",
	"monitoring.port":                 "MONITORING_PORT",
	"storage.data_file":               "DATA_FILE",
	"request_log.format":              "REQUEST_LOG_FORMAT",
	"request_log.skip_code_threshold": "SKIP_CODE_THRESHOLD",
}

// flagKeys maps command-line flags to configuration keys.
var flagKeys = map[string]string{
	"port":            "http.port",
	"monitoring-port": "monitoring.port",
	"data-file":       "storage.data_file",
	"log-format":      "request_log.format",
}

// RegisterFlags adds the command-line flags understood by Load.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "path to a YAML config file (defaults to $CONFIG_PATH)")
	flags.Int("port", 0, "API listening port")
	flags.Int("monitoring-port", 0, "metrics and health listening port")
	flags.String("data-file", "", "path of the employees snapshot file")
	flags.String("log-format", "", "request log format: tiny, short, dev, common, combined, json or a :token template")
}

// Load builds the configuration from defaults, an optional YAML file, the
// environment and the given flags, in increasing order of precedence.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	for key, env := range keys {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind env %s: %w", env, err)
		}
	}

	configPath := os.Getenv("CONFIG_PATH")
	if flags != nil {
		for name, key := range flagKeys {
			if flag := flags.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
		if path, err := flags.GetString("config"); err == nil && path != "" {
			configPath = path
		}
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, fmt.Errorf("config file does not exist: %s: %w", configPath, err)
		}
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config error: %w", err)
		}
	}

	cfg := &Config{
		Env: v.GetString("env"),
		HTTP: HTTPConfig{
			Port:         v.GetInt("http.port"),
			ReadTimeout:  v.GetDuration("http.read_timeout"),
			WriteTimeout: v.GetDuration("http.write_timeout"),
			MaxBodySize:  v.GetInt("http.max_body_size"),
		},
		Monitoring: MonitoringConfig{
			Port: v.GetInt("monitoring.port"),
		},
		Storage: StorageConfig{
			DataFile: strings.TrimSpace(v.GetString("storage.data_file")),
		},
		RequestLog: RequestLogConfig{
			Format:            v.GetString("request_log.format"),
			SkipCodeThreshold: v.GetInt("request_log.skip_code_threshold"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	const (
		defaultPort           = 3500
		defaultMonitoringPort = 9090
		defaultMaxBodySize    = 2 << 20 // 2 MiB
		defaultSkipThreshold  = 400
	)

	v.SetDefault("env", "local")
	v.SetDefault("http.port", defaultPort)
	v.SetDefault("http.read_timeout", 10*time.Second)
	v.SetDefault("http.write_timeout", 15*time.Second)
	v.SetDefault("http.max_body_size", defaultMaxBodySize)
	v.SetDefault("monitoring.port", defaultMonitoringPort)
	v.SetDefault("storage.data_file", "data/employees.json")
	v.SetDefault("request_log.format", "tiny")
	v.SetDefault("request_log.skip_code_threshold", defaultSkipThreshold)
}

func (c *Config) validate() error {
	if c.HTTP.Port < 1 || c.HTTP.Port > maxPort {
		return fmt.Errorf("%w: http port %d out of range", ErrInvalidConfig, c.HTTP.Port)
	}
	if c.Monitoring.Port < 1 || c.Monitoring.Port > maxPort {
		return fmt.Errorf("%w: monitoring port %d out of range", ErrInvalidConfig, c.Monitoring.Port)
	}
	if c.HTTP.Port == c.Monitoring.Port {
		return fmt.Errorf("%w: http and monitoring ports must differ", ErrInvalidConfig)
	}
	if c.Storage.DataFile == "" {
		return fmt.Errorf("%w: data file path is empty", ErrInvalidConfig)
	}
	if c.HTTP.MaxBodySize <= 0 {
		return fmt.Errorf("%w: max body size must be positive", ErrInvalidConfig)
	}

	return nil
}
