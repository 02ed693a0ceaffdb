package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	TraceNone   = "none"
	TraceStdout = "stdout"
	TraceOTLP   = "otlp"
)

type Config struct {
	ServiceName    string `mapstructure:"SERVICE_NAME"`
	Version        string `mapstructure:"VERSION"`
	ListenAddr     string `mapstructure:"LISTEN_ADDR"`
	DatabaseDriver string `mapstructure:"DB_DRIVER"`
	DatabasePath   string `mapstructure:"DB_PATH"`
	DatabaseDSN    string `mapstructure:"DB_DSN"`
	DatabaseLog    string `mapstructure:"DB_LOG_LEVEL"`
	TraceExporter  string `mapstructure:"TRACE_EXPORTER"`
	TraceEndpoint  string `mapstructure:"TRACE_ENDPOINT"`
}

func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetDefault("SERVICE_NAME", "bbscope")
	v.SetDefault("VERSION", "dev")
	v.SetDefault("LISTEN_ADDR", ":8080")
	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("DB_PATH", "sqlite.db")
	v.SetDefault("DB_DSN", "")
	v.SetDefault("DB_LOG_LEVEL", "warn")
	v.SetDefault("TRACE_EXPORTER", TraceNone)
	v.SetDefault("TRACE_ENDPOINT", "")

	v.SetEnvPrefix("BBSCOPE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Optional; missing .env is fine
	v.SetConfigFile(".env")
	_ = v.ReadInConfig()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("LISTEN_ADDR is required")
	}

	switch c.DatabaseDriver {
	case DriverSQLite:
		if c.DatabasePath == "" {
			return fmt.Errorf("DB_PATH is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.DatabaseDSN == "" {
			return fmt.Errorf("DB_DSN is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DatabaseDriver)
	}

	switch c.DatabaseLog {
	case "silent", "error", "warn", "info":
	default:
		return fmt.Errorf("unsupported DB_LOG_LEVEL %q", c.DatabaseLog)
	}

	switch c.TraceExporter {
	case "", TraceNone, TraceStdout:
	case TraceOTLP:
		if c.TraceEndpoint == "" {
			return fmt.Errorf("TRACE_ENDPOINT is required for the otlp exporter")
		}
	default:
		return fmt.Errorf("unsupported TRACE_EXPORTER %q", c.TraceExporter)
	}

	return nil
}
