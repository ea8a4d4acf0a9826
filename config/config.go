/*
Package config loads process configuration from the environment.

PURPOSE:
  One explicit Config struct, built once at process start and passed by
  reference to every component that needs storage or service access. No
  component reads the environment on its own and there is no ambient
  global connection state.

ENVIRONMENT VARIABLES:
  DB_NAME, DB_USER, DB_PASSWORD, DB_HOST, DB_PORT   PostgreSQL connection
  GEMINI_API_KEY                                    Translation service key
  TRANSLATE_MODEL                                   Model id (default gemini-2.5-flash)
  TRANSLATE_OUTPUT_DIR                              Emitted-file directory
  TRANSLATE_TIMEOUT_SECONDS                         Per-request bound
  SERVER_PORT                                       HTTP report API port
  LOG_LEVEL, LOG_FORMAT                             Logging

Missing database credentials surface on the first connection attempt, not
here; the translate key is validated by the translate client.
*/
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Database  DatabaseConfig  `mapstructure:"db"`
	Translate TranslateConfig `mapstructure:"translate"`
	Server    ServerConfig    `mapstructure:"server"`
	Logger    LoggerConfig    `mapstructure:"log"`
}

type DatabaseConfig struct {
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
}

// DSN renders the connection string for the postgres driver.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		d.Host, d.User, d.Password, d.Name, d.Port)
}

type TranslateConfig struct {
	APIKey         string `mapstructure:"api_key"`
	Model          string `mapstructure:"model"`
	OutputDir      string `mapstructure:"output_dir"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

func (s *ServerConfig) Addr() string { return fmt.Sprintf(":%d", s.Port) }

type LoggerConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads the environment and returns the config struct.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("translate.model", "gemini-2.5-flash")
	v.SetDefault("translate.output_dir", "translated_procedures")
	v.SetDefault("translate.timeout_seconds", 60)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// The original operator workflow used flat names in a .env file; bind
	// them explicitly instead of inventing a prefix scheme.
	bindings := map[string]string{
		"db.name":                   "DB_NAME",
		"db.user":                   "DB_USER",
		"db.password":               "DB_PASSWORD",
		"db.host":                   "DB_HOST",
		"db.port":                   "DB_PORT",
		"translate.api_key":         "GEMINI_API_KEY",
		"translate.model":           "TRANSLATE_MODEL",
		"translate.output_dir":      "TRANSLATE_OUTPUT_DIR",
		"translate.timeout_seconds": "TRANSLATE_TIMEOUT_SECONDS",
		"server.port":               "SERVER_PORT",
		"log.level":                 "LOG_LEVEL",
		"log.format":                "LOG_FORMAT",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}
