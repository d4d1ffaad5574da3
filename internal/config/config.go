package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Intake IntakeConfig
	Roster RosterConfig
	Client ClientConfig
	Server ServerConfig
}

// IntakeConfig points the composing side at the intake server.
type IntakeConfig struct {
	Endpoint       string
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// Timeout is the configured submit timeout as a duration.
func (c IntakeConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RosterConfig lists the officer ids that can receive updates.
type RosterConfig struct {
	Officers []string
}

// ClientConfig holds settings for the composing side.
type ClientConfig struct {
	PhotoDir string `mapstructure:"photo_dir"`
}

// ServerConfig holds intake server settings.
type ServerConfig struct {
	Addr        string
	DataDir     string `mapstructure:"data_dir"`
	DBPath      string `mapstructure:"db_path"`
	MaxUploadMB int64  `mapstructure:"max_upload_mb"`
}

// MaxUploadBytes is the request body cap in bytes.
func (c ServerConfig) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

// Load reads configuration from file and env. Env var overrides use prefix FIELDPOST_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("intake.endpoint", "http://127.0.0.1:5000")
	v.SetDefault("intake.timeout_seconds", 30)
	v.SetDefault("roster.officers", []string{"unit_1", "unit_2", "unit_3"})
	v.SetDefault("client.photo_dir", ".")
	v.SetDefault("server.addr", ":5000")
	v.SetDefault("server.data_dir", "police_data")
	v.SetDefault("server.db_path", filepath.Join("police_data", "intake.db"))
	v.SetDefault("server.max_upload_mb", 16)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("FIELDPOST_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "fieldpost"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("FIELDPOST")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
