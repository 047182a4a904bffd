// Package config loads the engine's startup configuration from a TOML
// file (github.com/BurntSushi/toml) with environment overrides loaded
// via github.com/joho/godotenv, the teacher's configuration stack.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Route is one midicodec route's startup configuration.
type Route struct {
	ID   int    `toml:"id"`
	Type string `toml:"type"` // "launchpad", "encoder", "param14", "param7"
}

// Transport configures one device's TCP transport endpoint.
type Transport struct {
	Name string `toml:"name"`
	Host string `toml:"host"`
	Port uint16 `toml:"port"`
}

// Database configures the scenestore Postgres connection.
type Database struct {
	DSN string `toml:"dsn"`
}

// AdminAPI configures the HTTP control plane.
type AdminAPI struct {
	ListenAddr string `toml:"listen_addr"`
	JWTSecret  string `toml:"jwt_secret"`
	SessionKey string `toml:"session_key"`
}

// Config is the engine's full startup configuration.
type Config struct {
	ControlRateHz uint32      `toml:"control_rate_hz"`
	AudioRateHz   uint32      `toml:"audio_rate_hz"`
	LogPath       string      `toml:"log_path"`
	Transports    []Transport `toml:"transport"`
	Routes        []Route     `toml:"route"`
	Database      Database    `toml:"database"`
	AdminAPI      AdminAPI    `toml:"admin_api"`
}

// Default returns the engine's built-in configuration, used when no
// TOML file is present.
func Default() Config {
	return Config{
		ControlRateHz: 1000,
		AudioRateHz:   48000,
		LogPath:       "nonagonengine.log",
	}
}

// Load reads .env (if present) into the process environment, then
// parses a TOML config file, falling back to Default() values for
// anything the file omits.
func Load(path string) (Config, error) {
	_ = godotenv.Load() // optional; missing .env is not an error

	cfg := Default()
	if path != "" {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return Config{}, fmt.Errorf("config: decoding %s: %w", path, err)
			}
		}
	}

	if v := os.Getenv("NONAGON_DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("NONAGON_JWT_SECRET"); v != "" {
		cfg.AdminAPI.JWTSecret = v
	}

	return cfg, nil
}
