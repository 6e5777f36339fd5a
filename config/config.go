// Package config holds the process-level configuration for hosting a
// board: which layout to load, where to listen, and how long a
// suspended flip may wait before the host gives up on it.
package config

import (
	"encoding/json"
	"log"
	"os"
	"strconv"
)

// Config holds all configurable parameters for cmd/boardserver.
type Config struct {
	BoardFile string `json:"board_file"`
	WSPort    int    `json:"ws_port"`

	// FlipTimeoutMS bounds how long a suspended FlipUp (rule 1-D) may
	// wait for release before the host cancels it. 0 disables the
	// timeout and lets the wait block indefinitely.
	FlipTimeoutMS int `json:"flip_timeout_ms"`

	// MaxPlayerIDLength bounds the length of a player id accepted over
	// the wire; the core itself only rejects empty or whitespace ids.
	MaxPlayerIDLength int `json:"max_player_id_length"`
}

// Defaults returns a Config with conservative defaults.
func Defaults() *Config {
	return &Config{
		BoardFile:         "boards/default.txt",
		WSPort:            8080,
		FlipTimeoutMS:     0,
		MaxPlayerIDLength: 64,
	}
}

// Load reads configuration from an optional config.json file, then
// applies environment variable overrides. Fields not set in either
// source retain their default values.
func Load() *Config {
	cfg := Defaults()

	if f, err := os.Open("config.json"); err == nil {
		defer f.Close()
		if err := json.NewDecoder(f).Decode(cfg); err != nil {
			log.Printf("Warning: failed to parse config.json: %v", err)
		}
	}

	overrideString(&cfg.BoardFile, "BOARD_FILE")
	overrideInt(&cfg.WSPort, "WS_PORT")
	overrideInt(&cfg.FlipTimeoutMS, "FLIP_TIMEOUT_MS")
	overrideInt(&cfg.MaxPlayerIDLength, "MAX_PLAYER_ID_LENGTH")

	return cfg
}

func overrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*field = n
		} else {
			log.Printf("Warning: invalid value for %s: %q", envKey, val)
		}
	}
}

func overrideString(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}
