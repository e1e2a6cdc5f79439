// Package config loads the bot configuration from a YAML or JSON file.
//
// YAML input is coerced to JSON so a single strict decoder
// (DisallowUnknownFields) covers both formats, and a Manager can watch
// the file and publish validated reloads.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "go.yaml.in/yaml/v3"
)

type Config struct {
	Telegram  TelegramConfig  `json:"telegram"`
	TMDB      TMDBConfig      `json:"tmdb"`
	Logging   LoggingConfig   `json:"logging"`
	Storage   StorageConfig   `json:"storage"`
	Lifecycle LifecycleConfig `json:"lifecycle,omitempty"`
}

type TelegramConfig struct {
	Token    string  `json:"token"`
	AdminIDs []int64 `json:"admin_ids"`

	// PollTimeout is a Go duration string (e.g. "10s").
	PollTimeout    string `json:"poll_timeout,omitempty"`
	SendRatePerSec int    `json:"send_rate_per_sec,omitempty"`
}

type TMDBConfig struct {
	APIKey       string `json:"api_key"`
	BaseURL      string `json:"base_url,omitempty"`
	ImageBaseURL string `json:"image_base_url,omitempty"`
	Timeout      string `json:"timeout,omitempty"`
}

type LoggingConfig struct {
	Level   string            `json:"level,omitempty"`
	Console bool              `json:"console"`
	File    LoggingFileConfig `json:"file,omitempty"`
}

type LoggingFileConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path,omitempty"`
}

type StorageConfig struct {
	Path string `json:"path"`

	// BusyTimeout is a Go duration string; empty means the sqlite default.
	BusyTimeout string `json:"busy_timeout,omitempty"`
}

// LifecycleConfig tunes the cache TTLs and the sweep cadence.
// All fields are Go duration strings; zero values take the defaults
// (1h sweep, 1h sessions/drafts, 24h posts, 5m prompts).
type LifecycleConfig struct {
	SweepInterval string `json:"sweep_interval,omitempty"`
	SessionTTL    string `json:"session_ttl,omitempty"`
	DraftTTL      string `json:"draft_ttl,omitempty"`
	PostTTL       string `json:"post_ttl,omitempty"`
	PromptTTL     string `json:"prompt_ttl,omitempty"`
}

func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config is nil")
	}
	if strings.TrimSpace(c.Telegram.Token) == "" {
		return fmt.Errorf("telegram.token is required")
	}
	if len(c.Telegram.AdminIDs) == 0 {
		return fmt.Errorf("telegram.admin_ids must list at least one admin")
	}
	if strings.TrimSpace(c.TMDB.APIKey) == "" {
		return fmt.Errorf("tmdb.api_key is required")
	}
	if strings.TrimSpace(c.Storage.Path) == "" {
		return fmt.Errorf("storage.path is required")
	}
	fields := []struct{ name, raw string }{
		{"telegram.poll_timeout", c.Telegram.PollTimeout},
		{"tmdb.timeout", c.TMDB.Timeout},
		{"storage.busy_timeout", c.Storage.BusyTimeout},
		{"lifecycle.sweep_interval", c.Lifecycle.SweepInterval},
		{"lifecycle.session_ttl", c.Lifecycle.SessionTTL},
		{"lifecycle.draft_ttl", c.Lifecycle.DraftTTL},
		{"lifecycle.post_ttl", c.Lifecycle.PostTTL},
		{"lifecycle.prompt_ttl", c.Lifecycle.PromptTTL},
	}
	for _, f := range fields {
		if _, err := ParseDuration(f.name, f.raw, 0); err != nil {
			return err
		}
	}
	return nil
}

// ParseDuration parses a duration config field, returning def when raw
// is empty.
func ParseDuration(name, raw string, def time.Duration) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", name, raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: duration must not be negative", name)
	}
	return d, nil
}

// Parse reads and strictly decodes the file at path.
func Parse(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	jb, err := coerceToJSON(path, b)
	if err != nil {
		return nil, err
	}

	var cfg Config
	dec := json.NewDecoder(bytes.NewReader(jb))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, err
	}
	// Reject trailing tokens (e.g. concatenated documents).
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("invalid config: trailing data")
		}
		return nil, err
	}
	return &cfg, nil
}

// Load parses and validates the file at path.
func Load(path string) (*Config, error) {
	cfg, err := Parse(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// coerceToJSON converts YAML config files to JSON bytes so the strict
// JSON decoder serves both formats.
func coerceToJSON(path string, data []byte) ([]byte, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return data, nil
	}
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	v = normalizeYAML(v)
	j, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("yaml->json marshal: %w", err)
	}
	return j, nil
}

// normalizeYAML ensures all map keys are strings so the result can be
// JSON-marshaled.
func normalizeYAML(in any) any {
	switch x := in.(type) {
	case map[any]any:
		m := make(map[string]any, len(x))
		for k, v := range x {
			m[fmt.Sprint(k)] = normalizeYAML(v)
		}
		return m
	case map[string]any:
		m := make(map[string]any, len(x))
		for k, v := range x {
			m[k] = normalizeYAML(v)
		}
		return m
	case []any:
		for i := range x {
			x[i] = normalizeYAML(x[i])
		}
		return x
	default:
		return in
	}
}
