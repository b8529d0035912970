package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Load loads config from the default path (~/.commutebot/config.json).
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return LoadFromFile(filepath.Join(home, ".commutebot", "config.json"))
}

// LoadFromFile loads config from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file %s: %w", path, err)
	}
	defer f.Close()
	return LoadFromReader(f)
}

// LoadFromReader loads config from an io.Reader, applying defaults and env overrides.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()

	if err := json.NewDecoder(r).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyEnvOverrides(cfg)
	expandStorePath(cfg)

	return cfg, nil
}

// applyEnvOverrides applies COMMUTEBOT_-prefixed environment variable overrides.
func applyEnvOverrides(cfg *Config) {
	envMap := map[string]*string{
		"COMMUTEBOT_CHANNELS_TELEGRAM_TOKEN":   &cfg.Channels.Telegram.Token,
		"COMMUTEBOT_CHANNELS_SLACK_BOTTOKEN":   &cfg.Channels.Slack.BotToken,
		"COMMUTEBOT_CHANNELS_SLACK_APPTOKEN":   &cfg.Channels.Slack.AppToken,
		"COMMUTEBOT_CHANNELS_DISCORD_TOKEN":    &cfg.Channels.Discord.Token,
		"COMMUTEBOT_PROVIDERS_OWM_APIKEY":      &cfg.Providers.OpenWeatherMap.APIKey,
		"COMMUTEBOT_PROVIDERS_MAPQUEST_APIKEY": &cfg.Providers.MapQuest.APIKey,
		"COMMUTEBOT_STORE_PATH":                &cfg.Store.Path,
	}

	for env, ptr := range envMap {
		if val := os.Getenv(env); val != "" {
			*ptr = val
		}
	}
}

// expandStorePath expands a leading ~ in the settings store path.
func expandStorePath(cfg *Config) {
	p := cfg.Store.Path
	if len(p) >= 2 && p[0] == '~' && p[1] == '/' {
		home, err := os.UserHomeDir()
		if err == nil {
			cfg.Store.Path = filepath.Join(home, p[2:])
		}
	}
}

// EnabledChannels returns the per-channel JSON config for every channel
// with credentials present, keyed by registry name.
func (c *Config) EnabledChannels() (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage)

	add := func(name string, v any) error {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal %s config: %w", name, err)
		}
		out[name] = raw
		return nil
	}

	if c.Channels.Telegram.Token != "" {
		if err := add("telegram", c.Channels.Telegram); err != nil {
			return nil, err
		}
	}
	if c.Channels.Slack.BotToken != "" {
		if err := add("slack", c.Channels.Slack); err != nil {
			return nil, err
		}
	}
	if c.Channels.Discord.Token != "" {
		if err := add("discord", c.Channels.Discord); err != nil {
			return nil, err
		}
	}
	return out, nil
}
