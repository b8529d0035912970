package config

import (
	"strings"
	"testing"
)

func TestLoadFromReaderDefaults(t *testing.T) {
	cfg, err := LoadFromReader(strings.NewReader(`{}`))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if cfg.Store.Path == "" {
		t.Error("expected a default store path")
	}
	if strings.HasPrefix(cfg.Store.Path, "~") {
		t.Errorf("store path not expanded: %q", cfg.Store.Path)
	}
}

func TestLoadFromReader(t *testing.T) {
	raw := `{
		"channels": {
			"telegram": {"token": "tg-token", "allowedUsers": ["1"]},
			"discord": {"token": "dc-token"}
		},
		"providers": {
			"openweathermap": {"apiKey": "owm"},
			"mapquest": {"apiKey": "mq"}
		},
		"store": {"path": "/tmp/commute/settings.json"}
	}`

	cfg, err := LoadFromReader(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if cfg.Channels.Telegram.Token != "tg-token" {
		t.Errorf("telegram token = %q", cfg.Channels.Telegram.Token)
	}
	if cfg.Providers.OpenWeatherMap.APIKey != "owm" || cfg.Providers.MapQuest.APIKey != "mq" {
		t.Errorf("provider keys = %+v", cfg.Providers)
	}
	if cfg.Store.Path != "/tmp/commute/settings.json" {
		t.Errorf("store path = %q", cfg.Store.Path)
	}
}

func TestLoadFromReaderInvalid(t *testing.T) {
	if _, err := LoadFromReader(strings.NewReader(`{not json`)); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("COMMUTEBOT_CHANNELS_TELEGRAM_TOKEN", "env-token")
	t.Setenv("COMMUTEBOT_PROVIDERS_OWM_APIKEY", "env-owm")

	cfg, err := LoadFromReader(strings.NewReader(`{"channels": {"telegram": {"token": "file-token"}}}`))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if cfg.Channels.Telegram.Token != "env-token" {
		t.Errorf("env override lost: %q", cfg.Channels.Telegram.Token)
	}
	if cfg.Providers.OpenWeatherMap.APIKey != "env-owm" {
		t.Errorf("env override lost: %q", cfg.Providers.OpenWeatherMap.APIKey)
	}
}

func TestEnabledChannels(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Channels.Telegram.Token = "tg"
	cfg.Channels.Discord.Token = "dc"

	chans, err := cfg.EnabledChannels()
	if err != nil {
		t.Fatalf("EnabledChannels: %v", err)
	}
	if len(chans) != 2 {
		t.Fatalf("expected 2 enabled channels, got %d", len(chans))
	}
	if _, ok := chans["telegram"]; !ok {
		t.Error("telegram missing")
	}
	if _, ok := chans["slack"]; ok {
		t.Error("slack enabled without credentials")
	}
}
