package config

// Config is the top-level configuration
type Config struct {
	Channels  ChannelsConfig  `json:"channels"`
	Providers ProvidersConfig `json:"providers"`
	Store     StoreConfig     `json:"store"`
}

// ProvidersConfig holds API keys for the external data providers
type ProvidersConfig struct {
	OpenWeatherMap ProviderConfig `json:"openweathermap"`
	MapQuest       ProviderConfig `json:"mapquest"`
}

type ProviderConfig struct {
	APIKey string `json:"apiKey"`
}

type ChannelsConfig struct {
	Telegram TelegramConfig `json:"telegram"`
	Slack    SlackConfig    `json:"slack"`
	Discord  DiscordConfig  `json:"discord"`
}

type TelegramConfig struct {
	Token        string   `json:"token"`
	AllowedUsers []string `json:"allowedUsers"`
}

type SlackConfig struct {
	BotToken     string   `json:"botToken"`
	AppToken     string   `json:"appToken"`
	AllowedUsers []string `json:"allowedUsers"`
}

type DiscordConfig struct {
	Token        string   `json:"token"`
	AllowedUsers []string `json:"allowedUsers"`
}

// StoreConfig locates the durable settings record.
type StoreConfig struct {
	Path string `json:"path"`
}

// DefaultConfig returns a Config with sensible defaults applied.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Path: "~/.commutebot/settings.json",
		},
	}
}
