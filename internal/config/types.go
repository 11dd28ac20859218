package config

// Config represents the complete forom configuration.
//
// Values come from an optional YAML file with environment variables applied
// on top, so the service can run from env alone. The env names match what
// the hosting platform exposes (APP_ID, PUBLIC_KEY, DISCORD_TOKEN, ...).
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Listen   string         `yaml:"listen" env:"FOROM_LISTEN"`
	State    StateConfig    `yaml:"state"`
	Discord  DiscordConfig  `yaml:"discord"`
	GitHub   GitHubConfig   `yaml:"github"`
	Delivery DeliveryConfig `yaml:"delivery"`

	// PublicURL is the externally reachable base URL, interpolated into
	// setup confirmations. Optional; a placeholder is shown when unset.
	PublicURL string `yaml:"public_url" env:"PUBLIC_URL"`

	// Port overrides the port part of Listen when set (platforms that
	// inject PORT).
	Port string `yaml:"-" env:"PORT"`
}

// ServiceConfig defines core service settings.
type ServiceConfig struct {
	Name     string `yaml:"name"`
	LogLevel string `yaml:"log_level" env:"FOROM_LOG_LEVEL"`
}

// StateConfig defines routing-rule storage. An empty path selects the
// volatile in-memory registry.
type StateConfig struct {
	Path string `yaml:"path" env:"FOROM_STATE_PATH"`
}

// DiscordConfig defines the interaction-gateway and bot credentials.
type DiscordConfig struct {
	AppID string `yaml:"app_id" env:"APP_ID"`

	// PublicKey is the hex-encoded ed25519 key from the application page,
	// used to verify interaction signatures.
	PublicKey string `yaml:"public_key" env:"PUBLIC_KEY"`

	// BotToken authorizes outbound message delivery and command
	// registration.
	BotToken string `yaml:"bot_token" env:"DISCORD_TOKEN"`

	// GuildID scopes command registration to one guild. Empty registers
	// globally.
	GuildID string `yaml:"guild_id" env:"GUILD_ID"`
}

// GitHubConfig defines webhook verification settings.
type GitHubConfig struct {
	// WebhookSecret enables HMAC verification of /github-webhook requests.
	// Empty means verification is disabled: every request is accepted.
	WebhookSecret string `yaml:"webhook_secret" env:"GITHUB_WEBHOOK_SECRET"`
}

// DeliveryConfig bounds the outbound notification queue.
type DeliveryConfig struct {
	QueueDepth int `yaml:"queue_depth" env:"FOROM_DELIVERY_QUEUE_DEPTH"`
	Workers    int `yaml:"workers" env:"FOROM_DELIVERY_WORKERS"`
}

// Defaults returns a Config with sensible defaults.
func Defaults() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:     "forom",
			LogLevel: "info",
		},
		Listen: ":3000",
		Delivery: DeliveryConfig{
			QueueDepth: 256,
			Workers:    4,
		},
	}
}
