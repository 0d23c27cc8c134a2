package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// credentialAliases binds conventional credential variables alongside the
// prefixed ones
var credentialAliases = map[string][]string{
	"openai.api_key":         {"OPENAI_API_KEY"},
	"gemini.api_key":         {"GEMINI_API_KEY"},
	"tts.elevenlabs.api_key": {"ELEVEN_LABS_KEY", "ELEVENLABS_API_KEY"},
	"google.access_token":    {"GOOGLE_ACCESS_TOKEN"},
}

// New creates a new configuration instance
func New() (*Config, error) {
	return NewWithFile("")
}

// NewWithFile creates a configuration instance, reading path when it is set
// and searching the standard locations otherwise
func NewWithFile(path string) (*Config, error) {
	v := NewEmptyViper()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/inbox-radio/")
		v.AddConfigPath("$HOME/.inbox-radio")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults and environment
// bindings but no config file
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	// Environment variables
	v.SetEnvPrefix("INBOX_RADIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range credentialAliases {
		prefixed := "INBOX_RADIO_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		_ = v.BindEnv(append([]string{key, prefixed}, names...)...)
	}
	return v
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// LLM provider defaults
	v.SetDefault("llm.provider", "openai")

	// OpenAI defaults
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.model_name", "gpt-4o-mini")
	v.SetDefault("openai.top_p", 1.0)

	// Gemini defaults
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model_name", "gemini-1.5-flash")
	v.SetDefault("gemini.top_p", 0.95)

	// Bedrock defaults
	v.SetDefault("bedrock.region", "us-east-1")
	v.SetDefault("bedrock.model_id", "anthropic.claude-3-haiku-20240307-v1:0")
	v.SetDefault("bedrock.top_p", 0.9)

	// Pipeline stage defaults
	v.SetDefault("extraction.max_tokens", 1500)
	v.SetDefault("extraction.temperature", 0.1)
	v.SetDefault("script.max_tokens", 1000)
	v.SetDefault("script.temperature", 0.6)
	v.SetDefault("speech.pause_strategy", "paragraph")
	v.SetDefault("speech.terminal_punctuation", true)

	v.SetDefault("normalize.raw_limit", 3000)
	v.SetDefault("normalize.raw_prefix", 1000)
	v.SetDefault("normalize.max_content", 600)
	v.SetDefault("normalize.workers", 4)

	v.SetDefault("digest.mode", "auto")
	v.SetDefault("digest.evening_cutoff_hour", 17)
	v.SetDefault("digest.timezone", "Local")
	v.SetDefault("digest.voice_id", "")

	// TTS defaults
	v.SetDefault("tts.elevenlabs.api_key", "")
	v.SetDefault("tts.elevenlabs.base_url", "https://api.elevenlabs.io")
	v.SetDefault("tts.elevenlabs.model_id", "eleven_multilingual_v2")
	v.SetDefault("tts.elevenlabs.voice_id", "EXAVITQu4vr4xnSDxMaL")
	v.SetDefault("tts.elevenlabs.output_format", "mp3_44100_128")
	v.SetDefault("tts.elevenlabs.stability", 0.25)
	v.SetDefault("tts.elevenlabs.similarity_boost", 0.7)
	v.SetDefault("tts.elevenlabs.style", 0.3)
	v.SetDefault("tts.elevenlabs.use_speaker_boost", false)
	v.SetDefault("tts.elevenlabs.timeout", "60s")

	v.SetDefault("tts.openai.api_key", "")
	v.SetDefault("tts.openai.model", "tts-1-hd")
	v.SetDefault("tts.openai.voice", "nova")
	v.SetDefault("tts.openai.format", "mp3")
	v.SetDefault("tts.openai.speed", 1.0)

	// Source defaults
	v.SetDefault("google.access_token", "")
	v.SetDefault("google.query", "is:unread category:primary")
	v.SetDefault("google.max_results", 8)
	v.SetDefault("google.lookback_days", 3)
	v.SetDefault("google.calendar_id", "primary")

	v.SetDefault("smtp_inbox.listen_address", "127.0.0.1:2525")
	v.SetDefault("smtp_inbox.domain", "localhost")
	v.SetDefault("smtp_inbox.max_message_bytes", 10*1024*1024)
	v.SetDefault("smtp_inbox.max_recipients", 50)
	v.SetDefault("smtp_inbox.read_timeout", "10s")
	v.SetDefault("smtp_inbox.write_timeout", "10s")
	v.SetDefault("smtp_inbox.output_dir", ".")

	v.SetDefault("mute.domains", []string{})

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.listen_address", "127.0.0.1:9090")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetFloat64 gets a float64 value from the configuration
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringSlice gets a string slice value from the configuration
func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

// GetDuration gets a duration value from the configuration
func (c *Config) GetDuration(key string) (time.Duration, error) {
	return time.ParseDuration(c.GetString(key))
}

// Set overrides a configuration value, typically from a command-line flag
func (c *Config) Set(key string, value any) {
	c.v.Set(key, value)
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
