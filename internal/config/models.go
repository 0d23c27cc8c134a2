package config

import (
	"fmt"
	"strings"
	"time"
)

// LLMConfig represents the configuration for the LLM provider
type LLMConfig struct {
	Provider string
}

// OpenAIConfig represents the configuration for OpenAI chat completions
type OpenAIConfig struct {
	APIKey    string
	ModelName string
	TopP      float32
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey    string
	ModelName string
	TopP      float32
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region  string
	ModelID string
	TopP    float32
}

// CompletionConfig tunes one of the two LLM calls of a run
type CompletionConfig struct {
	MaxTokens   int
	Temperature float32
}

// SpeechConfig configures the TTS pre-processor
type SpeechConfig struct {
	PauseStrategy       string
	TerminalPunctuation bool
}

// NormalizeConfig bounds message bodies and normalization parallelism
type NormalizeConfig struct {
	RawLimit   int
	RawPrefix  int
	MaxContent int
	Workers    int
}

// DigestConfig holds per-run defaults
type DigestConfig struct {
	Mode              string
	EveningCutoffHour int
	Location          *time.Location
	VoiceID           string
}

// ElevenLabsConfig represents the configuration for the premium voice backend
type ElevenLabsConfig struct {
	APIKey          string
	BaseURL         string
	ModelID         string
	VoiceID         string
	OutputFormat    string
	Stability       float64
	SimilarityBoost float64
	Style           float64
	UseSpeakerBoost bool
	Timeout         time.Duration
}

// OpenAITTSConfig represents the configuration for the standard voice backend
type OpenAITTSConfig struct {
	APIKey string
	Model  string
	Voice  string
	Format string
	Speed  float64
}

// GoogleConfig represents the configuration for the Gmail and Calendar sources
type GoogleConfig struct {
	AccessToken  string
	Query        string
	MaxResults   int
	LookbackDays int
	CalendarID   string
}

// SMTPInboxConfig represents the configuration for the SMTP drop-box
type SMTPInboxConfig struct {
	ListenAddress   string
	Domain          string
	MaxMessageBytes int64
	MaxRecipients   int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	OutputDir       string
}

// MetricsConfig represents the configuration for the Prometheus endpoint
type MetricsConfig struct {
	Enabled       bool
	ListenAddress string
}

// GetLLM returns the LLM configuration
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		Provider: strings.ToLower(c.GetString("llm.provider")),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:    c.GetString("openai.api_key"),
		ModelName: c.GetString("openai.model_name"),
		TopP:      float32(c.GetFloat64("openai.top_p")),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:    c.GetString("gemini.api_key"),
		ModelName: c.GetString("gemini.model_name"),
		TopP:      float32(c.GetFloat64("gemini.top_p")),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:  c.GetString("bedrock.region"),
		ModelID: c.GetString("bedrock.model_id"),
		TopP:    float32(c.GetFloat64("bedrock.top_p")),
	}
}

// GetExtraction returns the tuning of the extraction call
func (c *Config) GetExtraction() CompletionConfig {
	return c.completion("extraction")
}

// GetScript returns the tuning of the script call
func (c *Config) GetScript() CompletionConfig {
	return c.completion("script")
}

func (c *Config) completion(prefix string) CompletionConfig {
	return CompletionConfig{
		MaxTokens:   c.GetInt(prefix + ".max_tokens"),
		Temperature: float32(c.GetFloat64(prefix + ".temperature")),
	}
}

// GetSpeech returns the TTS pre-processor configuration
func (c *Config) GetSpeech() SpeechConfig {
	return SpeechConfig{
		PauseStrategy:       c.GetString("speech.pause_strategy"),
		TerminalPunctuation: c.GetBool("speech.terminal_punctuation"),
	}
}

// GetNormalize returns the normalization configuration
func (c *Config) GetNormalize() NormalizeConfig {
	return NormalizeConfig{
		RawLimit:   c.GetInt("normalize.raw_limit"),
		RawPrefix:  c.GetInt("normalize.raw_prefix"),
		MaxContent: c.GetInt("normalize.max_content"),
		Workers:    c.GetInt("normalize.workers"),
	}
}

// GetDigest returns the per-run defaults
func (c *Config) GetDigest() (DigestConfig, error) {
	loc, err := loadLocation(c.GetString("digest.timezone"))
	if err != nil {
		return DigestConfig{}, err
	}
	return DigestConfig{
		Mode:              c.GetString("digest.mode"),
		EveningCutoffHour: c.GetInt("digest.evening_cutoff_hour"),
		Location:          loc,
		VoiceID:           c.GetString("digest.voice_id"),
	}, nil
}

func loadLocation(name string) (*time.Location, error) {
	switch strings.TrimSpace(name) {
	case "", "Local", "local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid digest.timezone %q: %w", name, err)
	}
	return loc, nil
}

// GetElevenLabs returns the premium voice configuration
func (c *Config) GetElevenLabs() (ElevenLabsConfig, error) {
	timeout, err := c.GetDuration("tts.elevenlabs.timeout")
	if err != nil {
		return ElevenLabsConfig{}, fmt.Errorf("invalid tts.elevenlabs.timeout: %w", err)
	}
	return ElevenLabsConfig{
		APIKey:          strings.TrimSpace(c.GetString("tts.elevenlabs.api_key")),
		BaseURL:         c.GetString("tts.elevenlabs.base_url"),
		ModelID:         c.GetString("tts.elevenlabs.model_id"),
		VoiceID:         c.GetString("tts.elevenlabs.voice_id"),
		OutputFormat:    c.GetString("tts.elevenlabs.output_format"),
		Stability:       c.GetFloat64("tts.elevenlabs.stability"),
		SimilarityBoost: c.GetFloat64("tts.elevenlabs.similarity_boost"),
		Style:           c.GetFloat64("tts.elevenlabs.style"),
		UseSpeakerBoost: c.GetBool("tts.elevenlabs.use_speaker_boost"),
		Timeout:         timeout,
	}, nil
}

// GetOpenAITTS returns the standard voice configuration. The chat API key
// is used when no dedicated speech key is set.
func (c *Config) GetOpenAITTS() OpenAITTSConfig {
	key := strings.TrimSpace(c.GetString("tts.openai.api_key"))
	if key == "" {
		key = strings.TrimSpace(c.GetString("openai.api_key"))
	}
	return OpenAITTSConfig{
		APIKey: key,
		Model:  c.GetString("tts.openai.model"),
		Voice:  c.GetString("tts.openai.voice"),
		Format: c.GetString("tts.openai.format"),
		Speed:  c.GetFloat64("tts.openai.speed"),
	}
}

// GetGoogle returns the Gmail and Calendar source configuration
func (c *Config) GetGoogle() GoogleConfig {
	return GoogleConfig{
		AccessToken:  strings.TrimSpace(c.GetString("google.access_token")),
		Query:        c.GetString("google.query"),
		MaxResults:   c.GetInt("google.max_results"),
		LookbackDays: c.GetInt("google.lookback_days"),
		CalendarID:   c.GetString("google.calendar_id"),
	}
}

// GetSMTPInbox returns the SMTP drop-box configuration
func (c *Config) GetSMTPInbox() (SMTPInboxConfig, error) {
	readTimeout, err := c.GetDuration("smtp_inbox.read_timeout")
	if err != nil {
		return SMTPInboxConfig{}, fmt.Errorf("invalid smtp_inbox.read_timeout: %w", err)
	}
	writeTimeout, err := c.GetDuration("smtp_inbox.write_timeout")
	if err != nil {
		return SMTPInboxConfig{}, fmt.Errorf("invalid smtp_inbox.write_timeout: %w", err)
	}
	return SMTPInboxConfig{
		ListenAddress:   c.GetString("smtp_inbox.listen_address"),
		Domain:          c.GetString("smtp_inbox.domain"),
		MaxMessageBytes: int64(c.GetInt("smtp_inbox.max_message_bytes")),
		MaxRecipients:   c.GetInt("smtp_inbox.max_recipients"),
		ReadTimeout:     readTimeout,
		WriteTimeout:    writeTimeout,
		OutputDir:       c.GetString("smtp_inbox.output_dir"),
	}, nil
}

// GetMuteDomains returns the sender domains excluded from digests
func (c *Config) GetMuteDomains() []string {
	return c.GetStringSlice("mute.domains")
}

// GetMetrics returns the metrics configuration
func (c *Config) GetMetrics() MetricsConfig {
	return MetricsConfig{
		Enabled:       c.GetBool("metrics.enabled"),
		ListenAddress: c.GetString("metrics.listen_address"),
	}
}
