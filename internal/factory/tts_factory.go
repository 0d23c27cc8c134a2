package factory

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/mikey/inbox-radio/internal/adapters/elevenlabs"
	openaiadapter "github.com/mikey/inbox-radio/internal/adapters/openai"
	"github.com/mikey/inbox-radio/internal/config"
	"github.com/mikey/inbox-radio/internal/core"
)

// TTSKind names a text-to-speech backend
type TTSKind string

const (
	// TTSPremium is the ElevenLabs backend
	TTSPremium TTSKind = elevenlabs.ProviderName
	// TTSStandard is the OpenAI speech backend
	TTSStandard TTSKind = "openai"
)

// TTSCredentials are the keys that decide which backend is usable
type TTSCredentials struct {
	ElevenLabsKey string
	OpenAIKey     string
}

// SelectTTSProvider picks the premium backend when its key is present,
// then the standard one.
func SelectTTSProvider(creds TTSCredentials) (TTSKind, error) {
	switch {
	case strings.TrimSpace(creds.ElevenLabsKey) != "":
		return TTSPremium, nil
	case strings.TrimSpace(creds.OpenAIKey) != "":
		return TTSStandard, nil
	default:
		return "", core.ErrNoProviderConfigured
	}
}

// AvailableTTSProviders lists every backend with a key, in preference order
func AvailableTTSProviders(creds TTSCredentials) []TTSKind {
	available := []TTSKind{}
	if strings.TrimSpace(creds.ElevenLabsKey) != "" {
		available = append(available, TTSPremium)
	}
	if strings.TrimSpace(creds.OpenAIKey) != "" {
		available = append(available, TTSStandard)
	}
	return available
}

// TTSFactory creates text-to-speech providers
type TTSFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewTTSFactory creates a new TTS factory
func NewTTSFactory(cfg *config.Config, logger *zap.Logger) *TTSFactory {
	return &TTSFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// Credentials reads the backend keys from the configuration
func (f *TTSFactory) Credentials() TTSCredentials {
	return TTSCredentials{
		ElevenLabsKey: f.cfg.GetString("tts.elevenlabs.api_key"),
		OpenAIKey:     f.cfg.GetOpenAITTS().APIKey,
	}
}

// CreateTTSProvider creates the preferred configured provider. It returns
// core.ErrNoProviderConfigured when no key is present.
func (f *TTSFactory) CreateTTSProvider() (core.TTSProvider, error) {
	kind, err := SelectTTSProvider(f.Credentials())
	if err != nil {
		return nil, err
	}

	switch kind {
	case TTSPremium:
		elCfg, err := f.cfg.GetElevenLabs()
		if err != nil {
			return nil, fmt.Errorf("invalid elevenlabs configuration: %w", err)
		}
		return elevenlabs.NewProvider(elevenlabs.Options{
			APIKey:          elCfg.APIKey,
			BaseURL:         elCfg.BaseURL,
			ModelID:         elCfg.ModelID,
			VoiceID:         elCfg.VoiceID,
			OutputFormat:    elCfg.OutputFormat,
			Stability:       elCfg.Stability,
			SimilarityBoost: elCfg.SimilarityBoost,
			Style:           elCfg.Style,
			UseSpeakerBoost: elCfg.UseSpeakerBoost,
			Timeout:         elCfg.Timeout,
		}, f.logger), nil
	case TTSStandard:
		ttsCfg := f.cfg.GetOpenAITTS()
		return openaiadapter.NewSpeechProvider(openai.NewClient(ttsCfg.APIKey), openaiadapter.SpeechOptions{
			Model:  ttsCfg.Model,
			Voice:  ttsCfg.Voice,
			Format: ttsCfg.Format,
			Speed:  ttsCfg.Speed,
		}, f.logger), nil
	}
	return nil, errors.New("unknown TTS provider: " + string(kind))
}
