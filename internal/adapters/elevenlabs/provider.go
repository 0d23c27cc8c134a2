package elevenlabs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/mikey/inbox-radio/internal/core"
)

// ProviderName identifies the premium voice backend
const ProviderName = "elevenlabs"

// DefaultBaseURL is the public API endpoint
const DefaultBaseURL = "https://api.elevenlabs.io"

// Options configure the premium voice backend
type Options struct {
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

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

type speechRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

// Provider implements core.TTSProvider against the ElevenLabs REST API
type Provider struct {
	client *resty.Client
	opts   Options
	logger *zap.Logger
}

// NewProvider creates a new premium voice provider
func NewProvider(opts Options, logger *zap.Logger) *Provider {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.ModelID == "" {
		opts.ModelID = "eleven_multilingual_v2"
	}
	if opts.VoiceID == "" {
		opts.VoiceID = DefaultVoiceID
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "audio/mpeg").
		SetHeader("xi-api-key", opts.APIKey).
		SetTimeout(opts.Timeout)

	return &Provider{client: client, opts: opts, logger: logger}
}

// Name returns the provider name
func (p *Provider) Name() string {
	return ProviderName
}

// Synthesize converts text to audio with the given voice, or the configured
// voice when voiceID is empty
func (p *Provider) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	voice := strings.TrimSpace(voiceID)
	if voice == "" {
		voice = p.opts.VoiceID
	}

	req := p.client.R().
		SetContext(ctx).
		SetPathParam("voice_id", voice).
		SetBody(&speechRequest{
			Text:    text,
			ModelID: p.opts.ModelID,
			VoiceSettings: voiceSettings{
				Stability:       p.opts.Stability,
				SimilarityBoost: p.opts.SimilarityBoost,
				Style:           p.opts.Style,
				UseSpeakerBoost: p.opts.UseSpeakerBoost,
			},
		})
	if p.opts.OutputFormat != "" {
		req.SetQueryParam("output_format", p.opts.OutputFormat)
	}

	resp, err := req.Post("/v1/text-to-speech/{voice_id}")
	if err != nil {
		return nil, &core.TTSProviderError{Provider: ProviderName, Err: fmt.Errorf("request failed: %w", err)}
	}
	if resp.IsError() {
		return nil, &core.TTSProviderError{
			Provider:   ProviderName,
			StatusCode: resp.StatusCode(),
			Err:        fmt.Errorf("%s: %s", http.StatusText(resp.StatusCode()), strings.TrimSpace(resp.String())),
		}
	}

	audio := resp.Body()
	if len(audio) == 0 {
		return nil, &core.TTSProviderError{Provider: ProviderName, StatusCode: resp.StatusCode(), Err: errors.New("empty audio response")}
	}

	p.logger.Debug("Synthesized speech",
		zap.String("provider", ProviderName),
		zap.String("voice", voice),
		zap.Int("characters", len(text)),
		zap.Int("audio_bytes", len(audio)))
	return audio, nil
}
