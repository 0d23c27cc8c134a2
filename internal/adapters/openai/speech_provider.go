package openai

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/mikey/inbox-radio/internal/core"
)

// ProviderName identifies the standard voice backend
const ProviderName = "openai"

// builtinVoices are the voice names the speech endpoint accepts
var builtinVoices = map[string]openai.SpeechVoice{
	"alloy":   openai.VoiceAlloy,
	"echo":    openai.VoiceEcho,
	"fable":   openai.VoiceFable,
	"onyx":    openai.VoiceOnyx,
	"nova":    openai.VoiceNova,
	"shimmer": openai.VoiceShimmer,
}

// SpeechOptions are the fixed synthesis parameters of the standard voice
type SpeechOptions struct {
	Model  string
	Voice  string
	Format string
	Speed  float64
}

// SpeechProvider implements core.TTSProvider with the OpenAI speech endpoint
type SpeechProvider struct {
	client *openai.Client
	opts   SpeechOptions
	logger *zap.Logger
}

// NewSpeechProvider creates a new standard voice provider
func NewSpeechProvider(client *openai.Client, opts SpeechOptions, logger *zap.Logger) *SpeechProvider {
	if opts.Model == "" {
		opts.Model = string(openai.TTSModel1HD)
	}
	if opts.Voice == "" {
		opts.Voice = string(openai.VoiceNova)
	}
	if opts.Format == "" {
		opts.Format = string(openai.SpeechResponseFormatMp3)
	}
	if opts.Speed <= 0 {
		opts.Speed = 1.0
	}
	return &SpeechProvider{client: client, opts: opts, logger: logger}
}

// Name returns the provider name
func (p *SpeechProvider) Name() string {
	return ProviderName
}

// Synthesize converts text to audio. voiceID is honoured only when it names
// one of the built-in voices; anything else uses the configured voice.
func (p *SpeechProvider) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	voice := openai.SpeechVoice(p.opts.Voice)
	if v, ok := builtinVoices[strings.ToLower(strings.TrimSpace(voiceID))]; ok {
		voice = v
	} else if voiceID != "" {
		p.logger.Debug("Ignoring voice not offered by OpenAI", zap.String("voice_id", voiceID))
	}

	resp, err := p.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(p.opts.Model),
		Input:          text,
		Voice:          voice,
		ResponseFormat: openai.SpeechResponseFormat(p.opts.Format),
		Speed:          p.opts.Speed,
	})
	if err != nil {
		return nil, &core.TTSProviderError{Provider: ProviderName, StatusCode: statusCode(err), Err: err}
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, &core.TTSProviderError{Provider: ProviderName, Err: err}
	}

	p.logger.Debug("Synthesized speech",
		zap.String("provider", ProviderName),
		zap.String("voice", string(voice)),
		zap.Int("characters", len(text)),
		zap.Int("audio_bytes", len(audio)))
	return audio, nil
}

// statusCode extracts the HTTP status from go-openai errors
func statusCode(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}
