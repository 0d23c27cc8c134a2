package factory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/mikey/inbox-radio/internal/adapters/elevenlabs"
	openaiadapter "github.com/mikey/inbox-radio/internal/adapters/openai"
	"github.com/mikey/inbox-radio/internal/config"
	"github.com/mikey/inbox-radio/internal/core"
)

func newConfig(t *testing.T, values map[string]any) *config.Config {
	t.Helper()
	cfg := config.NewFromViper(config.NewEmptyViper())
	for _, key := range []string{"openai.api_key", "gemini.api_key", "tts.elevenlabs.api_key", "tts.openai.api_key", "google.access_token"} {
		cfg.Set(key, "")
	}
	for k, v := range values {
		cfg.Set(k, v)
	}
	return cfg
}

func TestSelectTTSProvider(t *testing.T) {
	tests := []struct {
		name    string
		creds   TTSCredentials
		want    TTSKind
		wantErr error
	}{
		{name: "premium only", creds: TTSCredentials{ElevenLabsKey: "el"}, want: TTSPremium},
		{name: "premium preferred", creds: TTSCredentials{ElevenLabsKey: "el", OpenAIKey: "oa"}, want: TTSPremium},
		{name: "standard only", creds: TTSCredentials{OpenAIKey: "oa"}, want: TTSStandard},
		{name: "blank premium key", creds: TTSCredentials{ElevenLabsKey: "  ", OpenAIKey: "oa"}, want: TTSStandard},
		{name: "none", creds: TTSCredentials{}, wantErr: core.ErrNoProviderConfigured},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectTTSProvider(tt.creds)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAvailableTTSProviders(t *testing.T) {
	assert.Equal(t, []TTSKind{TTSPremium, TTSStandard}, AvailableTTSProviders(TTSCredentials{ElevenLabsKey: "a", OpenAIKey: "b"}))
	assert.Equal(t, []TTSKind{TTSStandard}, AvailableTTSProviders(TTSCredentials{OpenAIKey: "b"}))
	assert.Empty(t, AvailableTTSProviders(TTSCredentials{}))
}

func TestTTSFactory(t *testing.T) {
	logger := zaptest.NewLogger(t)

	p, err := NewTTSFactory(newConfig(t, map[string]any{"tts.elevenlabs.api_key": "el"}), logger).CreateTTSProvider()
	require.NoError(t, err)
	assert.IsType(t, &elevenlabs.Provider{}, p)

	p, err = NewTTSFactory(newConfig(t, map[string]any{"openai.api_key": "oa"}), logger).CreateTTSProvider()
	require.NoError(t, err)
	assert.IsType(t, &openaiadapter.SpeechProvider{}, p)
	assert.Equal(t, "openai", p.Name())

	_, err = NewTTSFactory(newConfig(t, nil), logger).CreateTTSProvider()
	require.ErrorIs(t, err, core.ErrNoProviderConfigured)
}

func TestLLMFactoryErrors(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		errText  string
	}{
		{name: "unknown provider", provider: "llama", errText: "unsupported LLM provider"},
		{name: "openai without key", provider: "openai", errText: "openai API key is required"},
		{name: "gemini without key", provider: "gemini", errText: "gemini API key is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewLLMFactory(newConfig(t, map[string]any{"llm.provider": tt.provider}), zaptest.NewLogger(t))
			client, err := f.CreateLLMClient()
			require.Error(t, err)
			assert.Nil(t, client)
			assert.Contains(t, err.Error(), tt.errText)
		})
	}
}

func TestLLMFactoryOpenAI(t *testing.T) {
	f := NewLLMFactory(newConfig(t, map[string]any{"llm.provider": "OpenAI", "openai.api_key": "k"}), zaptest.NewLogger(t))
	client, err := f.CreateLLMClient()
	require.NoError(t, err)
	assert.IsType(t, &openaiadapter.ChatClient{}, client)
}

func TestSourceFactoryRequiresToken(t *testing.T) {
	f := NewSourceFactory(newConfig(t, nil), zaptest.NewLogger(t))
	_, err := f.CreateMailSource(context.Background())
	require.ErrorIs(t, err, ErrNoAccessToken)
	_, err = f.CreateCalendarSource(context.Background())
	require.ErrorIs(t, err, ErrNoAccessToken)
}
