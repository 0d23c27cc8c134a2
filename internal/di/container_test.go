package di

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/dig"
	"go.uber.org/zap/zaptest"

	"github.com/mikey/inbox-radio/internal/config"
	"github.com/mikey/inbox-radio/internal/core"
	"github.com/mikey/inbox-radio/internal/mute"
	"github.com/mikey/inbox-radio/internal/ports"
)

func testConfig(values map[string]any) *config.Config {
	cfg := config.NewFromViper(config.NewEmptyViper())
	for _, key := range []string{"openai.api_key", "gemini.api_key", "tts.elevenlabs.api_key", "tts.openai.api_key", "google.access_token"} {
		cfg.Set(key, "")
	}
	cfg.Set("digest.timezone", "UTC")
	for k, v := range values {
		cfg.Set(k, v)
	}
	return cfg
}

func TestBuildContainerDigestRunner(t *testing.T) {
	cfg := testConfig(map[string]any{
		"llm.provider":   "openai",
		"openai.api_key": "sk-test",
		"mute.domains":   []string{"News.example.com"},
	})
	container, err := BuildContainer(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	err = container.Invoke(func(runner ports.DigestRunner, checker *mute.Checker, reg *prometheus.Registry) {
		assert.Equal(t, "openai", runner.ProviderName())
		assert.Equal(t, []string{"news.example.com"}, checker.Domains())
		assert.NotNil(t, reg)
	})
	require.NoError(t, err)
}

func TestBuildContainerPremiumVoice(t *testing.T) {
	cfg := testConfig(map[string]any{
		"openai.api_key":         "sk-test",
		"tts.elevenlabs.api_key": "el-test",
	})
	container, err := BuildContainer(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	err = container.Invoke(func(runner ports.DigestRunner) {
		assert.Equal(t, "elevenlabs", runner.ProviderName())
	})
	require.NoError(t, err)
}

func TestBuildContainerWithoutVoice(t *testing.T) {
	container, err := BuildContainer(testConfig(nil), zaptest.NewLogger(t))
	require.NoError(t, err)

	err = container.Invoke(func(core.TTSProvider) {})
	require.Error(t, err)
	assert.ErrorIs(t, dig.RootCause(err), core.ErrNoProviderConfigured)
}

func TestBuildContainerVoiceCheckedBeforeLLM(t *testing.T) {
	// no key at all: the default openai chat client cannot be built either
	container, err := BuildContainer(testConfig(nil), zaptest.NewLogger(t))
	require.NoError(t, err)

	err = container.Invoke(func(ports.DigestRunner) {})
	require.Error(t, err)
	assert.ErrorIs(t, dig.RootCause(err), core.ErrNoProviderConfigured)
	assert.NotContains(t, err.Error(), "openai API key is required")
}

func TestBuildContainerMissingLLMKey(t *testing.T) {
	cfg := testConfig(map[string]any{
		"llm.provider":           "gemini",
		"tts.elevenlabs.api_key": "el-test",
	})
	container, err := BuildContainer(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	err = container.Invoke(func(ports.DigestRunner) {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini API key is required")
}

func TestBuildContainerBadPauseStrategy(t *testing.T) {
	container, err := BuildContainer(testConfig(map[string]any{"speech.pause_strategy": "drumroll"}), zaptest.NewLogger(t))
	require.NoError(t, err)

	err = container.Invoke(func(core.SpeechFormatter) {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown pause strategy")
}
