package di

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/inbox-radio/internal/config"
	"github.com/mikey/inbox-radio/internal/core"
	"github.com/mikey/inbox-radio/internal/extract"
	"github.com/mikey/inbox-radio/internal/factory"
	"github.com/mikey/inbox-radio/internal/metrics"
	"github.com/mikey/inbox-radio/internal/mute"
	"github.com/mikey/inbox-radio/internal/normalize"
	"github.com/mikey/inbox-radio/internal/ports"
	"github.com/mikey/inbox-radio/internal/script"
	"github.com/mikey/inbox-radio/internal/speech"
	"github.com/mikey/inbox-radio/internal/utils"
)

// BuildContainer creates and configures a dependency injection container.
// Providers are resolved lazily on Invoke.
func BuildContainer(cfg *config.Config, logger *zap.Logger) (*dig.Container, error) {
	container := dig.New()

	// Register configuration and logger
	if err := container.Provide(func() *config.Config { return cfg }); err != nil {
		return nil, err
	}
	if err := container.Provide(func() *zap.Logger { return logger }); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewLLMFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewTTSFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewSourceFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}

	if err := container.Provide(func() *Closers { return &Closers{} }); err != nil {
		return nil, err
	}

	// Register LLM client
	if err := container.Provide(func(f *factory.LLMFactory, closers *Closers) (core.LLMClient, error) {
		client, err := f.CreateLLMClient()
		if err != nil {
			return nil, err
		}
		closers.Track(client)
		return client, nil
	}); err != nil {
		return nil, err
	}

	// Register TTS provider
	if err := container.Provide(func(f *factory.TTSFactory, logger *zap.Logger) (core.TTSProvider, error) {
		provider, err := f.CreateTTSProvider()
		if errors.Is(err, core.ErrNoProviderConfigured) {
			logger.Warn("No TTS provider configured", zap.Strings("keys", []string{"tts.elevenlabs.api_key", "tts.openai.api_key"}))
		}
		return provider, err
	}); err != nil {
		return nil, err
	}

	// Register pipeline stages
	if err := container.Provide(func(cfg *config.Config, tp *utils.TextProcessor, logger *zap.Logger) core.EmailNormalizer {
		n := cfg.GetNormalize()
		cleaner := normalize.NewCleaner(normalize.CleanOptions{
			RawLimit:   n.RawLimit,
			RawPrefix:  n.RawPrefix,
			MaxContent: n.MaxContent,
		}, tp)
		return normalize.NewEmailNormalizer(cleaner, logger)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) (core.EventNormalizer, error) {
		digestCfg, err := cfg.GetDigest()
		if err != nil {
			return nil, err
		}
		return normalize.NewEventNormalizer(digestCfg.Location, logger), nil
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(cfg *config.Config, llm core.LLMClient, logger *zap.Logger) core.SummaryExtractor {
		c := cfg.GetExtraction()
		return extract.NewExtractor(llm, extract.Options{MaxTokens: c.MaxTokens, Temperature: c.Temperature}, logger)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(cfg *config.Config, llm core.LLMClient, logger *zap.Logger) core.ScriptWriter {
		c := cfg.GetScript()
		return script.NewGenerator(llm, script.Options{MaxTokens: c.MaxTokens, Temperature: c.Temperature}, logger)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(cfg *config.Config) (core.SpeechFormatter, error) {
		speechCfg := cfg.GetSpeech()
		strategy, err := speech.ParsePauseStrategy(speechCfg.PauseStrategy)
		if err != nil {
			return nil, err
		}
		p := speech.NewPreprocessor(strategy)
		p.TerminalPunctuation = speechCfg.TerminalPunctuation
		return p, nil
	}); err != nil {
		return nil, err
	}

	// Register metrics
	if err := container.Provide(prometheus.NewRegistry); err != nil {
		return nil, err
	}
	if err := container.Provide(func(reg *prometheus.Registry) *metrics.Observer {
		return metrics.NewObserver(reg)
	}); err != nil {
		return nil, err
	}

	// Register mute checker
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *mute.Checker {
		domains := cfg.GetMuteDomains()
		if len(domains) > 0 {
			logger.Info("Loaded muted domains", zap.Strings("domains", domains))
		}
		return mute.NewChecker(domains, logger)
	}); err != nil {
		return nil, err
	}

	// Register digest service. dig builds parameters in order, so the TTS
	// provider resolves before anything that needs an LLM client.
	if err := container.Provide(func(
		tts core.TTSProvider,
		cfg *config.Config,
		emails core.EmailNormalizer,
		events core.EventNormalizer,
		extractor core.SummaryExtractor,
		writer core.ScriptWriter,
		formatter core.SpeechFormatter,
		observer *metrics.Observer,
		logger *zap.Logger,
	) (*core.DigestService, error) {
		digestCfg, err := cfg.GetDigest()
		if err != nil {
			return nil, err
		}
		loc := digestCfg.Location
		return core.NewDigestService(emails, events, extractor, writer, formatter, tts, logger, core.ServiceOptions{
			Workers:           cfg.GetNormalize().Workers,
			EveningCutoffHour: digestCfg.EveningCutoffHour,
			Now:               func() time.Time { return time.Now().In(loc) },
			Observer:          observer,
		}), nil
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(s *core.DigestService) ports.DigestRunner { return s }); err != nil {
		return nil, err
	}

	return container, nil
}
