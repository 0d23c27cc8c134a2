package factory

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/mikey/inbox-radio/internal/adapters/gemini"
	"github.com/mikey/inbox-radio/internal/config"
	"github.com/mikey/inbox-radio/internal/core"
)

// GeminiFactory creates Gemini LLM clients
type GeminiFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewGeminiFactory creates a new Gemini factory
func NewGeminiFactory(cfg *config.Config, logger *zap.Logger) *GeminiFactory {
	return &GeminiFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateLLMClient creates a Gemini LLM client
func (f *GeminiFactory) CreateLLMClient() (core.LLMClient, error) {
	geminiCfg := f.cfg.GetGemini()
	if geminiCfg.APIKey == "" {
		return nil, errors.New("gemini API key is required")
	}

	return gemini.NewClient(context.Background(), geminiCfg.APIKey, geminiCfg.ModelName, geminiCfg.TopP, f.logger)
}
