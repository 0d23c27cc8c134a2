package factory

import (
	"errors"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	openaiadapter "github.com/mikey/inbox-radio/internal/adapters/openai"
	"github.com/mikey/inbox-radio/internal/config"
	"github.com/mikey/inbox-radio/internal/core"
)

// OpenAIFactory creates OpenAI LLM clients
type OpenAIFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewOpenAIFactory creates a new OpenAI factory
func NewOpenAIFactory(cfg *config.Config, logger *zap.Logger) *OpenAIFactory {
	return &OpenAIFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateLLMClient creates an OpenAI LLM client
func (f *OpenAIFactory) CreateLLMClient() (core.LLMClient, error) {
	openaiCfg := f.cfg.GetOpenAI()
	if openaiCfg.APIKey == "" {
		return nil, errors.New("openai API key is required")
	}

	client := openai.NewClient(openaiCfg.APIKey)
	return openaiadapter.NewChatClient(client, openaiCfg.ModelName, openaiCfg.TopP, f.logger), nil
}
