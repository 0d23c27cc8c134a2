package openai

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/mikey/inbox-radio/internal/core"
)

// ChatClient is an implementation of the LLMClient interface using OpenAI
type ChatClient struct {
	client    *openai.Client
	modelName string
	topP      float32
	logger    *zap.Logger
}

// NewChatClient creates a new OpenAI chat client
func NewChatClient(client *openai.Client, modelName string, topP float32, logger *zap.Logger) *ChatClient {
	return &ChatClient{
		client:    client,
		modelName: modelName,
		topP:      topP,
		logger:    logger,
	}
}

// Complete sends one system and user prompt pair to the chat completions API
func (c *ChatClient) Complete(ctx context.Context, systemPrompt, userPrompt string, opts core.CompletionOptions) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userPrompt,
			},
		},
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
		TopP:        c.topP,
	}
	if opts.JSONMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	// Call OpenAI API
	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty response from OpenAI")
	}

	c.logger.Debug("OpenAI completion finished",
		zap.String("model", c.modelName),
		zap.String("response_id", resp.ID),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens))

	return resp.Choices[0].Message.Content, nil
}
