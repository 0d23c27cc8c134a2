package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"go.uber.org/zap"

	"github.com/mikey/inbox-radio/internal/core"
)

const anthropicVersion = "bedrock-2023-05-31"

// ModelInvoker is the part of the Bedrock runtime client used here
type ModelInvoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// Client is an implementation of the LLMClient interface using Amazon Bedrock
type Client struct {
	client  ModelInvoker
	modelID string
	topP    float32
	logger  *zap.Logger
}

// NewClient creates a new Bedrock client
func NewClient(client ModelInvoker, modelID string, topP float32, logger *zap.Logger) *Client {
	return &Client{
		client:  client,
		modelID: modelID,
		topP:    topP,
		logger:  logger,
	}
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	AnthropicVersion string             `json:"anthropic_version"`
	MaxTokens        int                `json:"max_tokens"`
	System           string             `json:"system,omitempty"`
	Messages         []anthropicMessage `json:"messages"`
	Temperature      float32            `json:"temperature"`
	TopP             float32            `json:"top_p,omitempty"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

type titanConfig struct {
	MaxTokenCount int     `json:"maxTokenCount"`
	Temperature   float32 `json:"temperature"`
	TopP          float32 `json:"topP,omitempty"`
}

type titanRequest struct {
	InputText            string      `json:"inputText"`
	TextGenerationConfig titanConfig `json:"textGenerationConfig"`
}

type titanResponse struct {
	Results []struct {
		OutputText string `json:"outputText"`
	} `json:"results"`
}

// Complete sends one system and user prompt pair to the configured model
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string, opts core.CompletionOptions) (string, error) {
	payload, err := c.buildRequest(systemPrompt, userPrompt, opts)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request payload: %w", err)
	}

	resp, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.modelID),
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to invoke Bedrock model: %w", err)
	}

	text, err := c.parseResponse(resp.Body)
	if err != nil {
		return "", err
	}

	c.logger.Debug("Bedrock completion finished",
		zap.String("model", c.modelID),
		zap.Int("response_bytes", len(resp.Body)))
	return text, nil
}

func (c *Client) buildRequest(systemPrompt, userPrompt string, opts core.CompletionOptions) ([]byte, error) {
	if c.isAmazonTitanModel() {
		// Titan has no system role
		input := systemPrompt + "\n\n" + userPrompt
		if opts.JSONMode {
			input += "\n\nRespond only with JSON."
		}
		return json.Marshal(titanRequest{
			InputText: input,
			TextGenerationConfig: titanConfig{
				MaxTokenCount: opts.MaxTokens,
				Temperature:   opts.Temperature,
				TopP:          c.topP,
			},
		})
	}

	return json.Marshal(anthropicRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        opts.MaxTokens,
		System:           systemPrompt,
		Messages:         []anthropicMessage{{Role: "user", Content: userPrompt}},
		Temperature:      opts.Temperature,
		TopP:             c.topP,
	})
}

func (c *Client) parseResponse(body []byte) (string, error) {
	if c.isAmazonTitanModel() {
		var titanResp titanResponse
		if err := json.Unmarshal(body, &titanResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Titan response: %w", err)
		}
		if len(titanResp.Results) == 0 {
			return "", errors.New("empty response from Titan model")
		}
		return titanResp.Results[0].OutputText, nil
	}

	var claudeResp anthropicResponse
	if err := json.Unmarshal(body, &claudeResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal Claude response: %w", err)
	}
	var sb strings.Builder
	for _, block := range claudeResp.Content {
		if block.Type == "" || block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("empty response from Bedrock")
	}
	return sb.String(), nil
}

// isAmazonTitanModel checks if the model is an Amazon Titan model
func (c *Client) isAmazonTitanModel() bool {
	return strings.HasPrefix(c.modelID, "amazon.titan")
}
