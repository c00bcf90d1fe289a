package ai

import (
	"context"
	"errors"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"
)

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string // optional, for proxies and tests
}

type OpenAIClient struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

func NewOpenAIClient(cfg OpenAIConfig, logger *slog.Logger) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OPENAI_API_KEY not set")
	}

	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(oc),
		model:  model,
		logger: logger,
	}, nil
}

func (c *OpenAIClient) Complete(ctx context.Context, history []Message) (string, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(history))
	for _, m := range history {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Text,
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: msgs,
	})
	if err != nil {
		c.logger.ErrorContext(ctx, "[ai] openai error", slog.Any("error", err))
		return "", err
	}

	if len(resp.Choices) == 0 {
		c.logger.WarnContext(ctx, "[ai] empty choices", slog.String("model", c.model))
		return "", ErrEmptyCompletion
	}

	raw := resp.Choices[0].Message.Content
	c.logger.DebugContext(ctx, "[ai] completion", slog.String("model", c.model), slog.Int("chars", len(raw)))

	return raw, nil
}
