package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

type GeminiConfig struct {
	APIKey string
	Model  string
}

type GeminiClient struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

func NewGeminiClient(ctx context.Context, cfg GeminiConfig, logger *slog.Logger) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("GEMINI_API_KEY not set")
	}

	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiClient{client: client, model: model, logger: logger}, nil
}

func (c *GeminiClient) Complete(ctx context.Context, history []Message) (string, error) {
	system, contents := geminiContents(history)

	cfg := &genai.GenerateContentConfig{SystemInstruction: system}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		c.logger.ErrorContext(ctx, "[ai] gemini error", slog.Any("error", err))
		return "", err
	}

	text, ok := geminiText(resp)
	if !ok {
		c.logger.WarnContext(ctx, "[ai] empty candidates", slog.String("model", c.model))
		return "", ErrEmptyCompletion
	}

	return text, nil
}

// geminiContents folds system messages into one system instruction and maps
// the rest onto Gemini's user/model roles.
func geminiContents(history []Message) (*genai.Content, []*genai.Content) {
	var system []*genai.Part
	contents := make([]*genai.Content, 0, len(history))

	for _, m := range history {
		switch m.Role {
		case RoleSystem:
			system = append(system, &genai.Part{Text: m.Text})
		case RoleAssistant:
			contents = append(contents, &genai.Content{
				Role:  "model",
				Parts: []*genai.Part{{Text: m.Text}},
			})
		default:
			contents = append(contents, &genai.Content{
				Role:  "user",
				Parts: []*genai.Part{{Text: m.Text}},
			})
		}
	}

	if len(system) == 0 {
		return nil, contents
	}
	return &genai.Content{Role: "user", Parts: system}, contents
}

// geminiText joins the parts of the first candidate. ok is false only when
// there is no candidate at all.
func geminiText(resp *genai.GenerateContentResponse) (text string, ok bool) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return "", false
	}
	if resp.Candidates[0].Content == nil {
		return "", true
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	return sb.String(), true
}
