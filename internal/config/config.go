package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Guidance configures the guidance service process.
type Guidance struct {
	Port           string
	Provider       string
	OpenAIKey      string
	OpenAIModel    string
	OpenAIBaseURL  string
	GeminiKey      string
	GeminiModel    string
	AllowedOrigins []string
}

// Bot configures the chat bot process.
type Bot struct {
	Token       string
	GuidanceURL string
	Timeout     time.Duration
	MiniAppURL  string
}

// SecretSource resolves a secret id to its value.
type SecretSource interface {
	Secret(ctx context.Context, id string) (string, error)
}

// LoadDotEnv reads the given env files (default .env) into the environment.
// A missing file is not an error; variables already set win.
func LoadDotEnv(files ...string) error {
	err := godotenv.Load(files...)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// LoadGuidance fails when the selected provider has no credential, so the
// service never starts without one.
func LoadGuidance(ctx context.Context, secrets SecretSource) (Guidance, error) {
	cfg := Guidance{
		Port:           env("PORT", "5001"),
		Provider:       strings.ToLower(env("AI_PROVIDER", ProviderOpenAI)),
		OpenAIModel:    os.Getenv("OPENAI_MODEL"),
		OpenAIBaseURL:  os.Getenv("OPENAI_BASE_URL"),
		GeminiModel:    os.Getenv("GEMINI_MODEL"),
		AllowedOrigins: splitList(env("CORS_ALLOWED_ORIGINS", "*")),
	}

	var err error
	switch cfg.Provider {
	case ProviderOpenAI:
		cfg.OpenAIKey, err = required(ctx, secrets, "OPENAI_API_KEY")
	case ProviderGemini:
		cfg.GeminiKey, err = required(ctx, secrets, "GEMINI_API_KEY")
	default:
		err = fmt.Errorf("unknown AI_PROVIDER %q (want %s or %s)", cfg.Provider, ProviderOpenAI, ProviderGemini)
	}
	if err != nil {
		return Guidance{}, err
	}

	return cfg, nil
}

func LoadBot(ctx context.Context, secrets SecretSource) (Bot, error) {
	token, err := required(ctx, secrets, "TELEGRAM_BOT_TOKEN")
	if err != nil {
		return Bot{}, err
	}

	timeout := 30 * time.Second
	if raw := os.Getenv("GUIDANCE_TIMEOUT"); raw != "" {
		timeout, err = time.ParseDuration(raw)
		if err != nil || timeout <= 0 {
			return Bot{}, fmt.Errorf("invalid GUIDANCE_TIMEOUT %q", raw)
		}
	}

	return Bot{
		Token:       token,
		GuidanceURL: env("GUIDANCE_SERVICE_URL", "http://localhost:5001"),
		Timeout:     timeout,
		MiniAppURL:  os.Getenv("MINI_APP_URL"),
	}, nil
}

// NewLogger builds the process logger; LOG_LEVEL picks the level.
func NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel(os.Getenv("LOG_LEVEL"))}))
}

func logLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func required(ctx context.Context, secrets SecretSource, key string) (string, error) {
	v, err := credential(ctx, secrets, key)
	if err != nil {
		return "", err
	}
	if v == "" {
		return "", fmt.Errorf("%s not found in environment variables", key)
	}
	return v, nil
}

// credential reads key from the environment, or resolves key_SECRET_ID
// through secrets when key itself is unset.
func credential(ctx context.Context, secrets SecretSource, key string) (string, error) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v, nil
	}

	id := strings.TrimSpace(os.Getenv(key + "_SECRET_ID"))
	if id == "" {
		return "", nil
	}
	if secrets == nil {
		return "", fmt.Errorf("%s_SECRET_ID is set but no secret source is configured", key)
	}

	v, err := secrets.Secret(ctx, id)
	if err != nil {
		return "", fmt.Errorf("resolve %s from secret %q: %w", key, id, err)
	}
	return strings.TrimSpace(v), nil
}

func env(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
