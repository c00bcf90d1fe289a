package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/urfave/cli/v2"

	"github.com/Vovarama1992/guidance-bridge/internal/ai"
	"github.com/Vovarama1992/guidance-bridge/internal/bot"
	"github.com/Vovarama1992/guidance-bridge/internal/config"
	"github.com/Vovarama1992/guidance-bridge/internal/guidance"
)

func main() {
	app := &cli.App{
		Name:  "guidance-bridge",
		Usage: "Onboarding guidance service and its Telegram front end",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Value: ".env",
				Usage: "dotenv file loaded before reading configuration",
			},
		},
		Before: func(c *cli.Context) error {
			if err := config.LoadDotEnv(c.String("env-file")); err != nil {
				return fmt.Errorf("load %s: %w", c.String("env-file"), err)
			}
			slog.SetDefault(config.NewLogger(os.Stderr))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:    "guidance",
				Aliases: []string{"g"},
				Usage:   "Serve POST /api/guidance over HTTP",
				Action:  runGuidance,
			},
			{
				Name:   "guidance-lambda",
				Usage:  "Serve the guidance endpoint as an API Gateway Lambda",
				Action: runGuidanceLambda,
			},
			{
				Name:    "bot",
				Aliases: []string{"b"},
				Usage:   "Run the Telegram bot against the guidance service",
				Action:  runBot,
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := app.RunContext(ctx, os.Args)
	stop()

	if err != nil {
		slog.Error("fatal", slog.Any("error", err))
		os.Exit(1)
	}
}

func runGuidance(c *cli.Context) error {
	logger := slog.Default()

	svc, cfg, err := newGuidanceService(c.Context, logger)
	if err != nil {
		return err
	}

	router := guidance.NewRouter(guidance.NewHandler(svc, logger), cfg.AllowedOrigins)
	return guidance.Serve(c.Context, ":"+cfg.Port, router, logger)
}

func runGuidanceLambda(c *cli.Context) error {
	logger := slog.Default()

	svc, cfg, err := newGuidanceService(c.Context, logger)
	if err != nil {
		return err
	}

	lambda.Start(guidance.NewLambdaHandler(svc, cfg.AllowedOrigins, logger).Handle)
	return nil
}

func runBot(c *cli.Context) error {
	logger := slog.Default()

	cfg, err := config.LoadBot(c.Context, config.NewSecretsManager())
	if err != nil {
		return err
	}

	client := bot.NewClient(cfg.GuidanceURL, cfg.Timeout, logger)
	handler := bot.NewHandler(client, cfg.MiniAppURL, logger)

	tg, err := bot.NewTelegram(cfg.Token, handler, logger)
	if err != nil {
		return err
	}

	logger.Info("[bot] polling", slog.String("guidance", client.Endpoint()))
	return tg.Run(c.Context)
}

// newGuidanceService builds the model client once; it is shared read-only by
// every request.
func newGuidanceService(ctx context.Context, logger *slog.Logger) (guidance.Service, config.Guidance, error) {
	cfg, err := config.LoadGuidance(ctx, config.NewSecretsManager())
	if err != nil {
		return nil, config.Guidance{}, err
	}

	model, err := newModel(ctx, cfg, logger)
	if err != nil {
		return nil, config.Guidance{}, err
	}

	logger.Info("[guidance] model ready", slog.String("provider", cfg.Provider))
	return guidance.NewService(model, logger), cfg, nil
}

func newModel(ctx context.Context, cfg config.Guidance, logger *slog.Logger) (ai.Model, error) {
	if cfg.Provider == config.ProviderGemini {
		m, err := ai.NewGeminiClient(ctx, ai.GeminiConfig{
			APIKey: cfg.GeminiKey,
			Model:  cfg.GeminiModel,
		}, logger)
		if err != nil {
			return nil, err
		}
		return m, nil
	}

	m, err := ai.NewOpenAIClient(ai.OpenAIConfig{
		APIKey:  cfg.OpenAIKey,
		Model:   cfg.OpenAIModel,
		BaseURL: cfg.OpenAIBaseURL,
	}, logger)
	if err != nil {
		return nil, err
	}
	return m, nil
}
