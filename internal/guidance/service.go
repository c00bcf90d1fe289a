package guidance

import (
	"context"
	"log/slog"

	"github.com/Vovarama1992/guidance-bridge/internal/ai"
	"github.com/Vovarama1992/guidance-bridge/internal/onboarding"
)

type service struct {
	model  ai.Model
	logger *slog.Logger
}

func NewService(model ai.Model, logger *slog.Logger) Service {
	return &service{
		model:  model,
		logger: logger,
	}
}

func (s *service) Produce(ctx context.Context, body []byte) (string, error) {
	data, err := parseRequest(body)
	if err != nil {
		s.logger.WarnContext(ctx, "[guidance] rejected request", slog.Any("error", err))
		return "", err
	}

	text, err := s.model.Complete(ctx, BuildPrompt(data))
	if err != nil {
		s.logger.ErrorContext(ctx, "[guidance] error in /api/guidance", slog.Any("error", err))
		return "", upstream(err)
	}

	return text, nil
}

// parseRequest validates the envelope and returns the onboarding_data value.
// The checks run in order: the body must be a present JSON value, then it
// must carry a truthy onboarding_data.
func parseRequest(body []byte) (any, error) {
	v, err := onboarding.Decode(body)
	if err != nil {
		return nil, invalid(MsgNoData, err)
	}
	if !onboarding.Truthy(v) {
		return nil, invalid(MsgNoData, nil)
	}

	obj, ok := v.(onboarding.Data)
	if !ok {
		return nil, invalid(MsgMissingData, nil)
	}

	data, ok := obj.Get(onboarding.FieldOnboardingData)
	if !ok || !onboarding.Truthy(data) {
		return nil, invalid(MsgMissingData, nil)
	}

	return data, nil
}
