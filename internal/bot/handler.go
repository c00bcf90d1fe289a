package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Vovarama1992/guidance-bridge/internal/onboarding"
)

type Handler struct {
	fwd        Forwarder
	miniAppURL string
	sample     onboarding.Data
	logger     *slog.Logger
}

func NewHandler(fwd Forwarder, miniAppURL string, logger *slog.Logger) *Handler {
	if miniAppURL == "" {
		miniAppURL = DefaultMiniAppURL
	}
	return &Handler{
		fwd:        fwd,
		miniAppURL: miniAppURL,
		sample:     SampleAnswers().Data(),
		logger:     logger,
	}
}

// Handle sends exactly one reply for ev. Forwarding failures become
// apologies; the returned error only reports a failed reply.
func (h *Handler) Handle(ctx context.Context, ev Event, r Replier) error {
	switch ev.Trigger {
	case TriggerStart:
		return h.Start(ctx, r)
	case TriggerOnboardingComplete:
		return h.OnboardingComplete(ctx, r)
	case TriggerGroupMessage:
		return h.GroupMessage(ctx, ev, r)
	}
	return fmt.Errorf("unknown trigger %d", ev.Trigger)
}

func (h *Handler) Start(ctx context.Context, r Replier) error {
	return r.Reply(ctx, fmt.Sprintf(greetingTemplate, h.miniAppURL))
}

func (h *Handler) OnboardingComplete(ctx context.Context, r Replier) error {
	text, err := h.forward(ctx, TriggerOnboardingComplete, h.sample, onboardingFallback)
	if err != nil {
		return r.Reply(ctx, Apology(TriggerOnboardingComplete, err))
	}
	return r.Reply(ctx, fmt.Sprintf(onboardingReplyTemplate, text))
}

func (h *Handler) GroupMessage(ctx context.Context, ev Event, r Replier) error {
	h.logger.InfoContext(ctx, "[bot] group message",
		slog.Int64("chat_id", ev.ChatID),
		slog.String("user", ev.UserName),
		slog.String("text", ev.Text),
	)

	text, err := h.forward(ctx, TriggerGroupMessage, GroupPayload(ev), groupFallback)
	if err != nil {
		return r.Reply(ctx, Apology(TriggerGroupMessage, err))
	}
	return r.Reply(ctx, fmt.Sprintf(groupReplyTemplate, ev.Text, text))
}

// forward makes the one forwarding call for a trigger and logs any failure
// for operators.
func (h *Handler) forward(ctx context.Context, trigger Trigger, data onboarding.Data, fallback string) (string, error) {
	text, found, err := h.fwd.RequestGuidance(ctx, data)
	if err != nil {
		var fe *ForwardError
		if errors.As(err, &fe) && fe.Kind == KindDecode {
			h.logger.ErrorContext(ctx, "[bot] error decoding guidance response",
				slog.String("trigger", trigger.String()),
				slog.String("body", fe.Body),
			)
		} else {
			h.logger.ErrorContext(ctx, "[bot] error calling guidance service",
				slog.String("trigger", trigger.String()),
				slog.Any("error", err),
			)
		}
		return "", err
	}

	if !found {
		return fallback, nil
	}
	return text, nil
}
