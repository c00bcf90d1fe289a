package bot

import (
	"context"

	"github.com/Vovarama1992/guidance-bridge/internal/onboarding"
)

type Trigger int

const (
	TriggerStart Trigger = iota + 1
	TriggerOnboardingComplete
	TriggerGroupMessage
)

func (t Trigger) String() string {
	switch t {
	case TriggerStart:
		return "start"
	case TriggerOnboardingComplete:
		return "onboarding_complete"
	case TriggerGroupMessage:
		return "group_message"
	}
	return "unknown"
}

// Event is one inbound trigger from the messaging platform.
type Event struct {
	Trigger  Trigger
	Text     string
	UserName string
	ChatID   int64
}

// Replier sends the single text reply for an event.
type Replier interface {
	Reply(ctx context.Context, text string) error
}

// Forwarder performs the forwarding call. found is false when the service
// answered without a guidance field. Errors are *ForwardError.
type Forwarder interface {
	RequestGuidance(ctx context.Context, data onboarding.Data) (guidance string, found bool, err error)
}
