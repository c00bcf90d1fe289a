package bot

import (
	"errors"

	"github.com/Vovarama1992/guidance-bridge/internal/onboarding"
)

// DefaultMiniAppURL is shown until a real mini-app is deployed.
const DefaultMiniAppURL = "YOUR_MINI_APP_URL"

const (
	greetingTemplate = "Hello! Welcome to the Conflict Resolution Bot. Please open the mini-app to get started: %s"

	onboardingReplyTemplate = "Onboarding data processed.\nHere's some initial guidance for you:\n\n%s"
	onboardingFallback      = "No guidance received."
	onboardingTransport     = "Sorry, I couldn't process your onboarding data at the moment. Please try again later."
	onboardingDecode        = "Sorry, I received an invalid response from the guidance service. Please try again later."

	groupReplyTemplate = "Regarding \"%s\":\n\n%s"
	groupFallback      = "Sorry, I couldn't get a helpful suggestion right now."
	groupTransport     = "I'm having trouble processing that message. Please try again later."
	groupDecode        = "Sorry, I received an invalid response from the processing service. Please try again later."

	groupContext = "group_message_discussion"
)

// Apology picks the user-facing text for a failed forwarding call. Details
// of err never reach the user.
func Apology(trigger Trigger, err error) string {
	decode := false
	var fe *ForwardError
	if errors.As(err, &fe) {
		decode = fe.Kind == KindDecode
	}

	switch trigger {
	case TriggerGroupMessage:
		if decode {
			return groupDecode
		}
		return groupTransport
	default:
		if decode {
			return onboardingDecode
		}
		return onboardingTransport
	}
}

// SampleAnswers stands in for a completed onboarding flow.
func SampleAnswers() onboarding.Answers {
	return onboarding.Answers{
		ConflictDescription:      "Argument with my roommate about cleaning schedules.",
		PartiesInvolved:          "Me and my roommate, John Doe.",
		RelationshipWithParties:  "Roommates, generally friendly.",
		AttemptsMade:             "Tried discussing it calmly, but it led to more arguments.",
		MediatorPreference:       onboarding.MediatorNeutral,
		DesiredOutcome:           "A fair cleaning schedule that we both stick to.",
		WillingToCompromise:      "Flexible on specific days, as long as it's consistent.",
		IdealResolutionTimeframe: "Within the next week.",
	}
}

// GroupPayload wraps a group chat message as onboarding data.
func GroupPayload(ev Event) onboarding.Data {
	return onboarding.NewData(
		onboarding.Field{Key: "context", Value: groupContext},
		onboarding.Field{Key: "user_query", Value: ev.Text},
		onboarding.Field{Key: "user_info", Value: ev.UserName},
		onboarding.Field{Key: "group_chat_id", Value: ev.ChatID},
	)
}
