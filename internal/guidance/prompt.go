package guidance

import (
	"fmt"

	"github.com/Vovarama1992/guidance-bridge/internal/ai"
	"github.com/Vovarama1992/guidance-bridge/internal/onboarding"
)

const SystemPrompt = "You are a helpful assistant for conflict resolution. " +
	"Your role is to provide initial guidance based on user's onboarding information."

const humanPromptTemplate = "The user provided the following onboarding data: %s. " +
	"Based on this, suggest a concise next step or piece of advice for them to consider."

// BuildPrompt renders the fixed system + human pair for one payload value,
// normally an onboarding.Data.
func BuildPrompt(data any) []ai.Message {
	return []ai.Message{
		{Role: ai.RoleSystem, Text: SystemPrompt},
		{Role: ai.RoleUser, Text: fmt.Sprintf(humanPromptTemplate, onboarding.Text(data))},
	}
}
