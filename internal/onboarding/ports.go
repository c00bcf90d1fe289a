package onboarding

// FieldOnboardingData is the envelope key the guidance endpoint requires.
const FieldOnboardingData = "onboarding_data"

// Request is the body of POST /api/guidance.
type Request struct {
	OnboardingData Data `json:"onboarding_data"`
}

// Response is either {guidance} or {error, details?}, never both. Guidance is
// nil on failure and set, possibly to "", on success.
type Response struct {
	Guidance *string `json:"guidance,omitempty"`
	Error    string `json:"error,omitempty"`
	Details  string `json:"details,omitempty"`
}

// Mediator styles offered by the onboarding flow.
const (
	MediatorNeutral    = "neutral"
	MediatorEmpathetic = "empathetic"
	MediatorDirect     = "direct"
)

// Answers are the onboarding questionnaire fields, in the order the flow
// asks them.
type Answers struct {
	ConflictDescription      string
	PartiesInvolved          string
	RelationshipWithParties  string
	AttemptsMade             string
	MediatorPreference       string
	DesiredOutcome           string
	WillingToCompromise      string
	IdealResolutionTimeframe string
}

// Data renders the answers as an onboarding payload.
func (a Answers) Data() Data {
	return NewData(
		Field{"conflict_description", a.ConflictDescription},
		Field{"parties_involved", a.PartiesInvolved},
		Field{"relationship_with_parties", a.RelationshipWithParties},
		Field{"attempts_made", a.AttemptsMade},
		Field{"mediator_preference", a.MediatorPreference},
		Field{"desired_outcome", a.DesiredOutcome},
		Field{"willing_to_compromise", a.WillingToCompromise},
		Field{"ideal_resolution_timeframe", a.IdealResolutionTimeframe},
	)
}
