package subscription

import "strings"

// Outcome is the terminal state shown after the provider sends the customer back.
type Outcome int

const (
	OutcomeFailed Outcome = iota
	OutcomeSuccess
	OutcomePending
)

// ResolveOutcome maps a return route segment to an Outcome, ignoring case and
// surrounding slashes. Anything unrecognized resolves to OutcomeFailed.
func ResolveOutcome(route string) Outcome {
	switch strings.ToLower(strings.Trim(strings.TrimSpace(route), "/")) {
	case "success":
		return OutcomeSuccess
	case "pending":
		return OutcomePending
	default:
		return OutcomeFailed
	}
}

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomePending:
		return "pending"
	default:
		return "failed"
	}
}

// Message is the customer facing explanation of the outcome.
func (o Outcome) Message() string {
	switch o {
	case OutcomeSuccess:
		return "Your subscription is active. The free trial has started."
	case OutcomePending:
		return "Your payment is being processed. We will confirm your subscription shortly."
	default:
		return "We could not start your subscription. Please try again."
	}
}
