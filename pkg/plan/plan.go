package plan

import (
	"slices"
	"strings"
	"time"
)

// PlanID identifies a paid plan. The set of values is closed: every PlanID
// declared below has an entry in the catalog.
type PlanID string

const (
	Starter    PlanID = "starter"
	Pro        PlanID = "pro"
	Business   PlanID = "business"
	Enterprise PlanID = "enterprise"
)

// DefaultTrialDays is the free trial length applied to every paid plan.
const DefaultTrialDays = 14

// Money represents a monetary amount in the smallest currency unit.
// For example, R$49.00 would be Amount: 4900, Currency: "BRL".
type Money struct {
	Amount   int64  `json:"amount"`   // Amount in smallest currency unit (cents for BRL/USD)
	Currency string `json:"currency"` // ISO 4217 currency code
}

// Major returns the amount in major units, as some provider APIs expect.
func (m Money) Major() float64 {
	return float64(m.Amount) / 100
}

// Definition describes a plan as shown to customers and sent to payment providers.
type Definition struct {
	ID           PlanID `json:"id"`
	DisplayName  string `json:"name"`
	TrialDays    int    `json:"trialDays"`
	MonthlyPrice Money  `json:"monthlyPrice"`
}

// TrialEndsAt calculates when the trial period ends.
// Returns startedAt unchanged if no trial is available.
func (d Definition) TrialEndsAt(startedAt time.Time) time.Time {
	if d.TrialDays <= 0 {
		return startedAt
	}
	return startedAt.AddDate(0, 0, d.TrialDays).UTC()
}

// catalog is the canonical, process-wide plan table.
// Display consumers must read prices from here rather than keeping their own copy.
var catalog = map[PlanID]Definition{
	Starter: {
		ID:           Starter,
		DisplayName:  "Starter",
		TrialDays:    DefaultTrialDays,
		MonthlyPrice: Money{Amount: 4900, Currency: "BRL"},
	},
	Pro: {
		ID:           Pro,
		DisplayName:  "Pro",
		TrialDays:    DefaultTrialDays,
		MonthlyPrice: Money{Amount: 9900, Currency: "BRL"},
	},
	Business: {
		ID:           Business,
		DisplayName:  "Business",
		TrialDays:    DefaultTrialDays,
		MonthlyPrice: Money{Amount: 19900, Currency: "BRL"},
	},
	Enterprise: {
		ID:           Enterprise,
		DisplayName:  "Enterprise",
		TrialDays:    DefaultTrialDays,
		MonthlyPrice: Money{Amount: 49900, Currency: "BRL"},
	},
}

// order fixes the listing order for display.
var order = []PlanID{Starter, Pro, Business, Enterprise}

// Lookup returns the definition for id.
// The second value is false for any id outside the closed set.
func Lookup(id PlanID) (Definition, bool) {
	def, ok := catalog[id]
	return def, ok
}

// Parse converts raw client input into a PlanID.
// Input is matched case-insensitively after trimming whitespace.
func Parse(raw string) (PlanID, bool) {
	id := PlanID(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := catalog[id]; !ok {
		return "", false
	}
	return id, true
}

// All returns every plan definition in display order.
func All() []Definition {
	defs := make([]Definition, 0, len(order))
	for _, id := range order {
		defs = append(defs, catalog[id])
	}
	return defs
}

// IDs returns every known plan identifier in display order.
func IDs() []PlanID {
	return slices.Clone(order)
}

func (id PlanID) String() string {
	return string(id)
}
