// Package plan holds the static catalog of paid plans offered with a free trial.
//
// The catalog is loaded once at package initialization and never mutated. It is the
// single source for plan display names, trial length and monthly price, so checkout
// sessions and any price display read the same values.
//
//	def, ok := plan.Lookup(plan.Pro)
//	if !ok {
//		// unreachable for declared PlanID constants
//	}
//	fmt.Println(def.DisplayName, def.TrialDays, def.MonthlyPrice.Amount)
//
// Client input should go through Parse, which rejects anything outside the closed set:
//
//	id, ok := plan.Parse(req.Plan)
//	if !ok {
//		return ErrUnknownPlan
//	}
package plan
