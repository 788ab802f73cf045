package disposal

import "time"

// rule pairs a predicate with the disposition template it yields. Rules
// are evaluated in declaration order and the first match wins; the order
// encodes safety precedence, not convenience.
type rule struct {
	name     string
	matches  func(state MedicineState, today time.Time) bool
	template Disposition
}

// rules is the ordered decision table. Precedence, highest first:
//  1. unknown expiry      -> consult
//  2. expired             -> dispose
//  3. controlled          -> dispose
//  4. unknown type        -> consult
//  5. opened or partial   -> dispose
//  6. otherwise           -> donate
var rules = []rule{
	{
		name: "unknown-expiry",
		matches: func(s MedicineState, _ time.Time) bool {
			return !s.ExpiryKnown
		},
		template: Disposition{
			Kind:      KindConsult,
			Reasoning: "The expiry date is unknown, so safety cannot be confirmed.",
			Instructions: []string{
				"Take the medicine to a pharmacist for identification.",
				"Do not take or donate the medicine until its expiry is confirmed.",
			},
			Resources: []string{
				"Local pharmacy medication review services",
			},
			Warnings: []string{
				"Never take medicine whose expiry date cannot be verified.",
			},
		},
	},
	{
		name: "expired",
		matches: func(s MedicineState, today time.Time) bool {
			return expired(s.ExpiryDate.Time, today)
		},
		template: Disposition{
			Kind:      KindDispose,
			Reasoning: "The medicine is past its expiry date and is no longer safe to use or donate.",
			Instructions: []string{
				"Mix the medicine with an unpalatable substance such as used coffee grounds.",
				"Seal the mixture in a bag and place it in household trash, or use a take-back location.",
				"Scratch out personal information on the packaging before discarding it.",
			},
			Resources: []string{
				"Pharmacy take-back programs",
				"Community drug disposal events",
			},
			Warnings: []string{
				"Do not flush expired medicine unless its label says to.",
			},
		},
	},
	{
		name: "controlled",
		matches: func(s MedicineState, _ time.Time) bool {
			return s.Type == TypeControlled
		},
		template: Disposition{
			Kind:      KindDispose,
			Reasoning: "Controlled substances require regulated disposal regardless of expiry or condition.",
			Instructions: []string{
				"Return the medicine to an authorized collector or take-back site.",
				"If no collector is available, follow the label's disposal instructions exactly.",
			},
			Resources: []string{
				"Authorized controlled-substance collection sites",
				"National drug take-back day events",
			},
			Warnings: []string{
				"Transferring controlled substances to another person is illegal.",
			},
		},
	},
	{
		name: "unknown-type",
		matches: func(s MedicineState, _ time.Time) bool {
			return s.Type == TypeUnknown
		},
		template: Disposition{
			Kind:      KindConsult,
			Reasoning: "The medicine type could not be determined, so the correct handling is unclear.",
			Instructions: []string{
				"Ask a pharmacist to identify the medicine and advise on handling.",
			},
			Resources: []string{
				"Local pharmacy medication review services",
				"Poison control information lines",
			},
			Warnings: []string{
				"Unidentified medicine should be kept out of reach of children and pets.",
			},
		},
	},
	{
		name: "not-unopened",
		matches: func(s MedicineState, _ time.Time) bool {
			return s.Condition != ConditionUnopened
		},
		template: Disposition{
			Kind:      KindDispose,
			Reasoning: "Opened or partially used medicine cannot be donated, even when otherwise in date.",
			Instructions: []string{
				"Mix the medicine with an unpalatable substance and seal it before discarding.",
				"Scratch out personal information on the packaging before discarding it.",
			},
			Resources: []string{
				"Pharmacy take-back programs",
			},
			Warnings: []string{
				"Opened medicine may be contaminated; do not pass it on to others.",
			},
		},
	},
	{
		name: "donatable",
		matches: func(s MedicineState, _ time.Time) bool {
			return true
		},
		template: Disposition{
			Kind:      KindDonate,
			Reasoning: "The medicine is unopened, in date, and of a known non-controlled type, so it is eligible for donation.",
			Instructions: []string{
				"Keep the medicine sealed in its original packaging.",
				"Contact a nearby donation center to confirm they accept this medicine.",
				"Hand the medicine over in person; do not mail it.",
			},
			Resources: []string{
				"Hospitals, pharmacies, and clinics accepting medicine donations",
			},
			Warnings: []string{
				"Donation centers may refuse medicine close to its expiry date.",
			},
		},
	},
}

// expired reports whether the expiry day is strictly before today, both
// truncated to calendar days. A medicine expiring today is not expired;
// the boundary is unified here for every caller.
func expired(expiry, now time.Time) bool {
	expiryDay := time.Date(expiry.Year(), expiry.Month(), expiry.Day(), 0, 0, 0, 0, time.UTC)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return expiryDay.Before(today)
}

// Classify maps a medicine state to its disposition. Pure, total, and
// deterministic: unknown or missing fields flow to consult branches,
// never to an error. The caller supplies the evaluation time.
func Classify(state MedicineState, now time.Time) Disposition {
	state = state.Normalize()
	for _, r := range rules {
		if r.matches(state, now) {
			return r.template
		}
	}
	// Unreachable: the final rule matches everything.
	return rules[len(rules)-1].template
}
