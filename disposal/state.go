// Package disposal implements the medicine disposition classifier: a pure
// decision procedure mapping a medicine's state to keep, donate, dispose,
// or consult, with human-readable reasoning and handling guidance.
package disposal

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Condition describes how far a medicine package has been used.
type Condition string

const (
	ConditionUnopened Condition = "unopened"
	ConditionOpened   Condition = "opened"
	ConditionPartial  Condition = "partial"
)

// ParseCondition normalizes free-form condition input. Unrecognized
// values map to ConditionOpened: when the package state is uncertain it
// must not be treated as donatable.
func ParseCondition(s string) Condition {
	switch Condition(strings.ToLower(strings.TrimSpace(s))) {
	case ConditionUnopened:
		return ConditionUnopened
	case ConditionPartial:
		return ConditionPartial
	default:
		return ConditionOpened
	}
}

// MedicineType is the regulatory category of a medicine.
type MedicineType string

const (
	TypeOTC          MedicineType = "otc"
	TypePrescription MedicineType = "prescription"
	TypeControlled   MedicineType = "controlled"
	TypeUnknown      MedicineType = "unknown"
)

// ParseMedicineType normalizes free-form type input; unrecognized values
// map to TypeUnknown.
func ParseMedicineType(s string) MedicineType {
	switch MedicineType(strings.ToLower(strings.TrimSpace(s))) {
	case TypeOTC:
		return TypeOTC
	case TypePrescription:
		return TypePrescription
	case TypeControlled:
		return TypeControlled
	default:
		return TypeUnknown
	}
}

// Date is a calendar date carried over JSON as "2006-01-02"; RFC3339
// timestamps are accepted and truncated.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(d.Format("2006-01-02"))
}

// MedicineState is the classifier input. When ExpiryKnown is false the
// ExpiryDate is ignored entirely, whatever the other fields say.
type MedicineState struct {
	ExpiryKnown bool         `json:"expiryKnown"`
	ExpiryDate  Date         `json:"expiryDate"`
	Condition   Condition    `json:"condition"`
	Type        MedicineType `json:"medicineType"`
}

// Normalize maps free-form enum values onto their canonical constants.
func (s MedicineState) Normalize() MedicineState {
	s.Condition = ParseCondition(string(s.Condition))
	s.Type = ParseMedicineType(string(s.Type))
	return s
}

// Kind is the classifier verdict.
type Kind string

const (
	KindKeep    Kind = "keep"
	KindDonate  Kind = "donate"
	KindDispose Kind = "dispose"
	KindConsult Kind = "consult"
)

// Disposition is the classifier output: a verdict plus its supporting
// text. Produced fresh per call; no identity, no lifecycle.
type Disposition struct {
	Kind         Kind     `json:"kind"`
	Reasoning    string   `json:"reasoning"`
	Instructions []string `json:"instructions"`
	Resources    []string `json:"resources"`
	Warnings     []string `json:"warnings"`
}
