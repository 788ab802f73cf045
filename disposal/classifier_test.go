package disposal

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

func date(y int, m time.Month, d int) Date {
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func TestClassifyUnknownExpiryAlwaysConsults(t *testing.T) {
	conditions := []Condition{ConditionUnopened, ConditionOpened, ConditionPartial}
	types := []MedicineType{TypeOTC, TypePrescription, TypeControlled, TypeUnknown}

	for _, cond := range conditions {
		for _, typ := range types {
			state := MedicineState{
				ExpiryKnown: false,
				ExpiryDate:  date(2030, time.January, 1),
				Condition:   cond,
				Type:        typ,
			}
			d := Classify(state, now)
			assert.Equal(t, KindConsult, d.Kind, "condition=%s type=%s", cond, typ)
			assert.NotEmpty(t, d.Reasoning)
		}
	}
}

func TestClassifyExpiredAlwaysDisposes(t *testing.T) {
	// Expiry outranks every non-consult rule, including controlled type
	// and opened condition.
	testCases := []struct {
		name      string
		condition Condition
		typ       MedicineType
	}{
		{"expired unopened otc", ConditionUnopened, TypeOTC},
		{"expired opened otc", ConditionOpened, TypeOTC},
		{"expired unopened controlled", ConditionUnopened, TypeControlled},
		{"expired partial prescription", ConditionPartial, TypePrescription},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			state := MedicineState{
				ExpiryKnown: true,
				ExpiryDate:  date(2026, time.March, 14),
				Condition:   tc.condition,
				Type:        tc.typ,
			}
			d := Classify(state, now)
			assert.Equal(t, KindDispose, d.Kind)
			assert.Contains(t, d.Reasoning, "expiry")
		})
	}
}

func TestClassifyDecisionTable(t *testing.T) {
	tomorrow := date(2026, time.March, 16)

	testCases := []struct {
		name     string
		state    MedicineState
		expected Kind
	}{
		{
			name:     "unopened otc in date donates",
			state:    MedicineState{ExpiryKnown: true, ExpiryDate: tomorrow, Condition: ConditionUnopened, Type: TypeOTC},
			expected: KindDonate,
		},
		{
			name:     "opened otc in date disposes",
			state:    MedicineState{ExpiryKnown: true, ExpiryDate: tomorrow, Condition: ConditionOpened, Type: TypeOTC},
			expected: KindDispose,
		},
		{
			name:     "partial otc in date disposes",
			state:    MedicineState{ExpiryKnown: true, ExpiryDate: tomorrow, Condition: ConditionPartial, Type: TypeOTC},
			expected: KindDispose,
		},
		{
			name:     "unopened controlled in date disposes",
			state:    MedicineState{ExpiryKnown: true, ExpiryDate: tomorrow, Condition: ConditionUnopened, Type: TypeControlled},
			expected: KindDispose,
		},
		{
			name:     "unopened unknown type consults",
			state:    MedicineState{ExpiryKnown: true, ExpiryDate: tomorrow, Condition: ConditionUnopened, Type: TypeUnknown},
			expected: KindConsult,
		},
		{
			name:     "unopened prescription in date donates",
			state:    MedicineState{ExpiryKnown: true, ExpiryDate: tomorrow, Condition: ConditionUnopened, Type: TypePrescription},
			expected: KindDonate,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := Classify(tc.state, now)
			assert.Equal(t, tc.expected, d.Kind)
			assert.NotEmpty(t, d.Instructions)
		})
	}
}

func TestClassifySameDayExpiryIsNotExpired(t *testing.T) {
	// Expiring today is still in date; the strict-before-today boundary
	// applies everywhere.
	state := MedicineState{
		ExpiryKnown: true,
		ExpiryDate:  date(2026, time.March, 15),
		Condition:   ConditionUnopened,
		Type:        TypeOTC,
	}
	d := Classify(state, now)
	assert.Equal(t, KindDonate, d.Kind)

	// Late in the evening of the same day it is still not expired.
	lateNow := time.Date(2026, 3, 15, 23, 59, 0, 0, time.UTC)
	d = Classify(state, lateNow)
	assert.Equal(t, KindDonate, d.Kind)
}

func TestClassifyNormalizesFreeFormInput(t *testing.T) {
	state := MedicineState{
		ExpiryKnown: true,
		ExpiryDate:  date(2026, time.March, 16),
		Condition:   Condition("  Unopened "),
		Type:        MedicineType("OTC"),
	}
	d := Classify(state, now)
	assert.Equal(t, KindDonate, d.Kind)

	// Unrecognized values flow to safe branches, never an error.
	state.Condition = Condition("mystery")
	d = Classify(state, now)
	assert.Equal(t, KindDispose, d.Kind)

	state.Condition = ConditionUnopened
	state.Type = MedicineType("something else")
	d = Classify(state, now)
	assert.Equal(t, KindConsult, d.Kind)
}

func TestClassifyIsDeterministic(t *testing.T) {
	state := MedicineState{
		ExpiryKnown: true,
		ExpiryDate:  date(2026, time.March, 16),
		Condition:   ConditionUnopened,
		Type:        TypeOTC,
	}
	first := Classify(state, now)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify(state, now))
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	var state MedicineState
	payload := `{"expiryKnown":true,"expiryDate":"2026-03-16","condition":"unopened","medicineType":"otc"}`
	require.NoError(t, json.Unmarshal([]byte(payload), &state))
	assert.Equal(t, 2026, state.ExpiryDate.Year())
	assert.Equal(t, time.March, state.ExpiryDate.Month())
	assert.Equal(t, 16, state.ExpiryDate.Day())

	out, err := json.Marshal(state)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"2026-03-16"`)
}

func TestDateJSONRejectsGarbage(t *testing.T) {
	var d Date
	err := json.Unmarshal([]byte(`"not-a-date"`), &d)
	require.Error(t, err)
}
