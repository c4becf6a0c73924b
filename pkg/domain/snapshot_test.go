package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_GoToKeepsHighWaterMark(t *testing.T) {
	s := NewSnapshot()
	s.GoTo(StepPayment)
	assert.Equal(t, StepPayment, s.MaxStepReached)

	s.GoTo(StepPlanSelect)
	assert.Equal(t, StepPlanSelect, s.CurrentStep)
	assert.Equal(t, StepPayment, s.MaxStepReached, "back navigation must not lower the high-water mark")
}

func TestSnapshot_HasProgress(t *testing.T) {
	tests := []struct {
		name string
		snap Snapshot
		want bool
	}{
		{"untouched first step", Snapshot{CurrentStep: FirstStep}, false},
		{"whitespace only", Snapshot{CurrentStep: FirstStep, FormData: FormData{FirstName: "   ", Email: "\t"}}, false},
		{"phone only", Snapshot{CurrentStep: FirstStep, FormData: FormData{Phone: "5551234567"}}, true},
		{"past first step", Snapshot{CurrentStep: StepPackageSelect}, true},
		{"address does not count", Snapshot{CurrentStep: FirstStep, FormData: FormData{City: "Lagos"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.snap.HasProgress())
		})
	}
}

func TestSnapshot_PaymentBalanced(t *testing.T) {
	s := Snapshot{PaymentAmountExpected: 100, PaymentAmountPaid: 40, PaymentAmountRemaining: 60}
	assert.True(t, s.PaymentBalanced())
	s.PaymentAmountRemaining = 50
	assert.False(t, s.PaymentBalanced())
}

func TestSnapshot_JSONLayout(t *testing.T) {
	saved := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
	customerID := int64(77)
	s := Snapshot{
		CurrentStep:       StepRegistration,
		MaxStepReached:    StepRegistration,
		FormData:          FormData{FirstName: "Ana"},
		CreatedCustomerID: &customerID,
		SavedAt:           saved,
		Version:           CurrentVersion,
	}

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, float64(saved.UnixMilli()), raw["savedAt"])
	assert.Equal(t, float64(1), raw["version"])
	assert.Equal(t, float64(4), raw["currentStep"])
	assert.Nil(t, raw["subscriptionData"])
	assert.Contains(t, raw, "createdPartnerId")

	var back Snapshot
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, s, back)
}

func TestSnapshot_Clone(t *testing.T) {
	token := "tok"
	s := &Snapshot{
		CustomerSessionToken: &token,
		AssignedBattery:      &BatteryAssignment{ID: "B-1", ChargeLevel: 90},
	}
	c := s.Clone()
	*c.CustomerSessionToken = "changed"
	c.AssignedBattery.ChargeLevel = 10

	assert.Equal(t, "tok", *s.CustomerSessionToken)
	assert.Equal(t, 90, s.AssignedBattery.ChargeLevel)
	assert.Nil(t, (*Snapshot)(nil).Clone())
}
