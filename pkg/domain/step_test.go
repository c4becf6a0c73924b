package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkflowStep_Ordering(t *testing.T) {
	assert.True(t, StepPayment.After(StepRegistration))
	assert.False(t, StepPayment.After(StepPayment))
	assert.Equal(t, 1, int(FirstStep))
	assert.Equal(t, 9, int(LastStep))
}

func TestWorkflowStep_NextPrev(t *testing.T) {
	assert.Equal(t, StepPackageSelect, StepCustomerDetails.Next())
	assert.Equal(t, StepConfirmation, StepConfirmation.Next())
	assert.Equal(t, StepCustomerDetails, StepCustomerDetails.Prev())
	assert.Equal(t, StepAssetScan, StepAssetAssignment.Prev())
}

func TestParseStep(t *testing.T) {
	tests := []struct {
		in   string
		want WorkflowStep
	}{
		{"plan-select", StepPlanSelect},
		{" Payment ", StepPayment},
		{"4", StepRegistration},
	}
	for _, tt := range tests {
		got, err := ParseStep(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseStep("checkout")
	assert.Error(t, err)
	_, err = ParseStep("42")
	assert.Error(t, err)
}

func TestWorkflowStep_String(t *testing.T) {
	assert.Equal(t, "asset-scan", StepAssetScan.String())
	assert.Equal(t, "step(12)", WorkflowStep(12).String())
}
