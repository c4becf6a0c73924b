package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// WorkflowStep is the screen a workflow instance is on.
// Steps are totally ordered by rank; "further" means strictly greater rank.
type WorkflowStep int

const (
	StepCustomerDetails WorkflowStep = iota + 1
	StepPackageSelect
	StepPlanSelect
	StepRegistration
	StepSubscription
	StepPayment
	StepAssetScan
	StepAssetAssignment
	StepConfirmation
)

// FirstStep and LastStep bound the valid range.
const (
	FirstStep = StepCustomerDetails
	LastStep  = StepConfirmation
)

var stepNames = map[WorkflowStep]string{
	StepCustomerDetails: "customer-details",
	StepPackageSelect:   "package-select",
	StepPlanSelect:      "plan-select",
	StepRegistration:    "registration",
	StepSubscription:    "subscription",
	StepPayment:         "payment",
	StepAssetScan:       "asset-scan",
	StepAssetAssignment: "asset-assignment",
	StepConfirmation:    "confirmation",
}

func (s WorkflowStep) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// Valid reports whether s is one of the defined steps.
func (s WorkflowStep) Valid() bool {
	return s >= FirstStep && s <= LastStep
}

// After reports whether s is strictly further in the flow than other.
func (s WorkflowStep) After(other WorkflowStep) bool {
	return s > other
}

// Next returns the following step, or LastStep when already at the end.
func (s WorkflowStep) Next() WorkflowStep {
	if s >= LastStep {
		return LastStep
	}
	if s < FirstStep {
		return FirstStep
	}
	return s + 1
}

// Prev returns the preceding step, or FirstStep when already at the start.
func (s WorkflowStep) Prev() WorkflowStep {
	if s <= FirstStep {
		return FirstStep
	}
	if s > LastStep {
		return LastStep
	}
	return s - 1
}

// ParseStep resolves a step from its name (e.g. "plan-select") or its rank ("3").
func ParseStep(value string) (WorkflowStep, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	for step, name := range stepNames {
		if name == value {
			return step, nil
		}
	}
	if rank, err := strconv.Atoi(value); err == nil {
		if step := WorkflowStep(rank); step.Valid() {
			return step, nil
		}
	}
	return 0, fmt.Errorf("unknown workflow step %q", value)
}
