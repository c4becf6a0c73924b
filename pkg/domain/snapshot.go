package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// CurrentVersion is the schema tag stamped on every saved Snapshot.
// Stored snapshots carrying any other version are wiped, never upgraded.
const CurrentVersion = 1

// FormData holds the customer input captured on the details screen.
type FormData struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	NationalID string `json:"nationalId,omitempty"`
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
}

// Identified reports whether any of name, email or phone carries a value.
func (f FormData) Identified() bool {
	for _, v := range []string{f.FirstName, f.LastName, f.Email, f.Phone} {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

// SubscriptionData is the result recorded once a subscription has been issued.
type SubscriptionData struct {
	ID               int64   `json:"id"`
	SubscriptionCode string  `json:"subscriptionCode"`
	Status           string  `json:"status,omitempty"`
	ProductName      string  `json:"productName,omitempty"`
	PriceAmount      float64 `json:"priceAmount,omitempty"`
	Currency         string  `json:"currency,omitempty"`
	StartDate        string  `json:"startDate,omitempty"`
	EndDate          string  `json:"endDate,omitempty"`
}

// BatteryAssignment records the physical battery handed to the customer.
type BatteryAssignment struct {
	ID          string  `json:"id"`
	ShortID     string  `json:"shortId,omitempty"`
	ChargeLevel int     `json:"chargeLevel"`
	EnergyKWh   float64 `json:"energyKwh,omitempty"`
	MacAddress  string  `json:"macAddress,omitempty"`
}

// Snapshot captures how far one workflow instance has progressed.
// Every save overwrites the whole aggregate; there is no field-level patching.
type Snapshot struct {
	// Progress
	CurrentStep    WorkflowStep `json:"currentStep"`
	MaxStepReached WorkflowStep `json:"maxStepReached"`

	FormData FormData `json:"formData"`

	// Selections; empty means unselected.
	SelectedPackageID string `json:"selectedPackageId"`
	SelectedPlanID    string `json:"selectedPlanId"`

	// Results of remote registration, assigned by the backend.
	CreatedCustomerID    *int64  `json:"createdCustomerId"`
	CreatedPartnerID     *int64  `json:"createdPartnerId"`
	CustomerSessionToken *string `json:"customerSessionToken"`

	SubscriptionData *SubscriptionData `json:"subscriptionData"`

	// Payment
	PaymentConfirmed          bool    `json:"paymentConfirmed"`
	PaymentReference          string  `json:"paymentReference"`
	PaymentInitiated          bool    `json:"paymentInitiated"`
	PaymentAmountPaid         float64 `json:"paymentAmountPaid"`
	PaymentAmountExpected     float64 `json:"paymentAmountExpected"`
	PaymentAmountRemaining    float64 `json:"paymentAmountRemaining"`
	PaymentIncomplete         bool    `json:"paymentIncomplete"`
	ConfirmedSubscriptionCode *string `json:"confirmedSubscriptionCode"`

	// Asset assignment
	ScannedVehicleID *string           `json:"scannedVehicleId"`
	AssignedBattery  *BatteryAssignment `json:"assignedBattery"`
	RegistrationID   string             `json:"registrationId"`

	// SavedAt and Version are assigned by the store on save.
	SavedAt time.Time `json:"-"`
	Version int       `json:"version"`
}

// NewSnapshot returns an untouched snapshot positioned on the first step.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		CurrentStep:    FirstStep,
		MaxStepReached: FirstStep,
	}
}

// GoTo moves the snapshot to step, raising the high-water mark when step is further
// than anything reached before. Navigating backward keeps MaxStepReached.
func (s *Snapshot) GoTo(step WorkflowStep) {
	s.CurrentStep = step
	if step.After(s.MaxStepReached) {
		s.MaxStepReached = step
	}
}

// HasProgress reports whether the snapshot is worth resuming: it is past the first
// step, or at least one identifying form field is filled in.
func (s *Snapshot) HasProgress() bool {
	return s.CurrentStep.After(FirstStep) || s.FormData.Identified()
}

// PaymentBalanced reports whether the remaining amount matches expected minus paid.
func (s *Snapshot) PaymentBalanced() bool {
	const epsilon = 0.005
	diff := s.PaymentAmountExpected - s.PaymentAmountPaid - s.PaymentAmountRemaining
	return diff < epsilon && diff > -epsilon
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	c := *s
	c.CreatedCustomerID = clonePtr(s.CreatedCustomerID)
	c.CreatedPartnerID = clonePtr(s.CreatedPartnerID)
	c.CustomerSessionToken = clonePtr(s.CustomerSessionToken)
	c.SubscriptionData = clonePtr(s.SubscriptionData)
	c.ConfirmedSubscriptionCode = clonePtr(s.ConfirmedSubscriptionCode)
	c.ScannedVehicleID = clonePtr(s.ScannedVehicleID)
	c.AssignedBattery = clonePtr(s.AssignedBattery)
	return &c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

type snapshotFields Snapshot

// snapshotWire is the persisted layout: the snapshot fields plus savedAt in epoch ms.
type snapshotWire struct {
	snapshotFields
	SavedAt int64 `json:"savedAt"`
}

// MarshalJSON encodes SavedAt as epoch milliseconds.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	w := snapshotWire{snapshotFields: snapshotFields(s)}
	if !s.SavedAt.IsZero() {
		w.SavedAt = s.SavedAt.UnixMilli()
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the persisted layout produced by MarshalJSON.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var w snapshotWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*s = Snapshot(w.snapshotFields)
	if w.SavedAt != 0 {
		s.SavedAt = time.UnixMilli(w.SavedAt).UTC()
	}
	return nil
}
