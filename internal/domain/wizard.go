package domain

import "time"

// WizardStep identifies one of the four ordered steps of the booking wizard
type WizardStep int

const (
	StepCustomerInfo WizardStep = 1
	StepServices     WizardStep = 2
	StepLocation     WizardStep = 3
	StepDateTime     WizardStep = 4
)

// IsValid returns true if the step is within the wizard bounds
func (s WizardStep) IsValid() bool {
	return s >= StepCustomerInfo && s <= StepDateTime
}

// IsFirst returns true for the first wizard step
func (s WizardStep) IsFirst() bool {
	return s == StepCustomerInfo
}

// IsLast returns true for the last wizard step
func (s WizardStep) IsLast() bool {
	return s == StepDateTime
}

// Next returns the following step
func (s WizardStep) Next() WizardStep {
	return s + 1
}

// Prev returns the preceding step
func (s WizardStep) Prev() WizardStep {
	return s - 1
}

// WizardStatus represents the lifecycle state of a wizard session
type WizardStatus string

const (
	StatusInProgress WizardStatus = "in_progress"
	StatusSubmitting WizardStatus = "submitting"
	StatusConfirmed  WizardStatus = "confirmed"
	StatusCancelled  WizardStatus = "cancelled"
)

// LocationType defines where the appointment takes place
type LocationType string

const (
	LocationOur      LocationType = "our_location"
	LocationCustomer LocationType = "customer_location"
)

// CustomerInfo holds the contact details collected on step 1
type CustomerInfo struct {
	Name  string
	Phone string
	Email string
}

// ServiceSelection holds the catalog service ids chosen on step 2.
// Ids form a set: duplicates are collapsed, order carries no meaning.
type ServiceSelection struct {
	ServiceIDs []string
}

// CustomerAddress is the visit address collected for customer_location
type CustomerAddress struct {
	Location  string
	Street    string
	Building  string
	Apartment *string
}

// Location holds the meeting place chosen on step 3.
// Address is set only for customer_location; for our_location the fixed
// office address comes from configuration at submission time.
type Location struct {
	Type    LocationType
	Address *CustomerAddress
}

// Schedule holds the appointment slot chosen on step 4
type Schedule struct {
	Date      time.Time // День записи (полночь UTC)
	StartTime time.Time
	EndTime   time.Time
	TimeZone  string // IANA зона, в которой клиент выбирал слот
}

// Confirmation holds the booking result returned by the scheduling backend
type Confirmation struct {
	MeetingProvider   string
	MeetLink          string
	RescheduleLink    string
	CalendarExportURL string
}

// WizardSession is the draft aggregate of one booking wizard walkthrough.
// Step data is populated only after that step's validation passes and is
// never cleared by backward navigation.
type WizardSession struct {
	ID          string
	DurationID  string
	TimeZone    string
	Status      WizardStatus
	CurrentStep WizardStep

	Customer     *CustomerInfo
	Services     *ServiceSelection
	Location     *Location
	Schedule     *Schedule
	Confirmation *Confirmation

	// LastSubmissionError хранит причину последней неудачной отправки,
	// пока клиент остается на шаге 4
	LastSubmissionError *string

	CreatedAt time.Time
	UpdatedAt time.Time
	ExpiresAt time.Time
}

// IsTerminal returns true if the session reached a final state
func (s *WizardSession) IsTerminal() bool {
	return s.Status == StatusConfirmed || s.Status == StatusCancelled
}

// IsInProgress returns true while the wizard can still be edited
func (s *WizardSession) IsInProgress() bool {
	return s.Status == StatusInProgress
}

// IsSubmitting returns true while a submission is outstanding
func (s *WizardSession) IsSubmitting() bool {
	return s.Status == StatusSubmitting
}

// IsExpired returns true if the session outlived its TTL
func (s *WizardSession) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// CanAdvance returns true if the session accepts step input
func (s *WizardSession) CanAdvance() bool {
	return s.Status == StatusInProgress
}

// CanRetreat returns true if backward navigation is possible
func (s *WizardSession) CanRetreat() bool {
	return s.Status == StatusInProgress && !s.CurrentStep.IsFirst()
}

// CanCancel returns true if the session can be abandoned.
// A session with an outstanding submission cannot be cancelled.
func (s *WizardSession) CanCancel() bool {
	return s.Status == StatusInProgress
}

// IsComplete returns true when all four draft parts have been collected
func (s *WizardSession) IsComplete() bool {
	return s.Customer != nil && s.Services != nil && s.Location != nil && s.Schedule != nil
}
