package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWizardStep_Bounds(t *testing.T) {
	tests := []struct {
		name    string
		step    WizardStep
		isValid bool
		isFirst bool
		isLast  bool
	}{
		{"customer info", StepCustomerInfo, true, true, false},
		{"services", StepServices, true, false, false},
		{"location", StepLocation, true, false, false},
		{"date time", StepDateTime, true, false, true},
		{"below range", WizardStep(0), false, false, false},
		{"above range", WizardStep(5), false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.step.IsValid())
			assert.Equal(t, tt.isFirst, tt.step.IsFirst())
			assert.Equal(t, tt.isLast, tt.step.IsLast())
		})
	}
}

func TestWizardStep_NextPrev(t *testing.T) {
	assert.Equal(t, StepServices, StepCustomerInfo.Next())
	assert.Equal(t, StepLocation, StepDateTime.Prev())
	assert.Equal(t, StepCustomerInfo, StepServices.Prev())
}

func TestWizardSession_Lifecycle(t *testing.T) {
	tests := []struct {
		name       string
		status     WizardStatus
		step       WizardStep
		canAdvance bool
		canRetreat bool
		canCancel  bool
		isTerminal bool
	}{
		{"in progress at first step", StatusInProgress, StepCustomerInfo, true, false, true, false},
		{"in progress mid-wizard", StatusInProgress, StepLocation, true, true, true, false},
		{"submitting", StatusSubmitting, StepDateTime, false, false, false, false},
		{"confirmed", StatusConfirmed, StepDateTime, false, false, false, true},
		{"cancelled", StatusCancelled, StepServices, false, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := &WizardSession{Status: tt.status, CurrentStep: tt.step}

			assert.Equal(t, tt.canAdvance, session.CanAdvance())
			assert.Equal(t, tt.canRetreat, session.CanRetreat())
			assert.Equal(t, tt.canCancel, session.CanCancel())
			assert.Equal(t, tt.isTerminal, session.IsTerminal())
		})
	}
}

func TestWizardSession_IsComplete(t *testing.T) {
	session := &WizardSession{
		Customer: &CustomerInfo{Name: "Анна Петрова", Phone: "+7 900 123-45-67", Email: "anna@example.com"},
		Services: &ServiceSelection{ServiceIDs: []string{"consultation"}},
		Location: &Location{Type: LocationOur},
	}
	assert.False(t, session.IsComplete())

	session.Schedule = &Schedule{
		Date:      time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		StartTime: time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2025, 6, 2, 10, 30, 0, 0, time.UTC),
		TimeZone:  "Europe/Moscow",
	}
	assert.True(t, session.IsComplete())
}

func TestWizardSession_IsExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	session := &WizardSession{ExpiresAt: now.Add(time.Hour)}

	assert.False(t, session.IsExpired(now))
	assert.True(t, session.IsExpired(now.Add(2*time.Hour)))
}

func TestValidationError(t *testing.T) {
	verr := NewValidationError(StepCustomerInfo)
	assert.False(t, verr.HasErrors())

	verr.Add("name", "имя должно содержать минимум 2 символа")
	verr.Add("email", "некорректный email")

	assert.True(t, verr.HasErrors())
	assert.Len(t, verr.Fields, 2)
	assert.Contains(t, verr.Error(), "step 1")
	assert.Contains(t, verr.Error(), "email, name")
}
