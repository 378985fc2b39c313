package onboarding

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/fieldstack/fieldstack/internal/domain"
)

// ProgressEvent is the wire payload published on every step transition and
// on run completion. Websocket subscribers receive it verbatim.
type ProgressEvent struct {
	RunID       uuid.UUID         `json:"runId"`
	OrgID       uuid.UUID         `json:"orgId"`
	Status      domain.RunStatus  `json:"overallStatus"`
	CurrentStep int               `json:"currentStep"`
	TotalSteps  int               `json:"totalSteps"`
	StepID      string            `json:"stepId,omitempty"`
	StepStatus  domain.StepStatus `json:"stepStatus,omitempty"`
	StepError   string            `json:"stepError,omitempty"`
	At          time.Time         `json:"at"`
}

func newProgressEvent(p *domain.OnboardingProgress, step *domain.OnboardingStep, at time.Time) ProgressEvent {
	ev := ProgressEvent{
		RunID:       p.RunID,
		OrgID:       p.OrgID,
		Status:      p.Status,
		CurrentStep: p.CurrentStep,
		TotalSteps:  p.TotalSteps,
		At:          at,
	}
	if step != nil {
		ev.StepID = step.ID
		ev.StepStatus = step.Status
		ev.StepError = step.Error
	}
	return ev
}

func (ev ProgressEvent) marshal() []byte {
	b, err := json.Marshal(ev)
	if err != nil {
		// All fields are marshalable; this cannot fire.
		return nil
	}
	return b
}
