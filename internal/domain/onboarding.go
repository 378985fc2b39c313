package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// StepStatus is the per-step state machine: pending -> in_progress ->
// completed | failed.
type StepStatus string

const (
	StepPending    StepStatus = "pending"
	StepInProgress StepStatus = "in_progress"
	StepCompleted  StepStatus = "completed"
	StepFailed     StepStatus = "failed"
)

// RunStatus is the overall onboarding state machine. Completed and failed
// are terminal.
type RunStatus string

const (
	RunNotStarted RunStatus = "not_started"
	RunInProgress RunStatus = "in_progress"
	RunCompleted  RunStatus = "completed"
	RunFailed     RunStatus = "failed"
)

// Terminal reports whether the run can no longer change state.
func (s RunStatus) Terminal() bool {
	return s == RunCompleted || s == RunFailed
}

// OnboardingStep is one unit of the onboarding pipeline. Dependencies name
// step ids that must be completed before this step may run; the engine
// enforces them.
type OnboardingStep struct {
	ID                string        `json:"id"`
	Name              string        `json:"name"`
	Description       string        `json:"description"`
	Status            StepStatus    `json:"status"`
	EstimatedDuration time.Duration `json:"estimatedDuration"`
	Dependencies      []string      `json:"dependencies"`
	Error             string        `json:"error,omitempty"`
}

// OnboardingProgress is the inspectable state of one onboarding run,
// persisted as an audit trail and suitable for polling-style display.
type OnboardingProgress struct {
	RunID       uuid.UUID        `json:"runId"`
	OrgID       uuid.UUID        `json:"orgId"`
	CurrentStep int              `json:"currentStep"`
	TotalSteps  int              `json:"totalSteps"`
	Status      RunStatus        `json:"overallStatus"`
	Steps       []OnboardingStep `json:"steps"`
	Errors      []string         `json:"errors"`
	StartedAt   time.Time        `json:"startedAt"`
	CompletedAt *time.Time       `json:"completedAt,omitempty"`
}

// StepByID returns a pointer into Steps for the given step id, or nil.
func (p *OnboardingProgress) StepByID(id string) *OnboardingStep {
	for i := range p.Steps {
		if p.Steps[i].ID == id {
			return &p.Steps[i]
		}
	}
	return nil
}

// Clone returns a deep copy, safe to hand across goroutines while the run
// keeps mutating the original.
func (p *OnboardingProgress) Clone() *OnboardingProgress {
	out := *p
	out.Steps = make([]OnboardingStep, len(p.Steps))
	copy(out.Steps, p.Steps)
	for i := range out.Steps {
		out.Steps[i].Dependencies = append([]string(nil), p.Steps[i].Dependencies...)
	}
	out.Errors = append([]string(nil), p.Errors...)
	if p.CompletedAt != nil {
		t := *p.CompletedAt
		out.CompletedAt = &t
	}
	return &out
}

type OnboardingRunRepository interface {
	Create(ctx context.Context, p *OnboardingProgress) error
	Update(ctx context.Context, p *OnboardingProgress) error
	GetByID(ctx context.Context, runID uuid.UUID) (*OnboardingProgress, error)
	GetLatestByOrg(ctx context.Context, orgID uuid.UUID) (*OnboardingProgress, error)
}
