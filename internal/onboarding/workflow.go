// Package onboarding drives the multi-step tenant onboarding pipeline. Steps
// declare dependencies and run in a dependency-respecting order; every
// transition is persisted and published, and a failed run can be resumed
// from its first incomplete step.
package onboarding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/fieldstack/fieldstack/internal/domain"
	"github.com/fieldstack/fieldstack/internal/notify"
	"github.com/fieldstack/fieldstack/internal/provision"
	"github.com/fieldstack/fieldstack/internal/recommend"
	"github.com/fieldstack/fieldstack/internal/store/redis"
)

// Store is the full tenant store surface the workflow reads and writes.
// Both the postgres and the in-memory store satisfy it.
type Store interface {
	provision.Store
	DataSources() domain.DataSourceRepository
	DataPoints() domain.DataPointRepository
	OnboardingRuns() domain.OnboardingRunRepository
}

// Provisioner creates the tenant's core infrastructure. Satisfied by
// provision.Service.
type Provisioner interface {
	ProvisionNewClient(ctx context.Context, in provision.Input) *provision.Result
	AccessURL(slug string) string
}

// Publisher fans step transitions out to live subscribers. Satisfied by the
// redis pub/sub adapter; nil disables publishing.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// Announcer posts run outcomes to the operations channel. Satisfied by
// notify.OpsNotifier; nil disables announcements.
type Announcer interface {
	Announce(ctx context.Context, message string) error
}

// Options are the optional workflow collaborators and tunables.
type Options struct {
	Mailer      notify.Mailer
	Ops         Announcer
	Publisher   Publisher
	StepTimeout time.Duration
}

const defaultStepTimeout = 2 * time.Minute

// Workflow executes onboarding runs. All collaborators are injected; the
// zero values of Options give a fully offline workflow suitable for tests.
type Workflow struct {
	store       Store
	provisioner Provisioner
	engine      *recommend.Engine
	mailer      notify.Mailer
	ops         Announcer
	publisher   Publisher
	stepTimeout time.Duration
	now         func() time.Time
}

func NewWorkflow(store Store, provisioner Provisioner, engine *recommend.Engine, opts Options) *Workflow {
	if opts.Mailer == nil {
		opts.Mailer = notify.LogMailer{}
	}
	if opts.StepTimeout <= 0 {
		opts.StepTimeout = defaultStepTimeout
	}

	return &Workflow{
		store:       store,
		provisioner: provisioner,
		engine:      engine,
		mailer:      opts.Mailer,
		ops:         opts.Ops,
		publisher:   opts.Publisher,
		stepTimeout: opts.StepTimeout,
		now:         time.Now,
	}
}

// runState is the mutable context threaded through one run's steps.
type runState struct {
	input    provision.Input
	progress *domain.OnboardingProgress

	// Filled by the provisioning step (or by resume reconstruction).
	orgID     uuid.UUID
	adminID   uuid.UUID
	accessURL string

	resumed bool
}

// StartOnboarding creates and executes a fresh run for the given input. The
// run record exists before the first step executes, so observers can follow
// it from the start. The returned progress reflects the final state; a step
// failure is reported in the progress, not as an error.
func (w *Workflow) StartOnboarding(ctx context.Context, in provision.Input) (*domain.OnboardingProgress, error) {
	plan, st, err := w.prepareStart(ctx, in)
	if err != nil {
		return nil, err
	}
	w.execute(ctx, plan, st)
	return st.progress, nil
}

// BeginOnboarding creates the run record and executes the plan in the
// background, detached from the caller's cancellation. The returned snapshot
// is the caller's to keep; the live state is reachable through GetProgress
// and the published transitions.
func (w *Workflow) BeginOnboarding(ctx context.Context, in provision.Input) (*domain.OnboardingProgress, error) {
	plan, st, err := w.prepareStart(ctx, in)
	if err != nil {
		return nil, err
	}
	snapshot := st.progress.Clone()
	go w.execute(context.WithoutCancel(ctx), plan, st)
	return snapshot, nil
}

func (w *Workflow) prepareStart(ctx context.Context, in provision.Input) ([]Definition, *runState, error) {
	plan, err := compilePlan(w.catalog(in.Industry))
	if err != nil {
		return nil, nil, fmt.Errorf("onboarding.StartOnboarding: %w", err)
	}

	progress := &domain.OnboardingProgress{
		RunID: uuid.New(),
		// Placeholder until the provisioning step creates the real
		// organization; swapped and persisted on the next transition.
		OrgID:      uuid.New(),
		TotalSteps: len(plan),
		Status:     domain.RunInProgress,
		Steps:      stepsFromPlan(plan),
		StartedAt:  w.now(),
	}

	if err := w.store.OnboardingRuns().Create(ctx, progress); err != nil {
		return nil, nil, fmt.Errorf("onboarding.StartOnboarding: create run: %w", err)
	}

	return plan, &runState{input: in, progress: progress}, nil
}

// ResumeOnboarding re-executes the latest run of an organization from its
// first incomplete step. Failed steps are reset to pending; completed steps
// are never re-run. Resuming a completed run is a no-op.
func (w *Workflow) ResumeOnboarding(ctx context.Context, orgID uuid.UUID) (*domain.OnboardingProgress, error) {
	plan, st, err := w.prepareResume(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		// Already completed.
		return st.progress, nil
	}
	w.execute(ctx, plan, st)
	return st.progress, nil
}

// BeginResume is ResumeOnboarding with background execution, mirroring
// BeginOnboarding.
func (w *Workflow) BeginResume(ctx context.Context, orgID uuid.UUID) (*domain.OnboardingProgress, error) {
	plan, st, err := w.prepareResume(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return st.progress, nil
	}
	snapshot := st.progress.Clone()
	go w.execute(context.WithoutCancel(ctx), plan, st)
	return snapshot, nil
}

func (w *Workflow) prepareResume(ctx context.Context, orgID uuid.UUID) ([]Definition, *runState, error) {
	progress, err := w.store.OnboardingRuns().GetLatestByOrg(ctx, orgID)
	if err != nil {
		return nil, nil, fmt.Errorf("onboarding.ResumeOnboarding: load run: %w", err)
	}
	if progress.Status == domain.RunCompleted {
		// Nil plan: nothing to execute.
		return nil, &runState{progress: progress, orgID: orgID, resumed: true}, nil
	}

	org, err := w.store.Organizations().GetByID(ctx, orgID)
	if err != nil {
		return nil, nil, fmt.Errorf("onboarding.ResumeOnboarding: load organization: %w", err)
	}

	in, err := w.reconstructInput(ctx, org)
	if err != nil {
		return nil, nil, fmt.Errorf("onboarding.ResumeOnboarding: %w", err)
	}

	plan, err := compilePlan(w.catalog(org.Industry))
	if err != nil {
		return nil, nil, fmt.Errorf("onboarding.ResumeOnboarding: %w", err)
	}

	reconcileSteps(progress, plan)
	progress.Status = domain.RunInProgress
	progress.Errors = nil
	progress.CompletedAt = nil

	if err := w.store.OnboardingRuns().Update(ctx, progress); err != nil {
		return nil, nil, fmt.Errorf("onboarding.ResumeOnboarding: update run: %w", err)
	}

	st := &runState{
		input:     in,
		progress:  progress,
		orgID:     orgID,
		accessURL: w.provisioner.AccessURL(org.Slug),
		resumed:   true,
	}
	if admin, err := w.store.Users().GetAdmin(ctx, orgID); err == nil {
		st.adminID = admin.ID
	}

	return plan, st, nil
}

// GetProgress returns the persisted state of one run.
func (w *Workflow) GetProgress(ctx context.Context, runID uuid.UUID) (*domain.OnboardingProgress, error) {
	p, err := w.store.OnboardingRuns().GetByID(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("onboarding.GetProgress: %w", err)
	}
	return p, nil
}

// execute drives the plan to a terminal state. The first step failure halts
// the run; remaining steps stay pending so a resume can pick them up.
func (w *Workflow) execute(ctx context.Context, plan []Definition, st *runState) {
	p := st.progress

	for i := range plan {
		def := &plan[i]
		step := p.StepByID(def.ID)
		if step == nil || step.Status == domain.StepCompleted {
			continue
		}

		if unmet := unmetDependencies(p, def); len(unmet) > 0 {
			w.failRun(ctx, st, step, fmt.Errorf("dependencies not completed: %s", strings.Join(unmet, ", ")))
			return
		}
		if err := ctx.Err(); err != nil {
			w.failRun(ctx, st, step, fmt.Errorf("run cancelled: %w", err))
			return
		}

		p.CurrentStep = i + 1
		step.Status = domain.StepInProgress
		step.Error = ""
		w.record(ctx, st, step)

		stepCtx, cancel := context.WithTimeout(ctx, w.stepTimeout)
		err := def.Run(stepCtx, st)
		cancel()

		if err != nil {
			w.failRun(ctx, st, step, err)
			return
		}

		step.Status = domain.StepCompleted
		w.record(ctx, st, step)
	}

	now := w.now()
	p.Status = domain.RunCompleted
	p.CurrentStep = p.TotalSteps
	p.CompletedAt = &now
	w.record(ctx, st, nil)

	log.Info().
		Str("run_id", p.RunID.String()).
		Str("org_id", p.OrgID.String()).
		Int("steps", p.TotalSteps).
		Msg("onboarding completed")

	w.announce(ctx, notify.OnboardingCompleted(st.input.OrganizationName, st.input.OrganizationSlug, st.accessURL))
}

func (w *Workflow) failRun(ctx context.Context, st *runState, step *domain.OnboardingStep, cause error) {
	p := st.progress
	now := w.now()

	step.Status = domain.StepFailed
	step.Error = cause.Error()
	p.Errors = append(p.Errors, fmt.Sprintf("%s: %v", step.ID, cause))
	p.Status = domain.RunFailed
	p.CompletedAt = &now
	w.record(ctx, st, step)

	log.Error().Err(cause).
		Str("run_id", p.RunID.String()).
		Str("org_id", p.OrgID.String()).
		Str("step", step.ID).
		Msg("onboarding failed")

	w.announce(ctx, notify.OnboardingFailed(st.input.OrganizationName, st.input.OrganizationSlug, step.Error))
}

// record persists the current progress and publishes the transition. Both
// are detached from the run context so cancellation mid-run still leaves a
// truthful audit trail.
func (w *Workflow) record(ctx context.Context, st *runState, step *domain.OnboardingStep) {
	p := st.progress
	detached := context.WithoutCancel(ctx)

	if err := w.store.OnboardingRuns().Update(detached, p); err != nil {
		log.Error().Err(err).Str("run_id", p.RunID.String()).Msg("persist onboarding progress failed")
	}

	if w.publisher == nil {
		return
	}
	payload := newProgressEvent(p, step, w.now()).marshal()
	if err := w.publisher.Publish(detached, redis.OnboardingChannel(p.RunID), payload); err != nil {
		log.Warn().Err(err).Str("run_id", p.RunID.String()).Msg("publish onboarding progress failed")
	}
}

func (w *Workflow) announce(ctx context.Context, message string) {
	if w.ops == nil {
		return
	}
	if err := w.ops.Announce(context.WithoutCancel(ctx), message); err != nil {
		log.Warn().Err(err).Msg("ops announcement failed")
	}
}

// reconstructInput rebuilds the provisioning input from the persisted
// organization and its admin user, so a resumed run does not depend on the
// original request still being around.
func (w *Workflow) reconstructInput(ctx context.Context, org *domain.Organization) (provision.Input, error) {
	in := provision.Input{
		OrganizationName: org.Name,
		OrganizationSlug: org.Slug,
		Industry:         org.Industry,
		SubscriptionTier: org.SubscriptionTier,
		Branding: provision.BrandingInput{
			PrimaryColor:   org.Branding.PrimaryColor,
			SecondaryColor: org.Branding.SecondaryColor,
			LogoURL:        org.Branding.LogoURL,
			CustomCSS:      org.Branding.CustomCSS,
		},
		Settings: provision.SettingsInput{
			Timezone:          org.Settings.Timezone,
			Currency:          org.Settings.Currency,
			DataRetentionDays: org.Settings.DataRetentionDays,
		},
	}

	admin, err := w.store.Users().GetAdmin(ctx, org.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return in, fmt.Errorf("organization %s has no admin user", org.ID)
		}
		return in, fmt.Errorf("load admin user: %w", err)
	}

	in.AdminUser = provision.AdminUserInput{
		Email:     admin.Email,
		FirstName: admin.Profile.FirstName,
		LastName:  admin.Profile.LastName,
		Phone:     admin.Profile.Phone,
	}
	return in, nil
}

func stepsFromPlan(plan []Definition) []domain.OnboardingStep {
	steps := make([]domain.OnboardingStep, 0, len(plan))
	for _, def := range plan {
		steps = append(steps, domain.OnboardingStep{
			ID:                def.ID,
			Name:              def.Name,
			Description:       def.Description,
			Status:            domain.StepPending,
			EstimatedDuration: def.EstimatedDuration,
			Dependencies:      def.DependsOn,
		})
	}
	return steps
}

// reconcileSteps aligns the persisted step list with the current plan:
// completed statuses carry over, failed and in_progress steps reset to
// pending, and steps added to the catalog since the run started appear as
// pending.
func reconcileSteps(p *domain.OnboardingProgress, plan []Definition) {
	fresh := stepsFromPlan(plan)
	for i := range fresh {
		if prev := p.StepByID(fresh[i].ID); prev != nil && prev.Status == domain.StepCompleted {
			fresh[i].Status = domain.StepCompleted
		}
	}
	p.Steps = fresh
	p.TotalSteps = len(fresh)
	p.CurrentStep = completedCount(fresh)
}

func completedCount(steps []domain.OnboardingStep) int {
	n := 0
	for _, s := range steps {
		if s.Status == domain.StepCompleted {
			n++
		}
	}
	return n
}

func unmetDependencies(p *domain.OnboardingProgress, def *Definition) []string {
	var unmet []string
	for _, dep := range def.DependsOn {
		s := p.StepByID(dep)
		if s == nil || s.Status != domain.StepCompleted {
			unmet = append(unmet, dep)
		}
	}
	return unmet
}
