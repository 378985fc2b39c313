package onboarding

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/fieldstack/fieldstack/internal/domain"
	"github.com/fieldstack/fieldstack/internal/notify"
)

// schemaVersion is stamped into an organization's settings when its database
// initialization step completes.
const schemaVersion = "2025.2"

const (
	sampleDays          = 30
	maxSampleRecordsDay = 3
)

func (w *Workflow) runValidateData(ctx context.Context, st *runState) error {
	if err := st.input.Validate(); err != nil {
		return err
	}
	if st.resumed {
		// The organization must still exist for the rest of the run to act on.
		if _, err := w.store.Organizations().GetByID(ctx, st.orgID); err != nil {
			return fmt.Errorf("organization lookup: %w", err)
		}
	}
	return nil
}

func (w *Workflow) runProvisionInfra(ctx context.Context, st *runState) error {
	if st.resumed {
		// Provisioning already happened; verify its outputs instead of
		// re-running it.
		if _, err := w.store.Organizations().GetByID(ctx, st.orgID); err != nil {
			return fmt.Errorf("organization lookup: %w", err)
		}
		admin, err := w.store.Users().GetAdmin(ctx, st.orgID)
		if err != nil {
			return fmt.Errorf("admin user lookup: %w", err)
		}
		st.adminID = admin.ID
		return w.adoptOrg(ctx, st)
	}

	res := w.provisioner.ProvisionNewClient(ctx, st.input)
	if !res.Success {
		return errors.New(res.Error)
	}
	for _, warning := range res.Warnings {
		log.Warn().
			Str("run_id", st.progress.RunID.String()).
			Str("slug", st.input.OrganizationSlug).
			Msg("provisioning warning: " + warning)
	}

	st.orgID = *res.OrganizationID
	st.adminID = *res.UserID
	st.accessURL = res.AccessURL
	return w.adoptOrg(ctx, st)
}

// adoptOrg swaps the run's placeholder organization id for the real one.
func (w *Workflow) adoptOrg(ctx context.Context, st *runState) error {
	st.progress.OrgID = st.orgID
	if err := w.store.OnboardingRuns().Update(ctx, st.progress); err != nil {
		return fmt.Errorf("bind run to organization: %w", err)
	}
	return nil
}

func (w *Workflow) runSetupDatabase(ctx context.Context, st *runState) error {
	org, err := w.store.Organizations().GetByID(ctx, st.orgID)
	if err != nil {
		return fmt.Errorf("organization lookup: %w", err)
	}
	if org.Settings.DatabaseInitialized {
		return nil
	}

	now := w.now()
	org.Settings.DatabaseInitialized = true
	org.Settings.InitializedAt = &now
	org.Settings.SchemaVersion = schemaVersion
	org.UpdatedAt = now

	if err := w.store.Organizations().Update(ctx, org); err != nil {
		return fmt.Errorf("mark database initialized: %w", err)
	}
	return nil
}

func (w *Workflow) runConfigureDashboard(ctx context.Context, st *runState) error {
	_, err := w.store.Profiles().GetByOrg(ctx, st.orgID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("profile lookup: %w", err)
	}

	// Provisioning degraded past profile creation; build it from the
	// industry template now.
	ip := domain.ProfileFor(st.input.Industry)
	layout, metrics := ip.DefaultProfile()

	err = w.store.Profiles().Create(ctx, &domain.ClientProfile{
		ID:              uuid.New(),
		OrgID:           st.orgID,
		DashboardLayout: layout,
		Metrics:         metrics,
		Terminology:     ip.Terminology,
		CreatedAt:       w.now(),
	})
	if err != nil && !errors.Is(err, domain.ErrConflict) {
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

func (w *Workflow) runSetupDataSources(ctx context.Context, st *runState) error {
	for _, tmpl := range domain.ProfileFor(st.input.Industry).DefaultDataSources {
		if err := w.ensureDataSource(ctx, st.orgID, tmpl); err != nil {
			return err
		}
	}
	return nil
}

// ensureDataSource registers a templated feed unless one with the same name
// already exists for the organization.
func (w *Workflow) ensureDataSource(ctx context.Context, orgID uuid.UUID, tmpl domain.DataSourceTemplate) error {
	_, err := w.store.DataSources().GetByOrgAndName(ctx, orgID, tmpl.Name)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("data source %q lookup: %w", tmpl.Name, err)
	}

	err = w.store.DataSources().Create(ctx, &domain.DataSource{
		ID:               uuid.New(),
		OrgID:            orgID,
		Name:             tmpl.Name,
		Kind:             tmpl.Kind,
		ConnectionConfig: tmpl.ConnectionConfig,
		RefreshInterval:  tmpl.RefreshInterval,
		CreatedAt:        w.now(),
	})
	if err != nil && !errors.Is(err, domain.ErrConflict) {
		return fmt.Errorf("create data source %q: %w", tmpl.Name, err)
	}
	return nil
}

func (w *Workflow) runGenerateSampleData(ctx context.Context, st *runState) error {
	count, err := w.store.DataPoints().CountByOrg(ctx, st.orgID)
	if err != nil {
		return fmt.Errorf("data point count: %w", err)
	}
	if count > 0 {
		return nil
	}

	ip := domain.ProfileFor(st.input.Industry)
	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	now := w.now()

	var points []*domain.DataPoint
	for day := 0; day < sampleDays; day++ {
		recorded := now.AddDate(0, 0, -day)
		for n := 1 + rng.IntN(maxSampleRecordsDay); n > 0; n-- {
			points = append(points, &domain.DataPoint{
				ID:         uuid.New(),
				OrgID:      st.orgID,
				Kind:       ip.SampleKind,
				Metrics:    ip.SampleMetrics(rng),
				RecordedAt: recorded,
			})
		}
	}

	if err := w.store.DataPoints().CreateBatch(ctx, points); err != nil {
		return fmt.Errorf("write sample data: %w", err)
	}
	return nil
}

func (w *Workflow) runInitRecommendations(ctx context.Context, st *runState) error {
	count, err := w.store.Recommendations().CountByOrg(ctx, st.orgID)
	if err != nil {
		return fmt.Errorf("recommendation count: %w", err)
	}
	if count > 0 {
		return nil
	}

	history, err := w.store.DataPoints().ListByOrg(ctx, st.orgID, 100)
	if err != nil {
		return fmt.Errorf("load data history: %w", err)
	}

	recs := w.engine.InitialRecommendations(ctx, st.orgID, st.input.Industry, nil, history)
	if err := w.store.Recommendations().CreateBatch(ctx, recs); err != nil {
		return fmt.Errorf("write recommendations: %w", err)
	}
	return nil
}

func (w *Workflow) runConfigureBranding(ctx context.Context, st *runState) error {
	org, err := w.store.Organizations().GetByID(ctx, st.orgID)
	if err != nil {
		return fmt.Errorf("organization lookup: %w", err)
	}

	ip := domain.ProfileFor(org.Industry)
	want := org.Branding

	if v := st.input.Branding.PrimaryColor; v != "" {
		want.PrimaryColor = v
	}
	if v := st.input.Branding.SecondaryColor; v != "" {
		want.SecondaryColor = v
	}
	if v := st.input.Branding.LogoURL; v != "" {
		want.LogoURL = v
	}
	if v := st.input.Branding.CustomCSS; v != "" {
		want.CustomCSS = v
	}
	if want.PrimaryColor == "" {
		want.PrimaryColor = ip.PrimaryColor
	}
	if want.SecondaryColor == "" {
		want.SecondaryColor = ip.SecondaryColor
	}

	if want == org.Branding {
		return nil
	}

	org.Branding = want
	org.UpdatedAt = w.now()
	if err := w.store.Organizations().Update(ctx, org); err != nil {
		return fmt.Errorf("apply branding: %w", err)
	}
	return nil
}

func (w *Workflow) runSetupNotifications(ctx context.Context, st *runState) error {
	admin, err := w.store.Users().GetAdmin(ctx, st.orgID)
	if err != nil {
		return fmt.Errorf("admin user lookup: %w", err)
	}
	st.adminID = admin.ID

	prefs := admin.Profile.Preferences
	prefs.Notifications = true
	prefs.EmailNotifications = true
	prefs.DashboardNotifications = true
	prefs.WeeklyReports = true

	if err := w.store.Users().UpdatePreferences(ctx, st.orgID, admin.Email, prefs); err != nil {
		return fmt.Errorf("update notification preferences: %w", err)
	}
	return nil
}

// runFinalValidation re-reads everything the run was supposed to produce and
// fails with the full list of gaps rather than the first one.
func (w *Workflow) runFinalValidation(ctx context.Context, st *runState) error {
	var gaps []string

	org, err := w.store.Organizations().GetByID(ctx, st.orgID)
	switch {
	case err != nil:
		gaps = append(gaps, fmt.Sprintf("organization unreadable: %v", err))
	case org.DeploymentStatus != domain.DeploymentActive:
		gaps = append(gaps, fmt.Sprintf("organization not active (status %s)", org.DeploymentStatus))
	case !org.Settings.DatabaseInitialized:
		gaps = append(gaps, "database not initialized")
	}

	if _, err := w.store.Users().GetAdmin(ctx, st.orgID); err != nil {
		gaps = append(gaps, fmt.Sprintf("admin user missing: %v", err))
	}
	if _, err := w.store.Profiles().GetByOrg(ctx, st.orgID); err != nil {
		gaps = append(gaps, fmt.Sprintf("dashboard profile missing: %v", err))
	}

	if sources, err := w.store.DataSources().ListByOrg(ctx, st.orgID); err != nil {
		gaps = append(gaps, fmt.Sprintf("data sources unreadable: %v", err))
	} else if len(sources) == 0 {
		gaps = append(gaps, "no data sources configured")
	}

	if count, err := w.store.Recommendations().CountByOrg(ctx, st.orgID); err != nil {
		gaps = append(gaps, fmt.Sprintf("recommendations unreadable: %v", err))
	} else if count == 0 {
		gaps = append(gaps, "no recommendations present")
	}

	if len(gaps) > 0 {
		return fmt.Errorf("validation found gaps: %s", strings.Join(gaps, "; "))
	}
	return nil
}

func (w *Workflow) runSendWelcome(ctx context.Context, st *runState) error {
	if err := w.mailer.SendWelcome(ctx, notify.WelcomePackage{
		To:               st.input.AdminUser.Email,
		OrganizationName: st.input.OrganizationName,
		AccessURL:        st.accessURL,
		AdminFirstName:   st.input.AdminUser.FirstName,
	}); err != nil {
		return fmt.Errorf("send welcome package: %w", err)
	}
	return nil
}
