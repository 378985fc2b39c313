// Package memory provides an in-memory implementation of the repository
// interfaces. It enforces the same uniqueness rules as the postgres store
// (slug, principal email, one profile per org) and is used by tests and
// local demos.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/fieldstack/fieldstack/internal/domain"
)

type Store struct {
	mu              sync.Mutex
	orgs            map[uuid.UUID]*domain.Organization
	principals      map[uuid.UUID]*domain.Principal
	users           map[string]*domain.User // key: id|orgID
	profiles        map[uuid.UUID]*domain.ClientProfile // key: orgID
	dataSources     map[uuid.UUID]*domain.DataSource
	dataPoints      map[uuid.UUID]*domain.DataPoint
	recommendations map[uuid.UUID]*domain.Recommendation
	runs            map[uuid.UUID]*domain.OnboardingProgress
}

func New() *Store {
	return &Store{
		orgs:            make(map[uuid.UUID]*domain.Organization),
		principals:      make(map[uuid.UUID]*domain.Principal),
		users:           make(map[string]*domain.User),
		profiles:        make(map[uuid.UUID]*domain.ClientProfile),
		dataSources:     make(map[uuid.UUID]*domain.DataSource),
		dataPoints:      make(map[uuid.UUID]*domain.DataPoint),
		recommendations: make(map[uuid.UUID]*domain.Recommendation),
		runs:            make(map[uuid.UUID]*domain.OnboardingProgress),
	}
}

func (s *Store) Organizations() domain.OrganizationRepository     { return &orgRepo{s} }
func (s *Store) Principals() domain.PrincipalRepository           { return &principalRepo{s} }
func (s *Store) Users() domain.UserRepository                     { return &userRepo{s} }
func (s *Store) Profiles() domain.ClientProfileRepository         { return &profileRepo{s} }
func (s *Store) DataSources() domain.DataSourceRepository         { return &dataSourceRepo{s} }
func (s *Store) DataPoints() domain.DataPointRepository           { return &dataPointRepo{s} }
func (s *Store) Recommendations() domain.RecommendationRepository { return &recommendationRepo{s} }
func (s *Store) OnboardingRuns() domain.OnboardingRunRepository   { return &runRepo{s} }

func userKey(id, orgID uuid.UUID) string { return id.String() + "|" + orgID.String() }

// --- Organizations ---

type orgRepo struct{ s *Store }

func (r *orgRepo) Create(_ context.Context, o *domain.Organization) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.orgs {
		if existing.Slug == o.Slug {
			return fmt.Errorf("memory.orgRepo.Create: slug %q: %w", o.Slug, domain.ErrConflict)
		}
	}

	cp := *o
	r.s.orgs[o.ID] = &cp
	return nil
}

func (r *orgRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Organization, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.orgs[id]
	if !ok {
		return nil, fmt.Errorf("memory.orgRepo.GetByID: %w", domain.ErrNotFound)
	}
	cp := *o
	return &cp, nil
}

func (r *orgRepo) GetBySlug(_ context.Context, slug string) (*domain.Organization, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, o := range r.s.orgs {
		if o.Slug == slug {
			cp := *o
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("memory.orgRepo.GetBySlug: %w", domain.ErrNotFound)
}

func (r *orgRepo) Update(_ context.Context, o *domain.Organization) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.orgs[o.ID]; !ok {
		return fmt.Errorf("memory.orgRepo.Update: %w", domain.ErrNotFound)
	}
	cp := *o
	r.s.orgs[o.ID] = &cp
	return nil
}

func (r *orgRepo) UpdateDeploymentStatus(_ context.Context, id uuid.UUID, status domain.DeploymentStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.orgs[id]
	if !ok {
		return fmt.Errorf("memory.orgRepo.UpdateDeploymentStatus: %w", domain.ErrNotFound)
	}
	o.DeploymentStatus = status
	return nil
}

func (r *orgRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.orgs[id]; !ok {
		return fmt.Errorf("memory.orgRepo.Delete: %w", domain.ErrNotFound)
	}
	delete(r.s.orgs, id)

	// Cascade like the SQL schema does.
	for k, u := range r.s.users {
		if u.OrgID == id {
			delete(r.s.users, k)
		}
	}
	delete(r.s.profiles, id)
	for k, ds := range r.s.dataSources {
		if ds.OrgID == id {
			delete(r.s.dataSources, k)
		}
	}
	for k, p := range r.s.dataPoints {
		if p.OrgID == id {
			delete(r.s.dataPoints, k)
		}
	}
	for k, rec := range r.s.recommendations {
		if rec.OrgID == id {
			delete(r.s.recommendations, k)
		}
	}
	return nil
}

func (r *orgRepo) List(_ context.Context) ([]*domain.Organization, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]*domain.Organization, 0, len(r.s.orgs))
	for _, o := range r.s.orgs {
		cp := *o
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// --- Principals ---

type principalRepo struct{ s *Store }

func (r *principalRepo) Create(_ context.Context, p *domain.Principal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.principals {
		if existing.Email == p.Email {
			return fmt.Errorf("memory.principalRepo.Create: email %q: %w", p.Email, domain.ErrConflict)
		}
	}

	cp := *p
	r.s.principals[p.ID] = &cp
	return nil
}

func (r *principalRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Principal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.principals[id]
	if !ok {
		return nil, fmt.Errorf("memory.principalRepo.GetByID: %w", domain.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (r *principalRepo) GetByEmail(_ context.Context, email string) (*domain.Principal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, p := range r.s.principals {
		if p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("memory.principalRepo.GetByEmail: %w", domain.ErrNotFound)
}

func (r *principalRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.principals[id]; !ok {
		return fmt.Errorf("memory.principalRepo.Delete: %w", domain.ErrNotFound)
	}
	delete(r.s.principals, id)
	return nil
}

// --- Users ---

type userRepo struct{ s *Store }

func (r *userRepo) Upsert(_ context.Context, u *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cp := *u
	r.s.users[userKey(u.ID, u.OrgID)] = &cp
	return nil
}

func (r *userRepo) GetByID(_ context.Context, orgID, id uuid.UUID) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[userKey(id, orgID)]
	if !ok {
		return nil, fmt.Errorf("memory.userRepo.GetByID: %w", domain.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (r *userRepo) GetByOrgAndEmail(_ context.Context, orgID uuid.UUID, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.OrgID == orgID && u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("memory.userRepo.GetByOrgAndEmail: %w", domain.ErrNotFound)
}

func (r *userRepo) GetAdmin(_ context.Context, orgID uuid.UUID) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.OrgID == orgID && u.Role == domain.RoleAdmin && u.IsActive {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("memory.userRepo.GetAdmin: %w", domain.ErrNotFound)
}

func (r *userRepo) UpdatePreferences(_ context.Context, orgID uuid.UUID, email string, prefs domain.UserPreferences) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.OrgID == orgID && u.Email == email {
			u.Profile.Preferences = prefs
			return nil
		}
	}
	return fmt.Errorf("memory.userRepo.UpdatePreferences: %w", domain.ErrNotFound)
}

func (r *userRepo) ListByOrg(_ context.Context, orgID uuid.UUID) ([]*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*domain.User
	for _, u := range r.s.users {
		if u.OrgID == orgID {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// --- Client profiles ---

type profileRepo struct{ s *Store }

func (r *profileRepo) Create(_ context.Context, p *domain.ClientProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.profiles[p.OrgID]; ok {
		return fmt.Errorf("memory.profileRepo.Create: org %s: %w", p.OrgID, domain.ErrConflict)
	}
	cp := *p
	r.s.profiles[p.OrgID] = &cp
	return nil
}

func (r *profileRepo) GetByOrg(_ context.Context, orgID uuid.UUID) (*domain.ClientProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.profiles[orgID]
	if !ok {
		return nil, fmt.Errorf("memory.profileRepo.GetByOrg: %w", domain.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (r *profileRepo) Delete(_ context.Context, orgID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.profiles[orgID]; !ok {
		return fmt.Errorf("memory.profileRepo.Delete: %w", domain.ErrNotFound)
	}
	delete(r.s.profiles, orgID)
	return nil
}

// --- Data sources ---

type dataSourceRepo struct{ s *Store }

func (r *dataSourceRepo) Create(_ context.Context, ds *domain.DataSource) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.dataSources {
		if existing.OrgID == ds.OrgID && existing.Name == ds.Name {
			return fmt.Errorf("memory.dataSourceRepo.Create: %q: %w", ds.Name, domain.ErrConflict)
		}
	}
	cp := *ds
	r.s.dataSources[ds.ID] = &cp
	return nil
}

func (r *dataSourceRepo) GetByOrgAndName(_ context.Context, orgID uuid.UUID, name string) (*domain.DataSource, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, ds := range r.s.dataSources {
		if ds.OrgID == orgID && ds.Name == name {
			cp := *ds
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("memory.dataSourceRepo.GetByOrgAndName: %w", domain.ErrNotFound)
}

func (r *dataSourceRepo) ListByOrg(_ context.Context, orgID uuid.UUID) ([]*domain.DataSource, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*domain.DataSource
	for _, ds := range r.s.dataSources {
		if ds.OrgID == orgID {
			cp := *ds
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *dataSourceRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.dataSources[id]; !ok {
		return fmt.Errorf("memory.dataSourceRepo.Delete: %w", domain.ErrNotFound)
	}
	delete(r.s.dataSources, id)
	return nil
}

// --- Data points ---

type dataPointRepo struct{ s *Store }

func (r *dataPointRepo) CreateBatch(_ context.Context, points []*domain.DataPoint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, p := range points {
		cp := *p
		r.s.dataPoints[p.ID] = &cp
	}
	return nil
}

func (r *dataPointRepo) CountByOrg(_ context.Context, orgID uuid.UUID) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n := 0
	for _, p := range r.s.dataPoints {
		if p.OrgID == orgID {
			n++
		}
	}
	return n, nil
}

func (r *dataPointRepo) ListByOrg(_ context.Context, orgID uuid.UUID, limit int) ([]*domain.DataPoint, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*domain.DataPoint
	for _, p := range r.s.dataPoints {
		if p.OrgID == orgID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordedAt.After(out[j].RecordedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// --- Recommendations ---

type recommendationRepo struct{ s *Store }

func (r *recommendationRepo) CreateBatch(_ context.Context, recs []*domain.Recommendation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, rec := range recs {
		cp := *rec
		r.s.recommendations[rec.ID] = &cp
	}
	return nil
}

func (r *recommendationRepo) ListByOrg(_ context.Context, orgID uuid.UUID) ([]*domain.Recommendation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*domain.Recommendation
	for _, rec := range r.s.recommendations {
		if rec.OrgID == orgID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	domain.SortRecommendations(out)
	return out, nil
}

func (r *recommendationRepo) CountByOrg(_ context.Context, orgID uuid.UUID) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n := 0
	for _, rec := range r.s.recommendations {
		if rec.OrgID == orgID {
			n++
		}
	}
	return n, nil
}

func (r *recommendationRepo) DeleteByOrg(_ context.Context, orgID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for k, rec := range r.s.recommendations {
		if rec.OrgID == orgID {
			delete(r.s.recommendations, k)
		}
	}
	return nil
}

// --- Onboarding runs ---

type runRepo struct{ s *Store }

func (r *runRepo) Create(_ context.Context, p *domain.OnboardingProgress) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.runs[p.RunID]; ok {
		return fmt.Errorf("memory.runRepo.Create: run %s: %w", p.RunID, domain.ErrConflict)
	}
	r.s.runs[p.RunID] = cloneRun(p)
	return nil
}

func (r *runRepo) Update(_ context.Context, p *domain.OnboardingProgress) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.runs[p.RunID]; !ok {
		return fmt.Errorf("memory.runRepo.Update: %w", domain.ErrNotFound)
	}
	r.s.runs[p.RunID] = cloneRun(p)
	return nil
}

func (r *runRepo) GetByID(_ context.Context, runID uuid.UUID) (*domain.OnboardingProgress, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.runs[runID]
	if !ok {
		return nil, fmt.Errorf("memory.runRepo.GetByID: %w", domain.ErrNotFound)
	}
	return cloneRun(p), nil
}

func (r *runRepo) GetLatestByOrg(_ context.Context, orgID uuid.UUID) (*domain.OnboardingProgress, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var latest *domain.OnboardingProgress
	for _, p := range r.s.runs {
		if p.OrgID != orgID {
			continue
		}
		if latest == nil || p.StartedAt.After(latest.StartedAt) {
			latest = p
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("memory.runRepo.GetLatestByOrg: %w", domain.ErrNotFound)
	}
	return cloneRun(latest), nil
}

func cloneRun(p *domain.OnboardingProgress) *domain.OnboardingProgress {
	cp := *p
	cp.Steps = make([]domain.OnboardingStep, len(p.Steps))
	copy(cp.Steps, p.Steps)
	cp.Errors = make([]string, len(p.Errors))
	copy(cp.Errors, p.Errors)
	return &cp
}
