package onboarding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldstack/fieldstack/internal/domain"
)

func planIndex(t *testing.T, plan []Definition, id string) int {
	t.Helper()
	for i, d := range plan {
		if d.ID == id {
			return i
		}
	}
	t.Fatalf("step %q not in plan", id)
	return -1
}

func TestCompilePlan_CatalogCompilesForEveryIndustry(t *testing.T) {
	t.Parallel()

	w := &Workflow{}

	for _, industry := range domain.Industries() {
		defs := w.catalog(industry)
		require.Len(t, defs, 13, industry)

		plan, err := compilePlan(defs)
		require.NoError(t, err, industry)
		require.Len(t, plan, 13)

		// Every step comes after all of its dependencies.
		for _, d := range plan {
			for _, dep := range d.DependsOn {
				assert.Less(t, planIndex(t, plan, dep), planIndex(t, plan, d.ID),
					"%s must run after %s", d.ID, dep)
			}
		}
	}
}

func TestCompilePlan_StableAmongReadySteps(t *testing.T) {
	t.Parallel()

	defs := []Definition{
		{ID: "c", DependsOn: []string{"a"}},
		{ID: "a"},
		{ID: "b", DependsOn: []string{"a"}},
	}

	plan, err := compilePlan(defs)
	require.NoError(t, err)

	// a first; c before b because catalog order is preserved among ready steps.
	assert.Equal(t, "a", plan[0].ID)
	assert.Equal(t, "c", plan[1].ID)
	assert.Equal(t, "b", plan[2].ID)
}

func TestCompilePlan_DuplicateStep(t *testing.T) {
	t.Parallel()

	defs := []Definition{{ID: "a"}, {ID: "a"}}

	_, err := compilePlan(defs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate step "a"`)
}

func TestCompilePlan_UnknownDependency(t *testing.T) {
	t.Parallel()

	defs := []Definition{{ID: "a", DependsOn: []string{"ghost"}}}

	_, err := compilePlan(defs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown step "ghost"`)
}

func TestCompilePlan_Cycle(t *testing.T) {
	t.Parallel()

	defs := []Definition{
		{ID: "a", DependsOn: []string{"b"}},
		{ID: "b", DependsOn: []string{"a"}},
	}

	_, err := compilePlan(defs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestCatalog_ExtensionStepsDependOnDashboard(t *testing.T) {
	t.Parallel()

	w := &Workflow{}

	tests := []struct {
		industry domain.Industry
		first    string
		second   string
	}{
		{domain.IndustryAutoRepair, StepTechnicianTracking, StepServiceCategories},
		{domain.IndustryContractors, StepProjectTracking, StepBiddingSystem},
		{domain.IndustryPropertyManagement, StepPropertyProfiles, StepTenantTracking},
	}

	for _, tc := range tests {
		exts := w.industrySteps(tc.industry)
		require.Len(t, exts, 2, tc.industry)
		assert.Equal(t, tc.first, exts[0].ID)
		assert.Equal(t, []string{StepConfigureDash}, exts[0].DependsOn)
		assert.Equal(t, tc.second, exts[1].ID)
		assert.Equal(t, []string{tc.first}, exts[1].DependsOn)
	}
}
