package v1_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/fieldstack/fieldstack/internal/api/v1"
	"github.com/fieldstack/fieldstack/internal/provision"
)

// ---------------------------------------------------------------------------
// POST /provisioning/clients
// ---------------------------------------------------------------------------

func TestProvisionClient(t *testing.T) {
	t.Parallel()

	t.Run("happy_path_admin", func(t *testing.T) {
		t.Parallel()

		orgID := uuid.New()
		userID := uuid.New()

		_, api := humatest.New(t)
		svc := &mockProvisioningService{
			provisionFunc: func(_ context.Context, in provision.Input) *provision.Result {
				assert.Equal(t, "Precision Auto Works", in.OrganizationName)
				assert.Equal(t, "precision-auto", in.OrganizationSlug)
				assert.Equal(t, "owner@precisionauto.example", in.AdminUser.Email)
				return &provision.Result{
					Success:        true,
					OrganizationID: &orgID,
					UserID:         &userID,
					AccessURL:      "https://app.fieldstack.test/precision-auto",
				}
			},
		}

		v1.RegisterProvisioningRoutes(api, svc)

		resp := api.PostCtx(adminCtx(), "/provisioning/clients", provisionBody())

		require.Equal(t, http.StatusOK, resp.Code)

		var body provision.Result
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.True(t, body.Success)
		require.NotNil(t, body.OrganizationID)
		assert.Equal(t, orgID, *body.OrganizationID)
		assert.Equal(t, "https://app.fieldstack.test/precision-auto", body.AccessURL)
	})

	t.Run("failed_run_reported_in_body", func(t *testing.T) {
		t.Parallel()

		// Provisioning failures are part of the result envelope, not HTTP
		// errors.
		_, api := humatest.New(t)
		svc := &mockProvisioningService{
			provisionFunc: func(_ context.Context, _ provision.Input) *provision.Result {
				return &provision.Result{
					Success: false,
					Error:   `organization slug "precision-auto" already exists`,
				}
			},
		}

		v1.RegisterProvisioningRoutes(api, svc)

		resp := api.PostCtx(adminCtx(), "/provisioning/clients", provisionBody())

		require.Equal(t, http.StatusOK, resp.Code)

		var body provision.Result
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.False(t, body.Success)
		assert.Contains(t, body.Error, "already exists")
		assert.Nil(t, body.OrganizationID)
	})

	t.Run("warnings_passed_through", func(t *testing.T) {
		t.Parallel()

		orgID := uuid.New()

		_, api := humatest.New(t)
		svc := &mockProvisioningService{
			provisionFunc: func(_ context.Context, _ provision.Input) *provision.Result {
				return &provision.Result{
					Success:        true,
					OrganizationID: &orgID,
					Warnings:       []string{"client profile creation failed, fix manually"},
				}
			},
		}

		v1.RegisterProvisioningRoutes(api, svc)

		resp := api.PostCtx(adminCtx(), "/provisioning/clients", provisionBody())

		require.Equal(t, http.StatusOK, resp.Code)

		var body provision.Result
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.True(t, body.Success)
		require.Len(t, body.Warnings, 1)
	})

	t.Run("non_admin_forbidden", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockProvisioningService{}

		v1.RegisterProvisioningRoutes(api, svc)

		resp := api.PostCtx(operatorCtx("viewer"), "/provisioning/clients", provisionBody())

		assert.Equal(t, http.StatusForbidden, resp.Code)

		var errBody map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&errBody))
		assert.EqualValues(t, http.StatusForbidden, errBody["status"])
	})

	t.Run("missing_role_forbidden", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockProvisioningService{}

		v1.RegisterProvisioningRoutes(api, svc)

		resp := api.PostCtx(operatorCtx(""), "/provisioning/clients", provisionBody())

		assert.Equal(t, http.StatusForbidden, resp.Code)
	})
}
