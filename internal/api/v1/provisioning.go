package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/fieldstack/fieldstack/internal/provision"
	"github.com/fieldstack/fieldstack/internal/server/middleware"
)

type ProvisionClientInput struct {
	Body provision.Input
}

type ProvisionClientOutput struct {
	Body *provision.Result
}

// RegisterProvisioningRoutes wires the tenant provisioning endpoint. The
// outcome is always the structured result envelope: failed runs report their
// reason in the body instead of a bare error status, so operators see
// warnings and partial outcomes in one place.
func RegisterProvisioningRoutes(api huma.API, svc ProvisioningService) {
	huma.Register(api, huma.Operation{
		OperationID: "provision-client",
		Method:      http.MethodPost,
		Path:        "/provisioning/clients",
		Summary:     "Provision a new client organization",
		Tags:        []string{"Provisioning"},
	}, func(ctx context.Context, input *ProvisionClientInput) (*ProvisionClientOutput, error) {
		role, ok := middleware.RoleFromContext(ctx)
		if !ok || role != "admin" {
			return nil, huma.Error403Forbidden("admin role required")
		}

		res := svc.ProvisionNewClient(ctx, input.Body)
		return &ProvisionClientOutput{Body: res}, nil
	})
}
