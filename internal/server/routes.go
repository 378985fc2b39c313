package server

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	v1 "github.com/fieldstack/fieldstack/internal/api/v1"
	"github.com/fieldstack/fieldstack/internal/api/ws"
	"github.com/fieldstack/fieldstack/internal/onboarding"
	"github.com/fieldstack/fieldstack/internal/provision"
)

func registerAPIRoutes(api huma.API, provisioner *provision.Service, workflow *onboarding.Workflow) {
	v1.RegisterProvisioningRoutes(api, provisioner)
	v1.RegisterOnboardingRoutes(api, workflow)
}

func registerWSRoutes(r chi.Router, hub *ws.Hub) {
	r.Get("/onboarding/{runID}", hub.ServeOnboarding)
}
