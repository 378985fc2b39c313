// Package recommend produces suggested actions for a tenant, either through
// the external recommendation service or through a deterministic rule-based
// fallback keyed by industry.
package recommend

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/fieldstack/fieldstack/internal/domain"
)

// PerformanceMetric is one observed metric handed to the generator.
type PerformanceMetric struct {
	Value     float64 `json:"value"`
	Trend     string  `json:"trend"` // "up", "down", "stable"
	Benchmark float64 `json:"benchmark,omitempty"`
	Period    string  `json:"period"`
}

// Generator produces recommendations from metrics and history. It may fail
// or stall; callers bound it with a timeout and fall back to rules.
type Generator interface {
	Generate(ctx context.Context, industry domain.Industry, metrics map[string]PerformanceMetric, history []*domain.DataPoint) ([]*domain.Recommendation, error)
}

// HTTPGenerator calls the external recommendation service.
type HTTPGenerator struct {
	client *resty.Client
}

// NewHTTPGenerator creates a generator talking to the service at baseURL.
func NewHTTPGenerator(baseURL string, timeout time.Duration) *HTTPGenerator {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	return &HTTPGenerator{client: client}
}

type generateRequest struct {
	Industry domain.Industry              `json:"industry"`
	Metrics  map[string]PerformanceMetric `json:"metrics"`
	History  []*domain.DataPoint          `json:"history"`
}

type generateResponse struct {
	Recommendations []*domain.Recommendation `json:"recommendations"`
}

func (g *HTTPGenerator) Generate(ctx context.Context, industry domain.Industry, metrics map[string]PerformanceMetric, history []*domain.DataPoint) ([]*domain.Recommendation, error) {
	var out generateResponse

	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(generateRequest{Industry: industry, Metrics: metrics, History: history}).
		SetResult(&out).
		Post("/v1/recommendations")
	if err != nil {
		return nil, fmt.Errorf("recommend.HTTPGenerator.Generate: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("recommend.HTTPGenerator.Generate: status %d", resp.StatusCode())
	}
	if len(out.Recommendations) == 0 {
		return nil, fmt.Errorf("recommend.HTTPGenerator.Generate: empty response")
	}

	return out.Recommendations, nil
}
