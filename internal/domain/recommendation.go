package domain

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
)

// RecommendationCategory groups suggested actions by the business lever they
// pull. The numeric rank makes the sort order an explicit total order rather
// than a string comparison.
type RecommendationCategory string

const (
	CategoryEfficiency RecommendationCategory = "efficiency"
	CategoryRevenue    RecommendationCategory = "revenue"
	CategoryQuality    RecommendationCategory = "quality"
	CategoryOccupancy  RecommendationCategory = "occupancy"
	CategoryCost       RecommendationCategory = "cost"
)

var categoryRank = map[RecommendationCategory]int{
	CategoryRevenue:    5,
	CategoryEfficiency: 4,
	CategoryOccupancy:  3,
	CategoryQuality:    2,
	CategoryCost:       1,
}

// Rank returns the category's position in the display ordering. Unknown
// categories sort last.
func (c RecommendationCategory) Rank() int { return categoryRank[c] }

// RecommendationPriority orders recommendations by urgency.
type RecommendationPriority string

const (
	PriorityLow    RecommendationPriority = "low"
	PriorityMedium RecommendationPriority = "medium"
	PriorityHigh   RecommendationPriority = "high"
	PriorityUrgent RecommendationPriority = "urgent"
)

var priorityRank = map[RecommendationPriority]int{
	PriorityUrgent: 4,
	PriorityHigh:   3,
	PriorityMedium: 2,
	PriorityLow:    1,
}

// Rank returns the priority's position in the ordering. Unknown priorities
// sort last.
func (p RecommendationPriority) Rank() int { return priorityRank[p] }

// Difficulty of implementing a recommendation.
type Difficulty string

const (
	DifficultyLow    Difficulty = "low"
	DifficultyMedium Difficulty = "medium"
	DifficultyHigh   Difficulty = "high"
)

// Provenance values for Recommendation.GeneratedBy.
const (
	GeneratedByEngine   = "recommendation-engine"
	GeneratedByFallback = "fallback-rules"
)

// Recommendation is a suggested action for an organization, produced either
// by the external generator or by the deterministic rule-based fallback.
// GeneratedBy records which, so provenance stays auditable.
type Recommendation struct {
	ID                  uuid.UUID              `json:"id"`
	OrgID               uuid.UUID              `json:"orgId"`
	Category            RecommendationCategory `json:"category"`
	IndustryType        string                 `json:"industryType"`
	Title               string                 `json:"title"`
	Description         string                 `json:"description"`
	ImpactScore         int                    `json:"impactScore"` // 0-100
	Difficulty          Difficulty             `json:"difficulty"`
	EstimatedCost       float64                `json:"estimatedCost"`
	EstimatedSavings    float64                `json:"estimatedSavings"`
	PaybackPeriodMonths int                    `json:"paybackPeriodMonths"`
	Priority            RecommendationPriority `json:"priority"`
	ActionItems         []string               `json:"actionItems"`
	Status              string                 `json:"status"`
	GeneratedBy         string                 `json:"generatedBy"`
	CreatedAt           time.Time              `json:"createdAt"`
}

// SortRecommendations orders by priority first, then expected savings, both
// descending. The sort is stable so equal entries keep their insertion order.
func SortRecommendations(recs []*Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		if pi, pj := recs[i].Priority.Rank(), recs[j].Priority.Rank(); pi != pj {
			return pi > pj
		}
		return recs[i].EstimatedSavings > recs[j].EstimatedSavings
	})
}

type RecommendationRepository interface {
	CreateBatch(ctx context.Context, recs []*Recommendation) error
	ListByOrg(ctx context.Context, orgID uuid.UUID) ([]*Recommendation, error)
	CountByOrg(ctx context.Context, orgID uuid.UUID) (int, error)
	DeleteByOrg(ctx context.Context, orgID uuid.UUID) error
}
