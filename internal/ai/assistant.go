package ai

import (
	"context"
	"strings"

	"github.com/spigell/lead-scorer/internal/leads"
)

const (
	// MaxPoints is the upper bound of the intent layer contribution.
	MaxPoints = 50

	IntentHigh   = "High"
	IntentMedium = "Medium"
	IntentLow    = "Low"

	skippedReasoning = "AI scoring skipped for testing."
)

type IntentAssessment struct {
	Intent    string
	Points    int
	Reasoning string
	Raw       string
}

// IntentScorer classifies how likely a lead is to buy the offer.
type IntentScorer interface {
	Score(ctx context.Context, lead *leads.Lead, offer *leads.Offer) (*IntentAssessment, error)
}

// Static is the intent layer used when no provider is configured.
type Static struct{}

func (Static) Score(context.Context, *leads.Lead, *leads.Offer) (*IntentAssessment, error) {
	return &IntentAssessment{
		Intent:    IntentHigh,
		Points:    MaxPoints,
		Reasoning: skippedReasoning,
	}, nil
}

// ClampPoints keeps provider output inside [0, MaxPoints].
func ClampPoints(points int) int {
	switch {
	case points < 0:
		return 0
	case points > MaxPoints:
		return MaxPoints
	default:
		return points
	}
}

// PointsForIntent maps an intent label to its default contribution.
func PointsForIntent(intent string) (int, bool) {
	switch strings.ToLower(strings.TrimSpace(intent)) {
	case "high":
		return MaxPoints, true
	case "medium":
		return 30, true
	case "low":
		return 10, true
	default:
		return 0, false
	}
}

// NormalizeIntent returns the canonical label or an empty string for unknown values.
func NormalizeIntent(intent string) string {
	switch strings.ToLower(strings.TrimSpace(intent)) {
	case "high":
		return IntentHigh
	case "medium":
		return IntentMedium
	case "low":
		return IntentLow
	default:
		return ""
	}
}

// IntentForPoints picks a label for providers that only return points.
func IntentForPoints(points int) string {
	switch {
	case points >= 40:
		return IntentHigh
	case points >= 20:
		return IntentMedium
	default:
		return IntentLow
	}
}
