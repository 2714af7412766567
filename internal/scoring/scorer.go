package scoring

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/lead-scorer/internal/ai"
	"github.com/spigell/lead-scorer/internal/leads"
	"github.com/spigell/lead-scorer/internal/logger"
)

const defaultWorkers = 4

var (
	ErrNoOffer = errors.New("offer is not set")
	ErrNoLeads = errors.New("no leads to score")
)

// Scorer combines the rule layer with an intent layer for every lead.
type Scorer struct {
	intent  ai.IntentScorer
	workers int
	logger  *zap.Logger
}

// Layer describes one scoring layer for status reporting.
type Layer struct {
	Name    string            `json:"name"`
	Enabled bool              `json:"enabled"`
	Details map[string]string `json:"details,omitempty"`
}

// describer is implemented by intent scorers that can report their settings.
type describer interface {
	Describe() map[string]string
}

// New creates a Scorer. A nil intent scorer falls back to ai.Static.
func New(intent ai.IntentScorer, workers int, logger *zap.Logger) *Scorer {
	if intent == nil {
		intent = ai.Static{}
	}
	if workers <= 0 {
		workers = defaultWorkers
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scorer{
		intent:  intent,
		workers: workers,
		logger:  logger,
	}
}

// Score scores every lead independently and returns results in input order.
// The first intent layer failure cancels the remaining work.
func (s *Scorer) Score(ctx context.Context, offer *leads.Offer, items []*leads.Lead) ([]leads.ScoredLead, error) {
	if offer == nil {
		return nil, ErrNoOffer
	}
	if len(items) == 0 {
		return nil, ErrNoLeads
	}

	results := make([]leads.ScoredLead, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, lead := range items {
		if lead == nil {
			lead = &leads.Lead{}
		}
		g.Go(func() error {
			scored, err := s.scoreOne(gctx, lead, offer)
			if err != nil {
				return fmt.Errorf("scoring lead %d (%s): %w", i+1, lead.Name, err)
			}
			results[i] = scored
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Debug("leads scored", zap.Int("count", len(results)))

	return results, nil
}

func (s *Scorer) scoreOne(ctx context.Context, lead *leads.Lead, offer *leads.Offer) (leads.ScoredLead, error) {
	rule := RuleScore(lead, offer)

	assessment, err := s.intent.Score(ctx, lead, offer)
	if err != nil {
		return leads.ScoredLead{}, err
	}
	if assessment == nil {
		return leads.ScoredLead{}, errors.New("intent scorer returned no assessment")
	}

	scored := leads.ScoredLead{
		Lead:      *lead,
		Intent:    assessment.Intent,
		Score:     rule + ai.ClampPoints(assessment.Points),
		Reasoning: fmt.Sprintf("Rule score: %d. AI: %s", rule, assessment.Reasoning),
	}
	scored.Extra = maps.Clone(lead.Extra)

	s.logger.Debug("lead scored", append(logger.LeadFields(lead.Name, lead.Company),
		zap.Int("rule_score", rule),
		zap.String("intent", scored.Intent),
		zap.Int("score", scored.Score),
	)...)

	return scored, nil
}

// Describe reports the active layers.
func (s *Scorer) Describe() []Layer {
	intentDetails := map[string]string{"provider": "static"}
	if d, ok := s.intent.(describer); ok {
		intentDetails = d.Describe()
	}
	intentDetails["workers"] = strconv.Itoa(s.workers)

	return []Layer{
		{
			Name:    "rule",
			Enabled: true,
			Details: map[string]string{
				"decision_makers": strings.Join(DecisionMakers, ","),
				"influencers":     strings.Join(Influencers, ","),
				"max_score":       strconv.Itoa(MaxRuleScore),
			},
		},
		{
			Name:    "intent",
			Enabled: true,
			Details: intentDetails,
		},
	}
}
