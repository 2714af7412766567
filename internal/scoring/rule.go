package scoring

import (
	"slices"
	"strings"

	"github.com/spigell/lead-scorer/internal/leads"
)

const (
	decisionMakerPoints    = 20
	influencerPoints       = 10
	icpIndustryPoints      = 20
	adjacentIndustryPoints = 10
	completenessPoints     = 10

	// MaxRuleScore is the highest score the rule layer can produce.
	MaxRuleScore = decisionMakerPoints + icpIndustryPoints + completenessPoints
)

var (
	// Roles are matched exactly, case included.
	DecisionMakers = []string{"Head of Growth", "VP Sales", "CEO", "Founder"}
	Influencers    = []string{"Manager", "Director"}
)

// RuleScore returns the deterministic part of a lead score, in [0, MaxRuleScore].
func RuleScore(lead *leads.Lead, offer *leads.Offer) int {
	if lead == nil {
		lead = &leads.Lead{}
	}

	score := 0

	switch {
	case slices.Contains(DecisionMakers, lead.Role):
		score += decisionMakerPoints
	case slices.Contains(Influencers, lead.Role):
		score += influencerPoints
	}

	if offer != nil && matchesICP(lead.Industry, offer.IdealUseCases) {
		score += icpIndustryPoints
	} else {
		score += adjacentIndustryPoints
	}

	if lead.Complete() {
		score += completenessPoints
	}

	return score
}

func matchesICP(industry string, useCases []string) bool {
	industry = strings.ToLower(industry)
	for _, useCase := range useCases {
		if strings.ToLower(useCase) == industry {
			return true
		}
	}
	return false
}
