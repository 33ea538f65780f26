package finance

import (
	"github.com/wealthpath/loantape/internal/model"
	"github.com/wealthpath/loantape/pkg/random"
)

// MinCreditScore is the floor applied to drifted bureau scores.
const MinCreditScore = 300

type scoreRange struct {
	min, max int
}

var tierScores = map[model.RiskTier]scoreRange{
	model.RiskTierConservative: {720, 850},
	model.RiskTierModerate:     {650, 750},
	model.RiskTierAggressive:   {580, 720},
}

var tierRatings = map[model.RiskTier][]string{
	model.RiskTierConservative: {"A", "B"},
	model.RiskTierModerate:     {"B", "C"},
	model.RiskTierAggressive:   {"C", "D"},
}

// ScoreRange returns the inclusive origination-score range of a tier.
// Unknown tiers use the Moderate range.
func ScoreRange(tier model.RiskTier) (int, int) {
	sr, ok := tierScores[tier]
	if !ok {
		sr = tierScores[model.RiskTierModerate]
	}
	return sr.min, sr.max
}

// CreditScore draws an origination credit score for the tier.
func CreditScore(src random.Source, tier model.RiskTier) int {
	lo, hi := ScoreRange(tier)
	return src.Int(lo, hi)
}

// CurrentScore drifts an origination score down by 0-50 points, floored at MinCreditScore.
func CurrentScore(src random.Source, originationScore int) int {
	return max(originationScore-src.Int(0, 50), MinCreditScore)
}

// RiskRating draws the risk-rating letter for the tier.
func RiskRating(src random.Source, tier model.RiskTier) string {
	letters, ok := tierRatings[tier]
	if !ok {
		letters = tierRatings[model.RiskTierModerate]
	}
	return random.Pick(src, letters)
}
