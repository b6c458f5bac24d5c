package insights

import (
	"fmt"
	"math"

	"hrms/internal/domain/performance"
)

const (
	defaultAvgScore = 3.0
	baseRisk        = 0.5

	// DefaultAllocationPercent is assumed when the employee record
	// cannot be found.
	DefaultAllocationPercent = 50
)

type RiskFactor struct {
	Feature string  `json:"feature"`
	Impact  float64 `json:"impact"`
}

type RiskEstimate struct {
	AttritionRisk float64      `json:"attritionRisk"`
	TopFactors    []RiskFactor `json:"topFactors"`
	Explain       string       `json:"explain"`
}

// EstimateAttritionRisk is the rule-based stand-in used when the AI
// service is down. Reviews are the newest few by creation time;
// allocationPercent should be the employee's current allocation, or
// the 50% default when the employee record is missing. The factor
// impacts are fixed constants, not outputs of any model.
func EstimateAttritionRisk(reviews []performance.Review, allocationPercent int) RiskEstimate {
	avgScore := defaultAvgScore
	if len(reviews) > 0 {
		sum := 0.0
		for _, r := range reviews {
			sum += r.AverageScore
		}
		avgScore = sum / float64(len(reviews))
	}

	allocationFactor := float64(allocationPercent) / 100

	risk := baseRisk
	if avgScore < 2.5 {
		risk += 0.3
	}
	if avgScore > 4.0 {
		risk -= 0.3
	}
	if allocationFactor > 0.8 {
		risk += 0.1
	}
	risk = math.Max(0, math.Min(1, risk))

	scoreImpact := -0.2
	if avgScore < 3 {
		scoreImpact = 0.3
	}
	allocationImpact := -0.05
	if allocationFactor > 0.8 {
		allocationImpact = 0.1
	}

	return RiskEstimate{
		AttritionRisk: math.Round(risk*100) / 100,
		TopFactors: []RiskFactor{
			{Feature: "avgReviewScore", Impact: scoreImpact},
			{Feature: "recentAllocations", Impact: allocationImpact},
		},
		Explain: fmt.Sprintf("Rule-based: avg score=%.1f, allocation=%d%%", avgScore, int(math.Round(allocationFactor*100))),
	}
}
