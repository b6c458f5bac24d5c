package insights

import (
	"testing"

	"hrms/internal/domain/performance"
)

func reviewsWithAverages(averages ...float64) []performance.Review {
	out := make([]performance.Review, len(averages))
	for i, avg := range averages {
		out[i] = performance.Review{AverageScore: avg}
	}
	return out
}

func TestEstimateAttritionRiskLowScoreHighAllocation(t *testing.T) {
	estimate := EstimateAttritionRisk(reviewsWithAverages(2.0), 90)
	// base 0.5 + 0.3 (avg < 2.5) + 0.1 (allocation > 0.8) = 0.9
	if estimate.AttritionRisk != 0.9 {
		t.Fatalf("expected risk 0.9, got %v", estimate.AttritionRisk)
	}
	if estimate.TopFactors[0].Impact != 0.3 {
		t.Fatalf("expected avgReviewScore impact 0.3, got %v", estimate.TopFactors[0].Impact)
	}
	if estimate.TopFactors[1].Impact != 0.1 {
		t.Fatalf("expected recentAllocations impact 0.1, got %v", estimate.TopFactors[1].Impact)
	}
	if estimate.Explain != "Rule-based: avg score=2.0, allocation=90%" {
		t.Fatalf("unexpected explain: %q", estimate.Explain)
	}
}

func TestEstimateAttritionRiskHighPerformer(t *testing.T) {
	estimate := EstimateAttritionRisk(reviewsWithAverages(4.5, 4.7), 40)
	// base 0.5 - 0.3 (avg > 4.0) = 0.2
	if estimate.AttritionRisk != 0.2 {
		t.Fatalf("expected risk 0.2, got %v", estimate.AttritionRisk)
	}
	if estimate.TopFactors[0].Impact != -0.2 || estimate.TopFactors[1].Impact != -0.05 {
		t.Fatalf("unexpected factor impacts: %+v", estimate.TopFactors)
	}
}

func TestEstimateAttritionRiskDefaults(t *testing.T) {
	// No reviews: average defaults to 3.0; default allocation is the
	// caller's 50 when the employee record is missing.
	estimate := EstimateAttritionRisk(nil, 50)
	if estimate.AttritionRisk != 0.5 {
		t.Fatalf("expected baseline risk 0.5, got %v", estimate.AttritionRisk)
	}
	if len(estimate.TopFactors) != 2 {
		t.Fatalf("expected two fixed factors, got %d", len(estimate.TopFactors))
	}
	if estimate.TopFactors[0].Feature != "avgReviewScore" || estimate.TopFactors[1].Feature != "recentAllocations" {
		t.Fatalf("unexpected factor names: %+v", estimate.TopFactors)
	}
}

func TestEstimateAttritionRiskClamped(t *testing.T) {
	// avg exactly between thresholds, allocation over 0.8:
	// 0.5 + 0.1 = 0.6, no clamping needed; clamp only guards the
	// boundary arithmetic.
	estimate := EstimateAttritionRisk(reviewsWithAverages(3.0), 100)
	if estimate.AttritionRisk != 0.6 {
		t.Fatalf("expected risk 0.6, got %v", estimate.AttritionRisk)
	}
}

func TestEstimateAttritionRiskAveragesMultipleReviews(t *testing.T) {
	// (2.0 + 2.5 + 2.4) / 3 = 2.3 < 2.5 → 0.5 + 0.3 = 0.8
	estimate := EstimateAttritionRisk(reviewsWithAverages(2.0, 2.5, 2.4), 10)
	if estimate.AttritionRisk != 0.8 {
		t.Fatalf("expected risk 0.8, got %v", estimate.AttritionRisk)
	}
}
