package insights

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"hrms/internal/domain/core"
)

const DefaultTopK = 5

const (
	tokenOverlapWeight = 0.6
	availabilityWeight = 0.4
)

type Candidate struct {
	EmployeeID     string   `json:"employeeId"`
	EmployeeName   string   `json:"employeeName"`
	Score          float64  `json:"score"`
	MatchingSkills []string `json:"matchingSkills"`
	Explain        string   `json:"explain"`
}

// MatchCandidates scores employees against a project's required skills
// when the AI service cannot. An employee skill matches when its
// lowercase form appears as a substring of any required skill's
// lowercase form; this over-matches on partial tokens ("java" matches
// "javascript") and is kept verbatim rather than tightened to exact
// set intersection. Blend: 0.6 token overlap + 0.4 availability,
// rounded to two decimals. Sorting is stable, so equal scores keep the
// input ordering.
func MatchCandidates(requiredSkills []string, employees []core.Employee, topK int) []Candidate {
	if topK <= 0 {
		topK = DefaultTopK
	}

	candidates := make([]Candidate, 0, len(employees))
	for _, emp := range employees {
		matching := matchingSkills(requiredSkills, emp.Skills)
		tokenOverlap := float64(len(matching)) / math.Max(float64(len(requiredSkills)), 1)
		availability := float64(100-emp.CurrentAllocationPercent) / 100
		score := tokenOverlapWeight*tokenOverlap + availabilityWeight*availability

		candidates = append(candidates, Candidate{
			EmployeeID:     emp.ID,
			EmployeeName:   emp.FullName(),
			Score:          math.Round(score*100) / 100,
			MatchingSkills: matching,
			Explain: fmt.Sprintf("Token overlap: %d/%d skills. Current allocation: %d%%",
				len(matching), len(requiredSkills), emp.CurrentAllocationPercent),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > topK {
		candidates = candidates[:topK]
	}
	return candidates
}

func matchingSkills(requiredSkills, employeeSkills []string) []string {
	matching := []string{}
	for _, skill := range employeeSkills {
		lowered := strings.ToLower(skill)
		for _, required := range requiredSkills {
			if strings.Contains(strings.ToLower(required), lowered) {
				matching = append(matching, skill)
				break
			}
		}
	}
	return matching
}
