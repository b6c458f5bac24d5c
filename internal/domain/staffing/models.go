package staffing

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	ProjectStatusPlanning  = "planning"
	ProjectStatusActive    = "active"
	ProjectStatusCompleted = "completed"
	ProjectStatusOnHold    = "on_hold"
)

const (
	AllocationStatusPlanned   = "planned"
	AllocationStatusActive    = "active"
	AllocationStatusCompleted = "completed"
)

type Project struct {
	ID             string     `json:"id"`
	ProjectNumber  string     `json:"projectId"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	RequiredSkills []string   `json:"requiredSkills"`
	StartDate      *time.Time `json:"startDate,omitempty"`
	EndDate        *time.Time `json:"endDate,omitempty"`
	Status         string     `json:"status"`
	Priority       string     `json:"priority"`
	ManagerID      string     `json:"managerId,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

type Allocation struct {
	ID                string     `json:"id"`
	EmployeeID        string     `json:"employeeId"`
	EmployeeNumber    string     `json:"employeeNumber,omitempty"`
	ProjectID         string     `json:"projectId"`
	ProjectName       string     `json:"projectName,omitempty"`
	AllocationPercent int        `json:"allocationPercent"`
	StartDate         *time.Time `json:"startDate,omitempty"`
	EndDate           *time.Time `json:"endDate,omitempty"`
	Role              string     `json:"role"`
	Status            string     `json:"status"`
	MatchScore        *float64   `json:"matchScore,omitempty"`
	MatchExplanation  *string    `json:"matchExplanation,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// NextProjectNumber produces the sequential PRJ### identifier that
// follows the highest one already assigned; PRJ001 starts the sequence.
func NextProjectNumber(highest string) string {
	if !strings.HasPrefix(highest, "PRJ") {
		return "PRJ001"
	}
	last, err := strconv.Atoi(strings.TrimPrefix(highest, "PRJ"))
	if err != nil {
		return "PRJ001"
	}
	return fmt.Sprintf("PRJ%03d", last+1)
}

// TotalAllocationPercent sums the allocation percentages that count
// against an employee's availability: planned and active records only.
func TotalAllocationPercent(allocations []Allocation) int {
	total := 0
	for _, a := range allocations {
		if a.Status == AllocationStatusPlanned || a.Status == AllocationStatusActive {
			total += a.AllocationPercent
		}
	}
	return total
}
