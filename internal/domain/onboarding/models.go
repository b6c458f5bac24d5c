package onboarding

import "time"

const (
	PhaseDay1   = "day1"
	PhaseWeek1  = "week1"
	PhaseMonth1 = "month1"
	PhaseMonth3 = "month3"
)

const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

var Phases = []string{PhaseDay1, PhaseWeek1, PhaseMonth1, PhaseMonth3}

type Task struct {
	ID            string     `json:"id"`
	EmployeeID    string     `json:"employeeId"`
	Phase         string     `json:"phase"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Duration      string     `json:"duration,omitempty"`
	Status        string     `json:"status"`
	DueDate       *time.Time `json:"dueDate,omitempty"`
	StartDate     *time.Time `json:"startDate,omitempty"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
	AssignedTo    string     `json:"assignedTo,omitempty"`
	GeneratedByAI bool       `json:"generatedByAI"`
	Order         int        `json:"order"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}
