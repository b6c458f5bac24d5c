package performance

import "time"

const (
	ReviewStatusDraft     = "draft"
	ReviewStatusSubmitted = "submitted"
	ReviewStatusReviewed  = "reviewed"
	ReviewStatusFinalized = "finalized"
)

type ReviewPeriod struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

type Scores struct {
	Technical     int `json:"technical"`
	Communication int `json:"communication"`
	Teamwork      int `json:"teamwork"`
	Leadership    int `json:"leadership"`
	Initiative    int `json:"initiative"`
}

type Review struct {
	ID                  string       `json:"id"`
	EmployeeID          string       `json:"employeeId"`
	EmployeeNumber      string       `json:"employeeNumber,omitempty"`
	ReviewerID          string       `json:"reviewerId"`
	ReviewerNumber      string       `json:"reviewerNumber,omitempty"`
	ReviewPeriod        ReviewPeriod `json:"reviewPeriod"`
	Scores              Scores       `json:"scores"`
	AverageScore        float64      `json:"averageScore"`
	Strengths           string       `json:"strengths"`
	AreasForImprovement string       `json:"areasForImprovement"`
	Goals               string       `json:"goals"`
	Status              string       `json:"status"`
	CreatedAt           time.Time    `json:"createdAt"`
	UpdatedAt           time.Time    `json:"updatedAt"`
}

// AverageOf mirrors the persistence-time invariant: the stored average
// is always the plain mean of the five dimensions, recomputed on every
// write including partial score updates.
func AverageOf(s Scores) float64 {
	return float64(s.Technical+s.Communication+s.Teamwork+s.Leadership+s.Initiative) / 5
}
