package recruitment

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	JobStatusOpen   = "Open"
	JobStatusClosed = "Closed"
)

// DemoPassword is the initial credential for accounts created through
// the hire flow; users are expected to change it at first login.
const DemoPassword = "demo123"

type JobOpening struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Department     string    `json:"department"`
	Description    string    `json:"description"`
	RequiredSkills []string  `json:"requiredSkills"`
	Status         string    `json:"status"`
	PostedDate     time.Time `json:"postedDate"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type MockResume struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	ResumeText      string    `json:"resumeText"`
	Skills          []string  `json:"skills"`
	ExperienceYears int       `json:"experienceYears"`
	Education       string    `json:"education"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// NextEmployeeNumber produces the sequential EMP### identifier that
// follows the highest one already assigned. The numeric suffix is
// parsed and incremented, then zero-padded back to at least three
// digits; EMP001 starts the sequence.
func NextEmployeeNumber(highest string) string {
	if !strings.HasPrefix(highest, "EMP") {
		return "EMP001"
	}
	last, err := strconv.Atoi(strings.TrimPrefix(highest, "EMP"))
	if err != nil {
		return "EMP001"
	}
	return fmt.Sprintf("EMP%03d", last+1)
}

// SplitName breaks a resume's full name into first and last parts on
// the first space; a missing surname becomes "Unknown".
func SplitName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", "Unknown"
	}
	first = parts[0]
	if len(parts) == 1 {
		return first, "Unknown"
	}
	return first, strings.Join(parts[1:], " ")
}
