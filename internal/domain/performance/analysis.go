package performance

import (
	"strconv"

	"hrms/internal/domain/core"
	"hrms/internal/domain/onboarding"
)

const monthLabelLayout = "Jan 2006"

type MonthlyAttendance struct {
	Month   string `json:"month"`
	Present int    `json:"Present"`
	Late    int    `json:"Late"`
	Absent  int    `json:"Absent"`
}

type AttendanceStats struct {
	TotalPresent      int                 `json:"totalPresent"`
	TotalLate         int                 `json:"totalLate"`
	TotalAbsent       int                 `json:"totalAbsent"`
	TotalDays         int                 `json:"totalDays"`
	PresentPercentage string              `json:"presentPercentage"`
	MonthlyBreakdown  []MonthlyAttendance `json:"monthlyBreakdown"`
}

type TaskStats struct {
	TotalTasks            int     `json:"totalTasks"`
	CompletedTasks        int     `json:"completedTasks"`
	InProgressTasks       int     `json:"inProgressTasks"`
	PendingTasks          int     `json:"pendingTasks"`
	OnTimeCompletionRate  float64 `json:"onTimeCompletionRate"`
	AvgCompletionTimeHour float64 `json:"avgCompletionTimeHours"`
}

type CoreCompetencies struct {
	Technical     float64 `json:"technical"`
	Communication float64 `json:"communication"`
	Teamwork      float64 `json:"teamwork"`
	Initiative    float64 `json:"initiative"`
	Leadership    float64 `json:"leadership"`
	Punctuality   float64 `json:"punctuality"`
}

type HistoryEntry struct {
	Period        string  `json:"period"`
	Date          string  `json:"date"`
	Score         float64 `json:"score"`
	Technical     int     `json:"technical"`
	Communication int     `json:"communication"`
	Teamwork      int     `json:"teamwork"`
	Leadership    int     `json:"leadership"`
	Initiative    int     `json:"initiative"`
}

// BuildAttendanceStats buckets raw attendance records by calendar month.
// Month keys are formatted "Jan 2006" and kept in first-seen order; only
// the last six distinct months present in the data survive into the
// breakdown.
func BuildAttendanceStats(records []core.AttendanceRecord) AttendanceStats {
	stats := AttendanceStats{MonthlyBreakdown: []MonthlyAttendance{}}

	byMonth := map[string]*MonthlyAttendance{}
	var monthOrder []string
	for _, record := range records {
		switch record.Status {
		case core.AttendancePresent:
			stats.TotalPresent++
		case core.AttendanceLate:
			stats.TotalLate++
		case core.AttendanceAbsent:
			stats.TotalAbsent++
		default:
			continue
		}

		key := record.Date.Format(monthLabelLayout)
		bucket, ok := byMonth[key]
		if !ok {
			bucket = &MonthlyAttendance{Month: key}
			byMonth[key] = bucket
			monthOrder = append(monthOrder, key)
		}
		switch record.Status {
		case core.AttendancePresent:
			bucket.Present++
		case core.AttendanceLate:
			bucket.Late++
		case core.AttendanceAbsent:
			bucket.Absent++
		}
	}

	stats.TotalDays = stats.TotalPresent + stats.TotalLate + stats.TotalAbsent
	if stats.TotalDays > 0 {
		stats.PresentPercentage = strconv.FormatFloat(float64(stats.TotalPresent)/float64(stats.TotalDays)*100, 'f', 1, 64)
	} else {
		stats.PresentPercentage = "0"
	}

	if len(monthOrder) > 6 {
		monthOrder = monthOrder[len(monthOrder)-6:]
	}
	for _, key := range monthOrder {
		stats.MonthlyBreakdown = append(stats.MonthlyBreakdown, *byMonth[key])
	}
	return stats
}

// BuildTaskStats derives completion statistics from onboarding tasks.
// Only completed tasks carrying both a start and a completion timestamp
// feed the averages. A completed task with no due date counts as on
// time. With no such tasks the on-time rate defaults to 100 while the
// average completion time defaults to 0; callers depend on that
// asymmetry.
func BuildTaskStats(tasks []onboarding.Task) TaskStats {
	stats := TaskStats{TotalTasks: len(tasks)}

	var timedCount int
	var totalHours float64
	var onTimeCount int
	for _, task := range tasks {
		switch task.Status {
		case onboarding.StatusCompleted:
			stats.CompletedTasks++
		case onboarding.StatusInProgress:
			stats.InProgressTasks++
		case onboarding.StatusPending:
			stats.PendingTasks++
		}

		if task.Status != onboarding.StatusCompleted || task.StartDate == nil || task.CompletedAt == nil {
			continue
		}
		timedCount++
		totalHours += task.CompletedAt.Sub(*task.StartDate).Hours()
		if task.DueDate == nil || !task.CompletedAt.After(*task.DueDate) {
			onTimeCount++
		}
	}

	if timedCount > 0 {
		stats.OnTimeCompletionRate = round1(float64(onTimeCount) / float64(timedCount) * 100)
		stats.AvgCompletionTimeHour = round1(totalHours / float64(timedCount))
	} else {
		stats.OnTimeCompletionRate = 100
		stats.AvgCompletionTimeHour = 0
	}
	return stats
}

// BuildCoreCompetencies projects the latest review onto the fixed
// six-dimension vector. Punctuality derives from attendance; every
// dimension defaults to 3 when no review exists.
func BuildCoreCompetencies(latest *Review, totalPresent, totalDays int) CoreCompetencies {
	if latest == nil {
		return CoreCompetencies{Technical: 3, Communication: 3, Teamwork: 3, Initiative: 3, Leadership: 3, Punctuality: 3}
	}

	punctuality := 5.0
	if totalDays > 0 {
		punctuality = float64(totalPresent) / float64(totalDays) * 5
		if punctuality < 1 {
			punctuality = 1
		}
		if punctuality > 5 {
			punctuality = 5
		}
	}

	return CoreCompetencies{
		Technical:     float64(latest.Scores.Technical),
		Communication: float64(latest.Scores.Communication),
		Teamwork:      float64(latest.Scores.Teamwork),
		Initiative:    float64(latest.Scores.Initiative),
		Leadership:    float64(latest.Scores.Leadership),
		Punctuality:   punctuality,
	}
}

// BuildHistory re-orders newest-first reviews into an ascending
// timeline with human-readable period labels.
func BuildHistory(reviews []Review) []HistoryEntry {
	out := make([]HistoryEntry, 0, len(reviews))
	for i := len(reviews) - 1; i >= 0; i-- {
		r := reviews[i]
		out = append(out, HistoryEntry{
			Period:        PeriodLabel(r.ReviewPeriod),
			Date:          r.ReviewPeriod.EndDate.Format("2006-01-02"),
			Score:         r.AverageScore,
			Technical:     r.Scores.Technical,
			Communication: r.Scores.Communication,
			Teamwork:      r.Scores.Teamwork,
			Leadership:    r.Scores.Leadership,
			Initiative:    r.Scores.Initiative,
		})
	}
	return out
}

func PeriodLabel(period ReviewPeriod) string {
	return period.StartDate.Format(monthLabelLayout) + " - " + period.EndDate.Format(monthLabelLayout)
}

func round1(value float64) float64 {
	parsed, _ := strconv.ParseFloat(strconv.FormatFloat(value, 'f', 1, 64), 64)
	return parsed
}
