package performance

import (
	"testing"
	"time"

	"hrms/internal/domain/core"
	"hrms/internal/domain/onboarding"
)

func day(year int, month time.Month, dayOfMonth int) time.Time {
	return time.Date(year, month, dayOfMonth, 9, 0, 0, 0, time.UTC)
}

func TestBuildAttendanceStatsCounts(t *testing.T) {
	var records []core.AttendanceRecord
	for i := 0; i < 17; i++ {
		records = append(records, core.AttendanceRecord{Date: day(2025, time.March, i+1), Status: core.AttendancePresent})
	}
	records = append(records,
		core.AttendanceRecord{Date: day(2025, time.March, 20), Status: core.AttendanceLate},
		core.AttendanceRecord{Date: day(2025, time.March, 21), Status: core.AttendanceLate},
		core.AttendanceRecord{Date: day(2025, time.March, 22), Status: core.AttendanceAbsent},
	)

	stats := BuildAttendanceStats(records)
	if stats.TotalDays != 20 {
		t.Fatalf("expected 20 total days, got %d", stats.TotalDays)
	}
	if stats.PresentPercentage != "85.0" {
		t.Fatalf("expected presentPercentage 85.0, got %q", stats.PresentPercentage)
	}
	if stats.TotalPresent != 17 || stats.TotalLate != 2 || stats.TotalAbsent != 1 {
		t.Fatalf("unexpected counts: %+v", stats)
	}
}

func TestBuildAttendanceStatsEmpty(t *testing.T) {
	stats := BuildAttendanceStats(nil)
	if stats.TotalDays != 0 {
		t.Fatalf("expected 0 total days, got %d", stats.TotalDays)
	}
	if stats.PresentPercentage != "0" {
		t.Fatalf("expected presentPercentage 0, got %q", stats.PresentPercentage)
	}
	if len(stats.MonthlyBreakdown) != 0 {
		t.Fatalf("expected empty breakdown, got %+v", stats.MonthlyBreakdown)
	}
}

func TestBuildAttendanceStatsMonthlyBreakdownKeepsLastSixMonths(t *testing.T) {
	var records []core.AttendanceRecord
	for month := time.January; month <= time.August; month++ {
		records = append(records, core.AttendanceRecord{Date: day(2025, month, 3), Status: core.AttendancePresent})
	}

	stats := BuildAttendanceStats(records)
	if len(stats.MonthlyBreakdown) != 6 {
		t.Fatalf("expected 6 months, got %d", len(stats.MonthlyBreakdown))
	}
	if stats.MonthlyBreakdown[0].Month != "Mar 2025" {
		t.Fatalf("expected window to start at Mar 2025, got %s", stats.MonthlyBreakdown[0].Month)
	}
	if stats.MonthlyBreakdown[5].Month != "Aug 2025" {
		t.Fatalf("expected window to end at Aug 2025, got %s", stats.MonthlyBreakdown[5].Month)
	}
}

func TestBuildAttendanceStatsMonthOrderFollowsFirstSeen(t *testing.T) {
	// Out-of-order input keeps first-seen month ordering, not
	// chronological ordering.
	records := []core.AttendanceRecord{
		{Date: day(2025, time.May, 2), Status: core.AttendancePresent},
		{Date: day(2025, time.April, 10), Status: core.AttendanceLate},
		{Date: day(2025, time.May, 6), Status: core.AttendanceAbsent},
	}

	stats := BuildAttendanceStats(records)
	if len(stats.MonthlyBreakdown) != 2 {
		t.Fatalf("expected 2 months, got %d", len(stats.MonthlyBreakdown))
	}
	if stats.MonthlyBreakdown[0].Month != "May 2025" || stats.MonthlyBreakdown[1].Month != "Apr 2025" {
		t.Fatalf("unexpected month order: %+v", stats.MonthlyBreakdown)
	}
	if stats.MonthlyBreakdown[0].Present != 1 || stats.MonthlyBreakdown[0].Absent != 1 {
		t.Fatalf("unexpected May bucket: %+v", stats.MonthlyBreakdown[0])
	}
}

func ptrTime(t time.Time) *time.Time { return &t }

func TestBuildTaskStatsOnTimeWithoutDueDate(t *testing.T) {
	start := day(2025, time.June, 1)
	tasks := []onboarding.Task{
		{
			Status:      onboarding.StatusCompleted,
			StartDate:   ptrTime(start),
			CompletedAt: ptrTime(start.Add(30 * time.Hour)),
			// No due date: counts as on time no matter how late.
		},
	}

	stats := BuildTaskStats(tasks)
	if stats.OnTimeCompletionRate != 100 {
		t.Fatalf("expected 100%% on-time, got %v", stats.OnTimeCompletionRate)
	}
	if stats.AvgCompletionTimeHour != 30 {
		t.Fatalf("expected 30h average, got %v", stats.AvgCompletionTimeHour)
	}
}

func TestBuildTaskStatsLateCompletion(t *testing.T) {
	start := day(2025, time.June, 1)
	due := start.Add(24 * time.Hour)
	tasks := []onboarding.Task{
		{
			Status:      onboarding.StatusCompleted,
			StartDate:   ptrTime(start),
			CompletedAt: ptrTime(start.Add(48 * time.Hour)),
			DueDate:     ptrTime(due),
		},
		{
			Status:      onboarding.StatusCompleted,
			StartDate:   ptrTime(start),
			CompletedAt: ptrTime(start.Add(12 * time.Hour)),
			DueDate:     ptrTime(due),
		},
	}

	stats := BuildTaskStats(tasks)
	if stats.OnTimeCompletionRate != 50 {
		t.Fatalf("expected 50%% on-time, got %v", stats.OnTimeCompletionRate)
	}
	if stats.AvgCompletionTimeHour != 30 {
		t.Fatalf("expected 30h average, got %v", stats.AvgCompletionTimeHour)
	}
}

func TestBuildTaskStatsZeroDataDefaults(t *testing.T) {
	// No timed completions means on-time rate 100 but average
	// completion time 0; the asymmetry is part of the contract.
	tasks := []onboarding.Task{
		{Status: onboarding.StatusPending},
		{Status: onboarding.StatusInProgress},
		{Status: onboarding.StatusCompleted}, // no timestamps
	}

	stats := BuildTaskStats(tasks)
	if stats.TotalTasks != 3 || stats.CompletedTasks != 1 || stats.InProgressTasks != 1 || stats.PendingTasks != 1 {
		t.Fatalf("unexpected status counts: %+v", stats)
	}
	if stats.OnTimeCompletionRate != 100 {
		t.Fatalf("expected default on-time rate 100, got %v", stats.OnTimeCompletionRate)
	}
	if stats.AvgCompletionTimeHour != 0 {
		t.Fatalf("expected default avg completion time 0, got %v", stats.AvgCompletionTimeHour)
	}
}

func TestBuildCoreCompetenciesFromLatestReview(t *testing.T) {
	latest := &Review{Scores: Scores{Technical: 4, Communication: 5, Teamwork: 3, Leadership: 2, Initiative: 4}}

	competencies := BuildCoreCompetencies(latest, 17, 20)
	if competencies.Technical != 4 || competencies.Communication != 5 {
		t.Fatalf("unexpected competencies: %+v", competencies)
	}
	// 17/20 * 5 = 4.25
	if competencies.Punctuality != 4.25 {
		t.Fatalf("expected punctuality 4.25, got %v", competencies.Punctuality)
	}
}

func TestBuildCoreCompetenciesPunctualityBounds(t *testing.T) {
	latest := &Review{Scores: Scores{Technical: 3, Communication: 3, Teamwork: 3, Leadership: 3, Initiative: 3}}

	if got := BuildCoreCompetencies(latest, 0, 20).Punctuality; got != 1 {
		t.Fatalf("expected punctuality clamped to 1, got %v", got)
	}
	if got := BuildCoreCompetencies(latest, 0, 0).Punctuality; got != 5 {
		t.Fatalf("expected punctuality 5 with no attendance, got %v", got)
	}
}

func TestBuildCoreCompetenciesNoReviewDefaults(t *testing.T) {
	competencies := BuildCoreCompetencies(nil, 17, 20)
	want := CoreCompetencies{Technical: 3, Communication: 3, Teamwork: 3, Initiative: 3, Leadership: 3, Punctuality: 3}
	if competencies != want {
		t.Fatalf("expected all-3 defaults, got %+v", competencies)
	}
}

func TestBuildHistoryReversesToAscending(t *testing.T) {
	reviews := []Review{
		{
			AverageScore: 4.2,
			ReviewPeriod: ReviewPeriod{StartDate: day(2025, time.April, 1), EndDate: day(2025, time.June, 30)},
		},
		{
			AverageScore: 3.8,
			ReviewPeriod: ReviewPeriod{StartDate: day(2025, time.January, 1), EndDate: day(2025, time.March, 31)},
		},
	}

	history := BuildHistory(reviews)
	if len(history) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(history))
	}
	if history[0].Period != "Jan 2025 - Mar 2025" {
		t.Fatalf("expected oldest first, got %s", history[0].Period)
	}
	if history[1].Score != 4.2 {
		t.Fatalf("expected newest last with score 4.2, got %v", history[1].Score)
	}
}

func TestAverageOf(t *testing.T) {
	scores := Scores{Technical: 4, Communication: 3, Teamwork: 5, Leadership: 2, Initiative: 4}
	if got := AverageOf(scores); got != 3.6 {
		t.Fatalf("expected 3.6, got %v", got)
	}
}
