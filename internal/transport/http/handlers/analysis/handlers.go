package analysishandler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jung-kurt/gofpdf"

	"hrms/internal/domain/core"
	"hrms/internal/domain/onboarding"
	"hrms/internal/domain/performance"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
)

type Handler struct {
	Core        *core.Store
	Performance *performance.Store
	Onboarding  *onboarding.Store
}

func NewHandler(coreStore *core.Store, performanceStore *performance.Store, onboardingStore *onboarding.Store) *Handler {
	return &Handler{Core: coreStore, Performance: performanceStore, Onboarding: onboardingStore}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/performance-analysis", func(r chi.Router) {
		r.Get("/employees", h.handleListEmployees)
		r.Get("/{employeeID}", h.handleAnalysis)
		r.Get("/{employeeID}/export", h.handleExport)
	})
}

type employeeSummary struct {
	ID             string `json:"id"`
	EmployeeNumber string `json:"employeeId"`
	Name           string `json:"name"`
	JobTitle       string `json:"jobTitle"`
	Department     string `json:"department"`
	Status         string `json:"status"`
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	employees, err := h.Core.ListEmployees(r.Context(), "")
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "analysis_list_failed", "failed to list employees", reqID)
		return
	}

	out := make([]employeeSummary, 0, len(employees))
	for _, e := range employees {
		out = append(out, employeeSummary{
			ID:             e.ID,
			EmployeeNumber: e.EmployeeNumber,
			Name:           e.FullName(),
			JobTitle:       e.JobTitle,
			Department:     e.Department,
			Status:         e.Status,
		})
	}
	api.Success(w, out, reqID)
}

type analysisResponse struct {
	Employee           employeeSummary              `json:"employee"`
	PerformanceHistory []performance.HistoryEntry   `json:"performanceHistory"`
	AttendanceStats    performance.AttendanceStats  `json:"attendanceStats"`
	TaskStats          performance.TaskStats        `json:"taskStats"`
	CoreCompetencies   performance.CoreCompetencies `json:"coreCompetencies"`
	LatestReview       *latestReviewSummary         `json:"latestReview"`
}

type latestReviewSummary struct {
	Period              string  `json:"period"`
	AverageScore        float64 `json:"averageScore"`
	Strengths           string  `json:"strengths"`
	AreasForImprovement string  `json:"areasForImprovement"`
	Goals               string  `json:"goals"`
	Status              string  `json:"status"`
}

func (h *Handler) assemble(r *http.Request, employeeID string) (*analysisResponse, error) {
	employee, err := h.Core.GetEmployee(r.Context(), employeeID)
	if err != nil {
		return nil, err
	}

	reviews, err := h.Performance.RecentReviewsByPeriodEnd(r.Context(), employee.ID, 6)
	if err != nil {
		return nil, err
	}
	tasks, err := h.Onboarding.ListByEmployee(r.Context(), employee.ID)
	if err != nil {
		return nil, err
	}

	attendanceStats := performance.BuildAttendanceStats(employee.Attendance)

	var latest *performance.Review
	if len(reviews) > 0 {
		latest = &reviews[0]
	}

	out := &analysisResponse{
		Employee: employeeSummary{
			ID:             employee.ID,
			EmployeeNumber: employee.EmployeeNumber,
			Name:           employee.FullName(),
			JobTitle:       employee.JobTitle,
			Department:     employee.Department,
			Status:         employee.Status,
		},
		PerformanceHistory: performance.BuildHistory(reviews),
		AttendanceStats:    attendanceStats,
		TaskStats:          performance.BuildTaskStats(tasks),
		CoreCompetencies:   performance.BuildCoreCompetencies(latest, attendanceStats.TotalPresent, attendanceStats.TotalDays),
	}
	if latest != nil {
		out.LatestReview = &latestReviewSummary{
			Period:              performance.PeriodLabel(latest.ReviewPeriod),
			AverageScore:        latest.AverageScore,
			Strengths:           latest.Strengths,
			AreasForImprovement: latest.AreasForImprovement,
			Goals:               latest.Goals,
			Status:              latest.Status,
		}
	}
	return out, nil
}

func (h *Handler) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	analysis, err := h.assemble(r, chi.URLParam(r, "employeeID"))
	if errors.Is(err, core.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "analysis_failed", "failed to build performance analysis", reqID)
		return
	}
	api.Success(w, analysis, reqID)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	analysis, err := h.assemble(r, chi.URLParam(r, "employeeID"))
	if errors.Is(err, core.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "analysis_failed", "failed to build performance analysis", reqID)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Performance Analysis")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s (%s)", analysis.Employee.Name, analysis.Employee.EmployeeNumber))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Role: %s, %s", analysis.Employee.JobTitle, analysis.Employee.Department))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Attendance")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Present: %d  Late: %d  Absent: %d  (%s%% present over %d days)",
		analysis.AttendanceStats.TotalPresent, analysis.AttendanceStats.TotalLate,
		analysis.AttendanceStats.TotalAbsent, analysis.AttendanceStats.PresentPercentage,
		analysis.AttendanceStats.TotalDays))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Onboarding Tasks")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Completed %d of %d, on-time rate %.1f%%, avg completion %.1fh",
		analysis.TaskStats.CompletedTasks, analysis.TaskStats.TotalTasks,
		analysis.TaskStats.OnTimeCompletionRate, analysis.TaskStats.AvgCompletionTimeHour))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Review History")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 12)
	if len(analysis.PerformanceHistory) == 0 {
		pdf.Cell(0, 8, "No reviews recorded.")
		pdf.Ln(7)
	}
	for _, entry := range analysis.PerformanceHistory {
		pdf.Cell(0, 8, fmt.Sprintf("%s: %.1f", entry.Period, entry.Score))
		pdf.Ln(7)
	}

	if analysis.LatestReview != nil {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "B", 13)
		pdf.Cell(0, 8, "Latest Review")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 12)
		pdf.Cell(0, 8, fmt.Sprintf("%s - average %.1f (%s)", analysis.LatestReview.Period,
			analysis.LatestReview.AverageScore, analysis.LatestReview.Status))
		pdf.Ln(7)
		if analysis.LatestReview.Strengths != "" {
			pdf.MultiCell(0, 6, "Strengths: "+analysis.LatestReview.Strengths, "", "", false)
		}
		if analysis.LatestReview.AreasForImprovement != "" {
			pdf.MultiCell(0, 6, "Areas for improvement: "+analysis.LatestReview.AreasForImprovement, "", "", false)
		}
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "performance-"+analysis.Employee.EmployeeNumber+".pdf"))
	if err := pdf.Output(w); err != nil {
		slog.Warn("pdf export failed", "err", err, "requestId", reqID)
	}
}
